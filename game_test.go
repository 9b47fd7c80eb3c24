package chessgif

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadPGN(t *testing.T) {
	game, err := LoadPGN(strings.NewReader(fourPlyPGN))
	if err != nil {
		t.Fatalf("LoadPGN: %v", err)
	}
	if game.PlyCount() != 4 {
		t.Errorf("PlyCount = %d, want 4", game.PlyCount())
	}
	if game.White() != "Alice" || game.Black() != "Bob" {
		t.Errorf("players = %q/%q", game.White(), game.Black())
	}
	if game.HasAnalysis() {
		t.Error("HasAnalysis = true for a bare game")
	}
	if game.HasClocks() {
		t.Error("HasClocks = true for a bare game")
	}
	if !strings.Contains(game.PGN(), "e4") {
		t.Error("PGN round-trip lost the moves")
	}
}

func TestLoadPGNRejectsGarbage(t *testing.T) {
	if _, err := LoadPGNString("this is not chess"); !errors.Is(err, ErrInputMalformed) {
		t.Fatalf("LoadPGNString = %v, want ErrInputMalformed", err)
	}
}

func TestSetEvaluationsRoundTrip(t *testing.T) {
	game := mustGame(t, fourPlyPGN)
	if err := game.SetEvaluations("0.3", "-0.2", "#2", "#-1"); err != nil {
		t.Fatalf("SetEvaluations: %v", err)
	}
	if !game.HasAnalysis() {
		t.Error("HasAnalysis = false after SetEvaluations")
	}

	// the round-trip guarantee: analysis present means evaluation features enable
	g, err := New(game, WithBoardSize(160))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.AddEvalBar(); err != nil {
		t.Errorf("AddEvalBar with full analysis: %v", err)
	}
}

func TestSetEvaluationsRejectsBadInput(t *testing.T) {
	game := mustGame(t, fourPlyPGN)

	if err := game.SetEvaluations("0.3", "0.2"); !errors.Is(err, ErrInputMalformed) {
		t.Errorf("length mismatch = %v, want ErrInputMalformed", err)
	}
	if err := game.SetEvaluations("0.3", "0.2", "huh", "0.1"); !errors.Is(err, ErrInputMalformed) {
		t.Errorf("unparseable eval = %v, want ErrInputMalformed", err)
	}
	if game.HasAnalysis() {
		t.Error("failed SetEvaluations left partial analysis behind")
	}
}

func TestAverageLoss(t *testing.T) {
	game := annotatedGame(t)
	white, black, err := game.AverageLoss(DefaultMaxEval)
	if err != nil {
		t.Fatalf("AverageLoss: %v", err)
	}
	// white gives away 100cp on ply 3, black 2000cp on the mating ply;
	// the improving moves count as zero loss
	if white != 50 || black != 1000 {
		t.Errorf("average loss = %.1f/%.1f, want 50/1000", white, black)
	}

	bare := mustGame(t, fourPlyPGN)
	if _, _, err := bare.AverageLoss(DefaultMaxEval); !errors.Is(err, ErrAnalysisMissing) {
		t.Errorf("AverageLoss without analysis = %v, want ErrAnalysisMissing", err)
	}
}

func TestCheckmateCountsAsAnnotated(t *testing.T) {
	game := mustGame(t, scholarsMatePGN)
	// six engine evals plus the checkmate ply, which annotates itself
	if err := game.SetEvaluations("0.3", "0.2", "0.1", "-0.3", "0.4", "-0.5", "#0"); err != nil {
		t.Fatalf("SetEvaluations: %v", err)
	}
	if !game.HasAnalysis() {
		t.Error("HasAnalysis = false for a finished mate")
	}
}
