package gamesource

import (
	"errors"
	"strings"
	"testing"
	"time"

	chess "github.com/corentings/chess/v2"

	"github.com/park285/chessgif/internal/analysis"
)

const annotatedPGN = `[Event "Test"]
[Site "?"]
[White "Alice"]
[Black "Bob"]
[Result "*"]

1. e4 { [%eval 0.3] [%clk 0:05:00] } 1... e5 { [%eval 0.25] [%clk 0:04:58] } 2. Nf3 { [%eval 0.3] } 2... Nc6 { [%eval 0.2] } *
`

const scholarsMatePGN = `[Event "Test"]
[White "Alice"]
[Black "Bob"]
[Result "1-0"]

1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0
`

func loadSource(t *testing.T, pgn string) *Source {
	t.Helper()
	src, err := Load(strings.NewReader(pgn))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return src
}

func TestLoadAnnotatedGame(t *testing.T) {
	src := loadSource(t, annotatedPGN)

	if got := src.PlyCount(); got != 4 {
		t.Fatalf("PlyCount = %d, want 4", got)
	}
	if src.White() != "Alice" || src.Black() != "Bob" {
		t.Errorf("names = %q/%q", src.White(), src.Black())
	}
	if !src.HasAnalysis() {
		t.Fatal("HasAnalysis = false for fully annotated game")
	}
	if !src.HasClocks() {
		t.Error("HasClocks = false")
	}

	wantEvals := []int{30, 25, 30, 20}
	for i, want := range wantEvals {
		ann, err := src.AnnotationAt(i + 1)
		if err != nil {
			t.Fatalf("AnnotationAt(%d): %v", i+1, err)
		}
		if ann.Eval == nil || ann.Eval.CP != want {
			t.Errorf("ply %d eval = %+v, want %d", i+1, ann.Eval, want)
		}
	}

	ann, _ := src.AnnotationAt(2)
	if ann.Clock == nil || *ann.Clock != 4*time.Minute+58*time.Second {
		t.Errorf("ply 2 clock = %v", ann.Clock)
	}

	movers := src.WhiteMovers()
	want := []bool{true, false, true, false}
	for i := range want {
		if movers[i] != want[i] {
			t.Errorf("mover %d = %v, want %v", i, movers[i], want[i])
		}
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, err := Load(strings.NewReader("this is not chess")); !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestCheckmateCountsAsAnnotated(t *testing.T) {
	src := loadSource(t, scholarsMatePGN)
	if got := src.PlyCount(); got != 7 {
		t.Fatalf("PlyCount = %d, want 7", got)
	}
	// No evals in the PGN at all: the synthesized mate on the final ply does
	// not make the whole game annotated.
	if src.HasAnalysis() {
		t.Fatal("HasAnalysis = true with six unannotated plies")
	}

	final, err := src.AnnotationAt(7)
	if err != nil {
		t.Fatalf("AnnotationAt(7): %v", err)
	}
	if final.Eval == nil || !final.Eval.IsMate || final.Eval.Mate != 0 {
		t.Fatalf("final eval = %+v, want delivered mate", final.Eval)
	}

	// Annotate the first six plies; the mate fallback covers the seventh.
	anns := make([]analysis.Annotation, 7)
	for i := 0; i < 6; i++ {
		s := analysis.Cp(10 * (i + 1))
		anns[i].Eval = &s
	}
	if err := src.SetAnnotations(anns); err != nil {
		t.Fatalf("SetAnnotations: %v", err)
	}
	if !src.HasAnalysis() {
		t.Fatal("HasAnalysis = false after annotating all non-mate plies")
	}

	series, err := src.Series(1000)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	last := series.Entries[6]
	if !last.IsMate || last.Value != 1000 || last.MateIn != 0 {
		t.Errorf("final series entry = %+v, want white mate at +1000", last)
	}
}

func TestSetAnnotationsLengthMismatch(t *testing.T) {
	src := loadSource(t, scholarsMatePGN)
	err := src.SetAnnotations(make([]analysis.Annotation, 3))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestCaptures(t *testing.T) {
	src := loadSource(t, `1. e4 d5 2. exd5 Qxd5 *`)

	if got := src.CapturesThrough(2); len(got) != 0 {
		t.Errorf("captures through ply 2 = %v, want none", got)
	}
	got := src.CapturesThrough(3)
	if len(got) != 1 || got[0].Type() != chess.Pawn || got[0].Color() != chess.Black {
		t.Errorf("captures through ply 3 = %v, want black pawn", got)
	}
	got = src.CapturesThrough(4)
	if len(got) != 2 || got[1].Type() != chess.Pawn || got[1].Color() != chess.White {
		t.Errorf("captures through ply 4 = %v, want black pawn then white pawn", got)
	}
}

func TestCapturesEnPassant(t *testing.T) {
	src := loadSource(t, `1. e4 Nf6 2. e5 d5 3. exd6 *`)
	got := src.CapturesThrough(5)
	if len(got) != 1 || got[0].Type() != chess.Pawn || got[0].Color() != chess.Black {
		t.Errorf("en passant captures = %v, want black pawn", got)
	}
}

func TestCheckers(t *testing.T) {
	src := loadSource(t, scholarsMatePGN)

	if src.GivesCheck(1) {
		t.Error("1. e4 flagged as check")
	}
	if !src.GivesCheck(7) {
		t.Error("Qxf7# not flagged as check")
	}

	king, checkers, err := src.Checkers(7)
	if err != nil {
		t.Fatalf("Checkers: %v", err)
	}
	if want := chess.NewSquare(chess.FileE, chess.Rank8); king != want {
		t.Errorf("king = %v, want %v", king, want)
	}
	f7 := chess.NewSquare(chess.FileF, chess.Rank7)
	if len(checkers) != 1 || checkers[0] != f7 {
		t.Errorf("checkers = %v, want [%v]", checkers, f7)
	}
}

func TestPositionAndMoveRange(t *testing.T) {
	src := loadSource(t, `1. e4 e5 *`)
	if _, err := src.PositionAfter(3); err == nil {
		t.Error("out-of-range position accepted")
	}
	if _, err := src.MoveAt(0); err == nil {
		t.Error("ply 0 move accepted")
	}
	pos, err := src.PositionAfter(0)
	if err != nil {
		t.Fatalf("PositionAfter(0): %v", err)
	}
	if pos.Turn() != chess.White {
		t.Errorf("start turn = %v", pos.Turn())
	}
	fen, err := src.FENAfter(1)
	if err != nil {
		t.Fatalf("FENAfter: %v", err)
	}
	if !strings.Contains(fen, " b ") {
		t.Errorf("FEN after 1.e4 has wrong side to move: %q", fen)
	}
}
