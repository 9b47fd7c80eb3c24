package uci

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/park285/chessgif/internal/analysis"
	"github.com/park285/chessgif/internal/gamesource"
)

const openingPGN = `[Event "Test"]
[White "Alice"]
[Black "Bob"]
[Result "*"]

1. e4 e5 *
`

const matePGN = `[Event "Test"]
[White "Alice"]
[Black "Bob"]
[Result "1-0"]

1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0
`

const clockedPGN = `[Event "Test"]
[White "Alice"]
[Black "Bob"]
[Result "*"]

1. e4 { [%eval 0.3] [%clk 0:05:00] } 1... e5 { [%eval 0.25] [%clk 0:04:58] } *
`

func loadGame(t *testing.T, pgn string) *gamesource.Source {
	t.Helper()
	src, err := gamesource.Load(strings.NewReader(pgn))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return src
}

// fakeEvaluator scores positions by a fixed fen lookup, falling back to the
// side to move: positions with black to move score -50, white to move -70.
type fakeEvaluator struct {
	byFEN map[string]analysis.Score
	fail  map[string]error
}

func (f *fakeEvaluator) Evaluate(_ context.Context, fen string, limits Limits) (Result, error) {
	if err, ok := f.fail[fen]; ok {
		return Result{}, err
	}
	if sc, ok := f.byFEN[fen]; ok {
		return Result{Score: sc, Depth: limits.Depth}, nil
	}
	if strings.Contains(fen, " b ") {
		return Result{Score: analysis.Cp(-50), Depth: limits.Depth}, nil
	}
	return Result{Score: analysis.Cp(-70), Depth: limits.Depth}, nil
}

func TestAnnotateMoverPerspective(t *testing.T) {
	src := loadGame(t, openingPGN)
	eng := &fakeEvaluator{}

	anns, err := Annotate(context.Background(), eng, src, DefaultLimits(), 2)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if len(anns) != 2 {
		t.Fatalf("got %d annotations, want 2", len(anns))
	}

	// After 1.e4 black is to move and sees -50; the mover (white) sees +50.
	if got := *anns[0].Eval; got != analysis.Cp(50) {
		t.Errorf("ply 1 eval = %v, want +0.50 for the mover", got)
	}
	// After 1...e5 white is to move and sees -70; the mover (black) sees +70.
	if got := *anns[1].Eval; got != analysis.Cp(70) {
		t.Errorf("ply 2 eval = %v, want +0.70 for the mover", got)
	}

	if err := src.SetAnnotations(anns); err != nil {
		t.Fatalf("SetAnnotations: %v", err)
	}
	series, err := src.Series(1000)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if series.Entries[0].Value != 50 || series.Entries[1].Value != -70 {
		t.Errorf("white-relative series = [%d %d], want [50 -70]",
			series.Entries[0].Value, series.Entries[1].Value)
	}
}

func TestAnnotateCheckmate(t *testing.T) {
	src := loadGame(t, matePGN)

	eng := &fakeEvaluator{byFEN: map[string]analysis.Score{}}
	finalFEN, err := src.FENAfter(src.PlyCount())
	if err != nil {
		t.Fatalf("FENAfter: %v", err)
	}
	// engines report a mated position as "mate 0" for the side to move
	eng.byFEN[finalFEN] = analysis.MateIn(0)

	anns, err := Annotate(context.Background(), eng, src, DefaultLimits(), 3)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	last := anns[len(anns)-1].Eval
	if last == nil || !last.IsMate || last.Mate != 0 {
		t.Fatalf("final eval = %v, want mate 0 for the mover", last)
	}

	if err := src.SetAnnotations(anns); err != nil {
		t.Fatalf("SetAnnotations: %v", err)
	}
	series, err := src.Series(1000)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	final := series.Entries[series.Len()-1]
	if !final.IsMate || final.Value != 1000 {
		t.Errorf("final entry = %+v, want mate pinned to +1000", final)
	}
}

func TestAnnotateKeepsClocks(t *testing.T) {
	src := loadGame(t, clockedPGN)
	eng := &fakeEvaluator{}

	anns, err := Annotate(context.Background(), eng, src, DefaultLimits(), 1)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if anns[0].Clock == nil || anns[1].Clock == nil {
		t.Fatal("clock annotations lost")
	}
	if got := *anns[0].Eval; got != analysis.Cp(50) {
		t.Errorf("ply 1 eval = %v, want engine value to replace the PGN one", got)
	}
}

func TestAnnotatePropagatesFailure(t *testing.T) {
	src := loadGame(t, openingPGN)
	boom := errors.New("engine crashed")

	fen, err := src.FENAfter(2)
	if err != nil {
		t.Fatalf("FENAfter: %v", err)
	}
	eng := &fakeEvaluator{fail: map[string]error{fen: boom}}

	if _, err := Annotate(context.Background(), eng, src, DefaultLimits(), 2); !errors.Is(err, boom) {
		t.Fatalf("Annotate err = %v, want wrapped engine failure", err)
	}
}
