// Package chessgif renders a chess game as an animated GIF, one frame per
// half-move, with optional evaluation bar, evaluation graph, move and check
// arrows, move-quality glyphs, and player header bands.
package chessgif

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/park285/chessgif/internal/analysis"
	"github.com/park285/chessgif/internal/gamesource"
	"github.com/park285/chessgif/internal/uci"
)

// Game is one parsed chess game ready for rendering. Mainline [%eval] and
// [%clk] annotations are picked up from the PGN; games without evaluations
// can be annotated afterwards through SetEvaluations or Annotate.
type Game struct {
	src *gamesource.Source
}

// LoadPGN parses a PGN stream into a Game.
func LoadPGN(r io.Reader) (*Game, error) {
	src, err := gamesource.Load(r)
	if err != nil {
		if errors.Is(err, gamesource.ErrMalformed) {
			return nil, fmt.Errorf("%w: %w", ErrInputMalformed, err)
		}
		return nil, err
	}
	return &Game{src: src}, nil
}

// LoadPGNString parses PGN text into a Game.
func LoadPGNString(pgn string) (*Game, error) {
	return LoadPGN(strings.NewReader(pgn))
}

// PlyCount returns the number of half-moves in the mainline.
func (g *Game) PlyCount() int { return g.src.PlyCount() }

// White returns the white player's name.
func (g *Game) White() string { return g.src.White() }

// Black returns the black player's name.
func (g *Game) Black() string { return g.src.Black() }

// HasAnalysis reports whether every ply carries an evaluation. When it
// returns true, enabling the evaluation bar, graph, or move-quality glyphs
// is guaranteed to succeed.
func (g *Game) HasAnalysis() bool { return g.src.HasAnalysis() }

// HasClocks reports whether any ply carries a remaining-clock annotation.
func (g *Game) HasClocks() bool { return g.src.HasClocks() }

// PGN renders the game back to PGN text.
func (g *Game) PGN() string { return g.src.PGN() }

// SetEvaluations attaches one evaluation per half-move, in ply order, using
// PGN [%eval] syntax: pawn-unit decimals such as "0.35" or "-1.2", or mate
// distances such as "#3" and "#-2". Values are from the mover's point of
// view. Clock annotations already on the game are kept.
func (g *Game) SetEvaluations(evals ...string) error {
	anns := g.src.Annotations()
	if len(evals) != len(anns) {
		return fmt.Errorf("%w: %d evaluations for %d plies", ErrInputMalformed, len(evals), len(anns))
	}
	for i, raw := range evals {
		sc, err := analysis.ParseEval(raw)
		if err != nil {
			return fmt.Errorf("%w: ply %d: %v", ErrInputMalformed, i+1, err)
		}
		anns[i].Eval = &sc
	}
	if err := g.src.SetAnnotations(anns); err != nil {
		return fmt.Errorf("%w: %w", ErrInputMalformed, err)
	}
	return nil
}

// AverageLoss reports each side's mean centipawn loss over its own moves,
// from evaluations clamped to maxEval. Every ply must carry an evaluation.
func (g *Game) AverageLoss(maxEval int) (white, black float64, err error) {
	series, err := g.src.Series(maxEval)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrAnalysisMissing, err)
	}
	white, black = series.AverageLoss()
	return white, black, nil
}

// AnnotateOptions tunes engine analysis. Zero values pick defaults: depth
// 15, one engine process per CPU core up to four, engine-chosen threads and
// hash size.
type AnnotateOptions struct {
	Depth   int
	Workers int
	Threads int
	HashMB  int
}

// Annotate runs the UCI engine at the given binary path over every position
// of the game and stores the resulting evaluations. Existing clock
// annotations survive; existing evaluations are replaced.
func (g *Game) Annotate(ctx context.Context, engineBinary string, o AnnotateOptions) error {
	pool, err := uci.NewPool(uci.PoolConfig{
		BinaryPath: engineBinary,
		Options:    uci.Options{Threads: o.Threads, HashMB: o.HashMB},
		Capacity:   o.Workers,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	defer pool.Close()

	limits := uci.DefaultLimits()
	if o.Depth > 0 {
		limits.Depth = o.Depth
	}
	workers := o.Workers
	if workers <= 0 {
		workers = pool.Capacity()
	}

	anns, err := uci.Annotate(ctx, pool, g.src, limits, workers)
	if err != nil {
		return fmt.Errorf("annotate game: %w", err)
	}
	return g.src.SetAnnotations(anns)
}
