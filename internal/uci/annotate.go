package uci

import (
	"context"
	"fmt"
	"sync"

	"github.com/park285/chessgif/internal/analysis"
	"github.com/park285/chessgif/internal/gamesource"
)

// Annotate evaluates every position of the game and returns one annotation
// per half-move. UCI scores arrive from the side to move, which after a
// half-move is the mover's opponent; negating them yields the mover's point
// of view that annotations carry. Existing clock annotations survive,
// existing evaluations are replaced.
func Annotate(ctx context.Context, eng Evaluator, src *gamesource.Source, limits Limits, workers int) ([]analysis.Annotation, error) {
	plies := src.PlyCount()
	out := src.Annotations()
	if plies == 0 {
		return out, nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > plies {
		workers = plies
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		errMu.Unlock()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ply := range jobs {
				fen, err := src.FENAfter(ply)
				if err != nil {
					fail(err)
					return
				}
				res, err := eng.Evaluate(ctx, fen, limits)
				if err != nil {
					fail(fmt.Errorf("evaluate ply %d: %w", ply, err))
					return
				}
				mover := res.Score.Negated()
				// each ply writes its own slot, no lock needed
				out[ply-1].Eval = &mover
			}
		}()
	}

feed:
	for ply := 1; ply <= plies; ply++ {
		select {
		case jobs <- ply:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
