package chessgif

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/park285/chessgif/internal/analysis"
	"github.com/park285/chessgif/internal/render"
)

const (
	// DefaultMaxEval is the evaluation clamp boundary in centipawns.
	DefaultMaxEval = 1000

	// DefaultFrameDuration is how long each frame is displayed.
	DefaultFrameDuration = 500 * time.Millisecond

	// DefaultBoardTheme names the square colors used when none are chosen.
	DefaultBoardTheme = "brown"
)

// Tiers is the centipawn-loss table classifying moves as inaccuracies,
// mistakes, or blunders.
type Tiers = analysis.Tiers

// DefaultTiers returns the built-in judgment boundaries.
func DefaultTiers() Tiers { return analysis.DefaultTiers() }

// Option configures a Generator at construction time.
type Option func(*Generator) error

// WithBoardSize sets the requested board side in pixels. The side is
// rounded to the nearest multiple of 8 so squares stay integral; boards
// under 160 px are rejected.
func WithBoardSize(px int) Option {
	return func(g *Generator) error {
		if px <= 0 {
			return fmt.Errorf("%w: board size %d", ErrInvalidConfiguration, px)
		}
		g.boardSize = px
		return nil
	}
}

// WithBarWidth sets the evaluation bar width in pixels.
func WithBarWidth(px int) Option {
	return func(g *Generator) error {
		if px < 0 {
			return fmt.Errorf("%w: bar width %d", ErrInvalidConfiguration, px)
		}
		g.barWidth = px
		return nil
	}
}

// WithGraphHeight sets the evaluation graph height in pixels.
func WithGraphHeight(px int) Option {
	return func(g *Generator) error {
		if px < 0 {
			return fmt.Errorf("%w: graph height %d", ErrInvalidConfiguration, px)
		}
		g.graphHeight = px
		return nil
	}
}

// WithHeaderHeight sets the height of each player band in pixels.
func WithHeaderHeight(px int) Option {
	return func(g *Generator) error {
		if px < 0 {
			return fmt.Errorf("%w: header height %d", ErrInvalidConfiguration, px)
		}
		g.headerHeight = px
		return nil
	}
}

// WithMaxEval sets the clamp boundary for the evaluation series, in
// centipawns. Finite scores beyond it clamp; mate scores pin to it.
func WithMaxEval(cp int) Option {
	return func(g *Generator) error {
		if cp <= 0 {
			return fmt.Errorf("%w: max eval %d", ErrInvalidConfiguration, cp)
		}
		g.maxEval = cp
		return nil
	}
}

// WithFrameDuration sets how long each frame is displayed.
func WithFrameDuration(d time.Duration) Option {
	return func(g *Generator) error {
		if d <= 0 {
			return fmt.Errorf("%w: frame duration %v", ErrInvalidConfiguration, d)
		}
		g.duration = d
		return nil
	}
}

// WithBoardTheme picks square colors by catalog name (brown, green, blue,
// purple, red, light_blue, plus any override-directory additions).
func WithBoardTheme(name string) Option {
	return func(g *Generator) error {
		g.themeName = name
		g.customColors = false
		return nil
	}
}

// WithSquareColors sets the light and dark square colors directly as hex
// strings, overriding any named theme.
func WithSquareColors(light, dark string) Option {
	return func(g *Generator) error {
		theme, err := render.NewBoardTheme(light, dark)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		g.theme = theme
		g.customColors = true
		return nil
	}
}

// WithPieceTheme picks the embedded piece glyph set.
func WithPieceTheme(name string) Option {
	return func(g *Generator) error {
		if !render.KnownPieceSet(name) {
			return fmt.Errorf("%w: unknown piece theme %q", ErrInvalidConfiguration, name)
		}
		g.pieceSet = name
		return nil
	}
}

// WithThemeDir layers theme files from the directory over the embedded
// catalog.
func WithThemeDir(dir string) Option {
	return func(g *Generator) error {
		g.themeDir = dir
		return nil
	}
}

// WithTiers overrides the move-quality judgment boundaries.
func WithTiers(t Tiers) Option {
	return func(g *Generator) error {
		if !t.Valid() {
			return fmt.Errorf("%w: tiers must satisfy 0 < inaccuracy < mistake < blunder, got %+v", ErrInvalidConfiguration, t)
		}
		g.tiers = t
		g.tiersSet = true
		return nil
	}
}

// WithLogger attaches a logger to the generator. The default is a nop.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) error {
		if l != nil {
			g.log = l
		}
		return nil
	}
}
