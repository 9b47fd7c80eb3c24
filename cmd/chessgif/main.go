package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	chessgif "github.com/park285/chessgif"
	"github.com/park285/chessgif/internal/config"
	"github.com/park285/chessgif/internal/gifbuilder"
	"github.com/park285/chessgif/internal/gifcache"
	"github.com/park285/chessgif/internal/obslog"
	"github.com/park285/chessgif/internal/render"
	"github.com/park285/chessgif/internal/themecat"
)

func main() {
	cmd := &cli.Command{
		Name:  "chessgif",
		Usage: "render chess games as animated GIFs",
		Commands: []*cli.Command{
			generateCommand(),
			themesCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "chessgif:", err)
		os.Exit(1)
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "render a PGN game to an animated GIF",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pgn", Usage: "PGN file to render, or - for stdin", Value: "-"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output GIF path", Value: "game.gif"},
			&cli.IntFlag{Name: "size", Usage: "board edge in pixels, rounded to a multiple of 8", Value: 480},
			&cli.StringFlag{Name: "duration", Usage: "time each frame is shown, e.g. 500ms", Value: "500ms"},
			&cli.StringFlag{Name: "board-theme", Usage: "board color theme (see the themes command)"},
			&cli.StringFlag{Name: "piece-theme", Usage: "piece set (see the themes command)"},
			&cli.BoolFlag{Name: "reverse", Usage: "draw the board from black's side"},
			&cli.BoolFlag{Name: "arrows", Usage: "draw move and check arrows"},
			&cli.BoolFlag{Name: "nags", Usage: "draw move judgment glyphs (needs evaluations)"},
			&cli.BoolFlag{Name: "bar", Usage: "draw the evaluation bar (needs evaluations)"},
			&cli.BoolFlag{Name: "graph", Usage: "draw the evaluation graph (needs evaluations)"},
			&cli.BoolFlag{Name: "headers", Usage: "draw player banners with captures and clocks"},
			&cli.IntFlag{Name: "max-eval", Usage: "evaluation clamp in centipawns"},
			&cli.IntFlag{Name: "hold", Usage: "extra repeats of the final frame"},
			&cli.StringFlag{Name: "engine", Usage: "UCI engine binary used to annotate games without evaluations"},
			&cli.IntFlag{Name: "depth", Usage: "engine search depth"},
			&cli.IntFlag{Name: "engine-workers", Usage: "parallel engine processes"},
			&cli.StringFlag{Name: "cache-url", Usage: "Redis URL for reusing identical renders"},
			&cli.StringFlag{Name: "theme-dir", Usage: "directory with extra theme YAML files"},
		},
		Action: runGenerate,
	}
}

func runGenerate(ctx context.Context, c *cli.Command) error {
	if err := obslog.InitFromEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "chessgif: logging setup:", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	if v := c.String("engine"); v != "" {
		cfg.StockfishPath = v
	}
	if v := int(c.Int("depth")); v > 0 {
		cfg.EngineDepth = v
	}
	if v := int(c.Int("engine-workers")); v > 0 {
		cfg.EngineWorkers = v
	}
	if v := c.String("cache-url"); v != "" {
		cfg.RedisURL = v
	}
	if v := c.String("theme-dir"); v != "" {
		cfg.ThemeDir = v
	}
	if v := c.String("board-theme"); v != "" {
		cfg.BoardTheme = v
	}
	if v := c.String("piece-theme"); v != "" {
		cfg.PieceSet = v
	}

	deps, err := gifbuilder.New(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	raw, err := readInput(c.String("pgn"))
	if err != nil {
		return err
	}

	game, err := chessgif.LoadPGNString(string(raw))
	if err != nil {
		return err
	}

	dur, err := time.ParseDuration(c.String("duration"))
	if err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}

	needsEval := c.Bool("bar") || c.Bool("graph") || c.Bool("nags")
	annotated := false
	if needsEval && !game.HasAnalysis() {
		if strings.TrimSpace(cfg.StockfishPath) == "" {
			return fmt.Errorf("game carries no evaluations; supply --engine (or STOCKFISH_PATH) to annotate it")
		}
		logger.Info("annotating game",
			zap.Int("plies", game.PlyCount()),
			zap.Int("depth", cfg.EngineDepth))
		err := game.Annotate(ctx, cfg.StockfishPath, chessgif.AnnotateOptions{
			Depth:   cfg.EngineDepth,
			Workers: cfg.EngineWorkers,
			Threads: cfg.EngineThreads,
			HashMB:  cfg.EngineHashMB,
		})
		if err != nil {
			return err
		}
		annotated = true
	}

	if needsEval && game.HasAnalysis() {
		clamp := int(c.Int("max-eval"))
		if clamp <= 0 {
			clamp = chessgif.DefaultMaxEval
		}
		if w, b, err := game.AverageLoss(clamp); err == nil {
			logger.Info("average centipawn loss",
				zap.Float64("white", w),
				zap.Float64("black", b))
		}
	}

	opts := []chessgif.Option{
		chessgif.WithBoardSize(int(c.Int("size"))),
		chessgif.WithFrameDuration(dur),
		chessgif.WithLogger(logger),
	}
	if cfg.ThemeDir != "" {
		opts = append(opts, chessgif.WithThemeDir(cfg.ThemeDir))
	}
	if cfg.BoardTheme != "" {
		opts = append(opts, chessgif.WithBoardTheme(cfg.BoardTheme))
	}
	if cfg.PieceSet != "" {
		opts = append(opts, chessgif.WithPieceTheme(cfg.PieceSet))
	}
	if v := int(c.Int("max-eval")); v > 0 {
		opts = append(opts, chessgif.WithMaxEval(v))
	}

	gen, err := chessgif.New(game, opts...)
	if err != nil {
		return err
	}

	toggles := []struct {
		on    bool
		apply func() error
	}{
		{c.Bool("reverse"), gen.Reverse},
		{c.Bool("arrows"), gen.EnableArrows},
		{c.Bool("nags"), gen.EnableNAGs},
		{c.Bool("bar"), gen.AddEvalBar},
		{c.Bool("graph"), gen.AddEvalGraph},
		{c.Bool("headers"), gen.AddHeaders},
	}
	for _, t := range toggles {
		if !t.on {
			continue
		}
		if err := t.apply(); err != nil {
			return err
		}
	}
	if n := int(c.Int("hold")); n > 0 {
		if err := gen.SetFinalFrameHold(n); err != nil {
			return err
		}
	}

	out := c.String("out")

	if deps.Cache != nil {
		fp := gifcache.Fingerprint(string(raw), renderSignature(c, dur, cfg, annotated))
		if data, ok, err := deps.Cache.Get(ctx, fp); err != nil {
			logger.Warn("cache lookup failed", zap.Error(err))
		} else if ok {
			logger.Info("cache hit", zap.String("fingerprint", fp[:12]), zap.Int("bytes", len(data)))
			return os.WriteFile(out, data, 0o644)
		}

		var buf bytes.Buffer
		if err := gen.Generate(&buf); err != nil {
			return err
		}
		if err := deps.Cache.Set(ctx, fp, buf.Bytes()); err != nil {
			logger.Warn("cache store failed", zap.Error(err))
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return err
		}
		logger.Info("gif written", zap.String("path", out), zap.Int("bytes", buf.Len()))
		return nil
	}

	if err := gen.GenerateFile(out); err != nil {
		return err
	}
	logger.Info("gif written", zap.String("path", out))
	return nil
}

func themesCommand() *cli.Command {
	return &cli.Command{
		Name:  "themes",
		Usage: "list available board themes and piece sets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "theme-dir", Usage: "directory with extra theme YAML files"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			dir := c.String("theme-dir")
			if dir == "" {
				dir = config.Load().ThemeDir
			}
			catalog, err := themecat.New(dir)
			if err != nil {
				return err
			}
			fmt.Println("Board themes:")
			for _, name := range catalog.BoardNames() {
				fmt.Println("  " + name)
			}
			fmt.Println("Piece sets:")
			for _, name := range render.PieceSetNames() {
				fmt.Println("  " + name)
			}
			return nil
		},
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// renderSignature folds every knob that changes output pixels into one
// string, so the cache key distinguishes renders of the same game. Engine
// identity is included only when this run produced the evaluations.
func renderSignature(c *cli.Command, dur time.Duration, cfg *config.AppConfig, annotated bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "size=%d;dur=%s;theme=%s;pieces=%s;themedir=%s;maxeval=%d;hold=%d;",
		int(c.Int("size")), dur, cfg.BoardTheme, cfg.PieceSet, cfg.ThemeDir,
		int(c.Int("max-eval")), int(c.Int("hold")))
	for _, name := range []string{"reverse", "arrows", "nags", "bar", "graph", "headers"} {
		fmt.Fprintf(&b, "%s=%t;", name, c.Bool(name))
	}
	if annotated {
		fmt.Fprintf(&b, "engine=%s@%d;", cfg.StockfishPath, cfg.EngineDepth)
	}
	return b.String()
}
