package chessgif

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"time"

	chess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/chessgif/internal/analysis"
	"github.com/park285/chessgif/internal/gifenc"
	"github.com/park285/chessgif/internal/render"
	"github.com/park285/chessgif/internal/themecat"
)

// State tracks a generator through its life. Options and feature enables
// are valid only while configuring; a generator that has generated, or
// failed to, is done and cannot be reused.
type State int

const (
	StateConfiguring State = iota
	StateGenerating
	StateDone
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateGenerating:
		return "generating"
	default:
		return "done"
	}
}

// Generator renders one game into one animation. Build it with New, toggle
// features, then call Generate or GenerateFile exactly once.
//
// Feature enables validate eagerly: asking for the evaluation bar, graph,
// or move-quality glyphs on a game with a missing evaluation fails on the
// spot with ErrAnalysisMissing rather than at generation time.
type Generator struct {
	game *Game
	log  *zap.Logger

	boardSize    int
	barWidth     int
	graphHeight  int
	headerHeight int
	maxEval      int
	duration     time.Duration

	themeDir     string
	themeName    string
	customColors bool
	pieceSet     string
	tiers        analysis.Tiers
	tiersSet     bool

	arrows   bool
	nags     bool
	bar      bool
	graph    bool
	headers  bool
	reversed bool
	hold     int

	theme  render.BoardTheme
	state  State
	series *analysis.Series
}

// New builds a generator over the game. All options validate here; an
// unknown theme, an unusable geometry, or a game without moves never
// produces a generator.
func New(game *Game, opts ...Option) (*Generator, error) {
	if game == nil {
		return nil, fmt.Errorf("%w: nil game", ErrInvalidConfiguration)
	}
	if game.PlyCount() == 0 {
		return nil, fmt.Errorf("%w: game has no moves", ErrInvalidConfiguration)
	}

	g := &Generator{
		game:         game,
		log:          zap.NewNop(),
		boardSize:    render.DefaultBoardSize,
		barWidth:     render.DefaultBarWidth,
		graphHeight:  render.DefaultGraphHeight,
		headerHeight: render.DefaultHeaderHeight,
		maxEval:      DefaultMaxEval,
		duration:     DefaultFrameDuration,
		themeName:    DefaultBoardTheme,
		pieceSet:     render.DefaultPieceSet,
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	// probe with every region present so geometry problems surface now,
	// not at generation time
	if _, err := render.ResolveLayout(render.LayoutRequest{
		BoardSize:    g.boardSize,
		BarWidth:     g.barWidth,
		GraphHeight:  g.graphHeight,
		HeaderHeight: g.headerHeight,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	if err := g.resolveThemes(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewFromPGN parses the PGN stream and builds a generator over it.
func NewFromPGN(r io.Reader, opts ...Option) (*Generator, error) {
	game, err := LoadPGN(r)
	if err != nil {
		return nil, err
	}
	return New(game, opts...)
}

func (g *Generator) resolveThemes() error {
	catalog := themecat.Default()
	if g.themeDir != "" {
		var err error
		catalog, err = themecat.New(g.themeDir)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
	}

	if !g.customColors {
		sc, ok := catalog.Board(g.themeName)
		if !ok {
			return fmt.Errorf("%w: unknown board theme %q", ErrInvalidConfiguration, g.themeName)
		}
		theme, err := render.NewBoardTheme(sc.Light, sc.Dark)
		if err != nil {
			return fmt.Errorf("%w: board theme %q: %v", ErrInvalidConfiguration, g.themeName, err)
		}
		g.theme = theme
	}

	if !g.tiersSet {
		g.tiers = catalog.Tiers()
	}
	return nil
}

// State reports where the generator is in its life.
func (g *Generator) State() State { return g.state }

func (g *Generator) requireConfiguring(op string) error {
	if g.state != StateConfiguring {
		return fmt.Errorf("%w: %s while %s", ErrInvalidConfiguration, op, g.state)
	}
	return nil
}

// ensureSeries builds the white-relative evaluation series on the first
// evaluation-dependent enable. HasAnalysis() == true guarantees success.
func (g *Generator) ensureSeries() error {
	if g.series != nil {
		return nil
	}
	series, err := g.game.src.Series(g.maxEval)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAnalysisMissing, err)
	}
	g.series = series
	return nil
}

// EnableArrows draws a move arrow on every frame, plus red check arrows
// from each checking piece to the king when the move gives check.
func (g *Generator) EnableArrows() error {
	if err := g.requireConfiguring("enable arrows"); err != nil {
		return err
	}
	g.arrows = true
	return nil
}

// EnableNAGs marks inaccuracies, mistakes, and blunders with a glyph next
// to the moved-to square.
func (g *Generator) EnableNAGs() error {
	if err := g.requireConfiguring("enable nags"); err != nil {
		return err
	}
	if err := g.ensureSeries(); err != nil {
		return err
	}
	g.nags = true
	return nil
}

// AddEvalBar places the evaluation bar beside the board.
func (g *Generator) AddEvalBar() error {
	if err := g.requireConfiguring("add eval bar"); err != nil {
		return err
	}
	if err := g.ensureSeries(); err != nil {
		return err
	}
	g.bar = true
	return nil
}

// AddEvalGraph places the evaluation-over-time graph below the board.
func (g *Generator) AddEvalGraph() error {
	if err := g.requireConfiguring("add eval graph"); err != nil {
		return err
	}
	if err := g.ensureSeries(); err != nil {
		return err
	}
	g.graph = true
	return nil
}

// AddHeaders places the player bands above and below the board: name,
// captured material, and the remaining clock when the game has one.
func (g *Generator) AddHeaders() error {
	if err := g.requireConfiguring("add headers"); err != nil {
		return err
	}
	g.headers = true
	return nil
}

// Reverse flips the board so black is at the bottom, for the whole session.
func (g *Generator) Reverse() error {
	if err := g.requireConfiguring("reverse"); err != nil {
		return err
	}
	g.reversed = true
	return nil
}

// SetFinalFrameHold appends n extra copies of the last frame, lengthening
// the pause on the final position.
func (g *Generator) SetFinalFrameHold(n int) error {
	if err := g.requireConfiguring("set final frame hold"); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: final frame hold %d", ErrInvalidConfiguration, n)
	}
	g.hold = n
	return nil
}

// Generate renders the animation and writes it to w. Nothing is written
// unless the whole animation encodes.
func (g *Generator) Generate(w io.Writer) error {
	frames, err := g.render()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gifenc.Encode(&buf, frames); err != nil {
		return fmt.Errorf("encode animation: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write animation: %w", err)
	}
	return nil
}

// GenerateFile renders the animation into the file at path, atomically.
func (g *Generator) GenerateFile(path string) error {
	frames, err := g.render()
	if err != nil {
		return err
	}
	if err := gifenc.EncodeFile(path, frames); err != nil {
		return fmt.Errorf("encode animation: %w", err)
	}
	return nil
}

// sessionLayout resolves the geometry for this generation. Disabled
// features contribute no region, so the canvas is exactly as large as what
// is drawn.
func (g *Generator) sessionLayout() (render.Layout, error) {
	req := render.LayoutRequest{BoardSize: g.boardSize, Reversed: g.reversed}
	if g.bar {
		req.BarWidth = g.barWidth
	}
	if g.graph {
		req.GraphHeight = g.graphHeight
	}
	if g.headers {
		req.HeaderHeight = g.headerHeight
	}
	layout, err := render.ResolveLayout(req)
	if err != nil {
		return render.Layout{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return layout, nil
}

func (g *Generator) render() ([]gifenc.Frame, error) {
	if err := g.requireConfiguring("generate"); err != nil {
		return nil, err
	}
	g.state = StateGenerating
	defer func() { g.state = StateDone }()

	layout, err := g.sessionLayout()
	if err != nil {
		return nil, err
	}

	src := g.game.src
	start := time.Now()
	log := g.log.With(zap.String("generation", uuid.NewString()[:8]))
	log.Info("generation started",
		zap.Int("plies", src.PlyCount()),
		zap.Int("width", layout.Width),
		zap.Int("height", layout.Height),
		zap.Bool("arrows", g.arrows),
		zap.Bool("nags", g.nags),
		zap.Bool("bar", g.bar),
		zap.Bool("graph", g.graph),
		zap.Bool("headers", g.headers),
		zap.Bool("reversed", g.reversed))

	var graph *render.Graph
	if g.graph {
		graph = render.NewGraph(layout, g.series)
	}

	movers := src.WhiteMovers()
	anns := src.Annotations()
	useClocks := g.headers && src.HasClocks()

	frames := make([]gifenc.Frame, 0, src.PlyCount()+g.hold)
	for ply := 1; ply <= src.PlyCount(); ply++ {
		canvas, err := g.composeFrame(layout, graph, ply, movers, anns, useClocks)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", ply, err)
		}
		frames = append(frames, gifenc.Frame{Image: canvas, Duration: g.duration})
	}
	for i := 0; i < g.hold; i++ {
		frames = append(frames, frames[len(frames)-1])
	}

	log.Info("generation finished",
		zap.Int("frames", len(frames)),
		zap.Duration("took", time.Since(start)))
	return frames, nil
}

// composeFrame draws the position after the given ply with every enabled
// overlay, in fixed order: board, arrows, glyphs, bar, graph, headers.
func (g *Generator) composeFrame(layout render.Layout, graph *render.Graph, ply int, movers []bool, anns []analysis.Annotation, useClocks bool) (*image.RGBA, error) {
	src := g.game.src
	canvas := layout.Canvas()

	pos, err := src.PositionAfter(ply)
	if err != nil {
		return nil, err
	}
	mv, err := src.MoveAt(ply)
	if err != nil {
		return nil, err
	}

	hl := render.Highlights{Move: &render.MoveHighlight{From: mv.S1(), To: mv.S2()}}
	inCheck := src.GivesCheck(ply)
	var (
		king     chess.Square
		checkers []chess.Square
	)
	if inCheck {
		king, checkers, err = src.Checkers(ply)
		if err != nil {
			return nil, err
		}
		hl.Check = &king
	}

	if err := render.DrawBoard(canvas, layout, pos.Board(), g.theme, g.pieceSet, hl); err != nil {
		return nil, err
	}

	if g.arrows {
		render.DrawMoveArrow(canvas, layout, mv.S1(), mv.S2())
		if inCheck {
			render.DrawCheckArrows(canvas, layout, checkers, king)
		}
	}

	if g.nags {
		if err := render.DrawNAG(canvas, layout, g.series.Judge(ply, g.tiers), mv.S2()); err != nil {
			return nil, err
		}
	}

	if g.bar {
		entry, err := g.series.At(ply)
		if err != nil {
			return nil, err
		}
		if err := render.DrawEvalBar(canvas, layout, entry, g.maxEval); err != nil {
			return nil, err
		}
	}

	if graph != nil {
		if err := graph.Stamp(canvas, ply); err != nil {
			return nil, err
		}
	}

	if g.headers {
		data := render.HeaderData{
			White:    src.White(),
			Black:    src.Black(),
			Captures: src.CapturesThrough(ply),
			PieceSet: g.pieceSet,
		}
		if useClocks {
			moverClock := anns[ply-1].Clock
			var oppClock *time.Duration
			if ply >= 2 {
				oppClock = anns[ply-2].Clock
			}
			if movers[ply-1] {
				data.WhiteClock, data.BlackClock = moverClock, oppClock
			} else {
				data.WhiteClock, data.BlackClock = oppClock, moverClock
			}
		}
		if err := render.DrawHeaders(canvas, layout, data); err != nil {
			return nil, err
		}
	}

	return canvas, nil
}
