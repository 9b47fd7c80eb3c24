// Package render draws board frames and their overlays onto RGBA canvases.
// All drawing happens in absolute canvas coordinates derived from a Layout
// resolved once per session.
package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	chess "github.com/corentings/chess/v2"
)

const (
	DefaultBoardSize    = 480
	DefaultBarWidth     = 30
	DefaultGraphHeight  = 81
	DefaultHeaderHeight = 20

	// MinBoardSize keeps squares at 20 px or more so piece glyphs stay legible.
	MinBoardSize = 160
)

var ErrGeometry = errors.New("unusable geometry")

// LayoutRequest carries the requested dimensions for one session. A zero
// BarWidth, GraphHeight, or HeaderHeight disables that region.
type LayoutRequest struct {
	BoardSize    int
	BarWidth     int
	GraphHeight  int
	HeaderHeight int
	Reversed     bool
}

// Layout is the resolved, immutable session geometry. Every frame of one
// animation uses the same Layout verbatim.
type Layout struct {
	Board    int // board side, always a multiple of 8
	Square   int // Board / 8
	Bar      int // bar width, 0 when disabled
	Graph    int // graph height, 0 when disabled
	Header   int // single band height, 0 when disabled
	Width    int
	Height   int
	Reversed bool
}

// ResolveLayout quantizes the board size to the nearest multiple of 8 and
// computes the canvas dimensions for the enabled regions.
func ResolveLayout(req LayoutRequest) (Layout, error) {
	board := (req.BoardSize + 4) / 8 * 8
	if board < MinBoardSize {
		return Layout{}, fmt.Errorf("%w: board size %d below minimum %d", ErrGeometry, req.BoardSize, MinBoardSize)
	}
	if req.BarWidth < 0 || req.GraphHeight < 0 || req.HeaderHeight < 0 {
		return Layout{}, fmt.Errorf("%w: negative region size", ErrGeometry)
	}

	l := Layout{
		Board:    board,
		Square:   board / 8,
		Bar:      req.BarWidth,
		Graph:    req.GraphHeight,
		Header:   req.HeaderHeight,
		Reversed: req.Reversed,
	}
	l.Width = l.Board + l.Bar
	l.Height = l.Board + l.Graph + l.Header*2
	return l, nil
}

// Canvas allocates a frame canvas matching the layout.
func (l Layout) Canvas() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
}

func (l Layout) BoardRect() image.Rectangle {
	return image.Rect(0, l.Header, l.Board, l.Header+l.Board)
}

func (l Layout) BarRect() image.Rectangle {
	return image.Rect(l.Board, l.Header, l.Board+l.Bar, l.Header+l.Board)
}

func (l Layout) GraphRect() image.Rectangle {
	return image.Rect(0, l.Height-l.Graph, l.Width, l.Height)
}

// WhiteHeaderRect is the band carrying the white player. It sits below the
// board, or on top when the board is reversed.
func (l Layout) WhiteHeaderRect() image.Rectangle {
	if l.Reversed {
		return image.Rect(0, 0, l.Width, l.Header)
	}
	return image.Rect(0, l.Header+l.Board, l.Width, l.Header*2+l.Board)
}

func (l Layout) BlackHeaderRect() image.Rectangle {
	if l.Reversed {
		return image.Rect(0, l.Header+l.Board, l.Width, l.Header*2+l.Board)
	}
	return image.Rect(0, 0, l.Width, l.Header)
}

// SquareRect maps a square to its canvas rectangle, honoring orientation.
func (l Layout) SquareRect(sq chess.Square) image.Rectangle {
	row := 7 - int(sq.Rank())
	col := int(sq.File())
	if l.Reversed {
		row = int(sq.Rank())
		col = 7 - int(sq.File())
	}
	x := col * l.Square
	y := l.Header + row*l.Square
	return image.Rect(x, y, x+l.Square, y+l.Square)
}

// SquareCenter is the canvas-space center of a square.
func (l Layout) SquareCenter(sq chess.Square) image.Point {
	r := l.SquareRect(sq)
	return image.Point{X: r.Min.X + l.Square/2, Y: r.Min.Y + l.Square/2}
}

type pointF struct {
	X float64
	Y float64
}

// shortenLine trims pix pixels off the far end of the segment a-b.
func shortenLine(a, b pointF, pix float64) (pointF, pointF) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length > 0 {
		dx /= length
		dy /= length
	}
	keep := length - pix
	return a, pointF{X: a.X + dx*keep, Y: a.Y + dy*keep}
}

// rotateAround rotates p around origin by the given angle in radians,
// y-axis pointing down.
func rotateAround(p pointF, radians float64, origin pointF) pointF {
	sin, cos := math.Sincos(radians)
	dx := p.X - origin.X
	dy := p.Y - origin.Y
	return pointF{
		X: origin.X + cos*dx + sin*dy,
		Y: origin.Y - sin*dx + cos*dy,
	}
}

func angleBetween(a, b pointF) float64 {
	return -math.Atan2(b.Y-a.Y, b.X-a.X)
}

// lineIntersection returns the intersection of the infinite lines through
// the two segments, or false when they are parallel.
func lineIntersection(a1, a2, b1, b2 pointF) (pointF, bool) {
	det := func(ax, ay, bx, by float64) float64 { return ax*by - ay*bx }

	xd1, xd2 := a1.X-a2.X, b1.X-b2.X
	yd1, yd2 := a1.Y-a2.Y, b1.Y-b2.Y
	div := det(xd1, yd1, xd2, yd2)
	if div == 0 {
		return pointF{}, false
	}
	d1 := det(a1.X, a1.Y, a2.X, a2.Y)
	d2 := det(b1.X, b1.Y, b2.X, b2.Y)
	return pointF{
		X: det(d1, xd1, d2, xd2) / div,
		Y: det(d1, yd1, d2, yd2) / div,
	}, true
}
