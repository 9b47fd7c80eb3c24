package render

import (
	"errors"
	"fmt"
	"image"
	imagedraw "image/draw"

	"github.com/fogleman/gg"

	"github.com/park285/chessgif/internal/analysis"
)

var ErrPlyRange = errors.New("ply outside the game")

const graphLineWidth = 1.0

// Graph plots the whole evaluation series once and stamps per-frame copies
// with a cursor dot at the current ply. The curve is anchored at an even
// ply-zero so the first move reads as a delta from the start position.
type Graph struct {
	bg     image.Image
	points []pointF
	rect   image.Rectangle
}

// NewGraph draws the graph background: filled areas between the curve and
// the zero line (light above, dark below, split where the curve crosses
// zero), the white curve itself, and the gray x axis.
func NewGraph(l Layout, s *analysis.Series) *Graph {
	w := l.Width
	h := l.Graph
	plies := s.Len()
	span := plies
	if span < 1 {
		span = 1
	}

	maxEval := float64(s.MaxEval)
	xAt := func(ply int) float64 {
		return float64(w) * float64(ply) / float64(span)
	}
	yAt := func(value float64) float64 {
		return (maxEval - value) * float64(h-1) / (2 * maxEval)
	}
	zeroY := yAt(0)

	values := make([]float64, plies+1)
	points := make([]pointF, plies+1)
	points[0] = pointF{X: xAt(0), Y: zeroY}
	for i := 1; i <= plies; i++ {
		values[i] = float64(s.Entries[i-1].Value)
		points[i] = pointF{X: xAt(i), Y: yAt(values[i])}
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(barBlack)
	dc.Clear()

	fillRegion := func(below bool, pts ...pointF) {
		if below {
			dc.SetColor(graphBelow)
		} else {
			dc.SetColor(graphAbove)
		}
		dc.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		dc.Fill()
	}

	for i := 1; i < len(points); i++ {
		prev, cur := values[i-1], values[i]
		zPrev := pointF{X: points[i-1].X, Y: zeroY}
		zCur := pointF{X: points[i].X, Y: zeroY}

		if prev*cur < 0 {
			inter, ok := lineIntersection(points[i-1], points[i], zPrev, zCur)
			if ok {
				fillRegion(prev < 0, zPrev, points[i-1], inter)
				fillRegion(cur < 0, inter, points[i], zCur)
				continue
			}
		}
		below := cur < 0
		if cur == 0 {
			below = prev < 0
		}
		fillRegion(below, zPrev, points[i-1], points[i], zCur)
	}

	dc.SetColor(barWhite)
	dc.SetLineWidth(graphLineWidth)
	dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()

	dc.SetColor(graphAxis)
	dc.SetLineWidth(graphLineWidth)
	dc.DrawLine(xAt(0), zeroY, xAt(span), zeroY)
	dc.Stroke()

	return &Graph{
		bg:     dc.Image(),
		points: points,
		rect:   l.GraphRect(),
	}
}

// Stamp copies the background into the frame and marks the given ply.
func (g *Graph) Stamp(dst *image.RGBA, ply int) error {
	if ply < 0 || ply >= len(g.points) {
		return fmt.Errorf("%w: %d", ErrPlyRange, ply)
	}
	imagedraw.Draw(dst, g.rect, g.bg, image.Point{}, imagedraw.Src)

	pt := g.points[ply]
	center := image.Point{
		X: g.rect.Min.X + int(pt.X),
		Y: g.rect.Min.Y + int(pt.Y),
	}
	drawDisc(dst, center, 3+int(graphLineWidth), cursorRed)
	return nil
}
