package render

import (
	"fmt"
	"image"
	imagedraw "image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/park285/chessgif/internal/analysis"
	"github.com/park285/chessgif/internal/assets/fonts"
)

// DrawEvalBar fills the bar strip for one frame. The white portion grows
// linearly with the white-relative value; mate entries pin to the full bar.
// The numeric caption sits at the winning end in the contrasting color.
func DrawEvalBar(dst *image.RGBA, l Layout, e analysis.Entry, maxEval int) error {
	if l.Bar <= 0 {
		return nil
	}
	bar := l.BarRect()
	imagedraw.Draw(dst, bar, image.NewUniform(barBlack), image.Point{}, imagedraw.Src)

	split := bar.Min.Y + barSplit(e.Value, maxEval, l)
	var white image.Rectangle
	if l.Reversed {
		white = image.Rect(bar.Min.X, bar.Min.Y, bar.Max.X, split)
	} else {
		white = image.Rect(bar.Min.X, split, bar.Max.X, bar.Max.Y)
	}
	imagedraw.Draw(dst, white, image.NewUniform(barWhite), image.Point{}, imagedraw.Src)

	return drawBarCaption(dst, l, e)
}

// barSplit maps the clamped value onto the bar height: 0 sits at the middle,
// +max at the white end, -max at the black end.
func barSplit(value, maxEval int, l Layout) int {
	m := float64(maxEval)
	y := (float64(value)/m + 1) * float64(l.Board) / 2
	if !l.Reversed {
		y = float64(l.Board) - y
	}
	return int(math.Floor(y))
}

func drawBarCaption(dst *image.RGBA, l Layout, e analysis.Entry) error {
	var text string
	if e.IsMate {
		text = fmt.Sprintf("M%d", absInt(e.MateIn))
	} else {
		text = fmt.Sprintf("%+.1f", float64(e.Exact)/100)
	}

	face, err := fitFace(text, l.Bar*3/4, 10)
	if err != nil {
		return err
	}

	bar := l.BarRect()
	whiteWinning := e.Value > 0
	atTop := whiteWinning == l.Reversed
	clr := barWhite
	if whiteWinning {
		clr = barBlack
	}

	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(clr)}
	width := drawer.MeasureString(text).Round()
	x := bar.Min.X + (l.Bar-width)/2

	metrics := face.Metrics()
	var baseline int
	if atTop {
		baseline = bar.Min.Y + metrics.Ascent.Ceil()
	} else {
		baseline = bar.Max.Y - metrics.Descent.Ceil()
	}

	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
	return nil
}

// fitFace sizes the caption face so the text fits maxWidth, never below
// minSize points.
func fitFace(text string, maxWidth int, minSize float64) (font.Face, error) {
	const probeSize = 24.0
	probe, err := fonts.Face(probeSize)
	if err != nil {
		return nil, err
	}
	measured := (&font.Drawer{Face: probe}).MeasureString(text).Round()

	size := minSize
	if measured > 0 {
		size = math.Floor(probeSize * float64(maxWidth) / float64(measured))
	}
	if size < minSize {
		size = minSize
	}
	return fonts.Face(size)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
