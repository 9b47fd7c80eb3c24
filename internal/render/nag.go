package render

import (
	"image"
	imagedraw "image/draw"

	chess "github.com/corentings/chess/v2"

	"github.com/park285/chessgif/internal/analysis"
)

// DrawNAG overlays the move-quality badge beside the destination square.
// The badge hugs the square's top-right corner and shifts inward at the
// board edge so it never clips.
func DrawNAG(dst *image.RGBA, l Layout, judgment analysis.Judgment, to chess.Square) error {
	var name string
	switch judgment {
	case analysis.JudgmentBlunder:
		name = "blunder"
	case analysis.JudgmentMistake:
		name = "mistake"
	case analysis.JudgmentInaccuracy:
		name = "inaccuracy"
	default:
		return nil
	}

	rect := l.SquareRect(to)
	sq := l.Square

	// Positions are computed in board-local space so the edge tests work
	// for both orientations.
	x := rect.Min.X
	y := rect.Min.Y - l.Header
	if x < sq*7 {
		x += sq * 3 / 4
	} else {
		x += sq / 2
	}
	if y > 0 {
		y -= sq / 4
	}
	y += l.Header

	icon, err := nagImage(name, sq/2)
	if err != nil {
		return err
	}
	target := image.Rect(x, y, x+sq/2, y+sq/2)
	imagedraw.Draw(dst, target, icon, image.Point{}, imagedraw.Over)
	return nil
}
