package render

import (
	"image"
	"image/color"
	imagedraw "image/draw"
	"strings"
	"time"

	chess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/park285/chessgif/internal/analysis"
	"github.com/park285/chessgif/internal/assets/fonts"
)

// HeaderData feeds the two player bands for one frame.
type HeaderData struct {
	White      string
	Black      string
	WhiteClock *time.Duration
	BlackClock *time.Duration
	// Captures is the cumulative list of captured pieces through the
	// current ply; white pieces show on the black band and vice versa.
	Captures []chess.Piece
	PieceSet string
}

// DrawHeaders paints both bands: player name left, captured piece icons
// after the wider name column, remaining clock right.
func DrawHeaders(dst *image.RGBA, l Layout, data HeaderData) error {
	if l.Header <= 0 {
		return nil
	}

	face, err := fonts.Face(float64(l.Header) * 0.7)
	if err != nil {
		return err
	}

	whiteBand := l.WhiteHeaderRect()
	blackBand := l.BlackHeaderRect()
	imagedraw.Draw(dst, whiteBand, image.NewUniform(barWhite), image.Point{}, imagedraw.Src)
	imagedraw.Draw(dst, blackBand, image.NewUniform(barBlack), image.Point{}, imagedraw.Src)

	nameLimit := (l.Width - 6) / 2
	whiteName := truncateWithEllipsis(face, data.White, nameLimit)
	blackName := truncateWithEllipsis(face, data.Black, nameLimit)

	drawBandText(dst, face, whiteBand, whiteName, barBlack, false)
	drawBandText(dst, face, blackBand, blackName, barWhite, false)
	if data.WhiteClock != nil {
		drawBandText(dst, face, whiteBand, analysis.FormatClock(*data.WhiteClock), barBlack, true)
	}
	if data.BlackClock != nil {
		drawBandText(dst, face, blackBand, analysis.FormatClock(*data.BlackClock), barWhite, true)
	}

	return drawCapturedPieces(dst, face, l, data, whiteBand, blackBand)
}

// drawBandText anchors text at the vertical middle of the band, left or
// right aligned with a 3 px inset.
func drawBandText(dst *image.RGBA, face font.Face, band image.Rectangle, text string, clr color.Color, right bool) {
	if text == "" {
		return
	}
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(clr)}
	x := band.Min.X + 3
	if right {
		x = band.Max.X - 3 - drawer.MeasureString(text).Round()
	}
	metrics := face.Metrics()
	baseline := band.Min.Y + (band.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCapturedPieces(dst *image.RGBA, face font.Face, l Layout, data HeaderData, whiteBand, blackBand image.Rectangle) error {
	if len(data.Captures) == 0 {
		return nil
	}

	measurer := font.Drawer{Face: face}
	offset := measurer.MeasureString(data.White).Round()
	if w := measurer.MeasureString(data.Black).Round(); w > offset {
		offset = w
	}
	offset += l.Header

	pieceSize := l.Header - 2
	if pieceSize <= 0 {
		return nil
	}

	taken := map[chess.Color]int{}
	for _, piece := range data.Captures {
		img, err := pieceImage(piece, pieceSize, data.PieceSet)
		if err != nil {
			return err
		}
		// A captured white piece is black's trophy.
		band := whiteBand
		if piece.Color() == chess.White {
			band = blackBand
		}
		x := band.Min.X + offset + pieceSize*taken[piece.Color()]
		y := band.Min.Y + 1
		imagedraw.Draw(dst, image.Rect(x, y, x+pieceSize, y+pieceSize), img, image.Point{}, imagedraw.Over)
		taken[piece.Color()]++
	}
	return nil
}

// truncateWithEllipsis shortens text until it fits maxWidth, appending
// "..." when anything was cut.
func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	ellipsisWidth := drawer.MeasureString(ellipsis).Round()
	if ellipsisWidth > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}

	return ellipsis
}
