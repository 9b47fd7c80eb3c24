package render

import (
	"image"
	"image/color"
	imagedraw "image/draw"

	chess "github.com/corentings/chess/v2"
)

// MoveHighlight marks the from/to squares of the move that produced the
// current position.
type MoveHighlight struct {
	From chess.Square
	To   chess.Square
}

// Highlights selects the square tints drawn under the piece glyphs.
type Highlights struct {
	Move *MoveHighlight
	// Check is the checked king's square, nil when the position is not check.
	Check *chess.Square
}

// DrawBoard paints the full board region of the canvas: square fills,
// highlight tints, then piece glyphs. The result is fully opaque.
func DrawBoard(dst *image.RGBA, l Layout, board *chess.Board, theme BoardTheme, pieceSet string, hl Highlights) error {
	squares := board.SquareMap()

	for rank := chess.Rank1; rank <= chess.Rank8; rank++ {
		for file := chess.FileA; file <= chess.FileH; file++ {
			sq := chess.NewSquare(file, rank)
			rect := l.SquareRect(sq)
			imagedraw.Draw(dst, rect, image.NewUniform(squareFill(sq, theme)), image.Point{}, imagedraw.Src)

			if tint := squareTint(sq, hl); tint != nil {
				imagedraw.Draw(dst, rect, image.NewUniform(tint), image.Point{}, imagedraw.Over)
			}

			piece, ok := squares[sq]
			if !ok || piece == chess.NoPiece {
				continue
			}
			img, err := pieceImage(piece, l.Square, pieceSet)
			if err != nil {
				return err
			}
			imagedraw.Draw(dst, rect, img, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func squareFill(sq chess.Square, theme BoardTheme) color.RGBA {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return theme.Dark
	}
	return theme.Light
}

func squareTint(sq chess.Square, hl Highlights) color.Color {
	if hl.Check != nil && *hl.Check == sq {
		return checkTint
	}
	if hl.Move != nil && (hl.Move.From == sq || hl.Move.To == sq) {
		return moveTint
	}
	return nil
}
