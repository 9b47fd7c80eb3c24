package gamesource

import (
	"fmt"
	"sort"

	chess "github.com/corentings/chess/v2"
)

// GivesCheck reports whether the half-move at the given 1-based ply put the
// opponent in check.
func (s *Source) GivesCheck(ply int) bool {
	mv, err := s.MoveAt(ply)
	if err != nil {
		return false
	}
	return mv.HasTag(chess.Check)
}

// Checkers returns the checked king's square and the squares of all pieces
// giving check in the position reached after the given ply. The checker
// list is empty when the position is not check.
func (s *Source) Checkers(ply int) (chess.Square, []chess.Square, error) {
	pos, err := s.PositionAfter(ply)
	if err != nil {
		return 0, nil, err
	}
	defender := pos.Turn()
	board := pos.Board()

	king, ok := kingSquare(board, defender)
	if !ok {
		return 0, nil, fmt.Errorf("no %v king on the board", defender)
	}

	var checkers []chess.Square
	for sq, piece := range board.SquareMap() {
		if piece.Color() == defender {
			continue
		}
		if attacks(board, sq, piece, king) {
			checkers = append(checkers, sq)
		}
	}
	sort.Slice(checkers, func(i, j int) bool { return checkers[i] < checkers[j] })
	return king, checkers, nil
}

func kingSquare(board *chess.Board, c chess.Color) (chess.Square, bool) {
	for sq, piece := range board.SquareMap() {
		if piece.Type() == chess.King && piece.Color() == c {
			return sq, true
		}
	}
	return 0, false
}

// attacks reports whether the piece standing on from attacks the target
// square on the given board, sliding pieces blocked by occupancy.
func attacks(board *chess.Board, from chess.Square, piece chess.Piece, target chess.Square) bool {
	df := int(target.File()) - int(from.File())
	dr := int(target.Rank()) - int(from.Rank())
	if df == 0 && dr == 0 {
		return false
	}
	adf, adr := abs(df), abs(dr)

	switch piece.Type() {
	case chess.Pawn:
		if adf != 1 {
			return false
		}
		if piece.Color() == chess.White {
			return dr == 1
		}
		return dr == -1
	case chess.Knight:
		return (adf == 1 && adr == 2) || (adf == 2 && adr == 1)
	case chess.King:
		return adf <= 1 && adr <= 1
	case chess.Bishop:
		return adf == adr && clearPath(board, from, target, sign(df), sign(dr))
	case chess.Rook:
		return (df == 0 || dr == 0) && clearPath(board, from, target, sign(df), sign(dr))
	case chess.Queen:
		if adf != adr && df != 0 && dr != 0 {
			return false
		}
		return clearPath(board, from, target, sign(df), sign(dr))
	default:
		return false
	}
}

// clearPath checks the squares strictly between from and target along the
// given unit step.
func clearPath(board *chess.Board, from, target chess.Square, stepF, stepR int) bool {
	f := int(from.File()) + stepF
	r := int(from.Rank()) + stepR
	for f != int(target.File()) || r != int(target.Rank()) {
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return false
		}
		sq := chess.NewSquare(chess.File(f), chess.Rank(r))
		if board.Piece(sq) != chess.NoPiece {
			return false
		}
		f += stepF
		r += stepR
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
