package gamesource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	chess "github.com/corentings/chess/v2"

	"github.com/park285/chessgif/internal/analysis"
)

// ErrMalformed reports an inconsistent game input: a PGN that does not
// parse, a move without a matching position, or an annotation list whose
// length does not match the ply count.
var ErrMalformed = errors.New("malformed game input")

// Source is the read-only view of one parsed game: ordered positions and
// moves, per-ply annotations, player names, and the capture history. It is
// immutable after construction apart from SetAnnotations and safe to share
// between generations.
type Source struct {
	game      *chess.Game
	moves     []*chess.Move
	positions []*chess.Position
	anns      []analysis.Annotation
	captures  []capturedPiece
	white     string
	black     string
}

type capturedPiece struct {
	ply   int
	piece chess.Piece
}

// Load parses a PGN stream. Mainline [%eval ...] and [%clk ...] commands are
// extracted from the PGN text and aligned to plies.
func Load(r io.Reader) (*Source, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pgn: %w", err)
	}

	opt, err := chess.PGN(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse pgn: %v", ErrMalformed, err)
	}

	src, err := FromGame(chess.NewGame(opt), nil)
	if err != nil {
		return nil, err
	}

	tags := scanTagPairs(string(raw))
	if v := strings.TrimSpace(tags["White"]); v != "" {
		src.white = v
	}
	if v := strings.TrimSpace(tags["Black"]); v != "" {
		src.black = v
	}

	if scanned := scanAnnotations(movetextOf(string(raw))); len(scanned) == len(src.moves) {
		src.anns = scanned
	}
	src.fillCheckmateEvals()
	return src, nil
}

// FromGame wraps an already-built game. anns may be nil; otherwise its
// length must equal the ply count.
func FromGame(game *chess.Game, anns []analysis.Annotation) (*Source, error) {
	if game == nil {
		return nil, fmt.Errorf("%w: nil game", ErrMalformed)
	}
	moves := game.Moves()
	positions := game.Positions()
	if len(positions) != len(moves)+1 {
		return nil, fmt.Errorf("%w: %d positions for %d moves", ErrMalformed, len(positions), len(moves))
	}
	for i, pos := range positions {
		if pos == nil {
			return nil, fmt.Errorf("%w: missing position at index %d", ErrMalformed, i)
		}
	}

	src := &Source{
		game:      game,
		moves:     moves,
		positions: positions,
		anns:      make([]analysis.Annotation, len(moves)),
		white:     "White",
		black:     "Black",
	}
	src.captures = computeCaptures(moves, positions)

	if anns != nil {
		if err := src.SetAnnotations(anns); err != nil {
			return nil, err
		}
	}
	src.fillCheckmateEvals()
	return src, nil
}

// fillCheckmateEvals marks terminal checkmate plies as annotated. PGN
// exports routinely omit the eval of the mating move; the position speaks
// for itself (mate delivered by the mover).
func (s *Source) fillCheckmateEvals() {
	for i := range s.anns {
		if s.anns[i].Eval != nil {
			continue
		}
		if s.positions[i+1].Status() == chess.Checkmate {
			mate := analysis.MateIn(0)
			s.anns[i].Eval = &mate
		}
	}
}

// PlyCount returns the number of half-moves in the mainline.
func (s *Source) PlyCount() int { return len(s.moves) }

// PositionAfter returns the position reached after the given ply; ply 0 is
// the starting position.
func (s *Source) PositionAfter(ply int) (*chess.Position, error) {
	if ply < 0 || ply >= len(s.positions) {
		return nil, fmt.Errorf("ply %d out of range 0..%d", ply, len(s.positions)-1)
	}
	return s.positions[ply], nil
}

// MoveAt returns the half-move with the given 1-based ply index.
func (s *Source) MoveAt(ply int) (*chess.Move, error) {
	if ply < 1 || ply > len(s.moves) {
		return nil, fmt.Errorf("ply %d out of range 1..%d", ply, len(s.moves))
	}
	return s.moves[ply-1], nil
}

// AnnotationAt returns the annotation for the given 1-based ply.
func (s *Source) AnnotationAt(ply int) (analysis.Annotation, error) {
	if ply < 1 || ply > len(s.anns) {
		return analysis.Annotation{}, fmt.Errorf("ply %d out of range 1..%d", ply, len(s.anns))
	}
	return s.anns[ply-1], nil
}

// Annotations returns a copy of the per-ply annotation list.
func (s *Source) Annotations() []analysis.Annotation {
	return append([]analysis.Annotation(nil), s.anns...)
}

// SetAnnotations replaces the per-ply annotations, one entry per half-move.
func (s *Source) SetAnnotations(anns []analysis.Annotation) error {
	if len(anns) != len(s.moves) {
		return fmt.Errorf("%w: %d annotations for %d plies", ErrMalformed, len(anns), len(s.moves))
	}
	s.anns = append([]analysis.Annotation(nil), anns...)
	s.fillCheckmateEvals()
	return nil
}

// WhiteMovers reports, per ply, whether white played that half-move.
func (s *Source) WhiteMovers() []bool {
	movers := make([]bool, len(s.moves))
	for i := range s.moves {
		movers[i] = s.positions[i].Turn() == chess.White
	}
	return movers
}

// HasAnalysis reports whether every ply carries an evaluation. When it
// returns true, building the evaluation series cannot fail.
func (s *Source) HasAnalysis() bool {
	for i := range s.anns {
		if s.anns[i].Eval == nil {
			return false
		}
	}
	return true
}

// HasClocks reports whether any ply carries a clock annotation.
func (s *Source) HasClocks() bool {
	for i := range s.anns {
		if s.anns[i].Clock != nil {
			return true
		}
	}
	return false
}

// Series builds the white-relative clamped evaluation series.
func (s *Source) Series(maxEval int) (*analysis.Series, error) {
	return analysis.BuildSeries(s.anns, s.WhiteMovers(), maxEval)
}

// White returns the white player's name.
func (s *Source) White() string { return s.white }

// Black returns the black player's name.
func (s *Source) Black() string { return s.black }

// FENAfter returns the FEN of the position reached after the given ply.
func (s *Source) FENAfter(ply int) (string, error) {
	pos, err := s.PositionAfter(ply)
	if err != nil {
		return "", err
	}
	return pos.String(), nil
}

// Game exposes the underlying game.
func (s *Source) Game() *chess.Game { return s.game }

// PGN renders the game, current annotations not included.
func (s *Source) PGN() string { return s.game.String() }

// CapturesThrough lists the pieces captured up to and including the given
// ply, in capture order. The returned pieces carry the color of the side
// that lost them.
func (s *Source) CapturesThrough(ply int) []chess.Piece {
	var out []chess.Piece
	for _, c := range s.captures {
		if c.ply > ply {
			break
		}
		out = append(out, c.piece)
	}
	return out
}

func computeCaptures(moves []*chess.Move, positions []*chess.Position) []capturedPiece {
	var captures []capturedPiece
	for i, mv := range moves {
		if !mv.HasTag(chess.Capture) && !mv.HasTag(chess.EnPassant) {
			continue
		}
		pos := positions[i]
		captureSquare := mv.S2()
		if mv.HasTag(chess.EnPassant) {
			file := mv.S2().File()
			rank := mv.S2().Rank()
			if pos.Turn() == chess.White {
				captureSquare = chess.NewSquare(file, rank-1)
			} else {
				captureSquare = chess.NewSquare(file, rank+1)
			}
		}
		piece := pos.Board().Piece(captureSquare)
		if piece == chess.NoPiece || piece.Type() == chess.King {
			continue
		}
		captures = append(captures, capturedPiece{ply: i + 1, piece: piece})
	}
	return captures
}
