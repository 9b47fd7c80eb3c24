package analysis

import (
	"errors"
	"fmt"
)

// ErrMissingAnnotation reports a ply without an evaluation while an
// evaluation-dependent consumer was requested.
var ErrMissingAnnotation = errors.New("missing evaluation annotation")

// Entry is one normalized point of the evaluation series, white-relative.
type Entry struct {
	WhiteMove bool // the half-move leading to this position was white's
	Value     int  // centipawns clamped to [-MaxEval, +MaxEval]
	Exact     int  // centipawns before clamping, zero for mate entries
	IsMate    bool
	MateIn    int // signed mate distance, positive when white mates
}

// Series is the normalized evaluation sequence, one entry per half-move in
// ply order. Indexing matches ply indexing exactly.
type Series struct {
	MaxEval int
	Entries []Entry
}

// BuildSeries converts mover-relative annotations into the white-relative
// clamped series. whiteMover[i] tells which side played half-move i+1.
// Every ply must carry an evaluation or the build fails.
func BuildSeries(anns []Annotation, whiteMover []bool, maxEval int) (*Series, error) {
	if len(anns) != len(whiteMover) {
		return nil, fmt.Errorf("annotation count %d does not match ply count %d", len(anns), len(whiteMover))
	}
	if maxEval <= 0 {
		return nil, fmt.Errorf("max eval must be positive, got %d", maxEval)
	}
	s := &Series{MaxEval: maxEval, Entries: make([]Entry, 0, len(anns))}
	for i, ann := range anns {
		if ann.Eval == nil {
			return nil, fmt.Errorf("%w: ply %d", ErrMissingAnnotation, i+1)
		}
		s.Entries = append(s.Entries, normalize(*ann.Eval, whiteMover[i], maxEval))
	}
	return s, nil
}

func normalize(raw Score, whiteMove bool, maxEval int) Entry {
	e := Entry{WhiteMove: whiteMove}
	if raw.IsMate {
		e.IsMate = true
		whiteWins := (raw.Mate >= 0) == whiteMove
		dist := raw.Mate
		if dist < 0 {
			dist = -dist
		}
		if whiteWins {
			e.MateIn = dist
			e.Value = maxEval
		} else {
			e.MateIn = -dist
			e.Value = -maxEval
		}
		return e
	}
	cp := raw.CP
	if !whiteMove {
		cp = -cp
	}
	e.Exact = cp
	e.Value = Cp(cp).Clamped(maxEval)
	return e
}

// At returns the entry for the given 1-based ply.
func (s *Series) At(ply int) (Entry, error) {
	if ply < 1 || ply > len(s.Entries) {
		return Entry{}, fmt.Errorf("ply %d out of range 1..%d", ply, len(s.Entries))
	}
	return s.Entries[ply-1], nil
}

// Len returns the number of plies covered by the series.
func (s *Series) Len() int { return len(s.Entries) }

// loss returns the clamped centipawns the mover of ply i+1 gave away,
// never negative. The position before the first ply counts as equal.
func (s *Series) loss(i int) int {
	before := 0
	if i > 0 {
		before = s.Entries[i-1].Value
	}
	after := s.Entries[i].Value
	var l int
	if s.Entries[i].WhiteMove {
		l = before - after
	} else {
		l = after - before
	}
	if l < 0 {
		return 0
	}
	return l
}

// AverageLoss reports the mean centipawn loss per side across the game.
func (s *Series) AverageLoss() (white, black float64) {
	var wSum, bSum, wN, bN int
	for i := range s.Entries {
		if s.Entries[i].WhiteMove {
			wSum += s.loss(i)
			wN++
		} else {
			bSum += s.loss(i)
			bN++
		}
	}
	if wN > 0 {
		white = float64(wSum) / float64(wN)
	}
	if bN > 0 {
		black = float64(bSum) / float64(bN)
	}
	return white, black
}

// Tiers holds the centipawn-loss boundaries for move-quality judgments.
// A move is judged by the highest tier whose boundary its loss reaches.
type Tiers struct {
	Inaccuracy int `yaml:"inaccuracy"`
	Mistake    int `yaml:"mistake"`
	Blunder    int `yaml:"blunder"`
}

func DefaultTiers() Tiers {
	return Tiers{Inaccuracy: 50, Mistake: 150, Blunder: 300}
}

func (t Tiers) Valid() bool {
	return t.Inaccuracy > 0 && t.Mistake > t.Inaccuracy && t.Blunder > t.Mistake
}

type Judgment int

const (
	JudgmentNone Judgment = iota
	JudgmentInaccuracy
	JudgmentMistake
	JudgmentBlunder
)

func (j Judgment) String() string {
	switch j {
	case JudgmentInaccuracy:
		return "inaccuracy"
	case JudgmentMistake:
		return "mistake"
	case JudgmentBlunder:
		return "blunder"
	default:
		return "none"
	}
}

// Judge classifies the given 1-based ply against the tier table.
func (s *Series) Judge(ply int, t Tiers) Judgment {
	if ply < 1 || ply > len(s.Entries) {
		return JudgmentNone
	}
	l := s.loss(ply - 1)
	switch {
	case l >= t.Blunder:
		return JudgmentBlunder
	case l >= t.Mistake:
		return JudgmentMistake
	case l >= t.Inaccuracy:
		return JudgmentInaccuracy
	default:
		return JudgmentNone
	}
}
