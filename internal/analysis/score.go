package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Score is a single engine evaluation from the point of view of one side.
// When IsMate is set, Mate holds the signed mate distance: zero or positive
// means the owning side delivers mate, negative means it gets mated.
type Score struct {
	CP     int
	Mate   int
	IsMate bool
}

func Cp(n int) Score { return Score{CP: n} }

func MateIn(n int) Score { return Score{Mate: n, IsMate: true} }

// Clamped collapses the score to a bounded centipawn value. Mate scores pin
// to the boundary, finite scores clamp without rescaling the interior.
func (s Score) Clamped(max int) int {
	if s.IsMate {
		if s.Mate >= 0 {
			return max
		}
		return -max
	}
	if s.CP > max {
		return max
	}
	if s.CP < -max {
		return -max
	}
	return s.CP
}

// Negated flips the score to the opposite side's point of view. A mate
// distance of zero flips between "mated now" and "mate delivered", which is
// the same encoded value; every producer in this module only ever negates
// the mated side, so the winning-side reading holds.
func (s Score) Negated() Score {
	if s.IsMate {
		return MateIn(-s.Mate)
	}
	return Cp(-s.CP)
}

func (s Score) String() string {
	if s.IsMate {
		return fmt.Sprintf("#%d", s.Mate)
	}
	return fmt.Sprintf("%+.2f", float64(s.CP)/100)
}

// ParseEval parses the payload of a PGN [%eval ...] command: pawn-unit
// decimals such as "0.39" or "-1.2", or mate distances such as "#3" / "#-3".
func ParseEval(s string) (Score, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Score{}, errors.New("empty eval")
	}
	if strings.HasPrefix(s, "#") {
		n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
		if err != nil {
			return Score{}, fmt.Errorf("parse mate eval %q: %w", s, err)
		}
		return MateIn(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Score{}, fmt.Errorf("parse eval %q: %w", s, err)
	}
	return Cp(int(math.Round(f * 100))), nil
}

// ParseClock parses the payload of a PGN [%clk ...] command, "H:MM:SS" with
// an optional fractional second.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("parse clock %q: want H:MM:SS", s)
	}
	var total float64
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("parse clock %q: %w", s, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("parse clock %q: negative component", s)
		}
		total = total*60 + v
	}
	return time.Duration(total * float64(time.Second)), nil
}

// FormatClock renders a duration the way game clocks are shown, "H:MM:SS",
// rounding to whole seconds.
func FormatClock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// Annotation carries the optional per-ply PGN commands for one half-move.
type Annotation struct {
	Eval  *Score
	Clock *time.Duration
}
