package uci

import (
	"strings"
	"testing"
	"time"

	"github.com/park285/chessgif/internal/analysis"
)

func TestParseInfo(t *testing.T) {
	tests := []struct {
		line  string
		ok    bool
		depth int
		score analysis.Score
	}{
		{
			line:  "info depth 20 seldepth 31 multipv 1 score cp 35 nodes 1234567 nps 900000 pv e2e4 e7e5",
			ok:    true,
			depth: 20,
			score: analysis.Cp(35),
		},
		{
			line:  "info depth 12 score cp -87 pv d7d5",
			ok:    true,
			depth: 12,
			score: analysis.Cp(-87),
		},
		{
			line:  "info depth 18 score mate -3 pv h7h6",
			ok:    true,
			depth: 18,
			score: analysis.MateIn(-3),
		},
		{
			// a mated position reports mate 0 with no pv at all
			line:  "info depth 0 score mate 0",
			ok:    true,
			depth: 0,
			score: analysis.MateIn(0),
		},
		{
			line:  "info depth 14 score cp 13 lowerbound nodes 5000",
			ok:    true,
			depth: 14,
			score: analysis.Cp(13),
		},
		{
			line: "info depth 5 currmove e2e4 currmovenumber 1",
			ok:   false,
		},
		{
			line: "info string NNUE evaluation using nn-abc.nnue",
			ok:   false,
		},
	}

	for _, tt := range tests {
		info, ok := parseInfo(tt.line)
		if ok != tt.ok {
			t.Errorf("parseInfo(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if info.depth != tt.depth {
			t.Errorf("parseInfo(%q) depth = %d, want %d", tt.line, info.depth, tt.depth)
		}
		if info.score != tt.score {
			t.Errorf("parseInfo(%q) score = %v, want %v", tt.line, info.score, tt.score)
		}
	}
}

func TestBuildPositionCommand(t *testing.T) {
	if got := buildPositionCommand(""); got != "position startpos\n" {
		t.Errorf("empty fen = %q", got)
	}
	if got := buildPositionCommand("startpos"); got != "position startpos\n" {
		t.Errorf("startpos = %q", got)
	}
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	if got := buildPositionCommand(fen); got != "position fen "+fen+"\n" {
		t.Errorf("fen = %q", got)
	}
}

func TestBuildGoTokens(t *testing.T) {
	tokens, err := buildGoTokens(Limits{Depth: 12})
	if err != nil {
		t.Fatalf("depth limits: %v", err)
	}
	if got := strings.Join(tokens, " "); got != "go depth 12" {
		t.Errorf("depth tokens = %q", got)
	}

	tokens, err = buildGoTokens(Limits{MoveTimeMillis: 300, NodeCap: 100000})
	if err != nil {
		t.Fatalf("movetime limits: %v", err)
	}
	joined := strings.Join(tokens, " ")
	if !strings.Contains(joined, "movetime 300") || !strings.Contains(joined, "nodes 100000") {
		t.Errorf("movetime tokens = %q", joined)
	}

	if _, err := buildGoTokens(Limits{}); err == nil {
		t.Error("empty limits accepted")
	}
}

func TestComputeSearchTimeout(t *testing.T) {
	if got := computeSearchTimeout(Limits{Depth: 10}); got != 6*time.Second {
		t.Errorf("depth 10 timeout = %v, want 6s floor", got)
	}
	if got := computeSearchTimeout(Limits{Depth: 100}); got != 20*time.Second {
		t.Errorf("depth 100 timeout = %v, want 20s ceiling", got)
	}
	if got := computeSearchTimeout(Limits{MoveTimeMillis: 500}); got != 3*time.Second {
		t.Errorf("movetime 500 timeout = %v, want 3s", got)
	}
}
