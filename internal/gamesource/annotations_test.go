package gamesource

import (
	"strings"
	"testing"
)

func TestScanTagPairs(t *testing.T) {
	raw := "[Event \"Casual\"]\n[White \"Alice \\\"AJ\\\"\"]\n[Black \"Bob\"]\n\n1. e4 [not a tag] *\n"
	tags := scanTagPairs(raw)
	if tags["Event"] != "Casual" {
		t.Errorf("Event = %q", tags["Event"])
	}
	if tags["White"] != `Alice "AJ"` {
		t.Errorf("White = %q", tags["White"])
	}
	if tags["Black"] != "Bob" {
		t.Errorf("Black = %q", tags["Black"])
	}
	if len(tags) != 3 {
		t.Errorf("tag count = %d, want 3", len(tags))
	}
}

func TestMovetextOf(t *testing.T) {
	raw := "[Event \"x\"]\n[White \"a\"]\n\n1. e4 e5 *\n"
	got := movetextOf(raw)
	if strings.Contains(got, "[Event") {
		t.Errorf("tag section survived: %q", got)
	}
	if !strings.HasPrefix(strings.TrimSpace(got), "1. e4") {
		t.Errorf("movetext = %q", got)
	}
}

func TestScanAnnotationsSkipsVariations(t *testing.T) {
	text := `1. e4 {[%eval 0.3]} (1. d4 {[%eval -0.5]} 1... d5) 1... e5 {[%eval 0.25] [%clk 0:03:00]} 2. Nf3 $1 {no eval here} 1-0`
	anns := scanAnnotations(text)
	if len(anns) != 3 {
		t.Fatalf("got %d annotations, want 3", len(anns))
	}
	if anns[0].Eval == nil || anns[0].Eval.CP != 30 {
		t.Errorf("ply 1 = %+v", anns[0].Eval)
	}
	if anns[1].Eval == nil || anns[1].Eval.CP != 25 || anns[1].Clock == nil {
		t.Errorf("ply 2 = %+v clock %v", anns[1].Eval, anns[1].Clock)
	}
	if anns[2].Eval != nil {
		t.Errorf("ply 3 picked up an eval: %+v", anns[2].Eval)
	}
}

func TestScanAnnotationsIgnoresLeadingComment(t *testing.T) {
	anns := scanAnnotations(`{pre-game note [%eval 9.9]} 1. e4 {[%eval 0.1]} *`)
	if len(anns) != 1 {
		t.Fatalf("got %d annotations, want 1", len(anns))
	}
	if anns[0].Eval == nil || anns[0].Eval.CP != 10 {
		t.Errorf("ply 1 = %+v", anns[0].Eval)
	}
}

func TestScanAnnotationsSemicolonComment(t *testing.T) {
	anns := scanAnnotations("1. e4 ; scribbled [%eval 9.9] note\n1... e5 {[%eval 0.2]} *")
	if len(anns) != 2 {
		t.Fatalf("got %d annotations, want 2", len(anns))
	}
	if anns[0].Eval != nil {
		t.Errorf("rest-of-line comment applied: %+v", anns[0].Eval)
	}
	if anns[1].Eval == nil || anns[1].Eval.CP != 20 {
		t.Errorf("ply 2 = %+v", anns[1].Eval)
	}
}

func TestScanAnnotationsMateTokens(t *testing.T) {
	anns := scanAnnotations(`1. e4 {[%eval #3]} 1... e5 {[%eval #-2]} *`)
	if len(anns) != 2 {
		t.Fatalf("got %d annotations, want 2", len(anns))
	}
	if !anns[0].Eval.IsMate || anns[0].Eval.Mate != 3 {
		t.Errorf("ply 1 = %+v", anns[0].Eval)
	}
	if !anns[1].Eval.IsMate || anns[1].Eval.Mate != -2 {
		t.Errorf("ply 2 = %+v", anns[1].Eval)
	}
}

func TestIsMoveToken(t *testing.T) {
	moves := []string{"e4", "Nf3", "O-O", "O-O-O", "exd6", "Qxf7#", "e8=Q+", "a1=N"}
	for _, tok := range moves {
		if !isMoveToken(tok) {
			t.Errorf("isMoveToken(%q) = false", tok)
		}
	}
	other := []string{"", "1.", "12...", "1-0", "0-1", "1/2-1/2", "*", "$14", "3"}
	for _, tok := range other {
		if isMoveToken(tok) {
			t.Errorf("isMoveToken(%q) = true", tok)
		}
	}
}
