package gamesource

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/park285/chessgif/internal/analysis"
)

var (
	evalRe = regexp.MustCompile(`\[%eval\s+([^\]\s]+)\s*\]`)
	clkRe  = regexp.MustCompile(`\[%clk\s+([^\]\s]+)\s*\]`)
	tagRe  = regexp.MustCompile(`^\[(\w+)\s+"(.*)"\]$`)
)

// scanTagPairs reads the tag-pair section of a PGN export into a key/value
// map. Scanning stops at the first movetext line.
func scanTagPairs(raw string) map[string]string {
	tags := map[string]string{}
	for _, line := range strings.Split(raw, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "[") {
			break
		}
		if m := tagRe.FindStringSubmatch(t); m != nil {
			tags[m[1]] = strings.ReplaceAll(m[2], `\"`, `"`)
		}
	}
	return tags
}

// movetextOf strips the leading tag-pair section of a PGN export and
// returns the movetext that follows it.
func movetextOf(raw string) string {
	lines := strings.Split(raw, "\n")
	start := 0
	for start < len(lines) {
		t := strings.TrimSpace(lines[start])
		if t == "" || (strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]")) {
			start++
			continue
		}
		break
	}
	return strings.Join(lines[start:], "\n")
}

// scanAnnotations walks the mainline of a movetext string and returns one
// annotation per half-move, taken from the {...} comment commands that
// follow each move. Variations and game-level comments are skipped. The
// caller is responsible for checking that the count matches the parsed
// game; a mismatch means the annotations cannot be trusted.
func scanAnnotations(movetext string) []analysis.Annotation {
	var anns []analysis.Annotation
	depth := 0
	i := 0
	n := len(movetext)

	for i < n {
		c := movetext[i]
		switch {
		case c == '{':
			end := strings.IndexByte(movetext[i+1:], '}')
			if end < 0 {
				return anns
			}
			if depth == 0 && len(anns) > 0 {
				applyComment(&anns[len(anns)-1], movetext[i+1:i+1+end])
			}
			i += end + 2
		case c == ';':
			nl := strings.IndexByte(movetext[i:], '\n')
			if nl < 0 {
				return anns
			}
			i += nl + 1
		case c == '(':
			depth++
			i++
		case c == ')':
			if depth > 0 {
				depth--
			}
			i++
		case isSpace(c):
			i++
		default:
			end := i
			for end < n && !isSpace(movetext[end]) && !strings.ContainsRune("{};()", rune(movetext[end])) {
				end++
			}
			if depth == 0 && isMoveToken(movetext[i:end]) {
				anns = append(anns, analysis.Annotation{})
			}
			i = end
		}
	}
	return anns
}

func applyComment(ann *analysis.Annotation, comment string) {
	if m := evalRe.FindStringSubmatch(comment); m != nil {
		if score, err := analysis.ParseEval(m[1]); err == nil {
			ann.Eval = &score
		}
	}
	if m := clkRe.FindStringSubmatch(comment); m != nil {
		if clk, err := analysis.ParseClock(m[1]); err == nil {
			ann.Clock = &clk
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isMoveToken filters out move numbers, NAGs, and game results; whatever
// remains is a move in some notation.
func isMoveToken(tok string) bool {
	if tok == "" {
		return false
	}
	switch tok {
	case "1-0", "0-1", "1/2-1/2", "*":
		return false
	}
	if tok[0] == '$' {
		return false
	}
	numeric := true
	for _, r := range tok {
		if !unicode.IsDigit(r) && r != '.' {
			numeric = false
			break
		}
	}
	return !numeric
}
