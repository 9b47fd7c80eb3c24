package analysis

import (
	"testing"
	"time"
)

func TestParseEval(t *testing.T) {
	cases := []struct {
		in   string
		want Score
	}{
		{"0.39", Cp(39)},
		{"-1.2", Cp(-120)},
		{"+0.5", Cp(50)},
		{"0", Cp(0)},
		{"12.34", Cp(1234)},
		{"#3", MateIn(3)},
		{"#-3", MateIn(-3)},
		{"#0", MateIn(0)},
	}
	for _, c := range cases {
		got, err := ParseEval(c.in)
		if err != nil {
			t.Fatalf("ParseEval(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseEval(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "abc", "#x", "1.2.3"} {
		if _, err := ParseEval(bad); err == nil {
			t.Errorf("ParseEval(%q) succeeded, want error", bad)
		}
	}
}

func TestScoreClamped(t *testing.T) {
	if got := Cp(350).Clamped(1000); got != 350 {
		t.Errorf("interior value changed: %d", got)
	}
	if got := Cp(1500).Clamped(1000); got != 1000 {
		t.Errorf("clamp high = %d, want 1000", got)
	}
	if got := Cp(-1500).Clamped(1000); got != -1000 {
		t.Errorf("clamp low = %d, want -1000", got)
	}
	if got := MateIn(5).Clamped(1000); got != 1000 {
		t.Errorf("mate for owner = %d, want 1000", got)
	}
	if got := MateIn(-1).Clamped(1000); got != -1000 {
		t.Errorf("mate against owner = %d, want -1000", got)
	}
	if got := MateIn(0).Clamped(1000); got != 1000 {
		t.Errorf("delivered mate = %d, want 1000", got)
	}
}

func TestScoreString(t *testing.T) {
	if got := Cp(39).String(); got != "+0.39" {
		t.Errorf("Cp(39) = %q", got)
	}
	if got := MateIn(-3).String(); got != "#-3" {
		t.Errorf("MateIn(-3) = %q", got)
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("0:05:03")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if want := 5*time.Minute + 3*time.Second; got != want {
		t.Errorf("ParseClock = %v, want %v", got, want)
	}

	got, err = ParseClock("1:02:03")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if want := time.Hour + 2*time.Minute + 3*time.Second; got != want {
		t.Errorf("ParseClock = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "12", "1:2:3:4", "a:b:c", "-1:00:00"} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) succeeded, want error", bad)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(5*time.Minute + 3*time.Second); got != "0:05:03" {
		t.Errorf("FormatClock = %q", got)
	}
	if got := FormatClock(time.Hour + 61*time.Second); got != "1:01:01" {
		t.Errorf("FormatClock = %q", got)
	}
}
