package render

import (
	"fmt"
	"image/color"
)

// BoardTheme holds the two square fills for one board style.
type BoardTheme struct {
	Light color.RGBA
	Dark  color.RGBA
}

// NewBoardTheme parses a light/dark hex pair ("#f0d9b5" style) into a theme.
func NewBoardTheme(light, dark string) (BoardTheme, error) {
	l, err := ParseHexColor(light)
	if err != nil {
		return BoardTheme{}, fmt.Errorf("light square: %w", err)
	}
	d, err := ParseHexColor(dark)
	if err != nil {
		return BoardTheme{}, fmt.Errorf("dark square: %w", err)
	}
	return BoardTheme{Light: l, Dark: d}, nil
}

// ParseHexColor accepts #rgb and #rrggbb notations.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("color %q: missing # prefix", s)
	}
	hex := s[1:]

	nib := func(c byte) (uint8, bool) {
		switch {
		case c >= '0' && c <= '9':
			return c - '0', true
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10, true
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10, true
		}
		return 0, false
	}

	byteAt := func(i int) (uint8, bool) {
		hi, ok1 := nib(hex[i])
		lo, ok2 := nib(hex[i+1])
		return hi<<4 | lo, ok1 && ok2
	}

	switch len(hex) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			n, ok := nib(hex[i])
			if !ok {
				return color.RGBA{}, fmt.Errorf("color %q: bad hex digit", s)
			}
			out[i] = n<<4 | n
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}, nil
	case 6:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			b, ok := byteAt(i * 2)
			if !ok {
				return color.RGBA{}, fmt.Errorf("color %q: bad hex digit", s)
			}
			out[i] = b
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}, nil
	}
	return color.RGBA{}, fmt.Errorf("color %q: want #rgb or #rrggbb", s)
}

var (
	moveTint  = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	checkTint = color.NRGBA{R: 224, G: 64, B: 48, A: 150}

	moveArrowColor  = color.NRGBA{R: 0, G: 0, B: 255, A: 100}
	checkArrowColor = color.NRGBA{R: 255, G: 0, B: 0, A: 100}

	barBlack   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	barWhite   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	cursorRed  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	graphAbove = color.RGBA{R: 0x7f, G: 0x7e, B: 0x7c, A: 255}
	graphBelow = color.RGBA{R: 0x51, G: 0x4f, B: 0x4c, A: 255}
	graphAxis  = color.RGBA{R: 0x7d, G: 0x7d, B: 0x7d, A: 255}
)
