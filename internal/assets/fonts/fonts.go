package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	parseOnce sync.Once
	parsed    *opentype.Font
	parseErr  error

	faceMu    sync.RWMutex
	faceCache = map[float64]font.Face{}
)

// Face returns a cached face of the bundled typeface at the given point size.
func Face(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}

	faceMu.RLock()
	if f, ok := faceCache[size]; ok {
		faceMu.RUnlock()
		return f, nil
	}
	faceMu.RUnlock()

	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("parse bundled font: %w", parseErr)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}

	faceMu.Lock()
	faceCache[size] = face
	faceMu.Unlock()

	return face, nil
}

// CaptionFace returns the face used for small fixed-size captions.
func CaptionFace() (font.Face, error) {
	return Face(12)
}
