// Package gifenc sequences rendered frames into an animated GIF.
package gifenc

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"time"
)

var ErrNoFrames = errors.New("no frames to encode")

// Frame pairs one composed image with its display duration. Frames are
// encoded 1:1 in the order given, never reordered or dropped.
type Frame struct {
	Image    image.Image
	Duration time.Duration
}

// Encode writes the animation to w with an infinite loop. Durations are
// rounded down to GIF centisecond resolution.
func Encode(w io.Writer, frames []Frame) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	first := frames[0].Image.Bounds()
	out := &gif.GIF{LoopCount: 0}
	for i, frame := range frames {
		bounds := frame.Image.Bounds()
		if bounds.Dx() != first.Dx() || bounds.Dy() != first.Dy() {
			return fmt.Errorf("frame %d is %dx%d, animation is %dx%d",
				i, bounds.Dx(), bounds.Dy(), first.Dx(), first.Dy())
		}

		paletted := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, paletted.Bounds(), frame.Image, bounds.Min)

		out.Image = append(out.Image, paletted)
		out.Delay = append(out.Delay, int(frame.Duration/(10*time.Millisecond)))
	}

	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// EncodeFile writes the animation through a temp file and renames it into
// place, so a failed encode leaves nothing behind.
func EncodeFile(path string, frames []Frame) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".chessgif-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, frames); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}
