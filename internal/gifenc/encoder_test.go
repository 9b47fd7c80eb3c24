package gifenc

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func solidFrame(w, h int, c color.RGBA, d time.Duration) Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return Frame{Image: img, Duration: d}
}

func TestEncodeRoundTrip(t *testing.T) {
	frames := []Frame{
		solidFrame(12, 10, color.RGBA{255, 0, 0, 255}, 500*time.Millisecond),
		solidFrame(12, 10, color.RGBA{0, 0, 255, 255}, 500*time.Millisecond),
		solidFrame(12, 10, color.RGBA{0, 255, 0, 255}, 1200*time.Millisecond),
	}

	var buf bytes.Buffer
	if err := Encode(&buf, frames); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(decoded.Image) != 3 {
		t.Fatalf("decoded %d frames, want 3", len(decoded.Image))
	}
	if decoded.LoopCount != 0 {
		t.Errorf("LoopCount = %d, want 0 (loop forever)", decoded.LoopCount)
	}
	wantDelays := []int{50, 50, 120}
	for i, want := range wantDelays {
		if decoded.Delay[i] != want {
			t.Errorf("Delay[%d] = %d, want %d", i, decoded.Delay[i], want)
		}
	}
	if w, h := decoded.Config.Width, decoded.Config.Height; w != 12 || h != 10 {
		t.Errorf("logical screen %dx%d, want 12x10", w, h)
	}

	r, g, b, _ := decoded.Image[0].At(6, 5).RGBA()
	if r>>8 < 200 || g>>8 > 60 || b>>8 > 60 {
		t.Errorf("first frame center = (%d,%d,%d), want near-red", r>>8, g>>8, b>>8)
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); !errors.Is(err, ErrNoFrames) {
		t.Fatalf("Encode(nil) = %v, want ErrNoFrames", err)
	}
}

func TestEncodeRejectsMismatchedFrames(t *testing.T) {
	frames := []Frame{
		solidFrame(10, 10, color.RGBA{A: 255}, time.Second),
		solidFrame(12, 10, color.RGBA{A: 255}, time.Second),
	}
	var buf bytes.Buffer
	if err := Encode(&buf, frames); err == nil {
		t.Fatal("Encode accepted frames of different sizes")
	}
}

func TestEncodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gif")

	frames := []Frame{solidFrame(8, 8, color.RGBA{10, 20, 30, 255}, time.Second)}
	if err := EncodeFile(path, frames); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	if _, err := gif.DecodeAll(f); err != nil {
		t.Fatalf("output does not decode: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.gif" {
		t.Errorf("directory holds %d entries, want only out.gif", len(entries))
	}
}

func TestEncodeFileCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gif")

	if err := EncodeFile(path, nil); err == nil {
		t.Fatal("EncodeFile accepted an empty animation")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("failed encode left %d files behind", len(entries))
	}
}
