package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
	"sync"

	chess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets
var assetFiles embed.FS

// DefaultPieceSet is the built-in glyph set.
const DefaultPieceSet = "classic"

type glyphCacheKey struct {
	name string
	size int
}

var (
	glyphCache   = map[glyphCacheKey]image.Image{}
	glyphCacheMu sync.RWMutex
)

// KnownPieceSet reports whether a piece set directory exists in the
// embedded assets.
func KnownPieceSet(set string) bool {
	entries, err := assetFiles.ReadDir("assets/pieces/" + set)
	return err == nil && len(entries) > 0
}

// PieceSetNames lists the embedded piece sets, sorted.
func PieceSetNames() []string {
	entries, err := assetFiles.ReadDir("assets/pieces")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func pieceImage(piece chess.Piece, size int, set string) (image.Image, error) {
	return rasterizeAsset(fmt.Sprintf("assets/pieces/%s/%s.svg", set, pieceAssetName(piece)), size)
}

func nagImage(name string, size int) (image.Image, error) {
	return rasterizeAsset(fmt.Sprintf("assets/nags/%s.svg", name), size)
}

func rasterizeAsset(name string, size int) (image.Image, error) {
	key := glyphCacheKey{name: name, size: size}

	glyphCacheMu.RLock()
	if img, ok := glyphCache[key]; ok {
		glyphCacheMu.RUnlock()
		return img, nil
	}
	glyphCacheMu.RUnlock()

	data, err := assetFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse svg %s: %w", name, err)
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 {
		w = size
		icon.ViewBox.W = float64(w)
	}
	if h <= 0 {
		h = size
		icon.ViewBox.H = float64(h)
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	glyphCacheMu.Lock()
	glyphCache[key] = img
	glyphCacheMu.Unlock()

	return img, nil
}

func pieceAssetName(piece chess.Piece) string {
	var prefix string
	if piece.Color() == chess.White {
		prefix = "w"
	} else {
		prefix = "b"
	}

	var suffix string
	switch piece.Type() {
	case chess.King:
		suffix = "K"
	case chess.Queen:
		suffix = "Q"
	case chess.Rook:
		suffix = "R"
	case chess.Bishop:
		suffix = "B"
	case chess.Knight:
		suffix = "N"
	case chess.Pawn:
		suffix = "P"
	}

	return prefix + suffix
}
