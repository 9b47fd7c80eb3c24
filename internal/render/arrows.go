package render

import (
	"image"
	"image/color"
	"math"

	chess "github.com/corentings/chess/v2"
)

// DrawMoveArrow draws the played-move arrow between square centers.
func DrawMoveArrow(dst *image.RGBA, l Layout, from, to chess.Square) {
	drawArrow(dst, l, from, to, moveArrowColor)
}

// DrawCheckArrows draws one arrow from every checking piece to the king.
func DrawCheckArrows(dst *image.RGBA, l Layout, checkers []chess.Square, king chess.Square) {
	for _, sq := range checkers {
		drawArrow(dst, l, sq, king, checkArrowColor)
	}
}

// drawArrow renders a shaft quad plus a head triangle, both proportional to
// the square size. The shaft stops half a square short of the target center
// so the head covers the remainder.
func drawArrow(dst *image.RGBA, l Layout, from, to chess.Square, clr color.Color) {
	if from == to {
		return
	}
	fc := l.SquareCenter(from)
	tc := l.SquareCenter(to)
	start := pointF{X: float64(fc.X), Y: float64(fc.Y)}
	tip := pointF{X: float64(tc.X), Y: float64(tc.Y)}

	sq := float64(l.Square)
	length := math.Hypot(tip.X-start.X, tip.Y-start.Y)
	if length == 0 {
		return
	}

	dirX := (tip.X - start.X) / length
	dirY := (tip.Y - start.Y) / length
	perpX := -dirY
	perpY := dirX

	_, shaftEnd := shortenLine(start, tip, sq/2)
	halfWidth := sq / 8

	fillQuad(dst,
		pointF{X: start.X - perpX*halfWidth, Y: start.Y - perpY*halfWidth},
		pointF{X: start.X + perpX*halfWidth, Y: start.Y + perpY*halfWidth},
		pointF{X: shaftEnd.X + perpX*halfWidth, Y: shaftEnd.Y + perpY*halfWidth},
		pointF{X: shaftEnd.X - perpX*halfWidth, Y: shaftEnd.Y - perpY*halfWidth},
		clr)

	angle := angleBetween(start, tip)
	headLeft := rotateAround(pointF{X: tip.X - sq/2, Y: tip.Y - sq/3}, angle, tip)
	headRight := rotateAround(pointF{X: tip.X - sq/2, Y: tip.Y + sq/3}, angle, tip)
	fillTriangleF(dst, tip, headLeft, headRight, clr)
}

func fillQuad(img *image.RGBA, p0, p1, p2, p3 pointF, clr color.Color) {
	fillTriangleF(img, p0, p1, p2, clr)
	fillTriangleF(img, p0, p2, p3, clr)
}

func fillTriangleF(img *image.RGBA, a, b, c pointF, clr color.Color) {
	minX := int(math.Floor(math.Min(a.X, math.Min(b.X, c.X))))
	maxX := int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))))
	minY := int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))))
	maxY := int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if pointInTriangle(float64(x)+0.5, float64(y)+0.5, a, b, c) {
				blendPixel(img, x, y, clr)
			}
		}
	}
}

func pointInTriangle(x, y float64, a, b, c pointF) bool {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return false
	}
	alpha := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / denom
	beta := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / denom
	gamma := 1 - alpha - beta
	return alpha >= 0 && beta >= 0 && gamma >= 0
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	if radius <= 0 {
		blendPixel(img, center.X, center.Y, clr)
		return
	}
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			blendPixel(img, center.X+x, center.Y+y, clr)
		}
	}
}

// blendPixel composites clr over the destination pixel (source-over).
func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}

	sr, sg, sb, sa := clr.RGBA()
	srcA := float64(sa) / 65535.0
	if srcA <= 0 {
		return
	}
	srcR := float64(sr) / 65535.0
	srcG := float64(sg) / 65535.0
	srcB := float64(sb) / 65535.0

	dst := img.RGBAAt(x, y)
	dstA := float64(dst.A) / 255.0

	var dstR, dstG, dstB float64
	if dstA > 0 {
		inv := 1.0 / dstA
		dstR = float64(dst.R) / 255.0 * inv
		dstG = float64(dst.G) / 255.0 * inv
		dstB = float64(dst.B) / 255.0 * inv
	}

	outA := srcA + dstA*(1-srcA)
	if outA <= 0 {
		img.SetRGBA(x, y, color.RGBA{})
		return
	}

	outR := (srcR*srcA + dstR*dstA*(1-srcA)) / outA
	outG := (srcG*srcA + dstG*dstA*(1-srcA)) / outA
	outB := (srcB*srcA + dstB*dstA*(1-srcA)) / outA

	img.SetRGBA(x, y, color.RGBA{
		R: floatToUint8(outR * outA * 255.0),
		G: floatToUint8(outG * outA * 255.0),
		B: floatToUint8(outB * outA * 255.0),
		A: floatToUint8(outA * 255.0),
	})
}

func floatToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
