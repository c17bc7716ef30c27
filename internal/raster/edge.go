package raster

import (
	"image"
	"math"

	"photo-translator/pkg/colorutil"
	"photo-translator/pkg/geometry"
)

// LumaAt returns the perceptual brightness (0-255) of the pixel at (x, y).
func LumaAt(img *image.RGBA, x, y int) float64 {
	c := img.RGBAAt(x, y)
	return colorutil.Luma(c.R, c.G, c.B)
}

// SobelMagnitude computes the normalized Sobel gradient magnitude over a
// region. The result is a row-major Width×Height slice with values in [0,1].
// Pixels on the region border use clamped neighbor coordinates.
func SobelMagnitude(img *image.RGBA, region geometry.RectInt) []float64 {
	region = region.ClampTo(geometry.FromImageRect(img.Bounds()))
	w, h := region.Width, region.Height
	if w <= 0 || h <= 0 {
		return nil
	}

	// Precompute luma for the region with a 1px clamped apron.
	luma := make([]float64, (w+2)*(h+2))
	stride := w + 2
	for y := -1; y <= h; y++ {
		sy := clampInt(region.Y+y, img.Bounds().Min.Y, img.Bounds().Max.Y-1)
		for x := -1; x <= w; x++ {
			sx := clampInt(region.X+x, img.Bounds().Min.X, img.Bounds().Max.X-1)
			luma[(y+1)*stride+(x+1)] = LumaAt(img, sx, sy)
		}
	}

	// A 3x3 Sobel kernel on 0-255 input peaks at 4*255 per axis.
	// Normalize against the single-axis maximum so a hard edge scores 1.0.
	const maxMag = 4.0 * 255.0

	out := make([]float64, w*h)
	at := func(x, y int) float64 { return luma[(y+1)*stride+(x+1)] }
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			m := math.Sqrt(gx*gx+gy*gy) / maxMag
			if m > 1 {
				m = 1
			}
			out[y*w+x] = m
		}
	}
	return out
}

// GradientAt computes the Sobel gradient direction (radians) and magnitude
// (0-1 normalized) at a single pixel using clamped neighbors.
func GradientAt(img *image.RGBA, x, y int) (direction, magnitude float64) {
	b := img.Bounds()
	at := func(px, py int) float64 {
		return LumaAt(img, clampInt(px, b.Min.X, b.Max.X-1), clampInt(py, b.Min.Y, b.Max.Y-1))
	}
	gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
		at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
	gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
		at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
	mag := math.Sqrt(gx*gx+gy*gy) / (255.0 * math.Sqrt2)
	if mag > 1 {
		mag = 1
	}
	return math.Atan2(gy, gx), mag
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
