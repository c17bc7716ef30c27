// Package colorutil provides shared color utilities for the photo translator.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
)

// Common colors used for text rendering defaults.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Luma returns the perceptual brightness (0-255) of an RGB triple using
// ITU-R BT.601 weights in fixed point.
func Luma(r, g, b uint8) float64 {
	return float64((19595*uint32(r)+38470*uint32(g)+7471*uint32(b)+1<<15)>>16) / 256.0
}

// LumaRGBA returns the perceptual brightness (0-255) of a color.
func LumaRGBA(c color.RGBA) float64 {
	return Luma(c.R, c.G, c.B)
}

// ContrastRatio returns the WCAG-style contrast ratio between two brightness
// values given in 0-255. The result is always >= 1.
func ContrastRatio(lumaA, lumaB float64) float64 {
	a := lumaA / 255.0
	b := lumaB / 255.0
	lighter := math.Max(a, b)
	darker := math.Min(a, b)
	return (lighter + 0.05) / (darker + 0.05)
}

// Hex formats a color as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}

// Quantize reduces a channel value to the given number of levels.
// Used for dominant-color histograms.
func Quantize(v uint8, levels int) uint8 {
	if levels <= 1 {
		return 0
	}
	step := 256 / levels
	q := int(v) / step * step
	q += step / 2
	if q > 255 {
		q = 255
	}
	return uint8(q)
}

// BlendRGBA linearly interpolates between two colors. t=0 returns a, t=1 returns b.
func BlendRGBA(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(float64(a.R)*(1-t) + float64(b.R)*t + 0.5),
		G: uint8(float64(a.G)*(1-t) + float64(b.G)*t + 0.5),
		B: uint8(float64(a.B)*(1-t) + float64(b.B)*t + 0.5),
		A: uint8(float64(a.A)*(1-t) + float64(b.A)*t + 0.5),
	}
}
