package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuma(t *testing.T) {
	assert.InDelta(t, 0.0, Luma(0, 0, 0), 0.5)
	assert.InDelta(t, 255.0, Luma(255, 255, 255), 0.5)

	// Green contributes the most to perceived brightness, blue the least.
	r := Luma(255, 0, 0)
	g := Luma(0, 255, 0)
	b := Luma(0, 0, 255)
	assert.Greater(t, g, r)
	assert.Greater(t, r, b)
}

func TestContrastRatio(t *testing.T) {
	assert.InDelta(t, 21.0, ContrastRatio(255, 0), 0.01)
	assert.InDelta(t, 1.0, ContrastRatio(128, 128), 0.001)
	// Symmetric in its arguments, always >= 1.
	assert.InDelta(t, ContrastRatio(40, 200), ContrastRatio(200, 40), 1e-9)
	assert.GreaterOrEqual(t, ContrastRatio(13, 77), 1.0)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#000000", Hex(Black))
	assert.Equal(t, "#ffffff", Hex(White))
	assert.Equal(t, "#0a80ff", Hex(color.RGBA{R: 10, G: 128, B: 255, A: 255}))
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"pure red", 255, 0, 0, 0, 255, 255},
		{"pure green", 0, 255, 0, 60, 255, 255},
		{"pure blue", 0, 0, 255, 120, 255, 255},
		{"white", 255, 255, 255, 0, 0, 255},
		{"black", 0, 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			assert.InDelta(t, tt.h, h, 0.5)
			assert.InDelta(t, tt.s, s, 0.5)
			assert.InDelta(t, tt.v, v, 0.5)
		})
	}
}

func TestQuantize(t *testing.T) {
	// All values in a bucket map to the same representative.
	assert.Equal(t, Quantize(0, 8), Quantize(31, 8))
	assert.NotEqual(t, Quantize(31, 8), Quantize(32, 8))
	assert.Equal(t, uint8(0), Quantize(200, 1))
}

func TestBlendRGBA(t *testing.T) {
	assert.Equal(t, Black, BlendRGBA(Black, White, 0))
	assert.Equal(t, White, BlendRGBA(Black, White, 1))

	mid := BlendRGBA(Black, White, 0.5)
	assert.InDelta(t, 128, float64(mid.R), 1)
	assert.InDelta(t, 128, float64(mid.G), 1)
	assert.InDelta(t, 128, float64(mid.B), 1)

	// t is clamped.
	assert.Equal(t, Black, BlendRGBA(Black, White, -3))
	assert.Equal(t, White, BlendRGBA(Black, White, 7))
}
