package style

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-translator/internal/logging"
	"photo-translator/internal/raster"
	"photo-translator/pkg/colorutil"
	"photo-translator/pkg/geometry"
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}

func inkRect(img *image.RGBA, x, y, w, h int) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			img.SetRGBA(xx, yy, color.RGBA{A: 255})
		}
	}
}

func TestAnalyzeDefaultFallbacks(t *testing.T) {
	a := NewAnalyzer(logging.Nop())

	t.Run("nil image", func(t *testing.T) {
		assert.Equal(t, Default(), a.Analyze(nil, geometry.NewRectInt(0, 0, 10, 10), "x"))
	})

	t.Run("bbox outside image", func(t *testing.T) {
		img := whiteImage(50, 50)
		assert.Equal(t, Default(), a.Analyze(img, geometry.NewRectInt(200, 200, 10, 10), "x"))
	})

	t.Run("empty bbox", func(t *testing.T) {
		img := whiteImage(50, 50)
		assert.Equal(t, Default(), a.Analyze(img, geometry.RectInt{}, "x"))
	})
}

func TestAnalyzeIsPure(t *testing.T) {
	a := NewAnalyzer(logging.Nop())
	img := whiteImage(200, 100)
	inkRect(img, 24, 25, 33, 10)
	before := raster.Clone(img)
	bbox := geometry.NewRectInt(20, 20, 60, 20)

	first := a.Analyze(img, bbox, "Hello")
	second := a.Analyze(img, bbox, "Hello")

	assert.Equal(t, first, second)
	assert.True(t, raster.Equal(before, img), "input image must not be modified")
}

func TestAnalyzeColor(t *testing.T) {
	a := NewAnalyzer(logging.Nop())

	t.Run("dark text on light background", func(t *testing.T) {
		img := whiteImage(200, 100)
		inkRect(img, 24, 26, 33, 4)
		m := a.Analyze(img, geometry.NewRectInt(20, 20, 60, 20), "Hello")

		assert.Equal(t, SchemeLight, m.Color.Scheme)
		assert.Less(t, colorutil.LumaRGBA(m.Color.Text), colorutil.LumaRGBA(m.Color.Background))
		assert.Greater(t, m.Color.Contrast, 1.0)
		// Dominant color of a mostly-white region is white.
		assert.Greater(t, colorutil.LumaRGBA(m.Color.Dominant), 200.0)
	})

	t.Run("dark background", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 100, 50))
		for y := 0; y < 50; y++ {
			for x := 0; x < 100; x++ {
				img.SetRGBA(x, y, color.RGBA{R: 20, G: 20, B: 20, A: 255})
			}
		}
		m := a.Analyze(img, geometry.NewRectInt(10, 10, 60, 20), "Hi")
		assert.Equal(t, SchemeDark, m.Color.Scheme)
	})
}

func TestAnalyzeTypography(t *testing.T) {
	a := NewAnalyzer(logging.Nop())

	t.Run("font size from glyph band", func(t *testing.T) {
		img := whiteImage(200, 100)
		inkRect(img, 25, 25, 30, 10)
		m := a.Analyze(img, geometry.NewRectInt(20, 20, 60, 20), "Hi")
		// 10 inked rows, sized at 75% of the band.
		assert.InDelta(t, 7.5, m.Typography.Size, 1e-9)
	})

	t.Run("bold from wide strokes", func(t *testing.T) {
		img := whiteImage(200, 100)
		inkRect(img, 10, 4, 5, 12)
		inkRect(img, 20, 4, 5, 12)
		m := a.Analyze(img, geometry.NewRectInt(0, 0, 40, 20), "ll")
		assert.Equal(t, WeightBold, m.Typography.Weight)
	})

	t.Run("light from hairline strokes", func(t *testing.T) {
		img := whiteImage(200, 100)
		inkRect(img, 10, 4, 1, 12)
		inkRect(img, 20, 4, 1, 12)
		m := a.Analyze(img, geometry.NewRectInt(0, 0, 40, 20), "ll")
		assert.Equal(t, WeightLight, m.Typography.Weight)
	})

	t.Run("normal strokes", func(t *testing.T) {
		img := whiteImage(200, 100)
		inkRect(img, 10, 4, 2, 12)
		inkRect(img, 20, 4, 2, 12)
		m := a.Analyze(img, geometry.NewRectInt(0, 0, 40, 20), "ll")
		assert.Equal(t, WeightNormal, m.Typography.Weight)
	})

	t.Run("italic from slanted stroke", func(t *testing.T) {
		img := whiteImage(200, 100)
		for y := 4; y <= 15; y++ {
			inkRect(img, 30-(y-4), y, 2, 1)
		}
		m := a.Analyze(img, geometry.NewRectInt(0, 0, 40, 20), "l")
		assert.Equal(t, StyleItalic, m.Typography.Style)
	})

	t.Run("letter spacing from cell width", func(t *testing.T) {
		img := whiteImage(200, 100)
		inkRect(img, 25, 25, 30, 10)
		m := a.Analyze(img, geometry.NewRectInt(20, 20, 60, 20), "Hello")
		// 60px over 5 characters, minus the base cell width.
		assert.InDelta(t, 2.0, m.Typography.LetterSpacing, 1e-9)
	})

	t.Run("underline from inked bottom band", func(t *testing.T) {
		img := whiteImage(200, 100)
		inkRect(img, 25, 25, 30, 8)
		inkRect(img, 20, 38, 60, 2) // full-width bar in the bottom tenth
		m := a.Analyze(img, geometry.NewRectInt(20, 20, 60, 20), "Hi")
		assert.Equal(t, DecorationUnderline, m.Typography.Decoration)
	})

	t.Run("no underline without the bar", func(t *testing.T) {
		img := whiteImage(200, 100)
		inkRect(img, 25, 25, 30, 8)
		m := a.Analyze(img, geometry.NewRectInt(20, 20, 60, 20), "Hi")
		assert.Equal(t, DecorationNone, m.Typography.Decoration)
	})
}

func TestAnalyzeLayoutAlignment(t *testing.T) {
	a := NewAnalyzer(logging.Nop())
	img := whiteImage(300, 100)

	tests := []struct {
		name string
		bbox geometry.RectInt
		want Alignment
	}{
		{"left third", geometry.NewRectInt(10, 40, 60, 20), AlignLeft},
		{"center third", geometry.NewRectInt(120, 40, 60, 20), AlignCenter},
		{"right third", geometry.NewRectInt(230, 40, 60, 20), AlignRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := a.Analyze(img, tt.bbox, "Hi")
			assert.Equal(t, tt.want, m.Layout.Alignment)
		})
	}
}

func TestAnalyzeLayoutMargins(t *testing.T) {
	a := NewAnalyzer(logging.Nop())
	img := whiteImage(300, 100)
	m := a.Analyze(img, geometry.NewRectInt(30, 20, 100, 40), "Hi")

	assert.Equal(t, Margins{Top: 20, Left: 30, Right: 170, Bottom: 40}, m.Layout.Margins)
	assert.InDelta(t, 32.0, m.Layout.Baseline, 1e-9)
}

func TestAnalyzeEffectsOpacity(t *testing.T) {
	a := NewAnalyzer(logging.Nop())
	img := whiteImage(100, 50)
	m := a.Analyze(img, geometry.NewRectInt(10, 10, 40, 20), "Hi")
	assert.InDelta(t, 1.0, m.Effects.Opacity, 1e-9)
}

func TestStyleConfidenceRange(t *testing.T) {
	a := NewAnalyzer(logging.Nop())

	imgs := []*image.RGBA{whiteImage(100, 50), whiteImage(10, 10)}
	inkRect(imgs[0], 15, 15, 40, 10)
	for _, img := range imgs {
		b := img.Bounds()
		m := a.Analyze(img, geometry.FromImageRect(b), "text")
		assert.GreaterOrEqual(t, m.Confidence, 0.0)
		assert.LessOrEqual(t, m.Confidence, 1.0)
	}
}

func TestStyleConfidenceOrdering(t *testing.T) {
	// Contrast and a measurable glyph size both raise confidence.
	low := Default()
	low.Color.Contrast = 1.0
	low.Typography.Size = 4

	high := Default()
	high.Color.Contrast = 10.0
	high.Typography.Size = 20

	require.Less(t, styleConfidence(low), styleConfidence(high))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "light", SchemeLight.String())
	assert.Equal(t, "dark", SchemeDark.String())
	assert.Equal(t, "bold", WeightBold.String())
	assert.Equal(t, "italic", StyleItalic.String())
	assert.Equal(t, "underline", DecorationUnderline.String())
	assert.Equal(t, "center", AlignCenter.String())
}
