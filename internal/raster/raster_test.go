package raster

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-translator/pkg/geometry"
)

func filled(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestDecodeBytesPNGRoundTrip(t *testing.T) {
	src := filled(16, 8, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, src))

	decoded, format, err := DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.True(t, Equal(src, decoded))
}

func TestDecodeBytesInvalid(t *testing.T) {
	_, _, err := DecodeBytes([]byte("not an image"))
	assert.Error(t, err)
}

func TestDecodeBytesJPEG(t *testing.T) {
	src := filled(16, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, EncodeJPEG(&buf, src, 90))

	decoded, format, err := DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, src.Bounds(), decoded.Bounds())
}

func TestToRGBANormalizesOrigin(t *testing.T) {
	gray := image.NewGray(image.Rect(5, 5, 15, 10))
	out := ToRGBA(gray)
	assert.Equal(t, image.Pt(0, 0), out.Bounds().Min)
	assert.Equal(t, 10, out.Bounds().Dx())
	assert.Equal(t, 5, out.Bounds().Dy())

	// An already-normalized RGBA passes through without copying.
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, rgba, ToRGBA(rgba))
}

func TestCloneIsIndependent(t *testing.T) {
	src := filled(8, 8, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	dst := Clone(src)
	require.True(t, Equal(src, dst))

	dst.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	assert.False(t, Equal(src, dst))
	assert.Equal(t, uint8(1), src.RGBAAt(0, 0).R)
}

func TestEqual(t *testing.T) {
	a := filled(4, 4, color.RGBA{A: 255})
	b := filled(4, 4, color.RGBA{A: 255})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, filled(4, 5, color.RGBA{A: 255})))
}

func TestSobelMagnitude(t *testing.T) {
	t.Run("uniform image has no edges", func(t *testing.T) {
		img := filled(20, 20, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		mags := SobelMagnitude(img, geometry.NewRectInt(0, 0, 20, 20))
		require.Len(t, mags, 400)
		for _, m := range mags {
			assert.InDelta(t, 0.0, m, 1e-9)
		}
	})

	t.Run("vertical step edge", func(t *testing.T) {
		img := filled(20, 20, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		for y := 0; y < 20; y++ {
			for x := 10; x < 20; x++ {
				img.SetRGBA(x, y, color.RGBA{A: 255})
			}
		}
		mags := SobelMagnitude(img, geometry.NewRectInt(0, 0, 20, 20))
		// The edge column lights up, far columns stay dark.
		assert.Greater(t, mags[5*20+10], 0.5)
		assert.InDelta(t, 0.0, mags[5*20+2], 1e-9)
		for _, m := range mags {
			assert.GreaterOrEqual(t, m, 0.0)
			assert.LessOrEqual(t, m, 1.0)
		}
	})
}

func TestBoxBlurAlphaSpreads(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 11, 11))
	mask.SetAlpha(5, 5, color.Alpha{A: 255})
	BoxBlurAlpha(mask, 2)

	assert.Less(t, mask.AlphaAt(5, 5).A, uint8(255))
	assert.Greater(t, mask.AlphaAt(7, 5).A, uint8(0))
	assert.Equal(t, uint8(0), mask.AlphaAt(0, 0).A)
}

func TestBoxBlurRGBASmoothsEdge(t *testing.T) {
	img := filled(20, 20, color.RGBA{A: 255})
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	BoxBlurRGBA(img, 2)

	// The hard step becomes a ramp.
	c := img.RGBAAt(10, 10)
	assert.Greater(t, c.R, uint8(0))
	assert.Less(t, c.R, uint8(255))
	assert.Equal(t, uint8(0), img.RGBAAt(2, 10).R)
	assert.Equal(t, uint8(255), img.RGBAAt(17, 10).R)
}

func TestScaleToFit(t *testing.T) {
	src := filled(400, 200, color.RGBA{R: 77, G: 77, B: 77, A: 255})

	scaled := ScaleToFit(src, 100)
	assert.Equal(t, 100, scaled.Bounds().Dx())
	assert.Equal(t, 50, scaled.Bounds().Dy())

	// Already within the limit: copied, not resized.
	same := ScaleToFit(src, 1000)
	assert.True(t, Equal(src, same))
	assert.NotSame(t, src, same)
}

func TestApplyOpacity(t *testing.T) {
	img := filled(4, 4, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	ApplyOpacity(img, 0.5)
	c := img.RGBAAt(1, 1)
	assert.InDelta(t, 100, float64(c.R), 1)
	assert.InDelta(t, 128, float64(c.A), 1)

	full := filled(2, 2, color.RGBA{R: 9, A: 255})
	ApplyOpacity(full, 1.0)
	assert.Equal(t, uint8(9), full.RGBAAt(0, 0).R)
}

func TestAlphaOver(t *testing.T) {
	dst := filled(10, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src := filled(4, 4, color.RGBA{A: 128})
	AlphaOver(dst, src, image.Pt(3, 3))

	// Half-transparent black darkens the white background.
	c := dst.RGBAAt(4, 4)
	assert.Less(t, c.R, uint8(255))
	assert.Equal(t, uint8(255), dst.RGBAAt(0, 0).R)
}
