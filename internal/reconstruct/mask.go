package reconstruct

import (
	"image"

	"photo-translator/internal/raster"
	"photo-translator/internal/region"
	"photo-translator/pkg/geometry"
)

// maskFillThreshold is the alpha value at and above which a mask pixel is a
// fill target. Softer edge pixels below it blend fill against the original.
const maskFillThreshold = 128

// BuildMask rasterizes the fill mask for the given regions: a padded solid
// rectangle per region with edges softened by a small blur. It returns the
// mask and the number of fill-target pixels.
func BuildMask(bounds image.Rectangle, regions []region.TextRegion) (*image.Alpha, int) {
	mask := image.NewAlpha(bounds)
	imgRect := geometry.FromImageRect(bounds)

	for _, reg := range regions {
		pad := maskPadding(reg.Bounds)
		r := reg.Bounds.Expand(pad, pad).ClampTo(imgRect)
		for y := r.Y; y < r.Y+r.Height; y++ {
			row := (y - bounds.Min.Y) * mask.Stride
			for x := r.X; x < r.X+r.Width; x++ {
				mask.Pix[row+(x-bounds.Min.X)] = 255
			}
		}
	}

	raster.BoxBlurAlpha(mask, 2)

	area := 0
	for _, a := range mask.Pix {
		if a >= maskFillThreshold {
			area++
		}
	}
	return mask, area
}

// maskPadding returns the per-region mask padding: 10% of the smaller side,
// at least 2 pixels, so anti-aliased glyph fringes are covered.
func maskPadding(r geometry.RectInt) int {
	pad := int(0.1*float64(min(r.Width, r.Height)) + 0.5)
	if pad < 2 {
		pad = 2
	}
	return pad
}
