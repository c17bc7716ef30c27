package raster

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// AlphaOver composites src onto dst with its top-left corner at the given
// point, using standard alpha-over blending.
func AlphaOver(dst *image.RGBA, src image.Image, at image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}

// ScaleToFit returns the image scaled so its long edge is at most maxEdge,
// using bilinear interpolation. Images already within the limit are copied
// unchanged.
func ScaleToFit(img *image.RGBA, maxEdge int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	long := max(w, h)
	if long <= maxEdge || long == 0 {
		return Clone(img)
	}
	scale := float64(maxEdge) / float64(long)
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// ApplyOpacity multiplies every pixel of the image by the given opacity
// factor in [0,1]. The image is premultiplied RGBA, so all four channels
// scale together.
func ApplyOpacity(img *image.RGBA, opacity float64) {
	if opacity >= 1 {
		return
	}
	if opacity < 0 {
		opacity = 0
	}
	for i := range img.Pix {
		img.Pix[i] = uint8(float64(img.Pix[i])*opacity + 0.5)
	}
}
