package render

import (
	"image"

	"golang.org/x/image/font"

	"photo-translator/internal/fit"
	"photo-translator/internal/raster"
	"photo-translator/internal/style"
)

// Decoration offsets relative to the baseline, as fractions of font size.
const (
	underlineOffset     = 0.1
	overlineOffset      = -0.8
	strikethroughOffset = -0.3
)

// drawShadow renders the text in the shadow color on a scratch surface,
// blurs it, and composites it under the glyphs.
func (r *Renderer) drawShadow(dst *image.RGBA, face font.Face, layout fit.Layout, m style.Model, spacing, ascent float64) {
	sh := m.Effects.Shadow
	scratch := image.NewRGBA(dst.Bounds())
	for i, line := range layout.Lines {
		x := alignX(m.Layout.Alignment, line.Width, float64(dst.Bounds().Dx())) + sh.OffsetX
		y := float64(i)*layout.LineHeight + ascent + sh.OffsetY
		drawString(scratch, face, line.Text, sh.Color, x, y, spacing)
	}
	raster.BoxBlurRGBA(scratch, int(sh.Blur+0.5))
	raster.AlphaOver(dst, scratch, image.Point{})
}

// drawOutline strokes the glyphs by drawing the text offset in the eight
// compass directions in the outline color.
func (r *Renderer) drawOutline(dst *image.RGBA, face font.Face, layout fit.Layout, m style.Model, spacing, ascent float64) {
	ol := m.Effects.Outline
	wpx := ol.Width
	if wpx < 1 {
		wpx = 1
	}
	offsets := [8][2]float64{
		{-wpx, -wpx}, {0, -wpx}, {wpx, -wpx},
		{-wpx, 0}, {wpx, 0},
		{-wpx, wpx}, {0, wpx}, {wpx, wpx},
	}
	for i, line := range layout.Lines {
		x := alignX(m.Layout.Alignment, line.Width, float64(dst.Bounds().Dx()))
		y := float64(i)*layout.LineHeight + ascent
		for _, off := range offsets {
			drawString(dst, face, line.Text, ol.Color, x+off[0], y+off[1], spacing)
		}
	}
}

// drawDecoration draws the underline/overline/strikethrough stroke for a
// line. Stroke thickness scales with font size, minimum one pixel.
func drawDecoration(dst *image.RGBA, m style.Model, layout fit.Layout, line fit.Line, x, baseline float64) {
	if m.Typography.Decoration == style.DecorationNone {
		return
	}

	var offset float64
	switch m.Typography.Decoration {
	case style.DecorationUnderline:
		offset = underlineOffset
	case style.DecorationOverline:
		offset = overlineOffset
	case style.DecorationLineThrough:
		offset = strikethroughOffset
	}

	thickness := int(layout.FontSize/15 + 0.5)
	if thickness < 1 {
		thickness = 1
	}
	y0 := int(baseline + offset*layout.FontSize + 0.5)
	x0 := int(x + 0.5)
	x1 := int(x + line.Width + 0.5)

	b := dst.Bounds()
	for y := y0; y < y0+thickness; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for px := x0; px < x1; px++ {
			if px < b.Min.X || px >= b.Max.X {
				continue
			}
			dst.SetRGBA(px, y, m.Color.Text)
		}
	}
}
