// Package render rasterizes fitted text with the matched style and effects.
package render

import (
	"image"
	"image/color"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"photo-translator/internal/fit"
	"photo-translator/internal/fonts"
	"photo-translator/internal/raster"
	"photo-translator/internal/style"
)

// Options controls rendering behavior.
type Options struct {
	// AdaptiveScaling re-derives a uniform downscale at render time when
	// the fitted layout still exceeds the target bounds.
	AdaptiveScaling bool
}

// DefaultOptions returns the standard render options.
func DefaultOptions() Options {
	return Options{AdaptiveScaling: true}
}

// Result holds the rendered text surface. When Success is false the surface
// is nil and the caller skips compositing the region.
type Result struct {
	Surface *image.RGBA
	Success bool
}

// Renderer rasterizes fitted layouts.
type Renderer struct {
	fonts *fonts.Resolver
	log   zerolog.Logger
}

// NewRenderer creates a renderer using the given font resolver.
func NewRenderer(resolver *fonts.Resolver, log zerolog.Logger) *Renderer {
	return &Renderer{fonts: resolver, log: log}
}

// Render draws the fitted text onto a transparent surface sized to the
// fitted bounds. Effects are applied per line: shadow first, then outline,
// glyph fill, and decorations; opacity applies to the finished surface.
func (r *Renderer) Render(fr fit.Result, m style.Model, opts Options) Result {
	w, h := fr.Bounds.Width, fr.Bounds.Height
	if w <= 0 || h <= 0 || len(fr.Layout.Lines) == 0 {
		return Result{Success: false}
	}

	layout := fr.Layout
	resolved := r.fonts.Resolve(m.Typography.Family, fonts.Variant{
		Bold:   m.Typography.Weight == style.WeightBold,
		Italic: m.Typography.Style == style.StyleItalic,
	})

	spacing := m.Typography.LetterSpacing
	if m.Typography.Size > 0 {
		spacing *= layout.FontSize / m.Typography.Size
	}

	if opts.AdaptiveScaling && (layout.Width > float64(w) || layout.Height > float64(h)) {
		var err error
		layout, spacing, err = rescaleLayout(resolved, layout, spacing, float64(w), float64(h))
		if err != nil {
			r.log.Warn().Err(err).Msg("render-time rescale failed")
			return Result{Success: false}
		}
	}

	face, err := resolved.Face(layout.FontSize)
	if err != nil {
		r.log.Warn().Err(err).Str("family", resolved.Family).Msg("face creation failed")
		return Result{Success: false}
	}
	defer face.Close()

	surface := image.NewRGBA(image.Rect(0, 0, w, h))
	ascent, _ := fonts.LineMetrics(face)

	if m.Effects.Shadow != nil {
		r.drawShadow(surface, face, layout, m, spacing, ascent)
	}
	if m.Effects.Outline != nil {
		r.drawOutline(surface, face, layout, m, spacing, ascent)
	}

	for i, line := range layout.Lines {
		x := alignX(m.Layout.Alignment, line.Width, float64(w))
		y := float64(i)*layout.LineHeight + ascent
		drawString(surface, face, line.Text, m.Color.Text, x, y, spacing)
		drawDecoration(surface, m, layout, line, x, y)
	}

	raster.ApplyOpacity(surface, m.Effects.Opacity)
	return Result{Surface: surface, Success: true}
}

// rescaleLayout shrinks the layout uniformly so it fits within the target
// extents, re-measuring lines at the reduced size.
func rescaleLayout(resolved *fonts.Resolved, layout fit.Layout, spacing, maxW, maxH float64) (fit.Layout, float64, error) {
	scale := 1.0
	if layout.Width > maxW && layout.Width > 0 {
		scale = maxW / layout.Width
	}
	if layout.Height > maxH && layout.Height > 0 {
		if s := maxH / layout.Height; s < scale {
			scale = s
		}
	}

	size := layout.FontSize * scale
	if size < 1 {
		size = 1
	}
	face, err := resolved.Face(size)
	if err != nil {
		return layout, spacing, err
	}
	defer face.Close()

	spacing *= scale
	out := fit.Layout{FontSize: size, LineHeight: layout.LineHeight * scale}
	for _, line := range layout.Lines {
		lw := fonts.Advance(face, line.Text, spacing)
		out.Lines = append(out.Lines, fit.Line{Text: line.Text, Width: lw})
		if lw > out.Width {
			out.Width = lw
		}
	}
	out.Height = float64(len(out.Lines)) * out.LineHeight
	return out, spacing, nil
}

func alignX(a style.Alignment, lineWidth, boundWidth float64) float64 {
	switch a {
	case style.AlignCenter:
		return (boundWidth - lineWidth) / 2
	case style.AlignRight:
		return boundWidth - lineWidth
	default:
		return 0
	}
}

// drawString draws one line of text with optional per-character spacing.
func drawString(dst *image.RGBA, face font.Face, text string, col color.RGBA, x, y, spacing float64) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fonts.FloatToFixed(x),
			Y: fonts.FloatToFixed(y),
		},
	}
	if spacing == 0 {
		d.DrawString(text)
		return
	}
	for _, r := range text {
		d.DrawString(string(r))
		d.Dot.X += fonts.FloatToFixed(spacing)
	}
}
