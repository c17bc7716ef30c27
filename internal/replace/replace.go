// Package replace composites translated text over the reconstructed image:
// one reconstruction per image, then fit and render per region.
package replace

import (
	"image"

	"github.com/rs/zerolog"

	"photo-translator/internal/fit"
	"photo-translator/internal/raster"
	"photo-translator/internal/reconstruct"
	"photo-translator/internal/region"
	"photo-translator/internal/render"
	"photo-translator/internal/style"
	"photo-translator/pkg/geometry"
)

// Options bundles the per-stage option structs for one replacement run.
type Options struct {
	Reconstruct reconstruct.Options
	Fit         fit.Options
	Render      render.Options
}

// DefaultOptions returns the standard replacement options.
func DefaultOptions() Options {
	return Options{
		Reconstruct: reconstruct.DefaultOptions(),
		Fit:         fit.DefaultOptions(),
		Render:      render.DefaultOptions(),
	}
}

// RegionResult pairs a region with its fitting outcome.
type RegionResult struct {
	Region   region.TextRegion
	Fitting  fit.Result
	Rendered bool
}

// Result is the outcome of one replacement run. Raster is owned by the
// caller once returned.
type Result struct {
	Raster         *image.RGBA
	Reconstruction reconstruct.Result
	Regions        []RegionResult
	Confidence     float64
}

// Replacer owns the working raster for the duration of one Replace call.
type Replacer struct {
	reconstructor *reconstruct.Reconstructor
	fitter        *fit.Fitter
	renderer      *render.Renderer
	log           zerolog.Logger
}

// NewReplacer wires the reconstruction, fitting and rendering components.
func NewReplacer(rec *reconstruct.Reconstructor, fitter *fit.Fitter, renderer *render.Renderer, log zerolog.Logger) *Replacer {
	return &Replacer{reconstructor: rec, fitter: fitter, renderer: renderer, log: log}
}

// Replace runs the reconstructor once for the whole image, then fits,
// renders and composites each region that has translated text. Regions
// without a translation are left untouched so a failed upstream translation
// never destroys original content. The input image is not modified.
func (r *Replacer) Replace(img *image.RGBA, regions []region.TextRegion, opts Options) Result {
	imageBounds := geometry.FromImageRect(img.Bounds())

	// Only regions that will actually be replaced get removed.
	var toRemove []region.TextRegion
	for _, reg := range regions {
		if reg.TranslatedText != "" {
			toRemove = append(toRemove, reg)
		}
	}

	rec := r.reconstructor.Reconstruct(img, toRemove, opts.Reconstruct)
	var canvas *image.RGBA
	if rec.Success {
		canvas = rec.Raster
	} else {
		// Degraded mode: draw over the untouched original. Replaced text
		// may overlap the old glyphs.
		r.log.Warn().Msg("reconstruction failed, compositing over original")
		canvas = raster.Clone(img)
	}

	result := Result{Raster: canvas, Reconstruction: rec}
	var confSum float64
	var processed int

	for _, reg := range regions {
		if reg.TranslatedText == "" {
			r.log.Debug().Str("region", reg.ID).Msg("no translation, region left untouched")
			continue
		}

		model := style.Default()
		if reg.Style != nil {
			model = *reg.Style
		}

		fitting := r.fitter.Fit(reg.Bounds, reg.TranslatedText, model, opts.Fit, imageBounds)
		rr := RegionResult{Region: reg, Fitting: fitting}

		rendered := r.renderer.Render(fitting, model, opts.Render)
		if rendered.Success {
			raster.AlphaOver(canvas, rendered.Surface, image.Point{X: fitting.Bounds.X, Y: fitting.Bounds.Y})
			rr.Rendered = true
		} else {
			r.log.Warn().Str("region", reg.ID).Msg("render failed, region skipped")
		}

		confSum += fitting.Confidence
		processed++
		result.Regions = append(result.Regions, rr)
	}

	if processed > 0 {
		result.Confidence = confSum / float64(processed)
	}
	return result
}
