// Package pipeline orchestrates the end-to-end photo translation run: a
// strictly sequential stage machine with progress reporting, confidence
// aggregation, and preview building.
package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"photo-translator/internal/fit"
	"photo-translator/internal/fonts"
	"photo-translator/internal/raster"
	"photo-translator/internal/reconstruct"
	"photo-translator/internal/region"
	"photo-translator/internal/render"
	"photo-translator/internal/replace"
	"photo-translator/internal/style"
	"photo-translator/internal/translate"
)

// OCREngine is the consumed text-detection collaborator.
type OCREngine interface {
	DetectWords(ctx context.Context, img image.Image, lang string) ([]region.Word, error)
}

// Translator is the consumed translation collaborator.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (translate.Result, error)
}

// Options configures one pipeline run.
type Options struct {
	SourceLang     string // "auto" enables language detection
	TargetLang     string
	Progress       func(percent int, message string)
	Replace        replace.Options
	BuildPreview   bool
	PreviewMaxEdge int
}

// DefaultOptions returns the standard pipeline options.
func DefaultOptions() Options {
	return Options{
		SourceLang:     "auto",
		TargetLang:     "en",
		Replace:        replace.DefaultOptions(),
		BuildPreview:   true,
		PreviewMaxEdge: 512,
	}
}

// Pipeline drives the sequential stages. Each Apply call is independent;
// the only shared process state is the font availability cache.
type Pipeline struct {
	ocr        OCREngine
	translator Translator
	analyzer   *style.Analyzer
	replacer   *replace.Replacer
	log        zerolog.Logger
}

// New wires a pipeline from the two external collaborators. The internal
// components share one font resolver.
func New(ocrEngine OCREngine, translator Translator, log zerolog.Logger) *Pipeline {
	resolver := fonts.NewResolver(log)
	return &Pipeline{
		ocr:        ocrEngine,
		translator: translator,
		analyzer:   style.NewAnalyzer(log),
		replacer: replace.NewReplacer(
			reconstruct.NewReconstructor(log),
			fit.NewFitter(resolver, log),
			render.NewRenderer(resolver, log),
			log,
		),
		log: log,
	}
}

// Apply runs the full pipeline over an encoded image. A fatal stage failure
// returns the partial result together with a *StageError; cancellation is
// honored between stages, never mid-stage, and also returns the partial
// stage log.
func (p *Pipeline) Apply(ctx context.Context, imageBytes []byte, opts Options) (*FilterResult, error) {
	start := time.Now()
	if opts.PreviewMaxEdge <= 0 {
		opts.PreviewMaxEdge = 512
	}
	log := p.log.With().Str("run_id", uuid.NewString()).Logger()

	run := &run{progress: opts.Progress, log: log}
	result := &FilterResult{}
	finish := func() *FilterResult {
		result.Stages = run.stages
		result.Confidence = overallConfidence(run.stages)
		result.ProcessingTime = time.Since(start)
		return result
	}

	// Stage 1: decode and normalize the input raster.
	var img *image.RGBA
	run.report(5, "Loading image")
	err := run.stage(StageLoading, func() (float64, error) {
		var err error
		img, _, err = raster.DecodeBytes(imageBytes)
		return 1.0, err
	})
	if err != nil {
		return finish(), err
	}
	result.Original = img
	if err := run.canceled(ctx); err != nil {
		return finish(), err
	}

	// Stage 2: word detection and region merging.
	var regions []region.TextRegion
	run.report(15, "Detecting text")
	err = run.stage(StageOCRAnalysis, func() (float64, error) {
		words, err := p.ocr.DetectWords(ctx, img, opts.SourceLang)
		if err != nil {
			return 0, err
		}
		regions = region.Merge(words)
		return meanRegionConfidence(regions), nil
	})
	if err != nil {
		return finish(), err
	}
	if len(regions) == 0 {
		// Canonical empty result: nothing detected, image unchanged. The
		// sentinel is non-fatal; the result is still fully populated.
		log.Info().Msg("no text detected, short-circuiting")
		result.Translated = raster.Clone(img)
		run.report(100, "No text detected")
		return finish(), ErrNoTextDetected
	}
	if err := run.canceled(ctx); err != nil {
		return finish(), err
	}

	// Stage 3: per-region style analysis.
	run.report(25, "Analyzing text style")
	err = run.stage(StageStyleAnalysis, func() (float64, error) {
		var sum float64
		for i := range regions {
			m := p.analyzer.Analyze(img, regions[i].Bounds, regions[i].Text)
			regions[i].Style = &m
			sum += m.Confidence
		}
		return sum / float64(len(regions)), nil
	})
	if err != nil {
		return finish(), err
	}
	if err := run.canceled(ctx); err != nil {
		return finish(), err
	}

	// Stage 4: translation. Per-region failures are absorbed: the region
	// keeps an empty translation and is skipped downstream.
	err = run.stage(StageTranslation, func() (float64, error) {
		translated := 0
		for i := range regions {
			run.report(35+10*i/len(regions), "Translating text")
			tr, err := p.translator.Translate(ctx, regions[i].Text, opts.SourceLang, opts.TargetLang)
			if err != nil {
				log.Warn().Err(err).Str("region", regions[i].ID).Msg("translation failed, region will be skipped")
				continue
			}
			regions[i].TranslatedText = tr.TranslatedText
			translated++
		}
		return float64(translated) / float64(len(regions)), nil
	})
	if err != nil {
		return finish(), err
	}
	if err := run.canceled(ctx); err != nil {
		return finish(), err
	}

	// Stage 5: background reconstruction, fitting, rendering, compositing.
	run.report(50, "Rendering translated text")
	err = run.stage(StageTextRendering, func() (float64, error) {
		rep := p.replacer.Replace(img, regions, opts.Replace)
		result.Translated = rep.Raster
		result.Regions = rep.Regions
		return rep.Confidence, nil
	})
	if err != nil {
		return finish(), err
	}
	run.report(70, "Compositing result")
	if err := run.canceled(ctx); err != nil {
		return finish(), err
	}

	// Stage 6: preview and final assembly.
	run.report(90, "Finalizing")
	err = run.stage(StageFinalization, func() (float64, error) {
		if opts.BuildPreview {
			result.Preview = raster.ScaleToFit(result.Translated, opts.PreviewMaxEdge)
		}
		return 1.0, nil
	})
	if err != nil {
		return finish(), err
	}

	result.Success = true
	run.report(100, "Complete")
	return finish(), nil
}

func meanRegionConfidence(regions []region.TextRegion) float64 {
	if len(regions) == 0 {
		return 0
	}
	var sum float64
	for _, r := range regions {
		sum += r.Confidence
	}
	return sum / float64(len(regions))
}

// run tracks the stage log and monotonic progress of one Apply call.
type run struct {
	stages   []StageResult
	progress func(int, string)
	lastPct  int
	log      zerolog.Logger
}

// report emits a progress checkpoint. Percentages never go backwards.
func (r *run) report(pct int, msg string) {
	if pct <= r.lastPct {
		return
	}
	r.lastPct = pct
	if r.progress != nil {
		r.progress(pct, msg)
	}
}

// stage runs one stage body uniformly: timing, confidence clamping, and
// failure recording. A body error aborts the run with a StageError.
func (r *run) stage(name string, body func() (float64, error)) error {
	start := time.Now()
	conf, err := body()
	sr := StageResult{Stage: name, Duration: time.Since(start)}
	if err != nil {
		sr.Error = err.Error()
		r.stages = append(r.stages, sr)
		r.log.Error().Err(err).Str("stage", name).Msg("stage failed")
		return &StageError{Stage: name, Err: err}
	}
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	sr.Success = true
	sr.Confidence = conf
	r.stages = append(r.stages, sr)
	r.log.Debug().Str("stage", name).Dur("duration", sr.Duration).Float64("confidence", conf).Msg("stage complete")
	return nil
}

// canceled checks for cancellation between stages.
func (r *run) canceled(ctx context.Context) error {
	return ctx.Err()
}
