// Package fit searches for a layout (font scale, wrapping, bounds) that
// places translated text into or around the original text region.
package fit

import (
	"strings"

	"github.com/rs/zerolog"

	"photo-translator/internal/fonts"
	"photo-translator/internal/style"
	"photo-translator/pkg/geometry"
)

// Strategy identifies which layout strategy produced a result.
type Strategy int

const (
	StrategyPreserveBounds Strategy = iota
	StrategyAdaptiveScaling
	StrategyMultiLineWrap
	StrategyOverflowExpand
	StrategyAbbreviation
)

func (s Strategy) String() string {
	switch s {
	case StrategyPreserveBounds:
		return "preserve_bounds"
	case StrategyAdaptiveScaling:
		return "adaptive_scaling"
	case StrategyMultiLineWrap:
		return "multi_line_wrap"
	case StrategyOverflowExpand:
		return "overflow_expand"
	case StrategyAbbreviation:
		return "abbreviation"
	default:
		return "unknown"
	}
}

// Options controls the strategy search.
type Options struct {
	MaxScaleDown      float64 // lower bound of the font scale search
	MaxScaleUp        float64 // upper bound of the font scale search
	MaxExpansion      int     // max pixels of bound growth per axis
	AllowLineBreaking bool    // enables multi_line_wrap
	ExpandBounds      bool    // enables overflow_expand
	AllowAbbreviation bool    // enables abbreviation
}

// DefaultOptions returns the standard overflow handling options.
func DefaultOptions() Options {
	return Options{
		MaxScaleDown:      0.5,
		MaxScaleUp:        1.5,
		MaxExpansion:      40,
		AllowLineBreaking: true,
		ExpandBounds:      true,
		AllowAbbreviation: true,
	}
}

// Line is one laid-out line of text.
type Line struct {
	Text  string
	Width float64
}

// Layout is the measured geometry of the fitted text.
type Layout struct {
	Lines      []Line
	FontSize   float64
	LineHeight float64
	Width      float64
	Height     float64
}

// Result describes the chosen layout. Immutable once produced. When Success
// is false the result is the best-effort adaptive attempt.
type Result struct {
	Strategy    Strategy
	ScaleFactor float64
	FinalText   string
	Layout      Layout
	Bounds      geometry.RectInt
	Confidence  float64
	Success     bool
}

// Fitter runs the layout strategy search.
type Fitter struct {
	fonts *fonts.Resolver
	log   zerolog.Logger
}

// NewFitter creates a fitter using the given font resolver.
func NewFitter(resolver *fonts.Resolver, log zerolog.Logger) *Fitter {
	return &Fitter{fonts: resolver, log: log}
}

// Fit tries the strategies in order and returns the first success. All
// failed strategies fall through to a best-effort adaptive attempt with
// Success=false.
func (f *Fitter) Fit(bbox geometry.RectInt, text string, m style.Model, opts Options, imageBounds geometry.RectInt) Result {
	opts = sanitize(opts)
	text = strings.TrimSpace(text)
	if text == "" || bbox.Empty() {
		return Result{Strategy: StrategyPreserveBounds, ScaleFactor: 1, Bounds: bbox, Success: false}
	}

	if r, ok := f.preserveBounds(bbox, text, m, opts); ok {
		return r
	}
	if r, ok := f.adaptiveScaling(bbox, text, m, opts, imageBounds, opts.MaxExpansion/2); ok {
		return r
	}
	if opts.AllowLineBreaking {
		if r, ok := f.multiLineWrap(bbox, text, m, opts); ok {
			return r
		}
	}
	if opts.ExpandBounds {
		if r, ok := f.adaptiveScaling(bbox, text, m, opts, imageBounds, opts.MaxExpansion); ok {
			r.Strategy = StrategyOverflowExpand
			return r
		}
	}
	if opts.AllowAbbreviation {
		if r, ok := f.abbreviate(bbox, text, m, opts); ok {
			return r
		}
	}

	return f.bestEffort(bbox, text, m, opts, imageBounds)
}

func sanitize(opts Options) Options {
	if opts.MaxScaleDown <= 0 {
		opts.MaxScaleDown = 0.5
	}
	if opts.MaxScaleUp < opts.MaxScaleDown {
		opts.MaxScaleUp = opts.MaxScaleDown
	}
	if opts.MaxExpansion < 0 {
		opts.MaxExpansion = 0
	}
	return opts
}

// fitConfidence scores how natural the fitted layout looks: scale changes
// cost confidence, comfortable utilization of the bounds earns it back.
func fitConfidence(scale float64, layout Layout, bounds geometry.RectInt) float64 {
	conf := 0.8
	d := 1 - scale
	if d < 0 {
		d = -d
	}
	conf -= d * 0.3
	if bounds.Width > 0 {
		if u := layout.Width / float64(bounds.Width); u > 0.7 && u < 0.95 {
			conf += 0.1
		}
	}
	if bounds.Height > 0 {
		if u := layout.Height / float64(bounds.Height); u > 0.7 && u < 0.95 {
			conf += 0.1
		}
	}
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}
