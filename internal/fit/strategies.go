package fit

import (
	"strings"

	"photo-translator/internal/fonts"
	"photo-translator/internal/style"
	"photo-translator/pkg/geometry"
)

// scaleSearchIterations bounds the binary search over font scale.
const scaleSearchIterations = 10

// measure lays out the given lines at a font scale relative to the style's
// estimated size.
func (f *Fitter) measure(lines []string, m style.Model, scale float64) (Layout, error) {
	size := m.Typography.Size * scale
	if size < 1 {
		size = 1
	}
	resolved := f.fonts.Resolve(m.Typography.Family, fonts.Variant{
		Bold:   m.Typography.Weight == style.WeightBold,
		Italic: m.Typography.Style == style.StyleItalic,
	})
	face, err := resolved.Face(size)
	if err != nil {
		return Layout{}, err
	}
	defer face.Close()

	lineHeight := m.Typography.LineHeight * scale
	if _, faceH := fonts.LineMetrics(face); lineHeight < faceH*0.5 {
		lineHeight = faceH
	}

	spacing := m.Typography.LetterSpacing * scale
	layout := Layout{FontSize: size, LineHeight: lineHeight}
	for _, text := range lines {
		w := fonts.Advance(face, text, spacing)
		layout.Lines = append(layout.Lines, Line{Text: text, Width: w})
		if w > layout.Width {
			layout.Width = w
		}
	}
	layout.Height = float64(len(lines)) * lineHeight
	return layout, nil
}

func fits(layout Layout, bounds geometry.RectInt) bool {
	return layout.Width <= float64(bounds.Width) && layout.Height <= float64(bounds.Height)
}

// searchScale binary-searches for the largest scale in [lo, hi] whose layout
// fits the bounds. Returns ok=false when even the smallest scale overflows.
func (f *Fitter) searchScale(lines []string, m style.Model, bounds geometry.RectInt, lo, hi float64) (Layout, float64, bool) {
	layoutLo, err := f.measure(lines, m, lo)
	if err != nil || !fits(layoutLo, bounds) {
		return layoutLo, lo, false
	}
	layoutHi, err := f.measure(lines, m, hi)
	if err == nil && fits(layoutHi, bounds) {
		return layoutHi, hi, true
	}

	bestLayout, bestScale := layoutLo, lo
	for i := 0; i < scaleSearchIterations; i++ {
		mid := (lo + hi) / 2
		layout, err := f.measure(lines, m, mid)
		if err == nil && fits(layout, bounds) {
			bestLayout, bestScale = layout, mid
			lo = mid
		} else {
			hi = mid
		}
	}
	return bestLayout, bestScale, true
}

// preserveBounds fits the text into the original bounds by scaling only.
func (f *Fitter) preserveBounds(bbox geometry.RectInt, text string, m style.Model, opts Options) (Result, bool) {
	layout, scale, ok := f.searchScale([]string{text}, m, bbox, opts.MaxScaleDown, opts.MaxScaleUp)
	if !ok {
		return Result{}, false
	}
	return Result{
		Strategy:    StrategyPreserveBounds,
		ScaleFactor: scale,
		FinalText:   text,
		Layout:      layout,
		Bounds:      bbox,
		Confidence:  fitConfidence(scale, layout, bbox),
		Success:     true,
	}, true
}

// adaptiveScaling retries the scale search against bounds grown by up to
// expansion pixels per axis, clamped to the image.
func (f *Fitter) adaptiveScaling(bbox geometry.RectInt, text string, m style.Model, opts Options, imageBounds geometry.RectInt, expansion int) (Result, bool) {
	expanded := bbox.Expand(expansion/2, expansion/2).ClampTo(imageBounds)
	layout, scale, ok := f.searchScale([]string{text}, m, expanded, opts.MaxScaleDown, opts.MaxScaleUp)
	if !ok {
		return Result{}, false
	}
	return Result{
		Strategy:    StrategyAdaptiveScaling,
		ScaleFactor: scale,
		FinalText:   text,
		Layout:      layout,
		Bounds:      expanded,
		Confidence:  fitConfidence(scale, layout, expanded),
		Success:     true,
	}, true
}

// multiLineWrap greedily wraps words to the region width, then rescales the
// wrapped block to fit.
func (f *Fitter) multiLineWrap(bbox geometry.RectInt, text string, m style.Model, opts Options) (Result, bool) {
	lines, err := f.wrap(text, m, float64(bbox.Width))
	if err != nil || len(lines) < 2 {
		return Result{}, false
	}
	layout, scale, ok := f.searchScale(lines, m, bbox, opts.MaxScaleDown, opts.MaxScaleUp)
	if !ok {
		return Result{}, false
	}
	return Result{
		Strategy:    StrategyMultiLineWrap,
		ScaleFactor: scale,
		FinalText:   strings.Join(lines, "\n"),
		Layout:      layout,
		Bounds:      bbox,
		Confidence:  fitConfidence(scale, layout, bbox),
		Success:     true,
	}, true
}

// wrap splits text into lines no wider than maxWidth at the unscaled font
// size. A word longer than the width gets its own line.
func (f *Fitter) wrap(text string, m style.Model, maxWidth float64) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		layout, err := f.measure([]string{candidate}, m, 1)
		if err != nil {
			return nil, err
		}
		if layout.Width <= maxWidth {
			current = candidate
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current), nil
}

// englishStopWords are dropped first when abbreviating.
var englishStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "to": true,
	"in": true, "on": true, "at": true, "for": true, "and": true,
	"or": true, "with": true, "by": true, "is": true, "are": true,
}

// abbreviate drops stop words, then truncates with an ellipsis at shrinking
// length thresholds, retrying the scale fit at each step.
func (f *Fitter) abbreviate(bbox geometry.RectInt, text string, m style.Model, opts Options) (Result, bool) {
	try := func(candidate string) (Result, bool) {
		r, ok := f.preserveBounds(bbox, candidate, m, opts)
		if !ok {
			return Result{}, false
		}
		r.Strategy = StrategyAbbreviation
		r.Confidence *= 0.8
		return r, true
	}

	// Step 1: remove stop words.
	var kept []string
	for _, w := range strings.Fields(text) {
		if !englishStopWords[strings.ToLower(w)] {
			kept = append(kept, w)
		}
	}
	stripped := strings.Join(kept, " ")
	if stripped != "" && stripped != text {
		if r, ok := try(stripped); ok {
			return r, true
		}
		text = stripped
	}

	// Step 2: ellipsis truncation at decreasing thresholds.
	runes := []rune(text)
	start := max(10, int(0.7*float64(len(runes))))
	for limit := start; limit >= 10; limit -= 5 {
		if limit >= len(runes) {
			continue
		}
		candidate := strings.TrimSpace(string(runes[:limit-1])) + "…"
		if r, ok := try(candidate); ok {
			return r, true
		}
	}
	return Result{}, false
}

// bestEffort returns the failed-fit fallback: the adaptive layout at the
// smallest allowed scale, flagged unsuccessful.
func (f *Fitter) bestEffort(bbox geometry.RectInt, text string, m style.Model, opts Options, imageBounds geometry.RectInt) Result {
	expanded := bbox.Expand(opts.MaxExpansion/4, opts.MaxExpansion/4).ClampTo(imageBounds)
	layout, err := f.measure([]string{text}, m, opts.MaxScaleDown)
	if err != nil {
		layout = Layout{FontSize: m.Typography.Size * opts.MaxScaleDown}
	}
	f.log.Debug().Str("text", text).Msg("no fitting strategy succeeded")
	return Result{
		Strategy:    StrategyAdaptiveScaling,
		ScaleFactor: opts.MaxScaleDown,
		FinalText:   text,
		Layout:      layout,
		Bounds:      expanded,
		Confidence:  fitConfidence(opts.MaxScaleDown, layout, expanded) * 0.5,
		Success:     false,
	}
}
