package fit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-translator/internal/fonts"
	"photo-translator/internal/logging"
	"photo-translator/internal/style"
	"photo-translator/pkg/geometry"
)

func newFitter(t *testing.T) *Fitter {
	t.Helper()
	return NewFitter(fonts.NewResolver(logging.Nop()), logging.Nop())
}

var testImageBounds = geometry.NewRectInt(0, 0, 400, 300)

func TestFitShortTextInRoomyBounds(t *testing.T) {
	f := newFitter(t)
	bbox := geometry.NewRectInt(50, 100, 60, 30)

	r := f.Fit(bbox, "Confirm", style.Default(), DefaultOptions(), testImageBounds)

	require.True(t, r.Success)
	assert.Contains(t, []Strategy{StrategyPreserveBounds, StrategyAdaptiveScaling}, r.Strategy)
	assert.Equal(t, "Confirm", r.FinalText)
	assert.GreaterOrEqual(t, r.ScaleFactor, 0.5)
	assert.LessOrEqual(t, r.ScaleFactor, 1.5)
	assert.True(t, fits(r.Layout, r.Bounds), "layout %v must fit bounds %v", r.Layout, r.Bounds)
	assert.Greater(t, r.Confidence, 0.0)
	assert.LessOrEqual(t, r.Confidence, 1.0)
}

func TestFitEmptyText(t *testing.T) {
	f := newFitter(t)
	r := f.Fit(geometry.NewRectInt(0, 0, 50, 20), "   ", style.Default(), DefaultOptions(), testImageBounds)
	assert.False(t, r.Success)
	assert.Equal(t, StrategyPreserveBounds, r.Strategy)
	assert.Equal(t, 1.0, r.ScaleFactor)
}

func TestFitEmptyBounds(t *testing.T) {
	f := newFitter(t)
	r := f.Fit(geometry.RectInt{}, "text", style.Default(), DefaultOptions(), testImageBounds)
	assert.False(t, r.Success)
}

func TestFitMultiLineWrap(t *testing.T) {
	f := newFitter(t)
	opts := DefaultOptions()
	opts.MaxExpansion = 0 // force the wrap path instead of growing bounds
	opts.AllowAbbreviation = false
	bbox := geometry.NewRectInt(20, 20, 60, 60)

	r := f.Fit(bbox, "Hello World Hello World", style.Default(), opts, testImageBounds)

	require.True(t, r.Success)
	assert.Equal(t, StrategyMultiLineWrap, r.Strategy)
	assert.Contains(t, r.FinalText, "\n")
	assert.GreaterOrEqual(t, len(r.Layout.Lines), 2)
	assert.True(t, fits(r.Layout, r.Bounds))
	assert.Equal(t, bbox, r.Bounds)
}

func TestFitOverflowExpand(t *testing.T) {
	f := newFitter(t)
	opts := DefaultOptions()
	opts.AllowLineBreaking = false
	bbox := geometry.NewRectInt(100, 100, 20, 20)

	r := f.Fit(bbox, "Confirmation", style.Default(), opts, testImageBounds)

	require.True(t, r.Success)
	assert.Equal(t, StrategyOverflowExpand, r.Strategy)
	// The bounds grew, but stayed inside the image.
	assert.Greater(t, r.Bounds.Width, bbox.Width)
	assert.Equal(t, r.Bounds, r.Bounds.ClampTo(testImageBounds))
	assert.True(t, fits(r.Layout, r.Bounds))
}

func TestFitAbbreviation(t *testing.T) {
	f := newFitter(t)
	opts := DefaultOptions()
	opts.AllowLineBreaking = false
	opts.ExpandBounds = false
	opts.MaxExpansion = 0

	r := f.Fit(geometry.NewRectInt(10, 10, 80, 30),
		"Informational message about the system configuration", style.Default(), opts, testImageBounds)

	require.True(t, r.Success)
	assert.Equal(t, StrategyAbbreviation, r.Strategy)
	assert.True(t, strings.HasSuffix(r.FinalText, "…"), "abbreviated text ends with an ellipsis, got %q", r.FinalText)
	assert.NotContains(t, r.FinalText, " the ", "stop words are dropped first")
	assert.True(t, fits(r.Layout, r.Bounds))
	assert.LessOrEqual(t, r.Confidence, 0.8)
}

func TestFitBestEffortFallback(t *testing.T) {
	f := newFitter(t)
	opts := Options{
		MaxScaleDown:      0.5,
		MaxScaleUp:        1.5,
		MaxExpansion:      0,
		AllowLineBreaking: false,
		ExpandBounds:      false,
		AllowAbbreviation: false,
	}

	r := f.Fit(geometry.NewRectInt(10, 10, 20, 10),
		"This text can never fit in such a tiny box", style.Default(), opts, testImageBounds)

	assert.False(t, r.Success)
	assert.Equal(t, StrategyAdaptiveScaling, r.Strategy)
	assert.Equal(t, 0.5, r.ScaleFactor)
	assert.Equal(t, "This text can never fit in such a tiny box", r.FinalText)
	assert.GreaterOrEqual(t, r.Confidence, 0.0)
}

func TestFitSuccessNeverOverflows(t *testing.T) {
	f := newFitter(t)
	m := style.Default()
	cases := []struct {
		text string
		bbox geometry.RectInt
	}{
		{"OK", geometry.NewRectInt(10, 10, 40, 20)},
		{"Confirm", geometry.NewRectInt(50, 100, 60, 30)},
		{"Press the button to continue", geometry.NewRectInt(30, 30, 120, 50)},
		{"Exit", geometry.NewRectInt(300, 250, 50, 30)},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			r := f.Fit(tc.bbox, tc.text, m, DefaultOptions(), testImageBounds)
			if r.Success {
				assert.True(t, fits(r.Layout, r.Bounds),
					"successful fit must stay inside its bounds: layout %+v bounds %+v", r.Layout, r.Bounds)
				assert.GreaterOrEqual(t, r.ScaleFactor, 0.5)
				assert.LessOrEqual(t, r.ScaleFactor, 1.5)
			}
			assert.GreaterOrEqual(t, r.Confidence, 0.0)
			assert.LessOrEqual(t, r.Confidence, 1.0)
		})
	}
}

func TestFitDeterministic(t *testing.T) {
	f := newFitter(t)
	bbox := geometry.NewRectInt(50, 100, 60, 30)
	first := f.Fit(bbox, "Confirm", style.Default(), DefaultOptions(), testImageBounds)
	second := f.Fit(bbox, "Confirm", style.Default(), DefaultOptions(), testImageBounds)
	assert.Equal(t, first, second)
}

func TestSanitizeOptions(t *testing.T) {
	opts := sanitize(Options{MaxScaleDown: -1, MaxScaleUp: 0.1, MaxExpansion: -5})
	assert.Equal(t, 0.5, opts.MaxScaleDown)
	assert.GreaterOrEqual(t, opts.MaxScaleUp, opts.MaxScaleDown)
	assert.Equal(t, 0, opts.MaxExpansion)
}

func TestFitConfidence(t *testing.T) {
	bounds := geometry.NewRectInt(0, 0, 100, 40)

	// Unscaled text comfortably filling the bounds scores best.
	snug := fitConfidence(1.0, Layout{Width: 80, Height: 32}, bounds)
	shrunk := fitConfidence(0.5, Layout{Width: 30, Height: 10}, bounds)
	assert.Greater(t, snug, shrunk)

	for _, c := range []float64{snug, shrunk, fitConfidence(1.5, Layout{}, bounds)} {
		assert.GreaterOrEqual(t, c, 0.0)
		assert.LessOrEqual(t, c, 1.0)
	}
}

func TestStrategyStrings(t *testing.T) {
	assert.Equal(t, "preserve_bounds", StrategyPreserveBounds.String())
	assert.Equal(t, "adaptive_scaling", StrategyAdaptiveScaling.String())
	assert.Equal(t, "multi_line_wrap", StrategyMultiLineWrap.String())
	assert.Equal(t, "overflow_expand", StrategyOverflowExpand.String())
	assert.Equal(t, "abbreviation", StrategyAbbreviation.String())
}
