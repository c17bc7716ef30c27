package pipeline

import (
	"errors"
	"fmt"
	"image"
	"time"

	"photo-translator/internal/replace"
)

// Stage names, in execution order.
const (
	StageLoading       = "loading"
	StageOCRAnalysis   = "ocr_analysis"
	StageStyleAnalysis = "style_analysis"
	StageTranslation   = "translation"
	StageTextRendering = "text_rendering"
	StageFinalization  = "finalization"
)

// ErrNoTextDetected marks the non-fatal empty-detection short circuit. The
// run still produces a FilterResult with the unchanged image.
var ErrNoTextDetected = errors.New("no text detected in image")

// StageError is a fatal failure inside a named stage. The partial stage log
// up to and including the failed stage is preserved on the FilterResult.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageResult is one entry of the append-only per-run stage log.
type StageResult struct {
	Stage      string
	Success    bool
	Duration   time.Duration
	Confidence float64
	Error      string
}

// FilterResult is the outcome of one pipeline run. Ownership passes to the
// caller; the pipeline never persists anything.
type FilterResult struct {
	Original       *image.RGBA
	Translated     *image.RGBA
	Preview        *image.RGBA
	Regions        []replace.RegionResult
	Stages         []StageResult
	Confidence     float64
	ProcessingTime time.Duration
	Success        bool
}

// overallConfidence is the mean confidence across all recorded stage
// entries; failed stages count as zero.
func overallConfidence(stages []StageResult) float64 {
	if len(stages) == 0 {
		return 0
	}
	var sum float64
	for _, s := range stages {
		if s.Success {
			sum += s.Confidence
		}
	}
	return sum / float64(len(stages))
}
