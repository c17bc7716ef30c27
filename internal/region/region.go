// Package region defines detected text regions and the merging of word-level
// OCR detections into them.
package region

import (
	"fmt"
	"sort"
	"strings"

	"photo-translator/internal/style"
	"photo-translator/pkg/geometry"
)

// MinWordConfidence is the OCR confidence (0-100 scale) below which a
// detected word is discarded before merging.
const MinWordConfidence = 30.0

// Word is a single word-level OCR detection as reported by the engine.
type Word struct {
	Text       string
	Bounds     geometry.RectInt
	Confidence float64 // 0-100, engine scale
}

// TextRegion is a merged block of source-language text. Bounds is immutable
// once the region is created; TranslatedText and Style are filled in by the
// later pipeline stages.
type TextRegion struct {
	ID             string
	Text           string
	TranslatedText string
	Bounds         geometry.RectInt
	Confidence     float64 // 0-1
	Style          *style.Model
}

// Merge groups word detections into text regions. Words closer than 2× the
// average word height (in both axes) are considered part of the same block;
// words below MinWordConfidence are dropped first. Region IDs are assigned
// in reading order so downstream processing is deterministic.
func Merge(words []Word) []TextRegion {
	var kept []Word
	for _, w := range words {
		if w.Confidence < MinWordConfidence {
			continue
		}
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		if w.Bounds.Empty() {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return nil
	}

	// Reading order: top-to-bottom, then left-to-right.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Bounds.Y != kept[j].Bounds.Y {
			return kept[i].Bounds.Y < kept[j].Bounds.Y
		}
		return kept[i].Bounds.X < kept[j].Bounds.X
	})

	var totalH float64
	for _, w := range kept {
		totalH += float64(w.Bounds.Height)
	}
	mergeDist := 2.0 * totalH / float64(len(kept))

	// Union-find style clustering: a word joins a cluster when its bounds,
	// expanded by the merge distance, intersect the cluster bounds.
	type cluster struct {
		words  []Word
		bounds geometry.RectInt
	}
	var clusters []*cluster
	grow := int(mergeDist + 0.5)
	for _, w := range kept {
		expanded := w.Bounds.Expand(grow, grow)
		var joined *cluster
		for _, c := range clusters {
			if expanded.Intersects(c.bounds) {
				if joined == nil {
					c.words = append(c.words, w)
					c.bounds = c.bounds.Union(w.Bounds)
					joined = c
				} else {
					// The word bridges two clusters; merge them.
					joined.words = append(joined.words, c.words...)
					joined.bounds = joined.bounds.Union(c.bounds)
					c.words = nil
				}
			}
		}
		if joined == nil {
			clusters = append(clusters, &cluster{words: []Word{w}, bounds: w.Bounds})
		}
	}

	var regions []TextRegion
	for _, c := range clusters {
		if len(c.words) == 0 {
			continue
		}
		sort.SliceStable(c.words, func(i, j int) bool {
			wi, wj := c.words[i], c.words[j]
			// Words on the same visual line sort left-to-right.
			if overlapsVertically(wi.Bounds, wj.Bounds) {
				return wi.Bounds.X < wj.Bounds.X
			}
			return wi.Bounds.Y < wj.Bounds.Y
		})

		texts := make([]string, len(c.words))
		var confSum float64
		for i, w := range c.words {
			texts[i] = w.Text
			confSum += w.Confidence
		}
		regions = append(regions, TextRegion{
			Text:       strings.Join(texts, " "),
			Bounds:     c.bounds,
			Confidence: confSum / float64(len(c.words)) / 100.0,
		})
	}

	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Bounds.Y != regions[j].Bounds.Y {
			return regions[i].Bounds.Y < regions[j].Bounds.Y
		}
		return regions[i].Bounds.X < regions[j].Bounds.X
	})
	for i := range regions {
		regions[i].ID = fmt.Sprintf("region-%03d", i+1)
	}
	return regions
}

// overlapsVertically reports whether two word boxes share more than half of
// the smaller box's height, i.e. they sit on the same text line.
func overlapsVertically(a, b geometry.RectInt) bool {
	top := max(a.Y, b.Y)
	bottom := min(a.Y+a.Height, b.Y+b.Height)
	overlap := bottom - top
	if overlap <= 0 {
		return false
	}
	return overlap*2 > min(a.Height, b.Height)
}
