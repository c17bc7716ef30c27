package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-translator/pkg/geometry"
)

func word(text string, x, y, w, h int, conf float64) Word {
	return Word{Text: text, Bounds: geometry.NewRectInt(x, y, w, h), Confidence: conf}
}

func TestMergeFiltersWords(t *testing.T) {
	tests := []struct {
		name  string
		words []Word
	}{
		{"nil input", nil},
		{"low confidence", []Word{word("Hello", 10, 10, 40, 12, 20)}},
		{"blank text", []Word{word("   ", 10, 10, 40, 12, 90)}},
		{"empty bounds", []Word{word("Hello", 10, 10, 0, 0, 90)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Merge(tt.words))
		})
	}
}

func TestMergeSingleLine(t *testing.T) {
	words := []Word{
		word("world", 60, 10, 45, 12, 80),
		word("Hello", 10, 10, 40, 12, 90),
	}
	regions := Merge(words)
	require.Len(t, regions, 1)

	r := regions[0]
	assert.Equal(t, "region-001", r.ID)
	assert.Equal(t, "Hello world", r.Text)
	assert.InDelta(t, 0.85, r.Confidence, 1e-9)
	// Bounds cover both words.
	assert.Equal(t, geometry.NewRectInt(10, 10, 95, 12), r.Bounds)
	assert.Empty(t, r.TranslatedText)
	assert.Nil(t, r.Style)
}

func TestMergeSeparateBlocks(t *testing.T) {
	words := []Word{
		word("Exit", 10, 200, 40, 12, 90),
		word("Welcome", 10, 10, 70, 12, 85),
	}
	regions := Merge(words)
	require.Len(t, regions, 2)

	// Reading order: top block first.
	assert.Equal(t, "region-001", regions[0].ID)
	assert.Equal(t, "Welcome", regions[0].Text)
	assert.Equal(t, "region-002", regions[1].ID)
	assert.Equal(t, "Exit", regions[1].Text)
}

func TestMergeMultiLineBlock(t *testing.T) {
	// Two lines 14px apart with 12px-high words: well within 2x the average
	// word height, so they form one block read line by line.
	words := []Word{
		word("sign", 52, 24, 35, 12, 80),
		word("this", 10, 24, 35, 12, 80),
		word("Read", 10, 10, 40, 12, 80),
	}
	regions := Merge(words)
	require.Len(t, regions, 1)
	assert.Equal(t, "Read this sign", regions[0].Text)
}

func TestMergeBridgedClusters(t *testing.T) {
	// The middle word overlaps both outer words, pulling all three into a
	// single region even though the outer pair would not merge on its own.
	words := []Word{
		word("left", 0, 10, 30, 10, 80),
		word("right", 200, 10, 30, 10, 80),
		word("bridge", 40, 10, 155, 10, 80),
	}
	regions := Merge(words)
	require.Len(t, regions, 1)
	assert.Equal(t, "left bridge right", regions[0].Text)
}

func TestMergeDeterministic(t *testing.T) {
	words := []Word{
		word("b", 60, 10, 20, 10, 70),
		word("a", 10, 10, 20, 10, 90),
		word("c", 10, 100, 20, 10, 50),
	}
	first := Merge(words)
	second := Merge(words)
	assert.Equal(t, first, second)
}
