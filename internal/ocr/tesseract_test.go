package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTessLangMapping(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"en", "eng"},
		{"de", "deu"},
		{"ja", "jpn"},
		{"zh", "chi_sim"},
	}
	for _, tt := range tests {
		got, ok := tessLang[tt.tag]
		assert.True(t, ok, "tag %q", tt.tag)
		assert.Equal(t, tt.want, got)
	}

	// Unknown tags are passed to the engine unchanged, so traineddata names
	// like "chi_tra" keep working without an entry here.
	_, ok := tessLang["chi_tra"]
	assert.False(t, ok)
}
