package fonts

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Advance returns the horizontal extent in pixels of a string drawn with the
// face and per-character letter spacing.
func Advance(face font.Face, s string, letterSpacing float64) float64 {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	var total fixed.Int26_6
	for _, r := range runes {
		a, ok := face.GlyphAdvance(r)
		if !ok {
			// Unknown glyph: fall back to the replacement character's box.
			a, _ = face.GlyphAdvance('?')
		}
		total += a
	}
	return fixedToFloat(total) + letterSpacing*float64(len(runes)-1)
}

// LineMetrics returns the face ascent and recommended line height in pixels.
func LineMetrics(face font.Face) (ascent, height float64) {
	m := face.Metrics()
	return fixedToFloat(m.Ascent), fixedToFloat(m.Height)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// FloatToFixed converts pixels to 26.6 fixed point.
func FloatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v*64 + 0.5)
}
