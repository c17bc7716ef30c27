// Package style derives a visual style description from a text region's
// pixels: colors, typography estimates, layout, and effects.
package style

import (
	"image/color"

	"photo-translator/pkg/colorutil"
)

// Scheme classifies the overall brightness of a region.
type Scheme int

const (
	SchemeMixed Scheme = iota
	SchemeLight
	SchemeDark
)

func (s Scheme) String() string {
	switch s {
	case SchemeLight:
		return "light"
	case SchemeDark:
		return "dark"
	default:
		return "mixed"
	}
}

// Weight is the estimated font weight.
type Weight int

const (
	WeightNormal Weight = iota
	WeightLight
	WeightMedium
	WeightBold
)

func (w Weight) String() string {
	switch w {
	case WeightLight:
		return "light"
	case WeightMedium:
		return "medium"
	case WeightBold:
		return "bold"
	default:
		return "normal"
	}
}

// FontStyle is the estimated slant.
type FontStyle int

const (
	StyleNormal FontStyle = iota
	StyleItalic
)

func (s FontStyle) String() string {
	if s == StyleItalic {
		return "italic"
	}
	return "normal"
}

// Decoration is an estimated text decoration.
type Decoration int

const (
	DecorationNone Decoration = iota
	DecorationUnderline
	DecorationOverline
	DecorationLineThrough
)

func (d Decoration) String() string {
	switch d {
	case DecorationUnderline:
		return "underline"
	case DecorationOverline:
		return "overline"
	case DecorationLineThrough:
		return "line-through"
	default:
		return "none"
	}
}

// Alignment is the estimated horizontal alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// Color describes the region's color properties. Contrast is always >= 1.
type Color struct {
	Dominant   color.RGBA
	Text       color.RGBA
	Background color.RGBA
	Contrast   float64
	Scheme     Scheme
}

// Typography describes the estimated font properties. Size, LetterSpacing
// and LineHeight are in pixels.
type Typography struct {
	Family        string
	Size          float64
	Weight        Weight
	Style         FontStyle
	LetterSpacing float64
	LineHeight    float64
	Decoration    Decoration
}

// Margins are pixel distances from the region to the image edges.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Layout describes the region's placement. Baseline is a pixel offset from
// the top of the region; Rotation is radians (currently always 0, text
// deskew is not attempted).
type Layout struct {
	Alignment Alignment
	Rotation  float64
	Baseline  float64
	Margins   Margins
}

// Shadow describes a detected drop shadow.
type Shadow struct {
	OffsetX float64
	OffsetY float64
	Blur    float64
	Color   color.RGBA
}

// Outline describes a detected text outline.
type Outline struct {
	Width float64
	Color color.RGBA
}

// Effects describes detected visual effects. Opacity is in [0,1].
type Effects struct {
	Shadow   *Shadow
	Outline  *Outline
	Gradient bool
	Opacity  float64
}

// Model is a derived style description for one text region. It is a pure
// value: recomputed per region, never mutated in place.
type Model struct {
	Color      Color
	Typography Typography
	Layout     Layout
	Effects    Effects
	Confidence float64
}

// Default returns the fallback model used when a region cannot be analyzed.
func Default() Model {
	return Model{
		Color: Color{
			Dominant:   colorutil.Gray,
			Text:       colorutil.Black,
			Background: colorutil.White,
			Contrast:   21.0, // black on white
			Scheme:     SchemeLight,
		},
		Typography: Typography{
			Family:     "sans-serif",
			Size:       16,
			Weight:     WeightNormal,
			Style:      StyleNormal,
			LineHeight: 19,
			Decoration: DecorationNone,
		},
		Layout: Layout{
			Alignment: AlignLeft,
			Baseline:  12.8, // 80% of a 16px line
		},
		Effects: Effects{
			Opacity: 1.0,
		},
		Confidence: 0.5,
	}
}
