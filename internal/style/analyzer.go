package style

import (
	"image"
	"image/color"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"photo-translator/internal/raster"
	"photo-translator/pkg/colorutil"
	"photo-translator/pkg/geometry"
)

// Tunable thresholds for the style heuristics. These are empirical; tests
// assert ordering and range properties rather than exact values.
const (
	edgeTextThreshold   = 0.5  // Sobel magnitude separating glyph edges from background
	strongEdgeThreshold = 0.7  // magnitude counted toward outline detection
	darkLumaThreshold   = 128  // luma below which a pixel counts as glyph ink
	boldRunWidth        = 3.0  // mean horizontal ink-run width above which text is bold
	lightRunWidth       = 1.5  // below which text is light
	italicSlantRatio    = 0.1  // normalized top/bottom centroid offset for italic
	shadowBandFraction  = 0.10 // share of mid-brightness pixels implying a shadow
	outlineEdgeFraction = 0.05 // share of strong edges implying an outline
	glyphHeightFactor   = 0.75 // font size per measured glyph pixel height
)

// Analyzer derives style models from region pixels. It never fails: inputs
// it cannot analyze produce the default model.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates a style analyzer.
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{log: log}
}

// Analyze derives the style model for one region. text is the OCR-detected
// source string; it is only used for character-count estimates and may be
// empty. Identical inputs always produce identical models.
func (a *Analyzer) Analyze(img *image.RGBA, bbox geometry.RectInt, text string) Model {
	if img == nil {
		return Default()
	}
	bbox = bbox.ClampTo(geometry.FromImageRect(img.Bounds()))
	if bbox.Empty() {
		return Default()
	}

	m := Default()
	w, h := bbox.Width, bbox.Height

	luma := make([]float64, w*h)
	alpha := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(bbox.X+x, bbox.Y+y)
			luma[y*w+x] = colorutil.Luma(c.R, c.G, c.B)
			alpha[y*w+x] = float64(c.A)
		}
	}
	edges := raster.SobelMagnitude(img, bbox)

	a.analyzeColor(img, bbox, luma, edges, &m)
	a.analyzeTypography(bbox, luma, text, &m)
	a.analyzeLayout(img, bbox, &m)
	a.analyzeEffects(luma, alpha, edges, &m)

	m.Confidence = styleConfidence(m)
	a.log.Debug().
		Str("scheme", m.Color.Scheme.String()).
		Float64("font_size", m.Typography.Size).
		Str("weight", m.Typography.Weight.String()).
		Float64("confidence", m.Confidence).
		Msg("style analyzed")
	return m
}

// analyzeColor splits pixels into glyph-edge and background classes by Sobel
// magnitude and derives text/background colors, contrast, and scheme.
func (a *Analyzer) analyzeColor(img *image.RGBA, bbox geometry.RectInt, luma, edges []float64, m *Model) {
	w, h := bbox.Width, bbox.Height

	var textLuma, backLuma []float64
	var tr, tg, tb, br, bg, bb, tn, bn float64
	hist := make(map[uint32]int)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			c := img.RGBAAt(bbox.X+x, bbox.Y+y)
			key := uint32(colorutil.Quantize(c.R, 8))<<16 |
				uint32(colorutil.Quantize(c.G, 8))<<8 |
				uint32(colorutil.Quantize(c.B, 8))
			hist[key]++
			if edges[i] >= edgeTextThreshold {
				textLuma = append(textLuma, luma[i])
				tr += float64(c.R)
				tg += float64(c.G)
				tb += float64(c.B)
				tn++
			} else {
				backLuma = append(backLuma, luma[i])
				br += float64(c.R)
				bg += float64(c.G)
				bb += float64(c.B)
				bn++
			}
		}
	}

	// Dominant color: histogram mode over quantized channels. Iterate keys
	// deterministically by tracking the best as we go with a stable tiebreak.
	var bestKey uint32
	bestCount := -1
	for key, count := range hist {
		if count > bestCount || (count == bestCount && key < bestKey) {
			bestKey, bestCount = key, count
		}
	}
	m.Color.Dominant = color.RGBA{
		R: uint8(bestKey >> 16), G: uint8(bestKey >> 8 & 0xff), B: uint8(bestKey & 0xff), A: 255,
	}

	if tn == 0 || bn == 0 {
		// No separable classes; keep default text/background colors.
		mean := stat.Mean(luma, nil)
		m.Color.Scheme = classifyScheme(mean)
		return
	}

	textMean := stat.Mean(textLuma, nil)
	backMean := stat.Mean(backLuma, nil)
	textColor := color.RGBA{R: uint8(tr / tn), G: uint8(tg / tn), B: uint8(tb / tn), A: 255}
	backColor := color.RGBA{R: uint8(br / bn), G: uint8(bg / bn), B: uint8(bb / bn), A: 255}

	// Text is the darker class; swap when the background class is darker.
	if backMean < textMean {
		textColor, backColor = backColor, textColor
		textMean, backMean = backMean, textMean
	}
	m.Color.Text = textColor
	m.Color.Background = backColor
	m.Color.Contrast = colorutil.ContrastRatio(textMean, backMean)
	m.Color.Scheme = classifyScheme(stat.Mean(luma, nil))
}

func classifyScheme(meanLuma float64) Scheme {
	switch {
	case meanLuma > 200:
		return SchemeLight
	case meanLuma < 80:
		return SchemeDark
	default:
		return SchemeMixed
	}
}

// analyzeTypography estimates font size, weight, slant, spacing and
// decoration from the ink distribution inside the region.
func (a *Analyzer) analyzeTypography(bbox geometry.RectInt, luma []float64, text string, m *Model) {
	w, h := bbox.Width, bbox.Height

	inkRow := func(y int) bool {
		for x := 0; x < w; x++ {
			if luma[y*w+x] < darkLumaThreshold {
				return true
			}
		}
		return false
	}

	// Glyph band: first and last rows containing ink.
	top, bottom := -1, -1
	for y := 0; y < h; y++ {
		if inkRow(y) {
			if top < 0 {
				top = y
			}
			bottom = y
		}
	}
	glyphH := h
	if top >= 0 {
		glyphH = bottom - top + 1
	} else {
		top, bottom = 0, h-1
	}
	m.Typography.Size = glyphHeightFactor * float64(glyphH)

	// Weight: mean horizontal ink-run width across the middle third of the
	// glyph band, where strokes are mostly vertical.
	midTop := top + glyphH/3
	midBottom := top + 2*glyphH/3
	var runSum float64
	var runCount int
	for y := midTop; y <= midBottom && y < h; y++ {
		run := 0
		for x := 0; x < w; x++ {
			if luma[y*w+x] < darkLumaThreshold {
				run++
			} else if run > 0 {
				runSum += float64(run)
				runCount++
				run = 0
			}
		}
		if run > 0 {
			runSum += float64(run)
			runCount++
		}
	}
	if runCount > 0 {
		switch meanRun := runSum / float64(runCount); {
		case meanRun > boldRunWidth:
			m.Typography.Weight = WeightBold
		case meanRun < lightRunWidth:
			m.Typography.Weight = WeightLight
		default:
			m.Typography.Weight = WeightNormal
		}
	}

	// Italic: horizontal offset between the ink centroids of the top and
	// bottom quarters of the glyph band, normalized by glyph height.
	if glyphH >= 4 {
		topCx, topN := inkCentroidX(luma, w, top, top+glyphH/4)
		botCx, botN := inkCentroidX(luma, w, bottom-glyphH/4, bottom)
		if topN > 0 && botN > 0 {
			slant := (topCx - botCx) / float64(glyphH)
			if slant > italicSlantRatio {
				m.Typography.Style = StyleItalic
			}
		}
	}

	// Letter spacing from average character cell width.
	if n := len([]rune(text)); n > 0 {
		spacing := float64(w)/float64(n) - 10
		if spacing < 0 {
			spacing = 0
		}
		m.Typography.LetterSpacing = spacing
	}

	// Line height from the count of distinct inked row runs.
	lines := 0
	inLine := false
	for y := 0; y < h; y++ {
		if inkRow(y) {
			if !inLine {
				lines++
				inLine = true
			}
		} else {
			inLine = false
		}
	}
	if lines < 1 {
		lines = 1
	}
	m.Typography.LineHeight = float64(h) / float64(lines)

	// Underline: ink coverage above 50% across the bottom 10% of the region.
	bandTop := h - max(1, h/10)
	var inked, total int
	for y := bandTop; y < h; y++ {
		for x := 0; x < w; x++ {
			if luma[y*w+x] < darkLumaThreshold {
				inked++
			}
			total++
		}
	}
	if total > 0 && float64(inked)/float64(total) > 0.5 {
		m.Typography.Decoration = DecorationUnderline
	}
}

func inkCentroidX(luma []float64, w, y0, y1 int) (cx float64, n int) {
	var sum float64
	for y := y0; y <= y1; y++ {
		for x := 0; x < w; x++ {
			if luma[y*w+x] < darkLumaThreshold {
				sum += float64(x)
				n++
			}
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// analyzeLayout derives alignment from the region center against the image
// thirds, plus baseline and margins.
func (a *Analyzer) analyzeLayout(img *image.RGBA, bbox geometry.RectInt, m *Model) {
	imgW := img.Bounds().Dx()
	imgH := img.Bounds().Dy()

	center := bbox.Center().X
	switch {
	case center < float64(imgW)/3:
		m.Layout.Alignment = AlignLeft
	case center > 2*float64(imgW)/3:
		m.Layout.Alignment = AlignRight
	default:
		m.Layout.Alignment = AlignCenter
	}

	m.Layout.Rotation = 0
	m.Layout.Baseline = 0.8 * float64(bbox.Height)
	m.Layout.Margins = Margins{
		Top:    bbox.Y,
		Left:   bbox.X,
		Right:  imgW - (bbox.X + bbox.Width),
		Bottom: imgH - (bbox.Y + bbox.Height),
	}
}

// analyzeEffects detects shadow and outline hints and measures opacity.
func (a *Analyzer) analyzeEffects(luma, alpha, edges []float64, m *Model) {
	var midBand, strongEdges int
	for i, l := range luma {
		if l >= 50 && l <= 150 {
			midBand++
		}
		if edges[i] > strongEdgeThreshold {
			strongEdges++
		}
	}
	n := float64(len(luma))

	if float64(midBand)/n > shadowBandFraction {
		m.Effects.Shadow = &Shadow{
			OffsetX: 1,
			OffsetY: 1,
			Blur:    2,
			Color:   color.RGBA{A: 160},
		}
	}
	if float64(strongEdges)/n > outlineEdgeFraction {
		m.Effects.Outline = &Outline{
			Width: 1,
			Color: m.Color.Background,
		}
	}
	m.Effects.Opacity = stat.Mean(alpha, nil) / 255.0
}

// styleConfidence scores how trustworthy the derived model is.
func styleConfidence(m Model) float64 {
	conf := 0.5
	if m.Color.Contrast > 2 {
		conf += 0.2
	}
	if m.Color.Contrast > 4 {
		conf += 0.1
	}
	if m.Typography.Size > 10 {
		conf += 0.1
	}
	if m.Typography.Size > 16 {
		conf += 0.1
	}
	if m.Effects.Shadow != nil || m.Effects.Outline != nil {
		conf -= 0.05
	}
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}
