// Package ocr binds the external Tesseract OCR engine as the pipeline's
// word detector.
package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"photo-translator/internal/region"
	"photo-translator/pkg/geometry"
)

// TesseractEngine performs word-level text detection with Tesseract, with
// OpenCV preprocessing for photographic input.
type TesseractEngine struct {
	client *gosseract.Client
	log    zerolog.Logger
}

// NewTesseractEngine creates an engine for the given language hint
// ("eng" when empty).
func NewTesseractEngine(lang string, log zerolog.Logger) (*TesseractEngine, error) {
	client := gosseract.NewClient()
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	return &TesseractEngine{client: client, log: log}, nil
}

// Close releases OCR resources.
func (e *TesseractEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// tessLang maps common BCP-47 tags to Tesseract language codes. Unknown
// tags pass through unchanged so traineddata names keep working.
var tessLang = map[string]string{
	"en": "eng", "de": "deu", "fr": "fra", "es": "spa", "it": "ita",
	"pt": "por", "nl": "nld", "ru": "rus", "ja": "jpn", "ko": "kor",
	"zh": "chi_sim",
}

// DetectWords runs preprocessing and word-level OCR over the whole image.
// Confidences are on the engine's 0-100 scale; callers filter and merge.
func (e *TesseractEngine) DetectWords(ctx context.Context, img image.Image, lang string) ([]region.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("empty image")
	}

	if lang != "" && lang != "auto" {
		code := lang
		if mapped, ok := tessLang[strings.ToLower(lang)]; ok {
			code = mapped
		}
		if err := e.client.SetLanguage(code); err != nil {
			return nil, fmt.Errorf("failed to set OCR language %q: %w", code, err)
		}
	}

	mat, err := imageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	processed, scale := preprocessForDetection(mat)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get boxes: %w", err)
	}

	var words []region.Word
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		// Map detection coordinates back to the original image scale.
		words = append(words, region.Word{
			Text: text,
			Bounds: geometry.RectInt{
				X:      int(float64(box.Box.Min.X)/scale + 0.5),
				Y:      int(float64(box.Box.Min.Y)/scale + 0.5),
				Width:  int(float64(box.Box.Dx())/scale + 0.5),
				Height: int(float64(box.Box.Dy())/scale + 0.5),
			},
			Confidence: box.Confidence,
		})
	}

	e.log.Debug().Int("words", len(words)).Msg("OCR detection complete")
	return words, nil
}
