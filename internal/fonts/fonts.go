// Package fonts resolves font families to drawable faces and measures glyph
// runs. Resolution prefers installed system fonts matching the estimated
// family, then a fixed fallback chain, and finally the embedded Go fonts so
// it never fails. Availability results are cached for the process lifetime.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fallbackChain is tried, in order, after the estimated family.
var fallbackChain = []string{
	"Arial", "Helvetica", "Times New Roman", "Georgia", "Verdana",
	"sans-serif", "serif",
}

// systemFontDirs are the conventional font locations per platform. Missing
// directories are skipped during the scan.
var systemFontDirs = []string{
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/System/Library/Fonts",
	"/Library/Fonts",
	"C:\\Windows\\Fonts",
}

// Variant selects a face variant within a family.
type Variant struct {
	Bold   bool
	Italic bool
}

// Resolved is a loaded font ready to produce faces at any size.
type Resolved struct {
	Family string
	font   *opentype.Font
}

// Face returns a drawable face at the given pixel size.
func (r *Resolved) Face(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %g", size)
	}
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face for %q: %w", r.Family, err)
	}
	return face, nil
}

// Process-wide caches: the scanned system font index and per-family
// resolution results. Read-mostly, shared for the process lifetime.
var (
	scanOnce    sync.Once
	systemIndex map[string]string // normalized name -> file path

	cacheMu    sync.RWMutex
	fontCache  = map[string]*opentype.Font{}
	missCache  = map[string]bool{}
	embedOnce  sync.Once
	embedded   map[string]*opentype.Font
	embedError error
)

// Resolver resolves family names to fonts.
type Resolver struct {
	log zerolog.Logger
}

// NewResolver creates a font resolver.
func NewResolver(log zerolog.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve returns a usable font for the family, walking the fallback chain.
// The embedded Go fonts terminate the chain, so resolution never fails.
func (r *Resolver) Resolve(family string, v Variant) *Resolved {
	chain := make([]string, 0, len(fallbackChain)+1)
	if strings.TrimSpace(family) != "" {
		chain = append(chain, family)
	}
	chain = append(chain, fallbackChain...)

	for _, name := range chain {
		if isGeneric(name) {
			break
		}
		if f := lookupSystem(name, v); f != nil {
			r.log.Debug().Str("family", name).Msg("resolved system font")
			return &Resolved{Family: name, font: f}
		}
	}

	f, name := embeddedFont(v)
	return &Resolved{Family: name, font: f}
}

func isGeneric(name string) bool {
	switch strings.ToLower(name) {
	case "sans-serif", "serif", "sans", "monospace":
		return true
	}
	return false
}

// embeddedFont returns the embedded Go font for the variant. Parsing the
// embedded TTFs cannot fail at runtime; the error path exists only to keep
// the degenerate case total.
func embeddedFont(v Variant) (*opentype.Font, string) {
	embedOnce.Do(func() {
		embedded = make(map[string]*opentype.Font, 4)
		for key, ttf := range map[string][]byte{
			"regular":     goregular.TTF,
			"bold":        gobold.TTF,
			"italic":      goitalic.TTF,
			"bold-italic": gobolditalic.TTF,
		} {
			f, err := opentype.Parse(ttf)
			if err != nil {
				embedError = err
				return
			}
			embedded[key] = f
		}
	})

	key := "regular"
	switch {
	case v.Bold && v.Italic:
		key = "bold-italic"
	case v.Bold:
		key = "bold"
	case v.Italic:
		key = "italic"
	}
	if f := embedded[key]; f != nil {
		return f, "Go"
	}
	return embedded["regular"], "Go"
}

// lookupSystem finds and validates an installed font for the family, using
// the process-wide caches.
func lookupSystem(family string, v Variant) *opentype.Font {
	key := cacheKey(family, v)

	cacheMu.RLock()
	f, hit := fontCache[key]
	miss := missCache[key]
	cacheMu.RUnlock()
	if hit {
		return f
	}
	if miss {
		return nil
	}

	f = loadSystemFont(family, v)
	cacheMu.Lock()
	if f != nil {
		fontCache[key] = f
	} else {
		missCache[key] = true
	}
	cacheMu.Unlock()
	return f
}

func cacheKey(family string, v Variant) string {
	return fmt.Sprintf("%s|%v|%v", normalizeName(family), v.Bold, v.Italic)
}

func loadSystemFont(family string, v Variant) *opentype.Font {
	scanOnce.Do(scanSystemFonts)

	base := normalizeName(family)
	candidates := []string{base}
	switch {
	case v.Bold && v.Italic:
		candidates = append([]string{base + "bolditalic", base + "bi", base + "z"}, candidates...)
	case v.Bold:
		candidates = append([]string{base + "bold", base + "bd", base + "b"}, candidates...)
	case v.Italic:
		candidates = append([]string{base + "italic", base + "i"}, candidates...)
	}

	for _, cand := range candidates {
		path, ok := systemIndex[cand]
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		if !metricsDistinct(f) {
			// Identical advances for narrow and wide glyphs mean we got a
			// monospace substitute rather than the requested family.
			continue
		}
		return f
	}
	return nil
}

// metricsDistinct reports whether the font has proportional metrics by
// comparing the advances of a narrow and a wide glyph.
func metricsDistinct(f *opentype.Font) bool {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 16, DPI: 72})
	if err != nil {
		return false
	}
	defer face.Close()
	narrow, ok1 := face.GlyphAdvance('i')
	wide, ok2 := face.GlyphAdvance('W')
	if !ok1 || !ok2 {
		return false
	}
	return narrow != wide
}

// scanSystemFonts indexes TTF/OTF files under the conventional directories.
func scanSystemFonts() {
	systemIndex = make(map[string]string)
	dirs := systemFontDirs
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
	}
	for _, dir := range dirs {
		_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info == nil || info.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			name := normalizeName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			if _, exists := systemIndex[name]; !exists {
				systemIndex[name] = path
			}
			return nil
		})
	}
}

func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, "_", "")
	return name
}
