// Command styleprobe runs the style analyzer on one region of an image and
// prints the derived style model. Useful for tuning the heuristics.
package main

import (
	"flag"
	"fmt"
	"os"

	"photo-translator/internal/logging"
	"photo-translator/internal/raster"
	"photo-translator/internal/style"
	"photo-translator/pkg/colorutil"
	"photo-translator/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to image")
	x := flag.Int("x", 0, "Region left edge")
	y := flag.Int("y", 0, "Region top edge")
	w := flag.Int("w", 0, "Region width (0 = full image)")
	h := flag.Int("h", 0, "Region height (0 = full image)")
	text := flag.String("text", "", "Known text in the region (improves spacing estimate)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: styleprobe -image <path> [-x 0 -y 0 -w 0 -h 0] [-text \"...\"]")
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, format, err := raster.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	bbox := geometry.RectInt{X: *x, Y: *y, Width: *w, Height: *h}
	if bbox.Width == 0 || bbox.Height == 0 {
		bbox = geometry.FromImageRect(img.Bounds())
	}
	fmt.Printf("Loaded %s image: %dx%d, probing %dx%d at (%d,%d)\n",
		format, img.Bounds().Dx(), img.Bounds().Dy(), bbox.Width, bbox.Height, bbox.X, bbox.Y)

	analyzer := style.NewAnalyzer(logging.Console("warn"))
	m := analyzer.Analyze(img, bbox, *text)

	fmt.Printf("\nColor:\n")
	fmt.Printf("  dominant:    %s\n", colorutil.Hex(m.Color.Dominant))
	fmt.Printf("  text:        %s\n", colorutil.Hex(m.Color.Text))
	fmt.Printf("  background:  %s\n", colorutil.Hex(m.Color.Background))
	fmt.Printf("  contrast:    %.2f\n", m.Color.Contrast)
	fmt.Printf("  scheme:      %s\n", m.Color.Scheme)

	fmt.Printf("\nTypography:\n")
	fmt.Printf("  family:      %s\n", m.Typography.Family)
	fmt.Printf("  size:        %.1f px\n", m.Typography.Size)
	fmt.Printf("  weight:      %s\n", m.Typography.Weight)
	fmt.Printf("  style:       %s\n", m.Typography.Style)
	fmt.Printf("  spacing:     %.1f px\n", m.Typography.LetterSpacing)
	fmt.Printf("  line height: %.1f px\n", m.Typography.LineHeight)
	fmt.Printf("  decoration:  %s\n", m.Typography.Decoration)

	fmt.Printf("\nLayout:\n")
	fmt.Printf("  alignment:   %s\n", m.Layout.Alignment)
	fmt.Printf("  baseline:    %.1f px\n", m.Layout.Baseline)
	fmt.Printf("  margins:     t%d r%d b%d l%d\n",
		m.Layout.Margins.Top, m.Layout.Margins.Right, m.Layout.Margins.Bottom, m.Layout.Margins.Left)

	fmt.Printf("\nEffects:\n")
	fmt.Printf("  shadow:      %v\n", m.Effects.Shadow != nil)
	fmt.Printf("  outline:     %v\n", m.Effects.Outline != nil)
	fmt.Printf("  opacity:     %.2f\n", m.Effects.Opacity)

	fmt.Printf("\nConfidence: %.2f\n", m.Confidence)
}
