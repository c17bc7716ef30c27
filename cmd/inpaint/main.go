// Command inpaint removes rectangular regions from an image by background
// reconstruction and writes the filled raster and mask.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"photo-translator/internal/logging"
	"photo-translator/internal/raster"
	"photo-translator/internal/reconstruct"
	"photo-translator/internal/region"
	"photo-translator/pkg/geometry"
)

// rectList collects repeated -region x,y,w,h flags.
type rectList []geometry.RectInt

func (r *rectList) String() string {
	parts := make([]string, len(*r))
	for i, rect := range *r {
		parts[i] = fmt.Sprintf("%d,%d,%d,%d", rect.X, rect.Y, rect.Width, rect.Height)
	}
	return strings.Join(parts, " ")
}

func (r *rectList) Set(v string) error {
	var x, y, w, h int
	if _, err := fmt.Sscanf(v, "%d,%d,%d,%d", &x, &y, &w, &h); err != nil {
		return fmt.Errorf("expected x,y,w,h: %w", err)
	}
	*r = append(*r, geometry.RectInt{X: x, Y: y, Width: w, Height: h})
	return nil
}

func main() {
	imagePath := flag.String("image", "", "Path to image")
	outPath := flag.String("out", "inpainted.png", "Path for the filled image")
	maskPath := flag.String("mask", "", "Optional path for the mask image")
	method := flag.String("method", "auto", "Fill method: auto, smooth, inpaint, texture, patch")
	seed := flag.Int64("seed", 1, "Texture sampling seed")
	var regions rectList
	flag.Var(&regions, "region", "Region to remove as x,y,w,h (repeatable)")
	flag.Parse()

	if *imagePath == "" || len(regions) == 0 {
		fmt.Println("Usage: inpaint -image <path> -region x,y,w,h [-region ...] [-method auto] [-out inpainted.png]")
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
	fmt.Printf("Loaded %s image: %dx%d, %d regions\n", format, img.Bounds().Dx(), img.Bounds().Dy(), len(regions))

	opts := reconstruct.DefaultOptions()
	opts.Seed = *seed
	switch *method {
	case "auto":
		opts.Method = reconstruct.MethodAuto
	case "smooth":
		opts.Method = reconstruct.MethodEdgePreservingSmoothing
	case "inpaint":
		opts.Method = reconstruct.MethodInpainting
	case "texture":
		opts.Method = reconstruct.MethodTextureSynthesis
	case "patch":
		opts.Method = reconstruct.MethodPatchMatch
	default:
		fmt.Fprintf(os.Stderr, "Unknown method %q\n", *method)
		os.Exit(1)
	}

	var textRegions []region.TextRegion
	for i, r := range regions {
		textRegions = append(textRegions, region.TextRegion{
			ID:     fmt.Sprintf("region-%03d", i+1),
			Bounds: r,
		})
	}

	rec := reconstruct.NewReconstructor(logging.Console("warn"))
	result := rec.Reconstruct(img, textRegions, opts)
	if !result.Success {
		fmt.Fprintln(os.Stderr, "Reconstruction failed")
		os.Exit(1)
	}
	fmt.Printf("Method: %s, pattern: %s, confidence: %.2f\n", result.Method, result.Pattern, result.Confidence)

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := raster.EncodePNG(out, result.Raster); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)

	if *maskPath != "" {
		mf, err := os.Create(*maskPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create mask output: %v\n", err)
			os.Exit(1)
		}
		defer mf.Close()
		if err := raster.EncodePNG(mf, result.Mask); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write mask: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *maskPath)
	}
}
