// Command phototrans runs the full photo translation pipeline on an image
// file and writes the translated result.
//
// Collaborator configuration comes from the environment (optionally via a
// .env file): TRANSLATOR_API_KEY, TRANSLATOR_API_URL, TRANSLATOR_MODEL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"photo-translator/internal/logging"
	"photo-translator/internal/ocr"
	"photo-translator/internal/pipeline"
	"photo-translator/internal/raster"
	"photo-translator/internal/translate"
	"photo-translator/internal/version"
)

func main() {
	imagePath := flag.String("image", "", "Path to input image (PNG, JPEG, TIFF, or WebP)")
	outPath := flag.String("out", "translated.png", "Path for the translated image")
	previewPath := flag.String("preview", "", "Optional path for the downscaled preview")
	sourceLang := flag.String("source", "auto", "Source language (BCP-47 tag or \"auto\")")
	targetLang := flag.String("target", "en", "Target language (BCP-47 tag)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("phototrans %s (built %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
		return
	}
	if *imagePath == "" {
		fmt.Println("Usage: phototrans -image <path> [-out translated.png] [-source auto] [-target en]")
		os.Exit(1)
	}

	_ = godotenv.Load()
	log := logging.Console(*logLevel)

	apiKey := os.Getenv("TRANSLATOR_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "TRANSLATOR_API_KEY is not set")
		os.Exit(1)
	}

	translator := translate.NewClient(translate.Config{
		APIKey: apiKey,
		Model:  os.Getenv("TRANSLATOR_MODEL"),
		APIURL: os.Getenv("TRANSLATOR_API_URL"),
		Logger: log,
	})

	engine, err := ocr.NewTesseractEngine("eng", log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start OCR engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	data, err := os.ReadFile(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("translating"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)

	opts := pipeline.DefaultOptions()
	opts.SourceLang = *sourceLang
	opts.TargetLang = *targetLang
	opts.Progress = func(pct int, msg string) {
		bar.Describe(msg)
		_ = bar.Set(pct)
	}

	p := pipeline.New(engine, translator, log)
	result, err := p.Apply(ctx, data, opts)
	fmt.Println()

	switch {
	case errors.Is(err, pipeline.ErrNoTextDetected):
		fmt.Println("No text detected; output is the unchanged image.")
	case err != nil:
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
		printStages(result)
		os.Exit(1)
	}

	if err := writePNG(*outPath, result.Translated); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}
	if *previewPath != "" && result.Preview != nil {
		if err := writePNG(*previewPath, result.Preview); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write preview: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Wrote %s (confidence %.2f, %d regions, %s)\n",
		*outPath, result.Confidence, len(result.Regions), result.ProcessingTime.Round(1e6))
	printStages(result)
}

func printStages(result *pipeline.FilterResult) {
	if result == nil {
		return
	}
	fmt.Printf("%-16s %-8s %10s %12s\n", "Stage", "OK", "Duration", "Confidence")
	for _, s := range result.Stages {
		status := "yes"
		if !s.Success {
			status = "FAILED"
		}
		fmt.Printf("%-16s %-8s %10s %12.2f\n", s.Stage, status, s.Duration.Round(1e6), s.Confidence)
		if s.Error != "" {
			fmt.Printf("  error: %s\n", s.Error)
		}
	}
}

func writePNG(path string, img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("no image produced")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return raster.EncodePNG(f, img)
}
