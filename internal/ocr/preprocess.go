package ocr

import (
	"image"

	"gocv.io/x/gocv"
)

// minDetectionDim is the smallest image dimension fed to Tesseract; smaller
// inputs are upscaled first.
const minDetectionDim = 300

// preprocessForDetection prepares a photo for word detection: upscale small
// inputs, enhance local contrast with CLAHE, binarize with Otsu, and invert
// light-on-dark text so Tesseract always sees dark glyphs. Returns the
// processed mat and the applied scale factor.
func preprocessForDetection(src gocv.Mat) (gocv.Mat, float64) {
	h, w := src.Rows(), src.Cols()

	scale := 1.0
	var scaled gocv.Mat
	if minDim := min(h, w); minDim < minDetectionDim {
		scale = float64(minDetectionDim) / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(src, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = src.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{8, 8})
	defer clahe.Close()
	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Tesseract expects dark text on a light background.
	whiteCount := gocv.CountNonZero(binary)
	totalPixels := binary.Rows() * binary.Cols()
	if totalPixels > 0 && float64(whiteCount)/float64(totalPixels) < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()

	return result, scale
}

// imageToMat converts a Go image.Image to an OpenCV Mat in BGR order.
func imageToMat(srcImg image.Image) (gocv.Mat, error) {
	bounds := srcImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := srcImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}
