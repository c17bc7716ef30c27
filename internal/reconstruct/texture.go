package reconstruct

import (
	"image"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"photo-translator/internal/raster"
	"photo-translator/internal/region"
	"photo-translator/pkg/geometry"
)

// Pattern classifies the background around the text regions.
type Pattern int

const (
	PatternUnknown Pattern = iota
	PatternSolid
	PatternGradient
	PatternTexture
	PatternComplex
)

func (p Pattern) String() string {
	switch p {
	case PatternSolid:
		return "solid"
	case PatternGradient:
		return "gradient"
	case PatternTexture:
		return "texture"
	case PatternComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// Patch classification thresholds.
const (
	solidVarianceMax   = 100.0
	gradientEdgeMax    = 0.1
	textureEdgeMax     = 0.3
	edgePixelThreshold = 0.2 // Sobel magnitude counting toward edge density
	patchMin           = 20
	patchMax           = 50
	patchJitter        = 5 // max random offset applied to patch corners
)

// Stats aggregates the per-patch texture metrics across all regions.
type Stats struct {
	Pattern     Pattern
	Variance    float64
	EdgeDensity float64
	Periodicity float64
	Roughness   float64 // normalized stddev, 0 = flat
}

type patchStats struct {
	variance    float64
	gradientDir float64
	gradientMag float64
	edgeDensity float64
	periodicity float64
	pattern     Pattern
}

// sampleTexture samples up to 4 corner patches just outside each region and
// aggregates their statistics by majority vote and averaged metrics. The rng
// only jitters patch positions; with a fixed seed the result is
// deterministic.
func sampleTexture(img *image.RGBA, regions []region.TextRegion, rng *rand.Rand) Stats {
	imgRect := geometry.FromImageRect(img.Bounds())

	var patches []patchStats
	for _, reg := range regions {
		size := min(max(min(reg.Bounds.Width, reg.Bounds.Height), patchMin), patchMax)
		corners := []geometry.PointInt{
			{X: reg.Bounds.X - size, Y: reg.Bounds.Y - size},
			{X: reg.Bounds.X + reg.Bounds.Width, Y: reg.Bounds.Y - size},
			{X: reg.Bounds.X - size, Y: reg.Bounds.Y + reg.Bounds.Height},
			{X: reg.Bounds.X + reg.Bounds.Width, Y: reg.Bounds.Y + reg.Bounds.Height},
		}
		for _, c := range corners {
			jx := rng.Intn(2*patchJitter+1) - patchJitter
			jy := rng.Intn(2*patchJitter+1) - patchJitter
			r := geometry.RectInt{X: c.X + jx, Y: c.Y + jy, Width: size, Height: size}.ClampTo(imgRect)
			if r.Width < patchMin/2 || r.Height < patchMin/2 {
				continue
			}
			patches = append(patches, analyzePatch(img, r))
		}
	}
	if len(patches) == 0 {
		return Stats{Pattern: PatternUnknown}
	}

	votes := make(map[Pattern]int)
	var agg Stats
	for _, p := range patches {
		votes[p.pattern]++
		agg.Variance += p.variance
		agg.EdgeDensity += p.edgeDensity
		agg.Periodicity += p.periodicity
	}
	n := float64(len(patches))
	agg.Variance /= n
	agg.EdgeDensity /= n
	agg.Periodicity /= n
	agg.Roughness = math.Min(1, math.Sqrt(agg.Variance)/128)

	best := PatternUnknown
	bestVotes := -1
	// Fixed iteration order keeps ties deterministic.
	for _, p := range []Pattern{PatternSolid, PatternGradient, PatternTexture, PatternComplex} {
		if votes[p] > bestVotes {
			best, bestVotes = p, votes[p]
		}
	}
	agg.Pattern = best
	return agg
}

// analyzePatch computes variance, gradient, edge density and periodicity for
// one background patch and classifies it.
func analyzePatch(img *image.RGBA, r geometry.RectInt) patchStats {
	w, h := r.Width, r.Height
	luma := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			luma[y*w+x] = raster.LumaAt(img, r.X+x, r.Y+y)
		}
	}

	var p patchStats
	p.variance = stat.Variance(luma, nil)

	edges := raster.SobelMagnitude(img, r)
	edgeCount := 0
	var dirX, dirY, magSum float64
	for i, m := range edges {
		if m > edgePixelThreshold {
			edgeCount++
		}
		dir, _ := raster.GradientAt(img, r.X+i%w, r.Y+i/w)
		dirX += math.Cos(dir) * m
		dirY += math.Sin(dir) * m
		magSum += m
	}
	p.edgeDensity = float64(edgeCount) / float64(len(edges))
	p.gradientMag = magSum / float64(len(edges))
	p.gradientDir = math.Atan2(dirY, dirX)
	p.periodicity = rowProfilePeriodicity(luma, w, h)

	switch {
	case p.variance < solidVarianceMax:
		p.pattern = PatternSolid
	case p.edgeDensity < gradientEdgeMax:
		p.pattern = PatternGradient
	case p.edgeDensity < textureEdgeMax:
		p.pattern = PatternTexture
	default:
		p.pattern = PatternComplex
	}
	return p
}

// rowProfilePeriodicity measures repetition via the peak autocorrelation of
// the column-mean luma profile over lags 2..w/2. Returns 0 for flat patches.
func rowProfilePeriodicity(luma []float64, w, h int) float64 {
	if w < 8 {
		return 0
	}
	profile := make([]float64, w)
	for x := 0; x < w; x++ {
		var sum float64
		for y := 0; y < h; y++ {
			sum += luma[y*w+x]
		}
		profile[x] = sum / float64(h)
	}
	mean := stat.Mean(profile, nil)
	var denom float64
	for _, v := range profile {
		d := v - mean
		denom += d * d
	}
	if denom == 0 {
		return 0
	}

	best := 0.0
	for lag := 2; lag <= w/2; lag++ {
		var num float64
		for x := 0; x+lag < w; x++ {
			num += (profile[x] - mean) * (profile[x+lag] - mean)
		}
		if c := num / denom; c > best {
			best = c
		}
	}
	return best
}
