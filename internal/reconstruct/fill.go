package reconstruct

import (
	"image"
	"image/color"
	"math"

	"photo-translator/pkg/colorutil"
)

// fillNeighborAverage fills mask-target pixels by iteratively averaging
// their known 8-neighbors. Each pass grows the known set inward from the
// mask boundary by about one pixel, so deep mask interiors need enough
// iterations to be reached.
func fillNeighborAverage(img *image.RGBA, mask *image.Alpha, iterations int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	known := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			known[y*w+x] = mask.Pix[y*mask.Stride+x] < maskFillThreshold
		}
	}

	type fill struct {
		idx        int
		r, g, b, a uint8
	}
	for it := 0; it < iterations; it++ {
		var fills []fill
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				if known[i] {
					continue
				}
				var sr, sg, sb, sa, n int
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := x+dx, y+dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h || !known[ny*w+nx] {
							continue
						}
						o := ny*img.Stride + nx*4
						sr += int(img.Pix[o])
						sg += int(img.Pix[o+1])
						sb += int(img.Pix[o+2])
						sa += int(img.Pix[o+3])
						n++
					}
				}
				if n == 0 {
					continue
				}
				fills = append(fills, fill{
					idx: i,
					r:   uint8(sr / n), g: uint8(sg / n), b: uint8(sb / n), a: uint8(sa / n),
				})
			}
		}
		if len(fills) == 0 {
			break
		}
		for _, f := range fills {
			o := (f.idx/w)*img.Stride + (f.idx%w)*4
			img.Pix[o] = f.r
			img.Pix[o+1] = f.g
			img.Pix[o+2] = f.b
			img.Pix[o+3] = f.a
			known[f.idx] = true
		}
	}
}

// fillEdgePreserving fills mask-target pixels with a bilateral-style
// weighted average of the unmasked pixels within the blending radius:
// spatial sigma is the radius itself, color sigma is fixed at 50 against a
// spatially-weighted reference color. Targets with no unmasked pixel in
// range are finished with neighbor-averaging passes.
func fillEdgePreserving(img *image.RGBA, orig *image.RGBA, mask *image.Alpha, radius int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	sigmaS := float64(radius)
	const sigmaC = 50.0

	spatial := make([]float64, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*(2*radius+1)+(dx+radius)] = math.Exp(-d2 / (2 * sigmaS * sigmaS))
		}
	}

	var unfilled bool
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x] < maskFillThreshold {
				continue
			}

			// Pass 1: spatially-weighted reference color from unmasked pixels.
			var refR, refG, refB, refW float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if mask.Pix[ny*mask.Stride+nx] >= maskFillThreshold {
						continue
					}
					sw := spatial[(dy+radius)*(2*radius+1)+(dx+radius)]
					c := orig.RGBAAt(b.Min.X+nx, b.Min.Y+ny)
					refR += sw * float64(c.R)
					refG += sw * float64(c.G)
					refB += sw * float64(c.B)
					refW += sw
				}
			}
			if refW == 0 {
				unfilled = true
				continue
			}
			refR /= refW
			refG /= refW
			refB /= refW

			// Pass 2: bilateral weights against the reference color, so
			// pixels on the far side of a background edge contribute less.
			var sr, sg, sb, sw float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if mask.Pix[ny*mask.Stride+nx] >= maskFillThreshold {
						continue
					}
					c := orig.RGBAAt(b.Min.X+nx, b.Min.Y+ny)
					dr := float64(c.R) - refR
					dg := float64(c.G) - refG
					db := float64(c.B) - refB
					cw := math.Exp(-(dr*dr + dg*dg + db*db) / (2 * sigmaC * sigmaC))
					wgt := spatial[(dy+radius)*(2*radius+1)+(dx+radius)] * cw
					sr += wgt * float64(c.R)
					sg += wgt * float64(c.G)
					sb += wgt * float64(c.B)
					sw += wgt
				}
			}
			if sw == 0 {
				unfilled = true
				continue
			}
			o := y*img.Stride + x*4
			img.Pix[o] = uint8(sr/sw + 0.5)
			img.Pix[o+1] = uint8(sg/sw + 0.5)
			img.Pix[o+2] = uint8(sb/sw + 0.5)
			img.Pix[o+3] = 255
		}
	}

	if unfilled {
		// Wide masks can out-range the blending radius; finish by flooding
		// inward from the filled ring.
		remaining := remainingMask(img, orig, mask)
		fillNeighborAverage(img, remaining, w+h)
	}
}

// remainingMask marks mask targets whose pixels are still identical to the
// original, i.e. were not reached by the bilateral fill.
func remainingMask(img, orig *image.RGBA, mask *image.Alpha) *image.Alpha {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewAlpha(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x] < maskFillThreshold {
				continue
			}
			o := y*img.Stride + x*4
			same := img.Pix[o] == orig.Pix[o] &&
				img.Pix[o+1] == orig.Pix[o+1] &&
				img.Pix[o+2] == orig.Pix[o+2]
			if same {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// blendSoftEdges smooths the transition band of the mask: pixels with alpha
// in (0, threshold) blend the average of adjacent filled pixels against the
// original in proportion to their mask alpha.
func blendSoftEdges(img *image.RGBA, orig *image.RGBA, mask *image.Alpha) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := mask.Pix[y*mask.Stride+x]
			if a == 0 || a >= maskFillThreshold {
				continue
			}
			var sr, sg, sb, n int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if mask.Pix[ny*mask.Stride+nx] < maskFillThreshold {
						continue
					}
					o := ny*img.Stride + nx*4
					sr += int(img.Pix[o])
					sg += int(img.Pix[o+1])
					sb += int(img.Pix[o+2])
					n++
				}
			}
			if n == 0 {
				continue
			}
			origC := orig.RGBAAt(b.Min.X+x, b.Min.Y+y)
			avg := color.RGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 255}
			fillC := colorutil.BlendRGBA(origC, avg, float64(a)/255.0)
			o := y*img.Stride + x*4
			img.Pix[o] = fillC.R
			img.Pix[o+1] = fillC.G
			img.Pix[o+2] = fillC.B
		}
	}
}
