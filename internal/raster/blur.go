package raster

import "image"

// BoxBlurAlpha applies an in-place box blur of the given radius to an alpha
// mask. Radius 0 is a no-op.
func BoxBlurAlpha(mask *image.Alpha, radius int) {
	if radius <= 0 {
		return
	}
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	src := make([]uint8, len(mask.Pix))
	copy(src, mask.Pix)

	// Horizontal pass
	tmp := make([]uint8, len(mask.Pix))
	for y := 0; y < h; y++ {
		row := y * mask.Stride
		for x := 0; x < w; x++ {
			var sum, count int
			for dx := -radius; dx <= radius; dx++ {
				sx := x + dx
				if sx < 0 || sx >= w {
					continue
				}
				sum += int(src[row+sx])
				count++
			}
			tmp[row+x] = uint8(sum / count)
		}
	}

	// Vertical pass
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, count int
			for dy := -radius; dy <= radius; dy++ {
				sy := y + dy
				if sy < 0 || sy >= h {
					continue
				}
				sum += int(tmp[sy*mask.Stride+x])
				count++
			}
			mask.Pix[y*mask.Stride+x] = uint8(sum / count)
		}
	}
}

// BoxBlurRGBA applies an in-place box blur of the given radius to an RGBA
// image. Alpha is blurred along with the color channels, which is what the
// shadow pass wants.
func BoxBlurRGBA(img *image.RGBA, radius int) {
	if radius <= 0 {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	src := make([]uint8, len(img.Pix))
	copy(src, img.Pix)

	tmp := make([]uint8, len(img.Pix))
	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			var sum [4]int
			var count int
			for dx := -radius; dx <= radius; dx++ {
				sx := x + dx
				if sx < 0 || sx >= w {
					continue
				}
				o := row + sx*4
				sum[0] += int(src[o])
				sum[1] += int(src[o+1])
				sum[2] += int(src[o+2])
				sum[3] += int(src[o+3])
				count++
			}
			o := row + x*4
			for c := 0; c < 4; c++ {
				tmp[o+c] = uint8(sum[c] / count)
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			var count int
			for dy := -radius; dy <= radius; dy++ {
				sy := y + dy
				if sy < 0 || sy >= h {
					continue
				}
				o := sy*img.Stride + x*4
				sum[0] += int(tmp[o])
				sum[1] += int(tmp[o+1])
				sum[2] += int(tmp[o+2])
				sum[3] += int(tmp[o+3])
				count++
			}
			o := y*img.Stride + x*4
			for c := 0; c < 4; c++ {
				img.Pix[o+c] = uint8(sum[c] / count)
			}
		}
	}
}
