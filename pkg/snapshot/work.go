package snapshot

import (
	"image"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/types"
)

const CHUNK_LENGTH int = 128

// plane maps image pixels to the complex plane the same way the fragment
// shader does: pixel centres, y inverted.
type plane struct {
	minRe, maxIm   float64
	reStep, imStep float64
}

type iterateWork struct {
	rect types.Recti
}

type drawWork struct {
	rect types.Recti
	*iterationBuffer
}

type iterationBuffer struct {
	data [CHUNK_LENGTH][CHUNK_LENGTH]uint // [y][x]
}

// chunks splits a w x h image into tiles of at most CHUNK_LENGTH per
// side, row by row.
func chunks(w, h int) []types.Recti {
	var out []types.Recti
	for y := 0; y < h; y += CHUNK_LENGTH {
		for x := 0; x < w; x += CHUNK_LENGTH {
			out = append(out, types.Recti{
				X: x,
				Y: y,
				W: min(CHUNK_LENGTH, w-x),
				H: min(CHUNK_LENGTH, h-y),
			})
		}
	}
	return out
}

// escapeTime counts z -> z*z + c steps from z = 0 until |z| > 2, up to
// limit.
func escapeTime(c complex128, limit uint) uint {
	var z complex128
	n := uint(0)
	for n < limit {
		if re, im := real(z), imag(z); re*re+im*im > 4 {
			break
		}
		z = z*z + c
		n += 1
	}
	return n
}

func iterateChunk(p *plane, iw *iterateWork, ib *iterationBuffer, maxIt uint) {
	data := &ib.data
	for yi := 0; yi < iw.rect.H; yi += 1 {
		im := p.maxIm - (float64(iw.rect.Y+yi)+0.5)*p.imStep
		for xi := 0; xi < iw.rect.W; xi += 1 {
			re := p.minRe + (float64(iw.rect.X+xi)+0.5)*p.reStep
			data[yi][xi] = escapeTime(complex(re, im), maxIt)
		}
	}
}

// drawChunk shades points that never escaped black and the rest by
// escape time in grey.
func drawChunk(img *image.RGBA, dw *drawWork, maxIt uint) {
	for yi := 0; yi < dw.rect.H; yi += 1 {
		for xi := 0; xi < dw.rect.W; xi += 1 {
			it := dw.data[yi][xi]
			var color byte
			if it < maxIt {
				color = byte(it * 255 / maxIt)
			}
			i := img.PixOffset(dw.rect.X+xi, dw.rect.Y+yi)
			img.Pix[i+0] = color
			img.Pix[i+1] = color
			img.Pix[i+2] = color
			img.Pix[i+3] = 255
		}
	}
}
