package render

import (
	"image"
	"image/color"
	"math"
)

// Buffer is a row-major RGB pixel buffer with stride 3·Width.
type Buffer struct {
	Width, Height int
	Pix           []uint8
}

func newBuffer(w, h int, bg color.RGBA) *Buffer {
	b := &Buffer{Width: w, Height: h, Pix: make([]uint8, 3*w*h)}
	for i := 0; i < len(b.Pix); i += 3 {
		b.Pix[i], b.Pix[i+1], b.Pix[i+2] = bg.R, bg.G, bg.B
	}
	return b
}

// At returns the pixel at (x, y) as an opaque color. Out-of-range
// coordinates return the zero color.
func (b *Buffer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.RGBA{}
	}
	i := 3 * (y*b.Width + x)
	return color.RGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: 0xff}
}

// blend composites c over the pixel at (x, y) with the given coverage.
// Pixels outside the buffer are ignored.
func (b *Buffer) blend(x, y int, c color.RGBA, coverage float64) {
	if coverage <= 0 || x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := 3 * (y*b.Width + x)
	if coverage >= 1 {
		b.Pix[i], b.Pix[i+1], b.Pix[i+2] = c.R, c.G, c.B
		return
	}
	b.Pix[i] = mix(b.Pix[i], c.R, coverage)
	b.Pix[i+1] = mix(b.Pix[i+1], c.G, coverage)
	b.Pix[i+2] = mix(b.Pix[i+2], c.B, coverage)
}

func mix(dst, src uint8, c float64) uint8 {
	return uint8(math.Round(float64(dst)*(1-c) + float64(src)*c))
}

// fillRect paints the half-open rectangle [x0,x1)×[y0,y1), clipped.
func (b *Buffer) fillRect(x0, y0, x1, y1 int, c color.RGBA) {
	for y := max(y0, 0); y < min(y1, b.Height); y++ {
		for x := max(x0, 0); x < min(x1, b.Width); x++ {
			b.blend(x, y, c, 1)
		}
	}
}

// Image converts the buffer to an opaque *image.RGBA.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, j := 0, 0; i < len(b.Pix); i, j = i+3, j+4 {
		img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = b.Pix[i], b.Pix[i+1], b.Pix[i+2], 0xff
	}
	return img
}
