package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/matzehuels/percolator/pkg/errors"
	"github.com/matzehuels/percolator/pkg/render"
)

// MaxScale bounds [WithScale] so a large lattice cannot request a
// multi-gigabyte image.
const MaxScale = 16

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	padding  int
	padColor color.RGBA
	scale    int
}

// WithPadding surrounds the image with a border of p pixels in color c.
func WithPadding(p int, c color.RGBA) PNGOption {
	return func(r *pngRenderer) { r.padding, r.padColor = p, c }
}

// WithScale enlarges the image by an integer factor (default 1).
func WithScale(n int) PNGOption {
	return func(r *pngRenderer) { r.scale = n }
}

// RenderPNG encodes buf as PNG.
func RenderPNG(buf *render.Buffer, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.padding < 0 || r.padding > render.MaxPadding {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "padding must be in [0, %d], got %d", render.MaxPadding, r.padding)
	}
	if r.scale < 1 || r.scale > MaxScale {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scale must be in [1, %d], got %d", MaxScale, r.scale)
	}
	w, h := buf.Width+2*r.padding, buf.Height+2*r.padding
	if w == 0 || h == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"image is %dx%d: increase the padding or the point diameter", w, h)
	}
	if !render.FitsPixels(w*r.scale, h*r.scale) {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%dx%d image at scale %d exceeds %d pixels", w, h, r.scale, render.MaxPixels)
	}

	img := Image(buf, r.padding, r.padColor)
	if r.scale > 1 {
		b := img.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*r.scale, b.Dy()*r.scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
		img = scaled
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

// Image returns buf as an image with a border of padding pixels in color c.
func Image(buf *render.Buffer, padding int, c color.RGBA) *image.RGBA {
	src := buf.Image()
	if padding <= 0 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, buf.Width+2*padding, buf.Height+2*padding))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	draw.Draw(dst, src.Bounds().Add(image.Pt(padding, padding)), src, image.Point{}, draw.Src)
	return dst
}
