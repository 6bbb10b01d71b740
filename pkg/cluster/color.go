package cluster

import (
	"image/color"
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorSource hands out one display color per discovered cluster.
type ColorSource interface {
	Next() color.RGBA
}

// RandomColors returns a ColorSource drawing bright HSV colors from rng.
//
// Colors are independent draws from a continuous space, so two clusters
// sharing a color is unlikely but possible. Nothing checks for collisions.
func RandomColors(rng *rand.Rand) ColorSource {
	return &randomColors{rng: rng}
}

type randomColors struct {
	rng *rand.Rand
}

func (r *randomColors) Next() color.RGBA {
	h := r.rng.Float64() * 360
	s := 0.5 + r.rng.Float64()*0.5
	v := 0.6 + r.rng.Float64()*0.4
	cr, cg, cb := colorful.Hsv(h, s, v).RGB255()
	return color.RGBA{R: cr, G: cg, B: cb, A: 0xff}
}

// FixedColor returns a ColorSource that gives every cluster the same color.
func FixedColor(c color.RGBA) ColorSource {
	return fixedColor(c)
}

type fixedColor color.RGBA

func (f fixedColor) Next() color.RGBA { return color.RGBA(f) }
