package blob

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSB is a fill color in hue/saturation/brightness. H is in degrees and wraps
// at 360; S and B are percentages and clamp to [0, 100].
type HSB struct {
	H, S, B float64
}

// RGBA implements color.Color.
func (c HSB) RGBA() (r, g, b, a uint32) {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsv(h, clamp01(c.S/100), clamp01(c.B/100)).Clamped().RGBA()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
