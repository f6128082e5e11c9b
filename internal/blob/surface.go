package blob

import "image/color"

// Surface is the drawing capability a Renderer paints onto. Calls arrive in
// the order Background, Translate, Shadow, NoStroke, Fill, BeginShape,
// Vertex..., EndShape. EndShape closes the path implicitly.
type Surface interface {
	Background(c color.Color)
	// Translate sets the drawing origin. It does not accumulate.
	Translate(x, y float64)
	Shadow(s Shadow)
	NoStroke()
	Fill(c color.Color)
	BeginShape()
	Vertex(x, y float64)
	EndShape()
}

// Noise is a deterministic smoothed pseudo-random field of three coordinates.
// Implementations return values in [0, 1].
type Noise interface {
	Noise3(x, y, z float64) float64
}

// NoiseFunc adapts a plain function to Noise.
type NoiseFunc func(x, y, z float64) float64

func (f NoiseFunc) Noise3(x, y, z float64) float64 { return f(x, y, z) }

// Shadow is a drop shadow cast by the filled shape.
type Shadow struct {
	OffsetX float64
	OffsetY float64
	Blur    float64
	Color   color.Color
}

// Visible reports whether the shadow would draw anything.
func (s Shadow) Visible() bool {
	if s.Color == nil {
		return false
	}
	_, _, _, a := s.Color.RGBA()
	return a > 0
}
