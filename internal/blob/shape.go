package blob

import "math"

// Point is a vertex relative to the blob center.
type Point struct {
	X, Y float64
}

// Offsets locates a frame inside the noise field.
type Offsets struct {
	X, Y, Z float64
}

// Generate appends n noise-displaced points around a circle of the given
// radius to dst and returns the extended slice. Point i sits at angle
// i*2π/n measured from the +Y axis towards +X, pushed outward by
// noise*amplitude. scale divides the sampled coordinates; larger values give
// softer outlines.
func Generate(dst []Point, n int, radius, amplitude, scale float64, off Offsets, noise Noise) []Point {
	step := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		sin, cos := math.Sincos(float64(i) * step)
		x := radius * sin
		y := radius * cos

		v := noise.Noise3((off.X+x)/scale, (off.Y+y)/scale, off.Z)
		d := v * amplitude
		dst = append(dst, Point{X: x + d*sin, Y: y + d*cos})
	}
	return dst
}
