// Package noise provides a seeded, smoothed 3D value-noise field.
//
// The field is built from a table of uniform random values laid out on an
// integer lattice. Samples are blended with a cosine ease between lattice
// corners, and several octaves of doubling frequency are summed with a
// geometric amplitude falloff. With the default four octaves and falloff of
// one half, every sample lies in [0, 1).
package noise

import (
	"math"
	"math/rand"
)

const (
	tableBits = 12
	tableSize = 1 << tableBits
	tableMask = tableSize - 1

	// strides of the y and z axes through the table
	yShift  = 4
	yStride = 1 << yShift
	zShift  = 8
	zStride = 1 << zShift

	DefaultOctaves = 4
	DefaultFalloff = 0.5
)

// Field is a deterministic noise field. It is safe for concurrent reads.
type Field struct {
	table   [tableSize]float64
	octaves int
	falloff float64
}

// Option configures a Field.
type Option func(*Field)

// WithOctaves sets the number of summed octaves. Values below one are ignored.
func WithOctaves(n int) Option {
	return func(f *Field) {
		if n > 0 {
			f.octaves = n
		}
	}
}

// WithFalloff sets the amplitude multiplier applied per octave. Values outside
// (0, 1) are ignored.
func WithFalloff(v float64) Option {
	return func(f *Field) {
		if v > 0 && v < 1 {
			f.falloff = v
		}
	}
}

// New builds a field from seed.
func New(seed int64, opts ...Option) *Field {
	f := &Field{octaves: DefaultOctaves, falloff: DefaultFalloff}
	for _, opt := range opts {
		opt(f)
	}

	rng := rand.New(rand.NewSource(seed))
	for i := range f.table {
		f.table[i] = rng.Float64()
	}
	return f
}

// Max is the exclusive upper bound of Noise3.
func (f *Field) Max() float64 {
	return Bound(f.octaves, f.falloff)
}

// Bound is the exclusive upper bound of a field with the given octaves and
// falloff: the sum of falloff^k for k = 1..octaves.
func Bound(octaves int, falloff float64) float64 {
	return falloff * (1 - math.Pow(falloff, float64(octaves))) / (1 - falloff)
}

// Noise3 samples the field. Negative coordinates mirror the positive side.
func (f *Field) Noise3(x, y, z float64) float64 {
	x, y, z = math.Abs(x), math.Abs(y), math.Abs(z)

	xi, yi, zi := int(x), int(y), int(z)
	xf, yf, zf := x-float64(xi), y-float64(yi), z-float64(zi)

	var sum float64
	amp := f.falloff
	for o := 0; o < f.octaves; o++ {
		base := xi + yi<<yShift + zi<<zShift
		ex, ey, ez := ease(xf), ease(yf), ease(zf)

		near := f.plane(base, ex, ey)
		far := f.plane(base+zStride, ex, ey)
		sum += lerp(near, far, ez) * amp

		amp *= f.falloff
		xi, xf = double(xi, xf)
		yi, yf = double(yi, yf)
		zi, zf = double(zi, zf)
	}
	return sum
}

// plane blends the four lattice values of one z layer.
func (f *Field) plane(base int, ex, ey float64) float64 {
	a := lerp(f.at(base), f.at(base+1), ex)
	b := lerp(f.at(base+yStride), f.at(base+yStride+1), ex)
	return lerp(a, b, ey)
}

func (f *Field) at(i int) float64 { return f.table[i&tableMask] }

// ease maps [0, 1) onto a cosine S-curve.
func ease(t float64) float64 { return 0.5 * (1 - math.Cos(t*math.Pi)) }

func lerp(a, b, t float64) float64 { return a + t*(b-a) }

// double moves one lattice coordinate to the next octave.
func double(i int, frac float64) (int, float64) {
	i <<= 1
	frac *= 2
	if frac >= 1 {
		i++
		frac--
	}
	return i, frac
}
