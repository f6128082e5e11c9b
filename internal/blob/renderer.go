// Package blob draws a closed polygon whose radius is perturbed by smoothed
// noise. A Renderer advances through the noise field one frame at a time and
// hands each outline to a Surface as a single filled shape.
package blob

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
)

// HuePeriod is the number of frames in one full hue cycle.
const HuePeriod = 360

// ErrNotInitialized is returned when a frame is requested before Initialize.
var ErrNotInitialized = errors.New("blob: renderer not initialized")

// Options fixes the look and motion of a blob.
type Options struct {
	Vertices      int
	NoiseScale    float64
	InitialOffset float64

	XSpeed float64
	YSpeed float64
	ZSpeed float64

	Saturation float64
	Brightness float64

	FrameRate  float64
	Background color.Color
	Shadow     Shadow
}

// State is the animation state: the current position in the noise field and
// the number of frames produced so far.
type State struct {
	XOff, YOff, ZOff float64
	Frame            int
}

// Hue is the fill hue of the next frame.
func (s State) Hue() float64 {
	return float64(s.Frame % HuePeriod)
}

// Frame is one computed animation frame.
type Frame struct {
	Index      int
	Hue        float64
	Fill       HSB
	Center     Point
	Points     []Point
	Background color.Color
	Shadow     Shadow
}

// Renderer owns the animation state of one blob.
type Renderer struct {
	opts  Options
	noise Noise

	state     State
	radius    float64
	amplitude float64
	center    Point
	running   bool
}

// New returns an uninitialized renderer sampling the given noise field.
func New(opts Options, noise Noise) *Renderer {
	return &Renderer{opts: opts, noise: noise}
}

// Initialize sizes the blob for a surface of the given dimensions and resets
// the noise offsets. The base radius is a quarter of the smaller side and the
// amplitude half of that.
func (r *Renderer) Initialize(width, height float64) {
	r.radius = math.Min(width, height) / 4
	r.amplitude = r.radius / 2
	r.center = Point{X: width / 2, Y: height / 2}
	r.state = State{
		XOff: r.opts.InitialOffset,
		YOff: r.opts.InitialOffset,
		ZOff: r.opts.InitialOffset,
	}
	r.running = true
}

// Running reports whether Initialize has been called.
func (r *Renderer) Running() bool { return r.running }

// State returns a copy of the animation state.
func (r *Renderer) State() State { return r.state }

// Options returns the current options, including speeds set by SetSpeeds.
func (r *Renderer) Options() Options { return r.opts }

// Radius is the unperturbed blob radius.
func (r *Renderer) Radius() float64 { return r.radius }

// Amplitude is the largest radial displacement noise can add.
func (r *Renderer) Amplitude() float64 { return r.amplitude }

// SetSpeeds changes how far the offsets move per frame.
func (r *Renderer) SetSpeeds(x, y, z float64) {
	r.opts.XSpeed, r.opts.YSpeed, r.opts.ZSpeed = x, y, z
}

// NextFrame computes the current frame and advances the state.
func (r *Renderer) NextFrame() (Frame, error) {
	if !r.running {
		return Frame{}, ErrNotInitialized
	}

	s := r.state
	f := Frame{
		Index:      s.Frame,
		Hue:        s.Hue(),
		Center:     r.center,
		Background: r.opts.Background,
		Shadow:     r.opts.Shadow,
		Points: Generate(make([]Point, 0, r.opts.Vertices), r.opts.Vertices,
			r.radius, r.amplitude, r.opts.NoiseScale,
			Offsets{X: s.XOff, Y: s.YOff, Z: s.ZOff}, r.noise),
	}
	f.Fill = HSB{H: f.Hue, S: r.opts.Saturation, B: r.opts.Brightness}

	r.state.ZOff += r.opts.ZSpeed
	r.state.XOff += r.opts.XSpeed
	r.state.YOff += r.opts.YSpeed
	r.state.Frame++
	return f, nil
}

// RenderFrame computes the next frame and paints it onto s.
func (r *Renderer) RenderFrame(s Surface) error {
	f, err := r.NextFrame()
	if err != nil {
		return err
	}
	Paint(s, f)
	return nil
}

// Paint issues the draw calls for f: background, a translation to the
// center, and one filled stroke-less shape.
func Paint(s Surface, f Frame) {
	if f.Background != nil {
		s.Background(f.Background)
	}
	s.Translate(f.Center.X, f.Center.Y)
	s.Shadow(f.Shadow)
	s.NoStroke()
	s.Fill(f.Fill)

	s.BeginShape()
	for _, p := range f.Points {
		s.Vertex(p.X, p.Y)
	}
	s.EndShape()
}
