package blob

import (
	"image/color"
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/iburimskiy/blobby/internal/noise"
)

const eps = 1e-9

type call struct {
	name string
	x, y float64
}

// recorder is a Surface that remembers every call.
type recorder struct {
	calls  []call
	fill   color.Color
	shadow Shadow
	shapes [][]Point
	open   []Point
}

func (r *recorder) Background(color.Color) { r.calls = append(r.calls, call{name: "background"}) }
func (r *recorder) Translate(x, y float64) {
	r.calls = append(r.calls, call{name: "translate", x: x, y: y})
}
func (r *recorder) Shadow(s Shadow) {
	r.shadow = s
	r.calls = append(r.calls, call{name: "shadow"})
}
func (r *recorder) NoStroke() { r.calls = append(r.calls, call{name: "nostroke"}) }
func (r *recorder) Fill(c color.Color) {
	r.fill = c
	r.calls = append(r.calls, call{name: "fill"})
}
func (r *recorder) BeginShape() {
	r.open = nil
	r.calls = append(r.calls, call{name: "begin"})
}
func (r *recorder) Vertex(x, y float64) { r.open = append(r.open, Point{X: x, Y: y}) }
func (r *recorder) EndShape() {
	r.shapes = append(r.shapes, r.open)
	r.calls = append(r.calls, call{name: "end"})
}

func constant(v float64) Noise {
	return NoiseFunc(func(x, y, z float64) float64 { return v })
}

func testOptions() Options {
	return Options{
		Vertices:      200,
		NoiseScale:    100,
		InitialOffset: 1000,
		ZSpeed:        0.007,
		Saturation:    50,
		Brightness:    255,
		FrameRate:     60,
		Background:    color.RGBA{0xf5, 0xf7, 0xf3, 0xff},
		Shadow:        Shadow{OffsetY: 20, Blur: 20, Color: color.Black},
	}
}

func TestGenerateFixedNoise(t *testing.T) {
	pts := Generate(nil, 4, 10, 5, 100, Offsets{}, constant(0.5))
	if len(pts) != 4 {
		t.Fatalf("len = %d, want 4", len(pts))
	}

	want := []Point{{0, 12.5}, {12.5, 0}, {0, -12.5}, {-12.5, 0}}
	for i, p := range pts {
		if math.Abs(p.X-want[i].X) > eps || math.Abs(p.Y-want[i].Y) > eps {
			t.Errorf("point %d = %+v, want %+v", i, p, want[i])
		}
		if r := math.Hypot(p.X, p.Y); math.Abs(r-12.5) > eps {
			t.Errorf("point %d radius = %v, want 12.5", i, r)
		}
	}
}

func TestGenerateSamplesScaledCoordinates(t *testing.T) {
	type sample struct{ x, y, z float64 }
	var got []sample
	rec := NoiseFunc(func(x, y, z float64) float64 {
		got = append(got, sample{x, y, z})
		return 0
	})

	Generate(nil, 2, 10, 5, 100, Offsets{X: 1000, Y: 2000, Z: 3}, rec)

	want := []sample{
		{1000.0 / 100, 2010.0 / 100, 3},
		{1000.0 / 100, 1990.0 / 100, 3},
	}
	if len(got) != len(want) {
		t.Fatalf("sampled %d times, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i].x-want[i].x) > eps || math.Abs(got[i].y-want[i].y) > eps || got[i].z != want[i].z {
			t.Errorf("sample %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGenerateAppends(t *testing.T) {
	dst := []Point{{X: 1, Y: 1}}
	pts := Generate(dst, 3, 10, 5, 100, Offsets{}, constant(0))
	if len(pts) != 4 || pts[0] != (Point{X: 1, Y: 1}) {
		t.Fatalf("Generate did not append to dst: %+v", pts)
	}
}

func TestVertexCountAcrossCounts(t *testing.T) {
	for _, n := range []int{3, 7, 199, 200, 201, 1000} {
		pts := Generate(nil, n, 75, 37.5, 100, Offsets{X: 1000, Y: 1000, Z: 1000}, constant(1))
		if len(pts) != n {
			t.Errorf("n=%d: got %d points", n, len(pts))
		}
	}
}

func TestRenderFrameBeforeInitialize(t *testing.T) {
	r := New(testOptions(), constant(0.5))
	if r.Running() {
		t.Fatal("new renderer should not be running")
	}
	err := r.RenderFrame(&recorder{})
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("RenderFrame() error = %v, want ErrNotInitialized", err)
	}
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantRadius    float64
	}{
		{"square", 300, 300, 75},
		{"wide", 800, 400, 100},
		{"tall", 200, 600, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(testOptions(), constant(0))
			r.Initialize(tt.width, tt.height)

			if r.Radius() != tt.wantRadius {
				t.Errorf("radius = %v, want %v", r.Radius(), tt.wantRadius)
			}
			if r.Amplitude() != tt.wantRadius/2 {
				t.Errorf("amplitude = %v, want %v", r.Amplitude(), tt.wantRadius/2)
			}
			s := r.State()
			if s.XOff != 1000 || s.YOff != 1000 || s.ZOff != 1000 || s.Frame != 0 {
				t.Errorf("state = %+v", s)
			}
		})
	}
}

func TestFramesStayWithinAmplitude(t *testing.T) {
	r := New(testOptions(), noise.New(42))
	r.Initialize(300, 300)

	lo, hi := r.Radius()-r.Amplitude(), r.Radius()+r.Amplitude()
	for i := 0; i < 120; i++ {
		f, err := r.NextFrame()
		if err != nil {
			t.Fatal(err)
		}
		if len(f.Points) != 200 {
			t.Fatalf("frame %d: %d points", i, len(f.Points))
		}
		for j, p := range f.Points {
			d := math.Hypot(p.X, p.Y)
			if d < lo-eps || d > hi+eps {
				t.Fatalf("frame %d point %d: distance %v outside [%v, %v]", i, j, d, lo, hi)
			}
		}
	}
}

func TestHueCycles(t *testing.T) {
	r := New(testOptions(), constant(0))
	r.Initialize(300, 300)

	for n := 0; n < 1000; n++ {
		f, err := r.NextFrame()
		if err != nil {
			t.Fatal(err)
		}
		if f.Index != n {
			t.Fatalf("frame index = %d, want %d", f.Index, n)
		}
		if want := float64(n % 360); f.Hue != want || f.Fill.H != want {
			t.Fatalf("frame %d: hue = %v, fill hue = %v, want %v", n, f.Hue, f.Fill.H, want)
		}
	}
}

func TestOffsetsAdvance(t *testing.T) {
	opts := testOptions()
	opts.XSpeed = 0.25
	opts.YSpeed = 0.5
	r := New(opts, constant(0))
	r.Initialize(300, 300)

	const n = 500
	for i := 0; i < n; i++ {
		if _, err := r.NextFrame(); err != nil {
			t.Fatal(err)
		}
	}

	s := r.State()
	if want := 1000 + n*0.007; math.Abs(s.ZOff-want) > 1e-9 {
		t.Errorf("z offset = %v, want %v", s.ZOff, want)
	}
	if want := 1000 + n*0.25; math.Abs(s.XOff-want) > 1e-9 {
		t.Errorf("x offset = %v, want %v", s.XOff, want)
	}
	if want := 1000 + n*0.5; math.Abs(s.YOff-want) > 1e-9 {
		t.Errorf("y offset = %v, want %v", s.YOff, want)
	}
	if s.Frame != n {
		t.Errorf("frame = %d, want %d", s.Frame, n)
	}
}

func TestDefaultSpeedsOnlyMoveZ(t *testing.T) {
	r := New(testOptions(), constant(0))
	r.Initialize(300, 300)
	for i := 0; i < 10; i++ {
		r.NextFrame()
	}
	s := r.State()
	if s.XOff != 1000 || s.YOff != 1000 {
		t.Errorf("x/y offsets moved: %+v", s)
	}
	if s.ZOff <= 1000 {
		t.Errorf("z offset did not advance: %v", s.ZOff)
	}
}

func TestSetSpeeds(t *testing.T) {
	r := New(testOptions(), constant(0))
	r.Initialize(300, 300)
	r.SetSpeeds(1, 2, 3)
	r.NextFrame()

	s := r.State()
	if s.XOff != 1001 || s.YOff != 1002 || s.ZOff != 1003 {
		t.Errorf("state after SetSpeeds = %+v", s)
	}
}

func TestDeterministic(t *testing.T) {
	a := New(testOptions(), noise.New(9))
	b := New(testOptions(), noise.New(9))
	a.Initialize(300, 300)
	b.Initialize(300, 300)

	for i := 0; i < 5; i++ {
		fa, _ := a.NextFrame()
		fb, _ := b.NextFrame()
		for j := range fa.Points {
			if fa.Points[j] != fb.Points[j] {
				t.Fatalf("frame %d point %d differs: %+v vs %+v", i, j, fa.Points[j], fb.Points[j])
			}
		}
	}
}

func TestFramesChangeOverTime(t *testing.T) {
	r := New(testOptions(), noise.New(3))
	r.Initialize(300, 300)
	prev, _ := r.NextFrame()
	for i := 0; i < 10; i++ {
		f, _ := r.NextFrame()
		same := true
		for j := range f.Points {
			if f.Points[j] != prev.Points[j] {
				same = false
				break
			}
		}
		if same {
			t.Fatalf("frame %d identical to previous", f.Index)
		}
		prev = f
	}
}

func TestRenderFrameDrawCalls(t *testing.T) {
	r := New(testOptions(), constant(0.5))
	r.Initialize(300, 200)

	rec := &recorder{}
	if err := r.RenderFrame(rec); err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, c := range rec.calls {
		names = append(names, c.name)
	}
	want := []string{"background", "translate", "shadow", "nostroke", "fill", "begin", "end"}
	if len(names) != len(want) {
		t.Fatalf("calls = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("calls = %v, want %v", names, want)
		}
	}

	if tr := rec.calls[1]; tr.x != 150 || tr.y != 100 {
		t.Errorf("translate = (%v, %v), want (150, 100)", tr.x, tr.y)
	}
	if len(rec.shapes) != 1 || len(rec.shapes[0]) != 200 {
		t.Fatalf("shapes = %d, vertices = %d", len(rec.shapes), len(rec.shapes[0]))
	}
	if got, ok := rec.fill.(HSB); !ok || got != (HSB{H: 0, S: 50, B: 255}) {
		t.Errorf("fill = %#v", rec.fill)
	}
	if rec.shadow.OffsetY != 20 || rec.shadow.Blur != 20 {
		t.Errorf("shadow = %+v", rec.shadow)
	}
}
