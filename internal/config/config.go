package config

import (
	"image/color"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/iburimskiy/blobby/internal/blob"
	"github.com/iburimskiy/blobby/internal/noise"
)

const (
	CanvasWidth  = 300
	CanvasHeight = 300
	CanvasTitle  = "blobsHome"
	FrameRate    = 60
	Background   = "#f5f7f3"

	// Blob parameters
	Vertices      = 200
	NoiseScale    = 100 // the higher the softer
	InitialOffset = 1000
	XSpeed        = 0
	YSpeed        = 0
	ZSpeed        = 0.007 // noise change per frame
	Saturation    = 50
	Brightness    = 255

	// Drop shadow
	ShadowOffsetX = 0
	ShadowOffsetY = 20
	ShadowBlur    = 20
	ShadowColor   = "#000000"

	// Audio drift
	AudioGain       = 4.0
	VisualRingSize  = 8192
	LevelWindow     = 2048
	SmoothingFactor = 0.6
)

type Config struct {
	Canvas Canvas `toml:"canvas"`
	Blob   Blob   `toml:"blob"`
	Shadow Shadow `toml:"shadow"`
	Noise  Noise  `toml:"noise"`
	Audio  Audio  `toml:"audio"`
}

type Canvas struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Title      string  `toml:"title"`
	FrameRate  float64 `toml:"frame_rate"`
	Background string  `toml:"background"`
}

type Blob struct {
	Vertices      int     `toml:"vertices"`
	NoiseScale    float64 `toml:"noise_scale"`
	InitialOffset float64 `toml:"initial_offset"`
	XSpeed        float64 `toml:"x_speed"`
	YSpeed        float64 `toml:"y_speed"`
	ZSpeed        float64 `toml:"z_speed"`
	Saturation    float64 `toml:"saturation"`
	Brightness    float64 `toml:"brightness"`
}

type Shadow struct {
	OffsetX float64 `toml:"offset_x"`
	OffsetY float64 `toml:"offset_y"`
	Blur    float64 `toml:"blur"`
	Color   string  `toml:"color"`
}

// Noise seeds the noise field. A zero seed is replaced by a clock-derived one
// by the caller.
type Noise struct {
	Seed    int64   `toml:"seed"`
	Octaves int     `toml:"octaves"`
	Falloff float64 `toml:"falloff"`
}

// Audio drives the z speed from the loudness of a looping track. An empty
// path disables it.
type Audio struct {
	Path string  `toml:"path"`
	Gain float64 `toml:"gain"`
}

// Default returns the stock blob configuration.
func Default() *Config {
	return &Config{
		Canvas: Canvas{
			Width:      CanvasWidth,
			Height:     CanvasHeight,
			Title:      CanvasTitle,
			FrameRate:  FrameRate,
			Background: Background,
		},
		Blob: Blob{
			Vertices:      Vertices,
			NoiseScale:    NoiseScale,
			InitialOffset: InitialOffset,
			XSpeed:        XSpeed,
			YSpeed:        YSpeed,
			ZSpeed:        ZSpeed,
			Saturation:    Saturation,
			Brightness:    Brightness,
		},
		Shadow: Shadow{
			OffsetX: ShadowOffsetX,
			OffsetY: ShadowOffsetY,
			Blur:    ShadowBlur,
			Color:   ShadowColor,
		},
		Noise: Noise{
			Octaves: noise.DefaultOctaves,
			Falloff: noise.DefaultFalloff,
		},
		Audio: Audio{Gain: AudioGain},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "config: decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, errors.Errorf("config: unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return errors.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	case c.Canvas.FrameRate <= 0:
		return errors.Errorf("frame_rate %v must be positive", c.Canvas.FrameRate)
	case c.Blob.Vertices < 3:
		return errors.Errorf("vertices %d must be at least 3", c.Blob.Vertices)
	case c.Blob.NoiseScale <= 0:
		return errors.Errorf("noise_scale %v must be positive", c.Blob.NoiseScale)
	case c.Shadow.Blur < 0:
		return errors.Errorf("shadow blur %v must not be negative", c.Shadow.Blur)
	case c.Noise.Octaves < 1 || c.Noise.Octaves > 16:
		return errors.Errorf("octaves %d must be in [1, 16]", c.Noise.Octaves)
	case c.Noise.Falloff <= 0 || c.Noise.Falloff >= 1:
		return errors.Errorf("falloff %v must be in (0, 1)", c.Noise.Falloff)
	case noise.Bound(c.Noise.Octaves, c.Noise.Falloff) > 1:
		// samples must stay in [0, 1] to keep the outline within the amplitude
		return errors.Errorf("octaves %d with falloff %v reach %.3g, above 1",
			c.Noise.Octaves, c.Noise.Falloff, noise.Bound(c.Noise.Octaves, c.Noise.Falloff))
	case c.Audio.Gain < 0:
		return errors.Errorf("audio gain %v must not be negative", c.Audio.Gain)
	}

	if _, err := ParseColor(c.Canvas.Background); err != nil {
		return errors.Wrap(err, "background")
	}
	if _, err := ParseColor(c.Shadow.Color); err != nil {
		return errors.Wrap(err, "shadow color")
	}
	return nil
}

// BlobOptions converts the configuration into renderer options.
func (c *Config) BlobOptions() (blob.Options, error) {
	bg, err := ParseColor(c.Canvas.Background)
	if err != nil {
		return blob.Options{}, errors.Wrap(err, "background")
	}
	shadow, err := ParseColor(c.Shadow.Color)
	if err != nil {
		return blob.Options{}, errors.Wrap(err, "shadow color")
	}

	return blob.Options{
		Vertices:      c.Blob.Vertices,
		NoiseScale:    c.Blob.NoiseScale,
		InitialOffset: c.Blob.InitialOffset,
		XSpeed:        c.Blob.XSpeed,
		YSpeed:        c.Blob.YSpeed,
		ZSpeed:        c.Blob.ZSpeed,
		Saturation:    c.Blob.Saturation,
		Brightness:    c.Blob.Brightness,
		FrameRate:     c.Canvas.FrameRate,
		Background:    bg,
		Shadow: blob.Shadow{
			OffsetX: c.Shadow.OffsetX,
			OffsetY: c.Shadow.OffsetY,
			Blur:    c.Shadow.Blur,
			Color:   shadow,
		},
	}, nil
}

// NoiseField builds the noise field described by c, using seed in place of
// the configured one.
func (c *Config) NoiseField(seed int64) *noise.Field {
	return noise.New(seed, noise.WithOctaves(c.Noise.Octaves), noise.WithFalloff(c.Noise.Falloff))
}

// ParseColor parses a "#rrggbb" or "#rgb" string into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "parse color %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
