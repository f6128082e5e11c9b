// Package raster implements a headless blob.Surface over an *image.RGBA and
// exports rendered frames as PNG or animated GIF.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/blobby/internal/blob"
)

// Surface rasterises blob shapes into an RGBA image.
type Surface struct {
	img    *image.RGBA
	ox, oy float64
	fill   color.Color
	shadow blob.Shadow
	path   []blob.Point
	open   bool
}

var _ blob.Surface = (*Surface)(nil)

// New returns a transparent width x height surface.
func New(width, height int) *Surface {
	return &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		fill: color.White,
	}
}

// Image returns the backing image. It is reused across frames.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

func (s *Surface) Background(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *Surface) Translate(x, y float64) { s.ox, s.oy = x, y }

func (s *Surface) Shadow(sh blob.Shadow) { s.shadow = sh }

// NoStroke is a no-op; the raster surface never strokes.
func (s *Surface) NoStroke() {}

func (s *Surface) Fill(c color.Color) { s.fill = c }

func (s *Surface) BeginShape() {
	s.path = s.path[:0]
	s.open = true
}

func (s *Surface) Vertex(x, y float64) {
	if s.open {
		s.path = append(s.path, blob.Point{X: x + s.ox, Y: y + s.oy})
	}
}

// EndShape closes the current path and composites its shadow and fill.
func (s *Surface) EndShape() {
	s.open = false
	if len(s.path) < 3 {
		return
	}

	b := s.img.Bounds()
	if s.shadow.Visible() {
		mask := blurMask(s.mask(s.shadow.OffsetX, s.shadow.OffsetY), s.shadow.Blur/2)
		draw.DrawMask(s.img, b, image.NewUniform(s.shadow.Color), image.Point{}, mask, image.Point{}, draw.Over)
	}
	draw.DrawMask(s.img, b, image.NewUniform(s.fill), image.Point{}, s.mask(0, 0), image.Point{}, draw.Over)
}

// mask rasterises the current path shifted by (dx, dy) into coverage values.
func (s *Surface) mask(dx, dy float64) *image.Alpha {
	b := s.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Src

	first := s.path[0]
	z.MoveTo(float32(first.X+dx), float32(first.Y+dy))
	for _, p := range s.path[1:] {
		z.LineTo(float32(p.X+dx), float32(p.Y+dy))
	}
	z.ClosePath()

	a := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	z.Draw(a, a.Bounds(), image.Opaque, image.Point{})
	return a
}

// blurMask applies a Gaussian blur of the given sigma to a coverage mask.
// The result carries the blurred coverage in its alpha channel.
func blurMask(a *image.Alpha, sigma float64) image.Image {
	if sigma <= 0 {
		return a
	}
	return imaging.Blur(a, sigma)
}
