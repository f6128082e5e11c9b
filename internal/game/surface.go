package game

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/blobby/internal/blob"
)

// shadowSamples is the number of offset copies that approximate the blur.
const shadowSamples = 9

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// whiteSource is the 1x1 texture every filled triangle samples from.
func whiteSource() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// screenSurface paints blob shapes onto an ebiten image.
type screenSurface struct {
	dst    *ebiten.Image
	ox, oy float32
	fill   color.Color
	shadow blob.Shadow

	path  vector.Path
	count int
	vs    []ebiten.Vertex
	is    []uint16
}

var _ blob.Surface = (*screenSurface)(nil)

func (s *screenSurface) Background(c color.Color) { s.dst.Fill(c) }

func (s *screenSurface) Translate(x, y float64) { s.ox, s.oy = float32(x), float32(y) }

func (s *screenSurface) Shadow(sh blob.Shadow) { s.shadow = sh }

func (s *screenSurface) NoStroke() {}

func (s *screenSurface) Fill(c color.Color) { s.fill = c }

func (s *screenSurface) BeginShape() {
	s.path = vector.Path{}
	s.count = 0
}

func (s *screenSurface) Vertex(x, y float64) {
	px, py := float32(x)+s.ox, float32(y)+s.oy
	if s.count == 0 {
		s.path.MoveTo(px, py)
	} else {
		s.path.LineTo(px, py)
	}
	s.count++
}

func (s *screenSurface) EndShape() {
	if s.count < 3 {
		return
	}
	s.path.Close()

	if s.shadow.Visible() {
		s.drawShadow()
	}
	s.drawPath(0, 0, s.fill, 1)
}

// drawShadow spreads translucent copies over a disc of the blur radius. Each
// copy's alpha is chosen so that full overlap stays just under the shadow's
// alpha.
func (s *screenSurface) drawShadow() {
	_, _, _, a := s.shadow.Color.RGBA()
	total := 0.98 * float64(a) / 0xffff
	each := float32(1 - math.Pow(1-total, 1.0/shadowSamples))

	spread := s.shadow.Blur / 2
	dx, dy := float32(s.shadow.OffsetX), float32(s.shadow.OffsetY)
	s.drawPath(dx, dy, s.shadow.Color, each)
	for i := 1; i < shadowSamples; i++ {
		angle := 2 * math.Pi * float64(i-1) / float64(shadowSamples-1)
		sin, cos := math.Sincos(angle)
		s.drawPath(dx+float32(spread*cos), dy+float32(spread*sin), s.shadow.Color, each)
	}
}

// drawPath fills the current path shifted by (dx, dy) with c at the given
// opacity.
func (s *screenSurface) drawPath(dx, dy float32, c color.Color, alpha float32) {
	s.vs, s.is = s.path.AppendVerticesAndIndicesForFilling(s.vs[:0], s.is[:0])

	r, g, b, a := premultiplied(c)
	for i := range s.vs {
		s.vs[i].DstX += dx
		s.vs[i].DstY += dy
		s.vs[i].SrcX = 1
		s.vs[i].SrcY = 1
		s.vs[i].ColorR = r * alpha
		s.vs[i].ColorG = g * alpha
		s.vs[i].ColorB = b * alpha
		s.vs[i].ColorA = a * alpha
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.FillRule = ebiten.NonZero
	op.AntiAlias = true
	s.dst.DrawTriangles(s.vs, s.is, whiteSource(), op)
}
