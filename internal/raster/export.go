package raster

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/iburimskiy/blobby/internal/blob"
)

// WritePNG renders the renderer's next frame onto s and encodes it to w.
func WritePNG(w io.Writer, r *blob.Renderer, s *Surface) error {
	if err := r.RenderFrame(s); err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, s.Image()), "raster: encode png")
}

// WriteGIF renders frames consecutive frames into a looping GIF.
func WriteGIF(w io.Writer, r *blob.Renderer, s *Surface, frames int) error {
	if frames < 1 {
		return errors.Errorf("raster: frame count %d must be positive", frames)
	}

	delay := frameDelay(r.Options().FrameRate)
	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, frames),
		Delay: make([]int, 0, frames),
	}
	b := s.Bounds()
	for i := 0; i < frames; i++ {
		if err := r.RenderFrame(s); err != nil {
			return err
		}
		p := image.NewPaletted(b, palette.Plan9)
		draw.Draw(p, b, s.Image(), b.Min, draw.Src)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
	}
	return errors.Wrap(gif.EncodeAll(w, anim), "raster: encode gif")
}

// frameDelay converts a frame rate to a GIF delay in hundredths of a second.
func frameDelay(fps float64) int {
	if fps <= 0 {
		return 2
	}
	d := int(math.Round(100 / fps))
	if d < 1 {
		d = 1
	}
	return d
}
