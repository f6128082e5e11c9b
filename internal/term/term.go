// Package term draws the blob into a terminal. Frames are rasterised off
// screen and sampled into half-block cells, two pixels per cell.
package term

import (
	"context"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/iburimskiy/blobby/internal/blob"
	"github.com/iburimskiy/blobby/internal/raster"
)

const upperHalf = '▀'

type Runner struct {
	screen   tcell.Screen
	renderer *blob.Renderer
	surface  *raster.Surface
	interval time.Duration
	logger   *log.Logger
}

// New returns a runner drawing r through surface at fps frames per second.
// The renderer is initialized for the surface size if it is not running yet.
func New(screen tcell.Screen, r *blob.Renderer, surface *raster.Surface, fps float64, logger *log.Logger) *Runner {
	if !r.Running() {
		b := surface.Bounds()
		r.Initialize(float64(b.Dx()), float64(b.Dy()))
	}
	return &Runner{
		screen:   screen,
		renderer: r,
		surface:  surface,
		interval: frameInterval(fps),
		logger:   logger,
	}
}

// Run draws until ctx is done or the user presses Esc, Ctrl-C or q. It
// returns ctx's error in the first case and nil in the second. The screen
// must already be initialized; Run finalizes it on return.
func (t *Runner) Run(ctx context.Context) error {
	defer t.screen.Fini()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	cols, rows := t.screen.Size()
	t.logger.Info("drawing in terminal", "cols", cols, "rows", rows, "interval", t.interval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !t.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if err := t.draw(); err != nil {
				return err
			}
		}
	}
}

// handle reacts to one event and reports whether to keep running.
func (t *Runner) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// draw renders one frame and copies it to the screen.
func (t *Runner) draw() error {
	if err := t.renderer.RenderFrame(t.surface); err != nil {
		return errors.Wrap(err, "term: render")
	}
	blit(t.screen, t.surface.Image())
	t.screen.Show()
	return nil
}

// blit fits img into the screen keeping its aspect ratio. Each cell shows the
// upper pixel as foreground and the lower one as background; cells outside
// the image take the color of the image corner.
func blit(screen tcell.Screen, img *image.RGBA) {
	cols, rows := screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	b := img.Bounds()

	// cell grid in pixels: cols wide, 2*rows high
	scale := math.Min(float64(cols)/float64(b.Dx()), float64(2*rows)/float64(b.Dy()))
	w, h := float64(b.Dx())*scale, float64(b.Dy())*scale
	left, top := (float64(cols)-w)/2, (float64(2*rows)-h)/2
	fill := toTcell(img.RGBAAt(b.Min.X, b.Min.Y))

	sample := func(px, py int) tcell.Color {
		x := (float64(px) + 0.5 - left) / scale
		y := (float64(py) + 0.5 - top) / scale
		if x < 0 || y < 0 || x >= float64(b.Dx()) || y >= float64(b.Dy()) {
			return fill
		}
		return toTcell(img.RGBAAt(b.Min.X+int(x), b.Min.Y+int(y)))
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			style := tcell.StyleDefault.Foreground(sample(col, 2*row)).Background(sample(col, 2*row+1))
			screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return time.Second / 60
	}
	return time.Duration(float64(time.Second) / fps)
}
