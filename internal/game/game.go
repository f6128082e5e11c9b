// Package game hosts the blob in an ebiten window: Update advances the
// animation once per tick and Draw paints the latest frame.
package game

import (
	"context"
	"math"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/iburimskiy/blobby/internal/blob"
	"github.com/iburimskiy/blobby/internal/config"
)

type Game struct {
	ctx      context.Context
	renderer *blob.Renderer
	logger   *log.Logger

	width, height int
	baseSpeed     [3]float64 // x, y, z

	frame   blob.Frame
	ready   bool
	surface *screenSurface
	drift   *drift
}

// New initializes r for the configured canvas and, when an audio path is
// set, starts the track that modulates the z speed.
func New(ctx context.Context, r *blob.Renderer, cfg *config.Config, logger *log.Logger) (*Game, error) {
	r.Initialize(float64(cfg.Canvas.Width), float64(cfg.Canvas.Height))
	opts := r.Options()

	g := &Game{
		ctx:       ctx,
		renderer:  r,
		logger:    logger,
		width:     cfg.Canvas.Width,
		height:    cfg.Canvas.Height,
		baseSpeed: [3]float64{opts.XSpeed, opts.YSpeed, opts.ZSpeed},
		surface:   &screenSurface{},
	}

	if cfg.Audio.Path != "" {
		d, err := openDrift(cfg.Audio.Path, cfg.Audio.Gain)
		if err != nil {
			return nil, err
		}
		g.drift = d
		logger.Info("audio drift enabled", "path", cfg.Audio.Path, "gain", cfg.Audio.Gain)
	}
	return g, nil
}

func (g *Game) Update() error {
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}

	if g.drift != nil {
		g.renderer.SetSpeeds(g.baseSpeed[0], g.baseSpeed[1], g.drift.speed(g.baseSpeed[2]))
	}

	f, err := g.renderer.NextFrame()
	if err != nil {
		return err
	}
	g.frame = f
	g.ready = true

	if f.Index%600 == 0 {
		s := g.renderer.State()
		g.logger.Debug("frame", "index", f.Index, "hue", f.Hue, "z", s.ZOff, "tps", ebiten.ActualTPS())
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.ready {
		if bg := g.renderer.Options().Background; bg != nil {
			screen.Fill(bg)
		}
		return
	}
	g.surface.dst = screen
	blob.Paint(g.surface, g.frame)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Close stops audio playback, if any.
func (g *Game) Close() error {
	if g.drift == nil {
		return nil
	}
	return g.drift.Close()
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, r *blob.Renderer, cfg *config.Config, logger *log.Logger) error {
	g, err := New(ctx, r, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			logger.Warn("close audio", "err", err)
		}
	}()

	ebiten.SetWindowSize(cfg.Canvas.Width, cfg.Canvas.Height)
	ebiten.SetWindowTitle(cfg.Canvas.Title)
	ebiten.SetTPS(int(math.Round(cfg.Canvas.FrameRate)))

	logger.Info("opening window", "width", cfg.Canvas.Width, "height", cfg.Canvas.Height, "fps", cfg.Canvas.FrameRate)
	return runResult(ctx, ebiten.RunGame(g))
}

// runResult maps the error returned by ebiten.RunGame: a termination caused by
// ctx reports ctx's error, a window close reports nil.
func runResult(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, ebiten.Termination) {
		return ctx.Err()
	}
	return errors.Wrap(err, "game: run")
}
