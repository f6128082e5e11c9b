package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/blobby/internal/raster"
)

const defaultGIFFrames = 120

func newSnapshotCmd(opts *options) *cobra.Command {
	var (
		out    string
		frames int
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render frames to a PNG or animated GIF",
		Long: `Render the blob without a window. A .png output holds the last of --frames
frames; a .gif output holds all of them and loops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			ext := strings.ToLower(filepath.Ext(out))
			if ext != ".png" && ext != ".gif" {
				return errors.Errorf("snapshot: output %q must end in .png or .gif", out)
			}
			if !cmd.Flags().Changed("frames") {
				frames = 1
				if ext == ".gif" {
					frames = defaultGIFFrames
				}
			}
			if frames < 1 {
				return errors.Errorf("snapshot: frames %d must be positive", frames)
			}

			cfg, r, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			r.Initialize(float64(cfg.Canvas.Width), float64(cfg.Canvas.Height))
			surface := raster.New(cfg.Canvas.Width, cfg.Canvas.Height)

			start := time.Now()
			err = writeOutput(out, func(w io.Writer) error {
				if ext == ".gif" {
					return raster.WriteGIF(w, r, surface, frames)
				}
				// advance to the requested frame, then encode it
				for i := 1; i < frames; i++ {
					if err := r.RenderFrame(surface); err != nil {
						return err
					}
				}
				return raster.WritePNG(w, r, surface)
			})
			if err != nil {
				return err
			}

			logger.Infof("wrote %s, %d frame(s) (%s)", out, frames, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "blob.png", "output file (.png or .gif)")
	cmd.Flags().IntVarP(&frames, "frames", "n", 1, "number of frames to render")
	return cmd
}

// writeOutput creates path and fills it with write. The file is removed if
// writing or closing fails.
func writeOutput(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "snapshot: create output")
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "snapshot: close output")
}
