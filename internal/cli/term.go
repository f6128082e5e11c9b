package cli

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/blobby/internal/raster"
	"github.com/iburimskiy/blobby/internal/term"
)

func newTermCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "term",
		Short: "Animate the blob in the terminal (Esc or q to quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, r, err := setup(ctx, opts)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return errors.Wrap(err, "term: new screen")
			}
			if err := screen.Init(); err != nil {
				return errors.Wrap(err, "term: init screen")
			}

			surface := raster.New(cfg.Canvas.Width, cfg.Canvas.Height)
			return term.New(screen, r, surface, cfg.Canvas.FrameRate, loggerFromContext(ctx)).Run(ctx)
		},
	}
}
