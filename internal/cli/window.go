package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/blobby/internal/game"
)

func newWindowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "window",
		Short: "Animate the blob in a desktop window (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), opts)
		},
	}
}

func runWindow(ctx context.Context, opts *options) error {
	cfg, r, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	return game.Run(ctx, r, cfg, loggerFromContext(ctx))
}
