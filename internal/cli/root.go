// Package cli implements the blobby command line.
//
// Commands:
//   - window (default): animate the blob in a desktop window
//   - snapshot: render frames headlessly to PNG or animated GIF
//   - term: animate the blob in the terminal
//
// All commands accept --config for a TOML file, --seed to fix the noise
// field and --verbose for debug logging.
package cli

import (
	"context"
	"io"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/blobby/internal/blob"
	"github.com/iburimskiy/blobby/internal/config"
)

type options struct {
	configPath string
	seed       int64
	verbose    bool
}

// Execute runs the command line with args, logging to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "blobby",
		Short:         "Animate a noise-perturbed blob",
		Long:          `blobby draws a closed polygon whose radius is perturbed by smoothed 3D noise, slowly cycling its hue, in a window, the terminal, or an image file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logOut, level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "noise seed (0 picks one from the clock)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newWindowCmd(opts))
	root.AddCommand(newSnapshotCmd(opts))
	root.AddCommand(newTermCmd(opts))
	return root
}

// setup loads the configuration and builds a renderer over a seeded noise
// field. The renderer is not initialized.
func setup(ctx context.Context, opts *options) (*config.Config, *blob.Renderer, error) {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.configPath != "" {
		logger.Debug("loaded config", "path", opts.configPath)
	}

	seed := cfg.Noise.Seed
	if opts.seed != 0 {
		seed = opts.seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("noise field", "seed", seed, "octaves", cfg.Noise.Octaves, "falloff", cfg.Noise.Falloff)

	blobOpts, err := cfg.BlobOptions()
	if err != nil {
		return nil, nil, err
	}
	return cfg, blob.New(blobOpts, cfg.NoiseField(seed)), nil
}
