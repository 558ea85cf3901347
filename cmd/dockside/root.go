package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"dockside/internal/config"
	"dockside/internal/slogutil"
	"dockside/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	baseDir   string
	verbosity int
	quiet     bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "dockside",
		Short: "dockside - a minimal HTTP/1.1 responder",
		Long: `dockside serves static pages from a content root and a small shipping
orders API from a file or SQLite backed data source, speaking HTTP/1.1
directly over TCP.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(version.Full() + "\n")

	cmd.PersistentFlags().StringVar(&opts.baseDir, "base", ".", "Base directory holding .dockside/, public/ and data/")
	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only log errors")

	cmd.AddCommand(
		newServeCmd(opts),
		newRouteCmd(opts),
		newSeedCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// loadConfig loads and validates the configuration under the base directory.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.baseDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger builds the process logger for cfg, writing console output to stderr.
func (o *globalOptions) logger(cfg *config.Config, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level := slogutil.LevelFromVerbosity(slogutil.LevelFromString(cfg.Logging.Level), o.verbosity, o.quiet)
	return slogutil.NewFromConfigLevel(cfg.Logging, level, stderr)
}
