package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dockside/internal/server"
	"dockside/internal/version"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start serving HTTP/1.1 on the configured address until interrupted.

Examples:
  dockside serve
  dockside serve --port 8080
  DOCKSIDE_PUBLIC_PATH=./site dockside serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger, logCloser, err := opts.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logCloser.Close()

			r, storeCloser, err := newRouter(cfg, logger)
			if err != nil {
				return err
			}
			defer storeCloser.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			context.AfterFunc(ctx, func() {
				logger.Info("Shutting down")
			})

			logger.Info("Starting dockside",
				"version", version.Info(),
				"addr", cfg.Addr(),
				"public", cfg.PublicDir(),
				"driver", cfg.Data.Driver,
			)
			return server.New(cfg.Server, r, logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host to bind to (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides config)")
	return cmd
}
