package main

import (
	"strings"

	"github.com/spf13/cobra"

	"dockside/internal/request"
	"dockside/internal/response"
)

func newRouteCmd(opts *globalOptions) *cobra.Command {
	var showCRLF bool

	cmd := &cobra.Command{
		Use:   "route [METHOD] PATH",
		Short: "Print the response a request would receive",
		Long: `Route a single request through the handlers and print the serialized
response without opening a socket. METHOD defaults to GET.

Examples:
  dockside route /
  dockside route /api/shipping/orders
  dockside route POST /api/shipping/orders --crlf`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, target := request.MethodGet, args[0]
			if len(args) == 2 {
				method, target = request.Method(strings.ToUpper(args[0])), args[1]
			}
			req, err := request.New(method, target)
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
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

			if !showCRLF {
				return r.Route(cmd.Context(), req, cmd.OutOrStdout())
			}
			var sb strings.Builder
			if err := r.Route(cmd.Context(), req, &sb); err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write([]byte(response.ShowCRLF(sb.String()) + "\n"))
			return err
		},
	}

	cmd.Flags().BoolVar(&showCRLF, "crlf", false, "Render CR and LF as visible markers")
	return cmd
}
