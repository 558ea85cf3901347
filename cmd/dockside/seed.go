package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dockside/internal/orders"
)

func newSeedCmd(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load orders from a file into the SQLite store",
		Long: `Read the orders file (JSON, YAML or TOML, optionally gzipped) and replace
the contents of the SQLite orders database with it. Use data.driver = "sqlite"
to serve from the database afterwards.

Examples:
  dockside seed
  dockside seed --from data/orders.yaml --to data/orders.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if from == "" {
				from = cfg.DataFile()
			}
			if to == "" {
				to = cfg.SQLitePath()
			}

			logger, logCloser, err := opts.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logCloser.Close()

			list, err := orders.NewFileStore(from).Orders(cmd.Context())
			if err != nil {
				return err
			}

			db, err := orders.OpenSQLite(to, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Replace(cmd.Context(), list); err != nil {
				return err
			}
			logger.Info("Seeded orders", "from", from, "to", to, "count", len(list))
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d orders into %s\n", len(list), to)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Orders file to read (default: configured data file)")
	cmd.Flags().StringVar(&to, "to", "", "SQLite database to write (default: configured sqlite file)")
	return cmd
}
