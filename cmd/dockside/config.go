package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dockside/internal/config"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dockside configuration",
		Long:  "View and manage configuration stored in .dockside/config.toml",
	}
	cmd.AddCommand(
		newConfigInitCmd(opts),
		newConfigShowCmd(opts),
		newConfigEnvCmd(),
	)
	return cmd
}

func newConfigInitCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigPath(opts.baseDir)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(opts.baseDir); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}

// configShowResponse is the JSON form of config show.
type configShowResponse struct {
	ConfigPath   string               `json:"configPath,omitempty"`
	UsedDefaults bool                 `json:"usedDefaults"`
	EnvOverrides []config.EnvOverride `json:"envOverrides,omitempty"`
	Config       *config.Config       `json:"config"`
	PublicDir    string               `json:"publicDir"`
	DataFile     string               `json:"dataFile"`
}

func newConfigShowCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Display the configuration after defaults, the config file and environment
overrides have been applied.

Examples:
  dockside config show
  dockside config show --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := config.LoadConfigWithDetails(opts.baseDir)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				return writeConfigJSON(cmd.OutOrStdout(), result)
			case "human":
				writeConfigHuman(cmd.OutOrStdout(), result)
				return nil
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "human", "Output format (human, json)")
	return cmd
}

func newConfigEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List supported environment variables",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.GetSupportedEnvVars() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func writeConfigJSON(w io.Writer, result *config.LoadResult) error {
	resp := configShowResponse{
		ConfigPath:   result.ConfigPath,
		UsedDefaults: result.UsedDefaults,
		EnvOverrides: result.EnvOverrides,
		Config:       result.Config,
		PublicDir:    result.Config.PublicDir(),
		DataFile:     result.Config.DataFile(),
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeConfigHuman(w io.Writer, result *config.LoadResult) {
	cfg := result.Config

	fmt.Fprintln(w, "dockside configuration")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	if result.UsedDefaults {
		fmt.Fprintln(w, "Source: defaults (no config file found)")
	} else {
		fmt.Fprintf(w, "Source: %s\n", result.ConfigPath)
	}
	if len(result.EnvOverrides) > 0 {
		fmt.Fprintln(w, "\nEnvironment overrides:")
		for _, ov := range result.EnvOverrides {
			fmt.Fprintf(w, "  %s=%s -> %s\n", ov.EnvVar, ov.Value, ov.Key)
		}
	}

	fmt.Fprintln(w)
	printSetting(w, "server.addr", cfg.Addr())
	printSetting(w, "server.readTimeoutMs", cfg.Server.ReadTimeoutMs)
	printSetting(w, "server.writeTimeoutMs", cfg.Server.WriteTimeoutMs)
	printSetting(w, "content.publicDir", cfg.PublicDir())
	printSetting(w, "data.driver", cfg.Data.Driver)
	printSetting(w, "data.file", cfg.DataFile())
	printSetting(w, "data.sqlite", cfg.SQLitePath())
	printSetting(w, "logging.format", cfg.Logging.Format)
	printSetting(w, "logging.level", cfg.Logging.Level)
	printSetting(w, "logging.file", valueOrDefault(cfg.Logging.File, "(stderr only)"))
}

func printSetting(w io.Writer, name string, value interface{}) {
	fmt.Fprintf(w, "  %-24s %v\n", name, value)
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
