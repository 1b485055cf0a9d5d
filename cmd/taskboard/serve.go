package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"taskboard/internal/config"
	"taskboard/internal/intake"
	"taskboard/internal/server/bootstrap"
)

// newServeCommand creates the serve subcommand
func newServeCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board HTTP server",
		Long: `Run the board HTTP server

This is the same process the standalone taskboard-server binary runs: the
editor API, attachment intake, payload downloads and the websocket event
stream, with optional Prometheus metrics. The server stops cleanly on
SIGINT or SIGTERM.

Examples:
  taskboard serve
  taskboard serve --addr :9000 --payload-dir /var/lib/taskboard
  taskboard serve --metrics --metrics-port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := config.Overrides{}
			if cmd.Flags().Changed("verbose") {
				overrides.Verbose = &cli.verbose
			}
			applyIntakeFlags(cmd, &overrides)
			applyServeFlags(cmd, &overrides)
			return bootstrap.RunServer(config.WithOverrides(overrides))
		},
	}

	cmd.Flags().String("addr", config.DefaultListenAddr, "Listen address (host:port)")
	cmd.Flags().String("payload-dir", config.DefaultPayloadDir, "Directory for the content-addressed payload store")
	cmd.Flags().String("environment", "development", "Runtime environment name")
	cmd.Flags().Bool("metrics", false, "Expose Prometheus metrics")
	cmd.Flags().Int("metrics-port", 0, "Prometheus listener port")
	cmd.Flags().Int("max-count", intake.DefaultMaxCount, "Maximum attachments per card")
	cmd.Flags().Int64("per-file-limit", intake.DefaultPerFileLimit, "Per-file payload limit in bytes")
	cmd.Flags().Int64("aggregate-limit", intake.DefaultAggregateLimit, "Aggregate payload budget in bytes")

	return cmd
}

// applyServeFlags folds explicitly-set server flags into overrides, bound
// through viper the same way the intake limit flags are.
func applyServeFlags(cmd *cobra.Command, overrides *config.Overrides) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		_ = viper.BindPFlag("listen_addr", flags.Lookup("addr"))
		v := viper.GetString("listen_addr")
		overrides.ListenAddr = &v
	}
	if flags.Changed("payload-dir") {
		_ = viper.BindPFlag("payload_dir", flags.Lookup("payload-dir"))
		v := viper.GetString("payload_dir")
		overrides.PayloadDir = &v
	}
	if flags.Changed("environment") {
		_ = viper.BindPFlag("environment", flags.Lookup("environment"))
		v := viper.GetString("environment")
		overrides.Environment = &v
	}
	if flags.Changed("metrics") {
		_ = viper.BindPFlag("metrics_enabled", flags.Lookup("metrics"))
		v := viper.GetBool("metrics_enabled")
		overrides.MetricsEnabled = &v
	}
	if flags.Changed("metrics-port") {
		_ = viper.BindPFlag("metrics_port", flags.Lookup("metrics-port"))
		v := viper.GetInt("metrics_port")
		overrides.MetricsPort = &v
	}
}
