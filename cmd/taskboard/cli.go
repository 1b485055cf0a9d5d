package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"taskboard/internal/config"
	"taskboard/internal/logging"
)

// isTTY checks if the current environment has a TTY available
func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Color definitions for CLI output
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// CLI holds the command line interface state
type CLI struct {
	verbose bool
	debug   bool

	cfg  config.Config
	meta config.Metadata

	out io.Writer
}

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	cli := &CLI{out: os.Stdout}

	rootCmd := &cobra.Command{
		Use:   "taskboard",
		Short: "Board attachment intake from the command line",
		Long: fmt.Sprintf(`%s

%s validates, compresses and admits images the same way the board API does:
format sniffing, the raw source ceiling, per-file and aggregate budgets all
apply. Use it to check files before uploading, or to run the server itself.

%s
  taskboard ingest photo.png scan.jpg    # Run files through the pipeline
  taskboard ingest --json shots/*.png    # Machine-readable results
  taskboard inspect photo.png            # Decode one file, show every gate
  taskboard limits                       # Show the limits in effect
  taskboard limits --save                # Persist them to the config file
  taskboard serve --addr :8080           # Run the board server`,
			bold("taskboard "+appVersion()),
			bold("taskboard"),
			bold("EXAMPLES:")),
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&cli.debug, "debug", "d", false, "Debug mode")

	// Add subcommands
	rootCmd.AddCommand(newIngestCommand(cli))
	rootCmd.AddCommand(newInspectCommand(cli))
	rootCmd.AddCommand(newLimitsCommand(cli))
	rootCmd.AddCommand(newServeCommand(cli))
	rootCmd.AddCommand(newVersionCommand())

	rootCmd.Version = appVersion()

	// Configure viper
	viper.SetEnvPrefix("TASKBOARD")
	viper.AutomaticEnv()
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath("$HOME/.taskboard")
	viper.AddConfigPath(".")

	return rootCmd
}

// initialize resolves configuration for commands that run the pipeline in
// process. Explicitly-set flags win over environment and config file values.
func (cli *CLI) initialize(cmd *cobra.Command) error {
	cli.out = cmd.OutOrStdout()

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		if cli.debug {
			fmt.Fprintf(cli.out, "Config file not found: %v\n", err)
		}
	}

	overrides := config.Overrides{}
	if cmd.Flags().Changed("verbose") {
		overrides.Verbose = &cli.verbose
	}
	applyIntakeFlags(cmd, &overrides)

	cfg, meta, err := config.Load(config.WithOverrides(overrides))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cli.cfg = cfg
	cli.meta = meta

	// The file logger is invisible on stdout, so Info is a safe floor.
	if cli.verbose || cli.debug {
		logging.Default().SetLevel(logging.LevelDebug)
	} else {
		logging.Default().SetLevel(logging.LevelInfo)
	}
	return nil
}

// applyIntakeFlags folds explicitly-set limit flags into overrides. Each
// value is bound and read back through viper at use time, so the key stays
// in the TASKBOARD_ namespace and the binding always points at the command
// actually executing.
func applyIntakeFlags(cmd *cobra.Command, overrides *config.Overrides) {
	flags := cmd.Flags()
	if flags.Changed("max-count") {
		_ = viper.BindPFlag("max_count", flags.Lookup("max-count"))
		v := viper.GetInt("max_count")
		overrides.MaxCount = &v
	}
	if flags.Changed("per-file-limit") {
		_ = viper.BindPFlag("per_file_limit", flags.Lookup("per-file-limit"))
		v := viper.GetInt64("per_file_limit")
		overrides.PerFileLimit = &v
	}
	if flags.Changed("aggregate-limit") {
		_ = viper.BindPFlag("aggregate_limit", flags.Lookup("aggregate-limit"))
		v := viper.GetInt64("aggregate_limit")
		overrides.AggregateLimit = &v
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// humanSize renders a byte count the way the board UI does: whole bytes
// below a KiB, then one decimal of the binary unit.
func humanSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	}
}

// newVersionCommand creates the version subcommand
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("taskboard %s\n", appVersion())
		},
	}
}
