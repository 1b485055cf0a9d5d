package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
)

// newLimitsCommand creates the limits subcommand
func newLimitsCommand(cli *CLI) *cobra.Command {
	var jsonOut bool
	var save bool

	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Show the intake limits in effect",
		Long: `Show the intake limits in effect

Each value is annotated with where it came from: default, file, environment
or an explicit flag. With --save the effective limits are written back to the
config file, preserving any unrelated keys already in it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.initialize(cmd); err != nil {
				return err
			}
			return cli.runLimits(jsonOut, save)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the policy as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the effective limits to the config file")

	return cmd
}

func (cli *CLI) runLimits(jsonOut, save bool) error {
	policy := cli.cfg.Intake

	if jsonOut {
		if err := writeJSON(cli.out, policy); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cli.out, "%s\n", bold("Intake limits"))
		fmt.Fprintf(cli.out, "  Max attachments:  %d %s\n", policy.MaxCount, cli.sourceTag("intake.max_count"))
		fmt.Fprintf(cli.out, "  Per-file limit:   %s %s\n", humanSize(policy.PerFileLimit), cli.sourceTag("intake.per_file_limit"))
		fmt.Fprintf(cli.out, "  Aggregate limit:  %s %s\n", humanSize(policy.AggregateLimit), cli.sourceTag("intake.aggregate_limit"))
		if policy.DisableRawCeiling {
			fmt.Fprintf(cli.out, "  Raw ceiling:      disabled %s\n", cli.sourceTag("intake.disable_raw_ceiling"))
		} else {
			fmt.Fprintf(cli.out, "  Raw ceiling:      %s %s\n", humanSize(policy.RawSourceCeiling), cli.sourceTag("intake.raw_source_ceiling"))
		}
		fmt.Fprintf(cli.out, "  Accepted formats: %s %s\n", strings.Join(policy.AcceptedFormats, ", "), cli.sourceTag("intake.accepted_formats"))
		fmt.Fprintf(cli.out, "  Stored output:    .%s (%s)\n", policy.OutputExtension, policy.OutputMIME)
		fmt.Fprintf(cli.out, "  Concurrency:      %d %s\n", policy.Concurrency, cli.sourceTag("intake.concurrency"))
		fmt.Fprintf(cli.out, "  Compression:      max %dx%d, quality %d step %d, %d retries\n",
			policy.Compression.MaxWidth, policy.Compression.MaxHeight,
			policy.Compression.InitialQuality, policy.Compression.QualityStep, policy.Compression.MaxRetries)
	}

	if save {
		path, err := config.SaveIntakeLimits(policy)
		if err != nil {
			return fmt.Errorf("save limits: %w", err)
		}
		fmt.Fprintf(cli.out, "\nLimits saved to %s\n", path)
	}
	return nil
}

// sourceTag renders the provenance of one configuration field.
func (cli *CLI) sourceTag(field string) string {
	return gray(fmt.Sprintf("(%s)", cli.meta.Source(field)))
}
