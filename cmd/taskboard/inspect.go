package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/attachments"
	"taskboard/internal/imaging"
	"taskboard/internal/intake"
	"taskboard/internal/intake/source"
)

// newInspectCommand creates the inspect subcommand
func newInspectCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Decode one file and show what intake would see",
		Long: `Decode one file and show what intake would see

Prints the declared and sniffed media types, the decoded dimensions and the
verdict of each gate the file would pass through, without re-encoding it.

Example:
  taskboard inspect photo.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.initialize(cmd); err != nil {
				return err
			}
			return cli.runInspect(args[0])
		},
	}
}

func (cli *CLI) runInspect(path string) error {
	f, err := source.FromPath(path)
	if err != nil {
		return err
	}
	data, err := f.Read(0)
	if err != nil {
		return err
	}

	policy := cli.cfg.Intake
	detected := intake.DetectMIME(data)
	size := int64(len(data))

	declared := f.DeclaredMIME
	if declared == "" {
		declared = gray("unknown")
	}

	fmt.Fprintf(cli.out, "%s\n", bold(f.Name))
	fmt.Fprintf(cli.out, "  Declared type: %s\n", declared)
	fmt.Fprintf(cli.out, "  Detected type: %s\n", detected)
	fmt.Fprintf(cli.out, "  Source size:   %s\n", humanSize(size))

	if bounds, err := imaging.Probe(data); err == nil {
		fmt.Fprintf(cli.out, "  Dimensions:    %dx%d (%s)\n", bounds.Width, bounds.Height, bounds.Format)
		fitW, fitH := imaging.FitDimensions(bounds.Width, bounds.Height, policy.Compression.MaxWidth, policy.Compression.MaxHeight)
		if fitW != bounds.Width || fitH != bounds.Height {
			fmt.Fprintf(cli.out, "  Resamples to:  %dx%d\n", fitW, fitH)
		}
	} else {
		fmt.Fprintf(cli.out, "  Dimensions:    %s\n", yellow("undecodable"))
	}

	fmt.Fprintf(cli.out, "  Format gate:   %s\n", gateVerdict(policy.AcceptsMIME(detected)))
	if policy.DisableRawCeiling {
		fmt.Fprintf(cli.out, "  Raw ceiling:   %s\n", gray("disabled"))
	} else {
		under := size <= policy.RawSourceCeiling
		fmt.Fprintf(cli.out, "  Raw ceiling:   %s (%s of %s)\n", gateVerdict(under), humanSize(size), humanSize(policy.RawSourceCeiling))
	}
	fmt.Fprintf(cli.out, "  Stores as:     %s (%s)\n", attachments.OutputFilename(f.Name, policy.OutputExtension), policy.OutputMIME)
	return nil
}

func gateVerdict(pass bool) string {
	if pass {
		return green("pass")
	}
	return red("reject")
}
