package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"taskboard/internal/attachments"
	interrors "taskboard/internal/errors"
	"taskboard/internal/intake"
	"taskboard/internal/intake/source"
	"taskboard/internal/logging"
)

// newIngestCommand creates the ingest subcommand
func newIngestCommand(cli *CLI) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Run local files through the attachment intake pipeline",
		Long: `Run local files through the attachment intake pipeline

Each file is sniffed, decoded, resampled and re-encoded exactly as an upload
would be, then admitted against an empty card. The table lists what was
accepted with its stored name and encoded size, and why everything else was
rejected. Nothing is written anywhere.

Examples:
  taskboard ingest photo.png scan.jpg
  taskboard ingest --json shots/*.png
  taskboard ingest --max-count 3 --per-file-limit 200000 batch/*.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.initialize(cmd); err != nil {
				return err
			}
			return cli.runIngest(cmd.Context(), args, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	cmd.Flags().Int("max-count", intake.DefaultMaxCount, "Maximum attachments per card")
	cmd.Flags().Int64("per-file-limit", intake.DefaultPerFileLimit, "Per-file payload limit in bytes")
	cmd.Flags().Int64("aggregate-limit", intake.DefaultAggregateLimit, "Aggregate payload budget in bytes")

	return cmd
}

// ingestOutput is the machine-readable shape of one ingest run.
type ingestOutput struct {
	Accepted  []ingestedFile              `json:"accepted"`
	Rejected  attachments.RejectionReport `json:"rejected"`
	TotalSize int64                       `json:"total_size"`
}

// ingestedFile summarizes one admitted attachment without its payload.
type ingestedFile struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Digest   string `json:"digest"`
}

func (cli *CLI) runIngest(ctx context.Context, paths []string, jsonOut bool) error {
	pipeline, err := intake.NewPipeline(cli.cfg.Intake, logging.NewComponentLogger("CLI"))
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	var report attachments.RejectionReport
	files := make([]source.File, 0, len(paths))
	for _, path := range paths {
		f, err := source.FromPath(path)
		if err != nil {
			report.AddReadFailure(filepath.Base(path), readReason(err))
			continue
		}
		files = append(files, f)
	}

	accepted, batchReport, err := pipeline.AddFiles(ctx, files, nil)
	if err != nil {
		return err
	}
	report.Merge(batchReport)

	var total int64
	for _, a := range accepted {
		total += a.Size
	}

	if jsonOut {
		out := ingestOutput{Accepted: make([]ingestedFile, 0, len(accepted)), Rejected: report, TotalSize: total}
		for _, a := range accepted {
			out.Accepted = append(out.Accepted, ingestedFile{
				Filename: a.Filename,
				MIMEType: a.MIMEType,
				Size:     a.Size,
				Digest:   a.Digest,
			})
		}
		if err := writeJSON(cli.out, out); err != nil {
			return err
		}
	} else {
		cli.printIngestReport(accepted, report, total)
	}

	if len(accepted) == 0 {
		return fmt.Errorf("no files accepted (%d rejected)", report.Len())
	}
	return nil
}

func (cli *CLI) printIngestReport(accepted []attachments.Attachment, report attachments.RejectionReport, total int64) {
	width := 0
	rows := rejectionRows(report)
	for _, a := range accepted {
		if len(a.Filename) > width {
			width = len(a.Filename)
		}
	}
	for _, r := range rows {
		if len(r.name) > width {
			width = len(r.name)
		}
	}

	if len(accepted) > 0 {
		fmt.Fprintf(cli.out, "%s\n", bold(fmt.Sprintf("Accepted (%d):", len(accepted))))
		for _, a := range accepted {
			fmt.Fprintf(cli.out, "  %s  %-10s  %s\n", green(pad(a.Filename, width)), a.MIMEType, humanSize(a.Size))
		}
	}
	if len(rows) > 0 {
		if len(accepted) > 0 {
			fmt.Fprintln(cli.out)
		}
		fmt.Fprintf(cli.out, "%s\n", bold(fmt.Sprintf("Rejected (%d):", len(rows))))
		for _, r := range rows {
			fmt.Fprintf(cli.out, "  %s  %s\n", red(pad(r.name, width)), r.reason)
		}
	}

	fmt.Fprintf(cli.out, "\n%s\n", gray(fmt.Sprintf("%d accepted, %d rejected, %s total", len(accepted), len(rows), humanSize(total))))
}

type rejectionRow struct {
	name   string
	reason string
}

// rejectionRows flattens a report into display rows, keeping the report's
// category order so output is stable across runs.
func rejectionRows(report attachments.RejectionReport) []rejectionRow {
	var rows []rejectionRow
	for _, name := range report.InvalidFormat {
		rows = append(rows, rejectionRow{name, "unsupported format"})
	}
	for _, name := range report.OversizedSource {
		rows = append(rows, rejectionRow{name, "source exceeds the raw ceiling"})
	}
	for _, name := range report.OversizedAfterCompression {
		rows = append(rows, rejectionRow{name, "still over the per-file limit after compression"})
	}
	for _, name := range report.TotalSizeExceeded {
		rows = append(rows, rejectionRow{name, "aggregate budget exhausted"})
	}
	for _, name := range report.TooManyImages {
		rows = append(rows, rejectionRow{name, "attachment count reached"})
	}
	for _, f := range report.ReadFailures {
		rows = append(rows, rejectionRow{f.Filename, "read failed: " + f.Reason})
	}
	return rows
}

// readReason strips the filename prefix from a read error so the report does
// not repeat it next to the Filename field.
func readReason(err error) string {
	var rerr *interrors.ReadError
	if errors.As(err, &rerr) && rerr.Err != nil {
		return fmt.Sprintf("%s: %v", rerr.Op, rerr.Err)
	}
	return err.Error()
}

func pad(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
