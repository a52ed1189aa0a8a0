package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"daqview/pkg/ingest"
)

// ValidateOptions holds command-line options for the validate command.
type ValidateOptions struct {
	SampleSize int
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <log-file|glob>...",
		Short: "Check that files look like DashDAQ exports",
		Long: `Probe files for DashDAQ structure without fully ingesting them.

Samples the first lines of each file and reports where the tabular header
was found, how many metadata lines precede it, whether a units row follows
it, and how many sampled rows look like data.

Exit codes:
  0 - Every file has a recognizable header
  1 - One or more files lack a header
  2 - A file could not be read

Example:
  daqview validate run1.csv
  daqview validate logs/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 200, "Number of lines to sample per file")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := ingest.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding log patterns: %w", err)
	}

	sniffer := ingest.NewSniffer(ingest.WithSampleSize(opts.SampleSize))
	out := cmd.OutOrStdout()

	bad := 0
	for _, file := range files {
		result, err := sniffer.SniffFile(ctx, file)
		if err != nil {
			return fmt.Errorf("probing %s: %w", file, err)
		}

		if !result.LooksLikeLog() {
			bad++
			fmt.Fprintf(out, "%s: no \"Time\" header found in %d sampled line(s)\n",
				file, result.SampledLines)
			continue
		}

		fmt.Fprintf(out, "%s: header at line %d (%d metadata line(s)), units row: %v, data rows sampled: %d\n",
			file, result.HeaderLine+1, result.MetadataLines, result.HasUnitsRow, result.DataRows)
	}

	if bad > 0 {
		fmt.Fprintf(out, "\n%d of %d file(s) do not look like DashDAQ exports\n", bad, len(files))
		ExitCode = 1
	}

	return nil
}
