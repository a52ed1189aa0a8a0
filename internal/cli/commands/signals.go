package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"daqview/pkg/ingest"
	"daqview/pkg/stats"
	"daqview/pkg/view"
)

// SignalsOptions holds command-line options for the signals command.
type SignalsOptions struct {
	Output string
}

// NewSignalsCommand creates the signals command.
func NewSignalsCommand() *cobra.Command {
	opts := &SignalsOptions{}

	cmd := &cobra.Command{
		Use:   "signals <log-file>",
		Short: "List a log's signal channels with units and statistics",
		Long: `Ingest a DashDAQ log and list its signal channels.

For each channel the output includes the unit label from the units row (when
present), the number of valid samples, and min/max/mean/median/stddev over
those samples. Channels with zero valid samples (e.g. a sensor that was
never connected) are listed but carry no statistics.

Example:
  daqview signals run1.csv
  daqview signals -o json run1.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignals(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runSignals(cmd *cobra.Command, args []string, opts *SignalsOptions) error {
	res, err := ingest.Load(args[0])
	if err != nil {
		return err
	}

	signals := view.Signals(res.Table)
	summaries := stats.Summarize(res.Table, res.Units, signals)
	timeCol := view.TimeColumn(res.Table)

	switch opts.Output {
	case "json":
		return outputSignalsJSON(cmd.OutOrStdout(), res, timeCol, summaries)
	case "text":
		return outputSignalsText(cmd.OutOrStdout(), res, timeCol, summaries)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputSignalsText(w io.Writer, res *ingest.Result, timeCol string, summaries []stats.Summary) error {
	fmt.Fprintf(w, "Log: %s\n", res.Source)
	fmt.Fprintf(w, "  Header at line %d, units row: %v\n", res.HeaderLine+1, res.HasUnitsRow)
	fmt.Fprintf(w, "  Rows: %d\n", res.Table.NumRows())

	if timeCol != "" {
		if lo, hi, ok := view.FullExtent(res.Table, timeCol); ok {
			fmt.Fprintf(w, "  Time axis: %s, %g to %g\n", view.AxisLabel(timeCol, res.Units), lo, hi)
		}
	} else {
		fmt.Fprintln(w, "  Time axis: none")
	}

	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SIGNAL\tUNIT\tSAMPLES\tMIN\tMAX\tMEAN\tMEDIAN\tSTDDEV")
	for _, s := range summaries {
		if s.Count == 0 {
			fmt.Fprintf(tw, "%s\t%s\t0\t-\t-\t-\t-\t-\n", s.Signal, s.Unit)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%g\t%g\t%.4g\t%g\t%.4g\n",
			s.Signal, s.Unit, s.Count, s.Min, s.Max, s.Mean, s.Median, s.StdDev)
	}
	return tw.Flush()
}

func outputSignalsJSON(w io.Writer, res *ingest.Result, timeCol string, summaries []stats.Summary) error {
	doc := struct {
		Source      string          `json:"source"`
		HeaderLine  int             `json:"header_line"`
		HasUnitsRow bool            `json:"has_units_row"`
		Rows        int             `json:"rows"`
		TimeColumn  string          `json:"time_column,omitempty"`
		Signals     []stats.Summary `json:"signals"`
	}{
		Source:      res.Source,
		HeaderLine:  res.HeaderLine,
		HasUnitsRow: res.HasUnitsRow,
		Rows:        res.Table.NumRows(),
		TimeColumn:  timeCol,
		Signals:     summaries,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
