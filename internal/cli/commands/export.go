package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"daqview/pkg/export"
	"daqview/pkg/ingest"
	"daqview/pkg/view"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ExportOptions holds command-line options for the export command.
type ExportOptions struct {
	Format    string
	Out       string
	TimeRange string
	Signals   []string
	Units     bool
	StatePath string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export <log-file|glob>...",
		Short: "Normalize logs and write them in a downstream format",
		Long: `Normalize DashDAQ logs and export the resulting tables.

Each input file is ingested independently (vendor metadata skipped, units
row peeled off, channels coerced to numbers, Time_s derived) and written to
its own output file. Cells that fail numeric coercion become empty/missing
values in the output; they never fail the export.

The time range is interpreted against the derived Time_s axis when present,
else against raw Time. Reversed bounds are swapped and out-of-data ranges
fall back to the full extent.

Exit codes:
  0 - At least one usable telemetry row exported
  1 - All inputs ingested cleanly but contained no data rows
  2 - Usage or runtime error

Example:
  daqview export run1.csv
  daqview export -f xlsx --out reports/ logs/*.csv
  daqview export --signal Speed --signal RPM --time-range 5:20 run1.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "csv", "Output format (csv|json|xlsx)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Output file (single input) or directory")
	cmd.Flags().StringVar(&opts.TimeRange, "time-range", "", "Limit to a time window, start:end (e.g. 5:20)")
	cmd.Flags().StringSliceVar(&opts.Signals, "signal", nil, "Export specific signal(s) only (can be repeated)")
	cmd.Flags().BoolVar(&opts.Units, "units", true, "Include the units annotation in the output")
	cmd.Flags().StringVar(&opts.StatePath, "state", "", "View state file (YAML) providing signals/range defaults")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, opts *ExportOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := ingest.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding log patterns: %w", err)
	}

	state, err := buildViewState(opts)
	if err != nil {
		return err
	}

	exporter, ok := export.New(opts.Format, export.Options{IncludeUnits: opts.Units})
	if !ok {
		return fmt.Errorf("unknown output format %q (use csv, json, or xlsx)", opts.Format)
	}

	outDir, outFile, err := resolveOutput(opts.Out, len(files))
	if err != nil {
		return err
	}

	totalRows := 0
	for _, file := range files {
		rows, err := exportOne(ctx, file, state, exporter, outDir, outFile)
		if err != nil {
			return err
		}
		totalRows += rows
	}

	if totalRows == 0 {
		slog.Warn("No telemetry rows found in any input")
		ExitCode = 1
	}

	return nil
}

func exportOne(ctx context.Context, file string, state *view.State, exporter export.Exporter, outDir, outFile string) (int, error) {
	res, err := ingest.Load(file)
	if err != nil {
		return 0, err
	}

	if res.BadCells > 0 {
		slog.Debug("Cells failed numeric coercion",
			slog.String("file", file),
			slog.Int("cells", res.BadCells))
	}

	table, err := view.Apply(state, res.Table)
	if err != nil {
		return 0, fmt.Errorf("applying view state to %s: %w", file, err)
	}

	outPath := outFile
	if outPath == "" {
		outPath = defaultOutPath(file, outDir, exporter.Name())
	}

	out, err := os.Create(outPath) // #nosec G304 -- user-chosen output path is expected
	if err != nil {
		return 0, fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	ds := &export.Dataset{Source: file, Table: table, Units: res.Units}
	if err := exporter.Export(ctx, ds, out); err != nil {
		return 0, fmt.Errorf("exporting %s: %w", file, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("closing output file: %w", err)
	}

	slog.Info("Exported log",
		slog.String("input", file),
		slog.String("output", outPath),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", len(table.Columns)))

	return table.NumRows(), nil
}

// buildViewState merges the optional state file with command-line overrides.
// Flags win over the file.
func buildViewState(opts *ExportOptions) (*view.State, error) {
	state := view.DefaultState()
	if opts.StatePath != "" {
		loaded, err := view.LoadState(opts.StatePath)
		if err != nil {
			return nil, fmt.Errorf("loading view state: %w", err)
		}
		state = loaded
	}

	if len(opts.Signals) > 0 {
		state.Signals = opts.Signals
	}

	if opts.TimeRange != "" {
		r, err := parseTimeRange(opts.TimeRange)
		if err != nil {
			return nil, err
		}
		state.TimeRange = r
	}

	return state, nil
}

// parseTimeRange parses "start:end" into a view range.
func parseTimeRange(s string) (*view.Range, error) {
	startStr, endStr, found := strings.Cut(s, ":")
	if !found {
		return nil, fmt.Errorf("invalid time-range %q (want start:end)", s)
	}

	start, err := strconv.ParseFloat(strings.TrimSpace(startStr), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid time-range start %q: %w", startStr, err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(endStr), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid time-range end %q: %w", endStr, err)
	}

	return &view.Range{Start: start, End: end}, nil
}

// resolveOutput decides how --out maps onto output paths. With multiple
// inputs it must be a directory; with a single input it is the output file
// unless it names an existing directory.
func resolveOutput(out string, inputs int) (dir, file string, err error) {
	if out == "" {
		return "", "", nil
	}

	info, statErr := os.Stat(out)
	isDir := statErr == nil && info.IsDir()

	if inputs > 1 {
		if !isDir {
			return "", "", fmt.Errorf("--out %q must be an existing directory when exporting multiple files", out)
		}
		return out, "", nil
	}

	if isDir {
		return out, "", nil
	}
	return "", out, nil
}

// defaultOutPath derives the output path for an input log: its base name
// with the extension swapped for "_normalized.<format>", placed in dir (or
// next to the input when dir is empty).
func defaultOutPath(input, dir, format string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + "_normalized." + format
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}
