package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"daqview/pkg/ingest"
)

// CSVExporter writes the normalized table back out as clean CSV: no metadata
// preamble, no placeholder columns, missing values as empty cells.
type CSVExporter struct {
	opts Options
}

// NewCSVExporter creates a CSV exporter with the given options.
func NewCSVExporter(opts Options) *CSVExporter {
	return &CSVExporter{opts: opts}
}

// Name returns the format name.
func (e *CSVExporter) Name() string {
	return "csv"
}

// Export writes the dataset as CSV.
func (e *CSVExporter) Export(ctx context.Context, ds *Dataset, w io.Writer) error {
	writer := csv.NewWriter(w)

	names := ds.Table.Names()
	if err := writer.Write(names); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if e.opts.IncludeUnits && len(ds.Units) > 0 {
		units := make([]string, len(names))
		for i, name := range names {
			units[i] = ds.Units[name]
		}
		if err := writer.Write(units); err != nil {
			return fmt.Errorf("writing units row: %w", err)
		}
	}

	record := make([]string, len(names))
	for r := 0; r < ds.Table.NumRows(); r++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for c := range ds.Table.Columns {
			v := ds.Table.Columns[c].Values[r]
			if ingest.IsMissing(v) {
				record[c] = ""
				continue
			}
			record[c] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", r, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
