// Package export writes normalized telemetry tables to downstream formats.
package export

import (
	"context"
	"io"

	"daqview/pkg/ingest"
)

// Dataset is one exportable unit: a (possibly range-filtered) table, its
// units annotation, and the source it came from.
type Dataset struct {
	// Source is the originating log file, empty when not file-backed.
	Source string

	// Table is the normalized table to write.
	Table *ingest.Table

	// Units maps column names to unit labels.
	Units ingest.UnitsMap
}

// Exporter writes a dataset in a specific format.
type Exporter interface {
	// Export writes the dataset to w.
	Export(ctx context.Context, ds *Dataset, w io.Writer) error

	// Name returns the format name (csv, json, xlsx).
	Name() string
}

// Options controls exporter behavior.
type Options struct {
	// IncludeUnits emits the units annotation alongside the data (a second
	// header row for csv/xlsx, a units object for json).
	IncludeUnits bool
}

// New returns the exporter for the given format name, or ok=false for an
// unknown format.
func New(format string, opts Options) (Exporter, bool) {
	switch format {
	case "csv":
		return NewCSVExporter(opts), true
	case "json":
		return NewJSONExporter(opts), true
	case "xlsx":
		return NewXLSXExporter(opts), true
	}
	return nil, false
}
