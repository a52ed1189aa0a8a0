// Package ingest normalizes DashDAQ CSV telemetry exports into numeric tables.
package ingest

import "math"

// Well-known column names.
const (
	// TimeColumn is the raw time channel, in milliseconds.
	TimeColumn = "Time"

	// TimeSecondsColumn is the derived elapsed-time channel, in seconds from start.
	TimeSecondsColumn = "Time_s"
)

// Missing is the value stored for a cell that failed numeric coercion.
// It is NaN, so missing values fall out of comparisons naturally.
var Missing = math.NaN()

// IsMissing reports whether v is a missing value.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Column is a single named channel of samples. Cells that failed numeric
// coercion hold NaN.
type Column struct {
	// Name is the column name from the tabular header.
	Name string

	// Values holds one sample per data row, NaN where coercion failed.
	Values []float64
}

// Valid returns the non-missing samples in order.
func (c *Column) Valid() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// Table is a column-oriented numeric table. Column order matches the source
// header (after placeholder filtering), with Time_s appended last when derived.
type Table struct {
	Columns []Column
}

// Column returns the column with the given name, or nil if absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// UnitsMap maps column names to unit labels (e.g. "ms", "kph", "°C").
type UnitsMap map[string]string

// Result is the output of one ingestion: the normalized table, the units
// annotation, and load metadata. The caller owns it exclusively; the ingestor
// keeps no state between loads.
type Result struct {
	// Table is the normalized numeric table, including Time_s when derived.
	Table *Table

	// Units maps column names to unit labels. Contains Time_s -> "s" whenever
	// Time_s was derived; empty of source entries when no units row was found.
	Units UnitsMap

	// Source is the file the data came from, empty for reader-based parses.
	Source string

	// HeaderLine is the 0-based line index where the tabular header was found.
	HeaderLine int

	// HasUnitsRow reports whether a units-annotation row was peeled off.
	HasUnitsRow bool

	// BadCells counts cells that failed numeric coercion and became missing.
	BadCells int
}
