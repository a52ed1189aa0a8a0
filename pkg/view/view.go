package view

import (
	"fmt"

	"daqview/pkg/ingest"
)

// TimeColumn picks the time axis for a table: Time_s when it was derived,
// else raw Time, else "" when the table has no usable time axis.
func TimeColumn(t *ingest.Table) string {
	if t.Column(ingest.TimeSecondsColumn) != nil {
		return ingest.TimeSecondsColumn
	}
	if t.Column(ingest.TimeColumn) != nil {
		return ingest.TimeColumn
	}
	return ""
}

// Signals returns the plottable channels: every column except the time
// columns, in table order.
func Signals(t *ingest.Table) []string {
	var out []string
	for _, name := range t.Names() {
		if name == ingest.TimeColumn || name == ingest.TimeSecondsColumn {
			continue
		}
		out = append(out, name)
	}
	return out
}

// FullExtent returns the min and max of the time column's valid samples.
// ok is false when the column is absent or has no valid samples.
func FullExtent(t *ingest.Table, timeCol string) (lo, hi float64, ok bool) {
	col := t.Column(timeCol)
	if col == nil {
		return 0, 0, false
	}
	valid := col.Valid()
	if len(valid) == 0 {
		return 0, 0, false
	}
	lo, hi = valid[0], valid[0]
	for _, v := range valid[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// ClampRange normalizes a requested time window against the table's extent:
// reversed bounds are swapped, bounds are clamped to the data, and a window
// lying entirely outside the data falls back to the full extent.
func ClampRange(t *ingest.Table, timeCol string, start, end float64) (lo, hi float64, ok bool) {
	fullLo, fullHi, ok := FullExtent(t, timeCol)
	if !ok {
		return 0, 0, false
	}

	if start > end {
		start, end = end, start
	}
	if end < fullLo || start > fullHi {
		return fullLo, fullHi, true
	}

	if start < fullLo {
		start = fullLo
	}
	if end > fullHi {
		end = fullHi
	}
	return start, end, true
}

// FilterRange returns a new table containing only the rows whose time-column
// value lies within [start, end] (inclusive). Rows with a missing time value
// are excluded. All columns are sliced in lock-step. The source table is not
// modified.
func FilterRange(t *ingest.Table, timeCol string, start, end float64) (*ingest.Table, error) {
	col := t.Column(timeCol)
	if col == nil {
		return nil, fmt.Errorf("no time column %q in table", timeCol)
	}
	if start > end {
		start, end = end, start
	}

	var keep []int
	for i, v := range col.Values {
		if ingest.IsMissing(v) {
			continue
		}
		if v >= start && v <= end {
			keep = append(keep, i)
		}
	}

	out := &ingest.Table{Columns: make([]ingest.Column, len(t.Columns))}
	for c := range t.Columns {
		src := &t.Columns[c]
		dst := ingest.Column{
			Name:   src.Name,
			Values: make([]float64, len(keep)),
		}
		for j, i := range keep {
			dst.Values[j] = src.Values[i]
		}
		out.Columns[c] = dst
	}
	return out, nil
}

// Apply reduces a table to the state's view of it: time-range filtering via
// ClampRange/FilterRange and signal selection (unknown signal names are an
// error, so typos surface instead of silently vanishing). The time column is
// always retained.
func Apply(state *State, t *ingest.Table) (*ingest.Table, error) {
	timeCol := TimeColumn(t)

	out := t
	if state.TimeRange != nil && timeCol != "" {
		lo, hi, ok := ClampRange(t, timeCol, state.TimeRange.Start, state.TimeRange.End)
		if ok {
			filtered, err := FilterRange(t, timeCol, lo, hi)
			if err != nil {
				return nil, err
			}
			out = filtered
		}
	}

	if len(state.Signals) == 0 {
		return out, nil
	}

	selected := &ingest.Table{}
	if timeCol != "" {
		// Keep raw Time alongside Time_s so exports stay self-describing.
		if col := out.Column(ingest.TimeColumn); col != nil {
			selected.Columns = append(selected.Columns, *col)
		}
		if col := out.Column(ingest.TimeSecondsColumn); col != nil && timeCol == ingest.TimeSecondsColumn {
			selected.Columns = append(selected.Columns, *col)
		}
	}
	for _, name := range state.Signals {
		col := out.Column(name)
		if col == nil {
			return nil, fmt.Errorf("unknown signal %q (have: %v)", name, Signals(t))
		}
		selected.Columns = append(selected.Columns, *col)
	}
	return selected, nil
}

// AxisLabel builds a display label for a column, appending the unit when one
// is known. Falls back to the conventional time labels for unannotated logs.
func AxisLabel(col string, units ingest.UnitsMap) string {
	if unit := units[col]; unit != "" {
		return fmt.Sprintf("%s [%s]", col, unit)
	}
	switch col {
	case ingest.TimeSecondsColumn:
		return "Time (s)"
	case ingest.TimeColumn:
		return "Time (ms)"
	}
	return col
}
