// Package stats computes per-signal summary statistics over normalized tables.
package stats

import (
	"math"
	"sort"

	"daqview/pkg/ingest"
)

// Summary describes one signal column. When Count is zero the signal had no
// valid samples (e.g. a sensor that was never connected) and the numeric
// fields are zero and meaningless.
type Summary struct {
	Signal string  `json:"signal"`
	Unit   string  `json:"unit,omitempty"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes summaries for the given signal columns, in order.
// Missing values are excluded from every statistic. Unknown names are
// skipped; an all-missing signal yields a Count of zero, not an error.
func Summarize(t *ingest.Table, units ingest.UnitsMap, signals []string) []Summary {
	out := make([]Summary, 0, len(signals))
	for _, name := range signals {
		col := t.Column(name)
		if col == nil {
			continue
		}
		s := summarizeColumn(col)
		s.Unit = units[name]
		out = append(out, s)
	}
	return out
}

func summarizeColumn(col *ingest.Column) Summary {
	valid := col.Valid()
	s := Summary{Signal: col.Name, Count: len(valid)}
	if len(valid) == 0 {
		return s
	}

	s.Min, s.Max = valid[0], valid[0]
	sum := 0.0
	for _, v := range valid {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Mean = sum / float64(len(valid))
	s.Median = median(valid)
	s.StdDev = stddev(valid, s.Mean)
	return s
}

func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

func stddev(vals []float64, mean float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}
