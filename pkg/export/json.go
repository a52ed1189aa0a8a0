package export

import (
	"context"
	"encoding/json"
	"io"

	"daqview/pkg/ingest"
)

// JSONExporter writes the dataset as a column-oriented JSON document.
// Missing values become null, since NaN is not representable in JSON.
type JSONExporter struct {
	opts Options
}

// NewJSONExporter creates a JSON exporter with the given options.
func NewJSONExporter(opts Options) *JSONExporter {
	return &JSONExporter{opts: opts}
}

// Name returns the format name.
func (e *JSONExporter) Name() string {
	return "json"
}

type jsonDocument struct {
	Source  string                `json:"source,omitempty"`
	Columns []string              `json:"columns"`
	Rows    int                   `json:"rows"`
	Units   ingest.UnitsMap       `json:"units,omitempty"`
	Data    map[string][]*float64 `json:"data"`
}

// Export writes the dataset as JSON.
func (e *JSONExporter) Export(ctx context.Context, ds *Dataset, w io.Writer) error {
	doc := jsonDocument{
		Source:  ds.Source,
		Columns: ds.Table.Names(),
		Rows:    ds.Table.NumRows(),
		Data:    make(map[string][]*float64, len(ds.Table.Columns)),
	}
	if e.opts.IncludeUnits {
		doc.Units = ds.Units
	}

	for i := range ds.Table.Columns {
		col := &ds.Table.Columns[i]
		values := make([]*float64, len(col.Values))
		for j := range col.Values {
			if ingest.IsMissing(col.Values[j]) {
				continue
			}
			v := col.Values[j]
			values[j] = &v
		}
		doc.Data[col.Name] = values
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
