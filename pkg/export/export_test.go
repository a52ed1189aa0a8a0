package export

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/xuri/excelize/v2"

	"daqview/pkg/ingest"
)

func testDataset() *Dataset {
	return &Dataset{
		Source: "run1.csv",
		Table: &ingest.Table{Columns: []ingest.Column{
			{Name: "Time", Values: []float64{0, 100}},
			{Name: "Speed", Values: []float64{45.2, math.NaN()}},
			{Name: "Time_s", Values: []float64{0, 0.1}},
		}},
		Units: ingest.UnitsMap{"Time": "ms", "Speed": "kph", "Time_s": "s"},
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"csv", "json", "xlsx"} {
		e, ok := New(format, Options{})
		if !ok {
			t.Errorf("New(%q) not found", format)
			continue
		}
		if e.Name() != format {
			t.Errorf("Name() = %q, want %q", e.Name(), format)
		}
	}

	if _, ok := New("parquet", Options{}); ok {
		t.Error("New(parquet) should not be found")
	}
}

func TestCSVExporter(t *testing.T) {
	e := NewCSVExporter(Options{IncludeUnits: true})

	var buf bytes.Buffer
	if err := e.Export(context.Background(), testDataset(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	want := "Time,Speed,Time_s\nms,kph,s\n0,45.2,0\n100,,0.1\n"
	if got := buf.String(); got != want {
		t.Errorf("Export() =\n%q\nwant\n%q", got, want)
	}
}

func TestCSVExporter_NoUnits(t *testing.T) {
	e := NewCSVExporter(Options{})

	var buf bytes.Buffer
	if err := e.Export(context.Background(), testDataset(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	want := "Time,Speed,Time_s\n0,45.2,0\n100,,0.1\n"
	if got := buf.String(); got != want {
		t.Errorf("Export() =\n%q\nwant\n%q", got, want)
	}
}

func TestJSONExporter(t *testing.T) {
	e := NewJSONExporter(Options{IncludeUnits: true})

	var buf bytes.Buffer
	if err := e.Export(context.Background(), testDataset(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var doc struct {
		Source  string                `json:"source"`
		Columns []string              `json:"columns"`
		Rows    int                   `json:"rows"`
		Units   map[string]string     `json:"units"`
		Data    map[string][]*float64 `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc.Source != "run1.csv" || doc.Rows != 2 {
		t.Errorf("source/rows = %q/%d", doc.Source, doc.Rows)
	}
	if doc.Units["Time_s"] != "s" {
		t.Errorf("units = %v", doc.Units)
	}

	speed := doc.Data["Speed"]
	if len(speed) != 2 || speed[0] == nil || *speed[0] != 45.2 {
		t.Errorf("Speed = %v", speed)
	}
	if speed[1] != nil {
		t.Errorf("Speed[1] = %v, want null for missing", *speed[1])
	}
}

func TestXLSXExporter(t *testing.T) {
	e := NewXLSXExporter(Options{IncludeUnits: true})

	var buf bytes.Buffer
	if err := e.Export(context.Background(), testDataset(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("output is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}

	// Header + units + 2 data rows.
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if rows[0][0] != "Time" || rows[0][2] != "Time_s" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "kph" {
		t.Errorf("units row = %v", rows[1])
	}
	if rows[2][1] != "45.2" {
		t.Errorf("data row = %v", rows[2])
	}
	// Missing value stays an empty cell.
	if len(rows[3]) > 1 && rows[3][1] != "" {
		t.Errorf("missing cell = %q, want empty", rows[3][1])
	}
}

func TestExport_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewCSVExporter(Options{})
	var buf bytes.Buffer
	if err := e.Export(ctx, testDataset(), &buf); err == nil {
		t.Error("Export() expected context error")
	}
}
