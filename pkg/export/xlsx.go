package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"daqview/pkg/ingest"
)

// xlsxSheet is the worksheet the table is written to.
const xlsxSheet = "Telemetry"

// XLSXExporter writes the dataset as an Excel workbook with one worksheet:
// header row, optional units row, then data. Missing values become empty
// cells.
type XLSXExporter struct {
	opts Options
}

// NewXLSXExporter creates an XLSX exporter with the given options.
func NewXLSXExporter(opts Options) *XLSXExporter {
	return &XLSXExporter{opts: opts}
}

// Name returns the format name.
func (e *XLSXExporter) Name() string {
	return "xlsx"
}

// Export writes the dataset as an XLSX workbook.
func (e *XLSXExporter) Export(ctx context.Context, ds *Dataset, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	names := ds.Table.Names()
	row := 1
	if err := e.writeStringRow(f, row, names); err != nil {
		return err
	}

	if e.opts.IncludeUnits && len(ds.Units) > 0 {
		units := make([]string, len(names))
		for i, name := range names {
			units[i] = ds.Units[name]
		}
		row++
		if err := e.writeStringRow(f, row, units); err != nil {
			return err
		}
	}

	for r := 0; r < ds.Table.NumRows(); r++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row++
		for c := range ds.Table.Columns {
			v := ds.Table.Columns[c].Values[r]
			if ingest.IsMissing(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return fmt.Errorf("addressing cell: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, v); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (e *XLSXExporter) writeStringRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("addressing cell: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
