package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Structural failures. These are the only conditions that abort a load;
// everything past header discovery degrades cell-by-cell instead.
var (
	// ErrEmptyDocument indicates the file contained no lines at all.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrHeaderNotFound indicates no line starting with the quoted "Time"
	// token exists anywhere in the document.
	ErrHeaderNotFound = errors.New(`no header line starting with "Time" found`)

	// ErrNoColumns indicates the header row contained no named columns.
	ErrNoColumns = errors.New("header row has no named columns")
)

// headerToken is the literal that marks the tabular header line. DashDAQ
// always quotes the first header field.
const headerToken = `"Time"`

// Load reads and normalizes a DashDAQ CSV export from disk.
func Load(path string) (*Result, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", path, err)
	}
	res.Source = path
	return res, nil
}

// Parse reads and normalizes a DashDAQ CSV export from r.
//
// The pipeline is one synchronous pass: decode lines, locate the header, parse
// the tabular region, split off the units row, coerce cells to numbers, derive
// Time_s. Only header discovery and a columnless header are fatal; a cell that
// fails numeric coercion becomes a missing value, never an error.
func Parse(r io.Reader) (*Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyDocument
	}

	headerIdx, err := locateHeader(lines)
	if err != nil {
		return nil, err
	}

	columns, rows, err := parseTabularRegion(lines[headerIdx:])
	if err != nil {
		return nil, err
	}

	unitsRow, dataRows := splitUnitsRow(columns, rows)

	table, badCells := coerceNumeric(columns, dataRows)
	derived := deriveTimeSeconds(table)
	units := buildUnitsMap(unitsRow, columns, derived)

	return &Result{
		Table:       table,
		Units:       units,
		HeaderLine:  headerIdx,
		HasUnitsRow: unitsRow != nil,
		BadCells:    badCells,
	}, nil
}

// readLines decodes the raw bytes as Latin-1 and splits them into lines.
// DashDAQ exports use a single-byte encoding; degree signs and the like land
// in the units row.
func readLines(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, charmap.ISO8859_1.NewDecoder())

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return lines, nil
}

// locateHeader returns the index of the first line whose trimmed content
// begins with the quoted "Time" token. Everything before it is vendor
// metadata and is never interpreted. There are deliberately no fallback
// heuristics; this matches exactly one vendor format.
func locateHeader(lines []string) (int, error) {
	if len(lines) == 0 {
		return 0, ErrEmptyDocument
	}
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), headerToken) {
			return i, nil
		}
	}
	return 0, ErrHeaderNotFound
}

// parseTabularRegion interprets region as comma-delimited tabular text with
// the first line as column names. Placeholder columns (an empty name from a
// dangling trailing comma) are removed from the column set and their cells
// removed from every row in lock-step, so positional correspondence between
// names and values is preserved.
func parseTabularRegion(region []string) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(strings.Join(region, "\n")))
	reader.FieldsPerRecord = -1 // rows may carry trailing empties
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing tabular region: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrNoColumns
	}

	header := records[0]

	// Indices of real (named) columns; everything else is a placeholder.
	keep := make([]int, 0, len(header))
	columns := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		keep = append(keep, i)
		columns = append(columns, name)
	}
	if len(columns) == 0 {
		return nil, nil, ErrNoColumns
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(record) {
				row[j] = record[idx]
			}
		}
		rows = append(rows, row)
	}

	return columns, rows, nil
}

// splitUnitsRow decides whether the first data row is a units annotation.
//
// The rule is the single normalization heuristic in the ingestor: the row is
// a units row iff its Time cell fails numeric parsing. A file whose first
// genuine sample had non-numeric text in the Time field would be
// misclassified; that ambiguity is inherent to the format and preserved
// as-is rather than papered over.
func splitUnitsRow(columns []string, rows [][]string) ([]string, [][]string) {
	timeIdx := indexOf(columns, TimeColumn)
	if timeIdx < 0 || len(rows) == 0 {
		return nil, rows
	}

	first := rows[0]
	if timeIdx >= len(first) {
		return nil, rows
	}
	if _, err := parseCell(first[timeIdx]); err == nil {
		// Numeric Time: genuine data, not units. Keep it.
		return nil, rows
	}
	return first, rows[1:]
}

// coerceNumeric converts text rows into float64 columns. A cell that fails
// to parse becomes a missing value; one bad cell never invalidates its row,
// its column, or the load. Returns the table and the failed-cell count.
func coerceNumeric(columns []string, rows [][]string) (*Table, int) {
	table := &Table{Columns: make([]Column, len(columns))}
	for i, name := range columns {
		table.Columns[i] = Column{
			Name:   name,
			Values: make([]float64, len(rows)),
		}
	}

	bad := 0
	for r, row := range rows {
		for c := range columns {
			var cell string
			if c < len(row) {
				cell = row[c]
			}
			v, err := parseCell(cell)
			if err != nil {
				v = Missing
				bad++
			}
			table.Columns[c].Values[r] = v
		}
	}
	return table, bad
}

// deriveTimeSeconds appends Time_s = (Time - min(Time)) / 1000 to the table,
// assuming the source Time channel is milliseconds. Requires a Time column
// with at least one non-missing sample; otherwise no column is added and the
// caller falls back to raw Time. Missing Time propagates to missing Time_s.
// Reports whether the column was added.
func deriveTimeSeconds(table *Table) bool {
	timeCol := table.Column(TimeColumn)
	if timeCol == nil {
		return false
	}

	min := Missing
	for _, v := range timeCol.Values {
		if IsMissing(v) {
			continue
		}
		if IsMissing(min) || v < min {
			min = v
		}
	}
	if IsMissing(min) {
		return false
	}

	derived := Column{
		Name:   TimeSecondsColumn,
		Values: make([]float64, len(timeCol.Values)),
	}
	for i, v := range timeCol.Values {
		if IsMissing(v) {
			derived.Values[i] = Missing
			continue
		}
		derived.Values[i] = (v - min) / 1000.0
	}
	table.Columns = append(table.Columns, derived)
	return true
}

// buildUnitsMap maps column names to unit labels. With a units row present,
// every column maps to its raw cell text (Time typically to "ms"). The
// synthetic Time_s always maps to "s" when it was derived.
func buildUnitsMap(unitsRow []string, columns []string, derived bool) UnitsMap {
	units := make(UnitsMap)
	if unitsRow != nil {
		for i, name := range columns {
			if i < len(unitsRow) {
				units[name] = unitsRow[i]
			}
		}
	}
	if derived {
		units[TimeSecondsColumn] = "s"
	}
	return units
}

// parseCell attempts locale-invariant numeric parsing of a single cell.
func parseCell(cell string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}

func indexOf(names []string, target string) int {
	for i, n := range names {
		if n == target {
			return i
		}
	}
	return -1
}
