package ingest

import (
	"bufio"
	"context"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// SniffResult describes what a quick structural probe of a file found.
// It is cheap enough to run over many candidate files before committing to
// a full load.
type SniffResult struct {
	// SampledLines is how many lines were examined.
	SampledLines int

	// HeaderLine is the 0-based index of the tabular header within the
	// sample, or -1 if no header line was seen.
	HeaderLine int

	// MetadataLines counts the free-form lines before the header.
	MetadataLines int

	// DataRows counts sampled rows after the header whose first field parses
	// as a number.
	DataRows int

	// HasUnitsRow reports whether the row after the header looks like a
	// units annotation (non-numeric first field).
	HasUnitsRow bool
}

// LooksLikeLog reports whether the sample is plausibly a DashDAQ export.
func (r *SniffResult) LooksLikeLog() bool {
	return r.HeaderLine >= 0
}

// Sniffer probes files for DashDAQ structure without fully ingesting them.
type Sniffer struct {
	sampleSize int
}

// SnifferOption configures the Sniffer.
type SnifferOption func(*Sniffer)

// WithSampleSize sets the number of lines to sample (default 200).
func WithSampleSize(n int) SnifferOption {
	return func(s *Sniffer) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// NewSniffer creates a Sniffer.
func NewSniffer(opts ...SnifferOption) *Sniffer {
	s := &Sniffer{sampleSize: 200}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SniffFile samples the first lines of a file and probes their structure.
func (s *Sniffer) SniffFile(ctx context.Context, path string) (*SniffResult, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for len(lines) < s.sampleSize && scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return s.SniffLines(lines), nil
}

// SniffLines probes a slice of already-read lines.
func (s *Sniffer) SniffLines(lines []string) *SniffResult {
	result := &SniffResult{
		SampledLines: len(lines),
		HeaderLine:   -1,
	}

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), headerToken) {
			result.HeaderLine = i
			result.MetadataLines = i
			break
		}
	}
	if result.HeaderLine < 0 {
		return result
	}

	for i, line := range lines[result.HeaderLine+1:] {
		first, _, _ := strings.Cut(line, ",")
		if _, err := parseCell(first); err == nil {
			result.DataRows++
		} else if i == 0 && strings.TrimSpace(line) != "" {
			result.HasUnitsRow = true
		}
	}

	return result
}
