package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSniffLines_FullStructure(t *testing.T) {
	s := NewSniffer()
	result := s.SniffLines(strings.Split(strings.TrimRight(sampleLog, "\n"), "\n"))

	if !result.LooksLikeLog() {
		t.Fatal("LooksLikeLog() = false, want true")
	}
	if result.HeaderLine != 3 {
		t.Errorf("HeaderLine = %d, want 3", result.HeaderLine)
	}
	if result.MetadataLines != 3 {
		t.Errorf("MetadataLines = %d, want 3", result.MetadataLines)
	}
	if !result.HasUnitsRow {
		t.Error("HasUnitsRow = false, want true")
	}
	if result.DataRows != 3 {
		t.Errorf("DataRows = %d, want 3", result.DataRows)
	}
}

func TestSniffLines_NoHeader(t *testing.T) {
	s := NewSniffer()
	result := s.SniffLines([]string{"plain", "text", "file"})

	if result.LooksLikeLog() {
		t.Error("LooksLikeLog() = true, want false")
	}
	if result.HeaderLine != -1 {
		t.Errorf("HeaderLine = %d, want -1", result.HeaderLine)
	}
}

func TestSniffLines_NoUnitsRow(t *testing.T) {
	s := NewSniffer()
	result := s.SniffLines([]string{`"Time","Speed",`, "0,10,", "100,11,"})

	if result.HasUnitsRow {
		t.Error("HasUnitsRow = true, want false")
	}
	if result.DataRows != 2 {
		t.Errorf("DataRows = %d, want 2", result.DataRows)
	}
}

func TestSniffFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.csv")
	if err := os.WriteFile(path, []byte(sampleLog), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewSniffer(WithSampleSize(10))
	result, err := s.SniffFile(context.Background(), path)
	if err != nil {
		t.Fatalf("SniffFile() error = %v", err)
	}
	if !result.LooksLikeLog() {
		t.Error("LooksLikeLog() = false, want true")
	}
}

func TestSniffFile_Missing(t *testing.T) {
	s := NewSniffer()
	if _, err := s.SniffFile(context.Background(), "/no/such/file.csv"); err == nil {
		t.Error("SniffFile() expected error for missing file")
	}
}
