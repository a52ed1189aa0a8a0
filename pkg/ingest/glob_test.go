package ingest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"run1.csv", "run2.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ExpandGlobs([]string{filepath.Join(dir, "*.csv")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "run1.csv"),
		filepath.Join(dir, "run2.csv"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandGlobs() = %v, want %v", got, want)
	}
}

func TestExpandGlobs_LiteralPassthrough(t *testing.T) {
	got, err := ExpandGlobs([]string{"/no/such/file.csv"})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"/no/such/file.csv"}) {
		t.Errorf("ExpandGlobs() = %v, want literal passthrough", got)
	}
}

func TestExpandGlobs_Dedup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.csv")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ExpandGlobs([]string{path, filepath.Join(dir, "*.csv")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ExpandGlobs() = %v, want one deduplicated entry", got)
	}
}
