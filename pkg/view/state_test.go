package view

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if s.PlotMode != PlotModeStacked {
		t.Errorf("PlotMode = %q, want stacked", s.PlotMode)
	}
	if s.Theme != ThemeDark {
		t.Errorf("Theme = %q, want dark", s.Theme)
	}
}

func TestLoadState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "view.yaml")
	content := `signals:
  - Speed
  - RPM
time_range:
  start: 1.5
  end: 10
plot_mode: overlay
theme: light
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}

	if !reflect.DeepEqual(s.Signals, []string{"Speed", "RPM"}) {
		t.Errorf("Signals = %v", s.Signals)
	}
	if s.TimeRange == nil || s.TimeRange.Start != 1.5 || s.TimeRange.End != 10 {
		t.Errorf("TimeRange = %+v", s.TimeRange)
	}
	if s.PlotMode != PlotModeOverlay {
		t.Errorf("PlotMode = %q, want overlay", s.PlotMode)
	}
	if s.Theme != ThemeLight {
		t.Errorf("Theme = %q, want light", s.Theme)
	}
}

func TestLoadState_DefaultsApplied(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "view.yaml")
	if err := os.WriteFile(path, []byte("signals: [Speed]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if s.PlotMode != PlotModeStacked || s.Theme != ThemeDark {
		t.Errorf("defaults not applied: %+v", s)
	}
}

func TestLoadState_InvalidPlotMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "view.yaml")
	if err := os.WriteFile(path, []byte("plot_mode: spiral\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadState(path); err == nil {
		t.Error("LoadState() expected error for invalid plot_mode")
	}
}

func TestLoadState_MissingFile(t *testing.T) {
	if _, err := LoadState("/no/such/view.yaml"); err == nil {
		t.Error("LoadState() expected error for missing file")
	}
}

func TestState_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "view.yaml")

	orig := &State{
		Signals:   []string{"RPM"},
		TimeRange: &Range{Start: 0, End: 5},
		PlotMode:  PlotModeOverlay,
		Theme:     ThemeLight,
	}
	if err := orig.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, orig) {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, orig)
	}
}
