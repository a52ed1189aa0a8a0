// Package view provides explicit, serializable viewer state and the
// table-slicing helpers that presentation layers consume.
package view

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PlotMode selects how multiple signals are rendered.
type PlotMode string

const (
	// PlotModeStacked renders one subplot per signal, sharing the time axis.
	PlotModeStacked PlotMode = "stacked"

	// PlotModeOverlay renders all signals on a single axis.
	PlotModeOverlay PlotMode = "overlay"
)

// Theme selects the rendering palette.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Range is an inclusive time window over the selected time column.
type Range struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// State is everything a viewer needs to reproduce a view of one log: which
// signals are shown, over which time window, and how. It replaces mutable
// in-place UI attributes so a rendering layer can be driven entirely from
// data that round-trips through YAML.
type State struct {
	// Signals are the column names to display, in display order. Empty
	// means all signals.
	Signals []string `yaml:"signals,omitempty"`

	// TimeRange limits the view to a time window. Nil means full extent.
	TimeRange *Range `yaml:"time_range,omitempty"`

	// PlotMode is "stacked" or "overlay".
	PlotMode PlotMode `yaml:"plot_mode"`

	// Theme is "dark" or "light".
	Theme Theme `yaml:"theme"`
}

// DefaultState returns a State with the viewer's startup defaults.
func DefaultState() *State {
	return &State{
		PlotMode: PlotModeStacked,
		Theme:    ThemeDark,
	}
}

// LoadState reads and validates a view state file.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided state path is expected
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	state := DefaultState()
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}

	if err := Validate(state); err != nil {
		return nil, fmt.Errorf("validating state file %s: %w", path, err)
	}

	return state, nil
}

// Save writes the state to a YAML file.
func (s *State) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { // #nosec G306 -- state files are not secrets
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// Validate checks a State for errors and fills omitted fields with defaults.
func Validate(s *State) error {
	switch s.PlotMode {
	case PlotModeStacked, PlotModeOverlay:
	case "":
		s.PlotMode = PlotModeStacked
	default:
		return fmt.Errorf("invalid plot_mode %q (must be stacked or overlay)", s.PlotMode)
	}

	switch s.Theme {
	case ThemeDark, ThemeLight:
	case "":
		s.Theme = ThemeDark
	default:
		return fmt.Errorf("invalid theme %q (must be dark or light)", s.Theme)
	}

	for _, sig := range s.Signals {
		if sig == "" {
			return errors.New("signals: empty signal name")
		}
	}

	return nil
}
