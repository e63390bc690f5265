package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/event"
)

// Scenario defines one selection test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is inline CUE selector configuration.
	Config string `yaml:"config,omitempty"`

	// ConfigFile is a path to a .cue file, relative to the scenario file.
	// Exactly one of Config and ConfigFile is set.
	ConfigFile string `yaml:"config_file,omitempty"`

	// Events are processed in order. Event numbers must be unique.
	Events []event.Record `yaml:"events,omitempty"`

	// EventsFile is a path to an event file, relative to the scenario file.
	// Exactly one of Events and EventsFile is set.
	EventsFile string `yaml:"events_file,omitempty"`

	// Assertions validate the outcome of the run.
	Assertions []Assertion `yaml:"assertions"`

	// RunID is an optional fixed run id.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`
}

// Assertion validates one aspect of the run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Event is the event number (event_pass, labels, decorations, collection).
	Event int64 `yaml:"event,omitempty"`

	// Pass is the expected event outcome (event_pass).
	Pass *bool `yaml:"pass,omitempty"`

	// SkippedBy is the selector expected to skip the event (event_pass).
	SkippedBy string `yaml:"skipped_by,omitempty"`

	// Histogram is "cutflow" or "cutflow_weighted" (cutflow). Defaults to raw.
	Histogram string `yaml:"histogram,omitempty"`

	// Bins maps bin label to expected content (cutflow).
	Bins map[string]float64 `yaml:"bins,omitempty"`

	// Selector names the accumulator (selector_counts).
	Selector string `yaml:"selector,omitempty"`

	// Counts maps snapshot field to expected value (selector_counts).
	Counts map[string]float64 `yaml:"counts,omitempty"`

	// Key is the store key of a label list (labels).
	Key string `yaml:"key,omitempty"`

	// Labels is the expected label list in order (labels).
	Labels []string `yaml:"labels,omitempty"`

	// Collection is a collection key (decorations, collection).
	Collection string `yaml:"collection,omitempty"`

	// Index is the object position in the collection (decorations).
	Index int `yaml:"index,omitempty"`

	// Decorations are expected decoration values; subset match (decorations).
	Decorations map[string]int `yaml:"decorations,omitempty"`

	// Present is whether the collection must exist (collection).
	Present *bool `yaml:"present,omitempty"`

	// Count is the expected collection size (collection).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertEventPass      = "event_pass"
	AssertCutflow        = "cutflow"
	AssertSelectorCounts = "selector_counts"
	AssertLabels         = "labels"
	AssertDecorations    = "decorations"
	AssertCollection     = "collection"
)

// LoadScenario reads and parses a scenario YAML file. Relative
// config_file and events_file paths resolve against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML. Unknown fields are rejected.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if basePath != "" {
		if scenario.ConfigFile != "" && !filepath.IsAbs(scenario.ConfigFile) {
			scenario.ConfigFile = filepath.Join(basePath, scenario.ConfigFile)
		}
		if scenario.EventsFile != "" && !filepath.IsAbs(scenario.EventsFile) {
			scenario.EventsFile = filepath.Join(basePath, scenario.EventsFile)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Config == "") == (s.ConfigFile == "") {
		return fmt.Errorf("exactly one of config and config_file is required")
	}
	if s.ConfigFile != "" {
		if _, err := os.Stat(s.ConfigFile); os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", s.ConfigFile)
		}
	}

	switch {
	case len(s.Events) > 0 && s.EventsFile != "":
		return fmt.Errorf("events and events_file are mutually exclusive")
	case len(s.Events) == 0 && s.EventsFile == "":
		return fmt.Errorf("events list is required and must be non-empty")
	case s.EventsFile != "":
		if _, err := os.Stat(s.EventsFile); os.IsNotExist(err) {
			return fmt.Errorf("events file not found: %s", s.EventsFile)
		}
	}

	seen := make(map[int64]bool, len(s.Events))
	for i, rec := range s.Events {
		if seen[rec.Number] {
			return fmt.Errorf("events[%d]: duplicate event number %d", i, rec.Number)
		}
		seen[rec.Number] = true
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEventPass:
		if a.Pass == nil {
			return fmt.Errorf("assertions[%d]: pass is required for event_pass", index)
		}
		if *a.Pass && a.SkippedBy != "" {
			return fmt.Errorf("assertions[%d]: skipped_by requires pass: false", index)
		}
	case AssertCutflow:
		if len(a.Bins) == 0 {
			return fmt.Errorf("assertions[%d]: bins is required for cutflow", index)
		}
		switch a.Histogram {
		case "", cutflow.RawName, cutflow.WeightedName:
		default:
			return fmt.Errorf("assertions[%d]: unknown histogram %q", index, a.Histogram)
		}
	case AssertSelectorCounts:
		if a.Selector == "" {
			return fmt.Errorf("assertions[%d]: selector is required for selector_counts", index)
		}
		if len(a.Counts) == 0 {
			return fmt.Errorf("assertions[%d]: counts is required for selector_counts", index)
		}
		for field := range a.Counts {
			if _, ok := snapshotFields[field]; !ok {
				return fmt.Errorf("assertions[%d]: unknown counter %q", index, field)
			}
		}
	case AssertLabels:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for labels", index)
		}
		if a.Labels == nil {
			return fmt.Errorf("assertions[%d]: labels is required for labels (use [] for none)", index)
		}
	case AssertDecorations:
		if a.Collection == "" {
			return fmt.Errorf("assertions[%d]: collection is required for decorations", index)
		}
		if a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative", index)
		}
		if len(a.Decorations) == 0 {
			return fmt.Errorf("assertions[%d]: decorations is required for decorations", index)
		}
	case AssertCollection:
		if a.Collection == "" {
			return fmt.Errorf("assertions[%d]: collection is required for collection", index)
		}
		if a.Present == nil && a.Count == nil {
			return fmt.Errorf("assertions[%d]: present or count is required for collection", index)
		}
		if a.Count != nil && *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
