package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/objsel/internal/cutflow"
)

// Report is the golden-file view of a scenario run.
// Map keys are sorted by encoding/json so the output is deterministic.
type Report struct {
	ScenarioName string                   `json:"scenario_name"`
	RunID        string                   `json:"run_id"`
	Trace        []TraceEvent             `json:"trace"`
	Selectors    []cutflow.Snapshot       `json:"selectors"`
	Histograms   map[string][]cutflow.Bin `json:"histograms"`
}

// NewReport builds the report of a result.
func NewReport(name string, result *Result) Report {
	return Report{
		ScenarioName: name,
		RunID:        result.RunID,
		Trace:        result.Trace,
		Selectors:    result.Selectors,
		Histograms:   result.Histograms,
	}
}

// MarshalReport renders the report as indented JSON with a trailing newline.
func MarshalReport(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its report against a
// golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the report doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalReport(NewReport(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
