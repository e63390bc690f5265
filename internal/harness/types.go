package harness

import (
	"github.com/roach88/objsel/internal/cutflow"
)

// TraceEvent is the outcome of one event in the scenario.
type TraceEvent struct {
	Seq       int64  `json:"seq"`
	Event     int64  `json:"event"`
	Pass      bool   `json:"pass"`
	SkippedBy string `json:"skipped_by,omitempty"`

	// Variations holds the passing labels of each fan-out selector.
	Variations map[string][]string `json:"variations,omitempty"`

	// Outputs lists the collection keys written while processing the event.
	Outputs []string `json:"outputs,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion holds.
	Pass bool `json:"pass"`

	RunID string `json:"run_id"`

	// Trace contains one entry per processed event, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Selectors holds the accumulator counters read back from the store.
	Selectors []cutflow.Snapshot `json:"selectors"`

	// Histograms maps histogram name to its bins, read back from the store.
	Histograms map[string][]cutflow.Bin `json:"histograms"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Trace:      []TraceEvent{},
		Errors:     []string{},
		Selectors:  []cutflow.Snapshot{},
		Histograms: make(map[string][]cutflow.Bin),
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event outcome.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

// TraceFor returns the trace entry of an event number.
func (r *Result) TraceFor(number int64) (TraceEvent, bool) {
	for _, ev := range r.Trace {
		if ev.Event == number {
			return ev, true
		}
	}
	return TraceEvent{}, false
}
