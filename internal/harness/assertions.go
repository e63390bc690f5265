package harness

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/event"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			status := "pass"
			if !ev.Pass {
				status = "skipped by " + ev.SkippedBy
			}
			fmt.Fprintf(&buf, "  [%d] event %d: %s\n", ev.Seq, ev.Event, status)
		}
	}

	return buf.String()
}

// snapshotFields maps selector_counts field names to accumulator counters.
var snapshotFields = map[string]func(cutflow.Snapshot) float64{
	"events":                 func(s cutflow.Snapshot) float64 { return float64(s.Events) },
	"events_passed":          func(s cutflow.Snapshot) float64 { return float64(s.EventsPassed) },
	"weighted_events_passed": func(s cutflow.Snapshot) float64 { return s.WeightedEventsPassed },
	"objects_seen":           func(s cutflow.Snapshot) float64 { return float64(s.ObjectsSeen) },
	"objects_passed":         func(s cutflow.Snapshot) float64 { return float64(s.ObjectsPassed) },
}

// AssertionContext provides the post-run event stores.
type AssertionContext struct {
	// Stores maps event number to the event store after processing.
	Stores map[int64]*event.Store
}

func (c *AssertionContext) store(typ string, number int64, trace []TraceEvent) (*event.Store, error) {
	if c == nil || c.Stores == nil {
		return nil, fmt.Errorf("%s requires event stores", typ)
	}
	s, ok := c.Stores[number]
	if !ok {
		return nil, &AssertionError{
			Type:     typ,
			Expected: fmt.Sprintf("event %d", number),
			Actual:   "event not in scenario",
			Trace:    trace,
		}
	}
	return s, nil
}

// assertEventPass checks the outcome of one event.
func assertEventPass(result *Result, a Assertion) error {
	ev, ok := result.TraceFor(a.Event)
	if !ok {
		return &AssertionError{
			Type:     AssertEventPass,
			Expected: fmt.Sprintf("event %d processed", a.Event),
			Actual:   "event not in trace",
			Trace:    result.Trace,
		}
	}

	if ev.Pass != *a.Pass {
		return &AssertionError{
			Type:     AssertEventPass,
			Expected: fmt.Sprintf("event %d pass=%t", a.Event, *a.Pass),
			Actual:   fmt.Sprintf("pass=%t", ev.Pass),
			Trace:    result.Trace,
		}
	}
	if a.SkippedBy != "" && ev.SkippedBy != a.SkippedBy {
		return &AssertionError{
			Type:     AssertEventPass,
			Expected: fmt.Sprintf("event %d skipped by %s", a.Event, a.SkippedBy),
			Actual:   fmt.Sprintf("skipped by %q", ev.SkippedBy),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertCutflow checks histogram bin contents. Bins not named are ignored.
func assertCutflow(result *Result, a Assertion) error {
	name := a.Histogram
	if name == "" {
		name = cutflow.RawName
	}
	bins := result.Histograms[name]

	for _, label := range sortedKeys(a.Bins) {
		want := a.Bins[label]
		i := slices.IndexFunc(bins, func(b cutflow.Bin) bool { return b.Label == label })
		if i < 0 {
			return &AssertionError{
				Type:     AssertCutflow,
				Expected: fmt.Sprintf("%s bin %q = %g", name, label, want),
				Actual:   fmt.Sprintf("no such bin in %v", bins),
			}
		}
		if !floatEqual(bins[i].Content, want) {
			return &AssertionError{
				Type:     AssertCutflow,
				Expected: fmt.Sprintf("%s bin %q = %g", name, label, want),
				Actual:   fmt.Sprintf("%g", bins[i].Content),
			}
		}
	}
	return nil
}

// assertSelectorCounts checks the counters of one accumulator.
func assertSelectorCounts(result *Result, a Assertion) error {
	i := slices.IndexFunc(result.Selectors, func(s cutflow.Snapshot) bool { return s.Name == a.Selector })
	if i < 0 {
		return &AssertionError{
			Type:     AssertSelectorCounts,
			Expected: fmt.Sprintf("selector %s", a.Selector),
			Actual:   "selector not in run",
		}
	}
	snap := result.Selectors[i]

	for _, field := range sortedKeys(a.Counts) {
		got := snapshotFields[field](snap)
		if !floatEqual(got, a.Counts[field]) {
			return &AssertionError{
				Type:     AssertSelectorCounts,
				Expected: fmt.Sprintf("%s %s = %g", a.Selector, field, a.Counts[field]),
				Actual:   fmt.Sprintf("%g", got),
			}
		}
	}
	return nil
}

// assertLabels checks a published variation list, order included.
func assertLabels(result *Result, a Assertion, actx *AssertionContext) error {
	s, err := actx.store(AssertLabels, a.Event, result.Trace)
	if err != nil {
		return err
	}

	got, err := s.Labels(a.Key)
	if errors.Is(err, event.ErrNotFound) {
		return &AssertionError{
			Type:     AssertLabels,
			Expected: fmt.Sprintf("event %d %s = %q", a.Event, a.Key, a.Labels),
			Actual:   "not recorded",
			Trace:    result.Trace,
		}
	}
	if err != nil {
		return err
	}

	if !slices.Equal(got, a.Labels) {
		return &AssertionError{
			Type:     AssertLabels,
			Expected: fmt.Sprintf("event %d %s = %q", a.Event, a.Key, a.Labels),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertDecorations checks decorations on one object (subset match).
func assertDecorations(result *Result, a Assertion, actx *AssertionContext) error {
	s, err := actx.store(AssertDecorations, a.Event, result.Trace)
	if err != nil {
		return err
	}

	coll, err := s.Collection(a.Collection)
	if err != nil {
		return &AssertionError{
			Type:     AssertDecorations,
			Expected: fmt.Sprintf("event %d collection %s", a.Event, a.Collection),
			Actual:   err.Error(),
		}
	}
	if a.Index >= len(coll) {
		return &AssertionError{
			Type:     AssertDecorations,
			Expected: fmt.Sprintf("object %d in %s", a.Index, a.Collection),
			Actual:   fmt.Sprintf("collection has %d objects", len(coll)),
		}
	}

	obj := coll[a.Index]
	for _, key := range sortedKeys(a.Decorations) {
		want := a.Decorations[key]
		got, ok := obj.Decoration(key)
		if !ok {
			return &AssertionError{
				Type:     AssertDecorations,
				Expected: fmt.Sprintf("event %d %s[%d].%s = %d", a.Event, a.Collection, a.Index, key, want),
				Actual:   "not decorated",
			}
		}
		if got != want {
			return &AssertionError{
				Type:     AssertDecorations,
				Expected: fmt.Sprintf("event %d %s[%d].%s = %d", a.Event, a.Collection, a.Index, key, want),
				Actual:   fmt.Sprintf("%d", got),
			}
		}
	}
	return nil
}

// assertCollection checks presence and size of a collection.
func assertCollection(result *Result, a Assertion, actx *AssertionContext) error {
	s, err := actx.store(AssertCollection, a.Event, result.Trace)
	if err != nil {
		return err
	}

	present := s.HasCollection(a.Collection)
	if a.Present != nil && present != *a.Present {
		return &AssertionError{
			Type:     AssertCollection,
			Expected: fmt.Sprintf("event %d %s present=%t", a.Event, a.Collection, *a.Present),
			Actual:   fmt.Sprintf("present=%t (keys %v)", present, s.CollectionKeys()),
			Trace:    result.Trace,
		}
	}

	if a.Count != nil {
		coll, err := s.Collection(a.Collection)
		if err != nil {
			return &AssertionError{
				Type:     AssertCollection,
				Expected: fmt.Sprintf("event %d %s has %d objects", a.Event, a.Collection, *a.Count),
				Actual:   "collection not recorded",
				Trace:    result.Trace,
			}
		}
		if len(coll) != *a.Count {
			return &AssertionError{
				Type:     AssertCollection,
				Expected: fmt.Sprintf("event %d %s has %d objects", a.Event, a.Collection, *a.Count),
				Actual:   fmt.Sprintf("%d objects", len(coll)),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEventPass:
			err = assertEventPass(result, assertion)
		case AssertCutflow:
			err = assertCutflow(result, assertion)
		case AssertSelectorCounts:
			err = assertSelectorCounts(result, assertion)
		case AssertLabels:
			err = assertLabels(result, assertion, actx)
		case AssertDecorations:
			err = assertDecorations(result, assertion, actx)
		case AssertCollection:
			err = assertCollection(result, assertion, actx)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func floatEqual(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
