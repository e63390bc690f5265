package cutflow

import "fmt"

// Accumulator holds the cutflow counters of one selector instance.
//
// INVARIANTS:
//   - counters NEVER decrease
//   - ObjectsPassed <= ObjectsSeen
//   - EventsPassed <= Events
type Accumulator struct {
	name    string
	enabled bool

	events               int64
	eventsPassed         int64
	weightedEventsPassed float64
	objectsSeen          int64
	objectsPassed        int64
}

// New returns an accumulator writing to the bin labelled name. A disabled
// accumulator still counts but Finalize leaves the histograms untouched.
func New(name string, enabled bool) *Accumulator {
	return &Accumulator{name: name, enabled: enabled}
}

// Name returns the histogram bin label.
func (a *Accumulator) Name() string {
	return a.name
}

// Enabled reports whether Finalize writes to the histograms.
func (a *Accumulator) Enabled() bool {
	return a.enabled
}

// AddEvent counts one event seen by the counted pass.
func (a *Accumulator) AddEvent() {
	a.events++
}

// AddObjects adds evaluated and passing object counts.
// Panics if passed exceeds seen or either is negative; both indicate a
// caller bug rather than a data condition.
func (a *Accumulator) AddObjects(seen, passed int) {
	if seen < 0 || passed < 0 || passed > seen {
		panic(fmt.Sprintf("cutflow: invalid object counts seen=%d passed=%d", seen, passed))
	}
	a.objectsSeen += int64(seen)
	a.objectsPassed += int64(passed)
}

// AddEventPass counts one passing event with the given weight.
func (a *Accumulator) AddEventPass(weight float64) {
	a.eventsPassed++
	a.weightedEventsPassed += weight
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Name                 string  `json:"name"`
	Events               int64   `json:"events"`
	EventsPassed         int64   `json:"events_passed"`
	WeightedEventsPassed float64 `json:"weighted_events_passed"`
	ObjectsSeen          int64   `json:"objects_seen"`
	ObjectsPassed        int64   `json:"objects_passed"`
}

// Snapshot returns the current counters.
func (a *Accumulator) Snapshot() Snapshot {
	return Snapshot{
		Name:                 a.name,
		Events:               a.events,
		EventsPassed:         a.eventsPassed,
		WeightedEventsPassed: a.weightedEventsPassed,
		ObjectsSeen:          a.objectsSeen,
		ObjectsPassed:        a.objectsPassed,
	}
}

// Finalize writes the raw and weighted event-pass counts into the bin
// labelled with the accumulator's name. It is a no-op when disabled.
func (a *Accumulator) Finalize(raw, weighted Histogram) {
	if !a.enabled {
		return
	}
	raw.SetBinContent(raw.FindBin(a.name), float64(a.eventsPassed))
	weighted.SetBinContent(weighted.FindBin(a.name), a.weightedEventsPassed)
}
