package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/event"
	"github.com/roach88/objsel/internal/ir"
	"github.com/roach88/objsel/internal/testutil"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func sampleResult() *Result {
	r := NewResult()
	r.AddTrace(TraceEvent{Seq: 1, Event: 10, Pass: true})
	r.AddTrace(TraceEvent{Seq: 2, Event: 11, Pass: false, SkippedBy: "muonSelect"})
	r.Selectors = []cutflow.Snapshot{{Name: "muonSelect", Events: 2, EventsPassed: 1, WeightedEventsPassed: 0.5, ObjectsSeen: 3, ObjectsPassed: 1}}
	r.Histograms[cutflow.RawName] = []cutflow.Bin{{Label: "all", Content: 2}, {Label: "muonSelect", Content: 1}}
	return r
}

func sampleContext(t *testing.T) *AssertionContext {
	t.Helper()
	mu := testutil.Muon(25, 0.5, ir.MuonCombined)
	mu.Decorate(ir.DecorPassSel, 1)
	s := testutil.Store(10, 1, map[string]ir.Collection{"Muons": {mu}})
	require.NoError(t, s.RecordLabels("MuonSelector_Syst", []string{"", "_SYS_UP"}))
	return &AssertionContext{Stores: map[int64]*event.Store{10: s}}
}

func TestAssertEventPass(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertEventPass(r, Assertion{Event: 10, Pass: boolPtr(true)}))
	assert.NoError(t, assertEventPass(r, Assertion{Event: 11, Pass: boolPtr(false), SkippedBy: "muonSelect"}))

	err := assertEventPass(r, Assertion{Event: 11, Pass: boolPtr(false), SkippedBy: "electronSelect"})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertEventPass, ae.Type)
	assert.Contains(t, ae.Error(), "event 11: skipped by muonSelect")

	assert.Error(t, assertEventPass(r, Assertion{Event: 10, Pass: boolPtr(false)}))
	assert.Error(t, assertEventPass(r, Assertion{Event: 99, Pass: boolPtr(true)}))
}

func TestAssertCutflow(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertCutflow(r, Assertion{Bins: map[string]float64{"all": 2}}))
	assert.Error(t, assertCutflow(r, Assertion{Bins: map[string]float64{"muonSelect": 2}}))
	assert.Error(t, assertCutflow(r, Assertion{Bins: map[string]float64{"electronSelect": 0}}))

	err := assertCutflow(r, Assertion{Histogram: cutflow.WeightedName, Bins: map[string]float64{"all": 2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such bin")
}

func TestAssertSelectorCounts(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertSelectorCounts(r, Assertion{
		Selector: "muonSelect",
		Counts:   map[string]float64{"events": 2, "weighted_events_passed": 0.5, "objects_seen": 3},
	}))

	err := assertSelectorCounts(r, Assertion{Selector: "muonSelect", Counts: map[string]float64{"objects_passed": 2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "muonSelect objects_passed = 2")

	assert.Error(t, assertSelectorCounts(r, Assertion{Selector: "other", Counts: map[string]float64{"events": 2}}))
}

func TestAssertLabels(t *testing.T) {
	r := sampleResult()
	actx := sampleContext(t)

	assert.NoError(t, assertLabels(r, Assertion{Event: 10, Key: "MuonSelector_Syst", Labels: []string{"", "_SYS_UP"}}, actx))
	assert.Error(t, assertLabels(r, Assertion{Event: 10, Key: "MuonSelector_Syst", Labels: []string{"_SYS_UP", ""}}, actx), "order matters")

	err := assertLabels(r, Assertion{Event: 10, Key: "ElectronSelector_Syst", Labels: []string{}}, actx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not recorded")

	assert.Error(t, assertLabels(r, Assertion{Event: 11, Key: "MuonSelector_Syst", Labels: []string{}}, actx))
}

func TestAssertDecorations(t *testing.T) {
	r := sampleResult()
	actx := sampleContext(t)

	assert.NoError(t, assertDecorations(r, Assertion{Event: 10, Collection: "Muons", Decorations: map[string]int{"passSel": 1}}, actx))
	assert.Error(t, assertDecorations(r, Assertion{Event: 10, Collection: "Muons", Decorations: map[string]int{"passSel": 0}}, actx))
	assert.Error(t, assertDecorations(r, Assertion{Event: 10, Collection: "Muons", Decorations: map[string]int{"isIsolated": 1}}, actx))
	assert.Error(t, assertDecorations(r, Assertion{Event: 10, Collection: "Muons", Index: 1, Decorations: map[string]int{"passSel": 1}}, actx))
	assert.Error(t, assertDecorations(r, Assertion{Event: 10, Collection: "Electrons", Decorations: map[string]int{"passSel": 1}}, actx))
}

func TestAssertCollection(t *testing.T) {
	r := sampleResult()
	actx := sampleContext(t)

	assert.NoError(t, assertCollection(r, Assertion{Event: 10, Collection: "Muons", Present: boolPtr(true), Count: intPtr(1)}, actx))
	assert.NoError(t, assertCollection(r, Assertion{Event: 10, Collection: "Muons_Selected", Present: boolPtr(false)}, actx))
	assert.Error(t, assertCollection(r, Assertion{Event: 10, Collection: "Muons", Count: intPtr(2)}, actx))
	assert.Error(t, assertCollection(r, Assertion{Event: 10, Collection: "Muons_Selected", Count: intPtr(0)}, actx))
	assert.Error(t, assertCollection(r, Assertion{Event: 10, Collection: "Muons", Present: boolPtr(false)}, actx))
}

func TestEvaluateAssertions_CollectsFailures(t *testing.T) {
	r := sampleResult()
	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertEventPass, Event: 10, Pass: boolPtr(true)},
		{Type: AssertEventPass, Event: 10, Pass: boolPtr(false)},
		{Type: AssertLabels, Event: 10, Key: "k", Labels: []string{}},
		{Type: "bogus"},
	}, nil)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[1], "labels requires event stores")
	assert.Contains(t, errs[2], `unknown assertion type "bogus"`)
}
