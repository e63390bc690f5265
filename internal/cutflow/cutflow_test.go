package cutflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_Counts(t *testing.T) {
	acc := New("muonSelect", true)

	acc.AddEvent()
	acc.AddObjects(3, 2)
	acc.AddEventPass(0.5)
	acc.AddEvent()
	acc.AddObjects(1, 0)

	snap := acc.Snapshot()
	assert.Equal(t, Snapshot{
		Name:                 "muonSelect",
		Events:               2,
		EventsPassed:         1,
		WeightedEventsPassed: 0.5,
		ObjectsSeen:          4,
		ObjectsPassed:        2,
	}, snap)
}

func TestAccumulator_RejectsInvalidObjectCounts(t *testing.T) {
	acc := New("sel", true)
	assert.Panics(t, func() { acc.AddObjects(1, 2) })
	assert.Panics(t, func() { acc.AddObjects(-1, 0) })
	assert.Equal(t, int64(0), acc.Snapshot().ObjectsSeen)
}

func TestAccumulator_FinalizeWritesNamedBin(t *testing.T) {
	book := NewBook("all")
	book.Raw.Fill("all", 10)

	acc := New("electronSelect", true)
	acc.AddEventPass(1.5)
	acc.AddEventPass(2.0)
	book.Finalize(acc)

	raw, ok := book.Raw.Content("electronSelect")
	require.True(t, ok)
	assert.Equal(t, 2.0, raw)

	weighted, ok := book.Weighted.Content("electronSelect")
	require.True(t, ok)
	assert.Equal(t, 3.5, weighted)

	assert.Equal(t, []Bin{{Label: "all", Content: 10}, {Label: "electronSelect", Content: 2}}, book.Raw.Bins())
}

func TestAccumulator_DisabledFinalizeIsNoop(t *testing.T) {
	book := NewBook()
	acc := New("sel", false)
	acc.AddEventPass(1)
	book.Finalize(acc)

	assert.Empty(t, book.Raw.Bins())
	assert.Equal(t, int64(1), acc.Snapshot().EventsPassed, "counters still move")
}

func TestLabelled_FindBin(t *testing.T) {
	h := NewLabelled("h", "all", "a")
	assert.Equal(t, 1, h.FindBin("all"))
	assert.Equal(t, 2, h.FindBin("a"))
	assert.Equal(t, 3, h.FindBin("b"))
	assert.Equal(t, 3, h.FindBin("b"))

	h.SetBinContent(0, 99)
	h.SetBinContent(4, 99)
	for _, b := range h.Bins() {
		assert.Zero(t, b.Content)
	}
	assert.Equal(t, "h", h.Name())
}
