package cutflow

import "slices"

// Histogram is a histogram with labelled bins.
type Histogram interface {
	// FindBin returns the 1-based bin index of label, extending the axis
	// when label is new.
	FindBin(label string) int
	SetBinContent(bin int, value float64)
}

// Names of the two cutflow histograms.
const (
	RawName      = "cutflow"
	WeightedName = "cutflow_weighted"
)

// Bin is one labelled histogram bin.
type Bin struct {
	Label   string  `json:"label"`
	Content float64 `json:"content"`
}

// Labelled is an in-memory Histogram whose bins are created on demand
// in first-use order.
type Labelled struct {
	name     string
	labels   []string
	contents []float64
}

// NewLabelled returns an empty histogram with pre-booked bins.
func NewLabelled(name string, labels ...string) *Labelled {
	h := &Labelled{name: name}
	for _, label := range labels {
		h.FindBin(label)
	}
	return h
}

// Name returns the histogram name.
func (h *Labelled) Name() string {
	return h.name
}

func (h *Labelled) FindBin(label string) int {
	if i := slices.Index(h.labels, label); i >= 0 {
		return i + 1
	}
	h.labels = append(h.labels, label)
	h.contents = append(h.contents, 0)
	return len(h.labels)
}

// SetBinContent sets a bin by 1-based index. Out-of-range bins are
// ignored, like under- and overflow writes.
func (h *Labelled) SetBinContent(bin int, value float64) {
	if bin < 1 || bin > len(h.contents) {
		return
	}
	h.contents[bin-1] = value
}

// Fill adds value to the bin labelled label.
func (h *Labelled) Fill(label string, value float64) {
	bin := h.FindBin(label)
	h.contents[bin-1] += value
}

// Content returns the content of the bin labelled label.
func (h *Labelled) Content(label string) (float64, bool) {
	i := slices.Index(h.labels, label)
	if i < 0 {
		return 0, false
	}
	return h.contents[i], true
}

// Bins returns the bins in axis order.
func (h *Labelled) Bins() []Bin {
	bins := make([]Bin, len(h.labels))
	for i, label := range h.labels {
		bins[i] = Bin{Label: label, Content: h.contents[i]}
	}
	return bins
}

// Book is the pair of cutflow histograms of one run.
type Book struct {
	Raw      *Labelled
	Weighted *Labelled
}

// NewBook books both histograms with the same bin labels.
func NewBook(labels ...string) *Book {
	return &Book{
		Raw:      NewLabelled(RawName, labels...),
		Weighted: NewLabelled(WeightedName, labels...),
	}
}

// Finalize writes every accumulator into the book.
func (b *Book) Finalize(accs ...*Accumulator) {
	for _, acc := range accs {
		acc.Finalize(b.Raw, b.Weighted)
	}
}
