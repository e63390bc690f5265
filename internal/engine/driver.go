package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/event"
)

// AllEventsBin is the cutflow bin counting every processed event.
const AllEventsBin = "all"

// Driver is the event loop over a fixed list of algorithms.
//
// INVARIANTS:
//   - algorithms order NEVER changes after construction
//   - an event that an algorithm skips is not shown to later algorithms
//   - cutflow bins are booked in algorithm order, after AllEventsBin
type Driver struct {
	algorithms []*Algorithm
	clock      *Clock
	runID      string
	book       *cutflow.Book
	logger     *slog.Logger

	skipped     int64
	weightedAll float64
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithDriverLogger sets the logger of the event loop.
func WithDriverLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// NewDriver creates a driver over algorithms in declaration order.
//
// The slice is copied so the caller cannot reorder it. Algorithm names must
// be unique since they label the cutflow bins.
func NewDriver(algorithms []*Algorithm, runIDs RunIDGenerator, opts ...DriverOption) (*Driver, error) {
	algsCopy := make([]*Algorithm, len(algorithms))
	copy(algsCopy, algorithms)

	labels := []string{AllEventsBin}
	seen := make(map[string]bool, len(algsCopy))
	for _, alg := range algsCopy {
		if seen[alg.Name()] || alg.Name() == AllEventsBin {
			return nil, fmt.Errorf("duplicate algorithm name %q", alg.Name())
		}
		seen[alg.Name()] = true
		labels = append(labels, alg.Name())
	}

	d := &Driver{
		algorithms: algsCopy,
		clock:      NewClock(),
		runID:      runIDs.Generate(),
		book:       cutflow.NewBook(labels...),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// RunID returns the identifier of this run.
func (d *Driver) RunID() string {
	return d.runID
}

// Algorithms returns the algorithms in execution order.
func (d *Driver) Algorithms() []*Algorithm {
	out := make([]*Algorithm, len(d.algorithms))
	copy(out, d.algorithms)
	return out
}

// EventResult is the outcome of one event across all algorithms.
type EventResult struct {
	Seq   int64 `json:"seq"`
	Event int64 `json:"event"`
	Pass  bool  `json:"pass"`

	// SkippedBy names the algorithm that asked to skip the event.
	SkippedBy string `json:"skipped_by,omitempty"`

	// Variations holds the passing labels of each fan-out algorithm that ran.
	Variations map[string][]string `json:"variations,omitempty"`
}

// Process runs every algorithm on one event. When an algorithm asks to
// skip the event the remaining algorithms do not run.
func (d *Driver) Process(store *event.Store) (EventResult, error) {
	res := EventResult{Seq: d.clock.Next(), Event: store.Number()}
	if w, err := store.Weight(); err == nil {
		d.weightedAll += w
	}

	for _, alg := range d.algorithms {
		out, err := alg.Execute(store)
		if err != nil {
			return res, err
		}
		if alg.Config().FanOut() {
			if res.Variations == nil {
				res.Variations = make(map[string][]string)
			}
			res.Variations[alg.Name()] = out.Variations
		}
		if out.Skip {
			d.skipped++
			res.SkippedBy = alg.Name()
			d.logger.Debug("event skipped",
				"seq", res.Seq,
				"event", res.Event,
				"selector", alg.Name(),
			)
			return res, nil
		}
	}
	res.Pass = true
	return res, nil
}

// Run processes every record in order. Cancellation is checked between
// events; an event in progress always completes.
func (d *Driver) Run(ctx context.Context, records []event.Record) error {
	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		store, err := records[i].Store()
		if err != nil {
			return fmt.Errorf("event %d: %w", records[i].Number, err)
		}
		if _, err := d.Process(store); err != nil {
			return err
		}
	}
	d.logger.Info("events processed",
		"run_id", d.runID,
		"events", d.clock.Current(),
		"skipped", d.skipped,
	)
	return nil
}

// Summary is the state of a run.
type Summary struct {
	RunID    string             `json:"run_id"`
	Events   int64              `json:"events"`
	Skipped  int64              `json:"skipped"`
	Cutflows []cutflow.Snapshot `json:"cutflows"`
}

// Summary returns the run counters and every accumulator snapshot in
// algorithm order.
func (d *Driver) Summary() Summary {
	s := Summary{
		RunID:    d.runID,
		Events:   d.clock.Current(),
		Skipped:  d.skipped,
		Cutflows: make([]cutflow.Snapshot, len(d.algorithms)),
	}
	for i, alg := range d.algorithms {
		s.Cutflows[i] = alg.Cutflow().Snapshot()
	}
	return s
}

// Finalize writes the processed-event totals and every accumulator into
// the cutflow histograms and returns them.
func (d *Driver) Finalize() *cutflow.Book {
	d.book.Raw.SetBinContent(d.book.Raw.FindBin(AllEventsBin), float64(d.clock.Current()))
	d.book.Weighted.SetBinContent(d.book.Weighted.FindBin(AllEventsBin), d.weightedAll)

	accs := make([]*cutflow.Accumulator, len(d.algorithms))
	for i, alg := range d.algorithms {
		accs[i] = alg.Cutflow()
	}
	d.book.Finalize(accs...)
	return d.book
}
