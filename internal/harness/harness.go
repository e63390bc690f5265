package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/engine"
	"github.com/roach88/objsel/internal/event"
	"github.com/roach88/objsel/internal/store"
	"github.com/roach88/objsel/internal/testutil"
)

// Harness is the scenario execution environment.
// It runs one driver with a fixed run id against a private store.
type Harness struct {
	store  *store.Store
	driver *engine.Driver
	logger *slog.Logger
	stores map[int64]*event.Store
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Resolve the selector configuration and build one algorithm per selector
// 2. Process every event in order, recording the trace
// 3. Persist the run and read the counters and histograms back
// 4. Evaluate assertions against the result and the event stores
//
// A configuration error or a runtime error while processing is returned as
// error; assertion failures are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	selectors, err := loadSelectors(scenario)
	if err != nil {
		return nil, err
	}
	records, err := loadEvents(scenario)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	algs := make([]*engine.Algorithm, 0, len(selectors))
	for _, cfg := range selectors {
		alg, err := engine.NewAlgorithm(cfg, engine.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		algs = append(algs, alg)
	}

	driver, err := engine.NewDriver(algs,
		testutil.NewFixedRunIDGenerator(scenario.RunID),
		engine.WithDriverLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		store:  st,
		driver: driver,
		logger: logger,
		stores: make(map[int64]*event.Store, len(records)),
	}

	ctx := context.Background()
	result := NewResult()
	result.RunID = driver.RunID()

	if err := h.processEvents(records, result); err != nil {
		return nil, err
	}
	if err := h.persist(ctx, result); err != nil {
		return nil, err
	}

	actx := &AssertionContext{Stores: h.stores}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// processEvents drives every record through the engine.
func (h *Harness) processEvents(records []event.Record, result *Result) error {
	for i := range records {
		es, err := records[i].Store()
		if err != nil {
			return fmt.Errorf("event %d: %w", records[i].Number, err)
		}
		if _, dup := h.stores[es.Number()]; dup {
			return fmt.Errorf("event %d: duplicate event number", es.Number())
		}

		before := make(map[string]bool)
		for _, key := range es.CollectionKeys() {
			before[key] = true
		}

		res, err := h.driver.Process(es)
		if err != nil {
			return err
		}

		ev := TraceEvent{
			Seq:        res.Seq,
			Event:      res.Event,
			Pass:       res.Pass,
			SkippedBy:  res.SkippedBy,
			Variations: res.Variations,
		}
		for _, key := range es.CollectionKeys() {
			if !before[key] {
				ev.Outputs = append(ev.Outputs, key)
			}
		}
		result.AddTrace(ev)
		h.stores[es.Number()] = es
	}
	return nil
}

// persist writes the run and fills the result from what the store returns.
func (h *Harness) persist(ctx context.Context, result *Result) error {
	book := h.driver.Finalize()
	run, err := h.driver.Record()
	if err != nil {
		return err
	}
	if err := h.store.WriteRun(ctx, run, book); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}

	stored, err := h.store.ReadRun(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to read run: %w", err)
	}
	for _, sel := range stored.Selectors {
		result.Selectors = append(result.Selectors, sel.Cutflow)
	}

	for _, name := range []string{cutflow.RawName, cutflow.WeightedName} {
		bins, err := h.store.ReadHistogram(ctx, run.ID, name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		result.Histograms[name] = bins
	}

	h.logger.Debug("scenario run stored",
		"run_id", run.ID,
		"events", run.Events,
		"skipped", run.Skipped,
	)
	return nil
}

func loadSelectors(s *Scenario) ([]config.Selector, error) {
	if s.ConfigFile != "" {
		return config.LoadFile(s.ConfigFile)
	}
	return config.Parse([]byte(s.Config), s.Name+".cue")
}

func loadEvents(s *Scenario) ([]event.Record, error) {
	if s.EventsFile != "" {
		return event.LoadFile(s.EventsFile)
	}
	return s.Events, nil
}
