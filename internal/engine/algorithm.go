package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/event"
	"github.com/roach88/objsel/internal/ir"
	"github.com/roach88/objsel/internal/selection"
	"github.com/roach88/objsel/internal/tools"
)

// Result is the outcome of one Algorithm on one event.
type Result struct {
	// Pass is true if the event passed for at least one variation.
	Pass bool `json:"pass"`

	// Skip asks the driver to stop processing this event. It is the
	// negation of Pass and is not an error.
	Skip bool `json:"skip"`

	// Variations lists the labels whose event passed, in input order.
	// Nil in single-collection mode.
	Variations []string `json:"variations,omitempty"`
}

// Algorithm is one configured selector instance: it reads its input
// collections from the event store, runs the CollectionSelector once per
// variation and publishes the outputs.
type Algorithm struct {
	cfg      config.Selector
	hash     string
	decider  *selection.Decider
	selector *CollectionSelector
	cutflow  *cutflow.Accumulator
	logger   *slog.Logger

	electronTools *selection.ElectronTools
	muonTools     *selection.MuonTools
}

// AlgorithmOption configures an Algorithm.
type AlgorithmOption func(*Algorithm)

// WithLogger sets the logger for the algorithm and its decider.
func WithLogger(logger *slog.Logger) AlgorithmOption {
	return func(a *Algorithm) {
		a.logger = logger
	}
}

// WithElectronTools replaces the reference electron tools.
func WithElectronTools(t selection.ElectronTools) AlgorithmOption {
	return func(a *Algorithm) {
		a.electronTools = &t
	}
}

// WithMuonTools replaces the reference muon tool.
func WithMuonTools(t selection.MuonTools) AlgorithmOption {
	return func(a *Algorithm) {
		a.muonTools = &t
	}
}

// NewAlgorithm validates cfg and builds its decision plan. Any error is a
// configuration error and no event may be processed.
func NewAlgorithm(cfg config.Selector, opts ...AlgorithmOption) (*Algorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Algorithm{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	hash, err := config.Hash(cfg)
	if err != nil {
		return nil, err
	}
	a.hash = hash

	switch cfg.Family {
	case ir.FamilyElectron:
		if a.electronTools == nil {
			t, err := tools.ForElectron(cfg)
			if err != nil {
				return nil, err
			}
			a.electronTools = &t
		}
		a.decider, err = selection.NewElectronDecider(cfg, *a.electronTools, a.logger)
	case ir.FamilyMuon:
		if a.muonTools == nil {
			t, err := tools.ForMuon(cfg)
			if err != nil {
				return nil, err
			}
			a.muonTools = &t
		}
		a.decider, err = selection.NewMuonDecider(cfg, *a.muonTools, a.logger)
	}
	if err != nil {
		return nil, err
	}

	a.cutflow = cutflow.New(cfg.Name, cfg.UseCutFlow)
	a.selector = NewCollectionSelector(cfg, a.decider, a.cutflow)

	a.logger.Debug("selector configured",
		"selector", cfg.Name,
		"family", cfg.Family,
		"steps", a.decider.StepNames(),
		"config_hash", hash,
	)
	return a, nil
}

// Name returns the selector name.
func (a *Algorithm) Name() string {
	return a.cfg.Name
}

// Config returns the resolved configuration.
func (a *Algorithm) Config() config.Selector {
	return a.cfg
}

// ConfigHash returns the content hash of the configuration.
func (a *Algorithm) ConfigHash() string {
	return a.hash
}

// Cutflow returns the accumulator of this algorithm.
func (a *Algorithm) Cutflow() *cutflow.Accumulator {
	return a.cutflow
}

// Steps returns the decision plan in evaluation order.
func (a *Algorithm) Steps() []string {
	return a.decider.StepNames()
}

// Execute processes one event.
//
// Single-collection mode runs the selector once on InputContainer and
// counts it. Fan-out mode reads the label list under InputAlgoSystNames,
// runs the selector on InputContainer+label for each label, counts only
// the first, and always publishes the passing labels under
// OutputAlgoSystNames. Passing materialized collections are recorded under
// OutputContainer+label.
func (a *Algorithm) Execute(store *event.Store) (Result, error) {
	weight, err := store.Weight()
	if err != nil {
		return Result{}, newMissingUpstreamError(a.cfg.Name, store.Number(), err)
	}
	pv, err := store.PrimaryVertex()
	if err != nil {
		return Result{}, newMissingUpstreamError(a.cfg.Name, store.Number(), err)
	}

	if !a.cfg.FanOut() {
		pass, err := a.runVariation(store, ir.Nominal, pv.Position, weight, true)
		if err != nil {
			return Result{}, err
		}
		a.logEvent(store, pass, nil)
		return Result{Pass: pass, Skip: !pass}, nil
	}

	labels, err := store.Labels(a.cfg.InputAlgoSystNames)
	if err != nil {
		return Result{}, newMissingUpstreamError(a.cfg.Name, store.Number(), err)
	}

	passed := []string{}
	anyPass := false
	for i, label := range labels {
		pass, err := a.runVariation(store, label, pv.Position, weight, i == 0)
		if err != nil {
			return Result{}, err
		}
		if pass {
			passed = append(passed, label)
			anyPass = true
		}
	}

	if err := store.RecordLabels(a.cfg.OutputAlgoSystNames, passed); err != nil {
		return Result{}, newDuplicateRecordError(a.cfg.Name, store.Number(), err)
	}

	a.logEvent(store, anyPass, passed)
	return Result{Pass: anyPass, Skip: !anyPass, Variations: passed}, nil
}

func (a *Algorithm) runVariation(store *event.Store, label string, vertex ir.Vec3, weight float64, countThisPass bool) (bool, error) {
	objs, err := store.Collection(a.cfg.InputContainer + label)
	if err != nil {
		return false, newMissingUpstreamError(a.cfg.Name, store.Number(), err)
	}

	pass, selected := a.selector.SelectAll(objs, vertex, weight, countThisPass)
	if pass && a.cfg.CreateSelectedContainer {
		if err := store.RecordCollection(a.cfg.OutputContainer+label, selected); err != nil {
			return false, newDuplicateRecordError(a.cfg.Name, store.Number(), err)
		}
	}
	return pass, nil
}

func (a *Algorithm) logEvent(store *event.Store, pass bool, variations []string) {
	if !a.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{
		"selector", a.cfg.Name,
		"event", store.Number(),
		"pass", pass,
	}
	if a.cfg.FanOut() {
		attrs = append(attrs, "variations", variations)
	}
	a.logger.Debug("event selected", attrs...)
}
