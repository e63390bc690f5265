package engine

import (
	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/ir"
	"github.com/roach88/objsel/internal/selection"
)

// CollectionSelector applies a Decider across one object collection and
// gates the event on the number of passing objects.
//
// INVARIANTS:
//   - with decoration enabled every object receives passSel, including
//     objects beyond the processing cap (-1)
//   - a failing event returns no materialized collection
//   - the accumulator is touched only when countThisPass is set
type CollectionSelector struct {
	cfg     config.Selector
	decider *selection.Decider
	cutflow *cutflow.Accumulator
}

// NewCollectionSelector returns a selector over cfg. cfg must be valid.
func NewCollectionSelector(cfg config.Selector, decider *selection.Decider, acc *cutflow.Accumulator) *CollectionSelector {
	return &CollectionSelector{cfg: cfg, decider: decider, cutflow: acc}
}

// SelectAll decides every object of objs in order and reports whether the
// event passes. When materialization is enabled the passing objects are
// returned in input order; the returned collection is non-nil, possibly
// empty, whenever the event passes.
func (s *CollectionSelector) SelectAll(objs ir.Collection, vertex ir.Vec3, weight float64, countThisPass bool) (bool, ir.Collection) {
	ctx := selection.Context{Vertex: vertex, Weight: weight}

	var selected ir.Collection
	if s.cfg.CreateSelectedContainer {
		selected = make(ir.Collection, 0, len(objs))
	}

	if countThisPass {
		s.cutflow.AddEvent()
	}

	evaluated, passed := 0, 0
	for i, obj := range objs {
		if s.cfg.NToProcess >= 0 && i >= s.cfg.NToProcess {
			if !s.cfg.DecorateSelectedObjects {
				break
			}
			obj.Decorate(ir.DecorPassSel, int(ir.OutcomeNotEvaluated))
			continue
		}

		evaluated++
		outcome := s.decider.Decide(obj, ctx)
		if s.cfg.DecorateSelectedObjects {
			obj.Decorate(ir.DecorPassSel, int(outcome))
		}
		if outcome == ir.OutcomePass {
			passed++
			if s.cfg.CreateSelectedContainer {
				selected = append(selected, obj)
			}
		}
	}

	if countThisPass {
		s.cutflow.AddObjects(evaluated, passed)
	}

	if s.cfg.PassMin >= 0 && passed < s.cfg.PassMin {
		return false, nil
	}
	if s.cfg.PassMax >= 0 && passed > s.cfg.PassMax {
		return false, nil
	}

	if countThisPass {
		s.cutflow.AddEventPass(weight)
	}
	return true, selected
}
