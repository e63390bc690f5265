package selection

import (
	"fmt"
	"slices"

	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/ir"
)

// WorkingPoints decorates objects with the decisions of one classifier
// family (likelihood or cut-based identification) and reports the decision
// of the selected operating point.
//
// Every operating point gets a default decoration of 0. Operating points at
// least as tight as the selected one are then overwritten with their tool's
// decision.
type WorkingPoints struct {
	family   string
	prefix   string
	order    []string
	tools    map[string]Tool
	selected string
	valid    []string
}

// NewWorkingPoints builds a working point set. order lists the operating
// points loosest first. A selected point outside order, or a missing tool
// for any point the set will evaluate, is a configuration error.
func NewWorkingPoints(selector, family, prefix string, order []string, tools map[string]Tool, selected, key string) (*WorkingPoints, error) {
	idx := slices.Index(order, selected)
	if idx < 0 {
		return nil, &config.Error{
			Selector: selector,
			Key:      key,
			Message:  fmt.Sprintf("operating point %q is not a known %s working point", selected, family),
		}
	}

	valid := order[idx:]
	for _, wp := range valid {
		if tools[wp] == nil {
			return nil, &config.Error{
				Selector: selector,
				Key:      key,
				Message:  fmt.Sprintf("no %s tool provided for working point %q", family, wp),
			}
		}
	}

	return &WorkingPoints{
		family:   family,
		prefix:   prefix,
		order:    slices.Clone(order),
		tools:    tools,
		selected: selected,
		valid:    slices.Clone(valid),
	}, nil
}

// Selected returns the operating point applied as the cut.
func (w *WorkingPoints) Selected() string {
	return w.selected
}

// DecorationKey returns the decoration name for an operating point.
func (w *WorkingPoints) DecorationKey(wp string) string {
	return w.prefix + wp
}

// Decorate writes every working-point decoration and returns the decision
// of the selected operating point.
func (w *WorkingPoints) Decorate(obj *ir.Object) bool {
	for _, wp := range w.order {
		obj.Decorate(w.DecorationKey(wp), 0)
	}

	selectedPass := false
	for _, wp := range w.valid {
		pass := w.tools[wp].Accept(obj)
		obj.DecorateBool(w.DecorationKey(wp), pass)
		if wp == w.selected {
			selectedPass = pass
		}
	}
	return selectedPass
}
