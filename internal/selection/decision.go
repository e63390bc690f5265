package selection

import (
	"context"
	"log/slog"

	"github.com/roach88/objsel/internal/ir"
)

// Step is one entry of a decision plan.
type Step struct {
	Name string

	// HardCut makes a false result fail the object. Soft steps run only
	// for the decorations they write.
	HardCut bool

	// Applies gates the step. A step that does not apply is skipped
	// entirely, not counted as passed.
	Applies func(obj *ir.Object) bool

	Eval Eval
}

// Decider evaluates a fixed, ordered plan of criteria for one object.
//
// INVARIANTS:
//   - steps order NEVER changes after construction
//   - the first failing hard cut ends evaluation; later steps, and the
//     decorations they would write, do not run
type Decider struct {
	name   string
	steps  []Step
	logger *slog.Logger
	level  slog.Level
}

// NewDecider builds a decider over steps. The slice is copied so the
// declaration order cannot be changed by the caller.
func NewDecider(name string, steps []Step, logger *slog.Logger) *Decider {
	if logger == nil {
		logger = slog.Default()
	}
	stepsCopy := make([]Step, len(steps))
	copy(stepsCopy, steps)

	return &Decider{
		name:   name,
		steps:  stepsCopy,
		logger: logger,
		level:  slog.LevelDebug,
	}
}

// SetVerbose reports failed cuts at Info instead of Debug.
func (d *Decider) SetVerbose(verbose bool) {
	if verbose {
		d.level = slog.LevelInfo
		return
	}
	d.level = slog.LevelDebug
}

// Decide runs the plan and returns OutcomePass or OutcomeFail.
func (d *Decider) Decide(obj *ir.Object, ctx Context) ir.Outcome {
	for _, step := range d.steps {
		if step.Applies != nil && !step.Applies(obj) {
			continue
		}
		if ok := step.Eval(obj, ctx); !ok && step.HardCut {
			d.logger.Log(context.Background(), d.level, "object failed cut",
				"selector", d.name,
				"cut", step.Name,
				"pt", obj.Pt,
				"eta", obj.Eta,
			)
			return ir.OutcomeFail
		}
	}
	return ir.OutcomePass
}

// StepNames returns the plan in evaluation order. Soft steps are suffixed
// with "(soft)".
func (d *Decider) StepNames() []string {
	names := make([]string, len(d.steps))
	for i, step := range d.steps {
		names[i] = step.Name
		if !step.HardCut {
			names[i] += " (soft)"
		}
	}
	return names
}

// plan accumulates steps in declaration order.
type plan []Step

func (p *plan) cut(name string, eval Eval) {
	*p = append(*p, Step{Name: name, HardCut: true, Eval: eval})
}

func (p *plan) cutIf(enabled bool, name string, eval Eval) {
	if enabled {
		p.cut(name, eval)
	}
}

// bound adds a hard cut only when b is configured.
func (p *plan) bound(name string, b ir.Bound, mk func(float64) Eval) {
	if b.IsSet() {
		p.cut(name, mk(b.Value()))
	}
}

func (p *plan) step(s Step) {
	*p = append(*p, s)
}

func (p *plan) decorationKeys(pass, fail []string) {
	p.cutIf(len(pass) > 0, "passDecorKeys", passDecorations(pass))
	p.cutIf(len(fail) > 0, "failDecorKeys", failDecorations(fail))
}
