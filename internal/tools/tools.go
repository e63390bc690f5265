// Package tools provides reference implementations of the external
// object-level decisions a selector consumes.
//
// Identification and isolation decisions are computed upstream and carried
// on the object as boolean tags; the flag tools read them back. A
// user-defined isolation working point is an expr-lang expression over the
// object's kinematics and isolation variables. The muon quality tool
// compares the object's quality with the configured requirement.
package tools

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/ir"
	"github.com/roach88/objsel/internal/selection"
)

// Tag prefixes of upstream decisions.
const (
	LikelihoodTagPrefix = "LH"
	CutBasedTagPrefix   = ""
	IsolationTagPrefix  = "iso"
)

// Flag is a tool that reads an upstream boolean tag.
type Flag struct {
	name string
	tag  string
}

// NewFlag returns a tool accepting objects whose tag is true.
func NewFlag(name, tag string) *Flag {
	return &Flag{name: name, tag: tag}
}

func (f *Flag) Name() string { return f.name }

func (f *Flag) Accept(obj *ir.Object) bool { return obj.Tag(f.tag) }

// Expression is a tool defined by a boolean expr-lang expression.
//
// The environment exposes pt, eta and iso, a map of isolation variables;
// missing variables read as zero.
//
//	iso["ptvarcone20"] / pt < 0.06 && iso["topoetcone20"] / pt < 0.06
type Expression struct {
	name    string
	source  string
	program *vm.Program
}

func expressionEnv(obj *ir.Object) map[string]any {
	iso := obj.Isolation
	if iso == nil {
		iso = map[string]float64{}
	}
	return map[string]any{
		"pt":  obj.Pt,
		"eta": obj.Eta,
		"iso": iso,
	}
}

// NewExpression compiles source. It must evaluate to a bool.
func NewExpression(name, source string) (*Expression, error) {
	program, err := expr.Compile(source, expr.Env(expressionEnv(&ir.Object{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression for %q: %w", name, err)
	}
	return &Expression{name: name, source: source, program: program}, nil
}

func (e *Expression) Name() string { return e.name }

// Source returns the expression text.
func (e *Expression) Source() string { return e.source }

// Accept evaluates the expression. Evaluation errors reject the object.
func (e *Expression) Accept(obj *ir.Object) bool {
	out, err := expr.Run(e.program, expressionEnv(obj))
	if err != nil {
		return false
	}
	pass, ok := out.(bool)
	return ok && pass
}

// MuonQuality accepts muons at least as tight as the required quality
// and, when etaMax is set, within |eta| <= etaMax.
type MuonQuality struct {
	required ir.Quality
	etaMax   ir.Bound
}

// NewMuonQuality resolves the quality name.
func NewMuonQuality(quality string, etaMax ir.Bound) (*MuonQuality, error) {
	q, err := ir.ParseQuality(quality)
	if err != nil {
		return nil, err
	}
	return &MuonQuality{required: q, etaMax: etaMax}, nil
}

func (m *MuonQuality) Name() string { return m.required.String() }

func (m *MuonQuality) Accept(obj *ir.Object) bool {
	if obj.Quality > m.required {
		return false
	}
	if m.etaMax.IsSet() && math.Abs(obj.Eta) > m.etaMax.Value() {
		return false
	}
	return true
}

// ForElectron builds the electron tool set for a selector.
func ForElectron(cfg config.Selector) (selection.ElectronTools, error) {
	lh := make(map[string]selection.Tool, len(config.LHOperatingPoints))
	for _, wp := range config.LHOperatingPoints {
		lh[wp] = NewFlag(fmt.Sprintf("ElectronLikelihood%s_%s", wp, cfg.LHConfigYear), LikelihoodTagPrefix+wp)
	}
	cb := make(map[string]selection.Tool, len(config.CutBasedOperatingPoints))
	for _, wp := range config.CutBasedOperatingPoints {
		cb[wp] = NewFlag(fmt.Sprintf("ElectronCutBased%s_%s", wp, cfg.CutBasedConfigYear), CutBasedTagPrefix+wp)
	}

	var iso selection.Tool
	if cfg.IsolationWP == config.IsolationUserDefined {
		e, err := NewExpression("ElectronIsolation"+cfg.IsolationWP, cfg.IsolationExpression)
		if err != nil {
			return selection.ElectronTools{}, &config.Error{Selector: cfg.Name, Key: "IsolationExpression", Message: err.Error()}
		}
		iso = e
	} else {
		iso = NewFlag("ElectronIsolation"+cfg.IsolationWP, IsolationTagPrefix+cfg.IsolationWP)
	}

	return selection.ElectronTools{Likelihood: lh, CutBased: cb, Isolation: iso}, nil
}

// ForMuon builds the muon tool set for a selector.
func ForMuon(cfg config.Selector) (selection.MuonTools, error) {
	q, err := NewMuonQuality(cfg.MuonQuality, cfg.EtaMax)
	if err != nil {
		return selection.MuonTools{}, &config.Error{Selector: cfg.Name, Key: "MuonQuality", Message: err.Error()}
	}
	return selection.MuonTools{Quality: q}, nil
}
