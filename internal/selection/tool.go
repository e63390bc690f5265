package selection

import "github.com/roach88/objsel/internal/ir"

// Tool is an externally provided object-level decision such as an
// identification, isolation or quality classifier.
type Tool interface {
	Name() string
	Accept(obj *ir.Object) bool
}

// ToolFunc adapts a function to the Tool interface.
type ToolFunc struct {
	ToolName string
	Fn       func(obj *ir.Object) bool
}

func (t ToolFunc) Name() string { return t.ToolName }

func (t ToolFunc) Accept(obj *ir.Object) bool { return t.Fn(obj) }

// ElectronTools are the external tools an electron decider needs.
type ElectronTools struct {
	// Likelihood holds one tool per likelihood operating point.
	Likelihood map[string]Tool

	// CutBased holds one tool per cut-based operating point.
	CutBased map[string]Tool

	Isolation Tool
}

// MuonTools are the external tools a muon decider needs.
type MuonTools struct {
	Quality Tool
}
