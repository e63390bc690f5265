package selection

import (
	"io"
	"log/slog"

	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/ir"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tagTool accepts objects carrying the named upstream tag.
func tagTool(key string) Tool {
	return ToolFunc{ToolName: key, Fn: func(obj *ir.Object) bool { return obj.Tag(key) }}
}

func constTool(name string, accept bool) Tool {
	return ToolFunc{ToolName: name, Fn: func(*ir.Object) bool { return accept }}
}

// electronTools wires every operating point to the object tag of the same
// name, e.g. "LHMedium" or "IsEMTight", and isolation to "isoTight".
func electronTools() ElectronTools {
	lh := make(map[string]Tool)
	for _, wp := range config.LHOperatingPoints {
		lh[wp] = tagTool(LikelihoodPrefix + wp)
	}
	cb := make(map[string]Tool)
	for _, wp := range config.CutBasedOperatingPoints {
		cb[wp] = tagTool(CutBasedPrefix + wp)
	}
	return ElectronTools{Likelihood: lh, CutBased: cb, Isolation: tagTool("isoTight")}
}

func electronConfig() config.Selector {
	s := config.Default("electronSelect", ir.FamilyElectron)
	s.InputContainer = "Electrons"
	return s
}

func muonConfig() config.Selector {
	s := config.Default("muonSelect", ir.FamilyMuon)
	s.InputContainer = "Muons"
	return s
}

// goodElectron passes every default electron cut and every tool.
func goodElectron(pt, eta float64) *ir.Object {
	tags := map[string]bool{"isoTight": true}
	for _, wp := range config.LHOperatingPoints {
		tags[LikelihoodPrefix+wp] = true
	}
	for _, wp := range config.CutBasedOperatingPoints {
		tags[CutBasedPrefix+wp] = true
	}
	return &ir.Object{
		Pt:      pt,
		Eta:     eta,
		Author:  ir.AuthorElectron,
		Cluster: &ir.Cluster{Eta: eta},
		Track:   &ir.Track{D0: 0.01, D0Variance: 0.0001, Theta: 1.0},
		Tags:    tags,
	}
}
