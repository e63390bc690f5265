// Package config resolves selector configuration.
//
// Configuration is written in CUE, unified with an embedded schema that
// supplies every default, decoded into Selector and validated once per run.
// A Selector is immutable after Validate and shared read-only by all
// per-event operations.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/objsel/internal/ir"
)

// Known operating-point vocabularies, loosest first where an order exists.
var (
	LHOperatingPoints       = []string{"VeryLoose", "Loose", "Medium", "Tight", "VeryTight"}
	CutBasedOperatingPoints = []string{"IsEMLoose", "IsEMMedium", "IsEMTight"}
	MuonQualities           = []string{"Tight", "Medium", "Loose", "VeryLoose"}
	MuonTypes               = []string{"", "Combined", "MuonStandAlone", "SegmentTagged", "CaloTagged", "SiliconAssociatedForwardMuon"}
)

// IsolationUserDefined selects the expression-based isolation working point.
const IsolationUserDefined = "UserDefined"

// Selector is the resolved configuration of one selector instance.
type Selector struct {
	// Name identifies the instance; it labels the cutflow bin.
	Name   string    `json:"name"`
	Family ir.Family `json:"family"`

	Debug      bool `json:"Debug"`
	UseCutFlow bool `json:"UseCutFlow"`

	InputContainer      string `json:"InputContainer"`
	OutputContainer     string `json:"OutputContainer"`
	InputAlgoSystNames  string `json:"InputAlgoSystNames"`
	OutputAlgoSystNames string `json:"OutputAlgoSystNames"`

	DecorateSelectedObjects bool `json:"DecorateSelectedObjects"`
	CreateSelectedContainer bool `json:"CreateSelectedContainer"`

	// NToProcess caps the objects evaluated per collection; negative is unbounded.
	NToProcess int `json:"NToProcess"`

	// PassMin and PassMax gate the event on the number of passing objects;
	// negative disables the side.
	PassMin int `json:"PassMin"`
	PassMax int `json:"PassMax"`

	PtMin         ir.Bound `json:"pTMin"`
	PtMax         ir.Bound `json:"pTMax"`
	EtaMax        ir.Bound `json:"etaMax"`
	D0Max         ir.Bound `json:"d0Max"`
	D0SigMax      ir.Bound `json:"d0sigMax"`
	Z0SinThetaMax ir.Bound `json:"z0sinthetaMax"`

	VetoCrack   bool `json:"VetoCrack"`
	DoAuthorCut bool `json:"DoAuthorCut"`
	DoOQCut     bool `json:"DoOQCut"`

	ConfDirPID string `json:"ConfDirPID"`

	DoLHPIDCut       bool   `json:"DoLHPIDCut"`
	LHOperatingPoint string `json:"LHOperatingPoint"`
	LHConfigYear     string `json:"LHConfigYear"`

	DoCutBasedPIDCut       bool   `json:"DoCutBasedPIDCut"`
	CutBasedOperatingPoint string `json:"CutBasedOperatingPoint"`
	CutBasedConfigYear     string `json:"CutBasedConfigYear"`

	DoIsolationCut      bool    `json:"DoIsolationCut"`
	IsolationWP         string  `json:"IsolationWP"`
	IsolationExpression string  `json:"IsolationExpression"`
	CaloBasedIsoType    string  `json:"CaloBasedIsoType"`
	CaloBasedIsoCut     float64 `json:"CaloBasedIsoCut"`
	TrackBasedIsoType   string  `json:"TrackBasedIsoType"`
	TrackBasedIsoCut    float64 `json:"TrackBasedIsoCut"`

	MuonQuality string `json:"MuonQuality"`
	MuonType    string `json:"MuonType"`

	PassDecorKeys []string `json:"PassDecorKeys"`
	FailDecorKeys []string `json:"FailDecorKeys"`
}

// Default returns a Selector with every key at its documented default.
// InputContainer is left empty and must be set before Validate.
func Default(name string, family ir.Family) Selector {
	s := Selector{
		Name:                    name,
		Family:                  family,
		UseCutFlow:              true,
		OutputAlgoSystNames:     DefaultOutputAlgoSystNames(family),
		DecorateSelectedObjects: true,
		NToProcess:              -1,
		PassMin:                 -1,
		PassMax:                 -1,
		VetoCrack:               true,
		DoAuthorCut:             true,
		DoOQCut:                 true,
		ConfDirPID:              "mc15_20150224",
		LHOperatingPoint:        "Loose",
		LHConfigYear:            "2015",
		CutBasedOperatingPoint:  "IsEMLoose",
		CutBasedConfigYear:      "2012",
		IsolationWP:             "Tight",
		CaloBasedIsoCut:         0.05,
		TrackBasedIsoCut:        0.05,
		MuonQuality:             "Medium",
	}
	s.CaloBasedIsoType, s.TrackBasedIsoType = DefaultIsolationTypes(family)
	return s
}

// DefaultOutputAlgoSystNames returns the default key for the published
// variation list of a family.
func DefaultOutputAlgoSystNames(family ir.Family) string {
	switch family {
	case ir.FamilyMuon:
		return "MuonSelector_Syst"
	default:
		return "ElectronSelector_Syst"
	}
}

// DefaultIsolationTypes returns the default calo and track isolation types.
func DefaultIsolationTypes(family ir.Family) (calo, track string) {
	if family == ir.FamilyMuon {
		return "etcone20", "ptcone20"
	}
	return "topoetcone20", "ptvarcone20"
}

// FanOut reports whether the selector reads an upstream variation list.
func (s Selector) FanOut() bool {
	return s.InputAlgoSystNames != ""
}

// Validate checks the selector. The returned error is always a *Error.
func (s *Selector) Validate() error {
	fail := func(key, format string, args ...any) error {
		return &Error{Selector: s.Name, Key: key, Message: fmt.Sprintf(format, args...)}
	}

	if s.Name == "" {
		return fail("name", "selector name is empty")
	}
	if !ir.ValidFamilies[s.Family] {
		return fail("Family", "unknown object family %q", s.Family)
	}
	if s.InputContainer == "" {
		return fail("InputContainer", "InputContainer is empty")
	}
	if s.CreateSelectedContainer && s.OutputContainer == "" {
		return fail("OutputContainer", "OutputContainer is empty but CreateSelectedContainer is set")
	}
	if s.FanOut() && s.OutputAlgoSystNames == "" {
		return fail("OutputAlgoSystNames", "OutputAlgoSystNames is empty but InputAlgoSystNames is set")
	}
	if s.PassMin >= 0 && s.PassMax >= 0 && s.PassMin > s.PassMax {
		return fail("PassMin", "PassMin %d exceeds PassMax %d", s.PassMin, s.PassMax)
	}

	switch s.Family {
	case ir.FamilyElectron:
		if !slices.Contains(LHOperatingPoints, s.LHOperatingPoint) {
			return fail("LHOperatingPoint", "unknown electron likelihood PID requested %q", s.LHOperatingPoint)
		}
		if !slices.Contains(CutBasedOperatingPoints, s.CutBasedOperatingPoint) {
			return fail("CutBasedOperatingPoint", "unknown electron cut-based PID requested %q", s.CutBasedOperatingPoint)
		}
		if s.IsolationWP == "" {
			return fail("IsolationWP", "IsolationWP is empty")
		}
		if s.IsolationWP == IsolationUserDefined && s.IsolationExpression == "" {
			return fail("IsolationExpression", "IsolationExpression is required for the %s working point", IsolationUserDefined)
		}
	case ir.FamilyMuon:
		if !slices.Contains(MuonQualities, s.MuonQuality) {
			return fail("MuonQuality", "unknown muon quality requested %q", s.MuonQuality)
		}
		if !slices.Contains(MuonTypes, s.MuonType) {
			return fail("MuonType", "unknown muon type requested %q", s.MuonType)
		}
		if s.DoIsolationCut && (s.CaloBasedIsoType == "" || s.TrackBasedIsoType == "") {
			return fail("CaloBasedIsoType", "isolation types must be set when DoIsolationCut is enabled")
		}
	}

	return nil
}

// ParseKeyList splits a comma-separated decoration key list. Empty
// segments are dropped and order is preserved.
func ParseKeyList(s string) []string {
	var keys []string
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		keys = append(keys, token)
	}
	return keys
}
