package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/objsel/internal/ir"
)

//go:embed schema.cue
var schemaCUE string

// rawSelector mirrors the CUE schema. Optional bounds decode to nil.
type rawSelector struct {
	Family                  string   `json:"Family"`
	Debug                   bool     `json:"Debug"`
	UseCutFlow              bool     `json:"UseCutFlow"`
	InputContainer          string   `json:"InputContainer"`
	OutputContainer         string   `json:"OutputContainer"`
	InputAlgoSystNames      string   `json:"InputAlgoSystNames"`
	OutputAlgoSystNames     *string  `json:"OutputAlgoSystNames"`
	DecorateSelectedObjects bool     `json:"DecorateSelectedObjects"`
	CreateSelectedContainer bool     `json:"CreateSelectedContainer"`
	NToProcess              int      `json:"NToProcess"`
	PassMin                 int      `json:"PassMin"`
	PassMax                 int      `json:"PassMax"`
	PtMin                   *float64 `json:"pTMin"`
	PtMax                   *float64 `json:"pTMax"`
	EtaMax                  *float64 `json:"etaMax"`
	D0Max                   *float64 `json:"d0Max"`
	D0SigMax                *float64 `json:"d0sigMax"`
	Z0SinThetaMax           *float64 `json:"z0sinthetaMax"`
	VetoCrack               bool     `json:"VetoCrack"`
	DoAuthorCut             bool     `json:"DoAuthorCut"`
	DoOQCut                 bool     `json:"DoOQCut"`
	ConfDirPID              string   `json:"ConfDirPID"`
	DoLHPIDCut              bool     `json:"DoLHPIDCut"`
	LHOperatingPoint        string   `json:"LHOperatingPoint"`
	LHConfigYear            string   `json:"LHConfigYear"`
	DoCutBasedPIDCut        bool     `json:"DoCutBasedPIDCut"`
	CutBasedOperatingPoint  string   `json:"CutBasedOperatingPoint"`
	CutBasedConfigYear      string   `json:"CutBasedConfigYear"`
	DoIsolationCut          bool     `json:"DoIsolationCut"`
	IsolationWP             string   `json:"IsolationWP"`
	IsolationExpression     string   `json:"IsolationExpression"`
	CaloBasedIsoType        *string  `json:"CaloBasedIsoType"`
	CaloBasedIsoCut         float64  `json:"CaloBasedIsoCut"`
	TrackBasedIsoType       *string  `json:"TrackBasedIsoType"`
	TrackBasedIsoCut        float64  `json:"TrackBasedIsoCut"`
	MuonQuality             string   `json:"MuonQuality"`
	MuonType                string   `json:"MuonType"`
	PassDecorKeys           string   `json:"PassDecorKeys"`
	FailDecorKeys           string   `json:"FailDecorKeys"`
}

// LoadFile reads and resolves a CUE configuration file.
func LoadFile(path string) ([]Selector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, path)
}

// Parse resolves every selector in a CUE document, in declaration order.
// Each returned Selector has passed Validate.
func Parse(data []byte, filename string) ([]Selector, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return nil, formatCUEError(err, "cue")
	}

	selectorsVal := schema.Unify(doc).LookupPath(cue.ParsePath("selectors"))
	if !selectorsVal.Exists() {
		return nil, &Error{Key: "selectors", Message: "no selectors defined"}
	}
	if err := selectorsVal.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, "selectors")
	}

	iter, err := selectorsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err, "selectors")
	}

	var selectors []Selector
	seen := make(map[string]bool)
	for iter.Next() {
		name := norm.NFC.String(iter.Label())

		var raw rawSelector
		if err := iter.Value().Decode(&raw); err != nil {
			return nil, formatCUEError(err, "selectors."+name)
		}

		sel := raw.resolve(name)
		if err := sel.Validate(); err != nil {
			return nil, err
		}
		if seen[sel.Name] {
			return nil, &Error{Selector: sel.Name, Key: "name", Message: "duplicate selector name"}
		}
		seen[sel.Name] = true
		selectors = append(selectors, sel)
	}

	if len(selectors) == 0 {
		return nil, &Error{Key: "selectors", Message: "no selectors defined"}
	}
	return selectors, nil
}

// resolve converts the decoded CUE value into a Selector.
// Container and key names are NFC-normalised so byte-equal names resolve.
func (r *rawSelector) resolve(name string) Selector {
	family := ir.Family(r.Family)
	s := Default(name, family)

	s.Debug = r.Debug
	s.UseCutFlow = r.UseCutFlow
	s.InputContainer = norm.NFC.String(r.InputContainer)
	s.OutputContainer = norm.NFC.String(r.OutputContainer)
	s.InputAlgoSystNames = norm.NFC.String(r.InputAlgoSystNames)
	if r.OutputAlgoSystNames != nil {
		s.OutputAlgoSystNames = norm.NFC.String(*r.OutputAlgoSystNames)
	}
	s.DecorateSelectedObjects = r.DecorateSelectedObjects
	s.CreateSelectedContainer = r.CreateSelectedContainer
	s.NToProcess = r.NToProcess
	s.PassMin = r.PassMin
	s.PassMax = r.PassMax

	s.PtMin = ir.BoundFrom(r.PtMin)
	s.PtMax = ir.BoundFrom(r.PtMax)
	s.EtaMax = ir.BoundFrom(r.EtaMax)
	s.D0Max = ir.BoundFrom(r.D0Max)
	s.D0SigMax = ir.BoundFrom(r.D0SigMax)
	s.Z0SinThetaMax = ir.BoundFrom(r.Z0SinThetaMax)

	s.VetoCrack = r.VetoCrack
	s.DoAuthorCut = r.DoAuthorCut
	s.DoOQCut = r.DoOQCut
	s.ConfDirPID = r.ConfDirPID

	s.DoLHPIDCut = r.DoLHPIDCut
	s.LHOperatingPoint = r.LHOperatingPoint
	s.LHConfigYear = r.LHConfigYear
	s.DoCutBasedPIDCut = r.DoCutBasedPIDCut
	s.CutBasedOperatingPoint = r.CutBasedOperatingPoint
	s.CutBasedConfigYear = r.CutBasedConfigYear

	s.DoIsolationCut = r.DoIsolationCut
	s.IsolationWP = r.IsolationWP
	s.IsolationExpression = r.IsolationExpression
	if r.CaloBasedIsoType != nil {
		s.CaloBasedIsoType = *r.CaloBasedIsoType
	}
	s.CaloBasedIsoCut = r.CaloBasedIsoCut
	if r.TrackBasedIsoType != nil {
		s.TrackBasedIsoType = *r.TrackBasedIsoType
	}
	s.TrackBasedIsoCut = r.TrackBasedIsoCut

	s.MuonQuality = r.MuonQuality
	s.MuonType = r.MuonType

	s.PassDecorKeys = ParseKeyList(norm.NFC.String(r.PassDecorKeys))
	s.FailDecorKeys = ParseKeyList(norm.NFC.String(r.FailDecorKeys))

	return s
}
