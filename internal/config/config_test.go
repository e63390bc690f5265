package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/objsel/internal/ir"
)

func TestDefault_MatchesDocumentedDefaults(t *testing.T) {
	s := Default("electronSel", ir.FamilyElectron)

	assert.True(t, s.UseCutFlow)
	assert.True(t, s.DecorateSelectedObjects)
	assert.False(t, s.CreateSelectedContainer)
	assert.Equal(t, -1, s.NToProcess)
	assert.Equal(t, -1, s.PassMin)
	assert.Equal(t, -1, s.PassMax)
	assert.False(t, s.PtMin.IsSet())
	assert.False(t, s.PtMax.IsSet())
	assert.False(t, s.EtaMax.IsSet())
	assert.True(t, s.VetoCrack)
	assert.True(t, s.DoAuthorCut)
	assert.True(t, s.DoOQCut)
	assert.Equal(t, "Loose", s.LHOperatingPoint)
	assert.Equal(t, "2015", s.LHConfigYear)
	assert.Equal(t, "IsEMLoose", s.CutBasedOperatingPoint)
	assert.Equal(t, "2012", s.CutBasedConfigYear)
	assert.Equal(t, "Tight", s.IsolationWP)
	assert.Equal(t, "ElectronSelector_Syst", s.OutputAlgoSystNames)
	assert.Equal(t, "topoetcone20", s.CaloBasedIsoType)

	m := Default("muonSel", ir.FamilyMuon)
	assert.Equal(t, "Medium", m.MuonQuality)
	assert.Equal(t, "", m.MuonType)
	assert.Equal(t, "MuonSelector_Syst", m.OutputAlgoSystNames)
	assert.Equal(t, "etcone20", m.CaloBasedIsoType)
	assert.Equal(t, "ptcone20", m.TrackBasedIsoType)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		family  ir.Family
		mutate  func(s *Selector)
		wantKey string
	}{
		{"valid electron", ir.FamilyElectron, func(s *Selector) {}, ""},
		{"valid muon", ir.FamilyMuon, func(s *Selector) { s.MuonType = "MuonStandAlone" }, ""},
		{"missing input", ir.FamilyElectron, func(s *Selector) { s.InputContainer = "" }, "InputContainer"},
		{"unknown family", "photon", func(s *Selector) {}, "Family"},
		{"unknown LH point", ir.FamilyElectron, func(s *Selector) { s.LHOperatingPoint = "Medium2" }, "LHOperatingPoint"},
		{"unknown cut-based point", ir.FamilyElectron, func(s *Selector) { s.CutBasedOperatingPoint = "Loose" }, "CutBasedOperatingPoint"},
		{"unknown muon quality", ir.FamilyMuon, func(s *Selector) { s.MuonQuality = "Ultra" }, "MuonQuality"},
		{"unknown muon type", ir.FamilyMuon, func(s *Selector) { s.MuonType = "Combined " }, "MuonType"},
		{"output container required", ir.FamilyElectron, func(s *Selector) { s.CreateSelectedContainer = true }, "OutputContainer"},
		{"inverted pass gate", ir.FamilyMuon, func(s *Selector) { s.PassMin, s.PassMax = 3, 1 }, "PassMin"},
		{"user defined isolation needs expression", ir.FamilyElectron, func(s *Selector) { s.IsolationWP = IsolationUserDefined }, "IsolationExpression"},
		{"electron vocab ignored for muons", ir.FamilyMuon, func(s *Selector) { s.LHOperatingPoint = "bogus" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default("sel", tt.family)
			s.InputContainer = "Objects"
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
			assert.Equal(t, "sel", cfgErr.Selector)
		})
	}
}

func TestParseKeyList(t *testing.T) {
	assert.Nil(t, ParseKeyList(""))
	assert.Equal(t, []string{"a", "b"}, ParseKeyList("a,,b,"))
	assert.Equal(t, []string{"passOR", "isSignal"}, ParseKeyList(" passOR , isSignal"))
}

func TestParse_DefaultsAndOverrides(t *testing.T) {
	src := `
selectors: electronSelect_signal: {
	Family:             "electron"
	InputContainer:     "Electrons_Calib"
	InputAlgoSystNames: "ElectronCalib_Syst"
	pTMin:              25
	etaMax:             2.47
	d0sigMax:           1e8
	DoLHPIDCut:         true
	LHOperatingPoint:   "Medium"
	PassMin:            1
	PassDecorKeys:      "passOR,,isSignal"
}
selectors: muonSelect_signal: {
	Family:         "muon"
	InputContainer: "Muons_Calib"
	MuonType:       "Combined"
}
`
	selectors, err := Parse([]byte(src), "test.cue")
	require.NoError(t, err)
	require.Len(t, selectors, 2)

	el := selectors[0]
	assert.Equal(t, "electronSelect_signal", el.Name)
	assert.Equal(t, ir.FamilyElectron, el.Family)
	assert.Equal(t, "Electrons_Calib", el.InputContainer)
	assert.True(t, el.FanOut())
	assert.Equal(t, "ElectronSelector_Syst", el.OutputAlgoSystNames)
	require.True(t, el.PtMin.IsSet())
	assert.Equal(t, 25.0, el.PtMin.Value())
	assert.InDelta(t, 2.47, el.EtaMax.Value(), 1e-12)
	assert.False(t, el.D0SigMax.IsSet(), "legacy sentinel reads as no bound")
	assert.False(t, el.PtMax.IsSet())
	assert.True(t, el.DoLHPIDCut)
	assert.Equal(t, "Medium", el.LHOperatingPoint)
	assert.Equal(t, 1, el.PassMin)
	assert.Equal(t, -1, el.PassMax)
	assert.True(t, el.VetoCrack)
	assert.Equal(t, []string{"passOR", "isSignal"}, el.PassDecorKeys)

	mu := selectors[1]
	assert.Equal(t, "muonSelect_signal", mu.Name)
	assert.Equal(t, "Combined", mu.MuonType)
	assert.Equal(t, "Medium", mu.MuonQuality)
	assert.Equal(t, "MuonSelector_Syst", mu.OutputAlgoSystNames)
	assert.False(t, mu.FanOut())
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	src := `
selectors: sel: {
	Family:         "muon"
	InputContainer: "Muons"
	ptMin:          10
}
`
	_, err := Parse([]byte(src), "typo.cue")
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestParse_UnknownOperatingPointRejected(t *testing.T) {
	src := `
selectors: sel: {
	Family:           "electron"
	InputContainer:   "Electrons"
	LHOperatingPoint: "SuperTight"
}
`
	_, err := Parse([]byte(src), "op.cue")
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "LHOperatingPoint", cfgErr.Key)
	assert.Contains(t, err.Error(), "SuperTight")
}

func TestParse_MissingInputContainer(t *testing.T) {
	_, err := Parse([]byte(`selectors: sel: Family: "electron"`), "empty.cue")
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "InputContainer", cfgErr.Key)
}

func TestParse_NoSelectors(t *testing.T) {
	_, err := Parse([]byte(`other: 1`), "none.cue")
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse([]byte(`selectors: {`), "broken.cue")
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sel.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
selectors: muonSel: {
	Family:         "muon"
	InputContainer: "Muons"
}
`), 0644))

	selectors, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, selectors, 1)
	assert.Equal(t, "muonSel", selectors[0].Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.False(t, IsConfigurationError(err))
}

func TestHash_StableAndSensitive(t *testing.T) {
	a := Default("sel", ir.FamilyElectron)
	a.InputContainer = "Electrons"
	b := a

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)

	b.PtMin = ir.NewBound(20)
	hc, err := Hash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}
