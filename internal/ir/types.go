package ir

import (
	"fmt"
	"math"
)

// Family identifies the kind of reconstructed object a selector handles.
type Family string

const (
	FamilyElectron Family = "electron"
	FamilyMuon     Family = "muon"
)

// ValidFamilies defines the object families a selector can be built for.
var ValidFamilies = map[Family]bool{
	FamilyElectron: true,
	FamilyMuon:     true,
}

// Nominal is the label of the unvaried input collection.
const Nominal = ""

// Vec3 is a position in detector coordinates.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// VertexType classifies a reconstructed vertex.
type VertexType int

const (
	VertexNone    VertexType = 0
	VertexPrimary VertexType = 1
	VertexPileup  VertexType = 3
)

// Vertex is a reconstructed interaction vertex.
type Vertex struct {
	Position Vec3       `json:"position"`
	Type     VertexType `json:"type"`
}

// Track holds the perigee parameters of the track associated with an object.
type Track struct {
	D0    float64 `json:"d0" yaml:"d0"`
	Z0    float64 `json:"z0" yaml:"z0"`
	Vz    float64 `json:"vz" yaml:"vz"`
	Theta float64 `json:"theta" yaml:"theta"`

	// D0Variance is the (0,0) element of the defining-parameter covariance.
	D0Variance float64 `json:"d0_variance" yaml:"d0_variance"`
}

// D0Significance returns |d0| / sigma(d0).
// A non-positive variance yields +Inf so that any configured bound fails.
func (t *Track) D0Significance() float64 {
	if t.D0Variance <= 0 {
		return math.Inf(1)
	}
	return math.Abs(t.D0) / math.Sqrt(t.D0Variance)
}

// Z0SinTheta returns the longitudinal impact parameter with respect to pv,
// projected by sin(theta).
func (t *Track) Z0SinTheta(pv Vec3) float64 {
	return (t.Z0 + t.Vz - pv.Z) * math.Sin(t.Theta)
}

// Cluster is the calorimeter cluster associated with an electron.
type Cluster struct {
	Eta float64 `json:"eta" yaml:"eta"`
}

// Electron author bits.
const (
	AuthorElectron    uint16 = 0x1
	AuthorFwdElectron uint16 = 0x2
	AuthorPhoton      uint16 = 0x4
	AuthorAmbiguous   uint16 = 0x10
)

// BadClusterMask selects the object-quality bits that reject an electron.
const BadClusterMask uint32 = 1446

// MuonType is the reconstruction type of a muon.
type MuonType int

const (
	MuonCombined MuonType = iota
	MuonStandAlone
	MuonSegmentTagged
	MuonCaloTagged
	MuonSiliconAssociatedForward
)

var muonTypeNames = []string{
	"Combined",
	"MuonStandAlone",
	"SegmentTagged",
	"CaloTagged",
	"SiliconAssociatedForwardMuon",
}

func (t MuonType) String() string {
	if t < 0 || int(t) >= len(muonTypeNames) {
		return fmt.Sprintf("MuonType(%d)", int(t))
	}
	return muonTypeNames[t]
}

// ParseMuonType resolves a muon type name.
func ParseMuonType(s string) (MuonType, error) {
	for i, name := range muonTypeNames {
		if name == s {
			return MuonType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown muon type %q", s)
}

// Quality is a muon quality level. Lower values are tighter.
type Quality int

const (
	QualityTight Quality = iota
	QualityMedium
	QualityLoose
	QualityVeryLoose
)

var qualityNames = []string{"Tight", "Medium", "Loose", "VeryLoose"}

func (q Quality) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return qualityNames[q]
}

// ParseQuality resolves a muon quality name.
func ParseQuality(s string) (Quality, error) {
	for i, name := range qualityNames {
		if name == s {
			return Quality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown muon quality %q", s)
}

// Outcome is the per-object selection result.
type Outcome int

const (
	OutcomeNotEvaluated Outcome = -1
	OutcomeFail         Outcome = 0
	OutcomePass         Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case OutcomePass:
		return "pass"
	case OutcomeFail:
		return "fail"
	case OutcomeNotEvaluated:
		return "not-evaluated"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}
