package selection

import (
	"math"

	"github.com/roach88/objsel/internal/ir"
)

// Context is the per-event input shared by all criteria.
type Context struct {
	Vertex ir.Vec3
	Weight float64
}

// Eval is a criterion: a predicate over one object in its event context.
type Eval func(obj *ir.Object, ctx Context) bool

// Calorimeter transition region excluded by the crack veto.
const (
	CrackEtaLow  = 1.37
	CrackEtaHigh = 1.52
)

func ptMax(max float64) Eval {
	return func(obj *ir.Object, _ Context) bool { return obj.Pt <= max }
}

func ptMin(min float64) Eval {
	return func(obj *ir.Object, _ Context) bool { return obj.Pt >= min }
}

func etaMax(max float64) Eval {
	return func(obj *ir.Object, _ Context) bool { return math.Abs(obj.Eta) <= max }
}

// crackVeto rejects electrons whose cluster lies in the barrel/end-cap
// transition. Objects without a cluster are not vetoed.
func crackVeto() Eval {
	return func(obj *ir.Object, _ Context) bool {
		if obj.Cluster == nil {
			return true
		}
		eta := math.Abs(obj.Cluster.Eta)
		return !(eta > CrackEtaLow && eta < CrackEtaHigh)
	}
}

// Impact-parameter criteria fail objects that have no track.

func d0Max(max float64) Eval {
	return func(obj *ir.Object, _ Context) bool {
		return obj.Track != nil && math.Abs(obj.Track.D0) < max
	}
}

func d0SigMax(max float64) Eval {
	return func(obj *ir.Object, _ Context) bool {
		return obj.Track != nil && obj.Track.D0Significance() < max
	}
}

func z0SinThetaMax(max float64) Eval {
	return func(obj *ir.Object, ctx Context) bool {
		return obj.Track != nil && math.Abs(obj.Track.Z0SinTheta(ctx.Vertex)) < max
	}
}

func authorMatch() Eval {
	return func(obj *ir.Object, _ Context) bool {
		return obj.HasAuthor(ir.AuthorElectron | ir.AuthorAmbiguous)
	}
}

func objectQuality() Eval {
	return func(obj *ir.Object, _ Context) bool {
		return obj.OQ&ir.BadClusterMask == 0
	}
}

func muonTypeMatch(want ir.MuonType) Eval {
	return func(obj *ir.Object, _ Context) bool { return obj.Type == want }
}

// passDecorations requires every key to be decorated with a non-zero value.
func passDecorations(keys []string) Eval {
	return func(obj *ir.Object, _ Context) bool {
		for _, key := range keys {
			if v, ok := obj.Decoration(key); !ok || v == 0 {
				return false
			}
		}
		return true
	}
}

// failDecorations requires every key to be absent or zero.
func failDecorations(keys []string) Eval {
	return func(obj *ir.Object, _ Context) bool {
		for _, key := range keys {
			if v, ok := obj.Decoration(key); ok && v != 0 {
				return false
			}
		}
		return true
	}
}

// isolationDecision evaluates tool and records the result under the
// isIsolated decoration.
func isolationDecision(tool Tool) Eval {
	return func(obj *ir.Object, _ Context) bool {
		pass := tool.Accept(obj)
		obj.DecorateBool(ir.DecorIsIsolated, pass)
		return pass
	}
}

// ratioIsolation requires both isolation ratios iso/pt to lie in [0, cut).
// Objects missing either variable are treated as isolated.
func ratioIsolation(trackType string, trackCut float64, caloType string, caloCut float64) Eval {
	return func(obj *ir.Object, _ Context) bool {
		trackIso, okTrack := obj.IsolationValue(trackType)
		caloIso, okCalo := obj.IsolationValue(caloType)

		pass := true
		if okTrack && okCalo {
			pass = obj.Pt > 0 &&
				inRatio(trackIso/obj.Pt, trackCut) &&
				inRatio(caloIso/obj.Pt, caloCut)
		}
		obj.DecorateBool(ir.DecorIsIsolated, pass)
		return pass
	}
}

func inRatio(ratio, cut float64) bool {
	return ratio >= 0 && ratio < cut
}

func notStandAlone(obj *ir.Object) bool {
	return obj.Type != ir.MuonStandAlone
}
