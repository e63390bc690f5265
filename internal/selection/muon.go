package selection

import (
	"fmt"
	"log/slog"

	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/ir"
)

// NewMuonDecider builds the muon plan:
//
//	decoration keys, pT max, pT min, |eta| max,
//	d0, d0 significance, z0 sin(theta)  (not for stand-alone muons),
//	type, isolation, quality tool
//
// Stand-alone muons carry no vertex-associated track, so the impact
// parameter steps do not apply to them at all.
func NewMuonDecider(cfg config.Selector, tools MuonTools, logger *slog.Logger) (*Decider, error) {
	if cfg.Family != ir.FamilyMuon {
		return nil, &config.Error{Selector: cfg.Name, Key: "Family", Message: "muon decider requires the muon family"}
	}
	if tools.Quality == nil {
		return nil, &config.Error{Selector: cfg.Name, Key: "MuonQuality", Message: "no muon quality tool provided"}
	}

	var p plan
	p.decorationKeys(cfg.PassDecorKeys, cfg.FailDecorKeys)
	p.bound("pTMax", cfg.PtMax, ptMax)
	p.bound("pTMin", cfg.PtMin, ptMin)
	p.bound("etaMax", cfg.EtaMax, etaMax)

	impact := []struct {
		name string
		b    ir.Bound
		mk   func(float64) Eval
	}{
		{"d0Max", cfg.D0Max, d0Max},
		{"d0sigMax", cfg.D0SigMax, d0SigMax},
		{"z0sinthetaMax", cfg.Z0SinThetaMax, z0SinThetaMax},
	}
	for _, ip := range impact {
		if !ip.b.IsSet() {
			continue
		}
		p.step(Step{Name: ip.name, HardCut: true, Applies: notStandAlone, Eval: ip.mk(ip.b.Value())})
	}

	if cfg.MuonType != "" {
		want, err := ir.ParseMuonType(cfg.MuonType)
		if err != nil {
			return nil, &config.Error{Selector: cfg.Name, Key: "MuonType", Message: err.Error()}
		}
		p.cut("muonType", muonTypeMatch(want))
	}

	p.step(Step{
		Name:    "isolation",
		HardCut: cfg.DoIsolationCut,
		Eval:    ratioIsolation(cfg.TrackBasedIsoType, cfg.TrackBasedIsoCut, cfg.CaloBasedIsoType, cfg.CaloBasedIsoCut),
	})
	p.cut(fmt.Sprintf("quality(%s)", tools.Quality.Name()), func(obj *ir.Object, _ Context) bool {
		return tools.Quality.Accept(obj)
	})

	d := NewDecider(cfg.Name, p, logger)
	d.SetVerbose(cfg.Debug)
	return d, nil
}
