package selection

import (
	"log/slog"

	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/ir"
)

// Decoration prefixes for the identification working points.
const (
	LikelihoodPrefix = "LH"
	CutBasedPrefix   = ""
)

// NewElectronDecider builds the electron plan:
//
//	decoration keys, author, object quality, pT max, pT min, |eta| max,
//	crack veto, d0, d0 significance, z0 sin(theta),
//	likelihood PID, cut-based PID, isolation
//
// The identification families and isolation always run; their hard cuts
// follow DoLHPIDCut, DoCutBasedPIDCut and DoIsolationCut. With a family's
// cut disabled its loosest point is selected so that every working point
// is decorated.
func NewElectronDecider(cfg config.Selector, tools ElectronTools, logger *slog.Logger) (*Decider, error) {
	if cfg.Family != ir.FamilyElectron {
		return nil, &config.Error{Selector: cfg.Name, Key: "Family", Message: "electron decider requires the electron family"}
	}

	lhWP := config.LHOperatingPoints[0]
	if cfg.DoLHPIDCut {
		lhWP = cfg.LHOperatingPoint
	}
	likelihood, err := NewWorkingPoints(cfg.Name, "likelihood", LikelihoodPrefix,
		config.LHOperatingPoints, tools.Likelihood, lhWP, "LHOperatingPoint")
	if err != nil {
		return nil, err
	}

	cbWP := config.CutBasedOperatingPoints[0]
	if cfg.DoCutBasedPIDCut {
		cbWP = cfg.CutBasedOperatingPoint
	}
	cutBased, err := NewWorkingPoints(cfg.Name, "cut-based", CutBasedPrefix,
		config.CutBasedOperatingPoints, tools.CutBased, cbWP, "CutBasedOperatingPoint")
	if err != nil {
		return nil, err
	}

	if tools.Isolation == nil {
		return nil, &config.Error{Selector: cfg.Name, Key: "IsolationWP", Message: "no isolation tool provided"}
	}

	var p plan
	p.decorationKeys(cfg.PassDecorKeys, cfg.FailDecorKeys)
	p.cutIf(cfg.DoAuthorCut, "author", authorMatch())
	p.cutIf(cfg.DoOQCut, "objectQuality", objectQuality())
	p.bound("pTMax", cfg.PtMax, ptMax)
	p.bound("pTMin", cfg.PtMin, ptMin)
	p.bound("etaMax", cfg.EtaMax, etaMax)
	p.cutIf(cfg.VetoCrack, "crackVeto", crackVeto())
	p.bound("d0Max", cfg.D0Max, d0Max)
	p.bound("d0sigMax", cfg.D0SigMax, d0SigMax)
	p.bound("z0sinthetaMax", cfg.Z0SinThetaMax, z0SinThetaMax)
	p.step(Step{
		Name:    "likelihoodPID",
		HardCut: cfg.DoLHPIDCut,
		Eval:    func(obj *ir.Object, _ Context) bool { return likelihood.Decorate(obj) },
	})
	p.step(Step{
		Name:    "cutBasedPID",
		HardCut: cfg.DoCutBasedPIDCut,
		Eval:    func(obj *ir.Object, _ Context) bool { return cutBased.Decorate(obj) },
	})
	p.step(Step{
		Name:    "isolation",
		HardCut: cfg.DoIsolationCut,
		Eval:    isolationDecision(tools.Isolation),
	})

	d := NewDecider(cfg.Name, p, logger)
	d.SetVerbose(cfg.Debug)
	return d, nil
}
