// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/objsel/internal/config"
	"github.com/roach88/objsel/internal/event"
	"github.com/roach88/objsel/internal/ir"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ElectronSelector returns a valid electron configuration reading input.
func ElectronSelector(name, input string) config.Selector {
	s := config.Default(name, ir.FamilyElectron)
	s.InputContainer = input
	return s
}

// MuonSelector returns a valid muon configuration reading input.
func MuonSelector(name, input string) config.Selector {
	s := config.Default(name, ir.FamilyMuon)
	s.InputContainer = input
	return s
}

// Electron returns an electron passing every default cut and carrying a
// true tag for every identification and isolation working point.
func Electron(pt, eta float64) *ir.Object {
	tags := map[string]bool{}
	for _, wp := range config.LHOperatingPoints {
		tags["LH"+wp] = true
	}
	for _, wp := range config.CutBasedOperatingPoints {
		tags[wp] = true
	}
	for _, wp := range []string{"Loose", "Tight", "Gradient"} {
		tags["iso"+wp] = true
	}
	return &ir.Object{
		Pt:      pt,
		Eta:     eta,
		Author:  ir.AuthorElectron,
		Cluster: &ir.Cluster{Eta: eta},
		Track:   &ir.Track{D0: 0.01, D0Variance: 0.0001, Z0: 0.05, Theta: 1.2},
		Tags:    tags,
	}
}

// Muon returns an isolated, Tight-quality muon of the given type.
func Muon(pt, eta float64, typ ir.MuonType) *ir.Object {
	return &ir.Object{
		Pt:        pt,
		Eta:       eta,
		Type:      typ,
		Quality:   ir.QualityTight,
		Track:     &ir.Track{D0: 0.01, D0Variance: 0.0001, Z0: 0.05, Theta: 1.2},
		Isolation: map[string]float64{"ptcone20": 0.1, "etcone20": 0.1},
	}
}

// Store returns an event store with weight, a primary vertex at the
// origin and the given collections.
func Store(number int64, weight float64, collections map[string]ir.Collection) *event.Store {
	s := event.NewStore(number)
	s.SetWeight(weight)
	s.SetVertices([]ir.Vertex{{Type: ir.VertexPrimary}})
	for key, c := range collections {
		if err := s.RecordCollection(key, c); err != nil {
			panic(err)
		}
	}
	return s
}
