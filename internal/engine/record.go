package engine

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/objsel/internal/ir"
	"github.com/roach88/objsel/internal/store"
)

// Record returns the persistable form of the run: counters, every
// selector's resolved configuration and its cutflow snapshot.
func (d *Driver) Record() (store.Run, error) {
	summary := d.Summary()
	run := store.Run{
		ID:            summary.RunID,
		EngineVersion: ir.EngineVersion,
		SchemaVersion: ir.SchemaVersion,
		Events:        summary.Events,
		Skipped:       summary.Skipped,
		Selectors:     make([]store.SelectorRecord, len(d.algorithms)),
	}
	for i, alg := range d.algorithms {
		cfg, err := json.Marshal(alg.Config())
		if err != nil {
			return store.Run{}, fmt.Errorf("marshal config of %s: %w", alg.Name(), err)
		}
		run.Selectors[i] = store.SelectorRecord{
			Name:       alg.Name(),
			Family:     string(alg.Config().Family),
			ConfigHash: alg.ConfigHash(),
			Config:     string(cfg),
			Cutflow:    summary.Cutflows[i],
		}
	}
	return run, nil
}
