package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/objsel/internal/cutflow"
)

// ErrRunExists is returned when a run id is written twice.
var ErrRunExists = errors.New("run already stored")

// Run is one persisted run.
type Run struct {
	ID            string           `json:"id"`
	EngineVersion string           `json:"engine_version"`
	SchemaVersion string           `json:"schema_version"`
	Events        int64            `json:"events"`
	Skipped       int64            `json:"skipped"`
	Selectors     []SelectorRecord `json:"selectors"`
}

// SelectorRecord is one selector of a run.
type SelectorRecord struct {
	Name       string           `json:"name"`
	Family     string           `json:"family"`
	ConfigHash string           `json:"config_hash"`
	Config     string           `json:"config"`
	Cutflow    cutflow.Snapshot `json:"cutflow"`
}

// WriteRun stores a run, its selectors and both histograms of book in one
// transaction. Writing an existing run id returns ErrRunExists.
func (s *Store) WriteRun(ctx context.Context, run Run, book *cutflow.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, run.ID).Scan(&exists); err != nil {
		return fmt.Errorf("write run: check existing: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("write run %s: %w", run.ID, ErrRunExists)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, engine_version, schema_version, events, skipped)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?)
	`,
		run.ID,
		run.EngineVersion,
		run.SchemaVersion,
		run.Events,
		run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("write run: insert run: %w", err)
	}

	for i, sel := range run.Selectors {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO selectors
			(run_id, position, name, family, config_hash, config,
			 events, events_passed, weighted_events_passed, objects_seen, objects_passed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			i,
			sel.Name,
			sel.Family,
			sel.ConfigHash,
			sel.Config,
			sel.Cutflow.Events,
			sel.Cutflow.EventsPassed,
			sel.Cutflow.WeightedEventsPassed,
			sel.Cutflow.ObjectsSeen,
			sel.Cutflow.ObjectsPassed,
		)
		if err != nil {
			return fmt.Errorf("write run: insert selector %q: %w", sel.Name, err)
		}
	}

	if book != nil {
		for _, h := range []*cutflow.Labelled{book.Raw, book.Weighted} {
			for i, bin := range h.Bins() {
				_, err = tx.ExecContext(ctx, `
					INSERT INTO bins (run_id, histogram, bin, label, content)
					VALUES (?, ?, ?, ?, ?)
				`, run.ID, h.Name(), i+1, bin.Label, bin.Content)
				if err != nil {
					return fmt.Errorf("write run: insert bin %s[%d]: %w", h.Name(), i+1, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}
