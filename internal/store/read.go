package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/objsel/internal/cutflow"
)

// ErrRunNotFound is returned when a run id is not stored.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns every run without its selectors, oldest first.
// Returns an empty slice (not nil) if no run is stored.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, engine_version, schema_version, events, skipped
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.EngineVersion, &r.SchemaVersion, &r.Events, &r.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestRunID returns the id of the most recently written run.
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRunNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query latest run: %w", err)
	}
	return id, nil
}

// ReadRun returns a run with its selectors in configuration order.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, engine_version, schema_version, events, skipped
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.ID, &r.EngineVersion, &r.SchemaVersion, &r.Events, &r.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, family, config_hash, config,
		       events, events_passed, weighted_events_passed, objects_seen, objects_passed
		FROM selectors
		WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return Run{}, fmt.Errorf("query selectors: %w", err)
	}
	defer rows.Close()

	r.Selectors = []SelectorRecord{}
	for rows.Next() {
		var sel SelectorRecord
		if err := rows.Scan(
			&sel.Name,
			&sel.Family,
			&sel.ConfigHash,
			&sel.Config,
			&sel.Cutflow.Events,
			&sel.Cutflow.EventsPassed,
			&sel.Cutflow.WeightedEventsPassed,
			&sel.Cutflow.ObjectsSeen,
			&sel.Cutflow.ObjectsPassed,
		); err != nil {
			return Run{}, fmt.Errorf("scan selector: %w", err)
		}
		sel.Cutflow.Name = sel.Name
		r.Selectors = append(r.Selectors, sel)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate selectors: %w", err)
	}
	return r, nil
}

// ReadHistogram returns the bins of one histogram of a run in axis order.
// Returns an empty slice (not nil) if the histogram has no bins.
func (s *Store) ReadHistogram(ctx context.Context, runID, name string) ([]cutflow.Bin, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT label, content
		FROM bins
		WHERE run_id = ? AND histogram = ?
		ORDER BY bin ASC
	`, runID, name)
	if err != nil {
		return nil, fmt.Errorf("query bins: %w", err)
	}
	defer rows.Close()

	bins := []cutflow.Bin{}
	for rows.Next() {
		var b cutflow.Bin
		if err := rows.Scan(&b.Label, &b.Content); err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		bins = append(bins, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bins: %w", err)
	}
	return bins, nil
}

// FindRunsByConfigHash returns the ids of runs containing a selector with
// the given configuration hash, oldest first.
func (s *Store) FindRunsByConfigHash(ctx context.Context, hash string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT r.id, r.seq
		FROM runs r
		JOIN selectors s ON s.run_id = r.id
		WHERE s.config_hash = ?
		ORDER BY r.seq ASC
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("query runs by hash: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		var seq int64
		if err := rows.Scan(&id, &seq); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run ids: %w", err)
	}
	return ids, nil
}
