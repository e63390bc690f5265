package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/engine"
	"github.com/roach88/objsel/internal/store"
)

func TestRun_TextOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "sel.cue", testConfig)
	events := writeFile(t, dir, "events.yaml", testEvents)

	out, errOut, err := execute(t, "run", "--config", cfg, "--events", events)
	require.NoError(t, err)
	assert.Contains(t, out, "2 event(s), 1 skipped")
	assert.Regexp(t, `electronSelect\s+1\s+2`, out)
	assert.Contains(t, errOut, "run starting")
}

func TestRun_JSONAndDatabase(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "sel.cue", testConfig)
	events := writeFile(t, dir, "events.yaml", testEvents)
	db := filepath.Join(dir, "cutflow.db")

	root := &RootOptions{Format: "json"}
	opts := &RunOptions{
		RootOptions: root,
		Config:      cfg,
		Events:      events,
		Database:    db,
		RunIDs:      engine.NewFixedGenerator("run-cli-1"),
	}
	cmd := NewRunCommand(root)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, runSelection(opts, cmd))

	var resp struct {
		Status string    `json:"status"`
		Data   RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-cli-1", resp.Data.RunID)
	assert.Equal(t, int64(2), resp.Data.Events)
	assert.Equal(t, int64(1), resp.Data.Skipped)
	assert.Equal(t, db, resp.Data.Database)
	assert.Equal(t, []cutflow.Bin{
		{Label: "all", Content: 2},
		{Label: "electronSelect", Content: 1},
		{Label: "muonSelect", Content: 1},
	}, resp.Data.Cutflow)
	assert.Equal(t, []cutflow.Bin{
		{Label: "all", Content: 3},
		{Label: "electronSelect", Content: 2},
		{Label: "muonSelect", Content: 2},
	}, resp.Data.Weighted)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(context.Background(), "run-cli-1")
	require.NoError(t, err)
	require.Len(t, run.Selectors, 2)
	assert.Equal(t, resp.Data.Selectors[0], run.Selectors[0].Cutflow)
}

func TestRun_ConfigurationError(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "sel.cue", `selectors: s: { Family: "muon", InputContainer: "Muons", MuonQuality: "Ultra" }`)
	events := writeFile(t, dir, "events.yaml", testEvents)

	out, _, err := execute(t, "run", "--config", cfg, "--events", events)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_CONFIG]")
}

func TestRun_MissingUpstreamData(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "sel.cue", testConfig)
	events := writeFile(t, dir, "events.yaml", `
events:
  - number: 7
    collections:
      Electrons: []
`)

	out, _, err := execute(t, "run", "--config", cfg, "--events", events, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMissingUpstream, resp.Error.Code)
}

func TestRun_BadEventFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "sel.cue", testConfig)
	events := writeFile(t, dir, "events.yaml", "events:\n  - numbr: 1\n")

	_, _, err := execute(t, "run", "--config", cfg, "--events", events)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load events")
}

func TestRun_RequiresFlags(t *testing.T) {
	_, _, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
