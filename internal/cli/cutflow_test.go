package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/objsel/internal/cutflow"
	"github.com/roach88/objsel/internal/engine"
)

// seedDatabase runs the test selection once per run id and returns the
// database path.
func seedDatabase(t *testing.T, ids ...string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := writeFile(t, dir, "sel.cue", testConfig)
	events := writeFile(t, dir, "events.yaml", testEvents)
	db := filepath.Join(dir, "cutflow.db")

	for _, id := range ids {
		root := &RootOptions{Format: "json"}
		opts := &RunOptions{
			RootOptions: root,
			Config:      cfg,
			Events:      events,
			Database:    db,
			RunIDs:      engine.NewFixedGenerator(id),
		}
		cmd := NewRunCommand(root)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		require.NoError(t, runSelection(opts, cmd))
	}
	return db
}

func TestCutflow_Latest(t *testing.T) {
	db := seedDatabase(t, "run-a", "run-b")

	out, _, err := execute(t, "cutflow", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   StoredCutflow `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "run-b", resp.Data.Run.ID)
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
}

func TestCutflow_ByRunText(t *testing.T) {
	db := seedDatabase(t, "run-a", "run-b")

	out, _, err := execute(t, "cutflow", "--db", db, "--run", "run-a")
	require.NoError(t, err)
	assert.Contains(t, out, "Run run-a")
	assert.Contains(t, out, "2 event(s), 1 skipped")
	assert.Regexp(t, `muonSelect\s+1\s+2`, out)
}

func TestCutflow_List(t *testing.T) {
	db := seedDatabase(t, "run-a", "run-b")

	out, _, err := execute(t, "cutflow", "--db", db, "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "RUN")
	assert.Contains(t, out, "run-a")
	assert.Contains(t, out, "run-b")
}

func TestCutflow_ByConfigHash(t *testing.T) {
	db := seedDatabase(t, "run-a")

	out, _, err := execute(t, "cutflow", "--db", db, "--run", "run-a", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data StoredCutflow `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.Data.Run.Selectors)
	hash := resp.Data.Run.Selectors[0].ConfigHash

	out, _, err = execute(t, "cutflow", "--db", db, "--hash", hash)
	require.NoError(t, err)
	assert.Contains(t, out, "run-a")

	out, _, err = execute(t, "cutflow", "--db", db, "--hash", "deadbeef")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs stored.")
}

func TestCutflow_UnknownRun(t *testing.T) {
	db := seedDatabase(t, "run-a")

	out, _, err := execute(t, "cutflow", "--db", db, "--run", "run-zzz")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E_STORE]")
}

func TestCutflow_MissingDatabase(t *testing.T) {
	_, _, err := execute(t, "cutflow", "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestCutflow_ExclusiveFlags(t *testing.T) {
	_, _, err := execute(t, "cutflow", "--db", "x.db", "--run", "a", "--list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}
