package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/roach88/objsel/internal/cutflow"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with one selector and a matching book.
func createTestRun(id string) (Run, *cutflow.Book) {
	acc := cutflow.New("muonSelect", true)
	acc.AddEvent()
	acc.AddObjects(2, 1)
	acc.AddEventPass(0.5)

	book := cutflow.NewBook("all", "muonSelect")
	book.Raw.Fill("all", 1)
	book.Weighted.Fill("all", 0.5)
	book.Finalize(acc)

	run := Run{
		ID:            id,
		EngineVersion: "0.1.0",
		SchemaVersion: "1",
		Events:        1,
		Skipped:       0,
		Selectors: []SelectorRecord{{
			Name:       "muonSelect",
			Family:     "muon",
			ConfigHash: "abc123",
			Config:     `{"name":"muonSelect"}`,
			Cutflow:    acc.Snapshot(),
		}},
	}
	return run, book
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("table_info(%s) failed: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan column: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
