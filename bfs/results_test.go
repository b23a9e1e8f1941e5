package bfs

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestExportResultsWritesClaimedNodes(t *testing.T) {
	workers := newTestMesh(t, 6, 2, testEdges, 0)
	runMesh(t, workers)

	path := filepath.Join(t.TempDir(), "results0.db")
	if err := exportResults(path, workers[0].query); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	// worker 0 owns nodes 0, 2 and 4; all three are reachable from the root
	rows := readResults(t, path)
	expected := map[uint64][2]uint64{
		0: {0, 0},
		2: {0, 1},
		4: {3, 3},
	}
	if len(rows) != len(expected) {
		t.Fatalf("expected %v rows but got %v", len(expected), len(rows))
	}
	for node, want := range expected {
		got, ok := rows[node]
		if !ok {
			t.Errorf("node %v missing from the results", node)
			continue
		}
		if got != want {
			t.Errorf("node %v: expected predecessor %v in round %v, got %v in round %v",
				node, want[0], want[1], got[0], got[1])
		}
	}
}

func TestExportResultsReplacesPreviousRows(t *testing.T) {
	workers := newTestMesh(t, 6, 2, testEdges, 0)
	runMesh(t, workers)

	path := filepath.Join(t.TempDir(), "results.db")
	if err := exportResults(path, workers[0].query); err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if err := exportResults(path, workers[1].query); err != nil {
		t.Fatalf("second export failed: %v", err)
	}

	// worker 1 owns nodes 1, 3 and 5; node 5 is unreached and worker 0's
	// rows are gone
	rows := readResults(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows but got %v", len(rows))
	}
	if _, ok := rows[0]; ok {
		t.Errorf("rows of the previous export should be replaced")
	}
	if _, ok := rows[5]; ok {
		t.Errorf("unreached node 5 should have no row")
	}
	if got, ok := rows[1]; !ok || got[1] != 1 {
		t.Errorf("node 1 should be claimed in round 1, got %v (%v)", got, ok)
	}
	if got, ok := rows[3]; !ok || got[1] != 2 {
		t.Errorf("node 3 should be claimed in round 2, got %v (%v)", got, ok)
	}
}

// readResults loads the exported rows as node -> (predecessor, round).
func readResults(t *testing.T, path string) map[uint64][2]uint64 {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("could not open results database: %v", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT node, predecessor, round FROM results")
	if err != nil {
		t.Fatalf("could not read results: %v", err)
	}
	defer rows.Close()

	results := make(map[uint64][2]uint64)
	for rows.Next() {
		var node, pred, round uint64
		if err := rows.Scan(&node, &pred, &round); err != nil {
			t.Fatalf("could not scan row: %v", err)
		}
		results[node] = [2]uint64{pred, round}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("could not read results: %v", err)
	}
	return results
}
