package bfs

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// config's workerID so workers sharing a working directory don't collide
func resultsPath(workerId uint32) string {
	return fmt.Sprintf("results%v.db", workerId)
}

const createResults string = `
  CREATE TABLE IF NOT EXISTS results (
  node INTEGER NOT NULL PRIMARY KEY,
  predecessor INTEGER NOT NULL,
  round INTEGER NOT NULL
  );`

// exportResults writes every claimed node of a finished query to the
// worker's results database, replacing the previous query's rows. Unreached
// nodes get no row.
func exportResults(path string, q *workerQuery) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(createResults); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM results"); err != nil {
		return err
	}
	insert, err := tx.Prepare("INSERT INTO results VALUES(?,?,?)")
	if err != nil {
		return err
	}
	defer insert.Close()

	localNodes := q.graph.LocalNodes()
	for local := uint64(0); local < localNodes; local++ {
		pred, ok := q.frontier.Peek(uint32(local))
		if !ok {
			continue
		}
		node := GlobalID(uint32(local), q.numWorkers, q.logicalId)
		if _, err := insert.Exec(node, pred, q.dist[local]); err != nil {
			return err
		}
	}

	return tx.Commit()
}
