package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
)

// sql server caps a VALUES list at 1000 rows
const sqlInsertBatchSize = 500

// SQLStore keeps each graph in a pair of tables, <graph>_edges (one row per
// edge) and <graph>_meta (a single row). The driver is picked by config, so
// the same store runs against mysql or sqlserver. Statements interpolate
// only integers and validated graph names.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func OpenSQL(cfg Config) (*SQLStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "mysql"
	}
	dsn := envOr("SQL_DSN", cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("sql backend needs a DSN (config or SQL_DSN in .env)")
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %v", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Meta(ctx context.Context, graph string) (GraphMeta, error) {
	if err := ValidateGraphName(graph); err != nil {
		return GraphMeta{}, err
	}
	var meta GraphMeta
	meta.Name = graph
	row := s.db.QueryRowContext(ctx, "SELECT num_nodes, num_edges FROM "+graph+"_meta;")
	if err := row.Scan(&meta.NumNodes, &meta.NumEdges); err != nil {
		if err == sql.ErrNoRows {
			return GraphMeta{}, fmt.Errorf("graph %v has no metadata row", graph)
		}
		return GraphMeta{}, err
	}
	return meta, nil
}

func (s *SQLStore) Edges(ctx context.Context, graph string, numWorkers uint32, workerIdx uint32, fn func([]Edge) error) error {
	if err := ValidateGraphName(graph); err != nil {
		return err
	}
	query := "SELECT src, dst FROM " + graph + "_edges WHERE src % " +
		strconv.FormatUint(uint64(numWorkers), 10) + " = " +
		strconv.FormatUint(uint64(workerIdx), 10) + ";"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	batcher := NewEdgeBatcher(fn)
	for rows.Next() {
		var src, dst uint64
		if err := rows.Scan(&src, &dst); err != nil {
			return err
		}
		if err := batcher.Add(Edge{Source: uint32(src), Target: uint32(dst)}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return batcher.Flush()
}

func (s *SQLStore) WriteGraph(ctx context.Context, meta GraphMeta, adjacency map[uint32][]uint32) error {
	if err := ValidateGraphName(meta.Name); err != nil {
		return err
	}
	if err := s.ensureTables(ctx, meta.Name); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+meta.Name+"_edges;"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+meta.Name+"_meta;"); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO %s_meta (num_nodes, num_edges) VALUES (%d, %d);",
		meta.Name, meta.NumNodes, meta.NumEdges))
	if err != nil {
		return err
	}

	var values []string
	flush := func() error {
		if len(values) == 0 {
			return nil
		}
		stmt := "INSERT INTO " + meta.Name + "_edges (src, dst) VALUES " + strings.Join(values, ",") + ";"
		values = values[:0]
		_, err := tx.ExecContext(ctx, stmt)
		return err
	}
	for source, targets := range adjacency {
		for _, target := range targets {
			values = append(values, fmt.Sprintf("(%d, %d)", source, target))
			if len(values) >= sqlInsertBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *SQLStore) ensureTables(ctx context.Context, graph string) error {
	var stmts []string
	switch s.driver {
	case "sqlserver":
		stmts = []string{
			fmt.Sprintf("IF OBJECT_ID('%s_edges', 'U') IS NULL CREATE TABLE %s_edges (src BIGINT NOT NULL, dst BIGINT NOT NULL);", graph, graph),
			fmt.Sprintf("IF OBJECT_ID('%s_meta', 'U') IS NULL CREATE TABLE %s_meta (num_nodes BIGINT NOT NULL, num_edges BIGINT NOT NULL);", graph, graph),
		}
	default:
		stmts = []string{
			fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s_edges (src BIGINT NOT NULL, dst BIGINT NOT NULL);", graph),
			fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s_meta (num_nodes BIGINT NOT NULL, num_edges BIGINT NOT NULL);", graph),
		}
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
