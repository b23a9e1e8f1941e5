package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

const MAXIMUM_ITEMS_PER_BATCH = 25
const EDGE_BATCH_SIZE = 4096

const DEFAULT_REGION = "us-east-2"
const DEFAULT_DATABASE = "hopper"

// Config selects and parameterizes a storage backend.
type Config struct {
	Backend  string // mongo | dynamo | sql
	Database string // mongo database name
	URI      string // mongo connection URI (MONGO_URI in .env overrides)
	Region   string // dynamo region
	Driver   string // sql driver name: mysql | sqlserver
	DSN      string // sql data source name (SQL_DSN in .env overrides)
}

type GraphMeta struct {
	Name     string
	NumNodes uint64
	NumEdges uint64
}

type Edge struct {
	Source uint32
	Target uint32
}

// Store is a graph storage backend. Graphs are stored as adjacency rows
// (source node plus its outgoing neighbors) and one metadata record.
type Store interface {
	Meta(ctx context.Context, graph string) (GraphMeta, error)
	// Edges streams the edges whose source belongs to the given partition
	// (source mod numWorkers == workerIdx) to fn, in batches. Batch order
	// and the order of edges within a batch are arbitrary.
	Edges(ctx context.Context, graph string, numWorkers uint32, workerIdx uint32, fn func([]Edge) error) error
	// WriteGraph replaces the named graph with the given adjacency.
	WriteGraph(ctx context.Context, meta GraphMeta, adjacency map[uint32][]uint32) error
	Close(ctx context.Context) error
}

var graphNameRegexp = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateGraphName rejects names that cannot be used as a table or
// collection identifier across the backends.
func ValidateGraphName(graph string) error {
	if !graphNameRegexp.MatchString(graph) {
		return fmt.Errorf("invalid graph name %q: letters, digits and underscores only", graph)
	}
	return nil
}

// LoadEnv pulls backend secrets from .env if one is present.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("LoadEnv: no .env file loaded: %v\n", err)
	}
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EdgeBatcher accumulates edges and hands them to fn in EDGE_BATCH_SIZE
// chunks, so backends stream partitions without materializing them.
type EdgeBatcher struct {
	fn    func([]Edge) error
	batch []Edge
}

func NewEdgeBatcher(fn func([]Edge) error) *EdgeBatcher {
	return &EdgeBatcher{fn: fn, batch: make([]Edge, 0, EDGE_BATCH_SIZE)}
}

func (b *EdgeBatcher) Add(e Edge) error {
	b.batch = append(b.batch, e)
	if len(b.batch) >= EDGE_BATCH_SIZE {
		return b.Flush()
	}
	return nil
}

func (b *EdgeBatcher) Flush() error {
	if len(b.batch) == 0 {
		return nil
	}
	batch := b.batch
	b.batch = make([]Edge, 0, EDGE_BATCH_SIZE)
	return b.fn(batch)
}
