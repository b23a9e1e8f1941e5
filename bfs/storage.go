package bfs

import (
	"context"
	"fmt"

	"hopper/database"
	"hopper/database/mongodb"
)

// storage backends a worker or the loader can pull graphs from
const (
	STORAGE_MONGODB  = "mongodb"
	STORAGE_DYNAMODB = "dynamodb"
	STORAGE_SQL      = "sql"
)

// OpenStore opens the graph storage backend named in the config.
func OpenStore(ctx context.Context, cfg database.Config) (database.Store, error) {
	switch cfg.Backend {
	case STORAGE_MONGODB:
		return mongodb.Open(ctx, cfg)
	case STORAGE_DYNAMODB:
		return database.OpenDynamo(ctx, cfg)
	case STORAGE_SQL:
		return database.OpenSQL(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %v", cfg.Backend)
	}
}
