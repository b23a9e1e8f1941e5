package mongodb

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"hopper/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps each graph in its own collection: one adjacency document per
// source node ({ID, Edges}) plus a single metadata document marked with
// Meta: true. IDs are stored numerically so partition reads can filter with
// $mod on the server.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

type adjacencyDoc struct {
	ID    int64   `bson:"ID"`
	Edges []int64 `bson:"Edges"`
}

type metaDoc struct {
	Meta     bool  `bson:"Meta"`
	NumNodes int64 `bson:"NumNodes"`
	NumEdges int64 `bson:"NumEdges"`
}

func Open(ctx context.Context, cfg database.Config) (*Store, error) {
	database.LoadEnv()
	uri := cfg.URI
	if env := os.Getenv("MONGO_URI"); env != "" {
		uri = env
	}
	if uri == "" {
		return nil, fmt.Errorf("mongo backend needs a URI (config or MONGO_URI in .env)")
	}

	serverAPIOptions := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPIOptions)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, err
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = database.DEFAULT_DATABASE
	}
	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Meta(ctx context.Context, graph string) (database.GraphMeta, error) {
	if err := database.ValidateGraphName(graph); err != nil {
		return database.GraphMeta{}, err
	}
	var meta metaDoc
	err := s.db.Collection(graph).FindOne(ctx, bson.M{"Meta": true}).Decode(&meta)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return database.GraphMeta{}, fmt.Errorf("graph %v has no metadata document", graph)
		}
		return database.GraphMeta{}, err
	}
	return database.GraphMeta{
		Name:     graph,
		NumNodes: uint64(meta.NumNodes),
		NumEdges: uint64(meta.NumEdges),
	}, nil
}

func (s *Store) Edges(ctx context.Context, graph string, numWorkers uint32, workerIdx uint32, fn func([]database.Edge) error) error {
	if err := database.ValidateGraphName(graph); err != nil {
		return err
	}
	filter := bson.M{
		"ID": bson.M{"$exists": true},
		"$expr": bson.M{
			"$eq": bson.A{
				bson.M{"$mod": bson.A{"$ID", int64(numWorkers)}},
				int64(workerIdx),
			},
		},
	}
	cursor, err := s.db.Collection(graph).Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	batcher := database.NewEdgeBatcher(fn)
	for cursor.Next(ctx) {
		var doc adjacencyDoc
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		source := uint32(doc.ID)
		for _, target := range doc.Edges {
			if err := batcher.Add(database.Edge{Source: source, Target: uint32(target)}); err != nil {
				return err
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return err
	}
	return batcher.Flush()
}

func (s *Store) WriteGraph(ctx context.Context, meta database.GraphMeta, adjacency map[uint32][]uint32) error {
	if err := database.ValidateGraphName(meta.Name); err != nil {
		return err
	}
	collection := s.db.Collection(meta.Name)
	if err := collection.Drop(ctx); err != nil {
		return err
	}

	docs := make([]interface{}, 0, len(adjacency)+1)
	docs = append(docs, metaDoc{
		Meta:     true,
		NumNodes: int64(meta.NumNodes),
		NumEdges: int64(meta.NumEdges),
	})
	for source, targets := range adjacency {
		edges := make([]int64, len(targets))
		for idx, target := range targets {
			edges[idx] = int64(target)
		}
		docs = append(docs, adjacencyDoc{ID: int64(source), Edges: edges})
	}

	numBatches := int(math.Ceil(float64(len(docs)) / float64(database.MAXIMUM_ITEMS_PER_BATCH)))
	for b := 0; b < numBatches; b++ {
		low := b * database.MAXIMUM_ITEMS_PER_BATCH
		high := low + database.MAXIMUM_ITEMS_PER_BATCH
		if high > len(docs) {
			high = len(docs)
		}
		if _, err := collection.InsertMany(ctx, docs[low:high]); err != nil {
			return fmt.Errorf("failed to upload batch %v/%v: %v", b+1, numBatches, err)
		}
		log.Printf("WriteGraph: uploaded batch %v/%v\n", b+1, numBatches)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
