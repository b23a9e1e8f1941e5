package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"golang.org/x/sync/errgroup"

	"hopper/bfs"
	"hopper/database"
	"hopper/util"
)

type LoaderConfig struct {
	CoordExternalAddr string
	Storage           database.Config
}

func main() {
	logFile, err := os.OpenFile("hopper.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)
	log.SetPrefix("Loader: ")

	var config LoaderConfig
	err = util.ReadJSONConfig("config/loader_config.json", &config)
	util.CheckErr(err, "Error reading loader config: %v", err)

	switch {
	case len(os.Args) == 4 && os.Args[1] == "seed":
		err = seed(config, os.Args[2], os.Args[3])
	case (len(os.Args) == 3 || len(os.Args) == 4) && os.Args[1] == "stage":
		var numNodes uint64
		if len(os.Args) == 4 {
			numNodes, err = strconv.ParseUint(os.Args[3], 10, 64)
			util.CheckErr(err, "Bad node count %v: %v", os.Args[3], err)
		}
		err = stage(config, os.Args[2], numNodes)
	default:
		fmt.Println("usage: ./bin/loader seed [graphName] [edgeListFile]")
		fmt.Println("       ./bin/loader stage [edgeListFile] [numNodes]")
		fmt.Println("example: ./bin/loader seed roadnet graphs/roadnet.txt")
		fmt.Println("example: ./bin/loader stage graphs/roadnet.txt")
		return
	}
	util.CheckErr(err, "Error loading graph: %v", err)
}

// seed parses an edge list and writes it to the configured storage backend
// under the given name, replacing any previous graph with that name.
func seed(config LoaderConfig, graph string, path string) error {
	if err := database.ValidateGraphName(graph); err != nil {
		return err
	}
	meta, adjacency, err := database.ParseEdgeList(path)
	if err != nil {
		return err
	}
	meta.Name = graph

	database.LoadEnv()
	ctx := context.Background()
	store, err := bfs.OpenStore(ctx, config.Storage)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	if err := store.WriteGraph(ctx, meta, adjacency); err != nil {
		return err
	}
	log.Printf("seeded graph %v: %v nodes, %v edges\n", graph, meta.NumNodes, meta.NumEdges)
	return nil
}

// stage parses an edge list and delivers each edge to the worker that owns
// its source, using the partition assignment the coord serves. Staged edges
// are consumed by the next staged-graph query.
func stage(config LoaderConfig, path string, numNodes uint64) error {
	meta, adjacency, err := database.ParseEdgeList(path)
	if err != nil {
		return err
	}
	if numNodes == 0 {
		numNodes = meta.NumNodes
	} else if numNodes < meta.NumNodes {
		return fmt.Errorf("graph has ids up to %v, node count %v is too small", meta.NumNodes-1, numNodes)
	}

	directory, err := fetchDirectory(config.CoordExternalAddr)
	if err != nil {
		return err
	}
	numWorkers := uint32(len(directory))

	// bucket the edges by the partition that owns their source
	buckets := make(map[uint32][]bfs.Edge)
	for source, targets := range adjacency {
		owner := bfs.Owner(source, numWorkers)
		for _, target := range targets {
			buckets[owner] = append(buckets[owner], bfs.Edge{Source: source, Target: target})
		}
	}

	g := new(errgroup.Group)
	for logicalId, addr := range directory {
		logicalId, addr := logicalId, addr
		g.Go(func() error {
			return stageWorker(addr, logicalId, numNodes, buckets[logicalId])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf("staged %v edges over %v workers (%v nodes)\n", meta.NumEdges, numWorkers, numNodes)
	return nil
}

func stageWorker(addr string, logicalId uint32, numNodes uint64, edges []bfs.Edge) error {
	client, err := util.DialRPC(addr)
	if err != nil {
		return fmt.Errorf("could not reach worker %v at %v: %v", logicalId, addr, err)
	}
	defer client.Close()

	var reply bfs.StageEdgesResult

	// an empty batch still fixes the node count on edge-free partitions
	if len(edges) == 0 {
		args := bfs.StageEdgesArgs{NumNodes: numNodes}
		return client.Call("Worker.StageEdges", args, &reply)
	}

	for start := 0; start < len(edges); start += database.EDGE_BATCH_SIZE {
		end := start + database.EDGE_BATCH_SIZE
		if end > len(edges) {
			end = len(edges)
		}
		args := bfs.StageEdgesArgs{NumNodes: numNodes, Edges: edges[start:end]}
		if err := client.Call("Worker.StageEdges", args, &reply); err != nil {
			return fmt.Errorf("staging at worker %v failed: %v", logicalId, err)
		}
	}
	log.Printf("worker %v staged %v edges\n", logicalId, reply.Staged)
	return nil
}

// fetchDirectory asks the coord's admin API which workers the next query
// will use, keyed by logical id.
func fetchDirectory(coordExternalAddr string) (map[uint32]string, error) {
	url := fmt.Sprintf("http://%v/api/directory", coordExternalAddr)
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		WorkerCount uint32            `json:"workerCount"`
		Directory   map[string]string `json:"directory"`
		Error       string            `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coord has no directory: %v", payload.Error)
	}

	directory := make(map[uint32]string, len(payload.Directory))
	for key, addr := range payload.Directory {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad worker id %q in directory", key)
		}
		directory[uint32(id)] = addr
	}
	if payload.WorkerCount == 0 || uint32(len(directory)) != payload.WorkerCount {
		return nil, fmt.Errorf("directory has %v workers, coord expects %v", len(directory), payload.WorkerCount)
	}
	return directory, nil
}
