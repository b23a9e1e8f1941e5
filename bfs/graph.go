package bfs

import (
	"fmt"
	"sort"
	"sync"
)

// EdgeStage buffers edge batches for one partition until the round-0 build
// consumes them. Batches arrive in arbitrary order from concurrent RPC
// goroutines or a storage cursor. Any out-of-range id poisons the stage:
// a partial graph is never served, the pending build fails instead.
type EdgeStage struct {
	mu       sync.Mutex
	numNodes uint64
	batches  [][]Edge
	count    uint64
	err      error
}

func NewEdgeStage() *EdgeStage {
	return &EdgeStage{}
}

// Add validates and buffers one batch. The first batch fixes the node count;
// later batches must agree with it.
func (s *EdgeStage) Add(numNodes uint64, edges []Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if numNodes == 0 || numNodes > MaxNodeCount {
		s.err = fmt.Errorf("invalid node count %v", numNodes)
		return s.err
	}
	if s.numNodes == 0 {
		s.numNodes = numNodes
	} else if s.numNodes != numNodes {
		s.err = fmt.Errorf("staged node count %v conflicts with earlier batches (%v)", numNodes, s.numNodes)
		return s.err
	}
	for _, e := range edges {
		if uint64(e.Source) >= numNodes || uint64(e.Target) >= numNodes {
			s.err = fmt.Errorf("edge (%v, %v) outside id range [0, %v)", e.Source, e.Target, numNodes)
			return s.err
		}
	}

	s.batches = append(s.batches, edges)
	s.count += uint64(len(edges))
	return nil
}

// Take moves the staged batches out and resets the stage, so the same stage
// can buffer edges for a later query. A poisoned stage returns its error
// once and also resets.
func (s *EdgeStage) Take() (uint64, [][]Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	numNodes, batches, err := s.numNodes, s.batches, s.err
	s.numNodes = 0
	s.batches = nil
	s.count = 0
	s.err = nil
	if err != nil {
		return 0, nil, err
	}
	return numNodes, batches, nil
}

// Count returns the number of staged edges.
func (s *EdgeStage) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// CSRGraph is one partition's adjacency in compressed sparse row form:
// offsets has one entry per local node plus a terminator, targets holds the
// neighbor ids flat. Built once per query, immutable afterwards. Neighbor
// lookups scan targets sequentially, which is what makes the per-round claim
// loop cheap.
type CSRGraph struct {
	numNodes   uint64
	numWorkers uint32
	workerIdx  uint32
	offsets    []uint64
	targets    []uint32
}

// BuildCSR concatenates the staged batches, validates every edge against the
// node range and the partition key, sorts by local source index and compacts
// into offsets/targets.
func BuildCSR(numNodes uint64, numWorkers uint32, workerIdx uint32, batches [][]Edge) (*CSRGraph, error) {
	if numNodes == 0 || numNodes > MaxNodeCount {
		return nil, fmt.Errorf("invalid node count %v", numNodes)
	}
	if numWorkers == 0 || workerIdx >= numWorkers {
		return nil, fmt.Errorf("invalid partition %v of %v", workerIdx, numWorkers)
	}

	total := 0
	for _, batch := range batches {
		total += len(batch)
	}
	edges := make([]Edge, 0, total)
	for _, batch := range batches {
		for _, e := range batch {
			if uint64(e.Source) >= numNodes || uint64(e.Target) >= numNodes {
				return nil, fmt.Errorf("edge (%v, %v) outside id range [0, %v)", e.Source, e.Target, numNodes)
			}
			if Owner(e.Source, numWorkers) != workerIdx {
				return nil, fmt.Errorf("edge with source %v routed to partition %v, owner is %v",
					e.Source, workerIdx, Owner(e.Source, numWorkers))
			}
			edges = append(edges, e)
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		return LocalIndex(edges[i].Source, numWorkers) < LocalIndex(edges[j].Source, numWorkers)
	})

	localNodes := PartitionSize(numNodes, numWorkers, workerIdx)
	offsets := make([]uint64, localNodes+1)
	targets := make([]uint32, total)
	idx := 0
	for local := uint64(0); local < localNodes; local++ {
		offsets[local+1] = offsets[local]
		for idx < total && uint64(LocalIndex(edges[idx].Source, numWorkers)) == local {
			targets[offsets[local+1]] = edges[idx].Target
			offsets[local+1]++
			idx++
		}
	}

	return &CSRGraph{
		numNodes:   numNodes,
		numWorkers: numWorkers,
		workerIdx:  workerIdx,
		offsets:    offsets,
		targets:    targets,
	}, nil
}

// Neighbors returns the targets of the local node's outgoing edges. The
// returned slice aliases the graph and must not be modified.
func (g *CSRGraph) Neighbors(local uint32) []uint32 {
	return g.targets[g.offsets[local]:g.offsets[local+1]]
}

func (g *CSRGraph) Degree(local uint32) uint64 {
	return g.offsets[local+1] - g.offsets[local]
}

func (g *CSRGraph) LocalNodes() uint64 {
	return uint64(len(g.offsets)) - 1
}

func (g *CSRGraph) NumEdges() uint64 {
	return uint64(len(g.targets))
}

func (g *CSRGraph) NumNodes() uint64 {
	return g.numNodes
}
