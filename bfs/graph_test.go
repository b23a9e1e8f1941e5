package bfs

import (
	"sort"
	"testing"
)

func TestEdgeStageTakeMovesBatchesOut(t *testing.T) {
	s := NewEdgeStage()
	s.Add(10, []Edge{{Source: 0, Target: 1}})
	s.Add(10, []Edge{{Source: 3, Target: 4}, {Source: 3, Target: 5}})

	if s.Count() != 3 {
		t.Errorf("expected 3 staged edges but got %v", s.Count())
	}

	numNodes, batches, err := s.Take()
	if err != nil {
		t.Fatalf("take failed: %v", err)
	}
	if numNodes != 10 {
		t.Errorf("expected node count 10 but got %v", numNodes)
	}
	if len(batches) != 2 {
		t.Errorf("expected 2 batches but got %v", len(batches))
	}

	// the stage is reset and reusable
	if s.Count() != 0 {
		t.Errorf("stage not reset after take")
	}
	numNodes, batches, err = s.Take()
	if err != nil || numNodes != 0 || batches != nil {
		t.Errorf("empty stage should take as zero values")
	}
}

func TestEdgeStageRejectsConflictingNodeCount(t *testing.T) {
	s := NewEdgeStage()
	s.Add(10, []Edge{{Source: 0, Target: 1}})
	if err := s.Add(12, []Edge{{Source: 2, Target: 3}}); err == nil {
		t.Errorf("conflicting node count should poison the stage")
	}

	// the pending build fails instead of serving a partial graph
	if _, _, err := s.Take(); err == nil {
		t.Errorf("take of a poisoned stage should fail")
	}

	// the error is consumed with the take
	if _, _, err := s.Take(); err != nil {
		t.Errorf("stage should reset after a failed take: %v", err)
	}
}

func TestEdgeStageRejectsOutOfRangeEdge(t *testing.T) {
	s := NewEdgeStage()
	if err := s.Add(4, []Edge{{Source: 1, Target: 4}}); err == nil {
		t.Errorf("edge outside the id range should poison the stage")
	}
	if err := s.Add(4, []Edge{{Source: 0, Target: 1}}); err == nil {
		t.Errorf("poisoned stage should reject later batches")
	}
}

func TestBuildCSRCompactsThePartition(t *testing.T) {
	// worker 1 of 2 owns the odd nodes of a 6-node graph
	batches := [][]Edge{
		{{Source: 3, Target: 4}, {Source: 1, Target: 3}},
		{{Source: 1, Target: 0}},
	}
	g, err := BuildCSR(6, 2, 1, batches)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if g.LocalNodes() != 3 {
		t.Errorf("expected 3 local nodes but got %v", g.LocalNodes())
	}
	if g.NumEdges() != 3 {
		t.Errorf("expected 3 edges but got %v", g.NumEdges())
	}
	if g.NumNodes() != 6 {
		t.Errorf("expected 6 graph nodes but got %v", g.NumNodes())
	}

	// node 1 is local index 0, node 3 is local index 1, node 5 is local index 2
	assertNeighbors(t, g, 0, []uint32{0, 3})
	assertNeighbors(t, g, 1, []uint32{4})
	assertNeighbors(t, g, 2, []uint32{})

	if g.Degree(0) != 2 || g.Degree(1) != 1 || g.Degree(2) != 0 {
		t.Errorf("wrong degrees: %v %v %v", g.Degree(0), g.Degree(1), g.Degree(2))
	}
}

func TestBuildCSREmptyPartition(t *testing.T) {
	g, err := BuildCSR(5, 3, 2, nil)
	if err != nil {
		t.Fatalf("build of an edge-free partition failed: %v", err)
	}
	// worker 2 of 3 owns node 2
	if g.LocalNodes() != 1 {
		t.Errorf("expected 1 local node but got %v", g.LocalNodes())
	}
	if len(g.Neighbors(0)) != 0 {
		t.Errorf("edge-free partition has neighbors")
	}
}

func TestBuildCSRRejectsForeignSource(t *testing.T) {
	// node 2 belongs to worker 0 of 2
	batches := [][]Edge{{{Source: 2, Target: 3}}}
	if _, err := BuildCSR(6, 2, 1, batches); err == nil {
		t.Errorf("edge with a foreign source should be rejected")
	}
}

func TestBuildCSRRejectsOutOfRangeTarget(t *testing.T) {
	batches := [][]Edge{{{Source: 1, Target: 6}}}
	if _, err := BuildCSR(6, 2, 1, batches); err == nil {
		t.Errorf("edge with an out-of-range target should be rejected")
	}
}

// assertNeighbors compares ignoring order: batch concatenation makes no
// ordering promise within one source's neighbors.
func assertNeighbors(t *testing.T, g *CSRGraph, local uint32, expected []uint32) {
	neighbors := append([]uint32(nil), g.Neighbors(local)...)
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	if len(neighbors) != len(expected) {
		t.Errorf("local node %v: expected neighbors %v but got %v", local, expected, neighbors)
		return
	}
	for i := range neighbors {
		if neighbors[i] != expected[i] {
			t.Errorf("local node %v: expected neighbors %v but got %v", local, expected, neighbors)
			return
		}
	}
}
