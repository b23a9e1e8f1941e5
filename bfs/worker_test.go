package bfs

import (
	"testing"
)

// the running example: two branches meet at node 3, node 5 is its own
// component
var testEdges = []Edge{
	{Source: 0, Target: 1},
	{Source: 0, Target: 2},
	{Source: 1, Target: 3},
	{Source: 2, Target: 3},
	{Source: 3, Target: 4},
}

// meshSender wires workers together in memory: deliveries call the
// destination worker directly instead of going through rpc.
type meshSender struct {
	workers map[uint32]*Worker
}

func (s *meshSender) deliver(dest uint32, batch AnnouncementBatch) error {
	var ack DeliverAck
	return s.workers[dest].DeliverAnnouncements(batch, &ack)
}

// newTestMesh builds numWorkers workers holding the partitioned graph with
// query state in place and the root seeded, mirroring what StartQuery sets
// up on each of them.
func newTestMesh(t *testing.T, numNodes uint64, numWorkers uint32, edges []Edge, root uint64) map[uint32]*Worker {
	workers := make(map[uint32]*Worker)
	for w := uint32(0); w < numWorkers; w++ {
		workers[w] = &Worker{WorkerId: w + 1, stage: NewEdgeStage()}
	}

	for w := uint32(0); w < numWorkers; w++ {
		var batch []Edge
		for _, e := range edges {
			if Owner(e.Source, numWorkers) == w {
				batch = append(batch, e)
			}
		}
		graph, err := BuildCSR(numNodes, numWorkers, w, [][]Edge{batch})
		if err != nil {
			t.Fatalf("building partition %v failed: %v", w, err)
		}

		rounds := newRoundBuffer()
		workers[w].query = &workerQuery{
			logicalId:  w,
			numWorkers: numWorkers,
			numNodes:   numNodes,
			query: Query{
				ClientId:  "test",
				QueryType: QUERY_TYPE_BFS,
				Graph:     GRAPH_STAGED,
				Root:      root,
				NumNodes:  numNodes,
			},
			graph:    graph,
			frontier: NewFrontier(graph.LocalNodes()),
			dist:     make([]uint64, graph.LocalNodes()),
			rounds:   rounds,
			exchange: &exchange{
				self:       w,
				numWorkers: numWorkers,
				sender:     &meshSender{workers: workers},
				local:      rounds,
			},
		}
	}

	rootNode := uint32(root)
	owner := workers[Owner(rootNode, numWorkers)]
	err := owner.query.rounds.add(0, []Announcement{{Target: rootNode, Predecessor: rootNode}})
	if err != nil {
		t.Fatalf("seeding the root failed: %v", err)
	}
	return workers
}

// runMesh drives rounds across all workers until a round sends nothing,
// returning the claim count of every round.
func runMesh(t *testing.T, workers map[uint32]*Worker) []uint64 {
	var claims []uint64
	for round := uint64(0); ; round++ {
		if round > 1000 {
			t.Fatalf("query did not terminate after %v rounds", round)
		}
		claimed, sent := uint64(0), uint64(0)
		for w := uint32(0); w < uint32(len(workers)); w++ {
			var reply ProgressRoundResult
			err := workers[w].ProgressRound(ProgressRoundArgs{Round: round}, &reply)
			if err != nil {
				t.Fatalf("round %v failed on worker %v: %v", round, w, err)
			}
			if reply.Round != round {
				t.Fatalf("worker %v acknowledged round %v during round %v", w, reply.Round, round)
			}
			claimed += reply.Claimed
			sent += reply.Sent
		}
		claims = append(claims, claimed)
		if sent == 0 {
			return claims
		}
	}
}

func meshPeek(workers map[uint32]*Worker) func(node uint64) (PeekNodeResult, error) {
	numWorkers := uint32(len(workers))
	return func(node uint64) (PeekNodeResult, error) {
		var reply PeekNodeResult
		err := workers[Owner(uint32(node), numWorkers)].PeekNode(PeekNodeArgs{NodeId: node}, &reply)
		return reply, err
	}
}

// assertDistances checks every node's claim state: nodes missing from
// expected must be unreached, the rest claimed in exactly the given round.
func assertDistances(t *testing.T, workers map[uint32]*Worker, numNodes uint64, expected map[uint64]uint64) {
	peek := meshPeek(workers)
	for node := uint64(0); node < numNodes; node++ {
		res, err := peek(node)
		if err != nil {
			t.Fatalf("peek of node %v failed: %v", node, err)
		}
		want, reachable := expected[node]
		if !reachable {
			if res.Claimed {
				t.Errorf("node %v should be unreached but was claimed in round %v", node, res.Round)
			}
			continue
		}
		if !res.Claimed {
			t.Errorf("node %v should be claimed at distance %v but is unclaimed", node, want)
			continue
		}
		if res.Round != want {
			t.Errorf("node %v: expected distance %v but got %v", node, want, res.Round)
		}
	}
}

// assertPredecessorRounds checks the shortest-path witness: every claimed
// node's predecessor was claimed exactly one round earlier, and the root
// claimed itself in round 0.
func assertPredecessorRounds(t *testing.T, workers map[uint32]*Worker, numNodes uint64, root uint64) {
	peek := meshPeek(workers)
	for node := uint64(0); node < numNodes; node++ {
		res, err := peek(node)
		if err != nil {
			t.Fatalf("peek of node %v failed: %v", node, err)
		}
		if !res.Claimed {
			continue
		}
		if node == root {
			if res.Predecessor != root || res.Round != 0 {
				t.Errorf("root should claim itself in round 0, got predecessor %v in round %v",
					res.Predecessor, res.Round)
			}
			continue
		}
		predRes, err := peek(res.Predecessor)
		if err != nil {
			t.Fatalf("peek of predecessor %v failed: %v", res.Predecessor, err)
		}
		if !predRes.Claimed {
			t.Errorf("predecessor %v of node %v is unclaimed", res.Predecessor, node)
			continue
		}
		if predRes.Round+1 != res.Round {
			t.Errorf("node %v claimed in round %v but predecessor %v in round %v",
				node, res.Round, res.Predecessor, predRes.Round)
		}
	}
}

func TestQueryReachesMinimalHops(t *testing.T) {
	expected := map[uint64]uint64{0: 0, 1: 1, 2: 1, 3: 2, 4: 3}

	for _, numWorkers := range []uint32{1, 2, 3} {
		workers := newTestMesh(t, 6, numWorkers, testEdges, 0)
		claims := runMesh(t, workers)

		if len(claims) != 4 {
			t.Errorf("%v workers: expected 4 rounds but got %v", numWorkers, len(claims))
		}
		expectedClaims := []uint64{1, 2, 1, 1}
		for round := range expectedClaims {
			if round < len(claims) && claims[round] != expectedClaims[round] {
				t.Errorf("%v workers: round %v claimed %v nodes, expected %v",
					numWorkers, round, claims[round], expectedClaims[round])
			}
		}

		assertDistances(t, workers, 6, expected)
		assertPredecessorRounds(t, workers, 6, 0)
	}
}

func TestQueryFromTheOtherBranch(t *testing.T) {
	// rooted at 1, only the chain 1 -> 3 -> 4 is reachable
	workers := newTestMesh(t, 6, 2, testEdges, 1)
	runMesh(t, workers)

	assertDistances(t, workers, 6, map[uint64]uint64{1: 0, 3: 1, 4: 2})
	assertPredecessorRounds(t, workers, 6, 1)
}

func TestSingleNodeGraphClaimsRootOnly(t *testing.T) {
	workers := newTestMesh(t, 1, 1, nil, 0)
	claims := runMesh(t, workers)

	if len(claims) != 1 || claims[0] != 1 {
		t.Errorf("expected a single round claiming the root, got %v", claims)
	}
	assertDistances(t, workers, 1, map[uint64]uint64{0: 0})
	assertPredecessorRounds(t, workers, 1, 0)
}

func TestSelfLoopAnnouncementIsDiscarded(t *testing.T) {
	workers := newTestMesh(t, 2, 2, []Edge{{Source: 0, Target: 0}}, 0)
	claims := runMesh(t, workers)

	// the self-loop announces the root again in round 1, the claim is
	// discarded and the query ends
	if len(claims) != 2 || claims[0] != 1 || claims[1] != 0 {
		t.Errorf("expected claims [1 0] but got %v", claims)
	}
	assertDistances(t, workers, 2, map[uint64]uint64{0: 0})
}

func TestPathReconstructionAcrossPartitions(t *testing.T) {
	workers := newTestMesh(t, 6, 3, testEdges, 0)
	runMesh(t, workers)

	path, distance, err := reconstructPath(0, 4, meshPeek(workers))
	if err != nil {
		t.Fatalf("path reconstruction failed: %v", err)
	}
	if distance != 3 {
		t.Errorf("expected distance 3 but got %v", distance)
	}
	if len(path) != 4 || path[0] != 0 || path[3] != 4 {
		t.Fatalf("expected a 4-node path from 0 to 4, got %v", path)
	}
	for i := 0; i+1 < len(path); i++ {
		if !hasEdge(testEdges, path[i], path[i+1]) {
			t.Errorf("path step %v -> %v is not an edge", path[i], path[i+1])
		}
	}
}

func TestPathReconstructionUnreachedTarget(t *testing.T) {
	workers := newTestMesh(t, 6, 2, testEdges, 0)
	runMesh(t, workers)

	path, distance, err := reconstructPath(0, 5, meshPeek(workers))
	if err != nil {
		t.Fatalf("reconstruction of an unreached target should not fail: %v", err)
	}
	if path != nil || distance != -1 {
		t.Errorf("unreached target should report no path, got %v at distance %v", path, distance)
	}
}

func TestDeliverAnnouncementsRejectsForeignTarget(t *testing.T) {
	workers := newTestMesh(t, 6, 2, testEdges, 0)

	// node 2 belongs to worker 0, not worker 1
	batch := AnnouncementBatch{
		FromWorker:    0,
		Round:         1,
		Announcements: []Announcement{{Target: 2, Predecessor: 0}},
	}
	var ack DeliverAck
	if err := workers[1].DeliverAnnouncements(batch, &ack); err == nil {
		t.Errorf("delivery of a foreign target should be rejected")
	}
}

func TestWorkerMethodsWithoutQuery(t *testing.T) {
	w := &Worker{WorkerId: 9, stage: NewEdgeStage()}

	var roundReply ProgressRoundResult
	if err := w.ProgressRound(ProgressRoundArgs{Round: 0}, &roundReply); err == nil {
		t.Errorf("ProgressRound without a query should fail")
	}

	var peekReply PeekNodeResult
	if err := w.PeekNode(PeekNodeArgs{NodeId: 0}, &peekReply); err == nil {
		t.Errorf("PeekNode without a query should fail")
	}

	var ack DeliverAck
	batch := AnnouncementBatch{Announcements: []Announcement{{Target: 0, Predecessor: 0}}}
	if err := w.DeliverAnnouncements(batch, &ack); err == nil {
		t.Errorf("DeliverAnnouncements without a query should fail")
	}

	// ending nothing is not an error, the coordinator aborts through this
	var endReply EndQueryResult
	if err := w.EndQuery(EndQueryArgs{Aborted: true}, &endReply); err != nil {
		t.Errorf("EndQuery without a query should be a no-op: %v", err)
	}
}

func TestStartQueryRejectsSecondQuery(t *testing.T) {
	workers := newTestMesh(t, 6, 1, testEdges, 0)

	args := StartQueryArgs{
		WorkerLogicalId: 0,
		NumWorkers:      1,
		NumNodes:        6,
		WorkerDirectory: WorkerDirectory{0: "ignored"},
		Query:           Query{ClientId: "bob", QueryType: QUERY_TYPE_BFS, Graph: GRAPH_STAGED, NumNodes: 6},
	}
	var reply StartQueryResult
	if err := workers[0].StartQuery(args, &reply); err == nil {
		t.Errorf("second query on a busy worker should be rejected")
	}
}

func TestStartQueryValidatesArguments(t *testing.T) {
	w := NewWorker(WorkerConfig{WorkerId: 1})

	var reply StartQueryResult
	err := w.StartQuery(StartQueryArgs{WorkerLogicalId: 2, NumWorkers: 2, NumNodes: 6}, &reply)
	if err == nil {
		t.Errorf("logical id beyond the worker count should be rejected")
	}
	err = w.StartQuery(StartQueryArgs{WorkerLogicalId: 0, NumWorkers: 1, NumNodes: 0}, &reply)
	if err == nil {
		t.Errorf("zero node count should be rejected")
	}
	err = w.StartQuery(StartQueryArgs{
		WorkerLogicalId: 0, NumWorkers: 1, NumNodes: 6,
		Query: Query{Root: 6},
	}, &reply)
	if err == nil {
		t.Errorf("root outside the id range should be rejected")
	}
}

// TestStagedQuerySingleWorker drives one worker through its exported rpc
// surface: stage, start, rounds, peek, end.
func TestStagedQuerySingleWorker(t *testing.T) {
	w := NewWorker(WorkerConfig{WorkerId: 1})

	var staged StageEdgesResult
	err := w.StageEdges(StageEdgesArgs{NumNodes: 6, Edges: testEdges[:2]}, &staged)
	if err != nil {
		t.Fatalf("staging failed: %v", err)
	}
	err = w.StageEdges(StageEdgesArgs{NumNodes: 6, Edges: testEdges[2:]}, &staged)
	if err != nil {
		t.Fatalf("staging failed: %v", err)
	}
	if staged.Staged != 5 {
		t.Errorf("expected 5 staged edges but got %v", staged.Staged)
	}

	var started StartQueryResult
	err = w.StartQuery(StartQueryArgs{
		WorkerLogicalId: 0,
		NumWorkers:      1,
		NumNodes:        6,
		WorkerDirectory: WorkerDirectory{0: "self"},
		Query: Query{
			ClientId:  "carol",
			QueryType: QUERY_TYPE_BFS,
			Graph:     GRAPH_STAGED,
			Root:      0,
			NumNodes:  6,
		},
	}, &started)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.LocalNodes != 6 || started.LocalEdges != 5 {
		t.Errorf("expected 6 nodes and 5 edges, got %v and %v", started.LocalNodes, started.LocalEdges)
	}

	claims := runMesh(t, map[uint32]*Worker{0: w})
	if len(claims) != 4 {
		t.Errorf("expected 4 rounds but got %v", len(claims))
	}

	var peeked PeekNodeResult
	if err := w.PeekNode(PeekNodeArgs{NodeId: 4}, &peeked); err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if !peeked.Claimed || peeked.Round != 3 || peeked.Predecessor != 3 {
		t.Errorf("node 4 should be claimed via 3 at distance 3, got %+v", peeked)
	}

	// aborting drops the state without exporting anything
	var ended EndQueryResult
	if err := w.EndQuery(EndQueryArgs{Aborted: true}, &ended); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if err := w.PeekNode(PeekNodeArgs{NodeId: 4}, &peeked); err == nil {
		t.Errorf("peek after the query ended should fail")
	}
	if err := w.EndQuery(EndQueryArgs{Aborted: true}, &ended); err != nil {
		t.Errorf("ending twice should be a no-op: %v", err)
	}
}

func hasEdge(edges []Edge, from uint64, to uint64) bool {
	for _, e := range edges {
		if uint64(e.Source) == from && uint64(e.Target) == to {
			return true
		}
	}
	return false
}
