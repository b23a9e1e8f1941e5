package bfs

import (
	"testing"
)

// claim states of the running example after a query rooted at 0, used to
// drive reconstructPath without workers
func claimedExample() map[uint64]PeekNodeResult {
	return map[uint64]PeekNodeResult{
		0: {NodeId: 0, Claimed: true, Predecessor: 0, Round: 0},
		1: {NodeId: 1, Claimed: true, Predecessor: 0, Round: 1},
		2: {NodeId: 2, Claimed: true, Predecessor: 0, Round: 1},
		3: {NodeId: 3, Claimed: true, Predecessor: 1, Round: 2},
		4: {NodeId: 4, Claimed: true, Predecessor: 3, Round: 3},
	}
}

func peekFromMap(states map[uint64]PeekNodeResult) func(node uint64) (PeekNodeResult, error) {
	return func(node uint64) (PeekNodeResult, error) {
		return states[node], nil
	}
}

func TestReconstructPathFollowsPredecessors(t *testing.T) {
	path, distance, err := reconstructPath(0, 4, peekFromMap(claimedExample()))
	if err != nil {
		t.Fatalf("reconstruction failed: %v", err)
	}
	if distance != 3 {
		t.Errorf("expected distance 3 but got %v", distance)
	}
	expected := []uint64{0, 1, 3, 4}
	if len(path) != len(expected) {
		t.Fatalf("expected path %v but got %v", expected, path)
	}
	for i := range expected {
		if path[i] != expected[i] {
			t.Fatalf("expected path %v but got %v", expected, path)
		}
	}
}

func TestReconstructPathRootIsTarget(t *testing.T) {
	path, distance, err := reconstructPath(0, 0, peekFromMap(claimedExample()))
	if err != nil {
		t.Fatalf("reconstruction failed: %v", err)
	}
	if distance != 0 {
		t.Errorf("expected distance 0 but got %v", distance)
	}
	if len(path) != 1 || path[0] != 0 {
		t.Errorf("expected the root alone, got %v", path)
	}
}

func TestReconstructPathUnreachedTarget(t *testing.T) {
	path, distance, err := reconstructPath(0, 5, peekFromMap(claimedExample()))
	if err != nil {
		t.Fatalf("an unreached target is not an error: %v", err)
	}
	if path != nil || distance != -1 {
		t.Errorf("expected no path at distance -1, got %v at %v", path, distance)
	}
}

func TestReconstructPathBrokenChain(t *testing.T) {
	states := claimedExample()
	states[3] = PeekNodeResult{NodeId: 3, Claimed: true, Predecessor: 5, Round: 2}

	_, _, err := reconstructPath(0, 4, peekFromMap(states))
	if err == nil {
		t.Errorf("a chain through an unclaimed node should be an error")
	}
}

func TestReconstructPathRejectsStaleRounds(t *testing.T) {
	states := claimedExample()
	states[3] = PeekNodeResult{NodeId: 3, Claimed: true, Predecessor: 1, Round: 3}

	_, _, err := reconstructPath(0, 4, peekFromMap(states))
	if err == nil {
		t.Errorf("a predecessor claimed in the same round should be an error")
	}
}

func TestReconstructPathRejectsFalseRoot(t *testing.T) {
	states := map[uint64]PeekNodeResult{
		1: {NodeId: 1, Claimed: true, Predecessor: 1, Round: 0},
	}
	_, _, err := reconstructPath(0, 1, peekFromMap(states))
	if err == nil {
		t.Errorf("a round 0 claim on a node other than the root should be an error")
	}
}

func TestValidateQueryChecksTypeAndRange(t *testing.T) {
	err := validateQuery(Query{QueryType: "dfs", Root: 0}, 6)
	if err == nil {
		t.Errorf("unknown query type should be rejected")
	}
	err = validateQuery(Query{QueryType: QUERY_TYPE_PATH, Root: 0}, 6)
	if err == nil {
		t.Errorf("path query without a target should be rejected")
	}
	err = validateQuery(Query{QueryType: QUERY_TYPE_PATH, Root: 0, Target: 6, HasTarget: true}, 6)
	if err == nil {
		t.Errorf("target outside the id range should be rejected")
	}
	err = validateQuery(Query{QueryType: QUERY_TYPE_BFS, Root: 6}, 6)
	if err == nil {
		t.Errorf("root outside the id range should be rejected")
	}
	err = validateQuery(Query{QueryType: QUERY_TYPE_BFS, Root: 5}, 6)
	if err != nil {
		t.Errorf("valid reachability query rejected: %v", err)
	}
	err = validateQuery(Query{QueryType: QUERY_TYPE_PATH, Root: 5, Target: 0, HasTarget: true}, 6)
	if err != nil {
		t.Errorf("valid path query rejected: %v", err)
	}
}

func TestResolveNumNodesStagedGraph(t *testing.T) {
	c := NewCoord()

	_, err := c.resolveNumNodes(Query{Graph: GRAPH_STAGED, NumNodes: 0})
	if err == nil {
		t.Errorf("staged query without a node count should be rejected")
	}
	_, err = c.resolveNumNodes(Query{Graph: GRAPH_STAGED, NumNodes: uint64(MaxNodeCount) + 1})
	if err == nil {
		t.Errorf("node count above the id space should be rejected")
	}
	numNodes, err := c.resolveNumNodes(Query{Graph: GRAPH_STAGED, NumNodes: 42})
	if err != nil {
		t.Fatalf("staged node count rejected: %v", err)
	}
	if numNodes != 42 {
		t.Errorf("expected 42 nodes but got %v", numNodes)
	}
}

func TestAssignQueryWorkersPicksLowestIds(t *testing.T) {
	c := NewCoord()
	c.workers[5] = WorkerNode{WorkerId: 5, WorkerListenAddr: "worker5"}
	c.workers[2] = WorkerNode{WorkerId: 2, WorkerListenAddr: "worker2"}
	c.workers[9] = WorkerNode{WorkerId: 9, WorkerListenAddr: "worker9"}

	assigned, err := c.assignQueryWorkers(2)
	if err != nil {
		t.Fatalf("assignment failed: %v", err)
	}
	if assigned[0].WorkerId != 2 || assigned[1].WorkerId != 5 {
		t.Errorf("expected workers 2 and 5 in order, got %v and %v",
			assigned[0].WorkerId, assigned[1].WorkerId)
	}

	_, err = c.assignQueryWorkers(4)
	if err == nil {
		t.Errorf("assignment beyond the joined pool should fail")
	}
}

func TestRunQueryRejectsOverlappingQueries(t *testing.T) {
	c := NewCoord()
	c.busy = true
	c.query = Query{ClientId: "alice"}

	result, err := c.RunQuery(Query{ClientId: "bob", QueryType: QUERY_TYPE_BFS})
	if err == nil {
		t.Fatalf("a second query while one is running should be rejected")
	}
	if result.Distance != -1 {
		t.Errorf("rejected query should report distance -1, got %v", result.Distance)
	}
	if !c.busy || c.query.ClientId != "alice" {
		t.Errorf("rejection must not disturb the running query")
	}
}

func TestQueryWorkersForResolvesLogicalIds(t *testing.T) {
	c := NewCoord()
	c.queryWorkers = WorkerPool{
		0: {WorkerId: 7},
		1: {WorkerId: 9},
	}

	if _, ok := c.queryWorkersFor(9); ok {
		t.Errorf("idle coordinator should resolve nothing")
	}

	c.busy = true
	logicalId, ok := c.queryWorkersFor(9)
	if !ok || logicalId != 1 {
		t.Errorf("expected worker 9 at logical id 1, got %v (%v)", logicalId, ok)
	}
	if _, ok := c.queryWorkersFor(3); ok {
		t.Errorf("worker 3 is not part of the query")
	}
}

func TestProgressBrokerDeliversToSubscribers(t *testing.T) {
	var b progressBroker
	updates, cancel := b.subscribe()

	b.publish(Progress{Round: 1, Claimed: 2, Sent: 3})
	select {
	case p := <-updates:
		if p.Round != 1 || p.Claimed != 2 || p.Sent != 3 {
			t.Errorf("unexpected update %+v", p)
		}
	default:
		t.Fatalf("published update never arrived")
	}

	cancel()
	if _, ok := <-updates; ok {
		t.Errorf("cancel should close the subscription")
	}
}

func TestProgressBrokerDropsWhenSubscriberLags(t *testing.T) {
	var b progressBroker
	updates, cancel := b.subscribe()
	defer cancel()

	for round := uint64(0); round < progressBufferedSends+3; round++ {
		b.publish(Progress{Round: round})
	}

	received := 0
	for {
		select {
		case p := <-updates:
			if p.Round != uint64(received) {
				t.Errorf("expected round %v but got %v", received, p.Round)
			}
			received++
			continue
		default:
		}
		break
	}
	if received != progressBufferedSends {
		t.Errorf("expected %v buffered updates but got %v", progressBufferedSends, received)
	}
}

func TestProgressBrokerCancelIsIdempotent(t *testing.T) {
	var b progressBroker
	_, cancel := b.subscribe()
	cancel()
	cancel()

	// publishing to a broker with no subscribers is a no-op
	b.publish(Progress{Round: 1})
}
