package bfs

import (
	"net/rpc"
)

// query types accepted by the coordinator
const (
	QUERY_TYPE_BFS  = "bfs"
	QUERY_TYPE_PATH = "path"
)

// MaxNodeCount bounds configured node counts. Node ids travel as unsigned
// 32-bit values and the frontier keeps one id free as its unreached marker.
const MaxNodeCount = 1<<32 - 1

// Edge is one directed edge of the input graph, routed by Source.
type Edge struct {
	Source uint32
	Target uint32
}

// Announcement means "Target is reachable this round via Predecessor".
// Announcements are routed by Target.
type Announcement struct {
	Target      uint32
	Predecessor uint32
}

type WorkerNode struct {
	WorkerId         uint32
	WorkerAddr       string
	WorkerFCheckAddr string
	WorkerListenAddr string
}

type Query struct {
	ClientId  string
	QueryType string // bfs or path
	Graph     string // named graph in storage, or GRAPH_STAGED for pre-staged edges
	Root      uint64
	Target    uint64 // only meaningful for path queries
	HasTarget bool
	NumNodes  uint64 // only used with staged graphs; stored graphs carry their own count
}

// GRAPH_STAGED selects the edges previously delivered through
// Worker.StageEdges instead of a storage backend.
const GRAPH_STAGED = "(staged)"

type QueryResult struct {
	Query       Query
	NumNodes    uint64
	Reached     uint64   // nodes claimed, root included
	Rounds      uint64   // rounds executed, round 0 included
	RoundClaims []uint64 // claims per round, indexed by round number
	Distance    int64    // hops root->target for path queries, -1 if unreached
	Path        []uint64 // root..target for path queries
	Error       string
}

// StartQueryArgs carries everything a worker needs to set up one query:
// its partition assignment, the peer directory for announcement routing,
// and where the edges come from.
type StartQueryArgs struct {
	WorkerLogicalId uint32
	NumWorkers      uint32
	NumNodes        uint64
	WorkerDirectory WorkerDirectory
	Query           Query
}

type StartQueryResult struct {
	WorkerLogicalId uint32
	LocalNodes      uint64
	LocalEdges      uint64
}

type ProgressRoundArgs struct {
	Round uint64
}

// ProgressRoundResult reports one worker's round: how many local nodes it
// claimed and how many announcements it sent for the next round.
type ProgressRoundResult struct {
	WorkerLogicalId uint32
	Round           uint64
	Claimed         uint64
	Sent            uint64
}

// AnnouncementBatch is the unit of worker-to-worker exchange. Batches only
// ever carry announcements for the receiving worker's partition.
type AnnouncementBatch struct {
	FromWorker    uint32
	Round         uint64
	Announcements []Announcement
}

type DeliverAck struct {
	Received int
}

type StageEdgesArgs struct {
	NumNodes uint64
	Edges    []Edge
}

type StageEdgesResult struct {
	Staged uint64 // edges staged on this worker so far
}

type PeekNodeArgs struct {
	NodeId uint64
}

type PeekNodeResult struct {
	NodeId      uint64
	Claimed     bool
	Predecessor uint64
	Round       uint64
}

type EndQueryArgs struct {
	Aborted bool
}

type EndQueryResult struct {
	WorkerLogicalId uint32
}

// WorkerDirectory maps logical worker ids to listen addresses
type WorkerDirectory map[uint32]string

// WorkerCallBook maps logical worker ids to rpc clients (connections)
type WorkerCallBook map[uint32]*rpc.Client
