package bfs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/rpc"
	"sync"

	"hopper/database"
	fchecker "hopper/fcheck"
	"hopper/util"
)

type WorkerConfig struct {
	WorkerId              uint32
	CoordAddr             string
	WorkerAddr            string
	WorkerListenAddr      string
	FCheckAckLocalAddress string
	Storage               database.Config
}

// Worker owns one partition of the graph for the duration of a query. All
// query-scoped state lives in workerQuery so that ending a query cannot leak
// into the next one.
type Worker struct {
	WorkerId              uint32
	WorkerAddr            string
	WorkerListenAddr      string
	CoordAddr             string
	FCheckAckLocalAddress string
	Storage               database.Config

	mu    sync.Mutex
	stage *EdgeStage
	query *workerQuery
}

// workerQuery is the state of the query this worker is currently serving.
// frontier and dist are touched only from ProgressRound, which the
// coordinator serializes; rounds has its own lock because peer deliveries
// arrive on concurrent RPC goroutines.
type workerQuery struct {
	logicalId  uint32
	numWorkers uint32
	numNodes   uint64
	query      Query
	graph      *CSRGraph
	frontier   *Frontier
	dist       []uint64
	rounds     *roundBuffer
	exchange   *exchange
	callbook   WorkerCallBook
}

func NewWorker(config WorkerConfig) *Worker {
	return &Worker{
		WorkerId:              config.WorkerId,
		WorkerAddr:            config.WorkerAddr,
		WorkerListenAddr:      config.WorkerListenAddr,
		CoordAddr:             config.CoordAddr,
		FCheckAckLocalAddress: config.FCheckAckLocalAddress,
		Storage:               config.Storage,
		stage:                 NewEdgeStage(),
	}
}

// StartQuery sets this worker up for one query: it builds the partition's
// adjacency, allocates the frontier, dials the peer workers and, when this
// worker owns the root, seeds the root announcement into round 0. No
// announcements are processed here; the coordinator drives round 0 through
// ProgressRound once every worker has acknowledged, so no peer delivery can
// arrive before the receiving side has state for it.
func (w *Worker) StartQuery(args StartQueryArgs, reply *StartQueryResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.query != nil {
		return fmt.Errorf("worker %v is already running a query for client %v",
			w.WorkerId, w.query.query.ClientId)
	}
	if args.NumWorkers == 0 || args.WorkerLogicalId >= args.NumWorkers {
		return fmt.Errorf("invalid partition assignment %v of %v", args.WorkerLogicalId, args.NumWorkers)
	}
	if args.NumNodes == 0 || args.NumNodes > MaxNodeCount {
		return fmt.Errorf("invalid node count %v", args.NumNodes)
	}
	if args.Query.Root >= args.NumNodes {
		return fmt.Errorf("root %v outside id range [0, %v)", args.Query.Root, args.NumNodes)
	}

	log.Printf("StartQuery: worker %v starting as partition %v of %v for client %v\n",
		w.WorkerId, args.WorkerLogicalId, args.NumWorkers, args.Query.ClientId)

	graph, err := w.buildGraph(args)
	if err != nil {
		return fmt.Errorf("worker %v could not build graph: %v", w.WorkerId, err)
	}

	callbook := make(WorkerCallBook)
	for logicalId, addr := range args.WorkerDirectory {
		if logicalId == args.WorkerLogicalId {
			continue
		}
		client, err := util.DialRPC(addr)
		if err != nil {
			closeCallbook(callbook)
			return fmt.Errorf("worker %v could not dial peer %v at %v: %v",
				w.WorkerId, logicalId, addr, err)
		}
		callbook[logicalId] = client
	}

	rounds := newRoundBuffer()
	q := &workerQuery{
		logicalId:  args.WorkerLogicalId,
		numWorkers: args.NumWorkers,
		numNodes:   args.NumNodes,
		query:      args.Query,
		graph:      graph,
		frontier:   NewFrontier(graph.LocalNodes()),
		dist:       make([]uint64, graph.LocalNodes()),
		rounds:     rounds,
		callbook:   callbook,
		exchange: &exchange{
			self:       args.WorkerLogicalId,
			numWorkers: args.NumWorkers,
			sender:     &rpcSender{callbook: callbook},
			local:      rounds,
		},
	}

	root := uint32(args.Query.Root)
	if Owner(root, args.NumWorkers) == args.WorkerLogicalId {
		seed := []Announcement{{Target: root, Predecessor: root}}
		if err := q.rounds.add(0, seed); err != nil {
			closeCallbook(callbook)
			return err
		}
		log.Printf("StartQuery: worker %v owns root %v\n", w.WorkerId, root)
	}

	w.query = q

	reply.WorkerLogicalId = args.WorkerLogicalId
	reply.LocalNodes = graph.LocalNodes()
	reply.LocalEdges = graph.NumEdges()
	return nil
}

// buildGraph assembles this partition's adjacency, either from edges staged
// ahead of time through StageEdges or by pulling the partition from storage.
func (w *Worker) buildGraph(args StartQueryArgs) (*CSRGraph, error) {
	if args.Query.Graph == GRAPH_STAGED {
		numNodes, batches, err := w.stage.Take()
		if err != nil {
			return nil, err
		}
		if numNodes == 0 {
			return nil, errors.New("no staged edges")
		}
		if numNodes != args.NumNodes {
			return nil, fmt.Errorf("staged edges describe %v nodes, query has %v", numNodes, args.NumNodes)
		}
		return BuildCSR(args.NumNodes, args.NumWorkers, args.WorkerLogicalId, batches)
	}

	ctx := context.Background()
	store, err := OpenStore(ctx, w.Storage)
	if err != nil {
		return nil, err
	}
	defer store.Close(ctx)

	var batches [][]Edge
	err = store.Edges(ctx, args.Query.Graph, args.NumWorkers, args.WorkerLogicalId,
		func(dbEdges []database.Edge) error {
			edges := make([]Edge, len(dbEdges))
			for i, e := range dbEdges {
				edges[i] = Edge{Source: e.Source, Target: e.Target}
			}
			batches = append(batches, edges)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("read edges of graph %v: %v", args.Query.Graph, err)
	}
	log.Printf("buildGraph: worker %v pulled partition of graph %v from %v storage\n",
		w.WorkerId, args.Query.Graph, w.Storage.Backend)

	return BuildCSR(args.NumNodes, args.NumWorkers, args.WorkerLogicalId, batches)
}

// ProgressRound drains this worker's buffer for the given round, claims every
// announced node not claimed in an earlier round, and sends announcements for
// the claimed nodes' neighbors to their owners. Deliveries to peers block, so
// returning from this call means every announcement this worker produced for
// round+1 is already buffered at its destination.
func (w *Worker) ProgressRound(args ProgressRoundArgs, reply *ProgressRoundResult) error {
	w.mu.Lock()
	q := w.query
	w.mu.Unlock()
	if q == nil {
		return fmt.Errorf("worker %v has no active query", w.WorkerId)
	}

	anns, err := q.rounds.drain(args.Round)
	if err != nil {
		return fmt.Errorf("worker %v: %v", w.WorkerId, err)
	}

	var out []Announcement
	claimed := uint64(0)
	for _, a := range anns {
		local := LocalIndex(a.Target, q.numWorkers)
		if !q.frontier.TryClaim(local, a.Predecessor) {
			continue
		}
		claimed++
		q.dist[local] = args.Round
		for _, t := range q.graph.Neighbors(local) {
			out = append(out, Announcement{Target: t, Predecessor: a.Target})
		}
	}

	sent, err := q.exchange.route(args.Round+1, out)
	if err != nil {
		return fmt.Errorf("worker %v: %v", w.WorkerId, err)
	}

	reply.WorkerLogicalId = q.logicalId
	reply.Round = args.Round
	reply.Claimed = claimed
	reply.Sent = sent
	return nil
}

// DeliverAnnouncements buffers a peer's announcement batch for its round.
// Batches arrive on concurrent RPC goroutines while this worker is inside its
// own ProgressRound; the round buffer's lock covers that.
func (w *Worker) DeliverAnnouncements(batch AnnouncementBatch, ack *DeliverAck) error {
	w.mu.Lock()
	q := w.query
	w.mu.Unlock()
	if q == nil {
		return fmt.Errorf("worker %v has no active query", w.WorkerId)
	}

	for _, a := range batch.Announcements {
		if Owner(a.Target, q.numWorkers) != q.logicalId {
			return fmt.Errorf("worker %v received announcement for node %v owned by worker %v",
				w.WorkerId, a.Target, Owner(a.Target, q.numWorkers))
		}
	}
	if err := q.rounds.add(batch.Round, batch.Announcements); err != nil {
		return fmt.Errorf("worker %v rejecting batch from worker %v: %v",
			w.WorkerId, batch.FromWorker, err)
	}
	ack.Received = len(batch.Announcements)
	return nil
}

// StageEdges buffers edges for a later staged-graph query. The loader routes
// each edge to the worker owning its source, so batches here only ever carry
// this partition's edges.
func (w *Worker) StageEdges(args StageEdgesArgs, reply *StageEdgesResult) error {
	if err := w.stage.Add(args.NumNodes, args.Edges); err != nil {
		return fmt.Errorf("worker %v could not stage edges: %v", w.WorkerId, err)
	}
	reply.Staged = w.stage.Count()
	return nil
}

// PeekNode reports the claim state of one node this worker owns. The
// coordinator walks predecessor chains through this call to reconstruct
// paths after the final round, before it ends the query.
func (w *Worker) PeekNode(args PeekNodeArgs, reply *PeekNodeResult) error {
	w.mu.Lock()
	q := w.query
	w.mu.Unlock()
	if q == nil {
		return fmt.Errorf("worker %v has no active query", w.WorkerId)
	}
	if args.NodeId >= q.numNodes {
		return fmt.Errorf("node %v outside id range [0, %v)", args.NodeId, q.numNodes)
	}
	node := uint32(args.NodeId)
	if Owner(node, q.numWorkers) != q.logicalId {
		return fmt.Errorf("node %v belongs to worker %v, asked worker %v",
			args.NodeId, Owner(node, q.numWorkers), q.logicalId)
	}

	local := LocalIndex(node, q.numWorkers)
	pred, ok := q.frontier.Peek(local)
	reply.NodeId = args.NodeId
	reply.Claimed = ok
	if ok {
		reply.Predecessor = uint64(pred)
		reply.Round = q.dist[local]
	}
	return nil
}

// EndQuery drops the query state and closes peer connections. On a normal
// end the claimed nodes are exported to this worker's results database
// first; an aborted query exports nothing.
func (w *Worker) EndQuery(args EndQueryArgs, reply *EndQueryResult) error {
	w.mu.Lock()
	q := w.query
	w.query = nil
	w.mu.Unlock()

	reply.WorkerLogicalId = w.WorkerId
	if q == nil {
		log.Printf("EndQuery: worker %v has no active query\n", w.WorkerId)
		return nil
	}
	reply.WorkerLogicalId = q.logicalId
	closeCallbook(q.callbook)

	if args.Aborted {
		log.Printf("EndQuery: worker %v dropped aborted query for client %v\n",
			w.WorkerId, q.query.ClientId)
		return nil
	}

	if err := exportResults(resultsPath(w.WorkerId), q); err != nil {
		return fmt.Errorf("worker %v could not export results: %v", w.WorkerId, err)
	}
	log.Printf("EndQuery: worker %v exported %v claimed nodes\n",
		w.WorkerId, q.frontier.Claimed())
	return nil
}

func closeCallbook(callbook WorkerCallBook) {
	for _, client := range callbook {
		client.Close()
	}
}

func (w *Worker) startFCheckHBeat(workerId uint32, ackAddress string) string {
	log.Printf("startFCheckHBeat: starting fcheck responder for worker %d\n", workerId)

	f, err := fchecker.Start(fchecker.StartStruct{
		AckLocalIPAckLocalPort: ackAddress,
	})
	util.CheckErr(err, "fchecker for worker %d failed", workerId)

	return f.AckAddr()
}

func (w *Worker) listenCoord(handler *rpc.Server) {
	listenAddr, err := net.ResolveTCPAddr("tcp", w.WorkerListenAddr)
	util.CheckErr(err, "worker %v could not resolve WorkerListenAddr: %v", w.WorkerId, w.WorkerListenAddr)
	listen, err := net.ListenTCP("tcp", listenAddr)
	util.CheckErr(err, "worker %v could not listen on %v", w.WorkerId, listenAddr)

	for {
		conn, err := listen.Accept()
		util.CheckErr(err, "worker %v could not accept connections", w.WorkerId)
		go handler.ServeConn(conn)
	}
}

// Start brings the worker up: it serves its RPC interface, answers failure
// detector heartbeats and joins the coordinator. Only returns on fatal
// errors.
func (w *Worker) Start() error {
	if w.WorkerAddr == "" {
		return errors.New("worker not initialized, call NewWorker first")
	}

	handler := rpc.NewServer()
	err := handler.Register(w)
	util.CheckErr(err, "worker %v could not register RPCs", w.WorkerId)
	go w.listenCoord(handler)

	hBeatAddr := w.startFCheckHBeat(w.WorkerId, w.FCheckAckLocalAddress)
	log.Printf("Start: worker %v answering heartbeats on %v\n", w.WorkerId, hBeatAddr)

	conn, err := util.DialTCPCustom(w.WorkerAddr, w.CoordAddr)
	util.CheckErr(err, "worker %d failed to dial coordinator at %v", w.WorkerId, w.CoordAddr)
	defer conn.Close()
	coordClient := rpc.NewClient(conn)

	workerNode := WorkerNode{
		WorkerId:         w.WorkerId,
		WorkerAddr:       w.WorkerAddr,
		WorkerFCheckAddr: hBeatAddr,
		WorkerListenAddr: w.WorkerListenAddr,
	}
	var response WorkerNode
	err = coordClient.Call("Coord.JoinWorker", workerNode, &response)
	util.CheckErr(err, "worker %v could not join the coordinator", w.WorkerId)

	log.Printf("Start: worker %v joined coordinator at %v\n", w.WorkerId, w.CoordAddr)

	wg := sync.WaitGroup{}
	wg.Add(1)
	wg.Wait()

	return nil
}
