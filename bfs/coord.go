package bfs

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"net/rpc"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"hopper/database"
	fchecker "hopper/fcheck"
	"hopper/util"
)

const (
	coordProcesses        = 2
	progressBufferedSends = 16
	endQueryTimeout       = 30 * time.Second
)

type CoordConfig struct {
	ClientAPIListenAddr   string // clients submit queries here (grpc)
	WorkerAPIListenAddr   string // joining workers message this addr
	ExternalAPIListenAddr string // admin HTTP endpoint
	LostMsgsThresh        uint8  // fcheck
	WorkerCount           uint32 // partitions per query
	MaxRoundCount         uint64 // abort queries that run longer than this, 0 means the node count
	EnableGRPCWeb         bool
	Storage               database.Config
}

// WorkerPool maps worker config ids to their join records.
type WorkerPool map[uint32]WorkerNode

// RoundStat is one round of the running (or last finished) query, served on
// the admin API and written to the round log.
type RoundStat struct {
	Round   uint64  `json:"round"`
	Claimed uint64  `json:"claimed"`
	Sent    uint64  `json:"sent"`
	Seconds float64 `json:"seconds"`
}

// Progress is one update pushed to WatchProgress subscribers.
type Progress struct {
	Round   uint64
	Claimed uint64
	Sent    uint64
	Done    bool
}

type Coord struct {
	workerAPIListenAddr   string
	externalAPIListenAddr string
	lostMsgsThresh        uint8
	workerCount           uint32
	maxRoundCount         uint64
	storage               database.Config

	mx       sync.Mutex
	workers  WorkerPool // config id --> worker, every joined worker
	monitors map[uint32]*fchecker.Fcheck

	busy                 bool
	querySeq             uint64
	query                Query
	queryWorkers         WorkerPool // logical id --> worker for current query
	queryWorkersCallbook WorkerCallBook
	roundStats           []RoundStat

	workerDoneStart chan *rpc.Call // done messages for Worker.StartQuery RPC
	workerDoneRound chan *rpc.Call // done messages for Worker.ProgressRound RPC
	workerDoneEnd   chan *rpc.Call // done messages for Worker.EndQuery RPC
	allWorkersReady chan roundDone
	failureCh       chan workerFailure

	progress progressBroker
}

// roundDone aggregates one barrier: every worker has acknowledged the
// fanned-out RPC. err carries the first RPC error, if any.
type roundDone struct {
	claimed    uint64
	sent       uint64
	localNodes uint64
	localEdges uint64
	err        error
}

type workerFailure struct {
	querySeq  uint64
	logicalId uint32
}

func NewCoord() *Coord {
	return &Coord{
		workers:   make(WorkerPool),
		monitors:  make(map[uint32]*fchecker.Fcheck),
		failureCh: make(chan workerFailure, 16),
	}
}

// assignQueryWorkers picks the query's partitions from the joined workers:
// the lowest WorkerCount config ids, in order, get logical ids 0..P-1. The
// assignment is deterministic in the joined set, so the loader can stage
// edges against the directory the admin API serves before the query starts.
func (c *Coord) assignQueryWorkers(workerCount uint32) (WorkerPool, error) {
	if uint32(len(c.workers)) < workerCount {
		return nil, fmt.Errorf("need %v workers, have %v", workerCount, len(c.workers))
	}

	configIds := make([]uint32, 0, len(c.workers))
	for id := range c.workers {
		configIds = append(configIds, id)
	}
	sort.Slice(configIds, func(i, j int) bool { return configIds[i] < configIds[j] })

	assigned := make(WorkerPool)
	for logicalId := uint32(0); logicalId < workerCount; logicalId++ {
		assigned[logicalId] = c.workers[configIds[logicalId]]
	}
	return assigned, nil
}

func (c *Coord) dialQueryWorkers(assigned WorkerPool) (WorkerCallBook, error) {
	callbook := make(WorkerCallBook)
	for logicalId, workerNode := range assigned {
		client, err := util.DialRPC(workerNode.WorkerListenAddr)
		if err != nil {
			closeCallbook(callbook)
			return nil, fmt.Errorf("cannot create client for worker %v addr %v: %v",
				workerNode.WorkerId, workerNode.WorkerListenAddr, err)
		}
		callbook[logicalId] = client
	}
	return callbook, nil
}

// blockWorkersReady collects one fanned-out RPC's done messages and reports
// the aggregate on ready. Errored calls still count toward the barrier so a
// broken worker surfaces as an error instead of a hang.
func (c *Coord) blockWorkersReady(numWorkers int, workerDone chan *rpc.Call, ready chan roundDone) {
	readyWorkerCounter := 0
	done := roundDone{}

	for call := range workerDone {
		if call.Error != nil {
			log.Printf("blockWorkersReady - %v: received error: %v\n",
				call.ServiceMethod, call.Error)
			if done.err == nil {
				done.err = call.Error
			}
		} else {
			switch reply := call.Reply.(type) {
			case *StartQueryResult:
				done.localNodes += reply.LocalNodes
				done.localEdges += reply.LocalEdges
			case *ProgressRoundResult:
				done.claimed += reply.Claimed
				done.sent += reply.Sent
			}
		}

		readyWorkerCounter++
		log.Printf("blockWorkersReady - %v: %d workers ready!\n",
			call.ServiceMethod, readyWorkerCounter)

		if readyWorkerCounter == numWorkers {
			ready <- done
			return
		}
	}
}

// waitWorkersReady blocks until the pending barrier completes or a worker of
// the current query fails.
func (c *Coord) waitWorkersReady(querySeq uint64, ready chan roundDone) (roundDone, error) {
	for {
		select {
		case done := <-ready:
			if done.err != nil {
				return done, done.err
			}
			return done, nil
		case failure := <-c.failureCh:
			if failure.querySeq != querySeq {
				log.Printf("waitWorkersReady: ignoring stale failure of worker %v\n",
					failure.logicalId)
				continue
			}
			return roundDone{}, fmt.Errorf("worker %v failed", failure.logicalId)
		}
	}
}

// resolveNumNodes figures out the node count for the query: staged graphs
// carry it in the query, stored graphs carry it in their metadata.
func (c *Coord) resolveNumNodes(q Query) (uint64, error) {
	if q.Graph == GRAPH_STAGED {
		if q.NumNodes == 0 {
			return 0, fmt.Errorf("staged query carries no node count")
		}
		if q.NumNodes > MaxNodeCount {
			return 0, fmt.Errorf("node count %v above maximum %v", q.NumNodes, uint64(MaxNodeCount))
		}
		return q.NumNodes, nil
	}

	if err := database.ValidateGraphName(q.Graph); err != nil {
		return 0, err
	}
	ctx := context.Background()
	store, err := OpenStore(ctx, c.storage)
	if err != nil {
		return 0, err
	}
	defer store.Close(ctx)

	meta, err := store.Meta(ctx, q.Graph)
	if err != nil {
		return 0, fmt.Errorf("read metadata of graph %v: %v", q.Graph, err)
	}
	if meta.NumNodes == 0 || meta.NumNodes > MaxNodeCount {
		return 0, fmt.Errorf("graph %v has invalid node count %v", q.Graph, meta.NumNodes)
	}
	return meta.NumNodes, nil
}

func validateQuery(q Query, numNodes uint64) error {
	switch q.QueryType {
	case QUERY_TYPE_BFS:
	case QUERY_TYPE_PATH:
		if !q.HasTarget {
			return fmt.Errorf("path query carries no target node")
		}
		if q.Target >= numNodes {
			return fmt.Errorf("target %v outside id range [0, %v)", q.Target, numNodes)
		}
	default:
		return fmt.Errorf("unknown query type %v", q.QueryType)
	}
	if q.Root >= numNodes {
		return fmt.Errorf("root %v outside id range [0, %v)", q.Root, numNodes)
	}
	return nil
}

// RunQuery runs one query to completion and returns its result. Queries are
// serialized: a second query submitted while one is running is rejected with
// an error rather than queued.
func (c *Coord) RunQuery(q Query) (QueryResult, error) {
	result := QueryResult{Query: q, Distance: -1}

	c.mx.Lock()
	if c.busy {
		runningClient := c.query.ClientId
		c.mx.Unlock()
		return result, fmt.Errorf("a query from client %v is in progress, rejecting query from client %v",
			runningClient, q.ClientId)
	}

	numNodes, err := c.resolveNumNodes(q)
	if err == nil {
		err = validateQuery(q, numNodes)
	}
	if err != nil {
		c.mx.Unlock()
		result.Error = err.Error()
		return result, err
	}

	assigned, err := c.assignQueryWorkers(c.workerCount)
	if err != nil {
		c.mx.Unlock()
		result.Error = err.Error()
		return result, err
	}
	callbook, err := c.dialQueryWorkers(assigned)
	if err != nil {
		c.mx.Unlock()
		result.Error = err.Error()
		return result, err
	}

	c.busy = true
	c.querySeq++
	querySeq := c.querySeq
	c.query = q
	c.queryWorkers = assigned
	c.queryWorkersCallbook = callbook
	c.roundStats = nil
	c.mx.Unlock()

	defer func() {
		c.mx.Lock()
		c.busy = false
		c.query = Query{}
		c.queryWorkers = nil
		c.queryWorkersCallbook = nil
		c.mx.Unlock()
		closeCallbook(callbook)
	}()

	result.NumNodes = numNodes
	numWorkers := uint32(len(assigned))
	log.Printf("RunQuery: running %v query for client %v on %v nodes with %v workers\n",
		q.QueryType, q.ClientId, numNodes, numWorkers)

	// round log, one line per round
	logFile, err := os.OpenFile("coord.log", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	logger := log.New(logFile, "Coord ", log.LstdFlags)

	directory := make(WorkerDirectory)
	for logicalId, workerNode := range assigned {
		directory[logicalId] = workerNode.WorkerListenAddr
	}

	c.workerDoneStart = make(chan *rpc.Call, numWorkers)
	c.allWorkersReady = make(chan roundDone, 1)
	for logicalId, client := range callbook {
		args := StartQueryArgs{
			WorkerLogicalId: logicalId,
			NumWorkers:      numWorkers,
			NumNodes:        numNodes,
			WorkerDirectory: directory,
			Query:           q,
		}
		var reply StartQueryResult
		client.Go("Worker.StartQuery", args, &reply, c.workerDoneStart)
	}
	go c.blockWorkersReady(int(numWorkers), c.workerDoneStart, c.allWorkersReady)

	started, err := c.waitWorkersReady(querySeq, c.allWorkersReady)
	if err != nil {
		return c.abortQuery(result, fmt.Errorf("could not start query: %v", err))
	}
	if started.localNodes != numNodes {
		return c.abortQuery(result, fmt.Errorf("partitions cover %v nodes, graph has %v",
			started.localNodes, numNodes))
	}
	log.Printf("RunQuery: %v workers hold %v nodes and %v edges\n",
		numWorkers, started.localNodes, started.localEdges)

	// no shortest path is longer than N-1 hops, so a healthy query never
	// trips the default cap
	maxRounds := c.maxRoundCount
	if maxRounds == 0 {
		maxRounds = numNodes
	}

	// the round loop: claims of round r seed round r+1, the query is done
	// after the first round that sends nothing
	reached := uint64(0)
	var roundClaims []uint64
	round := uint64(0)
	for {
		if round >= maxRounds {
			return c.abortQuery(result, fmt.Errorf("round cap %v reached, aborting query", maxRounds))
		}

		start := time.Now()
		c.workerDoneRound = make(chan *rpc.Call, numWorkers)
		c.allWorkersReady = make(chan roundDone, 1)
		for _, client := range callbook {
			args := ProgressRoundArgs{Round: round}
			var reply ProgressRoundResult
			client.Go("Worker.ProgressRound", args, &reply, c.workerDoneRound)
		}
		go c.blockWorkersReady(int(numWorkers), c.workerDoneRound, c.allWorkersReady)

		done, err := c.waitWorkersReady(querySeq, c.allWorkersReady)
		if err != nil {
			return c.abortQuery(result, fmt.Errorf("round %v failed: %v", round, err))
		}

		duration := time.Since(start)
		logger.Printf("round %v claimed %v sent %v took %v s\n",
			round, done.claimed, done.sent, duration.Seconds())

		reached += done.claimed
		roundClaims = append(roundClaims, done.claimed)
		stat := RoundStat{Round: round, Claimed: done.claimed, Sent: done.sent, Seconds: duration.Seconds()}
		c.mx.Lock()
		c.roundStats = append(c.roundStats, stat)
		c.mx.Unlock()
		c.progress.publish(Progress{Round: round, Claimed: done.claimed, Sent: done.sent})

		if done.sent == 0 {
			round++
			break
		}
		round++
	}

	result.Reached = reached
	result.Rounds = round
	result.RoundClaims = roundClaims

	if q.QueryType == QUERY_TYPE_PATH {
		path, distance, err := reconstructPath(q.Root, q.Target, c.peekNode(callbook, numWorkers))
		if err != nil {
			return c.abortQuery(result, fmt.Errorf("could not reconstruct path: %v", err))
		}
		result.Path = path
		result.Distance = distance
	}

	c.endQuery(callbook, EndQueryArgs{Aborted: false})
	c.progress.publish(Progress{Round: round - 1, Claimed: reached, Done: true})

	logger.Printf("completed query for client %v: reached %v of %v nodes in %v rounds\n",
		q.ClientId, reached, numNodes, round)
	log.Printf("RunQuery: completed query for client %v: reached %v of %v nodes in %v rounds\n",
		q.ClientId, reached, numNodes, round)
	return result, nil
}

// abortQuery tells the workers to drop their query state and surfaces the
// cause to the client. Nothing from an aborted query is kept.
func (c *Coord) abortQuery(result QueryResult, cause error) (QueryResult, error) {
	log.Printf("abortQuery: %v\n", cause)

	c.mx.Lock()
	callbook := c.queryWorkersCallbook
	c.mx.Unlock()
	c.endQuery(callbook, EndQueryArgs{Aborted: true})
	c.progress.publish(Progress{Done: true})

	result.Error = cause.Error()
	return result, cause
}

// endQuery tells every query worker to finish. Aborts run through here too,
// so collection is bounded by a timeout instead of the failure detector.
func (c *Coord) endQuery(callbook WorkerCallBook, params EndQueryArgs) {
	readyWorkerCounter := 0
	numWorkers := len(callbook)
	c.workerDoneEnd = make(chan *rpc.Call, numWorkers)

	for wId, wClient := range callbook {
		var result EndQueryResult
		wClient.Go("Worker.EndQuery", params, &result, c.workerDoneEnd)
		log.Printf("endQuery: called EndQuery on worker %v\n", wId)
	}

	deadline := time.After(endQueryTimeout)
	for readyWorkerCounter < numWorkers {
		select {
		case call := <-c.workerDoneEnd:
			if call.Error != nil {
				log.Printf("endQuery: worker returned error: %v\n", call.Error)
			}
			readyWorkerCounter++
		case <-deadline:
			log.Printf("endQuery: gave up waiting, %v of %v workers finished\n",
				readyWorkerCounter, numWorkers)
			return
		}
	}
	log.Printf("endQuery: all %v workers finished query\n", readyWorkerCounter)
}

// peekNode returns a closure that asks the owning worker about one node's
// claim state. reconstructPath walks predecessor chains through it.
func (c *Coord) peekNode(callbook WorkerCallBook, numWorkers uint32) func(node uint64) (PeekNodeResult, error) {
	return func(node uint64) (PeekNodeResult, error) {
		owner := Owner(uint32(node), numWorkers)
		client, ok := callbook[owner]
		if !ok {
			return PeekNodeResult{}, fmt.Errorf("no connection to worker %v owning node %v", owner, node)
		}
		var reply PeekNodeResult
		err := client.Call("Worker.PeekNode", PeekNodeArgs{NodeId: node}, &reply)
		return reply, err
	}
}

// reconstructPath walks the predecessor chain from target back to root. The
// claim rounds strictly decrease along the chain, which both proves the path
// is a shortest one and bounds the walk.
func reconstructPath(root uint64, target uint64, peek func(node uint64) (PeekNodeResult, error)) ([]uint64, int64, error) {
	res, err := peek(target)
	if err != nil {
		return nil, -1, err
	}
	if !res.Claimed {
		return nil, -1, nil
	}

	distance := int64(res.Round)
	path := []uint64{target}
	node := target
	for node != root {
		if res.Round == 0 {
			return nil, -1, fmt.Errorf("node %v claimed in round 0 is not the root", node)
		}
		prevRound := res.Round
		node = res.Predecessor
		res, err = peek(node)
		if err != nil {
			return nil, -1, err
		}
		if !res.Claimed {
			return nil, -1, fmt.Errorf("predecessor chain broken at unclaimed node %v", node)
		}
		if res.Round >= prevRound {
			return nil, -1, fmt.Errorf("predecessor %v claimed in round %v, expected an earlier round than %v",
				node, res.Round, prevRound)
		}
		path = append(path, node)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, distance, nil
}

// Subscribe registers a WatchProgress stream with the progress broker.
func (c *Coord) Subscribe() (<-chan Progress, func()) {
	return c.progress.subscribe()
}

func (c *Coord) JoinWorker(w WorkerNode, reply *WorkerNode) error {
	log.Printf("JoinWorker: adding worker %d\n", w.WorkerId)

	client, err := util.DialRPC(w.WorkerListenAddr)
	if err != nil {
		log.Printf("JoinWorker: coord could not dial worker addr %v, err: %v\n",
			w.WorkerListenAddr, err)
		return err
	}
	client.Close()

	c.mx.Lock()
	if _, ok := c.queryWorkersFor(w.WorkerId); ok {
		c.mx.Unlock()
		return fmt.Errorf("worker %v is part of the running query", w.WorkerId)
	}
	if oldMonitor, ok := c.monitors[w.WorkerId]; ok {
		log.Printf("JoinWorker: worker %v rejoined, replacing old monitor\n", w.WorkerId)
		oldMonitor.Stop()
	}
	c.workers[w.WorkerId] = w
	c.mx.Unlock()

	f, err := c.startMonitor(w)
	if err != nil {
		c.mx.Lock()
		delete(c.workers, w.WorkerId)
		c.mx.Unlock()
		return err
	}
	c.mx.Lock()
	c.monitors[w.WorkerId] = f
	c.mx.Unlock()
	go c.monitor(w, f)

	log.Printf("JoinWorker: added worker %v, %v workers joined\n", w.WorkerId, c.WorkerCount())

	*reply = w
	return nil
}

// queryWorkersFor resolves a config id to its logical id in the running
// query. Callers hold c.mx.
func (c *Coord) queryWorkersFor(workerId uint32) (uint32, bool) {
	if !c.busy {
		return 0, false
	}
	for logicalId, workerNode := range c.queryWorkers {
		if workerNode.WorkerId == workerId {
			return logicalId, true
		}
	}
	return 0, false
}

func (c *Coord) startMonitor(w WorkerNode) (*fchecker.Fcheck, error) {
	localIp := strings.Split(c.workerAPIListenAddr, ":")[0]
	epochNonce := rand.Uint64()

	return fchecker.Start(fchecker.StartStruct{
		AckLocalIPAckLocalPort:       localIp + ":0",
		EpochNonce:                   epochNonce,
		HBeatLocalIPHBeatLocalPort:   localIp + ":0",
		HBeatRemoteIPHBeatRemotePort: w.WorkerFCheckAddr,
		LostMsgThresh:                c.lostMsgsThresh,
		MonitoredId:                  w.WorkerId,
	})
}

// monitor waits for the failure detector to give up on one worker, then
// removes the worker from the pool. A failure during a query aborts it;
// there is no failover.
func (c *Coord) monitor(w WorkerNode, f *fchecker.Fcheck) {
	log.Printf("monitor: fcheck for worker %d running\n", w.WorkerId)

	notify, ok := <-f.NotifyCh()
	if !ok {
		return
	}
	log.Printf("monitor: worker %v at %v failed at %v\n",
		notify.MonitoredId, notify.UDPIpPort, notify.Timestamp)

	c.mx.Lock()
	delete(c.workers, w.WorkerId)
	if c.monitors[w.WorkerId] == f {
		delete(c.monitors, w.WorkerId)
	}
	logicalId, inQuery := c.queryWorkersFor(w.WorkerId)
	querySeq := c.querySeq
	c.mx.Unlock()
	f.Stop()

	if inQuery {
		c.failureCh <- workerFailure{querySeq: querySeq, logicalId: logicalId}
	}
}

func listenWorkers(workerAPIListenAddr string) {
	wlisten, err := net.Listen("tcp", workerAPIListenAddr)
	if err != nil {
		log.Fatalf("listenWorkers: error listening: %v\n", err)
	}
	log.Printf("listenWorkers: listening for workers at %v\n", workerAPIListenAddr)

	for {
		conn, err := wlisten.Accept()
		if err != nil {
			log.Printf("listenWorkers: error accepting worker: %v\n", err)
			continue
		}
		go rpc.ServeConn(conn) // blocks while serving connection until client hangs up
	}
}

// WorkerCount returns the number of joined workers.
func (c *Coord) WorkerCount() int {
	c.mx.Lock()
	defer c.mx.Unlock()
	return len(c.workers)
}

func (c *Coord) GetHealth(context *gin.Context) {
	c.mx.Lock()
	defer c.mx.Unlock()
	context.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"workers": len(c.workers),
		"busy":    c.busy,
	})
}

// GetDirectory serves the partition assignment the next query would use, so
// the loader can stage edges at the right workers.
func (c *Coord) GetDirectory(context *gin.Context) {
	c.mx.Lock()
	defer c.mx.Unlock()

	assigned, err := c.assignQueryWorkers(c.workerCount)
	if err != nil {
		context.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	directory := make(map[uint32]string)
	for logicalId, workerNode := range assigned {
		directory[logicalId] = workerNode.WorkerListenAddr
	}
	context.JSON(http.StatusOK, gin.H{
		"workerCount": c.workerCount,
		"directory":   directory,
	})
}

func (c *Coord) GetRounds(context *gin.Context) {
	c.mx.Lock()
	defer c.mx.Unlock()
	context.JSON(http.StatusOK, gin.H{
		"busy":   c.busy,
		"rounds": c.roundStats,
	})
}

// DrainWorker removes an idle worker from the pool and stops its monitor.
// Workers serving the running query cannot be drained.
func (c *Coord) DrainWorker(context *gin.Context) {
	id, err := strconv.ParseUint(context.Param("id"), 10, 32)
	if err != nil {
		context.JSON(http.StatusBadRequest, gin.H{"error": "bad worker id"})
		return
	}
	workerId := uint32(id)

	c.mx.Lock()
	if _, ok := c.workers[workerId]; !ok {
		c.mx.Unlock()
		context.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("worker %v not joined", workerId)})
		return
	}
	if _, inQuery := c.queryWorkersFor(workerId); inQuery {
		c.mx.Unlock()
		context.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("worker %v is part of the running query", workerId)})
		return
	}
	monitor := c.monitors[workerId]
	delete(c.workers, workerId)
	delete(c.monitors, workerId)
	c.mx.Unlock()

	if monitor != nil {
		monitor.Stop()
	}
	log.Printf("DrainWorker: drained worker %v\n", workerId)
	context.JSON(http.StatusOK, gin.H{"workerId": workerId})
}

func (c *Coord) listenExternalRequests(externalAPIListenAddr string) {
	router := gin.Default()
	externalAPI := router.Group("/api")
	{
		externalAPI.GET("/health", c.GetHealth)
		externalAPI.GET("/directory", c.GetDirectory)
		externalAPI.GET("/rounds", c.GetRounds)
		externalAPI.DELETE("/worker/:id", c.DrainWorker)
	}
	log.Printf("listenExternalRequests: listening on %v\n", externalAPIListenAddr)
	if err := router.Run(externalAPIListenAddr); err != nil {
		log.Fatalf("listenExternalRequests: error while serving: %v", err)
	}
}

// Start serves the worker join endpoint and the admin API. The client API is
// served separately by the api package, which wraps this coordinator. Only
// returns when network or other unrecoverable errors occur.
func (c *Coord) Start(config CoordConfig) error {
	c.workerAPIListenAddr = config.WorkerAPIListenAddr
	c.externalAPIListenAddr = config.ExternalAPIListenAddr
	c.lostMsgsThresh = config.LostMsgsThresh
	c.workerCount = config.WorkerCount
	c.maxRoundCount = config.MaxRoundCount
	c.storage = config.Storage

	if c.workerCount == 0 {
		return fmt.Errorf("coord needs a worker count")
	}

	err := rpc.Register(c)
	util.CheckErr(err, "coord could not register RPCs")

	wg := sync.WaitGroup{}
	wg.Add(coordProcesses)
	go listenWorkers(config.WorkerAPIListenAddr)
	go c.listenExternalRequests(config.ExternalAPIListenAddr)
	wg.Wait()

	// will never return
	return nil
}

// progressBroker fans query progress out to WatchProgress subscribers. Slow
// subscribers miss updates instead of stalling the round loop.
type progressBroker struct {
	mu   sync.Mutex
	subs map[int]chan Progress
	next int
}

func (b *progressBroker) subscribe() (<-chan Progress, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]chan Progress)
	}
	id := b.next
	b.next++
	ch := make(chan Progress, progressBufferedSends)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *progressBroker) publish(p Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- p:
		default:
		}
	}
}
