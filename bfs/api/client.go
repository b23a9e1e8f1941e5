package api

import (
	"context"
	"errors"
	"log"

	"hopper/bfs"
	coordpb "hopper/bfs/proto/coord"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type ClientConfig struct {
	ClientId  string
	CoordAddr string
	Graph     string // named graph in storage, empty means staged edges
	NumNodes  uint64 // staged graphs only
}

// GraphClient submits queries to the coordinator over grpc and reports
// results on a notify channel.
type GraphClient struct {
	clientId    string
	coordConn   *grpc.ClientConn
	coordClient coordpb.CoordClient
	notifyCh    chan bfs.QueryResult
}

func NewClient() *GraphClient {
	return &GraphClient{}
}

// Start connects to the coord node for the query API.
// If there is an issue with connecting to the coord, this should return an
// appropriate err value, otherwise err should be set to nil.
func (c *GraphClient) Start(clientId string, coordAddr string) (
	chan bfs.QueryResult, error,
) {
	c.clientId = clientId

	conn, err := grpc.Dial(
		coordAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, err
	}
	c.coordConn = conn
	c.coordClient = coordpb.NewCoordClient(conn)

	c.notifyCh = make(chan bfs.QueryResult, 1)

	return c.notifyCh, nil
}

func (c *GraphClient) SendQuery(query bfs.Query) error {
	switch query.QueryType {
	case bfs.QUERY_TYPE_BFS:
		if query.HasTarget {
			return errors.New("reachability queries take a root only")
		}
	case bfs.QUERY_TYPE_PATH:
		if !query.HasTarget {
			return errors.New("path queries need a root and a target")
		}
	default:
		return errors.New("unknown query type")
	}
	query.ClientId = c.clientId

	log.Printf("SendQuery: query is queued up to be sent.")
	go c.doQuery(query)
	return nil
}

func (c *GraphClient) doQuery(query bfs.Query) {
	res, err := c.coordClient.StartQuery(context.Background(), &coordpb.Query{
		ClientId:  query.ClientId,
		QueryType: query.QueryType,
		Graph:     query.Graph,
		Root:      query.Root,
		Target:    query.Target,
		HasTarget: query.HasTarget,
		NumNodes:  query.NumNodes,
	})
	if err != nil {
		log.Printf("doQuery: error calling Coord.StartQuery: %v\n", err)
		c.notifyCh <- bfs.QueryResult{Query: query, Distance: -1, Error: err.Error()}
		return
	}

	result := bfs.QueryResult{
		Query:       query,
		NumNodes:    res.GetNumNodes(),
		Reached:     res.GetReached(),
		Rounds:      res.GetRounds(),
		RoundClaims: res.GetRoundClaims(),
		Distance:    res.GetDistance(),
		Path:        res.GetPath(),
		Error:       res.GetError(),
	}
	if result.Error != "" {
		log.Printf("doQuery: received error: %v\n", result.Error)
	}

	c.notifyCh <- result
}

// WatchProgress streams round updates onto the returned channel until the
// watched query finishes or ctx is cancelled. The channel closes when the
// stream ends.
func (c *GraphClient) WatchProgress(ctx context.Context) (<-chan bfs.Progress, error) {
	stream, err := c.coordClient.WatchProgress(
		ctx, &coordpb.WatchRequest{ClientId: c.clientId},
	)
	if err != nil {
		return nil, err
	}

	updates := make(chan bfs.Progress, 1)
	go func() {
		defer close(updates)
		for {
			p, err := stream.Recv()
			if err != nil {
				return
			}
			updates <- bfs.Progress{
				Round:   p.GetRound(),
				Claimed: p.GetClaimed(),
				Sent:    p.GetSent(),
				Done:    p.GetDone(),
			}
		}
	}()
	return updates, nil
}

func (c *GraphClient) Stop() {
	c.coordConn.Close()
	close(c.notifyCh)
}
