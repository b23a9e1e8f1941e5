package api

import (
	"context"
	"log"
	"net"
	"net/http"

	"hopper/bfs"
	coordpb "hopper/bfs/proto/coord"

	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
)

type grpcMultiplexer struct {
	*grpcweb.WrappedGrpcServer
}

// Handler is used to route requests to either grpc-web or to regular grpc
func (m *grpcMultiplexer) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if m.IsGrpcWebRequest(r) || m.IsAcceptableGrpcCorsRequest(r) {
				m.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		},
	)
}

// Server answers the client query API on behalf of a running coordinator.
type Server struct {
	coordpb.UnimplementedCoordServer
	coord *bfs.Coord
}

func NewServer(coord *bfs.Coord) *Server {
	return &Server{coord: coord}
}

// StartQuery runs the query to completion. Failures travel in the result
// payload so browser clients see them the same way native ones do.
func (s *Server) StartQuery(ctx context.Context, q *coordpb.Query) (
	*coordpb.QueryResult,
	error,
) {
	query := bfs.Query{
		ClientId:  q.GetClientId(),
		QueryType: q.GetQueryType(),
		Graph:     q.GetGraph(),
		Root:      q.GetRoot(),
		Target:    q.GetTarget(),
		HasTarget: q.GetHasTarget(),
		NumNodes:  q.GetNumNodes(),
	}

	result, err := s.coord.RunQuery(query)
	if err != nil && result.Error == "" {
		result.Error = err.Error()
	}

	return &coordpb.QueryResult{
		Query:       q,
		NumNodes:    result.NumNodes,
		Reached:     result.Reached,
		Rounds:      result.Rounds,
		RoundClaims: result.RoundClaims,
		Distance:    result.Distance,
		Path:        result.Path,
		Error:       result.Error,
	}, nil
}

// WatchProgress streams round updates until the query being watched
// finishes or the client goes away.
func (s *Server) WatchProgress(
	req *coordpb.WatchRequest, stream coordpb.Coord_WatchProgressServer,
) error {
	updates, cancel := s.coord.Subscribe()
	defer cancel()

	log.Printf("WatchProgress: streaming progress to client %v\n", req.GetClientId())
	for {
		select {
		case p, ok := <-updates:
			if !ok {
				return nil
			}
			err := stream.Send(&coordpb.Progress{
				Round:   p.Round,
				Claimed: p.Claimed,
				Sent:    p.Sent,
				Done:    p.Done,
			})
			if err != nil {
				return err
			}
			if p.Done {
				return nil
			}
		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}

// ServeClientAPI serves the query API at clientAPIListenAddr. With enableWeb
// set, the listener also answers grpc-web requests so browser clients can
// reach the coordinator directly; native grpc then runs over h2c on the same
// port. Blocks for the life of the server.
func ServeClientAPI(clientAPIListenAddr string, coord *bfs.Coord, enableWeb bool) error {
	grpcServer := grpc.NewServer()
	coordpb.RegisterCoordServer(grpcServer, NewServer(coord))

	lis, err := net.Listen("tcp", clientAPIListenAddr)
	if err != nil {
		return err
	}

	if !enableWeb {
		log.Printf("ServeClientAPI: serving client API at %v\n", clientAPIListenAddr)
		return grpcServer.Serve(lis)
	}

	grpcWebServer := grpcweb.WrapServer(grpcServer)
	multiplex := grpcMultiplexer{grpcWebServer}

	router := http.NewServeMux()
	router.Handle("/", multiplex.Handler(grpcServer))

	// no read/write timeouts: queries run long and progress streams stay open
	srv := &http.Server{
		Addr:    clientAPIListenAddr,
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	log.Printf("ServeClientAPI: serving client API with grpc-web at %v\n", clientAPIListenAddr)
	return srv.Serve(lis)
}
