package api

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/vladimir-zatsepin/vectoriadb/api/proto"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/log"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/manager"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/golang/protobuf/ptypes/empty"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server implements the IndexManager gRPC service
type Server struct {
	proto.UnimplementedIndexManagerServer
	manager *manager.Manager
	grpc    *grpc.Server
	logger  zerolog.Logger
}

// NewServer creates a new API server backed by the given index manager.
func NewServer(mgr *manager.Manager) *Server {
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(MetricsInterceptor()))
	return &Server{
		manager: mgr,
		grpc:    grpcServer,
		logger:  log.WithComponent("api"),
	}
}

// Start starts the gRPC server
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	proto.RegisterIndexManagerServer(s.grpc, s)

	s.logger.Info().Str("addr", addr).Msg("gRPC API listening")
	return s.grpc.Serve(lis)
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
}

// CreateIndex creates a new index with the requested distance metric
func (s *Server) CreateIndex(ctx context.Context, req *proto.CreateIndexRequest) (*empty.Empty, error) {
	distance, err := distanceFromProto(req.Distance)
	if err != nil {
		return nil, err
	}
	if err := s.manager.CreateIndex(ctx, req.IndexName, distance); err != nil {
		return nil, err
	}
	return &empty.Empty{}, nil
}

// TriggerIndexBuild enqueues an index for the build worker
func (s *Server) TriggerIndexBuild(ctx context.Context, req *proto.IndexNameRequest) (*empty.Empty, error) {
	if err := s.manager.TriggerBuild(req.IndexName); err != nil {
		return nil, err
	}
	return &empty.Empty{}, nil
}

// UploadVectors receives a client stream of vector chunks. The first chunk
// binds the stream to its index; the stream acknowledges once on clean
// completion. Any failure terminates the stream with a single error reply.
func (s *Server) UploadVectors(stream proto.IndexManager_UploadVectorsServer) error {
	session, err := s.manager.UploadSession()
	if err != nil {
		return err
	}

	for {
		req, err := stream.Recv()
		if err == io.EOF {
			if err := session.Complete(); err != nil {
				return err
			}
			return stream.SendAndClose(&empty.Empty{})
		}
		if err != nil {
			session.Abort(err)
			return err
		}

		if err := session.Chunk(req.IndexName, req.VectorComponents, req.Id); err != nil {
			session.Abort(err)
			return err
		}
	}
}

// BuildStatus streams build-progress snapshots until the client cancels
func (s *Server) BuildStatus(_ *empty.Empty, stream proto.IndexManager_BuildStatusServer) error {
	listener := newStreamListener(stream)

	id, err := s.manager.SubscribeBuildStatus(listener)
	if err != nil {
		return err
	}
	defer s.manager.UnsubscribeBuildStatus(id)

	return listener.wait()
}

// RetrieveIndexState reports the lifecycle state of an index
func (s *Server) RetrieveIndexState(ctx context.Context, req *proto.IndexNameRequest) (*proto.IndexStateResponse, error) {
	state, err := s.manager.RetrieveIndexState(req.IndexName)
	if err != nil {
		return nil, err
	}
	return &proto.IndexStateResponse{State: stateToProto(state)}, nil
}

// ListIndexes returns the names of every non-broken index
func (s *Server) ListIndexes(ctx context.Context, _ *empty.Empty) (*proto.IndexListResponse, error) {
	names, err := s.manager.ListIndexes()
	if err != nil {
		return nil, err
	}
	return &proto.IndexListResponse{IndexNames: names}, nil
}

// SwitchToBuildMode swaps the service into build mode
func (s *Server) SwitchToBuildMode(ctx context.Context, _ *empty.Empty) (*empty.Empty, error) {
	if err := s.manager.SwitchToBuildMode(); err != nil {
		return nil, err
	}
	return &empty.Empty{}, nil
}

// SwitchToSearchMode swaps the service into search mode
func (s *Server) SwitchToSearchMode(ctx context.Context, _ *empty.Empty) (*empty.Empty, error) {
	if err := s.manager.SwitchToSearchMode(); err != nil {
		return nil, err
	}
	return &empty.Empty{}, nil
}

// FindNearestNeighbours answers a k-NN query against a built index
func (s *Server) FindNearestNeighbours(ctx context.Context, req *proto.FindNearestNeighboursRequest) (*proto.FindNearestNeighboursResponse, error) {
	ids, err := s.manager.FindNearestNeighbours(ctx, req.IndexName, int(req.K), req.VectorComponents)
	if err != nil {
		return nil, err
	}
	return &proto.FindNearestNeighboursResponse{Ids: ids}, nil
}

// DropIndex removes an index and its on-disk data
func (s *Server) DropIndex(ctx context.Context, req *proto.IndexNameRequest) (*empty.Empty, error) {
	if err := s.manager.DropIndex(req.IndexName); err != nil {
		return nil, err
	}
	return &empty.Empty{}, nil
}

func distanceFromProto(d proto.Distance) (types.Distance, error) {
	switch d {
	case proto.Distance_L2:
		return types.DistanceL2, nil
	case proto.Distance_DOT:
		return types.DistanceDot, nil
	case proto.Distance_COSINE:
		return types.DistanceCosine, nil
	}
	return "", status.Errorf(codes.InvalidArgument, "unknown distance %d", d)
}

func stateToProto(state types.IndexState) proto.IndexState {
	switch state {
	case types.IndexStateCreating:
		return proto.IndexState_CREATING
	case types.IndexStateCreated:
		return proto.IndexState_CREATED
	case types.IndexStateUploading:
		return proto.IndexState_UPLOADING
	case types.IndexStateUploaded:
		return proto.IndexState_UPLOADED
	case types.IndexStateInBuildQueue:
		return proto.IndexState_IN_BUILD_QUEUE
	case types.IndexStateBuilding:
		return proto.IndexState_BUILDING
	case types.IndexStateBuilt:
		return proto.IndexState_BUILT
	}
	return proto.IndexState_BROKEN
}
