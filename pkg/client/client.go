package client

import (
	"context"
	"fmt"
	"time"

	"github.com/vladimir-zatsepin/vectoriadb/api/proto"
	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client wraps the VectoriaDB gRPC client for easy CLI usage
type Client struct {
	conn   *grpc.ClientConn
	client proto.IndexManagerClient
}

// NewClient creates a new VectoriaDB client
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	return &Client{
		conn:   conn,
		client: proto.NewIndexManagerClient(conn),
	}, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// CreateIndex creates a new index
func (c *Client) CreateIndex(ctx context.Context, name string, distance proto.Distance) error {
	_, err := c.client.CreateIndex(ctx, &proto.CreateIndexRequest{
		IndexName: name,
		Distance:  distance,
	})
	return err
}

// TriggerIndexBuild enqueues an index for building
func (c *Client) TriggerIndexBuild(ctx context.Context, name string) error {
	_, err := c.client.TriggerIndexBuild(ctx, &proto.IndexNameRequest{IndexName: name})
	return err
}

// UploadVectors streams the given vectors into an index
func (c *Client) UploadVectors(ctx context.Context, name string, vectors [][]float32, ids [][]byte) error {
	if len(vectors) != len(ids) {
		return fmt.Errorf("got %d vectors but %d ids", len(vectors), len(ids))
	}

	stream, err := c.client.UploadVectors(ctx)
	if err != nil {
		return err
	}

	for i, vector := range vectors {
		req := &proto.UploadVectorsRequest{
			IndexName:        name,
			VectorComponents: vector,
			Id:               ids[i],
		}
		if err := stream.Send(req); err != nil {
			// The server's error arrives from CloseAndRecv
			break
		}
	}

	_, err = stream.CloseAndRecv()
	return err
}

// RetrieveIndexState returns the lifecycle state of an index
func (c *Client) RetrieveIndexState(ctx context.Context, name string) (proto.IndexState, error) {
	resp, err := c.client.RetrieveIndexState(ctx, &proto.IndexNameRequest{IndexName: name})
	if err != nil {
		return proto.IndexState_BROKEN, err
	}
	return resp.State, nil
}

// WaitForState polls until the index reaches the wanted state
func (c *Client) WaitForState(ctx context.Context, name string, want proto.IndexState, poll time.Duration) error {
	for {
		state, err := c.RetrieveIndexState(ctx, name)
		if err != nil {
			return err
		}
		if state == want {
			return nil
		}
		if state == proto.IndexState_BROKEN {
			return fmt.Errorf("index %s is broken", name)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
	}
}

// ListIndexes returns the names of all non-broken indexes
func (c *Client) ListIndexes(ctx context.Context) ([]string, error) {
	resp, err := c.client.ListIndexes(ctx, &empty.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.IndexNames, nil
}

// SwitchToBuildMode swaps the server into build mode
func (c *Client) SwitchToBuildMode(ctx context.Context) error {
	_, err := c.client.SwitchToBuildMode(ctx, &empty.Empty{})
	return err
}

// SwitchToSearchMode swaps the server into search mode
func (c *Client) SwitchToSearchMode(ctx context.Context) error {
	_, err := c.client.SwitchToSearchMode(ctx, &empty.Empty{})
	return err
}

// FindNearestNeighbours runs a k-NN query against a built index
func (c *Client) FindNearestNeighbours(ctx context.Context, name string, k uint32, query []float32) ([][]byte, error) {
	resp, err := c.client.FindNearestNeighbours(ctx, &proto.FindNearestNeighboursRequest{
		IndexName:        name,
		K:                k,
		VectorComponents: query,
	})
	if err != nil {
		return nil, err
	}
	return resp.Ids, nil
}

// DropIndex removes an index
func (c *Client) DropIndex(ctx context.Context, name string) error {
	_, err := c.client.DropIndex(ctx, &proto.IndexNameRequest{IndexName: name})
	return err
}

// BuildStatus subscribes to build-progress snapshots, invoking fn for each
// until the context is cancelled or the stream ends.
func (c *Client) BuildStatus(ctx context.Context, fn func(*proto.BuildStatusResponse)) error {
	stream, err := c.client.BuildStatus(ctx, &empty.Empty{})
	if err != nil {
		return err
	}

	for {
		resp, err := stream.Recv()
		if err != nil {
			return err
		}
		fn(resp)
	}
}
