package api

import (
	"context"
	"strings"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// MetricsInterceptor creates a gRPC unary interceptor that records request
// counts and latencies per method and status code.
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		timer := metrics.NewTimer()
		resp, err := handler(ctx, req)

		method := methodName(info.FullMethod)
		metrics.RPCRequestsTotal.WithLabelValues(method, status.Code(err).String()).Inc()
		timer.ObserveDurationVec(metrics.RPCRequestDuration, method)

		return resp, err
	}
}

// methodName extracts the method from a full path
// (e.g. "/vectoriadb.api.IndexManager/CreateIndex" -> "CreateIndex")
func methodName(fullMethod string) string {
	parts := strings.Split(fullMethod, "/")
	return parts[len(parts)-1]
}
