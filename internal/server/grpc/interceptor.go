package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookapi/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDMetadataKey = "x-request-id"

// loggingInterceptor logs every unary call at debug level. A request ID sent
// as x-request-id metadata is carried into the handler context.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDMetadataKey); len(values) > 0 && values[0] != "" && len(values[0]) <= 128 {
			ctx = logging.WithRequestID(ctx, strings.TrimSpace(values[0]))
		}
	}

	resp, err := handler(ctx, req)

	s.logger.Debug(ctx, "grpc.request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return resp, err
}
