// Package grpc serves the standard grpc.health.v1 health service for the
// bookapi server. Its status follows the readiness of the backing store.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/bookapi/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside the overall "".
const ServiceName = "bookapi.BookAPI"

const defaultProbeInterval = 10 * time.Second

type GRPCServer struct {
	address       string
	logger        logging.Logger
	health        *health.Server
	ready         func(ctx context.Context) error
	probeInterval time.Duration
}

// NewGRPCServer builds the server. ready may be nil, in which case the
// server always reports SERVING while running.
func NewGRPCServer(a string, l logging.Logger, ready func(ctx context.Context) error) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		health:        health.NewServer(),
		ready:         ready,
		probeInterval: defaultProbeInterval,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.refreshReadiness(ctx)

	go func() {
		t := time.NewTicker(s.probeInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gRPC server...")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-t.C:
				s.refreshReadiness(ctx)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) refreshReadiness(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.ready != nil {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.ready(pctx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn(ctx, "readiness probe failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
