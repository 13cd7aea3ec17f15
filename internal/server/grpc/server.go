// Package grpc runs the gRPC health endpoint that clients poll to decide
// whether the note service is reachable.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	defaultCheckInterval = 5 * time.Second
	pingTimeout          = 2 * time.Second
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthServer struct {
	address  string
	db       Pinger
	logger   logging.Logger
	interval time.Duration
}

func NewHealthServer(address string, l logging.Logger, db Pinger) *HealthServer {
	return &HealthServer{
		address:  address,
		db:       db,
		logger:   l.With("module", "grpc_health"),
		interval: defaultCheckInterval,
	}
}

// Run listens on the configured address until ctx is cancelled.
func (s *HealthServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HealthServer) serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	s.check(ctx, hs)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gRPC health server...")
				hs.Shutdown()
				srv.GracefulStop()
				return
			case <-ticker.C:
				s.check(ctx, hs)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}

// check pings the database and publishes the result for both the overall
// server and the named note service.
func (s *HealthServer) check(ctx context.Context, hs *health.Server) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.PingContext(pingCtx); err != nil {
		s.logger.Warn(ctx, "database ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", status)
	hs.SetServingStatus(common.HealthServiceName, status)
}
