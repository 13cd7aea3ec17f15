package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthCheckTimeout bounds a single health check.
const HealthCheckTimeout = 3 * time.Second

// HealthChecker asks the server's gRPC health service whether the notes API
// is serving.
type HealthChecker struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

func NewHealthChecker(addr string, opts ...grpc.DialOption) (*HealthChecker, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &HealthChecker{conn: conn, health: healthpb.NewHealthClient(conn)}, nil
}

// Check returns nil when the server reports SERVING and an error wrapping
// ErrUnavailable otherwise.
func (p *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	resp, err := p.health.Check(ctx, &healthpb.HealthCheckRequest{Service: common.HealthServiceName})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (p *HealthChecker) Close() error {
	return p.conn.Close()
}
