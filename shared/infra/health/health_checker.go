package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	grpcHealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	logInterceptor "github.com/nastyazhadan/order-settlement/shared/interceptors/logger"
	"github.com/nastyazhadan/order-settlement/shared/interceptors/recovery"
	"github.com/nastyazhadan/order-settlement/shared/interceptors/xrequestid"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

// OverallService is the empty service name probed by plain health checks.
const OverallService = ""

type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Checker flips the health status of the overall service and of every named
// dependency according to the last probe.
type Checker struct {
	server  *grpcHealth.Server
	pingers map[string]Pinger
	timeout time.Duration
}

func NewChecker(pingers map[string]Pinger, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = time.Second
	}

	server := grpcHealth.NewServer()
	server.SetServingStatus(OverallService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	return &Checker{
		server:  server,
		pingers: pingers,
		timeout: timeout,
	}
}

func (c *Checker) Server() *grpcHealth.Server {
	return c.server
}

// Probe pings every dependency concurrently and returns the joined failures.
func (c *Checker) Probe(ctx context.Context) error {
	var (
		mu       sync.Mutex
		failures []error
		group    errgroup.Group
	)

	for name, pinger := range c.pingers {
		group.Go(func() error {
			pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			if err := pinger.Ping(pingCtx); err != nil {
				c.server.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				return nil
			}

			c.server.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_SERVING)
			return nil
		})
	}
	_ = group.Wait()

	overall := grpc_health_v1.HealthCheckResponse_SERVING
	if len(failures) > 0 {
		overall = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus(OverallService, overall)

	return errors.Join(failures...)
}

// Run probes on every tick until ctx is done, then marks everything NOT_SERVING.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.Probe(ctx); err != nil {
			zapLogger.Warn(ctx, "health probe failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

func NewServer(checker *Checker) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			xrequestid.Server,
			logInterceptor.LoggerInterceptor(),
			recovery.PanicRecoveryInterceptor(),
		),
	)

	grpc_health_v1.RegisterHealthServer(server, checker.Server())
	reflection.Register(server)

	return server
}

func Serve(ctx context.Context, server *grpc.Server, listener net.Listener) {
	zapLogger.Info(ctx, fmt.Sprintf("Starting gRPC health server on %s", listener.Addr()))

	if err := server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		zapLogger.Error(ctx, "gRPC health server error", zap.Error(err))
	}
}
