package health

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestProbeReflectsDependencies(t *testing.T) {
	var dbErr error
	checker := NewChecker(map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return dbErr }),
		"redis":    PingFunc(func(context.Context) error { return nil }),
	}, time.Second)

	client := startHealthServer(t, checker)
	ctx := context.Background()

	response, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, response.GetStatus())

	require.NoError(t, checker.Probe(ctx))
	response, err = client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, response.GetStatus())

	dbErr = errors.New("connection refused")
	err = checker.Probe(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: connection refused")

	response, err = client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, response.GetStatus())

	response, err = client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: "redis"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, response.GetStatus())
}

func TestProbeHonoursTimeout(t *testing.T) {
	checker := NewChecker(map[string]Pinger{
		"slow": PingFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	}, 10*time.Millisecond)

	err := checker.Probe(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProbePingsDependenciesConcurrently(t *testing.T) {
	release := make(chan struct{})
	blocking := func(ctx context.Context) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	releaser := PingFunc(func(context.Context) error {
		close(release)
		return nil
	})
	checker := NewChecker(map[string]Pinger{
		"postgres": PingFunc(blocking),
		"redis":    PingFunc(blocking),
		"release":  releaser,
	}, 5*time.Second)

	started := time.Now()
	require.NoError(t, checker.Probe(context.Background()))
	assert.Less(t, time.Since(started), 5*time.Second)
}

func startHealthServer(t *testing.T, checker *Checker) grpc_health_v1.HealthClient {
	t.Helper()

	listener := bufconn.Listen(1024 * 1024)
	server := NewServer(checker)
	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	connection, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = connection.Close() })

	return grpc_health_v1.NewHealthClient(connection)
}
