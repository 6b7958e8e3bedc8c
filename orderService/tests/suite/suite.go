//go:build integration

package suite

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/testcontainers/testcontainers-go"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nastyazhadan/order-settlement/orderService/internal/charges"
	"github.com/nastyazhadan/order-settlement/orderService/internal/client/price"
	httpServer "github.com/nastyazhadan/order-settlement/orderService/internal/http"
	"github.com/nastyazhadan/order-settlement/orderService/internal/infrastructure/kafka"
	repoPostgres "github.com/nastyazhadan/order-settlement/orderService/internal/infrastructure/postgres"
	"github.com/nastyazhadan/order-settlement/orderService/internal/metrics"
	svcOrder "github.com/nastyazhadan/order-settlement/orderService/internal/services/order"
	"github.com/nastyazhadan/order-settlement/orderService/migrations"
	"github.com/nastyazhadan/order-settlement/shared/config"
	"github.com/nastyazhadan/order-settlement/shared/infra/db"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

const (
	dbUser     = "test_user"
	dbPassword = "test_password"
	dbName     = "order_test_db"

	LongTimeout    = 2 * time.Minute
	StartupTimeout = 30 * time.Second
	TxRetries      = 5
)

type Suite struct {
	Test    *testing.T
	Pool    *pgxpool.Pool
	Store   *repoPostgres.Store
	Service *svcOrder.Service
	Server  *httptest.Server
}

func New(test *testing.T) (context.Context, *Suite) {
	test.Helper()
	zapLogger.SetNopLogger()

	ctx, cancel := context.WithTimeout(context.Background(), LongTimeout)
	test.Cleanup(cancel)

	container, err := pgContainer.Run(ctx,
		"postgres:17.0-alpine3.20",
		pgContainer.WithDatabase(dbName),
		pgContainer.WithUsername(dbUser),
		pgContainer.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(StartupTimeout),
		),
	)
	if err != nil {
		test.Fatalf("failed to start postgres container: %v", err)
	}
	test.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			test.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connection, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		test.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := db.SetupDB(ctx, connection, db.PoolOptions{MaxConns: 20}, migrations.FS)
	if err != nil {
		test.Fatalf("failed to set up postgres: %v", err)
	}
	test.Cleanup(pool.Close)

	txManager, err := db.NewTxManager(pool, TxRetries)
	if err != nil {
		test.Fatalf("failed to create tx manager: %v", err)
	}
	store := repoPostgres.NewStore(txManager)

	prices := price.New(repoPostgres.NewInstrumentStore(pool), nil, config.CircuitBreakerConfig{
		MaxRequests: 1,
		Timeout:     time.Second,
		MaxFailures: 5,
	})

	registry := prometheus.NewRegistry()
	service := svcOrder.NewService(
		store,
		charges.NewEngine(charges.Options{}),
		prices,
		kafka.LogNotifier{},
		nil,
		metrics.New(registry),
		svcOrder.Timeouts{Create: 10 * time.Second, Notify: time.Second},
	)

	server := httptest.NewServer(httpServer.NewHandler(service, registry, config.RateLimiterConfig{}))
	test.Cleanup(server.Close)

	return ctx, &Suite{
		Test:    test,
		Pool:    pool,
		Store:   store,
		Service: service,
		Server:  server,
	}
}

// Do sends body as JSON and decodes the response into out when out is not nil.
func (s *Suite) Do(method, path string, body any, out any) int {
	s.Test.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			s.Test.Fatalf("failed to encode request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequest(method, s.Server.URL+path, reader)
	if err != nil {
		s.Test.Fatalf("failed to build request: %v", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.Server.Client().Do(request)
	if err != nil {
		s.Test.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	if out != nil {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			s.Test.Fatalf("failed to decode %s %s response: %v", method, path, err)
		}
	}

	return response.StatusCode
}

func (s *Suite) Count(ctx context.Context, query string, args ...any) int {
	s.Test.Helper()

	var count int
	if err := s.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		s.Test.Fatalf("failed to count: %v", err)
	}

	return count
}
