package order

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	httpServer "github.com/nastyazhadan/order-settlement/orderService/internal/http"
	"github.com/nastyazhadan/order-settlement/orderService/migrations"
	"github.com/nastyazhadan/order-settlement/shared/config"
	"github.com/nastyazhadan/order-settlement/shared/infra/db"
	"github.com/nastyazhadan/order-settlement/shared/infra/health"
	"github.com/nastyazhadan/order-settlement/shared/infra/telemetry"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

const (
	healthProbeInterval = 10 * time.Second
	healthProbeTimeout  = 2 * time.Second
)

func Run(ctx context.Context, cfg config.OrderConfig) {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return ctx
			},
			func() config.OrderConfig {
				return cfg
			}),
		fx.Provide(
			provideDBPool,
			provideContainer,
			provideHTTPServer,
			provideHealthChecker,
			provideHealthServer,
		),
		fx.Invoke(
			registerLogger,
			registerTelemetry,
			startHTTPServer,
			startHealthServer,
		),
	)

	app.Run()
}

func registerLogger(lifeCycle fx.Lifecycle, cfg config.OrderConfig) error {
	if err := zapLogger.Init(cfg.LogLevel, cfg.LogFormat == "json"); err != nil {
		return err
	}
	zapLogger.SetLevel(cfg.LogLevel)

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = zapLogger.Sync()

			return nil
		},
	})

	return nil
}

func registerTelemetry(ctx context.Context, lifeCycle fx.Lifecycle, cfg config.OrderConfig) error {
	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry.Setup: %w", err)
	}

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return shutdown(ctx)
		},
	})

	return nil
}

// provideDBPool returns a nil pool for the memory driver.
func provideDBPool(
	ctx context.Context,
	lifeCycle fx.Lifecycle,
	cfg config.OrderConfig,
) (*pgxpool.Pool, error) {
	if cfg.Storage != config.StoragePostgres {
		return nil, nil
	}

	pool, err := db.SetupDB(ctx, cfg.DBURI, db.PoolOptions{
		MaxConns:        cfg.DB.MaxConns,
		MinConns:        cfg.DB.MinConns,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	}, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("db.SetupDB: %w", err)
	}

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func provideContainer(
	lifeCycle fx.Lifecycle,
	pool *pgxpool.Pool,
	cfg config.OrderConfig,
) *DiContainer {
	container := NewDIContainer(pool, cfg)

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return container.Close()
		},
	})

	return container
}

func provideHTTPServer(
	lifeCycle fx.Lifecycle,
	container *DiContainer,
	cfg config.OrderConfig,
) (*http.Server, error) {
	service, err := container.OrderService()
	if err != nil {
		return nil, fmt.Errorf("container.OrderService: %w", err)
	}

	server := httpServer.NewServer(
		cfg.HTTPAddress,
		httpServer.NewHandler(service, container.Registry(), cfg.RateLimiter),
	)

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})

	return server, nil
}

func provideHealthChecker(lifeCycle fx.Lifecycle, container *DiContainer) *health.Checker {
	checker := health.NewChecker(container.Pingers(), healthProbeTimeout)
	probeCtx, cancel := context.WithCancel(context.Background())

	lifeCycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go checker.Run(probeCtx, healthProbeInterval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})

	return checker
}

func provideHealthServer(lifeCycle fx.Lifecycle, checker *health.Checker) *grpc.Server {
	server := health.NewServer(checker)

	lifeCycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			server.GracefulStop()
			return nil
		},
	})

	return server
}

func startHTTPServer(lifeCycle fx.Lifecycle, server *http.Server) {
	lifeCycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listener, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("net.Listen: %w", err)
			}

			zapLogger.Info(ctx, fmt.Sprintf("Starting HTTP order server on %s", listener.Addr()))
			go func() {
				if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					zapLogger.Error(context.Background(), "HTTP order server error", zap.Error(err))
				}
			}()

			return nil
		},
	})
}

func startHealthServer(lifeCycle fx.Lifecycle, server *grpc.Server, cfg config.OrderConfig) {
	lifeCycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listener, err := net.Listen("tcp", cfg.HealthAddress)
			if err != nil {
				return fmt.Errorf("net.Listen: %w", err)
			}

			go health.Serve(context.Background(), server, listener)

			return nil
		},
	})
}
