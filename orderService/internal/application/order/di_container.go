package order

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nastyazhadan/order-settlement/orderService/internal/charges"
	"github.com/nastyazhadan/order-settlement/orderService/internal/client/price"
	"github.com/nastyazhadan/order-settlement/orderService/internal/infrastructure/kafka"
	repoPostgres "github.com/nastyazhadan/order-settlement/orderService/internal/infrastructure/postgres"
	repoRedis "github.com/nastyazhadan/order-settlement/orderService/internal/infrastructure/redis"
	"github.com/nastyazhadan/order-settlement/orderService/internal/metrics"
	svcOrder "github.com/nastyazhadan/order-settlement/orderService/internal/services/order"
	"github.com/nastyazhadan/order-settlement/orderService/internal/storage/memory"
	"github.com/nastyazhadan/order-settlement/shared/config"
	"github.com/nastyazhadan/order-settlement/shared/infra/db"
	"github.com/nastyazhadan/order-settlement/shared/infra/health"
	redisClient "github.com/nastyazhadan/order-settlement/shared/infra/redis"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

// DiContainer builds the object graph lazily. dbPool is nil for the memory driver.
type DiContainer struct {
	dbPool      *pgxpool.Pool
	orderConfig config.OrderConfig

	transactor     svcOrder.Transactor
	transactorOnce sync.Once
	transactorErr  error

	redisClient     redisClient.Client
	redisClientOnce sync.Once

	createRateLimiter     svcOrder.RateLimiter
	createRateLimiterOnce sync.Once

	priceSource     svcOrder.PriceSource
	priceSourceOnce sync.Once
	priceSourceErr  error

	notifier      svcOrder.Notifier
	kafkaNotifier *kafka.Notifier
	notifierOnce  sync.Once
	notifierErr   error

	registry    *prometheus.Registry
	metrics     *metrics.Metrics
	metricsOnce sync.Once

	orderService *svcOrder.Service
	serviceOnce  sync.Once
	serviceErr   error
}

func NewDIContainer(dbPool *pgxpool.Pool, orderConfig config.OrderConfig) *DiContainer {
	if orderConfig.Storage == config.StoragePostgres && dbPool == nil {
		panic("dbPool is nil")
	}

	return &DiContainer{
		dbPool:      dbPool,
		orderConfig: orderConfig,
	}
}

func (d *DiContainer) Transactor() (svcOrder.Transactor, error) {
	d.transactorOnce.Do(func() {
		if d.orderConfig.Storage == config.StorageMemory {
			d.transactor = memory.NewStore()
			return
		}

		txManager, err := db.NewTxManager(d.dbPool, d.orderConfig.TxRetries)
		if err != nil {
			d.transactorErr = fmt.Errorf("db.NewTxManager: %w", err)
			return
		}
		d.transactor = repoPostgres.NewStore(txManager)
	})

	return d.transactor, d.transactorErr
}

// RedisClient returns nil when Redis is disabled.
func (d *DiContainer) RedisClient() redisClient.Client {
	d.redisClientOnce.Do(func() {
		if !d.orderConfig.Redis.Enabled {
			return
		}

		d.redisClient = redisClient.NewClient(redisClient.Options{
			Address:          d.orderConfig.Redis.Address(),
			Password:         d.orderConfig.Redis.Password,
			DB:               d.orderConfig.Redis.DB,
			OperationTimeout: d.orderConfig.Redis.ConnectionTimeout,
		}, zapLogger.Logger())
	})

	return d.redisClient
}

func (d *DiContainer) CreateRateLimiter() svcOrder.RateLimiter {
	d.createRateLimiterOnce.Do(func() {
		client := d.RedisClient()
		if client == nil || d.orderConfig.RateLimiter.CreateOrder <= 0 {
			return
		}

		d.createRateLimiter = repoRedis.NewOrderRateLimiter(
			client,
			int64(d.orderConfig.RateLimiter.CreateOrder),
			d.orderConfig.RateLimiter.Window,
			repoRedis.CreateOrderPrefix,
		)
	})

	return d.createRateLimiter
}

func (d *DiContainer) PriceSource() (svcOrder.PriceSource, error) {
	d.priceSourceOnce.Do(func() {
		var source price.Source
		if d.dbPool != nil {
			source = repoPostgres.NewInstrumentStore(d.dbPool)
		} else {
			prices, err := d.orderConfig.ReferencePrices()
			if err != nil {
				d.priceSourceErr = err
				return
			}
			source = price.NewStaticSource(prices)
		}

		var cache price.Cache
		if client := d.RedisClient(); client != nil {
			cache = repoRedis.NewPriceCache(client, d.orderConfig.Redis.PriceTTL)
		}

		d.priceSource = price.New(source, cache, d.orderConfig.CircuitBreaker)
	})

	return d.priceSource, d.priceSourceErr
}

func (d *DiContainer) Notifier() (svcOrder.Notifier, error) {
	d.notifierOnce.Do(func() {
		if !d.orderConfig.Kafka.Enabled {
			d.notifier = kafka.LogNotifier{}
			return
		}

		producer, err := kafka.NewAsyncProducer(d.orderConfig.Kafka)
		if err != nil {
			d.notifierErr = fmt.Errorf("kafka.NewAsyncProducer: %w", err)
			return
		}

		d.kafkaNotifier = kafka.NewNotifier(producer, d.orderConfig.Kafka.Topic)
		d.notifier = d.kafkaNotifier
	})

	return d.notifier, d.notifierErr
}

// Registry is the Prometheus registry served on /metrics.
func (d *DiContainer) Registry() *prometheus.Registry {
	d.metricsOnce.Do(func() {
		d.registry = prometheus.NewRegistry()
		d.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		d.metrics = metrics.New(d.registry)
	})

	return d.registry
}

func (d *DiContainer) Metrics() *metrics.Metrics {
	d.Registry()
	return d.metrics
}

func (d *DiContainer) OrderService() (*svcOrder.Service, error) {
	d.serviceOnce.Do(func() {
		transactor, err := d.Transactor()
		if err != nil {
			d.serviceErr = err
			return
		}

		prices, err := d.PriceSource()
		if err != nil {
			d.serviceErr = err
			return
		}

		notifier, err := d.Notifier()
		if err != nil {
			d.serviceErr = err
			return
		}

		d.orderService = svcOrder.NewService(
			transactor,
			charges.NewEngine(charges.Options{
				IntradaySTTBothLegs: d.orderConfig.Charges.IntradaySTTBothLegs,
			}),
			prices,
			notifier,
			d.CreateRateLimiter(),
			d.Metrics(),
			svcOrder.Timeouts{
				Create: d.orderConfig.CreateTimeout,
				Notify: d.orderConfig.NotifyTimeout,
			},
		)
	})

	return d.orderService, d.serviceErr
}

// Pingers lists the dependencies reported by the health server.
func (d *DiContainer) Pingers() map[string]health.Pinger {
	pingers := make(map[string]health.Pinger)
	if d.dbPool != nil {
		pingers["postgres"] = health.PingFunc(d.dbPool.Ping)
	}
	if client := d.RedisClient(); client != nil {
		pingers["redis"] = health.PingFunc(client.Ping)
	}

	return pingers
}

// Close releases the clients the container opened. The pool belongs to the caller.
func (d *DiContainer) Close() error {
	var errs []error

	if d.kafkaNotifier != nil {
		if err := d.kafkaNotifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka notifier: %w", err))
		}
	}
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis client: %w", err))
		}
	}

	return errors.Join(errs...)
}
