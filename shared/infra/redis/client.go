package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

type Logger interface {
	Error(ctx context.Context, message string, fields ...zap.Field)
}

type Client interface {
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

type client struct {
	rdb              goredis.UniversalClient
	logger           Logger
	operationTimeout time.Duration
}

type Options struct {
	Address          string
	Password         string
	DB               int
	OperationTimeout time.Duration
}

func NewClient(options Options, logger Logger) *client {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         options.Address,
		Password:     options.Password,
		DB:           options.DB,
		DialTimeout:  options.OperationTimeout,
		ReadTimeout:  options.OperationTimeout,
		WriteTimeout: options.OperationTimeout,
	})

	return Wrap(rdb, logger, options.OperationTimeout)
}

// Wrap adapts an existing go-redis client, which lets tests point at miniature servers.
func Wrap(rdb goredis.UniversalClient, logger Logger, operationTimeout time.Duration) *client {
	if operationTimeout <= 0 {
		operationTimeout = time.Second
	}

	return &client{
		rdb:              rdb,
		logger:           logger,
		operationTimeout: operationTimeout,
	}
}

func (c *client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.operationTimeout)
}

func (c *client) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.logged(ctx, "SET", c.rdb.Set(opCtx, key, value, ttl).Err())
}

func (c *client) Get(ctx context.Context, key string) ([]byte, error) {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	value, err := c.rdb.Get(opCtx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, c.logged(ctx, "GET", err)
	}

	return value, nil
}

func (c *client) Incr(ctx context.Context, key string) (int64, error) {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	count, err := c.rdb.Incr(opCtx, key).Result()
	if err != nil {
		return 0, c.logged(ctx, "INCR", err)
	}

	return count, nil
}

func (c *client) Expire(ctx context.Context, key string, expiration time.Duration) error {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.logged(ctx, "EXPIRE", c.rdb.Expire(opCtx, key, expiration).Err())
}

func (c *client) Ping(ctx context.Context) error {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.logged(ctx, "PING", c.rdb.Ping(opCtx).Err())
}

func (c *client) Close() error {
	return c.rdb.Close()
}

func (c *client) logged(ctx context.Context, command string, err error) error {
	if err != nil && c.logger != nil {
		c.logger.Error(ctx, "redis command failed",
			zap.String("command", command),
			zap.Error(err),
		)
	}

	return err
}
