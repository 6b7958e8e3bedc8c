package price

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/shared/config"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

type Source interface {
	ReferencePrice(ctx context.Context, symbol string, exchange models.Exchange) (decimal.Decimal, error)
}

type Cache interface {
	Get(ctx context.Context, symbol string, exchange models.Exchange) (decimal.Decimal, error)
	Set(ctx context.Context, symbol string, exchange models.Exchange, price decimal.Decimal) error
}

// Client reads through an optional cache into a source guarded by a circuit breaker.
type Client struct {
	source         Source
	cache          Cache
	circuitBreaker *gobreaker.CircuitBreaker[decimal.Decimal]
}

func New(source Source, cache Cache, cfg config.CircuitBreakerConfig) *Client {
	circuitBreaker := gobreaker.NewCircuitBreaker[decimal.Decimal](gobreaker.Settings{
		Name:        "priceSource",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// An unknown symbol is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, repositoryErrors.ErrInstrumentNotFound)
		},
	})

	return &Client{
		source:         source,
		cache:          cache,
		circuitBreaker: circuitBreaker,
	}
}

func (c *Client) ReferencePrice(ctx context.Context, symbol string, exchange models.Exchange) (decimal.Decimal, error) {
	if c.cache != nil {
		price, err := c.cache.Get(ctx, symbol, exchange)
		if err == nil {
			return price, nil
		}
		if !errors.Is(err, repositoryErrors.ErrPriceCacheMiss) {
			zapLogger.Warn(ctx, "price cache read failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	price, err := c.circuitBreaker.Execute(func() (decimal.Decimal, error) {
		return c.source.ReferencePrice(ctx, symbol, exchange)
	})
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("circuit breaker: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, symbol, exchange, price); err != nil {
			zapLogger.Warn(ctx, "price cache write failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	return price, nil
}

// StaticSource serves fixed prices regardless of exchange.
type StaticSource struct {
	prices map[string]decimal.Decimal
}

func NewStaticSource(prices map[string]decimal.Decimal) *StaticSource {
	return &StaticSource{prices: prices}
}

func (s *StaticSource) ReferencePrice(_ context.Context, symbol string, exchange models.Exchange) (decimal.Decimal, error) {
	price, ok := s.prices[symbol]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%s/%s: %w", exchange, symbol, repositoryErrors.ErrInstrumentNotFound)
	}

	return price, nil
}
