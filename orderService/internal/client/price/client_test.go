package price

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/shared/config"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

type countingSource struct {
	calls int
	price decimal.Decimal
	err   error
}

func (s *countingSource) ReferencePrice(context.Context, string, models.Exchange) (decimal.Decimal, error) {
	s.calls++
	return s.price, s.err
}

type mapCache struct {
	prices map[string]decimal.Decimal
}

func (c *mapCache) Get(_ context.Context, symbol string, _ models.Exchange) (decimal.Decimal, error) {
	price, ok := c.prices[symbol]
	if !ok {
		return decimal.Decimal{}, repositoryErrors.ErrPriceCacheMiss
	}
	return price, nil
}

func (c *mapCache) Set(_ context.Context, symbol string, _ models.Exchange, price decimal.Decimal) error {
	c.prices[symbol] = price
	return nil
}

var breakerConfig = config.CircuitBreakerConfig{
	MaxRequests: 1,
	Interval:    time.Minute,
	Timeout:     time.Minute,
	MaxFailures: 2,
}

func TestClientReadsThroughCache(t *testing.T) {
	zapLogger.SetNopLogger()
	source := &countingSource{price: decimal.RequireFromString("1500")}
	cache := &mapCache{prices: map[string]decimal.Decimal{}}
	client := New(source, cache, breakerConfig)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		price, err := client.ReferencePrice(ctx, "INFY", models.ExchangeNSE)
		require.NoError(t, err)
		assert.Equal(t, "1500", price.String())
	}

	assert.Equal(t, 1, source.calls)
	assert.Contains(t, cache.prices, "INFY")
}

func TestClientOpensBreakerOnOutage(t *testing.T) {
	zapLogger.SetNopLogger()
	source := &countingSource{err: errors.New("connection refused")}
	client := New(source, nil, breakerConfig)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.ReferencePrice(ctx, "INFY", models.ExchangeNSE)
		require.Error(t, err)
	}

	_, err := client.ReferencePrice(ctx, "INFY", models.ExchangeNSE)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, source.calls)
}

func TestClientUnknownSymbolKeepsBreakerClosed(t *testing.T) {
	zapLogger.SetNopLogger()
	client := New(NewStaticSource(map[string]decimal.Decimal{}), nil, breakerConfig)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := client.ReferencePrice(ctx, "NOPE", models.ExchangeNSE)
		assert.ErrorIs(t, err, repositoryErrors.ErrInstrumentNotFound)
	}
}

func TestStaticSource(t *testing.T) {
	source := NewStaticSource(map[string]decimal.Decimal{"TCS": decimal.RequireFromString("3400")})

	price, err := source.ReferencePrice(context.Background(), "TCS", models.ExchangeBSE)
	require.NoError(t, err)
	assert.Equal(t, "3400", price.String())
}
