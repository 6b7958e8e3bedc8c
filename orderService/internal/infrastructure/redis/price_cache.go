package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
	redisClient "github.com/nastyazhadan/order-settlement/shared/infra/redis"
)

const priceKeyPrefix = "price:last:"

type PriceCache struct {
	client redisClient.Client
	ttl    time.Duration
}

func NewPriceCache(client redisClient.Client, ttl time.Duration) *PriceCache {
	return &PriceCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *PriceCache) Get(ctx context.Context, symbol string, exchange models.Exchange) (decimal.Decimal, error) {
	const op = "PriceCache.Get"

	data, err := c.client.Get(ctx, priceKey(symbol, exchange))
	if err != nil {
		if errors.Is(err, redisClient.ErrCacheMiss) {
			return decimal.Decimal{}, repositoryErrors.ErrPriceCacheMiss
		}

		return decimal.Decimal{}, fmt.Errorf("%s: %w", op, err)
	}

	price, err := decimal.NewFromString(string(data))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: corrupt entry: %w", op, err)
	}

	return price, nil
}

func (c *PriceCache) Set(ctx context.Context, symbol string, exchange models.Exchange, price decimal.Decimal) error {
	const op = "PriceCache.Set"

	if err := c.client.SetWithTTL(ctx, priceKey(symbol, exchange), price.String(), c.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func priceKey(symbol string, exchange models.Exchange) string {
	return priceKeyPrefix + string(exchange) + ":" + strings.ToUpper(symbol)
}
