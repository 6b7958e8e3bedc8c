package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	redisClient "github.com/nastyazhadan/order-settlement/shared/infra/redis"
)

const CreateOrderPrefix = "rate:order:create:"

// OrderRateLimiter is a fixed window counter: the first INCR in a window
// starts its expiry.
type OrderRateLimiter struct {
	client redisClient.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewOrderRateLimiter(
	client redisClient.Client,
	limit int64,
	window time.Duration,
	prefix string,
) *OrderRateLimiter {
	return &OrderRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

func (r *OrderRateLimiter) Allow(ctx context.Context, userID uuid.UUID) (bool, error) {
	const op = "OrderRateLimiter.Allow"

	key := r.prefix + userID.String()

	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}

	return count <= r.limit, nil
}
