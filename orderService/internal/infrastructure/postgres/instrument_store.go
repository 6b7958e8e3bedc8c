package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
)

type InstrumentStore struct {
	pool *pgxpool.Pool
}

func NewInstrumentStore(pool *pgxpool.Pool) *InstrumentStore {
	return &InstrumentStore{
		pool: pool,
	}
}

func (s *InstrumentStore) ReferencePrice(ctx context.Context, symbol string, exchange models.Exchange) (decimal.Decimal, error) {
	const op = "postgres.InstrumentStore.ReferencePrice"

	var price decimal.Decimal
	err := s.pool.QueryRow(ctx,
		`SELECT last_price FROM instruments WHERE symbol = $1 AND exchange = $2`,
		symbol,
		string(exchange),
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, fmt.Errorf("%s: %s/%s: %w", op, exchange, symbol, repositoryErrors.ErrInstrumentNotFound)
		}

		return decimal.Decimal{}, fmt.Errorf("%s: scan: %w", op, err)
	}

	return price, nil
}

func (s *InstrumentStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
