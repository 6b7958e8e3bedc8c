package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// TxManager runs callbacks in SERIALIZABLE transactions and replays them
// when Postgres aborts one with a serialization failure or a deadlock.
type TxManager struct {
	pool     *pgxpool.Pool
	attempts int
	options  pgx.TxOptions
}

func NewTxManager(pool *pgxpool.Pool, attempts int) (*TxManager, error) {
	if pool == nil {
		return nil, errors.New("database pool cannot be nil")
	}
	if attempts < 1 {
		attempts = 1
	}

	return &TxManager{
		pool:     pool,
		attempts: attempts,
		options:  pgx.TxOptions{IsoLevel: pgx.Serializable},
	}, nil
}

func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	const op = "db.TxManager.WithTransaction"

	var err error
	for attempt := 1; attempt <= m.attempts; attempt++ {
		err = m.run(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}

		zapLogger.Debug(ctx, "retrying conflicting transaction",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return fmt.Errorf("%s: %w: %w", op, repositoryErrors.ErrSerialization, err)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, m.options)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				zapLogger.Error(ctx, "failed to rollback transaction after panic", zap.Error(rbErr))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			zapLogger.Error(ctx, "failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func IsRetryable(err error) bool {
	var postgresErr *pgconn.PgError
	if errors.As(err, &postgresErr) {
		return postgresErr.Code == serializationFailure || postgresErr.Code == deadlockDetected
	}

	return false
}
