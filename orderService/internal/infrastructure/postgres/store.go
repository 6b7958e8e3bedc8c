package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
)

const (
	uniqueViolation = "23505"
)

type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// Store hands every transaction a unit of work whose repositories share one pgx.Tx.
type Store struct {
	txManager TxRunner
}

func NewStore(txManager TxRunner) *Store {
	return &Store{
		txManager: txManager,
	}
}

func (s *Store) InTransaction(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) error {
	return s.txManager.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &unitOfWork{tx: tx})
	})
}

type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) Orders() repository.OrderRepository     { return orderRepository{tx: u.tx} }
func (u *unitOfWork) Icebergs() repository.IcebergRepository { return icebergRepository{tx: u.tx} }
func (u *unitOfWork) Covers() repository.CoverRepository     { return coverRepository{tx: u.tx} }
func (u *unitOfWork) Funds() repository.FundsRepository      { return fundsRepository{tx: u.tx} }
func (u *unitOfWork) Charges() repository.ChargeRepository   { return chargeRepository{tx: u.tx} }
func (u *unitOfWork) History() repository.HistoryRepository  { return historyRepository{tx: u.tx} }
func (u *unitOfWork) Attempts() repository.AttemptRepository { return attemptRepository{tx: u.tx} }

func (u *unitOfWork) Savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	const op = "postgres.unitOfWork.Savepoint"

	nested, err := u.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	if err := fn(ctx); err != nil {
		if rbErr := nested.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%s: rollback: %w", op, errors.Join(err, rbErr))
		}
		return err
	}

	if err := nested.Commit(ctx); err != nil {
		return fmt.Errorf("%s: release: %w", op, err)
	}

	return nil
}

func isDuplicateKey(err error) bool {
	var postgresErr *pgconn.PgError

	if errors.As(err, &postgresErr) {
		return postgresErr.Code == uniqueViolation
	}

	return false
}
