// Package memory keeps orders, funds and charges in process memory behind
// the same unit-of-work contract as the Postgres store. Transactions are
// serialized by one mutex and rolled back by restoring a snapshot.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
)

type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

type state struct {
	orders   map[uuid.UUID]models.Order
	instant  map[uuid.UUID]models.InstantOrderDetail
	normal   map[uuid.UUID]models.NormalOrderDetail
	icebergs map[uuid.UUID]models.IcebergOrderDetail
	legs     map[uuid.UUID][]models.IcebergLeg
	covers   map[uuid.UUID]models.CoverOrderDetail
	funds    map[uuid.UUID]models.UserFunds
	charges  map[uuid.UUID][]models.Charge
	failures map[uuid.UUID][]models.OrderChargeFailure
	history  map[uuid.UUID][]models.OrderHistory
	attempts []models.FailedOrderAttempt
}

func newState() *state {
	return &state{
		orders:   make(map[uuid.UUID]models.Order, 1024),
		instant:  make(map[uuid.UUID]models.InstantOrderDetail),
		normal:   make(map[uuid.UUID]models.NormalOrderDetail),
		icebergs: make(map[uuid.UUID]models.IcebergOrderDetail),
		legs:     make(map[uuid.UUID][]models.IcebergLeg),
		covers:   make(map[uuid.UUID]models.CoverOrderDetail),
		funds:    make(map[uuid.UUID]models.UserFunds),
		charges:  make(map[uuid.UUID][]models.Charge),
		failures: make(map[uuid.UUID][]models.OrderChargeFailure),
		history:  make(map[uuid.UUID][]models.OrderHistory),
	}
}

// clone copies every map and slice; the values themselves are plain structs
// whose pointer fields are never mutated in place.
func (s *state) clone() *state {
	return &state{
		orders:   copyMap(s.orders),
		instant:  copyMap(s.instant),
		normal:   copyMap(s.normal),
		icebergs: copyMap(s.icebergs),
		legs:     copySliceMap(s.legs),
		covers:   copyMap(s.covers),
		funds:    copyMap(s.funds),
		charges:  copySliceMap(s.charges),
		failures: copySliceMap(s.failures),
		history:  copySliceMap(s.history),
		attempts: append([]models.FailedOrderAttempt(nil), s.attempts...),
	}
}

func copyMap[V any](in map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func copySliceMap[V any](in map[uuid.UUID][]V) map[uuid.UUID][]V {
	out := make(map[uuid.UUID][]V, len(in))
	for key, values := range in {
		out[key] = append([]V(nil), values...)
	}
	return out
}

func (s *Store) InTransaction(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) error {
	const op = "storage.Store.InTransaction"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	tx := &unitOfWork{state: s.state}

	if err := fn(ctx, tx); err != nil {
		s.state = snapshot
		return err
	}

	return nil
}

// FailedAttempts returns the audit rows written for refused creations.
func (s *Store) FailedAttempts() []models.FailedOrderAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.FailedOrderAttempt(nil), s.state.attempts...)
}

type unitOfWork struct {
	state *state
}

func (u *unitOfWork) Orders() repository.OrderRepository     { return orderRepository{u} }
func (u *unitOfWork) Icebergs() repository.IcebergRepository { return icebergRepository{u} }
func (u *unitOfWork) Covers() repository.CoverRepository     { return coverRepository{u} }
func (u *unitOfWork) Funds() repository.FundsRepository      { return fundsRepository{u} }
func (u *unitOfWork) Charges() repository.ChargeRepository   { return chargeRepository{u} }
func (u *unitOfWork) History() repository.HistoryRepository  { return historyRepository{u} }
func (u *unitOfWork) Attempts() repository.AttemptRepository { return attemptRepository{u} }

func (u *unitOfWork) Savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := u.state.clone()

	if err := fn(ctx); err != nil {
		*u.state = *snapshot
		return err
	}

	return nil
}

func checkContext(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}
