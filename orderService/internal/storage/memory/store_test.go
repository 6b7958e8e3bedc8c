package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
)

func newOrder() models.Order {
	now := time.Now().UTC()
	return models.Order{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Symbol:    "INFY",
		Exchange:  models.ExchangeNSE,
		Side:      models.SideBuy,
		Quantity:  10,
		Category:  models.CategoryInstant,
		Status:    models.StatusQueued,
		PlacedAt:  now,
		UpdatedAt: now,
	}
}

func TestInTransactionRollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	order := newOrder()
	failure := errors.New("boom")

	err := store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		require.NoError(t, uow.Orders().CreateOrder(ctx, order))
		return failure
	})
	require.ErrorIs(t, err, failure)

	err = store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		_, err := uow.Orders().GetOrder(ctx, order.ID)
		return err
	})
	assert.ErrorIs(t, err, repositoryErrors.ErrOrderNotFound)
}

func TestSavepointKeepsOuterWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	order := newOrder()

	err := store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		require.NoError(t, uow.Orders().CreateOrder(ctx, order))

		spErr := uow.Savepoint(ctx, func(ctx context.Context) error {
			require.NoError(t, uow.Charges().SaveCharges(ctx, []models.Charge{{ID: uuid.New(), OrderID: order.ID}}))
			require.NoError(t, uow.Funds().SaveFunds(ctx, models.UserFunds{UserID: order.UserID, Total: decimal.NewFromInt(1)}))
			return errors.New("posting failed")
		})
		require.Error(t, spErr)

		charges, err := uow.Charges().ListCharges(ctx, order.ID)
		require.NoError(t, err)
		assert.Empty(t, charges)

		_, err = uow.Funds().GetFundsForUpdate(ctx, order.UserID)
		assert.ErrorIs(t, err, repositoryErrors.ErrFundsNotFound)
		return nil
	})
	require.NoError(t, err)

	err = store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		stored, err := uow.Orders().GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, stored.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateOrderRejectsDuplicate(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	order := newOrder()

	err := store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		require.NoError(t, uow.Orders().CreateOrder(ctx, order))
		return uow.Orders().CreateOrder(ctx, order)
	})
	assert.ErrorIs(t, err, repositoryErrors.ErrOrderAlreadyExists)
}

func TestListLegsOrderedByNumber(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	orderID := uuid.New()
	legs := models.SplitLegs(orderID, 100, 3)
	reversed := []models.IcebergLeg{legs[2], legs[0], legs[1]}

	err := store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		require.NoError(t, uow.Icebergs().SaveLegs(ctx, reversed))

		stored, err := uow.Icebergs().ListLegs(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, stored, 3)
		for i, leg := range stored {
			assert.Equal(t, int32(i+1), leg.LegNumber)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestListOrdersFiltersByUserAndStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := newOrder()
	second := newOrder()
	second.UserID = first.UserID
	second.PlacedAt = first.PlacedAt.Add(time.Minute)
	second.Status = models.StatusExecuted
	other := newOrder()

	err := store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		for _, order := range []models.Order{first, second, other} {
			require.NoError(t, uow.Orders().CreateOrder(ctx, order))
		}

		all, err := uow.Orders().ListOrders(ctx, first.UserID, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)

		queued := models.StatusQueued
		filtered, err := uow.Orders().ListOrders(ctx, first.UserID, &queued)
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, first.ID, filtered[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestInTransactionHonoursCancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.InTransaction(ctx, func(context.Context, repository.UnitOfWork) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
