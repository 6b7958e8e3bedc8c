package order

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/orderService/internal/charges"
	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	"github.com/nastyazhadan/order-settlement/orderService/internal/storage/memory"
	"github.com/nastyazhadan/order-settlement/shared/infra/db"
)

// conflictingTransactor replays fn like db.TxManager and makes the next
// `conflicts` funds lookups fail with a serialization error once armed.
type conflictingTransactor struct {
	store     *memory.Store
	attempts  int
	conflicts atomic.Int32
	runs      atomic.Int32
}

func (c *conflictingTransactor) InTransaction(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) error {
	var err error
	for attempt := 0; attempt < c.attempts; attempt++ {
		c.runs.Add(1)
		err = c.store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
			return fn(ctx, conflictingUnit{UnitOfWork: uow, owner: c})
		})
		if err == nil || !db.IsRetryable(err) {
			return err
		}
	}

	return err
}

type conflictingUnit struct {
	repository.UnitOfWork
	owner *conflictingTransactor
}

func (u conflictingUnit) Funds() repository.FundsRepository {
	return conflictingFunds{FundsRepository: u.UnitOfWork.Funds(), owner: u.owner}
}

type conflictingFunds struct {
	repository.FundsRepository
	owner *conflictingTransactor
}

func (r conflictingFunds) GetFundsForUpdate(ctx context.Context, userID uuid.UUID) (models.UserFunds, error) {
	if r.owner.conflicts.Add(-1) >= 0 {
		return models.UserFunds{}, &pgconn.PgError{
			Code:    "40001",
			Message: "could not serialize access due to concurrent update",
		}
	}

	return r.FundsRepository.GetFundsForUpdate(ctx, userID)
}

func newConflictFixture(t *testing.T, attempts int) (*Service, *conflictingTransactor) {
	t.Helper()

	f := newFixture(t)
	transactor := &conflictingTransactor{store: f.store, attempts: attempts}
	service := NewService(transactor, charges.NewEngine(charges.Options{}), f.prices, f.notifier, f.limiter, nil, Timeouts{Notify: time.Second})

	return service, transactor
}

func TestExecuteOrderAbortsOnFundsConflict(t *testing.T) {
	service, transactor := newConflictFixture(t, 1)
	ctx := context.Background()
	userID := uuid.New()

	_, err := service.DepositFunds(ctx, userID, dec("10000"))
	require.NoError(t, err)
	created, err := service.CreateInstantOrder(ctx, instantRequest(userID, 10, "100", models.ProductDelivery))
	require.NoError(t, err)
	orderID := created.View.Order.ID

	transactor.conflicts.Store(1)
	_, err = service.ExecuteOrder(ctx, orderID, executeAt("100"))
	require.Error(t, err)
	assert.True(t, db.IsRetryable(err), "conflict must reach the transaction manager: %v", err)

	view, err := service.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusQueued, view.Order.Status)
	assertDecimal(t, "0", view.Order.TotalCharges)

	err = transactor.store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		failures, err := uow.Charges().ListChargeFailures(ctx, orderID)
		require.NoError(t, err)
		assert.Empty(t, failures)
		return nil
	})
	require.NoError(t, err)

	funds, err := service.GetFunds(ctx, userID)
	require.NoError(t, err)
	assertDecimal(t, "10000", funds.Total)
}

func TestExecuteOrderReplaysAfterFundsConflict(t *testing.T) {
	service, transactor := newConflictFixture(t, 3)
	ctx := context.Background()
	userID := uuid.New()

	_, err := service.DepositFunds(ctx, userID, dec("10000"))
	require.NoError(t, err)
	created, err := service.CreateInstantOrder(ctx, instantRequest(userID, 10, "100", models.ProductDelivery))
	require.NoError(t, err)
	orderID := created.View.Order.ID

	transactor.runs.Store(0)
	transactor.conflicts.Store(1)
	result, err := service.ExecuteOrder(ctx, orderID, executeAt("100"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), transactor.runs.Load())

	require.True(t, result.Charges.Posted())
	assert.Empty(t, result.Charges.Warning)
	assertDecimal(t, "7.09", result.View.Order.TotalCharges)

	report, err := service.GetOrderCharges(ctx, orderID)
	require.NoError(t, err)
	assert.Empty(t, report.Failures)
	assertDecimal(t, "7.09", report.Total)

	funds, err := service.GetFunds(ctx, userID)
	require.NoError(t, err)
	assertDecimal(t, "9992.91", funds.Total)
}

func TestIcebergLegAbortsOnFundsConflict(t *testing.T) {
	service, transactor := newConflictFixture(t, 1)
	ctx := context.Background()
	userID := uuid.New()

	_, err := service.DepositFunds(ctx, userID, dec("10000"))
	require.NoError(t, err)
	created, err := service.CreateIcebergOrder(ctx, icebergRequest(userID, 30, 3))
	require.NoError(t, err)
	orderID := created.View.Order.ID

	_, err = service.ExecuteOrder(ctx, orderID, executeAt("100"))
	require.NoError(t, err)

	transactor.conflicts.Store(1)
	_, err = service.ExecuteNextIcebergLeg(ctx, orderID, executeAt("100"))
	require.Error(t, err)
	assert.True(t, db.IsRetryable(err))

	view, err := service.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.LegStatusQueued, view.Legs[1].Status)
}
