package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
)

func TestRejectOrderReversesChargesAndReleasesMargin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.deposit(t, userID, "10000")

	created, err := f.service.CreateInstantOrder(ctx, instantRequest(userID, 10, "100", models.ProductDelivery))
	require.NoError(t, err)
	orderID := created.View.Order.ID

	f.seedCharges(t, orderID, "12.50")
	before := f.funds(t, userID)
	assertDecimal(t, "9987.5", before.Total)

	result, err := f.service.RejectOrder(ctx, orderID, models.RejectRequest{Reason: "price band breached", Actor: "risk"})
	require.NoError(t, err)

	order := result.View.Order
	assert.Equal(t, models.StatusRejected, order.Status)
	require.NotNil(t, order.RejectionReason)
	assert.Equal(t, "price band breached", *order.RejectionReason)
	assertDecimal(t, "0", order.TotalCharges)
	assertDecimal(t, "1000", result.ReleasedMargin)
	assertDecimal(t, "12.5", result.RefundedCharges)

	funds := f.funds(t, userID)
	assertDecimal(t, "10000", funds.Total)
	assertDecimal(t, "10000", funds.Available)
	assertDecimal(t, "0", funds.Used)

	err = f.store.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		rows, err := uow.Charges().ListCharges(ctx, orderID)
		require.NoError(t, err)
		assert.Empty(t, rows)
		return nil
	})
	require.NoError(t, err)

	history, err := f.service.GetOrderHistory(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.StatusRejected, history[1].NewStatus)
	assert.Equal(t, "price band breached", history[1].Remark)
	assert.Equal(t, "risk", history[1].Actor)

	assert.Contains(t, f.eventTypes(), models.EventOrderRejected)
}

func TestRejectOrderRequiresReason(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.RejectOrder(context.Background(), uuid.New(), models.RejectRequest{Reason: "   "})
	assert.ErrorIs(t, err, serviceErrors.ErrValidation)
}

func TestRejectIcebergCascadesToOpenLegs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.deposit(t, userID, "10000")

	created, err := f.service.CreateIcebergOrder(ctx, icebergRequest(userID, 100, 3))
	require.NoError(t, err)

	result, err := f.service.RejectOrder(ctx, created.View.Order.ID, models.RejectRequest{Reason: "exchange halt"})
	require.NoError(t, err)
	assertLegStatuses(t, result.View.Legs, models.LegStatusRejected, models.LegStatusRejected, models.LegStatusRejected)
	assert.False(t, result.View.Iceberg.HasMoreLegs)

	stored := f.view(t, created.View.Order.ID)
	assertLegStatuses(t, stored.Legs, models.LegStatusRejected, models.LegStatusRejected, models.LegStatusRejected)

	_, err = f.service.ExecuteNextIcebergLeg(ctx, created.View.Order.ID, executeAt("100"))
	assert.ErrorIs(t, err, serviceErrors.ErrInvalidState)
}

func TestRejectCoverClosesBothLegs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.deposit(t, userID, "5000")

	created, err := f.service.CreateCoverOrder(ctx, coverRequest(userID, models.SideSell, "100", "105"))
	require.NoError(t, err)

	result, err := f.service.RejectOrder(ctx, created.View.Order.ID, models.RejectRequest{Reason: "margin call"})
	require.NoError(t, err)
	require.NotNil(t, result.View.Cover)
	assert.Equal(t, models.LegStatusRejected, result.View.Cover.MainOrderStatus)
	assert.Equal(t, models.LegStatusRejected, result.View.Cover.StopLossOrderStatus)

	_, err = f.service.ExecuteStopLoss(ctx, created.View.Order.ID, executeAt("105"))
	assert.ErrorIs(t, err, serviceErrors.ErrInvalidState)
}

func TestCancelOrderReleasesFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.deposit(t, userID, "3000")

	created, err := f.service.CreateCoverOrder(ctx, coverRequest(userID, models.SideBuy, "100", "95"))
	require.NoError(t, err)
	orderID := created.View.Order.ID
	assertDecimal(t, "1000", f.funds(t, userID).Available)

	result, err := f.service.CancelOrder(ctx, orderID, models.CancelRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, result.View.Order.Status)
	assert.NotNil(t, result.View.Order.CancelledAt)
	assert.Equal(t, models.LegStatusCancelled, result.View.Cover.MainOrderStatus)
	assert.Equal(t, models.LegStatusCancelled, result.View.Cover.StopLossOrderStatus)
	assertDecimal(t, "2000", result.ReleasedMargin)
	assertDecimal(t, "0", result.RefundedCharges)

	funds := f.funds(t, userID)
	assertDecimal(t, "3000", funds.Available)
	assertDecimal(t, "0", funds.Used)

	history, err := f.service.GetOrderHistory(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "order cancelled", history[1].Remark)

	_, err = f.service.CancelOrder(ctx, orderID, models.CancelRequest{})
	require.ErrorIs(t, err, serviceErrors.ErrInvalidState)
	assert.Contains(t, err.Error(), "current status is CANCELLED")
}

func TestCancelIcebergStampsLegs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.deposit(t, userID, "10000")

	created, err := f.service.CreateIcebergOrder(ctx, icebergRequest(userID, 10, 2))
	require.NoError(t, err)

	result, err := f.service.CancelOrder(ctx, created.View.Order.ID, models.CancelRequest{Remarks: "user request"})
	require.NoError(t, err)
	for _, leg := range result.View.Legs {
		assert.Equal(t, models.LegStatusCancelled, leg.Status)
		assert.NotNil(t, leg.CancelledAt)
	}
}

func TestTerminateExecutedOrderFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.deposit(t, userID, "1000")

	created, err := f.service.CreateInstantOrder(ctx, instantRequest(userID, 1, "10", models.ProductDelivery))
	require.NoError(t, err)
	orderID := created.View.Order.ID

	_, err = f.service.ExecuteOrder(ctx, orderID, executeAt("10"))
	require.NoError(t, err)
	charged := f.funds(t, userID)

	_, err = f.service.RejectOrder(ctx, orderID, models.RejectRequest{Reason: "late"})
	require.ErrorIs(t, err, serviceErrors.ErrInvalidState)
	assert.Contains(t, err.Error(), "cannot reject order: current status is EXECUTED")

	_, err = f.service.CancelOrder(ctx, orderID, models.CancelRequest{})
	require.ErrorIs(t, err, serviceErrors.ErrInvalidState)

	after := f.funds(t, userID)
	assert.True(t, charged.Total.Equal(after.Total))
	assert.True(t, charged.Available.Equal(after.Available))

	_, err = f.service.CancelOrder(ctx, uuid.New(), models.CancelRequest{})
	assert.ErrorIs(t, err, serviceErrors.ErrOrderNotFound)
}
