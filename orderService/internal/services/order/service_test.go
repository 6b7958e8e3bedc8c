package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/orderService/internal/charges"
	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	"github.com/nastyazhadan/order-settlement/orderService/internal/services/mocks"
	"github.com/nastyazhadan/order-settlement/orderService/internal/storage/memory"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

type fixture struct {
	service  *Service
	store    *memory.Store
	prices   *mocks.MockPriceSource
	notifier *mocks.MockNotifier
	limiter  *mocks.MockRateLimiter

	mu     sync.Mutex
	events []models.Event
}

// newFixture wires a service over the memory store with the real charges
// engine; every notification is recorded and every rate limit check passes.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := newBareFixture(t)
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true, nil).Maybe()
	f.recordNotifications(nil)

	return f
}

func newBareFixture(t *testing.T) *fixture {
	t.Helper()
	zapLogger.SetNopLogger()

	f := &fixture{
		store:    memory.NewStore(),
		prices:   mocks.NewMockPriceSource(t),
		notifier: mocks.NewMockNotifier(t),
		limiter:  mocks.NewMockRateLimiter(t),
	}
	f.service = NewService(f.store, charges.NewEngine(charges.Options{}), f.prices, f.notifier, f.limiter, nil, Timeouts{Notify: time.Second})
	fixed := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	f.service.now = func() time.Time { return fixed }

	return f
}

func (f *fixture) recordNotifications(result error) {
	f.notifier.On("Notify", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, args.Get(1).(models.Event))
		}).
		Return(result).
		Maybe()
}

func (f *fixture) eventTypes() []models.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()

	types := make([]models.EventType, 0, len(f.events))
	for _, event := range f.events {
		types = append(types, event.Type())
	}
	return types
}

func (f *fixture) deposit(t *testing.T, userID uuid.UUID, amount string) {
	t.Helper()

	_, err := f.service.DepositFunds(context.Background(), userID, dec(amount))
	require.NoError(t, err)
}

func (f *fixture) funds(t *testing.T, userID uuid.UUID) models.UserFunds {
	t.Helper()

	funds, err := f.service.GetFunds(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, funds.Balanced(), "funds out of balance: %+v", funds)
	return funds
}

func (f *fixture) view(t *testing.T, orderID uuid.UUID) models.OrderView {
	t.Helper()

	view, err := f.service.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	return view
}

// seedCharges posts charge rows against a still queued order, as a partially
// applied posting would leave them.
func (f *fixture) seedCharges(t *testing.T, orderID uuid.UUID, amount string) {
	t.Helper()

	err := f.store.InTransaction(context.Background(), func(ctx context.Context, uow repository.UnitOfWork) error {
		order, err := uow.Orders().GetOrderForUpdate(ctx, orderID)
		require.NoError(t, err)

		charge := models.Charge{
			ID:        uuid.New(),
			OrderID:   orderID,
			Scope:     models.ChargeScopeOrder,
			Type:      models.ChargeBrokerage,
			Amount:    dec(amount),
			CreatedAt: order.PlacedAt,
		}
		require.NoError(t, uow.Charges().SaveCharges(ctx, []models.Charge{charge}))

		funds, err := uow.Funds().GetFundsForUpdate(ctx, order.UserID)
		require.NoError(t, err)
		funds.DebitCharges(charge.Amount)
		require.NoError(t, uow.Funds().SaveFunds(ctx, funds))

		order.TotalCharges = order.TotalCharges.Add(charge.Amount)
		return uow.Orders().UpdateOrder(ctx, order)
	})
	require.NoError(t, err)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), append([]any{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func instantRequest(userID uuid.UUID, quantity int64, price string, product models.ProductType) models.InstantOrderRequest {
	return models.InstantOrderRequest{
		PlacementRequest: models.PlacementRequest{
			UserID:   userID,
			Symbol:   "INFY",
			Side:     models.SideBuy,
			Quantity: quantity,
			Price:    decPtr(price),
		},
		ProductType: product,
		OrderType:   models.OrderTypeLimit,
	}
}

func icebergRequest(userID uuid.UUID, quantity int64, legs int32) models.IcebergOrderRequest {
	return models.IcebergOrderRequest{
		PlacementRequest: models.PlacementRequest{
			UserID:   userID,
			Symbol:   "TCS",
			Side:     models.SideBuy,
			Quantity: quantity,
			Price:    decPtr("100"),
		},
		NumberOfLegs:      legs,
		ProductType:       models.ProductDelivery,
		OrderType:         models.OrderTypeLimit,
		DisclosedQuantity: 10,
	}
}

func coverRequest(userID uuid.UUID, side models.Side, price, stopLoss string) models.CoverOrderRequest {
	return models.CoverOrderRequest{
		PlacementRequest: models.PlacementRequest{
			UserID:   userID,
			Symbol:   "SBIN",
			Side:     side,
			Quantity: 100,
			Price:    decPtr(price),
		},
		OrderType:     models.OrderTypeLimit,
		StopLossPrice: dec(stopLoss),
	}
}

func executeAt(price string) models.ExecuteRequest {
	return models.ExecuteRequest{ExecutionPrice: dec(price)}
}
