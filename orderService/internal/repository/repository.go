package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
)

// UnitOfWork hands out repositories bound to one open transaction.
type UnitOfWork interface {
	Orders() OrderRepository
	Icebergs() IcebergRepository
	Covers() CoverRepository
	Funds() FundsRepository
	Charges() ChargeRepository
	History() HistoryRepository
	Attempts() AttemptRepository

	// Savepoint undoes only fn's writes when fn fails; the surrounding transaction stays usable.
	Savepoint(ctx context.Context, fn func(ctx context.Context) error) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (models.Order, error)
	UpdateOrder(ctx context.Context, order models.Order) error
	ListOrders(ctx context.Context, userID uuid.UUID, status *models.Status) ([]models.Order, error)

	SaveInstantDetail(ctx context.Context, detail models.InstantOrderDetail) error
	GetInstantDetail(ctx context.Context, orderID uuid.UUID) (models.InstantOrderDetail, error)
	SaveNormalDetail(ctx context.Context, detail models.NormalOrderDetail) error
	GetNormalDetail(ctx context.Context, orderID uuid.UUID) (models.NormalOrderDetail, error)
}

type IcebergRepository interface {
	SaveIcebergDetail(ctx context.Context, detail models.IcebergOrderDetail) error
	GetIcebergDetail(ctx context.Context, orderID uuid.UUID) (models.IcebergOrderDetail, error)
	UpdateIcebergDetail(ctx context.Context, detail models.IcebergOrderDetail) error

	SaveLegs(ctx context.Context, legs []models.IcebergLeg) error
	// ListLegs returns legs ordered by leg number.
	ListLegs(ctx context.Context, orderID uuid.UUID) ([]models.IcebergLeg, error)
	UpdateLeg(ctx context.Context, leg models.IcebergLeg) error
}

type CoverRepository interface {
	SaveCoverDetail(ctx context.Context, detail models.CoverOrderDetail) error
	GetCoverDetail(ctx context.Context, orderID uuid.UUID) (models.CoverOrderDetail, error)
	UpdateCoverDetail(ctx context.Context, detail models.CoverOrderDetail) error
}

type FundsRepository interface {
	GetFundsForUpdate(ctx context.Context, userID uuid.UUID) (models.UserFunds, error)
	SaveFunds(ctx context.Context, funds models.UserFunds) error
}

type ChargeRepository interface {
	SaveCharges(ctx context.Context, charges []models.Charge) error
	ListCharges(ctx context.Context, orderID uuid.UUID) ([]models.Charge, error)
	DeleteCharges(ctx context.Context, orderID uuid.UUID) (int64, error)
	SaveChargeFailure(ctx context.Context, failure models.OrderChargeFailure) error
	ListChargeFailures(ctx context.Context, orderID uuid.UUID) ([]models.OrderChargeFailure, error)
}

type HistoryRepository interface {
	AppendHistory(ctx context.Context, entry models.OrderHistory) error
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error)
}

type AttemptRepository interface {
	SaveFailedAttempt(ctx context.Context, attempt models.FailedOrderAttempt) error
}
