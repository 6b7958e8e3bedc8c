package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
)

type Order struct {
	ID              uuid.UUID           `db:"id"`
	UserID          uuid.UUID           `db:"user_id"`
	Symbol          string              `db:"symbol"`
	Exchange        string              `db:"exchange"`
	Side            string              `db:"side"`
	Quantity        int64               `db:"quantity"`
	Price           decimal.NullDecimal `db:"price"`
	Category        string              `db:"category"`
	Status          string              `db:"status"`
	ReservedMargin  decimal.Decimal     `db:"reserved_margin"`
	TotalCharges    decimal.Decimal     `db:"total_charges"`
	ExecutionPrice  decimal.NullDecimal `db:"execution_price"`
	ExchangeOrderID *string             `db:"exchange_order_id"`
	RejectionReason *string             `db:"rejection_reason"`
	PlacedAt        time.Time           `db:"placed_at"`
	ExecutedAt      *time.Time          `db:"executed_at"`
	CancelledAt     *time.Time          `db:"cancelled_at"`
	UpdatedAt       time.Time           `db:"updated_at"`
}

func (o Order) ToDomain() models.Order {
	return models.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		Symbol:          o.Symbol,
		Exchange:        models.Exchange(o.Exchange),
		Side:            models.Side(o.Side),
		Quantity:        o.Quantity,
		Price:           fromNull(o.Price),
		Category:        models.Category(o.Category),
		Status:          models.Status(o.Status),
		ReservedMargin:  o.ReservedMargin,
		TotalCharges:    o.TotalCharges,
		ExecutionPrice:  fromNull(o.ExecutionPrice),
		ExchangeOrderID: o.ExchangeOrderID,
		RejectionReason: o.RejectionReason,
		PlacedAt:        o.PlacedAt,
		ExecutedAt:      o.ExecutedAt,
		CancelledAt:     o.CancelledAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func FromDomain(order models.Order) Order {
	return Order{
		ID:              order.ID,
		UserID:          order.UserID,
		Symbol:          order.Symbol,
		Exchange:        string(order.Exchange),
		Side:            string(order.Side),
		Quantity:        order.Quantity,
		Price:           ToNull(order.Price),
		Category:        string(order.Category),
		Status:          string(order.Status),
		ReservedMargin:  order.ReservedMargin,
		TotalCharges:    order.TotalCharges,
		ExecutionPrice:  ToNull(order.ExecutionPrice),
		ExchangeOrderID: order.ExchangeOrderID,
		RejectionReason: order.RejectionReason,
		PlacedAt:        order.PlacedAt,
		ExecutedAt:      order.ExecutedAt,
		CancelledAt:     order.CancelledAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func ToNull(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *value, Valid: true}
}

func fromNull(value decimal.NullDecimal) *decimal.Decimal {
	if !value.Valid {
		return nil
	}

	out := value.Decimal
	return &out
}
