package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
)

type InstantDetail struct {
	OrderID     uuid.UUID `db:"order_id"`
	ProductType string    `db:"product_type"`
	OrderType   string    `db:"order_type"`
}

func (d InstantDetail) ToDomain() models.InstantOrderDetail {
	return models.InstantOrderDetail{
		OrderID:     d.OrderID,
		ProductType: models.ProductType(d.ProductType),
		OrderType:   models.OrderType(d.OrderType),
	}
}

type NormalDetail struct {
	OrderID           uuid.UUID           `db:"order_id"`
	ProductType       string              `db:"product_type"`
	OrderType         string              `db:"order_type"`
	TriggerPrice      decimal.NullDecimal `db:"trigger_price"`
	Validity          string              `db:"validity"`
	ValidityMinutes   *int32              `db:"validity_minutes"`
	DisclosedQuantity *int64              `db:"disclosed_quantity"`
}

func (d NormalDetail) ToDomain() models.NormalOrderDetail {
	return models.NormalOrderDetail{
		OrderID:           d.OrderID,
		ProductType:       models.ProductType(d.ProductType),
		OrderType:         models.OrderType(d.OrderType),
		TriggerPrice:      fromNull(d.TriggerPrice),
		Validity:          models.Validity(d.Validity),
		ValidityMinutes:   d.ValidityMinutes,
		DisclosedQuantity: d.DisclosedQuantity,
	}
}

type IcebergDetail struct {
	OrderID           uuid.UUID           `db:"order_id"`
	NumberOfLegs      int32               `db:"number_of_legs"`
	ProductType       string              `db:"product_type"`
	OrderType         string              `db:"order_type"`
	TriggerPrice      decimal.NullDecimal `db:"trigger_price"`
	Validity          string              `db:"validity"`
	ValidityMinutes   *int32              `db:"validity_minutes"`
	DisclosedQuantity int64               `db:"disclosed_quantity"`
	HasMoreLegs       bool                `db:"has_more_legs"`
}

func (d IcebergDetail) ToDomain() models.IcebergOrderDetail {
	return models.IcebergOrderDetail{
		OrderID:           d.OrderID,
		NumberOfLegs:      d.NumberOfLegs,
		ProductType:       models.ProductType(d.ProductType),
		OrderType:         models.OrderType(d.OrderType),
		TriggerPrice:      fromNull(d.TriggerPrice),
		Validity:          models.Validity(d.Validity),
		ValidityMinutes:   d.ValidityMinutes,
		DisclosedQuantity: d.DisclosedQuantity,
		HasMoreLegs:       d.HasMoreLegs,
	}
}

type IcebergLeg struct {
	ID              uuid.UUID           `db:"id"`
	OrderID         uuid.UUID           `db:"order_id"`
	LegNumber       int32               `db:"leg_number"`
	Quantity        int64               `db:"quantity"`
	Status          string              `db:"status"`
	ExecutionPrice  decimal.NullDecimal `db:"execution_price"`
	ExchangeOrderID *string             `db:"exchange_order_id"`
	ExecutedAt      *time.Time          `db:"executed_at"`
	CancelledAt     *time.Time          `db:"cancelled_at"`
}

func (l IcebergLeg) ToDomain() models.IcebergLeg {
	return models.IcebergLeg{
		ID:              l.ID,
		OrderID:         l.OrderID,
		LegNumber:       l.LegNumber,
		Quantity:        l.Quantity,
		Status:          models.LegStatus(l.Status),
		ExecutionPrice:  fromNull(l.ExecutionPrice),
		ExchangeOrderID: l.ExchangeOrderID,
		ExecutedAt:      l.ExecutedAt,
		CancelledAt:     l.CancelledAt,
	}
}

type CoverDetail struct {
	OrderID             uuid.UUID           `db:"order_id"`
	StopLossPrice       decimal.Decimal     `db:"stop_loss_price"`
	OrderType           string              `db:"order_type"`
	ProductType         string              `db:"product_type"`
	MainOrderStatus     string              `db:"main_order_status"`
	StopLossOrderStatus string              `db:"stop_loss_order_status"`
	StopLossExecPrice   decimal.NullDecimal `db:"stop_loss_exec_price"`
	StopLossExchangeID  *string             `db:"stop_loss_exchange_id"`
	StopLossExecutedAt  *time.Time          `db:"stop_loss_executed_at"`
}

func (d CoverDetail) ToDomain() models.CoverOrderDetail {
	return models.CoverOrderDetail{
		OrderID:             d.OrderID,
		StopLossPrice:       d.StopLossPrice,
		OrderType:           models.OrderType(d.OrderType),
		ProductType:         models.ProductType(d.ProductType),
		MainOrderStatus:     models.LegStatus(d.MainOrderStatus),
		StopLossOrderStatus: models.LegStatus(d.StopLossOrderStatus),
		StopLossExecPrice:   fromNull(d.StopLossExecPrice),
		StopLossExchangeID:  d.StopLossExchangeID,
		StopLossExecutedAt:  d.StopLossExecutedAt,
	}
}
