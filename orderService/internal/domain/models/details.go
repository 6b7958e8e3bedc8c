package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InstantOrderDetail struct {
	OrderID     uuid.UUID
	ProductType ProductType
	OrderType   OrderType
}

type NormalOrderDetail struct {
	OrderID           uuid.UUID
	ProductType       ProductType
	OrderType         OrderType
	TriggerPrice      *decimal.Decimal
	Validity          Validity
	ValidityMinutes   *int32
	DisclosedQuantity *int64
}

type IcebergOrderDetail struct {
	OrderID           uuid.UUID
	NumberOfLegs      int32
	ProductType       ProductType
	OrderType         OrderType
	TriggerPrice      *decimal.Decimal
	Validity          Validity
	ValidityMinutes   *int32
	DisclosedQuantity int64
	HasMoreLegs       bool
}

type LegStatus string

const (
	LegStatusPending   LegStatus = "PENDING"
	LegStatusQueued    LegStatus = "QUEUED"
	LegStatusExecuted  LegStatus = "EXECUTED"
	LegStatusRejected  LegStatus = "REJECTED"
	LegStatusCancelled LegStatus = "CANCELLED"
)

func (s LegStatus) Terminal() bool {
	return s == LegStatusExecuted || s == LegStatusRejected || s == LegStatusCancelled
}

type IcebergLeg struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	LegNumber       int32
	Quantity        int64
	Status          LegStatus
	ExecutionPrice  *decimal.Decimal
	ExchangeOrderID *string
	ExecutedAt      *time.Time
	CancelledAt     *time.Time
}

// SplitLegs divides quantity into legs of equal size and folds the remainder into the last leg.
func SplitLegs(orderID uuid.UUID, quantity int64, legs int32) []IcebergLeg {
	if legs <= 0 {
		return nil
	}

	base := quantity / int64(legs)
	remainder := quantity % int64(legs)

	out := make([]IcebergLeg, 0, legs)
	for number := int32(1); number <= legs; number++ {
		legQuantity := base
		if number == legs {
			legQuantity += remainder
		}

		status := LegStatusPending
		if number == 1 {
			status = LegStatusQueued
		}

		out = append(out, IcebergLeg{
			ID:        uuid.New(),
			OrderID:   orderID,
			LegNumber: number,
			Quantity:  legQuantity,
			Status:    status,
		})
	}

	return out
}

type CoverOrderDetail struct {
	OrderID             uuid.UUID
	StopLossPrice       decimal.Decimal
	OrderType           OrderType
	ProductType         ProductType
	MainOrderStatus     LegStatus
	StopLossOrderStatus LegStatus
	StopLossExecPrice   *decimal.Decimal
	StopLossExchangeID  *string
	StopLossExecutedAt  *time.Time
}
