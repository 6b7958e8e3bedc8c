package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlacementRequest holds the fields shared by every order category.
type PlacementRequest struct {
	UserID   uuid.UUID
	Symbol   string
	Exchange Exchange
	Side     Side
	Quantity int64
	Price    *decimal.Decimal
	Actor    string
}

type InstantOrderRequest struct {
	PlacementRequest
	ProductType ProductType
	OrderType   OrderType
}

type NormalOrderRequest struct {
	PlacementRequest
	ProductType       ProductType
	OrderType         OrderType
	TriggerPrice      *decimal.Decimal
	Validity          Validity
	ValidityMinutes   *int32
	DisclosedQuantity *int64
}

type IcebergOrderRequest struct {
	PlacementRequest
	NumberOfLegs      int32
	ProductType       ProductType
	OrderType         OrderType
	TriggerPrice      *decimal.Decimal
	Validity          Validity
	ValidityMinutes   *int32
	DisclosedQuantity int64
}

type CoverOrderRequest struct {
	PlacementRequest
	OrderType     OrderType
	StopLossPrice decimal.Decimal
}

type ExecuteRequest struct {
	ExecutionPrice  decimal.Decimal
	ExchangeOrderID *string
	Remarks         string
	Actor           string
}

type RejectRequest struct {
	Reason string
	Actor  string
}

type CancelRequest struct {
	Remarks string
	Actor   string
}
