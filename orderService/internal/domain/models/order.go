package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Symbol          string
	Exchange        Exchange
	Side            Side
	Quantity        int64
	Price           *decimal.Decimal
	Category        Category
	Status          Status
	ReservedMargin  decimal.Decimal
	TotalCharges    decimal.Decimal
	ExecutionPrice  *decimal.Decimal
	ExchangeOrderID *string
	RejectionReason *string
	PlacedAt        time.Time
	ExecutedAt      *time.Time
	CancelledAt     *time.Time
	UpdatedAt       time.Time
}

// CanTransition reports whether the order may still be executed, rejected or cancelled.
func (o Order) CanTransition() bool {
	return o.Status == StatusQueued
}

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

type Category string

const (
	CategoryInstant Category = "INSTANT"
	CategoryNormal  Category = "NORMAL"
	CategoryIceberg Category = "ICEBERG"
	CategoryCover   Category = "COVER_ORDER"
)

type Status string

const (
	StatusQueued    Status = "QUEUED"
	StatusExecuted  Status = "EXECUTED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusExecuted, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

type Exchange string

const (
	ExchangeNSE Exchange = "NSE"
	ExchangeBSE Exchange = "BSE"
)

func (e Exchange) Valid() bool {
	return e == ExchangeNSE || e == ExchangeBSE
}

type ProductType string

const (
	ProductDelivery        ProductType = "DELIVERY"
	ProductIntraday        ProductType = "INTRADAY"
	ProductFutures         ProductType = "FUTURES"
	ProductCurrencyFutures ProductType = "CURRENCY_FUTURES"
	ProductOptions         ProductType = "OPTIONS"
	ProductCurrencyOptions ProductType = "CURRENCY_OPTIONS"
)

func (p ProductType) Valid() bool {
	switch p {
	case ProductDelivery, ProductIntraday, ProductFutures,
		ProductCurrencyFutures, ProductOptions, ProductCurrencyOptions:
		return true
	default:
		return false
	}
}

var (
	fullMargin     = decimal.NewFromInt(1)
	leveragedRatio = decimal.NewFromFloat(0.2)
)

// MarginFactor is the share of the order value reserved at creation.
func (p ProductType) MarginFactor() decimal.Decimal {
	switch p {
	case ProductIntraday, ProductFutures, ProductCurrencyFutures:
		return leveragedRatio
	default:
		return fullMargin
	}
}

type OrderType string

const (
	OrderTypeMarket         OrderType = "MARKET"
	OrderTypeLimit          OrderType = "LIMIT"
	OrderTypeStopLoss       OrderType = "STOP_LOSS"
	OrderTypeStopLossMarket OrderType = "STOP_LOSS_MARKET"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeMarket, OrderTypeLimit, OrderTypeStopLoss, OrderTypeStopLossMarket:
		return true
	default:
		return false
	}
}

func (t OrderType) RequiresPrice() bool {
	return t == OrderTypeLimit || t == OrderTypeStopLoss
}

func (t OrderType) RequiresTrigger() bool {
	return t == OrderTypeStopLoss || t == OrderTypeStopLossMarket
}

type Validity string

const (
	ValidityDay       Validity = "DAY"
	ValidityImmediate Validity = "IMMEDIATE"
	ValidityMinutes   Validity = "MINUTES"
)

func (v Validity) Valid() bool {
	return v == ValidityDay || v == ValidityImmediate || v == ValidityMinutes
}

// OrderView is an order together with whichever category records belong to it.
type OrderView struct {
	Order   Order
	Instant *InstantOrderDetail
	Normal  *NormalOrderDetail
	Iceberg *IcebergOrderDetail
	Legs    []IcebergLeg
	Cover   *CoverOrderDetail
}
