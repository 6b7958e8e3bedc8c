package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ChargeType string

const (
	ChargeBrokerage ChargeType = "BROKERAGE"
	ChargeSTT       ChargeType = "STT"
	ChargeCTT       ChargeType = "CTT"
	ChargeExchange  ChargeType = "EXCHANGE"
	ChargeSEBI      ChargeType = "SEBI"
	ChargeStampDuty ChargeType = "STAMP_DUTY"
	ChargeIPFT      ChargeType = "IPFT"
	ChargeGST       ChargeType = "GST"
)

const chargeTypesLength = 8

type Segment string

const (
	SegmentEquityDelivery  Segment = "EQUITY_DELIVERY"
	SegmentEquityIntraday  Segment = "EQUITY_INTRADAY"
	SegmentEquityFutures   Segment = "EQUITY_FUTURES"
	SegmentCurrencyFutures Segment = "CURRENCY_FUTURES"
	SegmentEquityOptions   Segment = "EQUITY_OPTIONS"
	SegmentCurrencyOptions Segment = "CURRENCY_OPTIONS"
)

func SegmentFor(product ProductType) Segment {
	switch product {
	case ProductDelivery:
		return SegmentEquityDelivery
	case ProductIntraday:
		return SegmentEquityIntraday
	case ProductFutures:
		return SegmentEquityFutures
	case ProductCurrencyFutures:
		return SegmentCurrencyFutures
	case ProductCurrencyOptions:
		return SegmentCurrencyOptions
	default:
		return SegmentEquityOptions
	}
}

// ChargeScope tells which fill a charge row belongs to.
type ChargeScope string

const (
	ChargeScopeOrder    ChargeScope = "ORDER"
	ChargeScopeLeg      ChargeScope = "ICEBERG_LEG"
	ChargeScopeStopLoss ChargeScope = "STOP_LOSS"
)

type ChargeInput struct {
	Quantity    int64
	Price       decimal.Decimal
	Side        Side
	Exchange    Exchange
	ProductType ProductType
}

type ChargeLine struct {
	Type         ChargeType
	Amount       decimal.Decimal
	IsPercentage bool
	Percentage   decimal.Decimal
	TaxableBase  decimal.Decimal
}

type ChargeBreakdown struct {
	Segment    Segment
	TradeValue decimal.Decimal
	Lines      []ChargeLine
	Total      decimal.Decimal
}

func (b ChargeBreakdown) Line(chargeType ChargeType) (ChargeLine, bool) {
	for _, line := range b.Lines {
		if line.Type == chargeType {
			return line, true
		}
	}

	return ChargeLine{}, false
}

type Charge struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	LegID        *uuid.UUID
	Scope        ChargeScope
	Type         ChargeType
	Amount       decimal.Decimal
	IsPercentage bool
	Percentage   decimal.Decimal
	TaxableBase  decimal.Decimal
	CreatedAt    time.Time
}

func ChargesFromBreakdown(orderID uuid.UUID, legID *uuid.UUID, scope ChargeScope, breakdown ChargeBreakdown, at time.Time) []Charge {
	out := make([]Charge, 0, chargeTypesLength)
	for _, line := range breakdown.Lines {
		out = append(out, Charge{
			ID:           uuid.New(),
			OrderID:      orderID,
			LegID:        legID,
			Scope:        scope,
			Type:         line.Type,
			Amount:       line.Amount,
			IsPercentage: line.IsPercentage,
			Percentage:   line.Percentage,
			TaxableBase:  line.TaxableBase,
			CreatedAt:    at,
		})
	}

	return out
}

// OrderChargeFailure records a charge computation or posting that did not go through.
type OrderChargeFailure struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	LegID     *uuid.UUID
	Scope     ChargeScope
	Reason    string
	CreatedAt time.Time
}

// ChargesOutcome is what a caller learns about charges after an execution.
type ChargesOutcome struct {
	Breakdown *ChargeBreakdown
	Warning   string
}

func (o ChargesOutcome) Posted() bool {
	return o.Breakdown != nil && o.Warning == ""
}
