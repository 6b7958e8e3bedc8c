package charges

import (
	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
)

// Percentages below are "percent of trade value": 0.5 means 0.5%.

type appliesTo uint8

const (
	onBuy appliesTo = iota + 1
	onSell
	onBoth
)

func (a appliesTo) matches(side models.Side) bool {
	switch a {
	case onBoth:
		return true
	case onBuy:
		return side == models.SideBuy
	case onSell:
		return side == models.SideSell
	default:
		return false
	}
}

type rate struct {
	percent decimal.Decimal
	applies appliesTo
}

type schedule struct {
	brokerage    decimal.Decimal
	tax          *rate
	taxType      models.ChargeType
	exchangeNSE  decimal.Decimal
	exchangeBSE  decimal.Decimal
	exchangeSide appliesTo
	stamp        rate
	ipftNSE      decimal.Decimal
	ipftBSE      decimal.Decimal
}

var (
	brokerageFloor   = decimal.RequireFromString("2.5")
	brokerageCeiling = decimal.NewFromInt(20)

	// ₹10 per crore.
	sebiPercent = decimal.RequireFromString("0.0001")
	gstPercent  = decimal.NewFromInt(18)

	hundred = decimal.NewFromInt(100)
)

var equityExchangeNSE = decimal.RequireFromString("0.00297")
var equityExchangeBSE = decimal.RequireFromString("0.00375")
var equityIPFT = decimal.RequireFromString("0.0001")

var schedules = map[models.Segment]schedule{
	models.SegmentEquityDelivery: {
		brokerage:    decimal.RequireFromString("0.5"),
		tax:          &rate{percent: decimal.RequireFromString("0.1"), applies: onBoth},
		taxType:      models.ChargeSTT,
		exchangeNSE:  equityExchangeNSE,
		exchangeBSE:  equityExchangeBSE,
		exchangeSide: onBoth,
		stamp:        rate{percent: decimal.RequireFromString("0.015"), applies: onBuy},
		ipftNSE:      equityIPFT,
		ipftBSE:      decimal.Zero,
	},
	models.SegmentEquityIntraday: {
		brokerage:    decimal.RequireFromString("0.05"),
		tax:          &rate{percent: decimal.RequireFromString("0.025"), applies: onSell},
		taxType:      models.ChargeSTT,
		exchangeNSE:  equityExchangeNSE,
		exchangeBSE:  equityExchangeBSE,
		exchangeSide: onBoth,
		stamp:        rate{percent: decimal.RequireFromString("0.003"), applies: onBuy},
		ipftNSE:      equityIPFT,
		ipftBSE:      decimal.Zero,
	},
	models.SegmentEquityFutures: {
		brokerage:    decimal.RequireFromString("0.05"),
		tax:          &rate{percent: decimal.RequireFromString("0.01"), applies: onSell},
		taxType:      models.ChargeCTT,
		exchangeNSE:  equityExchangeNSE,
		exchangeBSE:  equityExchangeBSE,
		exchangeSide: onBoth,
		stamp:        rate{percent: decimal.RequireFromString("0.003"), applies: onBuy},
		ipftNSE:      equityIPFT,
		ipftBSE:      decimal.Zero,
	},
	models.SegmentCurrencyFutures: {
		brokerage:    decimal.RequireFromString("0.02"),
		exchangeNSE:  decimal.RequireFromString("0.00035"),
		exchangeBSE:  decimal.RequireFromString("0.00045"),
		exchangeSide: onBoth,
		stamp:        rate{percent: decimal.RequireFromString("0.001"), applies: onBoth},
		ipftNSE:      decimal.RequireFromString("0.00005"),
		ipftBSE:      decimal.RequireFromString("0.00005"),
	},
}
