// Package charges computes brokerage, taxes and regulatory fees for a single fill.
// It holds no state and performs no I/O; callers persist the breakdown.
package charges

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
)

const amountPlaces = 2

type Options struct {
	// IntradaySTTBothLegs charges intraday STT on buys as well as sells.
	IntradaySTTBothLegs bool
}

type Engine struct {
	options Options
}

func NewEngine(options Options) *Engine {
	return &Engine{options: options}
}

func (e *Engine) Calculate(input models.ChargeInput) (models.ChargeBreakdown, error) {
	const op = "charges.Engine.Calculate"

	if err := validateInput(input); err != nil {
		return models.ChargeBreakdown{}, fmt.Errorf("%s: %w", op, err)
	}

	segment := models.SegmentFor(input.ProductType)
	table, found := schedules[segment]
	if !found {
		return models.ChargeBreakdown{}, fmt.Errorf("%s: %s: %w", op, segment, serviceErrors.ErrChargesNotImplemented)
	}

	if segment == models.SegmentEquityIntraday && e.options.IntradaySTTBothLegs {
		both := *table.tax
		both.applies = onBoth
		table.tax = &both
	}

	value := input.Price.Mul(decimal.NewFromInt(input.Quantity))
	lines := make([]models.ChargeLine, 0, 7)

	brokerage := clamp(percentOf(value, table.brokerage), brokerageFloor, brokerageCeiling)
	lines = append(lines, percentLine(models.ChargeBrokerage, brokerage, table.brokerage, value))

	if table.tax != nil {
		tax := decimal.Zero
		if table.tax.applies.matches(input.Side) {
			tax = percentOf(value, table.tax.percent)
		}
		lines = append(lines, percentLine(table.taxType, tax, table.tax.percent, value))
	}

	exchangePercent := table.exchangeNSE
	ipftPercent := table.ipftNSE
	if input.Exchange == models.ExchangeBSE {
		exchangePercent = table.exchangeBSE
		ipftPercent = table.ipftBSE
	}

	exchange := decimal.Zero
	if table.exchangeSide.matches(input.Side) {
		exchange = percentOf(value, exchangePercent)
	}
	lines = append(lines, percentLine(models.ChargeExchange, exchange, exchangePercent, value))

	sebi := percentOf(value, sebiPercent)
	lines = append(lines, percentLine(models.ChargeSEBI, sebi, sebiPercent, value))

	stamp := decimal.Zero
	if table.stamp.applies.matches(input.Side) {
		stamp = percentOf(value, table.stamp.percent)
	}
	lines = append(lines, percentLine(models.ChargeStampDuty, stamp, table.stamp.percent, value))

	ipft := percentOf(value, ipftPercent)
	lines = append(lines, percentLine(models.ChargeIPFT, ipft, ipftPercent, value))

	// GST never applies to STT/CTT or stamp duty.
	gstBase := brokerage.Add(exchange).Add(sebi).Add(ipft)
	gst := percentOf(gstBase, gstPercent)
	lines = append(lines, percentLine(models.ChargeGST, gst, gstPercent, gstBase))

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}

	return models.ChargeBreakdown{
		Segment:    segment,
		TradeValue: value,
		Lines:      lines,
		Total:      total,
	}, nil
}

func validateInput(input models.ChargeInput) error {
	if input.Quantity <= 0 {
		return fmt.Errorf("quantity must be > 0: %w", serviceErrors.ErrInvalidChargeInput)
	}
	if !input.Price.IsPositive() {
		return fmt.Errorf("price must be > 0: %w", serviceErrors.ErrInvalidChargeInput)
	}
	if !input.Side.Valid() {
		return fmt.Errorf("unknown side %q: %w", input.Side, serviceErrors.ErrInvalidChargeInput)
	}
	if !input.Exchange.Valid() {
		return fmt.Errorf("unknown exchange %q: %w", input.Exchange, serviceErrors.ErrInvalidChargeInput)
	}
	if !input.ProductType.Valid() {
		return fmt.Errorf("unknown product type %q: %w", input.ProductType, serviceErrors.ErrInvalidChargeInput)
	}

	return nil
}

// Line amounts are rounded individually so the persisted lines add up to the persisted total.
func percentLine(chargeType models.ChargeType, amount, percent, base decimal.Decimal) models.ChargeLine {
	return models.ChargeLine{
		Type:         chargeType,
		Amount:       amount.Round(amountPlaces),
		IsPercentage: true,
		Percentage:   percent,
		TaxableBase:  base,
	}
}

func percentOf(value, percent decimal.Decimal) decimal.Decimal {
	return value.Mul(percent).Div(hundred)
}

func clamp(value, floor, ceiling decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Min(value, ceiling), floor)
}
