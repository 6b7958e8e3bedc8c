package charges

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		options  Options
		input    models.ChargeInput
		segment  models.Segment
		expected map[models.ChargeType]string
		total    string
	}{
		{
			name: "equity delivery buy on NSE",
			input: models.ChargeInput{
				Quantity: 10, Price: dec("100"), Side: models.SideBuy,
				Exchange: models.ExchangeNSE, ProductType: models.ProductDelivery,
			},
			segment: models.SegmentEquityDelivery,
			expected: map[models.ChargeType]string{
				models.ChargeBrokerage: "5",
				models.ChargeSTT:       "1",
				models.ChargeExchange:  "0.03",
				models.ChargeSEBI:      "0",
				models.ChargeStampDuty: "0.15",
				models.ChargeIPFT:      "0",
				models.ChargeGST:       "0.91",
			},
			total: "7.09",
		},
		{
			name: "equity delivery buy on BSE has no IPFT",
			input: models.ChargeInput{
				Quantity: 10, Price: dec("100"), Side: models.SideBuy,
				Exchange: models.ExchangeBSE, ProductType: models.ProductDelivery,
			},
			segment: models.SegmentEquityDelivery,
			expected: map[models.ChargeType]string{
				models.ChargeBrokerage: "5",
				models.ChargeSTT:       "1",
				models.ChargeExchange:  "0.04",
				models.ChargeIPFT:      "0",
				models.ChargeGST:       "0.91",
			},
			total: "7.1",
		},
		{
			name: "equity delivery sell skips stamp duty",
			input: models.ChargeInput{
				Quantity: 10, Price: dec("100"), Side: models.SideSell,
				Exchange: models.ExchangeNSE, ProductType: models.ProductDelivery,
			},
			segment: models.SegmentEquityDelivery,
			expected: map[models.ChargeType]string{
				models.ChargeSTT:       "1",
				models.ChargeStampDuty: "0",
			},
			total: "6.94",
		},
		{
			name: "brokerage floor applies to small trades",
			input: models.ChargeInput{
				Quantity: 1, Price: dec("100"), Side: models.SideBuy,
				Exchange: models.ExchangeNSE, ProductType: models.ProductDelivery,
			},
			segment: models.SegmentEquityDelivery,
			expected: map[models.ChargeType]string{
				models.ChargeBrokerage: "2.5",
			},
		},
		{
			name: "equity intraday sell pays STT and capped brokerage",
			input: models.ChargeInput{
				Quantity: 100, Price: dec("500"), Side: models.SideSell,
				Exchange: models.ExchangeNSE, ProductType: models.ProductIntraday,
			},
			segment: models.SegmentEquityIntraday,
			expected: map[models.ChargeType]string{
				models.ChargeBrokerage: "20",
				models.ChargeSTT:       "12.5",
				models.ChargeExchange:  "1.49",
				models.ChargeSEBI:      "0.05",
				models.ChargeStampDuty: "0",
				models.ChargeIPFT:      "0.05",
				models.ChargeGST:       "3.89",
			},
			total: "37.98",
		},
		{
			name: "equity intraday buy has no STT by default",
			input: models.ChargeInput{
				Quantity: 100, Price: dec("500"), Side: models.SideBuy,
				Exchange: models.ExchangeNSE, ProductType: models.ProductIntraday,
			},
			segment: models.SegmentEquityIntraday,
			expected: map[models.ChargeType]string{
				models.ChargeSTT:       "0",
				models.ChargeStampDuty: "1.5",
			},
			total: "26.98",
		},
		{
			name:    "equity intraday buy pays STT when both legs are taxed",
			options: Options{IntradaySTTBothLegs: true},
			input: models.ChargeInput{
				Quantity: 100, Price: dec("500"), Side: models.SideBuy,
				Exchange: models.ExchangeNSE, ProductType: models.ProductIntraday,
			},
			segment: models.SegmentEquityIntraday,
			expected: map[models.ChargeType]string{
				models.ChargeSTT: "12.5",
			},
			total: "39.48",
		},
		{
			name: "equity futures sell pays CTT",
			input: models.ChargeInput{
				Quantity: 50, Price: dec("2000"), Side: models.SideSell,
				Exchange: models.ExchangeNSE, ProductType: models.ProductFutures,
			},
			segment: models.SegmentEquityFutures,
			expected: map[models.ChargeType]string{
				models.ChargeBrokerage: "20",
				models.ChargeCTT:       "10",
				models.ChargeExchange:  "2.97",
				models.ChargeSEBI:      "0.1",
				models.ChargeIPFT:      "0.1",
				models.ChargeGST:       "4.17",
			},
			total: "37.34",
		},
		{
			name: "currency futures buy on NSE",
			input: models.ChargeInput{
				Quantity: 1000, Price: dec("83"), Side: models.SideBuy,
				Exchange: models.ExchangeNSE, ProductType: models.ProductCurrencyFutures,
			},
			segment: models.SegmentCurrencyFutures,
			expected: map[models.ChargeType]string{
				models.ChargeBrokerage: "16.6",
				models.ChargeExchange:  "0.29",
				models.ChargeSEBI:      "0.08",
				models.ChargeStampDuty: "0.83",
				models.ChargeIPFT:      "0.04",
				models.ChargeGST:       "3.06",
			},
			total: "20.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(tt.options)

			breakdown, err := engine.Calculate(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.segment, breakdown.Segment)
			for chargeType, amount := range tt.expected {
				line, found := breakdown.Line(chargeType)
				require.True(t, found, "missing line %s", chargeType)
				assert.True(t, dec(amount).Equal(line.Amount),
					"%s: expected %s, got %s", chargeType, amount, line.Amount)
			}

			if tt.total != "" {
				assert.True(t, dec(tt.total).Equal(breakdown.Total),
					"total: expected %s, got %s", tt.total, breakdown.Total)
			}
		})
	}
}

func TestCalculateCurrencyHasNoTransactionTax(t *testing.T) {
	breakdown, err := NewEngine(Options{}).Calculate(models.ChargeInput{
		Quantity: 10, Price: dec("80"), Side: models.SideSell,
		Exchange: models.ExchangeBSE, ProductType: models.ProductCurrencyFutures,
	})
	require.NoError(t, err)

	_, hasSTT := breakdown.Line(models.ChargeSTT)
	_, hasCTT := breakdown.Line(models.ChargeCTT)
	assert.False(t, hasSTT)
	assert.False(t, hasCTT)
	assert.Len(t, breakdown.Lines, 6)
}

func TestCalculateTotalIsSumOfRoundedLines(t *testing.T) {
	engine := NewEngine(Options{})

	breakdown, err := engine.Calculate(models.ChargeInput{
		Quantity: 37, Price: dec("123.45"), Side: models.SideBuy,
		Exchange: models.ExchangeNSE, ProductType: models.ProductDelivery,
	})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, line := range breakdown.Lines {
		assert.True(t, line.Amount.Equal(line.Amount.Round(amountPlaces)))
		sum = sum.Add(line.Amount)
	}
	assert.True(t, sum.Equal(breakdown.Total))
}

func TestCalculateIsDeterministic(t *testing.T) {
	engine := NewEngine(Options{})
	input := models.ChargeInput{
		Quantity: 333, Price: dec("1234.56"), Side: models.SideSell,
		Exchange: models.ExchangeBSE, ProductType: models.ProductIntraday,
	}

	first, err := engine.Calculate(input)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		next, err := engine.Calculate(input)
		require.NoError(t, err)
		require.True(t, first.Total.Equal(next.Total))
		for index, line := range first.Lines {
			require.True(t, line.Amount.Equal(next.Lines[index].Amount))
		}
	}
}

func TestCalculateOptionsNotImplemented(t *testing.T) {
	engine := NewEngine(Options{})

	for _, product := range []models.ProductType{models.ProductOptions, models.ProductCurrencyOptions} {
		_, err := engine.Calculate(models.ChargeInput{
			Quantity: 1, Price: dec("10"), Side: models.SideBuy,
			Exchange: models.ExchangeNSE, ProductType: product,
		})
		assert.ErrorIs(t, err, serviceErrors.ErrChargesNotImplemented)
	}
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	engine := NewEngine(Options{})

	tests := []struct {
		name  string
		input models.ChargeInput
	}{
		{
			name:  "zero quantity",
			input: models.ChargeInput{Quantity: 0, Price: dec("1"), Side: models.SideBuy, Exchange: models.ExchangeNSE, ProductType: models.ProductDelivery},
		},
		{
			name:  "zero price",
			input: models.ChargeInput{Quantity: 1, Price: decimal.Zero, Side: models.SideBuy, Exchange: models.ExchangeNSE, ProductType: models.ProductDelivery},
		},
		{
			name:  "unknown exchange",
			input: models.ChargeInput{Quantity: 1, Price: dec("1"), Side: models.SideBuy, Exchange: "MCX", ProductType: models.ProductDelivery},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Calculate(tt.input)
			assert.ErrorIs(t, err, serviceErrors.ErrInvalidChargeInput)
		})
	}
}
