package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
)

type placementBody struct {
	UserID   string           `json:"userId"`
	Symbol   string           `json:"symbol"`
	Exchange string           `json:"exchange"`
	Side     string           `json:"side"`
	Quantity int64            `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
	Actor    string           `json:"actor"`
}

func (b placementBody) toDomain() (models.PlacementRequest, error) {
	userID, err := uuid.Parse(b.UserID)
	if err != nil {
		return models.PlacementRequest{}, serviceErrors.NewValidationError("userId", "must be a UUID")
	}

	return models.PlacementRequest{
		UserID:   userID,
		Symbol:   b.Symbol,
		Exchange: models.Exchange(strings.ToUpper(b.Exchange)),
		Side:     models.Side(strings.ToUpper(b.Side)),
		Quantity: b.Quantity,
		Price:    b.Price,
		Actor:    b.Actor,
	}, nil
}

type instantBody struct {
	placementBody
	ProductType string `json:"productType"`
	OrderType   string `json:"orderType"`
}

type normalBody struct {
	placementBody
	ProductType       string           `json:"productType"`
	OrderType         string           `json:"orderType"`
	TriggerPrice      *decimal.Decimal `json:"triggerPrice"`
	Validity          string           `json:"validity"`
	ValidityMinutes   *int32           `json:"validityMinutes"`
	DisclosedQuantity *int64           `json:"disclosedQuantity"`
}

type icebergBody struct {
	placementBody
	NumberOfLegs      int32            `json:"numOfLegs"`
	ProductType       string           `json:"productType"`
	OrderType         string           `json:"orderType"`
	TriggerPrice      *decimal.Decimal `json:"triggerPrice"`
	Validity          string           `json:"validity"`
	ValidityMinutes   *int32           `json:"validityMinutes"`
	DisclosedQuantity int64            `json:"disclosedQuantity"`
}

type coverBody struct {
	placementBody
	OrderType     string          `json:"orderType"`
	StopLossPrice decimal.Decimal `json:"stopLossPrice"`
}

type executeBody struct {
	ExecutionPrice  decimal.Decimal `json:"executionPrice"`
	ExchangeOrderID *string         `json:"exchangeOrderId"`
	Remarks         string          `json:"remarks"`
	Actor           string          `json:"actor"`
}

func (b executeBody) toDomain() models.ExecuteRequest {
	return models.ExecuteRequest{
		ExecutionPrice:  b.ExecutionPrice,
		ExchangeOrderID: b.ExchangeOrderID,
		Remarks:         b.Remarks,
		Actor:           b.Actor,
	}
}

type rejectBody struct {
	RejectionReason string `json:"rejectionReason"`
	Actor           string `json:"actor"`
}

type cancelBody struct {
	Remarks string `json:"remarks"`
	Actor   string `json:"actor"`
}

type amountBody struct {
	Amount decimal.Decimal `json:"amount"`
}

type orderResponse struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"userId"`
	Symbol          string           `json:"symbol"`
	Exchange        models.Exchange  `json:"exchange"`
	Side            models.Side      `json:"side"`
	Quantity        int64            `json:"quantity"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Category        models.Category  `json:"category"`
	Status          models.Status    `json:"status"`
	ReservedMargin  decimal.Decimal  `json:"reservedMargin"`
	TotalCharges    decimal.Decimal  `json:"totalCharges"`
	ExecutionPrice  *decimal.Decimal `json:"executionPrice,omitempty"`
	ExchangeOrderID *string          `json:"exchangeOrderId,omitempty"`
	RejectionReason *string          `json:"rejectionReason,omitempty"`
	PlacedAt        time.Time        `json:"placedAt"`
	ExecutedAt      *time.Time       `json:"executedAt,omitempty"`
	CancelledAt     *time.Time       `json:"cancelledAt,omitempty"`
}

func toOrderResponse(order models.Order) orderResponse {
	return orderResponse{
		ID:              order.ID,
		UserID:          order.UserID,
		Symbol:          order.Symbol,
		Exchange:        order.Exchange,
		Side:            order.Side,
		Quantity:        order.Quantity,
		Price:           order.Price,
		Category:        order.Category,
		Status:          order.Status,
		ReservedMargin:  order.ReservedMargin,
		TotalCharges:    order.TotalCharges,
		ExecutionPrice:  order.ExecutionPrice,
		ExchangeOrderID: order.ExchangeOrderID,
		RejectionReason: order.RejectionReason,
		PlacedAt:        order.PlacedAt,
		ExecutedAt:      order.ExecutedAt,
		CancelledAt:     order.CancelledAt,
	}
}

type legResponse struct {
	ID              uuid.UUID        `json:"id"`
	LegNumber       int32            `json:"legNumber"`
	Quantity        int64            `json:"quantity"`
	Status          models.LegStatus `json:"status"`
	ExecutionPrice  *decimal.Decimal `json:"executionPrice,omitempty"`
	ExchangeOrderID *string          `json:"exchangeOrderId,omitempty"`
	ExecutedAt      *time.Time       `json:"executedAt,omitempty"`
	CancelledAt     *time.Time       `json:"cancelledAt,omitempty"`
}

func toLegResponse(leg models.IcebergLeg) legResponse {
	return legResponse{
		ID:              leg.ID,
		LegNumber:       leg.LegNumber,
		Quantity:        leg.Quantity,
		Status:          leg.Status,
		ExecutionPrice:  leg.ExecutionPrice,
		ExchangeOrderID: leg.ExchangeOrderID,
		ExecutedAt:      leg.ExecutedAt,
		CancelledAt:     leg.CancelledAt,
	}
}

type detailResponse struct {
	ProductType       models.ProductType `json:"productType,omitempty"`
	OrderType         models.OrderType   `json:"orderType,omitempty"`
	TriggerPrice      *decimal.Decimal   `json:"triggerPrice,omitempty"`
	Validity          models.Validity    `json:"validity,omitempty"`
	ValidityMinutes   *int32             `json:"validityMinutes,omitempty"`
	DisclosedQuantity *int64             `json:"disclosedQuantity,omitempty"`
	NumberOfLegs      int32              `json:"numOfLegs,omitempty"`
	HasMoreLegs       *bool              `json:"hasMoreLegs,omitempty"`
	Legs              []legResponse      `json:"legs,omitempty"`
}

type coverResponse struct {
	StopLossPrice       decimal.Decimal    `json:"stopLossPrice"`
	OrderType           models.OrderType   `json:"orderType"`
	ProductType         models.ProductType `json:"productType"`
	MainOrderStatus     models.LegStatus   `json:"mainOrderStatus"`
	StopLossOrderStatus models.LegStatus   `json:"stopLossOrderStatus"`
	StopLossExecPrice   *decimal.Decimal   `json:"stopLossExecutionPrice,omitempty"`
	StopLossExchangeID  *string            `json:"stopLossExchangeOrderId,omitempty"`
	StopLossExecutedAt  *time.Time         `json:"stopLossExecutedAt,omitempty"`
}

func toCoverResponse(cover models.CoverOrderDetail) *coverResponse {
	return &coverResponse{
		StopLossPrice:       cover.StopLossPrice,
		OrderType:           cover.OrderType,
		ProductType:         cover.ProductType,
		MainOrderStatus:     cover.MainOrderStatus,
		StopLossOrderStatus: cover.StopLossOrderStatus,
		StopLossExecPrice:   cover.StopLossExecPrice,
		StopLossExchangeID:  cover.StopLossExchangeID,
		StopLossExecutedAt:  cover.StopLossExecutedAt,
	}
}

type viewResponse struct {
	Order  orderResponse   `json:"order"`
	Detail *detailResponse `json:"detail,omitempty"`
	Cover  *coverResponse  `json:"cover,omitempty"`
}

func toViewResponse(view models.OrderView) viewResponse {
	response := viewResponse{Order: toOrderResponse(view.Order)}

	switch {
	case view.Instant != nil:
		response.Detail = &detailResponse{
			ProductType: view.Instant.ProductType,
			OrderType:   view.Instant.OrderType,
		}
	case view.Normal != nil:
		response.Detail = &detailResponse{
			ProductType:       view.Normal.ProductType,
			OrderType:         view.Normal.OrderType,
			TriggerPrice:      view.Normal.TriggerPrice,
			Validity:          view.Normal.Validity,
			ValidityMinutes:   view.Normal.ValidityMinutes,
			DisclosedQuantity: view.Normal.DisclosedQuantity,
		}
	case view.Iceberg != nil:
		hasMore := view.Iceberg.HasMoreLegs
		disclosed := view.Iceberg.DisclosedQuantity
		legs := make([]legResponse, 0, len(view.Legs))
		for _, leg := range view.Legs {
			legs = append(legs, toLegResponse(leg))
		}
		response.Detail = &detailResponse{
			ProductType:       view.Iceberg.ProductType,
			OrderType:         view.Iceberg.OrderType,
			TriggerPrice:      view.Iceberg.TriggerPrice,
			Validity:          view.Iceberg.Validity,
			ValidityMinutes:   view.Iceberg.ValidityMinutes,
			DisclosedQuantity: &disclosed,
			NumberOfLegs:      view.Iceberg.NumberOfLegs,
			HasMoreLegs:       &hasMore,
			Legs:              legs,
		}
	}

	if view.Cover != nil {
		response.Cover = toCoverResponse(*view.Cover)
	}

	return response
}

type fundsResponse struct {
	UserID    uuid.UUID       `json:"userId"`
	Total     decimal.Decimal `json:"total"`
	Available decimal.Decimal `json:"available"`
	Used      decimal.Decimal `json:"used"`
	Blocked   decimal.Decimal `json:"blocked"`
}

func toFundsResponse(funds models.UserFunds) fundsResponse {
	return fundsResponse{
		UserID:    funds.UserID,
		Total:     funds.Total,
		Available: funds.Available,
		Used:      funds.Used,
		Blocked:   funds.Blocked,
	}
}

type createResponse struct {
	viewResponse
	RequiredMargin decimal.Decimal `json:"requiredMargin"`
	Funds          fundsResponse   `json:"funds"`
}

type chargeLineResponse struct {
	Type         models.ChargeType  `json:"type"`
	Scope        models.ChargeScope `json:"scope"`
	LegID        *uuid.UUID         `json:"legId,omitempty"`
	Amount       decimal.Decimal    `json:"amount"`
	IsPercentage bool               `json:"isPercentage"`
	Percentage   decimal.Decimal    `json:"percentage"`
	TaxableBase  decimal.Decimal    `json:"taxableBase"`
}

type chargesOutcomeResponse struct {
	Segment    models.Segment       `json:"segment,omitempty"`
	TradeValue *decimal.Decimal     `json:"tradeValue,omitempty"`
	Lines      []chargeLineResponse `json:"lines,omitempty"`
	Total      *decimal.Decimal     `json:"total,omitempty"`
	Posted     bool                 `json:"posted"`
	Warning    string               `json:"warning,omitempty"`
}

func toChargesOutcome(outcome models.ChargesOutcome) chargesOutcomeResponse {
	response := chargesOutcomeResponse{
		Posted:  outcome.Posted(),
		Warning: outcome.Warning,
	}
	if outcome.Breakdown == nil {
		return response
	}

	breakdown := outcome.Breakdown
	response.Segment = breakdown.Segment
	response.TradeValue = &breakdown.TradeValue
	response.Total = &breakdown.Total
	for _, line := range breakdown.Lines {
		response.Lines = append(response.Lines, chargeLineResponse{
			Type:         line.Type,
			Amount:       line.Amount,
			IsPercentage: line.IsPercentage,
			Percentage:   line.Percentage,
			TaxableBase:  line.TaxableBase,
		})
	}

	return response
}

type executionResponse struct {
	viewResponse
	Charges chargesOutcomeResponse `json:"charges"`
}

type legExecutionResponse struct {
	ExecutedLeg legResponse            `json:"executedLeg"`
	NextLeg     *legResponse           `json:"nextLeg"`
	HasMoreLegs bool                   `json:"hasMoreLegs"`
	Charges     chargesOutcomeResponse `json:"charges"`
}

func toLegExecutionResponse(result models.LegExecution) legExecutionResponse {
	response := legExecutionResponse{
		ExecutedLeg: toLegResponse(result.Leg),
		HasMoreLegs: result.HasMoreLegs,
		Charges:     toChargesOutcome(result.Charges),
	}
	if result.NextLeg != nil {
		next := toLegResponse(*result.NextLeg)
		response.NextLeg = &next
	}

	return response
}

type stopLossResponse struct {
	Order   orderResponse          `json:"order"`
	Cover   *coverResponse         `json:"cover"`
	Charges chargesOutcomeResponse `json:"charges"`
}

type terminationResponse struct {
	viewResponse
	ReleasedMargin  decimal.Decimal `json:"releasedMargin"`
	RefundedCharges decimal.Decimal `json:"refundedCharges"`
}

type historyResponse struct {
	ID             uuid.UUID      `json:"id"`
	PreviousStatus *models.Status `json:"previousStatus"`
	NewStatus      models.Status  `json:"newStatus"`
	Remark         string         `json:"remark"`
	Actor          string         `json:"actor"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type failureResponse struct {
	Scope     models.ChargeScope `json:"scope"`
	LegID     *uuid.UUID         `json:"legId,omitempty"`
	Reason    string             `json:"reason"`
	CreatedAt time.Time          `json:"createdAt"`
}

type chargesReportResponse struct {
	OrderID  uuid.UUID            `json:"orderId"`
	Charges  []chargeLineResponse `json:"charges"`
	Failures []failureResponse    `json:"failures"`
	Total    decimal.Decimal      `json:"total"`
}

func toChargesReport(report models.ChargesReport) chargesReportResponse {
	response := chargesReportResponse{
		OrderID:  report.OrderID,
		Charges:  make([]chargeLineResponse, 0, len(report.Charges)),
		Failures: make([]failureResponse, 0, len(report.Failures)),
		Total:    report.Total,
	}
	for _, charge := range report.Charges {
		response.Charges = append(response.Charges, chargeLineResponse{
			Type:         charge.Type,
			Scope:        charge.Scope,
			LegID:        charge.LegID,
			Amount:       charge.Amount,
			IsPercentage: charge.IsPercentage,
			Percentage:   charge.Percentage,
			TaxableBase:  charge.TaxableBase,
		})
	}
	for _, failure := range report.Failures {
		response.Failures = append(response.Failures, failureResponse{
			Scope:     failure.Scope,
			LegID:     failure.LegID,
			Reason:    failure.Reason,
			CreatedAt: failure.CreatedAt,
		})
	}

	return response
}

type errorResponse struct {
	Error     string           `json:"error"`
	Field     string           `json:"field,omitempty"`
	Required  *decimal.Decimal `json:"required,omitempty"`
	Available *decimal.Decimal `json:"available,omitempty"`
}
