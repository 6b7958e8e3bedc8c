package order

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
)

func normalizePlacement(request *models.PlacementRequest) {
	request.Symbol = strings.ToUpper(strings.TrimSpace(request.Symbol))
	if request.Exchange == "" {
		request.Exchange = models.ExchangeNSE
	}
	if request.Actor == "" {
		request.Actor = models.DefaultActor
	}
}

func validatePlacement(request models.PlacementRequest) error {
	if request.UserID == uuid.Nil {
		return serviceErrors.NewValidationError("userId", "is required")
	}
	if request.Symbol == "" {
		return serviceErrors.NewValidationError("symbol", "is required")
	}
	if !request.Side.Valid() {
		return serviceErrors.NewValidationError("side", "must be BUY or SELL")
	}
	if !request.Exchange.Valid() {
		return serviceErrors.NewValidationError("exchange", "must be NSE or BSE")
	}
	if request.Quantity <= 0 {
		return serviceErrors.NewValidationError("quantity", "must be a positive integer")
	}
	if request.Price != nil && !request.Price.IsPositive() {
		return serviceErrors.NewValidationError("price", "must be positive")
	}

	return nil
}

func validateOrderType(orderType models.OrderType, price, trigger *decimal.Decimal) error {
	if !orderType.Valid() {
		return serviceErrors.NewValidationError("orderType", "is not supported")
	}
	if orderType.RequiresPrice() && price == nil {
		return serviceErrors.NewValidationError("price", "is required for "+string(orderType)+" orders")
	}
	if orderType.RequiresTrigger() {
		if trigger == nil {
			return serviceErrors.NewValidationError("triggerPrice", "is required for "+string(orderType)+" orders")
		}
		if !trigger.IsPositive() {
			return serviceErrors.NewValidationError("triggerPrice", "must be positive")
		}
	}

	return nil
}

func validateValidity(validity models.Validity, minutes *int32) error {
	if !validity.Valid() {
		return serviceErrors.NewValidationError("validity", "must be DAY, IMMEDIATE or MINUTES")
	}
	if validity == models.ValidityMinutes && (minutes == nil || *minutes <= 0) {
		return serviceErrors.NewValidationError("validityMinutes", "must be positive for MINUTES validity")
	}

	return nil
}

func validateProduct(product models.ProductType) error {
	if !product.Valid() {
		return serviceErrors.NewValidationError("productType", "is not supported")
	}

	return nil
}

func validateInstant(request models.InstantOrderRequest) error {
	if err := validatePlacement(request.PlacementRequest); err != nil {
		return err
	}
	if err := validateProduct(request.ProductType); err != nil {
		return err
	}
	if request.OrderType != models.OrderTypeMarket && request.OrderType != models.OrderTypeLimit {
		return serviceErrors.NewValidationError("orderType", "instant orders must be MARKET or LIMIT")
	}

	return validateOrderType(request.OrderType, request.Price, nil)
}

func validateNormal(request models.NormalOrderRequest) error {
	if err := validatePlacement(request.PlacementRequest); err != nil {
		return err
	}
	if err := validateProduct(request.ProductType); err != nil {
		return err
	}
	if err := validateOrderType(request.OrderType, request.Price, request.TriggerPrice); err != nil {
		return err
	}
	if err := validateValidity(request.Validity, request.ValidityMinutes); err != nil {
		return err
	}
	if disclosed := request.DisclosedQuantity; disclosed != nil {
		if *disclosed <= 0 || *disclosed > request.Quantity {
			return serviceErrors.NewValidationError("disclosedQuantity", "must be between 1 and quantity")
		}
	}

	return nil
}

func validateIceberg(request models.IcebergOrderRequest) error {
	if err := validatePlacement(request.PlacementRequest); err != nil {
		return err
	}
	if err := validateProduct(request.ProductType); err != nil {
		return err
	}
	if err := validateOrderType(request.OrderType, request.Price, request.TriggerPrice); err != nil {
		return err
	}
	if err := validateValidity(request.Validity, request.ValidityMinutes); err != nil {
		return err
	}
	if request.DisclosedQuantity <= 0 || request.DisclosedQuantity > request.Quantity {
		return serviceErrors.NewValidationError("disclosedQuantity", "must be between 1 and quantity")
	}
	if request.NumberOfLegs <= 0 {
		return serviceErrors.NewValidationError("numberOfLegs", "must be positive")
	}
	// Every leg must carry at least one unit.
	if int64(request.NumberOfLegs) > request.Quantity {
		return serviceErrors.NewValidationError("numberOfLegs", "must not exceed quantity")
	}

	return nil
}

func validateCover(request models.CoverOrderRequest) error {
	if err := validatePlacement(request.PlacementRequest); err != nil {
		return err
	}
	if request.OrderType != models.OrderTypeMarket && request.OrderType != models.OrderTypeLimit {
		return serviceErrors.NewValidationError("orderType", "cover orders must be MARKET or LIMIT")
	}
	if err := validateOrderType(request.OrderType, request.Price, nil); err != nil {
		return err
	}
	if !request.StopLossPrice.IsPositive() {
		return serviceErrors.NewValidationError("stopLossPrice", "must be positive")
	}
	if request.Price != nil {
		return validateStopLoss(request.Side, request.StopLossPrice, *request.Price)
	}

	return nil
}

// validateStopLoss keeps the protective leg on the losing side of the entry price.
func validateStopLoss(side models.Side, stopLoss, price decimal.Decimal) error {
	if side == models.SideBuy && !stopLoss.LessThan(price) {
		return serviceErrors.NewValidationError("stopLossPrice", "stop loss price must be less than price")
	}
	if side == models.SideSell && !stopLoss.GreaterThan(price) {
		return serviceErrors.NewValidationError("stopLossPrice", "stop loss price must be greater than price")
	}

	return nil
}

func validateExecution(request models.ExecuteRequest) error {
	if !request.ExecutionPrice.IsPositive() {
		return serviceErrors.NewValidationError("executionPrice", "must be positive")
	}
	if request.ExchangeOrderID != nil && strings.TrimSpace(*request.ExchangeOrderID) == "" {
		return serviceErrors.NewValidationError("exchangeOrderId", "must not be blank")
	}

	return nil
}
