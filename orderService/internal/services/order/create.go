package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

const marginPlaces = 2

type placement struct {
	request  models.PlacementRequest
	category models.Category
	product  models.ProductType

	// checkReference runs against the resolved reference price before any write.
	checkReference func(reference decimal.Decimal) error
	// persistDetail stores the category records of view.Order and attaches them to view.
	persistDetail func(ctx context.Context, uow repository.UnitOfWork, view *models.OrderView) error
}

func (s *Service) CreateInstantOrder(ctx context.Context, request models.InstantOrderRequest) (models.CreateResult, error) {
	const op = "Service.CreateInstantOrder"

	normalizePlacement(&request.PlacementRequest)
	if request.ProductType == "" {
		request.ProductType = models.ProductDelivery
	}
	if err := validateInstant(request); err != nil {
		return models.CreateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.place(ctx, placement{
		request:  request.PlacementRequest,
		category: models.CategoryInstant,
		product:  request.ProductType,
		persistDetail: func(ctx context.Context, uow repository.UnitOfWork, view *models.OrderView) error {
			detail := models.InstantOrderDetail{
				OrderID:     view.Order.ID,
				ProductType: request.ProductType,
				OrderType:   request.OrderType,
			}
			if err := uow.Orders().SaveInstantDetail(ctx, detail); err != nil {
				return err
			}

			view.Instant = &detail
			return nil
		},
	})
	if err != nil {
		return models.CreateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Service) CreateNormalOrder(ctx context.Context, request models.NormalOrderRequest) (models.CreateResult, error) {
	const op = "Service.CreateNormalOrder"

	normalizePlacement(&request.PlacementRequest)
	if request.ProductType == "" {
		request.ProductType = models.ProductDelivery
	}
	if request.Validity == "" {
		request.Validity = models.ValidityDay
	}
	if err := validateNormal(request); err != nil {
		return models.CreateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.place(ctx, placement{
		request:  request.PlacementRequest,
		category: models.CategoryNormal,
		product:  request.ProductType,
		persistDetail: func(ctx context.Context, uow repository.UnitOfWork, view *models.OrderView) error {
			detail := models.NormalOrderDetail{
				OrderID:           view.Order.ID,
				ProductType:       request.ProductType,
				OrderType:         request.OrderType,
				TriggerPrice:      request.TriggerPrice,
				Validity:          request.Validity,
				ValidityMinutes:   request.ValidityMinutes,
				DisclosedQuantity: request.DisclosedQuantity,
			}
			if err := uow.Orders().SaveNormalDetail(ctx, detail); err != nil {
				return err
			}

			view.Normal = &detail
			return nil
		},
	})
	if err != nil {
		return models.CreateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Service) CreateIcebergOrder(ctx context.Context, request models.IcebergOrderRequest) (models.CreateResult, error) {
	const op = "Service.CreateIcebergOrder"

	normalizePlacement(&request.PlacementRequest)
	if request.ProductType == "" {
		request.ProductType = models.ProductDelivery
	}
	if request.Validity == "" {
		request.Validity = models.ValidityDay
	}
	if err := validateIceberg(request); err != nil {
		return models.CreateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.place(ctx, placement{
		request:  request.PlacementRequest,
		category: models.CategoryIceberg,
		product:  request.ProductType,
		persistDetail: func(ctx context.Context, uow repository.UnitOfWork, view *models.OrderView) error {
			detail := models.IcebergOrderDetail{
				OrderID:           view.Order.ID,
				NumberOfLegs:      request.NumberOfLegs,
				ProductType:       request.ProductType,
				OrderType:         request.OrderType,
				TriggerPrice:      request.TriggerPrice,
				Validity:          request.Validity,
				ValidityMinutes:   request.ValidityMinutes,
				DisclosedQuantity: request.DisclosedQuantity,
				HasMoreLegs:       true,
			}
			if err := uow.Icebergs().SaveIcebergDetail(ctx, detail); err != nil {
				return err
			}

			legs := models.SplitLegs(view.Order.ID, request.Quantity, request.NumberOfLegs)
			if err := uow.Icebergs().SaveLegs(ctx, legs); err != nil {
				return err
			}

			view.Iceberg = &detail
			view.Legs = legs
			return nil
		},
	})
	if err != nil {
		return models.CreateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Service) CreateCoverOrder(ctx context.Context, request models.CoverOrderRequest) (models.CreateResult, error) {
	const op = "Service.CreateCoverOrder"

	normalizePlacement(&request.PlacementRequest)
	if request.OrderType == "" {
		request.OrderType = models.OrderTypeMarket
	}
	if err := validateCover(request); err != nil {
		return models.CreateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.place(ctx, placement{
		request:  request.PlacementRequest,
		category: models.CategoryCover,
		product:  models.ProductIntraday,
		checkReference: func(reference decimal.Decimal) error {
			return validateStopLoss(request.Side, request.StopLossPrice, reference)
		},
		persistDetail: func(ctx context.Context, uow repository.UnitOfWork, view *models.OrderView) error {
			detail := models.CoverOrderDetail{
				OrderID:             view.Order.ID,
				StopLossPrice:       request.StopLossPrice,
				OrderType:           request.OrderType,
				ProductType:         models.ProductIntraday,
				MainOrderStatus:     models.LegStatusQueued,
				StopLossOrderStatus: models.LegStatusPending,
			}
			if err := uow.Covers().SaveCoverDetail(ctx, detail); err != nil {
				return err
			}

			view.Cover = &detail
			return nil
		},
	})
	if err != nil {
		return models.CreateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Service) place(ctx context.Context, p placement) (result models.CreateResult, err error) {
	ctx = zapLogger.ContextWithActor(zapLogger.ContextWithUserID(ctx, p.request.UserID.String()), p.request.Actor)
	started := time.Now()
	ctx, span := s.startSpan(ctx, "Service.place",
		attribute.String("order.category", string(p.category)),
		attribute.String("order.symbol", p.request.Symbol),
	)
	defer func() {
		endSpan(span, err)
		s.observe(p.category, transitionCreate, err, started)
	}()

	if s.createTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.createTimeout)
		defer cancel()
	}

	if err = s.checkCreateRateLimit(ctx, p.request); err != nil {
		return models.CreateResult{}, err
	}

	reference, err := s.referencePrice(ctx, p.request)
	if err != nil {
		return models.CreateResult{}, err
	}
	if p.checkReference != nil {
		if err = p.checkReference(reference); err != nil {
			return models.CreateResult{}, err
		}
	}

	margin := requiredMargin(p.request.Quantity, reference, p.product)
	now := s.now()

	err = s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		funds, err := loadFunds(ctx, uow, p.request.UserID)
		if err != nil {
			return fmt.Errorf("load funds: %w", err)
		}
		if funds.Available.LessThan(margin) {
			return &serviceErrors.InsufficientFundsError{Required: margin, Available: funds.Available}
		}
		if margin.IsPositive() {
			if err := funds.Reserve(margin); err != nil {
				return fmt.Errorf("reserve margin: %w", err)
			}
		}
		funds.UpdatedAt = now
		if err := uow.Funds().SaveFunds(ctx, funds); err != nil {
			return fmt.Errorf("save funds: %w", err)
		}

		order := models.Order{
			ID:             uuid.New(),
			UserID:         p.request.UserID,
			Symbol:         p.request.Symbol,
			Exchange:       p.request.Exchange,
			Side:           p.request.Side,
			Quantity:       p.request.Quantity,
			Price:          p.request.Price,
			Category:       p.category,
			Status:         models.StatusQueued,
			ReservedMargin: margin,
			TotalCharges:   decimal.Zero,
			PlacedAt:       now,
			UpdatedAt:      now,
		}
		if err := uow.Orders().CreateOrder(ctx, order); err != nil {
			return mapRepositoryError(err)
		}

		view := models.OrderView{Order: order}
		if err := p.persistDetail(ctx, uow, &view); err != nil {
			return mapRepositoryError(err)
		}

		entry := models.NewHistory(order.ID, nil, models.StatusQueued, "order placed", p.request.Actor, now)
		if err := appendHistory(ctx, uow, entry); err != nil {
			return err
		}

		result = models.CreateResult{View: view, RequiredMargin: margin, Funds: funds}
		return nil
	})
	if err != nil {
		var insufficient *serviceErrors.InsufficientFundsError
		if errors.As(err, &insufficient) {
			s.recordFailedAttempt(ctx, p, insufficient, now)
		}

		return models.CreateResult{}, err
	}

	ctx = zapLogger.ContextWithOrderID(ctx, result.View.Order.ID.String())
	zapLogger.Info(ctx, "order placed",
		zap.String("category", string(p.category)),
		zap.String("required_margin", margin.StringFixed(marginPlaces)),
	)

	event := models.NewOrderCreatedEvent(result.View.Order, margin, result.Funds, now)
	event.Legs = result.View.Legs
	event.Cover = result.View.Cover
	s.notify(ctx, event)

	return result, nil
}

// requiredMargin is quantity × reference × factor, rounded to paise.
func requiredMargin(quantity int64, reference decimal.Decimal, product models.ProductType) decimal.Decimal {
	return reference.
		Mul(decimal.NewFromInt(quantity)).
		Mul(product.MarginFactor()).
		Round(marginPlaces)
}

func (s *Service) referencePrice(ctx context.Context, request models.PlacementRequest) (decimal.Decimal, error) {
	if request.Price != nil {
		return *request.Price, nil
	}
	if s.prices == nil {
		return decimal.Zero, serviceErrors.ErrPriceUnavailable
	}

	price, err := s.prices.ReferencePrice(ctx, request.Symbol, request.Exchange)
	if err != nil {
		if errors.Is(err, repositoryErrors.ErrInstrumentNotFound) {
			return decimal.Zero, serviceErrors.NewValidationError("symbol", "unknown instrument "+request.Symbol)
		}

		return decimal.Zero, fmt.Errorf("%w: %w", serviceErrors.ErrPriceUnavailable, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive price for %s", serviceErrors.ErrPriceUnavailable, request.Symbol)
	}

	return price, nil
}

// recordFailedAttempt writes the audit row in its own transaction; the refused
// creation has already rolled back.
func (s *Service) recordFailedAttempt(
	ctx context.Context,
	p placement,
	insufficient *serviceErrors.InsufficientFundsError,
	at time.Time,
) {
	s.metrics.IncInsufficientFunds(p.category)

	attempt := models.FailedOrderAttempt{
		ID:             uuid.New(),
		UserID:         p.request.UserID,
		Symbol:         p.request.Symbol,
		Category:       p.category,
		Side:           p.request.Side,
		Quantity:       p.request.Quantity,
		Price:          p.request.Price,
		RequiredMargin: insufficient.Required,
		AvailableFunds: insufficient.Available,
		Reason:         insufficient.Error(),
		CreatedAt:      at,
	}

	err := s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		return uow.Attempts().SaveFailedAttempt(ctx, attempt)
	})
	if err != nil {
		zapLogger.Error(ctx, "failed to record failed order attempt", zap.Error(err))
		return
	}

	zapLogger.Info(ctx, "order refused for insufficient funds",
		zap.String("attempt_id", attempt.ID.String()),
		zap.String("required", insufficient.Required.StringFixed(marginPlaces)),
		zap.String("available", insufficient.Available.StringFixed(marginPlaces)),
	)
}
