package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

// ExecuteOrder fills a queued order. For an iceberg order the fill covers the
// first leg only; for a cover order it covers the main leg only.
func (s *Service) ExecuteOrder(
	ctx context.Context,
	orderID uuid.UUID,
	request models.ExecuteRequest,
) (result models.ExecutionResult, err error) {
	const op = "Service.ExecuteOrder"

	if err := validateExecution(request); err != nil {
		return models.ExecutionResult{}, fmt.Errorf("%s: %w", op, err)
	}
	ctx = transitionLogContext(ctx, orderID, request.Actor)

	started := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("order.id", orderID.String()))
	var category models.Category
	defer func() {
		endSpan(span, err)
		s.observe(category, transitionExecute, err, started)
	}()

	now := s.now()
	var firstLeg *models.LegExecution

	err = s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		firstLeg = nil

		order, err := lockOrder(ctx, uow, orderID)
		if err != nil {
			return err
		}
		category = order.Category

		if !order.CanTransition() {
			return &serviceErrors.InvalidStateError{Entity: "order", Current: string(order.Status), Action: "execute"}
		}

		previous := order.Status
		price := request.ExecutionPrice
		order.Status = models.StatusExecuted
		order.ExecutionPrice = &price
		order.ExchangeOrderID = request.ExchangeOrderID
		order.ExecutedAt = timePtr(now)
		order.UpdatedAt = now

		var (
			view    models.OrderView
			outcome models.ChargesOutcome
		)

		switch order.Category {
		case models.CategoryInstant:
			detail, err := uow.Orders().GetInstantDetail(ctx, order.ID)
			if err != nil {
				return mapRepositoryError(err)
			}
			view.Instant = &detail
			outcome, err = s.settleCharges(ctx, uow, fillCharges(&order, detail.ProductType, price), now)
			if err != nil {
				return err
			}

		case models.CategoryNormal:
			detail, err := uow.Orders().GetNormalDetail(ctx, order.ID)
			if err != nil {
				return mapRepositoryError(err)
			}
			view.Normal = &detail
			outcome, err = s.settleCharges(ctx, uow, fillCharges(&order, detail.ProductType, price), now)
			if err != nil {
				return err
			}

		case models.CategoryIceberg:
			detail, err := uow.Icebergs().GetIcebergDetail(ctx, order.ID)
			if err != nil {
				return mapRepositoryError(err)
			}
			legs, err := uow.Icebergs().ListLegs(ctx, order.ID)
			if err != nil {
				return mapRepositoryError(err)
			}

			execution, err := s.executeQueuedLeg(ctx, uow, &order, &detail, legs, request, now)
			if err != nil {
				return err
			}
			view.Iceberg = &detail
			view.Legs = legs
			outcome = execution.Charges
			firstLeg = &execution

		case models.CategoryCover:
			detail, err := uow.Covers().GetCoverDetail(ctx, order.ID)
			if err != nil {
				return mapRepositoryError(err)
			}
			detail.MainOrderStatus = models.LegStatusExecuted
			if err := uow.Covers().UpdateCoverDetail(ctx, detail); err != nil {
				return mapRepositoryError(err)
			}
			view.Cover = &detail
			outcome, err = s.settleCharges(ctx, uow, fillCharges(&order, detail.ProductType, price), now)
			if err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown order category %q", order.Category)
		}

		if err := uow.Orders().UpdateOrder(ctx, order); err != nil {
			return mapRepositoryError(err)
		}

		remark := remarkOr(request.Remarks, "order executed")
		entry := models.NewHistory(order.ID, statusPtr(previous), models.StatusExecuted, remark, request.Actor, now)
		if err := appendHistory(ctx, uow, entry); err != nil {
			return err
		}

		view.Order = order
		result = models.ExecutionResult{View: view, Charges: outcome}
		return nil
	})
	if err != nil {
		return models.ExecutionResult{}, fmt.Errorf("%s: %w", op, err)
	}

	order := result.View.Order
	ctx = zapLogger.ContextWithUserID(ctx, order.UserID.String())
	zapLogger.Info(ctx, "order executed",
		zap.String("category", string(order.Category)),
		zap.String("execution_price", request.ExecutionPrice.String()),
		zap.Bool("charges_posted", result.Charges.Posted()),
	)

	s.notify(ctx, models.NewOrderExecutedEvent(order, result.Charges, now))
	if firstLeg != nil {
		s.notify(ctx, models.NewIcebergLegExecutedEvent(order, *firstLeg, now))
	}

	return result, nil
}

func fillCharges(order *models.Order, product models.ProductType, price decimal.Decimal) chargeTarget {
	return chargeTarget{
		order: order,
		scope: models.ChargeScopeOrder,
		input: models.ChargeInput{
			Quantity:    order.Quantity,
			Price:       price,
			Side:        order.Side,
			Exchange:    order.Exchange,
			ProductType: product,
		},
	}
}

func remarkOr(remark, fallback string) string {
	if remark == "" {
		return fallback
	}

	return remark
}
