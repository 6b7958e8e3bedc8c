package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

// ExecuteStopLoss fills the protective leg of a cover order whose main leg
// has executed. The fill is always charged as a SELL.
func (s *Service) ExecuteStopLoss(
	ctx context.Context,
	orderID uuid.UUID,
	request models.ExecuteRequest,
) (result models.StopLossExecution, err error) {
	const op = "Service.ExecuteStopLoss"

	if err := validateExecution(request); err != nil {
		return models.StopLossExecution{}, fmt.Errorf("%s: %w", op, err)
	}
	ctx = transitionLogContext(ctx, orderID, request.Actor)

	started := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("order.id", orderID.String()))
	defer func() {
		endSpan(span, err)
		s.observe(models.CategoryCover, transitionStopLoss, err, started)
	}()

	now := s.now()

	err = s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		order, err := lockOrder(ctx, uow, orderID)
		if err != nil {
			return err
		}
		if order.Category != models.CategoryCover {
			return fmt.Errorf("cover order %s: %w", orderID, serviceErrors.ErrNotFound)
		}

		detail, err := uow.Covers().GetCoverDetail(ctx, order.ID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if detail.MainOrderStatus != models.LegStatusExecuted {
			return &serviceErrors.InvalidStateError{
				Entity:  "stop loss",
				Current: "main order " + string(detail.MainOrderStatus),
				Action:  "execute",
			}
		}
		if detail.StopLossOrderStatus.Terminal() {
			return &serviceErrors.InvalidStateError{
				Entity:  "stop loss",
				Current: string(detail.StopLossOrderStatus),
				Action:  "execute",
			}
		}

		price := request.ExecutionPrice
		detail.StopLossOrderStatus = models.LegStatusExecuted
		detail.StopLossExecPrice = &price
		detail.StopLossExchangeID = request.ExchangeOrderID
		detail.StopLossExecutedAt = timePtr(now)
		if err := uow.Covers().UpdateCoverDetail(ctx, detail); err != nil {
			return mapRepositoryError(err)
		}

		outcome, err := s.settleCharges(ctx, uow, chargeTarget{
			order: &order,
			scope: models.ChargeScopeStopLoss,
			input: models.ChargeInput{
				Quantity:    order.Quantity,
				Price:       price,
				Side:        models.SideSell,
				Exchange:    order.Exchange,
				ProductType: detail.ProductType,
			},
		}, now)
		if err != nil {
			return err
		}

		order.UpdatedAt = now
		if err := uow.Orders().UpdateOrder(ctx, order); err != nil {
			return mapRepositoryError(err)
		}

		remark := remarkOr(request.Remarks, "stop loss executed")
		entry := models.NewHistory(order.ID, statusPtr(order.Status), order.Status, remark, request.Actor, now)
		if err := appendHistory(ctx, uow, entry); err != nil {
			return err
		}

		result = models.StopLossExecution{Order: order, Cover: detail, Charges: outcome}
		return nil
	})
	if err != nil {
		return models.StopLossExecution{}, fmt.Errorf("%s: %w", op, err)
	}

	ctx = zapLogger.ContextWithUserID(ctx, result.Order.UserID.String())
	zapLogger.Info(ctx, "stop loss executed",
		zap.String("execution_price", request.ExecutionPrice.String()),
		zap.Bool("charges_posted", result.Charges.Posted()),
	)

	s.notify(ctx, models.NewStopLossExecutedEvent(result.Order, result.Cover, result.Charges, now))

	return result, nil
}
