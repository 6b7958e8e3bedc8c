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

// ExecuteNextIcebergLeg fills the single queued leg of an executed iceberg
// order and promotes the following pending leg.
func (s *Service) ExecuteNextIcebergLeg(
	ctx context.Context,
	orderID uuid.UUID,
	request models.ExecuteRequest,
) (result models.LegExecution, err error) {
	const op = "Service.ExecuteNextIcebergLeg"

	if err := validateExecution(request); err != nil {
		return models.LegExecution{}, fmt.Errorf("%s: %w", op, err)
	}
	ctx = transitionLogContext(ctx, orderID, request.Actor)

	started := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("order.id", orderID.String()))
	defer func() {
		endSpan(span, err)
		s.observe(models.CategoryIceberg, transitionLeg, err, started)
	}()

	now := s.now()
	var order models.Order

	err = s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		locked, err := lockOrder(ctx, uow, orderID)
		if err != nil {
			return err
		}
		if locked.Category != models.CategoryIceberg {
			return fmt.Errorf("iceberg order %s: %w", orderID, serviceErrors.ErrNotFound)
		}
		if locked.Status != models.StatusExecuted {
			return &serviceErrors.InvalidStateError{
				Entity:  "iceberg order",
				Current: string(locked.Status),
				Action:  "execute next leg of",
			}
		}

		detail, err := uow.Icebergs().GetIcebergDetail(ctx, locked.ID)
		if err != nil {
			return mapRepositoryError(err)
		}
		legs, err := uow.Icebergs().ListLegs(ctx, locked.ID)
		if err != nil {
			return mapRepositoryError(err)
		}

		execution, err := s.executeQueuedLeg(ctx, uow, &locked, &detail, legs, request, now)
		if err != nil {
			return err
		}

		locked.UpdatedAt = now
		if err := uow.Orders().UpdateOrder(ctx, locked); err != nil {
			return mapRepositoryError(err)
		}

		remark := remarkOr(request.Remarks, fmt.Sprintf("iceberg leg %d executed", execution.Leg.LegNumber))
		entry := models.NewHistory(locked.ID, statusPtr(models.StatusExecuted), models.StatusExecuted, remark, request.Actor, now)
		if err := appendHistory(ctx, uow, entry); err != nil {
			return err
		}

		order = locked
		result = execution
		return nil
	})
	if err != nil {
		return models.LegExecution{}, fmt.Errorf("%s: %w", op, err)
	}

	ctx = zapLogger.ContextWithUserID(ctx, order.UserID.String())
	zapLogger.Info(ctx, "iceberg leg executed",
		zap.Int32("leg_number", result.Leg.LegNumber),
		zap.Bool("has_more_legs", result.HasMoreLegs),
	)

	s.notify(ctx, models.NewIcebergLegExecutedEvent(order, result, now))

	return result, nil
}

// executeQueuedLeg fills the queued leg, promotes its successor and posts the
// leg's charges against order. legs must be ordered by leg number and are
// updated in place.
func (s *Service) executeQueuedLeg(
	ctx context.Context,
	uow repository.UnitOfWork,
	order *models.Order,
	detail *models.IcebergOrderDetail,
	legs []models.IcebergLeg,
	request models.ExecuteRequest,
	now time.Time,
) (models.LegExecution, error) {
	current := -1
	for i := range legs {
		if legs[i].Status == models.LegStatusQueued {
			current = i
			break
		}
	}
	if current < 0 {
		return models.LegExecution{}, serviceErrors.ErrNoMoreLegs
	}

	price := request.ExecutionPrice
	leg := &legs[current]
	leg.Status = models.LegStatusExecuted
	leg.ExecutionPrice = &price
	leg.ExchangeOrderID = request.ExchangeOrderID
	leg.ExecutedAt = timePtr(now)
	if err := uow.Icebergs().UpdateLeg(ctx, *leg); err != nil {
		return models.LegExecution{}, mapRepositoryError(err)
	}

	var next *models.IcebergLeg
	for i := current + 1; i < len(legs); i++ {
		if legs[i].Status != models.LegStatusPending {
			continue
		}

		legs[i].Status = models.LegStatusQueued
		if err := uow.Icebergs().UpdateLeg(ctx, legs[i]); err != nil {
			return models.LegExecution{}, mapRepositoryError(err)
		}

		promoted := legs[i]
		next = &promoted
		break
	}

	detail.HasMoreLegs = next != nil
	if err := uow.Icebergs().UpdateIcebergDetail(ctx, *detail); err != nil {
		return models.LegExecution{}, mapRepositoryError(err)
	}

	legID := leg.ID
	outcome, err := s.settleCharges(ctx, uow, chargeTarget{
		order: order,
		legID: &legID,
		scope: models.ChargeScopeLeg,
		input: models.ChargeInput{
			Quantity:    leg.Quantity,
			Price:       price,
			Side:        order.Side,
			Exchange:    order.Exchange,
			ProductType: detail.ProductType,
		},
	}, now)
	if err != nil {
		return models.LegExecution{}, err
	}

	return models.LegExecution{
		Leg:         *leg,
		NextLeg:     next,
		HasMoreLegs: detail.HasMoreLegs,
		Charges:     outcome,
	}, nil
}
