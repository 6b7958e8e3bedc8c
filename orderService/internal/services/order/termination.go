package order

import (
	"context"
	"fmt"
	"strings"
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

type termination struct {
	action     string
	transition string
	status     models.Status
	legStatus  models.LegStatus
	remark     string
	actor      string
	// refundCharges deletes posted charge rows and returns their amount to the user.
	refundCharges bool
	mutate        func(order *models.Order, now time.Time)
}

func (s *Service) RejectOrder(
	ctx context.Context,
	orderID uuid.UUID,
	request models.RejectRequest,
) (models.TerminationResult, error) {
	const op = "Service.RejectOrder"

	reason := strings.TrimSpace(request.Reason)
	if reason == "" {
		return models.TerminationResult{}, fmt.Errorf("%s: %w", op,
			serviceErrors.NewValidationError("rejectionReason", "is required"))
	}

	result, err := s.terminate(ctx, orderID, termination{
		action:        "reject",
		transition:    transitionReject,
		status:        models.StatusRejected,
		legStatus:     models.LegStatusRejected,
		remark:        reason,
		actor:         request.Actor,
		refundCharges: true,
		mutate: func(order *models.Order, _ time.Time) {
			order.RejectionReason = &reason
		},
	})
	if err != nil {
		return models.TerminationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Service) CancelOrder(
	ctx context.Context,
	orderID uuid.UUID,
	request models.CancelRequest,
) (models.TerminationResult, error) {
	const op = "Service.CancelOrder"

	result, err := s.terminate(ctx, orderID, termination{
		action:     "cancel",
		transition: transitionCancel,
		status:     models.StatusCancelled,
		legStatus:  models.LegStatusCancelled,
		remark:     remarkOr(request.Remarks, "order cancelled"),
		actor:      request.Actor,
		mutate: func(order *models.Order, now time.Time) {
			order.CancelledAt = timePtr(now)
		},
	})
	if err != nil {
		return models.TerminationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// terminate moves a queued order to a terminal status, returns its reserved
// margin to the user and closes every open leg.
func (s *Service) terminate(ctx context.Context, orderID uuid.UUID, t termination) (result models.TerminationResult, err error) {
	ctx = transitionLogContext(ctx, orderID, t.actor)
	started := time.Now()
	ctx, span := s.startSpan(ctx, "Service."+t.transition,
		attribute.String("order.id", orderID.String()),
	)
	var category models.Category
	defer func() {
		endSpan(span, err)
		s.observe(category, t.transition, err, started)
	}()

	now := s.now()

	err = s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		order, err := lockOrder(ctx, uow, orderID)
		if err != nil {
			return err
		}
		category = order.Category

		if !order.CanTransition() {
			return &serviceErrors.InvalidStateError{Entity: "order", Current: string(order.Status), Action: t.action}
		}

		funds, err := loadFunds(ctx, uow, order.UserID)
		if err != nil {
			return fmt.Errorf("load funds: %w", err)
		}

		refunded := decimal.Zero
		if t.refundCharges {
			if _, err := uow.Charges().DeleteCharges(ctx, order.ID); err != nil {
				return fmt.Errorf("delete charges: %w", err)
			}
			refunded = order.TotalCharges
			if refunded.IsPositive() {
				funds.RefundCharges(refunded)
			}
			order.TotalCharges = decimal.Zero
		}

		released := order.ReservedMargin
		if err := funds.Release(released); err != nil {
			return fmt.Errorf("release margin %s: %w", released.StringFixed(marginPlaces), err)
		}
		funds.UpdatedAt = now
		if err := uow.Funds().SaveFunds(ctx, funds); err != nil {
			return fmt.Errorf("save funds: %w", err)
		}

		previous := order.Status
		order.Status = t.status
		order.UpdatedAt = now
		t.mutate(&order, now)

		view := models.OrderView{}
		if err := closeSubOrders(ctx, uow, &order, &view, t.legStatus, now); err != nil {
			return err
		}

		if err := uow.Orders().UpdateOrder(ctx, order); err != nil {
			return mapRepositoryError(err)
		}

		entry := models.NewHistory(order.ID, statusPtr(previous), t.status, t.remark, t.actor, now)
		if err := appendHistory(ctx, uow, entry); err != nil {
			return err
		}

		view.Order = order
		result = models.TerminationResult{View: view, ReleasedMargin: released, RefundedCharges: refunded}
		return nil
	})
	if err != nil {
		return models.TerminationResult{}, err
	}

	order := result.View.Order
	ctx = zapLogger.ContextWithUserID(ctx, order.UserID.String())
	zapLogger.Info(ctx, "order "+strings.ToLower(string(t.status)),
		zap.String("category", string(order.Category)),
		zap.String("released_margin", result.ReleasedMargin.StringFixed(marginPlaces)),
	)

	if t.status == models.StatusRejected {
		s.notify(ctx, models.NewOrderRejectedEvent(order, result.ReleasedMargin, result.RefundedCharges, now))
	} else {
		s.notify(ctx, models.NewOrderCancelledEvent(order, result.ReleasedMargin, now))
	}

	return result, nil
}

// closeSubOrders carries a terminal status into iceberg legs and both legs of
// a cover order, and loads the category detail into view.
func closeSubOrders(
	ctx context.Context,
	uow repository.UnitOfWork,
	order *models.Order,
	view *models.OrderView,
	status models.LegStatus,
	now time.Time,
) error {
	switch order.Category {
	case models.CategoryInstant:
		detail, err := uow.Orders().GetInstantDetail(ctx, order.ID)
		if err != nil {
			return mapRepositoryError(err)
		}
		view.Instant = &detail

	case models.CategoryNormal:
		detail, err := uow.Orders().GetNormalDetail(ctx, order.ID)
		if err != nil {
			return mapRepositoryError(err)
		}
		view.Normal = &detail

	case models.CategoryIceberg:
		detail, err := uow.Icebergs().GetIcebergDetail(ctx, order.ID)
		if err != nil {
			return mapRepositoryError(err)
		}
		legs, err := uow.Icebergs().ListLegs(ctx, order.ID)
		if err != nil {
			return mapRepositoryError(err)
		}

		for i := range legs {
			if legs[i].Status.Terminal() {
				continue
			}

			legs[i].Status = status
			if status == models.LegStatusCancelled {
				legs[i].CancelledAt = timePtr(now)
			}
			if err := uow.Icebergs().UpdateLeg(ctx, legs[i]); err != nil {
				return mapRepositoryError(err)
			}
		}

		detail.HasMoreLegs = false
		if err := uow.Icebergs().UpdateIcebergDetail(ctx, detail); err != nil {
			return mapRepositoryError(err)
		}
		view.Iceberg = &detail
		view.Legs = legs

	case models.CategoryCover:
		detail, err := uow.Covers().GetCoverDetail(ctx, order.ID)
		if err != nil {
			return mapRepositoryError(err)
		}

		detail.MainOrderStatus = status
		detail.StopLossOrderStatus = status
		if err := uow.Covers().UpdateCoverDetail(ctx, detail); err != nil {
			return mapRepositoryError(err)
		}
		view.Cover = &detail
	}

	return nil
}
