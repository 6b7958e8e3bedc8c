package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
	"github.com/nastyazhadan/order-settlement/shared/infra/db"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

type chargeTarget struct {
	order *models.Order
	legID *uuid.UUID
	scope models.ChargeScope
	input models.ChargeInput
}

// settleCharges computes and posts the charges of one fill. A failure is kept
// as an OrderChargeFailure row and surfaced as a warning, except a store
// conflict, which aborts the transition so the transaction is replayed.
func (s *Service) settleCharges(ctx context.Context, uow repository.UnitOfWork, target chargeTarget, at time.Time) (models.ChargesOutcome, error) {
	breakdown, err := s.calculator.Calculate(target.input)
	if err != nil {
		if err := s.recordChargeFailure(ctx, uow, target, err, at); err != nil {
			return models.ChargesOutcome{}, err
		}
		return models.ChargesOutcome{Warning: chargeWarning(err)}, nil
	}

	err = uow.Savepoint(ctx, func(ctx context.Context) error {
		charges := models.ChargesFromBreakdown(target.order.ID, target.legID, target.scope, breakdown, at)
		if err := uow.Charges().SaveCharges(ctx, charges); err != nil {
			return fmt.Errorf("save charges: %w", err)
		}

		funds, err := loadFunds(ctx, uow, target.order.UserID)
		if err != nil {
			return fmt.Errorf("load funds: %w", err)
		}

		funds.DebitCharges(breakdown.Total)
		funds.UpdatedAt = at
		if err := uow.Funds().SaveFunds(ctx, funds); err != nil {
			return fmt.Errorf("debit funds: %w", err)
		}

		return nil
	})
	if err != nil {
		if isConflict(err) {
			return models.ChargesOutcome{}, fmt.Errorf("post charges: %w", err)
		}
		if err := s.recordChargeFailure(ctx, uow, target, err, at); err != nil {
			return models.ChargesOutcome{}, err
		}
		return models.ChargesOutcome{Breakdown: &breakdown, Warning: chargeWarning(err)}, nil
	}

	target.order.TotalCharges = target.order.TotalCharges.Add(breakdown.Total)
	if s.charged != nil {
		s.charged.Add(ctx, breakdown.Total.InexactFloat64(),
			metric.WithAttributes(attribute.String("scope", string(target.scope))),
		)
	}
	return models.ChargesOutcome{Breakdown: &breakdown}, nil
}

// recordChargeFailure only returns an error on a store conflict; other write
// failures are logged and the transition goes on.
func (s *Service) recordChargeFailure(ctx context.Context, uow repository.UnitOfWork, target chargeTarget, cause error, at time.Time) error {
	s.metrics.IncChargeFailure(target.scope)

	zapLogger.Warn(ctx, "charges not applied",
		zap.String("scope", string(target.scope)),
		zap.Error(cause),
	)

	failure := models.OrderChargeFailure{
		ID:        uuid.New(),
		OrderID:   target.order.ID,
		LegID:     target.legID,
		Scope:     target.scope,
		Reason:    cause.Error(),
		CreatedAt: at,
	}

	err := uow.Savepoint(ctx, func(ctx context.Context) error {
		return uow.Charges().SaveChargeFailure(ctx, failure)
	})
	if isConflict(err) {
		return fmt.Errorf("record charge failure: %w", err)
	}
	if err != nil {
		zapLogger.Error(ctx, "failed to record charge failure", zap.Error(err))
	}

	return nil
}

func isConflict(err error) bool {
	return db.IsRetryable(err) || errors.Is(err, repositoryErrors.ErrSerialization)
}

func chargeWarning(err error) string {
	return "charges could not be applied: " + err.Error()
}
