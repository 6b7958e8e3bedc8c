package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

const (
	transitionCreate   = "create"
	transitionExecute  = "execute"
	transitionLeg      = "execute_leg"
	transitionStopLoss = "execute_stop_loss"
	transitionReject   = "reject"
	transitionCancel   = "cancel"
)

func (s *Service) startSpan(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attributes...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Service) observe(category models.Category, transition string, err error, started time.Time) {
	s.metrics.ObserveTransition(category, transition, err, time.Since(started))
}

// transitionLogContext tags every entry logged for one order transition.
func transitionLogContext(ctx context.Context, orderID uuid.UUID, actor string) context.Context {
	if strings.TrimSpace(actor) == "" {
		actor = models.DefaultActor
	}

	return zapLogger.ContextWithActor(zapLogger.ContextWithOrderID(ctx, orderID.String()), actor)
}

// notify runs after commit on a context that outlives the request.
func (s *Service) notify(ctx context.Context, event models.Event) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, event); err != nil {
		zapLogger.Warn(ctx, "failed to deliver order notification",
			zap.String("event_type", string(event.Type())),
			zap.Error(err),
		)
	}
}

func (s *Service) checkCreateRateLimit(ctx context.Context, request models.PlacementRequest) error {
	if s.limiter == nil {
		return nil
	}

	allowed, err := s.limiter.Allow(ctx, request.UserID)
	if err != nil {
		return err
	}
	if !allowed {
		return serviceErrors.ErrRateLimitExceeded
	}

	return nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repositoryErrors.ErrOrderNotFound):
		return serviceErrors.ErrOrderNotFound
	case errors.Is(err, repositoryErrors.ErrOrderAlreadyExists):
		return serviceErrors.ErrOrderAlreadyExists
	case errors.Is(err, repositoryErrors.ErrDetailNotFound),
		errors.Is(err, repositoryErrors.ErrIcebergDetailNotFound),
		errors.Is(err, repositoryErrors.ErrCoverDetailNotFound),
		errors.Is(err, repositoryErrors.ErrLegNotFound):
		return fmt.Errorf("%w: %w", serviceErrors.ErrNotFound, err)
	default:
		return err
	}
}

func lockOrder(ctx context.Context, uow repository.UnitOfWork, orderID uuid.UUID) (models.Order, error) {
	order, err := uow.Orders().GetOrderForUpdate(ctx, orderID)
	if err != nil {
		return models.Order{}, mapRepositoryError(err)
	}

	return order, nil
}

// loadFunds treats a user without a funds row as holding nothing.
func loadFunds(ctx context.Context, uow repository.UnitOfWork, userID uuid.UUID) (models.UserFunds, error) {
	funds, err := uow.Funds().GetFundsForUpdate(ctx, userID)
	if errors.Is(err, repositoryErrors.ErrFundsNotFound) {
		return models.UserFunds{UserID: userID}, nil
	}

	return funds, err
}

func appendHistory(ctx context.Context, uow repository.UnitOfWork, entry models.OrderHistory) error {
	if err := uow.History().AppendHistory(ctx, entry); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	return nil
}

func statusPtr(status models.Status) *models.Status {
	return &status
}

func timePtr(at time.Time) *time.Time {
	return &at
}
