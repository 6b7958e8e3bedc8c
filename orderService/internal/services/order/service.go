package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
)

const tracerName = "orderService/services/order"

type Service struct {
	transactor Transactor
	calculator ChargesCalculator
	prices     PriceSource
	notifier   Notifier
	limiter    RateLimiter
	metrics    MetricsRecorder
	tracer     trace.Tracer
	// charged is counted per transaction attempt; a retried transaction counts again.
	charged metric.Float64Counter

	createTimeout time.Duration
	notifyTimeout time.Duration
	now           func() time.Time
}

type Timeouts struct {
	// Create bounds price lookup plus the placement transaction; zero disables it.
	Create time.Duration
	Notify time.Duration
}

// Transactor runs fn inside one atomic unit of work. Implementations retry
// fn from scratch when the store reports a serialization conflict.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) error
}

type ChargesCalculator interface {
	Calculate(input models.ChargeInput) (models.ChargeBreakdown, error)
}

type PriceSource interface {
	ReferencePrice(ctx context.Context, symbol string, exchange models.Exchange) (decimal.Decimal, error)
}

// Notifier delivery is fire-and-forget: errors are logged, never returned to callers.
type Notifier interface {
	Notify(ctx context.Context, event models.Event) error
}

type RateLimiter interface {
	Allow(ctx context.Context, userID uuid.UUID) (bool, error)
}

type MetricsRecorder interface {
	ObserveTransition(category models.Category, transition string, err error, took time.Duration)
	IncChargeFailure(scope models.ChargeScope)
	IncInsufficientFunds(category models.Category)
}

func NewService(
	transactor Transactor,
	calculator ChargesCalculator,
	prices PriceSource,
	notifier Notifier,
	limiter RateLimiter,
	metrics MetricsRecorder,
	timeouts Timeouts,
) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if timeouts.Notify <= 0 {
		timeouts.Notify = 2 * time.Second
	}

	charged, err := otel.Meter(tracerName).Float64Counter("order.charges.posted",
		metric.WithDescription("Charge amounts posted to user funds"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &Service{
		transactor:    transactor,
		calculator:    calculator,
		prices:        prices,
		notifier:      notifier,
		limiter:       limiter,
		metrics:       metrics,
		tracer:        otel.Tracer(tracerName),
		charged:       charged,
		createTimeout: timeouts.Create,
		notifyTimeout: timeouts.Notify,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type nopMetrics struct{}

func (nopMetrics) ObserveTransition(models.Category, string, error, time.Duration) {}
func (nopMetrics) IncChargeFailure(models.ChargeScope)                            {}
func (nopMetrics) IncInsufficientFunds(models.Category)                           {}
