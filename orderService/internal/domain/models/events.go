package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventInstantOrderCreated EventType = "INSTANT_ORDER_CREATED"
	EventNormalOrderCreated  EventType = "NORMAL_ORDER_CREATED"
	EventIcebergOrderCreated EventType = "ICEBERG_ORDER_CREATED"
	EventCoverOrderCreated   EventType = "COVER_ORDER_CREATED"
	EventOrderExecuted       EventType = "ORDER_EXECUTED"
	EventIcebergLegExecuted  EventType = "ICEBERG_LEG_EXECUTED"
	EventStopLossExecuted    EventType = "STOP_LOSS_EXECUTED"
	EventOrderRejected       EventType = "ORDER_REJECTED"
	EventOrderCancelled      EventType = "ORDER_CANCELLED"
)

// Event is implemented by every transition announcement; the concrete type
// fixes the payload shape.
type Event interface {
	Type() EventType
	AggregateID() uuid.UUID
	UserID() uuid.UUID
	OccurredAt() time.Time
}

type eventBase struct {
	Order Order
	At    time.Time
}

func (e eventBase) AggregateID() uuid.UUID { return e.Order.ID }
func (e eventBase) UserID() uuid.UUID      { return e.Order.UserID }
func (e eventBase) OccurredAt() time.Time  { return e.At }

type OrderCreatedEvent struct {
	eventBase
	RequiredMargin decimal.Decimal
	FundsAfter     UserFunds
	Legs           []IcebergLeg
	Cover          *CoverOrderDetail
}

func NewOrderCreatedEvent(order Order, margin decimal.Decimal, funds UserFunds, at time.Time) OrderCreatedEvent {
	return OrderCreatedEvent{
		eventBase:      eventBase{Order: order, At: at},
		RequiredMargin: margin,
		FundsAfter:     funds,
	}
}

func (e OrderCreatedEvent) Type() EventType {
	switch e.Order.Category {
	case CategoryInstant:
		return EventInstantOrderCreated
	case CategoryIceberg:
		return EventIcebergOrderCreated
	case CategoryCover:
		return EventCoverOrderCreated
	default:
		return EventNormalOrderCreated
	}
}

type OrderExecutedEvent struct {
	eventBase
	Charges ChargesOutcome
}

func NewOrderExecutedEvent(order Order, charges ChargesOutcome, at time.Time) OrderExecutedEvent {
	return OrderExecutedEvent{eventBase: eventBase{Order: order, At: at}, Charges: charges}
}

func (OrderExecutedEvent) Type() EventType { return EventOrderExecuted }

type IcebergLegExecutedEvent struct {
	eventBase
	Leg         IcebergLeg
	NextLeg     *IcebergLeg
	HasMoreLegs bool
	Charges     ChargesOutcome
}

func NewIcebergLegExecutedEvent(order Order, result LegExecution, at time.Time) IcebergLegExecutedEvent {
	return IcebergLegExecutedEvent{
		eventBase:   eventBase{Order: order, At: at},
		Leg:         result.Leg,
		NextLeg:     result.NextLeg,
		HasMoreLegs: result.HasMoreLegs,
		Charges:     result.Charges,
	}
}

func (IcebergLegExecutedEvent) Type() EventType { return EventIcebergLegExecuted }

type StopLossExecutedEvent struct {
	eventBase
	Cover   CoverOrderDetail
	Charges ChargesOutcome
}

func NewStopLossExecutedEvent(order Order, cover CoverOrderDetail, charges ChargesOutcome, at time.Time) StopLossExecutedEvent {
	return StopLossExecutedEvent{eventBase: eventBase{Order: order, At: at}, Cover: cover, Charges: charges}
}

func (StopLossExecutedEvent) Type() EventType { return EventStopLossExecuted }

type OrderRejectedEvent struct {
	eventBase
	Reason          string
	ReleasedMargin  decimal.Decimal
	RefundedCharges decimal.Decimal
}

func NewOrderRejectedEvent(order Order, released, refunded decimal.Decimal, at time.Time) OrderRejectedEvent {
	reason := ""
	if order.RejectionReason != nil {
		reason = *order.RejectionReason
	}

	return OrderRejectedEvent{
		eventBase:       eventBase{Order: order, At: at},
		Reason:          reason,
		ReleasedMargin:  released,
		RefundedCharges: refunded,
	}
}

func (OrderRejectedEvent) Type() EventType { return EventOrderRejected }

type OrderCancelledEvent struct {
	eventBase
	ReleasedMargin decimal.Decimal
}

func NewOrderCancelledEvent(order Order, released decimal.Decimal, at time.Time) OrderCancelledEvent {
	return OrderCancelledEvent{eventBase: eventBase{Order: order, At: at}, ReleasedMargin: released}
}

func (OrderCancelledEvent) Type() EventType { return EventOrderCancelled }

// Results returned by the state machine.

type CreateResult struct {
	View           OrderView
	RequiredMargin decimal.Decimal
	Funds          UserFunds
}

type ExecutionResult struct {
	View    OrderView
	Charges ChargesOutcome
}

type LegExecution struct {
	Leg         IcebergLeg
	NextLeg     *IcebergLeg
	HasMoreLegs bool
	Charges     ChargesOutcome
}

type StopLossExecution struct {
	Order   Order
	Cover   CoverOrderDetail
	Charges ChargesOutcome
}

type TerminationResult struct {
	View            OrderView
	ReleasedMargin  decimal.Decimal
	RefundedCharges decimal.Decimal
}

type ChargesReport struct {
	OrderID  uuid.UUID
	Charges  []Charge
	Failures []OrderChargeFailure
	Total    decimal.Decimal
}
