package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultActor = "system"

// OrderHistory rows are append-only.
type OrderHistory struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	PreviousStatus *Status
	NewStatus      Status
	Remark         string
	Actor          string
	CreatedAt      time.Time
}

func NewHistory(orderID uuid.UUID, previous *Status, next Status, remark, actor string, at time.Time) OrderHistory {
	if actor == "" {
		actor = DefaultActor
	}

	return OrderHistory{
		ID:             uuid.New(),
		OrderID:        orderID,
		PreviousStatus: previous,
		NewStatus:      next,
		Remark:         remark,
		Actor:          actor,
		CreatedAt:      at,
	}
}
