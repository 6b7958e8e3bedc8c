package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
)

type Funds struct {
	UserID    uuid.UUID       `db:"user_id"`
	Total     decimal.Decimal `db:"total"`
	Available decimal.Decimal `db:"available"`
	Used      decimal.Decimal `db:"used"`
	Blocked   decimal.Decimal `db:"blocked"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (f Funds) ToDomain() models.UserFunds {
	return models.UserFunds{
		UserID:    f.UserID,
		Total:     f.Total,
		Available: f.Available,
		Used:      f.Used,
		Blocked:   f.Blocked,
		UpdatedAt: f.UpdatedAt,
	}
}

type Charge struct {
	ID           uuid.UUID       `db:"id"`
	OrderID      uuid.UUID       `db:"order_id"`
	LegID        *uuid.UUID      `db:"leg_id"`
	Scope        string          `db:"scope"`
	Type         string          `db:"charge_type"`
	Amount       decimal.Decimal `db:"amount"`
	IsPercentage bool            `db:"is_percentage"`
	Percentage   decimal.Decimal `db:"percentage"`
	TaxableBase  decimal.Decimal `db:"taxable_base"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (c Charge) ToDomain() models.Charge {
	return models.Charge{
		ID:           c.ID,
		OrderID:      c.OrderID,
		LegID:        c.LegID,
		Scope:        models.ChargeScope(c.Scope),
		Type:         models.ChargeType(c.Type),
		Amount:       c.Amount,
		IsPercentage: c.IsPercentage,
		Percentage:   c.Percentage,
		TaxableBase:  c.TaxableBase,
		CreatedAt:    c.CreatedAt,
	}
}

type ChargeFailure struct {
	ID        uuid.UUID  `db:"id"`
	OrderID   uuid.UUID  `db:"order_id"`
	LegID     *uuid.UUID `db:"leg_id"`
	Scope     string     `db:"scope"`
	Reason    string     `db:"reason"`
	CreatedAt time.Time  `db:"created_at"`
}

func (c ChargeFailure) ToDomain() models.OrderChargeFailure {
	return models.OrderChargeFailure{
		ID:        c.ID,
		OrderID:   c.OrderID,
		LegID:     c.LegID,
		Scope:     models.ChargeScope(c.Scope),
		Reason:    c.Reason,
		CreatedAt: c.CreatedAt,
	}
}

type History struct {
	ID             uuid.UUID `db:"id"`
	OrderID        uuid.UUID `db:"order_id"`
	PreviousStatus *string   `db:"previous_status"`
	NewStatus      string    `db:"new_status"`
	Remark         string    `db:"remark"`
	Actor          string    `db:"actor"`
	CreatedAt      time.Time `db:"created_at"`
}

func (h History) ToDomain() models.OrderHistory {
	var previous *models.Status
	if h.PreviousStatus != nil {
		status := models.Status(*h.PreviousStatus)
		previous = &status
	}

	return models.OrderHistory{
		ID:             h.ID,
		OrderID:        h.OrderID,
		PreviousStatus: previous,
		NewStatus:      models.Status(h.NewStatus),
		Remark:         h.Remark,
		Actor:          h.Actor,
		CreatedAt:      h.CreatedAt,
	}
}
