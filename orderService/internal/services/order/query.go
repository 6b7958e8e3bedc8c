package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
)

func (s *Service) GetOrder(ctx context.Context, orderID uuid.UUID) (models.OrderView, error) {
	const op = "Service.GetOrder"

	var view models.OrderView
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		order, err := uow.Orders().GetOrder(ctx, orderID)
		if err != nil {
			return mapRepositoryError(err)
		}

		view, err = loadView(ctx, uow, order)
		return err
	})
	if err != nil {
		return models.OrderView{}, fmt.Errorf("%s: %w", op, err)
	}

	return view, nil
}

// ListOrders returns the user's orders newest first, optionally narrowed to one status.
func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID, status *models.Status) ([]models.Order, error) {
	const op = "Service.ListOrders"

	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%s: %w", op, serviceErrors.NewValidationError("status", "is not a known order status"))
	}

	var orders []models.Order
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		var err error
		orders, err = uow.Orders().ListOrders(ctx, userID, status)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

func (s *Service) GetOrderHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error) {
	const op = "Service.GetOrderHistory"

	var history []models.OrderHistory
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		if _, err := uow.Orders().GetOrder(ctx, orderID); err != nil {
			return mapRepositoryError(err)
		}

		var err error
		history, err = uow.History().ListHistory(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return history, nil
}

// GetOrderCharges is only answered for executed orders.
func (s *Service) GetOrderCharges(ctx context.Context, orderID uuid.UUID) (models.ChargesReport, error) {
	const op = "Service.GetOrderCharges"

	var report models.ChargesReport
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		order, err := uow.Orders().GetOrder(ctx, orderID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if order.Status != models.StatusExecuted {
			return &serviceErrors.InvalidStateError{Entity: "order", Current: string(order.Status), Action: "read charges of"}
		}

		charges, err := uow.Charges().ListCharges(ctx, order.ID)
		if err != nil {
			return err
		}
		failures, err := uow.Charges().ListChargeFailures(ctx, order.ID)
		if err != nil {
			return err
		}

		report = models.ChargesReport{
			OrderID:  order.ID,
			Charges:  charges,
			Failures: failures,
			Total:    order.TotalCharges,
		}
		return nil
	})
	if err != nil {
		return models.ChargesReport{}, fmt.Errorf("%s: %w", op, err)
	}

	return report, nil
}

func loadView(ctx context.Context, uow repository.UnitOfWork, order models.Order) (models.OrderView, error) {
	view := models.OrderView{Order: order}

	switch order.Category {
	case models.CategoryInstant:
		detail, err := uow.Orders().GetInstantDetail(ctx, order.ID)
		if err != nil {
			return models.OrderView{}, mapRepositoryError(err)
		}
		view.Instant = &detail

	case models.CategoryNormal:
		detail, err := uow.Orders().GetNormalDetail(ctx, order.ID)
		if err != nil {
			return models.OrderView{}, mapRepositoryError(err)
		}
		view.Normal = &detail

	case models.CategoryIceberg:
		detail, err := uow.Icebergs().GetIcebergDetail(ctx, order.ID)
		if err != nil {
			return models.OrderView{}, mapRepositoryError(err)
		}
		legs, err := uow.Icebergs().ListLegs(ctx, order.ID)
		if err != nil {
			return models.OrderView{}, mapRepositoryError(err)
		}
		view.Iceberg = &detail
		view.Legs = legs

	case models.CategoryCover:
		detail, err := uow.Covers().GetCoverDetail(ctx, order.ID)
		if err != nil {
			return models.OrderView{}, mapRepositoryError(err)
		}
		view.Cover = &detail
	}

	return view, nil
}
