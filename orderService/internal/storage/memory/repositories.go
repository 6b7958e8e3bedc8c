package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
)

type orderRepository struct{ uow *unitOfWork }

func (r orderRepository) CreateOrder(ctx context.Context, order models.Order) error {
	const op = "storage.OrderRepository.CreateOrder"

	if err := checkContext(ctx, op); err != nil {
		return err
	}
	if _, found := r.uow.state.orders[order.ID]; found {
		return fmt.Errorf("%s: %w", op, repositoryErrors.ErrOrderAlreadyExists)
	}

	r.uow.state.orders[order.ID] = order
	return nil
}

func (r orderRepository) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const op = "storage.OrderRepository.GetOrder"

	if err := checkContext(ctx, op); err != nil {
		return models.Order{}, err
	}

	order, found := r.uow.state.orders[id]
	if !found {
		return models.Order{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrOrderNotFound)
	}

	return order, nil
}

// GetOrderForUpdate needs no row lock: the store mutex already serializes transactions.
func (r orderRepository) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (models.Order, error) {
	return r.GetOrder(ctx, id)
}

func (r orderRepository) UpdateOrder(ctx context.Context, order models.Order) error {
	const op = "storage.OrderRepository.UpdateOrder"

	if err := checkContext(ctx, op); err != nil {
		return err
	}
	if _, found := r.uow.state.orders[order.ID]; !found {
		return fmt.Errorf("%s: %w", op, repositoryErrors.ErrOrderNotFound)
	}

	r.uow.state.orders[order.ID] = order
	return nil
}

func (r orderRepository) ListOrders(ctx context.Context, userID uuid.UUID, status *models.Status) ([]models.Order, error) {
	const op = "storage.OrderRepository.ListOrders"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0)
	for _, order := range r.uow.state.orders {
		if order.UserID != userID {
			continue
		}
		if status != nil && order.Status != *status {
			continue
		}
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].PlacedAt.Equal(orders[j].PlacedAt) {
			return orders[i].ID.String() > orders[j].ID.String()
		}
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})

	return orders, nil
}

func (r orderRepository) SaveInstantDetail(ctx context.Context, detail models.InstantOrderDetail) error {
	const op = "storage.OrderRepository.SaveInstantDetail"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.uow.state.instant[detail.OrderID] = detail
	return nil
}

func (r orderRepository) GetInstantDetail(ctx context.Context, orderID uuid.UUID) (models.InstantOrderDetail, error) {
	const op = "storage.OrderRepository.GetInstantDetail"

	if err := checkContext(ctx, op); err != nil {
		return models.InstantOrderDetail{}, err
	}

	detail, found := r.uow.state.instant[orderID]
	if !found {
		return models.InstantOrderDetail{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrDetailNotFound)
	}

	return detail, nil
}

func (r orderRepository) SaveNormalDetail(ctx context.Context, detail models.NormalOrderDetail) error {
	const op = "storage.OrderRepository.SaveNormalDetail"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.uow.state.normal[detail.OrderID] = detail
	return nil
}

func (r orderRepository) GetNormalDetail(ctx context.Context, orderID uuid.UUID) (models.NormalOrderDetail, error) {
	const op = "storage.OrderRepository.GetNormalDetail"

	if err := checkContext(ctx, op); err != nil {
		return models.NormalOrderDetail{}, err
	}

	detail, found := r.uow.state.normal[orderID]
	if !found {
		return models.NormalOrderDetail{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrDetailNotFound)
	}

	return detail, nil
}

type icebergRepository struct{ uow *unitOfWork }

func (r icebergRepository) SaveIcebergDetail(ctx context.Context, detail models.IcebergOrderDetail) error {
	const op = "storage.IcebergRepository.SaveIcebergDetail"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.uow.state.icebergs[detail.OrderID] = detail
	return nil
}

func (r icebergRepository) GetIcebergDetail(ctx context.Context, orderID uuid.UUID) (models.IcebergOrderDetail, error) {
	const op = "storage.IcebergRepository.GetIcebergDetail"

	if err := checkContext(ctx, op); err != nil {
		return models.IcebergOrderDetail{}, err
	}

	detail, found := r.uow.state.icebergs[orderID]
	if !found {
		return models.IcebergOrderDetail{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrIcebergDetailNotFound)
	}

	return detail, nil
}

func (r icebergRepository) UpdateIcebergDetail(ctx context.Context, detail models.IcebergOrderDetail) error {
	const op = "storage.IcebergRepository.UpdateIcebergDetail"

	if err := checkContext(ctx, op); err != nil {
		return err
	}
	if _, found := r.uow.state.icebergs[detail.OrderID]; !found {
		return fmt.Errorf("%s: %w", op, repositoryErrors.ErrIcebergDetailNotFound)
	}

	r.uow.state.icebergs[detail.OrderID] = detail
	return nil
}

func (r icebergRepository) SaveLegs(ctx context.Context, legs []models.IcebergLeg) error {
	const op = "storage.IcebergRepository.SaveLegs"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	for _, leg := range legs {
		current := r.uow.state.legs[leg.OrderID]
		for _, existing := range current {
			if existing.LegNumber == leg.LegNumber {
				return fmt.Errorf("%s: leg %d: %w", op, leg.LegNumber, repositoryErrors.ErrOrderAlreadyExists)
			}
		}
		r.uow.state.legs[leg.OrderID] = append(current, leg)
	}

	for orderID, stored := range r.uow.state.legs {
		sort.Slice(stored, func(i, j int) bool { return stored[i].LegNumber < stored[j].LegNumber })
		r.uow.state.legs[orderID] = stored
	}

	return nil
}

func (r icebergRepository) ListLegs(ctx context.Context, orderID uuid.UUID) ([]models.IcebergLeg, error) {
	const op = "storage.IcebergRepository.ListLegs"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	return append([]models.IcebergLeg(nil), r.uow.state.legs[orderID]...), nil
}

func (r icebergRepository) UpdateLeg(ctx context.Context, leg models.IcebergLeg) error {
	const op = "storage.IcebergRepository.UpdateLeg"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	stored := r.uow.state.legs[leg.OrderID]
	for i := range stored {
		if stored[i].ID == leg.ID {
			stored[i] = leg
			return nil
		}
	}

	return fmt.Errorf("%s: %w", op, repositoryErrors.ErrLegNotFound)
}

type coverRepository struct{ uow *unitOfWork }

func (r coverRepository) SaveCoverDetail(ctx context.Context, detail models.CoverOrderDetail) error {
	const op = "storage.CoverRepository.SaveCoverDetail"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.uow.state.covers[detail.OrderID] = detail
	return nil
}

func (r coverRepository) GetCoverDetail(ctx context.Context, orderID uuid.UUID) (models.CoverOrderDetail, error) {
	const op = "storage.CoverRepository.GetCoverDetail"

	if err := checkContext(ctx, op); err != nil {
		return models.CoverOrderDetail{}, err
	}

	detail, found := r.uow.state.covers[orderID]
	if !found {
		return models.CoverOrderDetail{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrCoverDetailNotFound)
	}

	return detail, nil
}

func (r coverRepository) UpdateCoverDetail(ctx context.Context, detail models.CoverOrderDetail) error {
	const op = "storage.CoverRepository.UpdateCoverDetail"

	if err := checkContext(ctx, op); err != nil {
		return err
	}
	if _, found := r.uow.state.covers[detail.OrderID]; !found {
		return fmt.Errorf("%s: %w", op, repositoryErrors.ErrCoverDetailNotFound)
	}

	r.uow.state.covers[detail.OrderID] = detail
	return nil
}

type fundsRepository struct{ uow *unitOfWork }

func (r fundsRepository) GetFundsForUpdate(ctx context.Context, userID uuid.UUID) (models.UserFunds, error) {
	const op = "storage.FundsRepository.GetFundsForUpdate"

	if err := checkContext(ctx, op); err != nil {
		return models.UserFunds{}, err
	}

	funds, found := r.uow.state.funds[userID]
	if !found {
		return models.UserFunds{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrFundsNotFound)
	}

	return funds, nil
}

func (r fundsRepository) SaveFunds(ctx context.Context, funds models.UserFunds) error {
	const op = "storage.FundsRepository.SaveFunds"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.uow.state.funds[funds.UserID] = funds
	return nil
}

type chargeRepository struct{ uow *unitOfWork }

func (r chargeRepository) SaveCharges(ctx context.Context, charges []models.Charge) error {
	const op = "storage.ChargeRepository.SaveCharges"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	for _, charge := range charges {
		r.uow.state.charges[charge.OrderID] = append(r.uow.state.charges[charge.OrderID], charge)
	}

	return nil
}

func (r chargeRepository) ListCharges(ctx context.Context, orderID uuid.UUID) ([]models.Charge, error) {
	const op = "storage.ChargeRepository.ListCharges"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	return append([]models.Charge(nil), r.uow.state.charges[orderID]...), nil
}

func (r chargeRepository) DeleteCharges(ctx context.Context, orderID uuid.UUID) (int64, error) {
	const op = "storage.ChargeRepository.DeleteCharges"

	if err := checkContext(ctx, op); err != nil {
		return 0, err
	}

	deleted := int64(len(r.uow.state.charges[orderID]))
	delete(r.uow.state.charges, orderID)

	return deleted, nil
}

func (r chargeRepository) SaveChargeFailure(ctx context.Context, failure models.OrderChargeFailure) error {
	const op = "storage.ChargeRepository.SaveChargeFailure"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.uow.state.failures[failure.OrderID] = append(r.uow.state.failures[failure.OrderID], failure)
	return nil
}

func (r chargeRepository) ListChargeFailures(ctx context.Context, orderID uuid.UUID) ([]models.OrderChargeFailure, error) {
	const op = "storage.ChargeRepository.ListChargeFailures"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	return append([]models.OrderChargeFailure(nil), r.uow.state.failures[orderID]...), nil
}

type historyRepository struct{ uow *unitOfWork }

func (r historyRepository) AppendHistory(ctx context.Context, entry models.OrderHistory) error {
	const op = "storage.HistoryRepository.AppendHistory"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.uow.state.history[entry.OrderID] = append(r.uow.state.history[entry.OrderID], entry)
	return nil
}

func (r historyRepository) ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error) {
	const op = "storage.HistoryRepository.ListHistory"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	return append([]models.OrderHistory(nil), r.uow.state.history[orderID]...), nil
}

type attemptRepository struct{ uow *unitOfWork }

func (r attemptRepository) SaveFailedAttempt(ctx context.Context, attempt models.FailedOrderAttempt) error {
	const op = "storage.AttemptRepository.SaveFailedAttempt"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.uow.state.attempts = append(r.uow.state.attempts, attempt)
	return nil
}
