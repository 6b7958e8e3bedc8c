package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/infrastructure/postgres/dto"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
)

const orderColumns = `id, user_id, symbol, exchange, side, quantity, price, category, status,
	reserved_margin, total_charges, execution_price, exchange_order_id, rejection_reason,
	placed_at, executed_at, cancelled_at, updated_at`

type orderRepository struct {
	tx pgx.Tx
}

func (r orderRepository) CreateOrder(ctx context.Context, order models.Order) error {
	const op = "postgres.OrderRepository.CreateOrder"

	orderDTO := dto.FromDomain(order)

	_, err := r.tx.Exec(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		orderDTO.ID,
		orderDTO.UserID,
		orderDTO.Symbol,
		orderDTO.Exchange,
		orderDTO.Side,
		orderDTO.Quantity,
		orderDTO.Price,
		orderDTO.Category,
		orderDTO.Status,
		orderDTO.ReservedMargin,
		orderDTO.TotalCharges,
		orderDTO.ExecutionPrice,
		orderDTO.ExchangeOrderID,
		orderDTO.RejectionReason,
		orderDTO.PlacedAt,
		orderDTO.ExecutedAt,
		orderDTO.CancelledAt,
		orderDTO.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%s: %w", op, repositoryErrors.ErrOrderAlreadyExists)
		}

		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (r orderRepository) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const op = "postgres.OrderRepository.GetOrder"

	return r.getOrder(ctx, op, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetOrderForUpdate locks the row until the transaction ends, so concurrent
// transitions of the same order serialize here.
func (r orderRepository) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const op = "postgres.OrderRepository.GetOrderForUpdate"

	return r.getOrder(ctx, op, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r orderRepository) getOrder(ctx context.Context, op, query string, id uuid.UUID) (models.Order, error) {
	rows, err := r.tx.Query(ctx, query, id)
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: query: %w", op, err)
	}

	orderDTO, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dto.Order])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrOrderNotFound)
		}

		return models.Order{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return orderDTO.ToDomain(), nil
}

func (r orderRepository) UpdateOrder(ctx context.Context, order models.Order) error {
	const op = "postgres.OrderRepository.UpdateOrder"

	orderDTO := dto.FromDomain(order)

	tag, err := r.tx.Exec(ctx,
		`UPDATE orders
		 SET status = $2, reserved_margin = $3, total_charges = $4, execution_price = $5,
		     exchange_order_id = $6, rejection_reason = $7, executed_at = $8,
		     cancelled_at = $9, updated_at = $10
		 WHERE id = $1`,
		orderDTO.ID,
		orderDTO.Status,
		orderDTO.ReservedMargin,
		orderDTO.TotalCharges,
		orderDTO.ExecutionPrice,
		orderDTO.ExchangeOrderID,
		orderDTO.RejectionReason,
		orderDTO.ExecutedAt,
		orderDTO.CancelledAt,
		orderDTO.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repositoryErrors.ErrOrderNotFound)
	}

	return nil
}

func (r orderRepository) ListOrders(ctx context.Context, userID uuid.UUID, status *models.Status) ([]models.Order, error) {
	const op = "postgres.OrderRepository.ListOrders"

	var filter *string
	if status != nil {
		value := string(*status)
		filter = &value
	}

	rows, err := r.tx.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
		 ORDER BY placed_at DESC, id`,
		userID,
		filter,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	orderDTOs, err := pgx.CollectRows(rows, pgx.RowToStructByName[dto.Order])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	orders := make([]models.Order, 0, len(orderDTOs))
	for _, orderDTO := range orderDTOs {
		orders = append(orders, orderDTO.ToDomain())
	}

	return orders, nil
}

func (r orderRepository) SaveInstantDetail(ctx context.Context, detail models.InstantOrderDetail) error {
	const op = "postgres.OrderRepository.SaveInstantDetail"

	_, err := r.tx.Exec(ctx,
		`INSERT INTO instant_order_details (order_id, product_type, order_type) VALUES ($1, $2, $3)`,
		detail.OrderID,
		string(detail.ProductType),
		string(detail.OrderType),
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (r orderRepository) GetInstantDetail(ctx context.Context, orderID uuid.UUID) (models.InstantOrderDetail, error) {
	const op = "postgres.OrderRepository.GetInstantDetail"

	rows, err := r.tx.Query(ctx,
		`SELECT order_id, product_type, order_type FROM instant_order_details WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return models.InstantOrderDetail{}, fmt.Errorf("%s: query: %w", op, err)
	}

	detail, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dto.InstantDetail])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.InstantOrderDetail{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrDetailNotFound)
		}

		return models.InstantOrderDetail{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return detail.ToDomain(), nil
}

func (r orderRepository) SaveNormalDetail(ctx context.Context, detail models.NormalOrderDetail) error {
	const op = "postgres.OrderRepository.SaveNormalDetail"

	_, err := r.tx.Exec(ctx,
		`INSERT INTO normal_order_details
		     (order_id, product_type, order_type, trigger_price, validity, validity_minutes, disclosed_quantity)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		detail.OrderID,
		string(detail.ProductType),
		string(detail.OrderType),
		dto.ToNull(detail.TriggerPrice),
		string(detail.Validity),
		detail.ValidityMinutes,
		detail.DisclosedQuantity,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (r orderRepository) GetNormalDetail(ctx context.Context, orderID uuid.UUID) (models.NormalOrderDetail, error) {
	const op = "postgres.OrderRepository.GetNormalDetail"

	rows, err := r.tx.Query(ctx,
		`SELECT order_id, product_type, order_type, trigger_price, validity, validity_minutes, disclosed_quantity
		 FROM normal_order_details
		 WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return models.NormalOrderDetail{}, fmt.Errorf("%s: query: %w", op, err)
	}

	detail, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dto.NormalDetail])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NormalOrderDetail{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrDetailNotFound)
		}

		return models.NormalOrderDetail{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return detail.ToDomain(), nil
}
