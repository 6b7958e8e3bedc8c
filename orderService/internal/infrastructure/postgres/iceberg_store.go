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

type icebergRepository struct {
	tx pgx.Tx
}

func (r icebergRepository) SaveIcebergDetail(ctx context.Context, detail models.IcebergOrderDetail) error {
	const op = "postgres.IcebergRepository.SaveIcebergDetail"

	_, err := r.tx.Exec(ctx,
		`INSERT INTO iceberg_order_details
		     (order_id, number_of_legs, product_type, order_type, trigger_price,
		      validity, validity_minutes, disclosed_quantity, has_more_legs)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		detail.OrderID,
		detail.NumberOfLegs,
		string(detail.ProductType),
		string(detail.OrderType),
		dto.ToNull(detail.TriggerPrice),
		string(detail.Validity),
		detail.ValidityMinutes,
		detail.DisclosedQuantity,
		detail.HasMoreLegs,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (r icebergRepository) GetIcebergDetail(ctx context.Context, orderID uuid.UUID) (models.IcebergOrderDetail, error) {
	const op = "postgres.IcebergRepository.GetIcebergDetail"

	rows, err := r.tx.Query(ctx,
		`SELECT order_id, number_of_legs, product_type, order_type, trigger_price,
		        validity, validity_minutes, disclosed_quantity, has_more_legs
		 FROM iceberg_order_details
		 WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return models.IcebergOrderDetail{}, fmt.Errorf("%s: query: %w", op, err)
	}

	detail, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dto.IcebergDetail])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.IcebergOrderDetail{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrIcebergDetailNotFound)
		}

		return models.IcebergOrderDetail{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return detail.ToDomain(), nil
}

func (r icebergRepository) UpdateIcebergDetail(ctx context.Context, detail models.IcebergOrderDetail) error {
	const op = "postgres.IcebergRepository.UpdateIcebergDetail"

	tag, err := r.tx.Exec(ctx,
		`UPDATE iceberg_order_details SET has_more_legs = $2 WHERE order_id = $1`,
		detail.OrderID,
		detail.HasMoreLegs,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repositoryErrors.ErrIcebergDetailNotFound)
	}

	return nil
}

func (r icebergRepository) SaveLegs(ctx context.Context, legs []models.IcebergLeg) error {
	const op = "postgres.IcebergRepository.SaveLegs"

	batch := &pgx.Batch{}
	for _, leg := range legs {
		batch.Queue(
			`INSERT INTO iceberg_legs (id, order_id, leg_number, quantity, status) VALUES ($1, $2, $3, $4, $5)`,
			leg.ID,
			leg.OrderID,
			leg.LegNumber,
			leg.Quantity,
			string(leg.Status),
		)
	}

	results := r.tx.SendBatch(ctx, batch)
	defer results.Close()

	for range legs {
		if _, err := results.Exec(); err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%s: %w", op, repositoryErrors.ErrOrderAlreadyExists)
			}

			return fmt.Errorf("%s: exec: %w", op, err)
		}
	}

	return nil
}

func (r icebergRepository) ListLegs(ctx context.Context, orderID uuid.UUID) ([]models.IcebergLeg, error) {
	const op = "postgres.IcebergRepository.ListLegs"

	rows, err := r.tx.Query(ctx,
		`SELECT id, order_id, leg_number, quantity, status, execution_price,
		        exchange_order_id, executed_at, cancelled_at
		 FROM iceberg_legs
		 WHERE order_id = $1
		 ORDER BY leg_number`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	legDTOs, err := pgx.CollectRows(rows, pgx.RowToStructByName[dto.IcebergLeg])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	legs := make([]models.IcebergLeg, 0, len(legDTOs))
	for _, legDTO := range legDTOs {
		legs = append(legs, legDTO.ToDomain())
	}

	return legs, nil
}

func (r icebergRepository) UpdateLeg(ctx context.Context, leg models.IcebergLeg) error {
	const op = "postgres.IcebergRepository.UpdateLeg"

	tag, err := r.tx.Exec(ctx,
		`UPDATE iceberg_legs
		 SET status = $2, execution_price = $3, exchange_order_id = $4, executed_at = $5, cancelled_at = $6
		 WHERE id = $1`,
		leg.ID,
		string(leg.Status),
		dto.ToNull(leg.ExecutionPrice),
		leg.ExchangeOrderID,
		leg.ExecutedAt,
		leg.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repositoryErrors.ErrLegNotFound)
	}

	return nil
}

type coverRepository struct {
	tx pgx.Tx
}

func (r coverRepository) SaveCoverDetail(ctx context.Context, detail models.CoverOrderDetail) error {
	const op = "postgres.CoverRepository.SaveCoverDetail"

	_, err := r.tx.Exec(ctx,
		`INSERT INTO cover_order_details
		     (order_id, stop_loss_price, order_type, product_type, main_order_status, stop_loss_order_status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		detail.OrderID,
		detail.StopLossPrice,
		string(detail.OrderType),
		string(detail.ProductType),
		string(detail.MainOrderStatus),
		string(detail.StopLossOrderStatus),
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (r coverRepository) GetCoverDetail(ctx context.Context, orderID uuid.UUID) (models.CoverOrderDetail, error) {
	const op = "postgres.CoverRepository.GetCoverDetail"

	rows, err := r.tx.Query(ctx,
		`SELECT order_id, stop_loss_price, order_type, product_type, main_order_status,
		        stop_loss_order_status, stop_loss_exec_price, stop_loss_exchange_id, stop_loss_executed_at
		 FROM cover_order_details
		 WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return models.CoverOrderDetail{}, fmt.Errorf("%s: query: %w", op, err)
	}

	detail, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dto.CoverDetail])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CoverOrderDetail{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrCoverDetailNotFound)
		}

		return models.CoverOrderDetail{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return detail.ToDomain(), nil
}

func (r coverRepository) UpdateCoverDetail(ctx context.Context, detail models.CoverOrderDetail) error {
	const op = "postgres.CoverRepository.UpdateCoverDetail"

	tag, err := r.tx.Exec(ctx,
		`UPDATE cover_order_details
		 SET main_order_status = $2, stop_loss_order_status = $3, stop_loss_exec_price = $4,
		     stop_loss_exchange_id = $5, stop_loss_executed_at = $6
		 WHERE order_id = $1`,
		detail.OrderID,
		string(detail.MainOrderStatus),
		string(detail.StopLossOrderStatus),
		dto.ToNull(detail.StopLossExecPrice),
		detail.StopLossExchangeID,
		detail.StopLossExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repositoryErrors.ErrCoverDetailNotFound)
	}

	return nil
}
