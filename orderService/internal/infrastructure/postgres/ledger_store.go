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

type fundsRepository struct {
	tx pgx.Tx
}

func (r fundsRepository) GetFundsForUpdate(ctx context.Context, userID uuid.UUID) (models.UserFunds, error) {
	const op = "postgres.FundsRepository.GetFundsForUpdate"

	rows, err := r.tx.Query(ctx,
		`SELECT user_id, total, available, used, blocked, updated_at
		 FROM user_funds
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	)
	if err != nil {
		return models.UserFunds{}, fmt.Errorf("%s: query: %w", op, err)
	}

	funds, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dto.Funds])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserFunds{}, fmt.Errorf("%s: %w", op, repositoryErrors.ErrFundsNotFound)
		}

		return models.UserFunds{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return funds.ToDomain(), nil
}

func (r fundsRepository) SaveFunds(ctx context.Context, funds models.UserFunds) error {
	const op = "postgres.FundsRepository.SaveFunds"

	_, err := r.tx.Exec(ctx,
		`INSERT INTO user_funds (user_id, total, available, used, blocked, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE
		 SET total = EXCLUDED.total,
		     available = EXCLUDED.available,
		     used = EXCLUDED.used,
		     blocked = EXCLUDED.blocked,
		     updated_at = EXCLUDED.updated_at`,
		funds.UserID,
		funds.Total,
		funds.Available,
		funds.Used,
		funds.Blocked,
		funds.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

type chargeRepository struct {
	tx pgx.Tx
}

func (r chargeRepository) SaveCharges(ctx context.Context, charges []models.Charge) error {
	const op = "postgres.ChargeRepository.SaveCharges"

	batch := &pgx.Batch{}
	for _, charge := range charges {
		batch.Queue(
			`INSERT INTO order_charges
			     (id, order_id, leg_id, scope, charge_type, amount, is_percentage, percentage, taxable_base, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			charge.ID,
			charge.OrderID,
			charge.LegID,
			string(charge.Scope),
			string(charge.Type),
			charge.Amount,
			charge.IsPercentage,
			charge.Percentage,
			charge.TaxableBase,
			charge.CreatedAt,
		)
	}

	if err := r.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s: batch: %w", op, err)
	}

	return nil
}

func (r chargeRepository) ListCharges(ctx context.Context, orderID uuid.UUID) ([]models.Charge, error) {
	const op = "postgres.ChargeRepository.ListCharges"

	rows, err := r.tx.Query(ctx,
		`SELECT id, order_id, leg_id, scope, charge_type, amount, is_percentage, percentage, taxable_base, created_at
		 FROM order_charges
		 WHERE order_id = $1
		 ORDER BY seq`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	chargeDTOs, err := pgx.CollectRows(rows, pgx.RowToStructByName[dto.Charge])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	charges := make([]models.Charge, 0, len(chargeDTOs))
	for _, chargeDTO := range chargeDTOs {
		charges = append(charges, chargeDTO.ToDomain())
	}

	return charges, nil
}

func (r chargeRepository) DeleteCharges(ctx context.Context, orderID uuid.UUID) (int64, error) {
	const op = "postgres.ChargeRepository.DeleteCharges"

	tag, err := r.tx.Exec(ctx, `DELETE FROM order_charges WHERE order_id = $1`, orderID)
	if err != nil {
		return 0, fmt.Errorf("%s: exec: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

func (r chargeRepository) SaveChargeFailure(ctx context.Context, failure models.OrderChargeFailure) error {
	const op = "postgres.ChargeRepository.SaveChargeFailure"

	_, err := r.tx.Exec(ctx,
		`INSERT INTO order_charge_failures (id, order_id, leg_id, scope, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		failure.ID,
		failure.OrderID,
		failure.LegID,
		string(failure.Scope),
		failure.Reason,
		failure.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (r chargeRepository) ListChargeFailures(ctx context.Context, orderID uuid.UUID) ([]models.OrderChargeFailure, error) {
	const op = "postgres.ChargeRepository.ListChargeFailures"

	rows, err := r.tx.Query(ctx,
		`SELECT id, order_id, leg_id, scope, reason, created_at
		 FROM order_charge_failures
		 WHERE order_id = $1
		 ORDER BY seq`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	failureDTOs, err := pgx.CollectRows(rows, pgx.RowToStructByName[dto.ChargeFailure])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	failures := make([]models.OrderChargeFailure, 0, len(failureDTOs))
	for _, failureDTO := range failureDTOs {
		failures = append(failures, failureDTO.ToDomain())
	}

	return failures, nil
}

type historyRepository struct {
	tx pgx.Tx
}

func (r historyRepository) AppendHistory(ctx context.Context, entry models.OrderHistory) error {
	const op = "postgres.HistoryRepository.AppendHistory"

	var previous *string
	if entry.PreviousStatus != nil {
		value := string(*entry.PreviousStatus)
		previous = &value
	}

	_, err := r.tx.Exec(ctx,
		`INSERT INTO order_history (id, order_id, previous_status, new_status, remark, actor, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID,
		entry.OrderID,
		previous,
		string(entry.NewStatus),
		entry.Remark,
		entry.Actor,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (r historyRepository) ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error) {
	const op = "postgres.HistoryRepository.ListHistory"

	rows, err := r.tx.Query(ctx,
		`SELECT id, order_id, previous_status, new_status, remark, actor, created_at
		 FROM order_history
		 WHERE order_id = $1
		 ORDER BY seq`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	historyDTOs, err := pgx.CollectRows(rows, pgx.RowToStructByName[dto.History])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	history := make([]models.OrderHistory, 0, len(historyDTOs))
	for _, historyDTO := range historyDTOs {
		history = append(history, historyDTO.ToDomain())
	}

	return history, nil
}

type attemptRepository struct {
	tx pgx.Tx
}

func (r attemptRepository) SaveFailedAttempt(ctx context.Context, attempt models.FailedOrderAttempt) error {
	const op = "postgres.AttemptRepository.SaveFailedAttempt"

	_, err := r.tx.Exec(ctx,
		`INSERT INTO failed_order_attempts
		     (id, user_id, symbol, category, side, quantity, price, required_margin, available_funds, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		attempt.ID,
		attempt.UserID,
		attempt.Symbol,
		string(attempt.Category),
		string(attempt.Side),
		attempt.Quantity,
		dto.ToNull(attempt.Price),
		attempt.RequiredMargin,
		attempt.AvailableFunds,
		attempt.Reason,
		attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}
