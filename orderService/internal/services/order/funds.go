package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	"github.com/nastyazhadan/order-settlement/orderService/internal/repository"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

// GetFunds reports zero balances for a user that has never held funds.
func (s *Service) GetFunds(ctx context.Context, userID uuid.UUID) (models.UserFunds, error) {
	const op = "Service.GetFunds"
	ctx = zapLogger.ContextWithUserID(ctx, userID.String())

	var funds models.UserFunds
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		var err error
		funds, err = loadFunds(ctx, uow, userID)
		return err
	})
	if err != nil {
		return models.UserFunds{}, fmt.Errorf("%s: %w", op, err)
	}

	return funds, nil
}

func (s *Service) DepositFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.UserFunds, error) {
	const op = "Service.DepositFunds"
	ctx = zapLogger.ContextWithUserID(ctx, userID.String())

	funds, err := s.adjustFunds(ctx, userID, amount, func(funds *models.UserFunds) error {
		return funds.Deposit(amount)
	})
	if err != nil {
		return models.UserFunds{}, fmt.Errorf("%s: %w", op, err)
	}

	zapLogger.Info(ctx, "funds deposited",
		zap.String("amount", amount.StringFixed(marginPlaces)),
	)

	return funds, nil
}

func (s *Service) WithdrawFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.UserFunds, error) {
	const op = "Service.WithdrawFunds"
	ctx = zapLogger.ContextWithUserID(ctx, userID.String())

	funds, err := s.adjustFunds(ctx, userID, amount, func(funds *models.UserFunds) error {
		err := funds.Withdraw(amount)
		if errors.Is(err, models.ErrFundsShortfall) {
			return &serviceErrors.InsufficientFundsError{Required: amount, Available: funds.Available}
		}

		return err
	})
	if err != nil {
		return models.UserFunds{}, fmt.Errorf("%s: %w", op, err)
	}

	zapLogger.Info(ctx, "funds withdrawn",
		zap.String("amount", amount.StringFixed(marginPlaces)),
	)

	return funds, nil
}

func (s *Service) adjustFunds(
	ctx context.Context,
	userID uuid.UUID,
	amount decimal.Decimal,
	apply func(funds *models.UserFunds) error,
) (models.UserFunds, error) {
	if userID == uuid.Nil {
		return models.UserFunds{}, serviceErrors.NewValidationError("userId", "is required")
	}
	if !amount.IsPositive() {
		return models.UserFunds{}, serviceErrors.NewValidationError("amount", "must be positive")
	}

	var funds models.UserFunds
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		current, err := loadFunds(ctx, uow, userID)
		if err != nil {
			return fmt.Errorf("load funds: %w", err)
		}
		if err := apply(&current); err != nil {
			return err
		}

		current.UpdatedAt = s.now()
		if err := uow.Funds().SaveFunds(ctx, current); err != nil {
			return fmt.Errorf("save funds: %w", err)
		}

		funds = current
		return nil
	})
	if err != nil {
		return models.UserFunds{}, err
	}

	return funds, nil
}
