// Package usecase implements business logic for account operations.
package usecase

import (
	"context"

	"github.com/banksec/apiguard/internal/account/domain"
	"github.com/banksec/apiguard/internal/database"
)

// UseCase defines the interface for account business logic operations
type UseCase interface {
	GetBalance(ctx context.Context, id int64) (float64, error)
	Transfer(ctx context.Context, accountID int64, amount float64) (float64, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]*domain.Account, error)
}

// AccountRepository interface defines account repository operations
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, id int64, balance float64) error
}

// AccountUseCase implements account business logic
type AccountUseCase struct {
	accountRepo AccountRepository
	txManager   database.TxManager
}

// NewAccountUseCase creates a new AccountUseCase
func NewAccountUseCase(accountRepo AccountRepository, txManager database.TxManager) UseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		txManager:   txManager,
	}
}

// GetBalance returns the current balance of the account
func (uc *AccountUseCase) GetBalance(ctx context.Context, id int64) (float64, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// Transfer debits the given amount from the account and returns the remaining
// balance. The read-check-debit sequence runs inside a single transaction so
// concurrent transfers cannot overdraw the account.
func (uc *AccountUseCase) Transfer(ctx context.Context, accountID int64, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	var remaining float64
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		account, err := uc.accountRepo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}

		if account.Balance < amount {
			return domain.ErrInsufficientBalance
		}

		remaining = account.Balance - amount
		return uc.accountRepo.UpdateBalance(ctx, accountID, remaining)
	})
	if err != nil {
		return 0, err
	}

	return remaining, nil
}

// ListByOwner returns all accounts owned by the given user
func (uc *AccountUseCase) ListByOwner(ctx context.Context, ownerUserID int64) ([]*domain.Account, error) {
	return uc.accountRepo.ListByOwner(ctx, ownerUserID)
}
