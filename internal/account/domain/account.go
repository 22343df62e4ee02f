// Package domain defines the core account domain entities and types.
package domain

import (
	"time"

	"github.com/banksec/apiguard/internal/errors"
)

// Account represents a financial account owned by a user.
type Account struct {
	ID          int64
	OwnerUserID int64
	IBAN        string
	Balance     float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Domain-specific errors for account operations.
var (
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrInsufficientBalance indicates the account balance cannot cover a transfer.
	ErrInsufficientBalance = errors.Wrap(errors.ErrInvalidInput, "insufficient balance")

	// ErrInvalidAmount indicates a transfer amount is zero or negative.
	ErrInvalidAmount = errors.Wrap(errors.ErrInvalidInput, "amount must be positive")
)
