// Package repository provides data persistence implementations for account entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/banksec/apiguard/internal/account/domain"
	"github.com/banksec/apiguard/internal/database"

	apperrors "github.com/banksec/apiguard/internal/errors"
)

// MySQLAccountRepository handles account persistence for MySQL
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQLAccountRepository
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{
		db: db,
	}
}

// Create inserts a new account and populates its generated id
func (r *MySQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (owner_user_id, iban, balance, created_at, updated_at)
			  VALUES (?, ?, ?, NOW(), NOW())`

	result, err := querier.ExecContext(
		ctx, query, account.OwnerUserID, account.IBAN, account.Balance,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create account")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get inserted account id")
	}
	account.ID = id

	return nil
}

// GetByID retrieves an account by ID
func (r *MySQLAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_user_id, iban, balance, created_at, updated_at
			  FROM accounts WHERE id = ?`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.OwnerUserID, &account.IBAN,
		&account.Balance, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account by id")
	}

	return &account, nil
}

// ListByOwner retrieves all accounts owned by the given user
func (r *MySQLAccountRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_user_id, iban, balance, created_at, updated_at
			  FROM accounts WHERE owner_user_id = ? ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, ownerUserID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts by owner")
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// UpdateBalance sets the balance of an account
func (r *MySQLAccountRepository) UpdateBalance(ctx context.Context, id int64, balance float64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET balance = ?, updated_at = NOW() WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, balance, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account balance")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check updated rows")
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
