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

// PostgreSQLAccountRepository handles account persistence for PostgreSQL
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQLAccountRepository
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{
		db: db,
	}
}

// Create inserts a new account and populates its generated id
func (r *PostgreSQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (owner_user_id, iban, balance, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id`

	err := querier.QueryRowContext(
		ctx, query, account.OwnerUserID, account.IBAN, account.Balance,
	).Scan(&account.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create account")
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *PostgreSQLAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_user_id, iban, balance, created_at, updated_at
			  FROM accounts WHERE id = $1`

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
func (r *PostgreSQLAccountRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_user_id, iban, balance, created_at, updated_at
			  FROM accounts WHERE owner_user_id = $1 ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, ownerUserID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts by owner")
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// UpdateBalance sets the balance of an account
func (r *PostgreSQLAccountRepository) UpdateBalance(ctx context.Context, id int64, balance float64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET balance = $1, updated_at = NOW() WHERE id = $2`

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

// scanAccounts scans query rows into a slice of accounts
func scanAccounts(rows *sql.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		err := rows.Scan(
			&account.ID, &account.OwnerUserID, &account.IBAN,
			&account.Balance, &account.CreatedAt, &account.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan account")
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate accounts")
	}
	return accounts, nil
}
