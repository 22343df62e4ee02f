package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/banksec/apiguard/internal/errors"
	"github.com/banksec/apiguard/internal/user/domain"
)

var userColumns = []string{
	"id", "username", "password", "role", "is_admin", "email", "created_at", "updated_at",
}

func userRow(mock sqlmock.Sqlmock, id int64, username string) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows(userColumns).
		AddRow(id, username, "hashed", "USER", false, username+"@example.com", now, now)
}

func newMockRepo(t *testing.T) (*PostgreSQLUserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgreSQLUserRepository(db), mock
}

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "hashed", "USER", false, "alice@example.com").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(7)))

	user := &domain.User{
		Username: "alice",
		Password: "hashed",
		Role:     "USER",
		Email:    "alice@example.com",
	}

	err := repo.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLUserRepository_CreateDuplicateUsername(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New(
			`pq: duplicate key value violates unique constraint "users_username_key"`,
		))

	err := repo.Create(context.Background(), &domain.User{Username: "alice"})

	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestPostgreSQLUserRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(userRow(mock, 7, "alice"))

	user, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestPostgreSQLUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetByID(context.Background(), 404)

	assert.Nil(t, user)
	assert.True(t, apperrors.Is(err, domain.ErrUserNotFound))
}

func TestPostgreSQLUserRepository_GetByUsername(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("alice").
		WillReturnRows(userRow(mock, 7, "alice"))

	user, err := repo.GetByUsername(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestPostgreSQLUserRepository_GetByUsername_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetByUsername(context.Background(), "ghost")

	assert.Nil(t, user)
	assert.True(t, apperrors.Is(err, domain.ErrUserNotFound))
}

func TestPostgreSQLUserRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := mock.NewRows(userColumns).
		AddRow(int64(1), "alice", "h", "USER", false, "alice@example.com", now, now).
		AddRow(int64(2), "bob", "h", "ADMIN", true, "bob@example.com", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY id")).WillReturnRows(rows)

	users, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.True(t, users[1].IsAdmin)
}

func TestPostgreSQLUserRepository_ListEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY id")).
		WillReturnRows(mock.NewRows(userColumns))

	users, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)
}

func TestPostgreSQLUserRepository_Search(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE username ILIKE $1")).
		WithArgs("%ali%").
		WillReturnRows(userRow(mock, 7, "alice"))

	users, err := repo.Search(context.Background(), "ali")

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestPostgreSQLUserRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 7)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLUserRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
