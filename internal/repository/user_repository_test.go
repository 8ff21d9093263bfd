package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sust-hall/hall-service/internal/domain"
)

var userRowColumns = []string{"id", "name", "email", "hall_name", "role", "password_hash", "account_status", "created_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepositoryListCombinedFilter(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	status := domain.AccountStatusApproved
	role := domain.UserRoleStudent
	hall := "Shah Paran Hall"
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM users WHERE 1=1 AND account_status=$1 AND role=$2 AND hall_name=$3 ORDER BY created_at DESC`,
	)).
		WithArgs(status, role, hall).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u-1", "Rahim", "rahim@student.sust.edu", hall, role, "hash", status, created))

	users, err := repo.List(context.Background(), UserFilter{Status: &status, Role: &role, HallName: &hall})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u-1", users[0].ID)
	assert.Equal(t, created, users[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListPartialFilterNumbersPlaceholders(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	hall := "Amber Khana Hall"
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE 1=1 AND hall_name=$1 ORDER BY created_at DESC`)).
		WithArgs(hall).
		WillReturnRows(pgxmock.NewRows(userRowColumns))

	users, err := repo.List(context.Background(), UserFilter{HallName: &hall})
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	user := &domain.User{
		Name:          "Rahim",
		Email:         "rahim@student.sust.edu",
		Role:          domain.UserRoleStudent,
		PasswordHash:  "hash",
		AccountStatus: domain.AccountStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.Name, user.Email, user.HallName, user.Role, user.PasswordHash, user.AccountStatus, user.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByMalformedIDIsNoRows(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id=$1`)).
		WithArgs("ghost").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateStatusMissingRow(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET account_status=$1 WHERE id=$2`)).
		WithArgs(domain.AccountStatusSuspended, "u-9").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "u-9", domain.AccountStatusSuspended)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactorSharesTransactionWithRepositories(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	transactor := NewTransactor(mock)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET role=$1 WHERE id=$2`)).
		WithArgs(domain.UserRoleProvost, "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return repo.UpdateRole(ctx, "u-1", domain.UserRoleProvost)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactorRollsBackOnError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	transactor := NewTransactor(mock)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id=$1`)).
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return repo.Delete(ctx, "u-1")
	})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
