package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/room-rental-management/internal/model"
)

func newUserMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestUserCreateInsertsSubordinateRow(t *testing.T) {
	repo, mock := newUserMock(t)
	dob := date(1990, 3, 15)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", sqlmock.AnyArg(), model.RoleCustomer, "Alice Smith",
			"alice@example.com", "555-0100", "1 Main St", dob).
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers (user_id) VALUES (?)")).
		WithArgs(uint64(21)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), NewUser{
		Username:    " alice ",
		Password:    "secret",
		Role:        model.RoleCustomer,
		FullName:    "Alice Smith",
		Email:       "Alice@Example.com",
		Phone:       "555-0100",
		Address:     "1 Main St",
		DateOfBirth: dob,
	}, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateMapsToErrUserExists(t *testing.T) {
	repo, mock := newUserMock(t)
	dob := date(1990, 3, 15)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errDuplicate1062{})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), NewUser{
		Username:    "alice",
		Password:    "secret",
		Role:        model.RoleEmployee,
		FullName:    "Alice Smith",
		Email:       "alice@example.com",
		Phone:       "555-0100",
		Address:     "1 Main St",
		DateOfBirth: dob,
	}, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrUserExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	repo, _ := newUserMock(t)
	_, err := repo.Create(context.Background(), NewUser{Role: "janitor"}, bcrypt.MinCost)
	assert.Error(t, err)
}

// errDuplicate1062 mimics the driver's duplicate-entry failure.
type errDuplicate1062 struct{}

func (errDuplicate1062) Error() string {
	return "Error 1062 (23000): Duplicate entry 'alice' for key 'users.username'"
}
