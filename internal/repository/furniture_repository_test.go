package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-rental-management/internal/model"
)

func newFurnitureMock(t *testing.T) (*FurnitureRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFurnitureRepo(db), mock
}

func TestFurnitureCreateRejectsDuplicateName(t *testing.T) {
	repo, mock := newFurnitureMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM furniture WHERE name = ? LIMIT 1")).
		WithArgs("Desk").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint64(1)))

	err := repo.Create(context.Background(), &model.Furniture{Name: "Desk"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFurnitureCreatePopulatesID(t *testing.T) {
	repo, mock := newFurnitureMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM furniture WHERE name = ? LIMIT 1")).
		WithArgs("Chair").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO furniture (name, description) VALUES (?,?)")).
		WithArgs("Chair", "standard office chair").
		WillReturnResult(sqlmock.NewResult(4, 1))

	f := &model.Furniture{Name: "Chair", Description: "standard office chair"}
	require.NoError(t, repo.Create(context.Background(), f))
	assert.Equal(t, uint64(4), f.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFurnitureDeleteBlockedWhileReferenced(t *testing.T) {
	repo, mock := newFurnitureMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM room_furniture WHERE furniture_id = ?")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	err := repo.Delete(context.Background(), 4)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFurnitureDeleteUnknownID(t *testing.T) {
	repo, mock := newFurnitureMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM room_furniture WHERE furniture_id = ?")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM furniture WHERE id = ?")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 4)
	assert.ErrorIs(t, err, ErrFurnitureNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
