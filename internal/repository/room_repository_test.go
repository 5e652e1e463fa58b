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

func newRoomMock(t *testing.T) (*RoomRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRoomRepo(db), mock
}

func TestRoomCreateRejectsDuplicateNumber(t *testing.T) {
	repo, mock := newRoomMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rooms WHERE room_number = ? LIMIT 1")).
		WithArgs("A-101").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint64(5)))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Room{
		RoomNumber:     "A-101",
		RoomType:       model.RoomTypeStudy,
		RentPriceCents: 100,
	}, nil)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomCreateWithFurniture(t *testing.T) {
	repo, mock := newRoomMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rooms WHERE room_number = ? LIMIT 1")).
		WithArgs("B-202").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rooms")).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO room_furniture (room_id, furniture_id, quantity) VALUES (?,?,?)")).
		WithArgs(uint64(8), uint64(2), uint32(4)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rm := &model.Room{RoomNumber: "B-202", RoomType: model.RoomTypeLab, RentPriceCents: 300, IsAvailable: true}
	err := repo.Create(context.Background(), rm, []model.RoomFurniture{
		{FurnitureID: 2, Quantity: 4},
		{FurnitureID: 0, Quantity: 9}, // skipped: no furniture id
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(8), rm.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomUpdateUniquenessExcludesSelf(t *testing.T) {
	repo, mock := newRoomMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rooms WHERE room_number = ? AND id != ? LIMIT 1")).
		WithArgs("A-101", uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM room_furniture WHERE room_id = ?")).
		WithArgs(uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &model.Room{
		ID:             8,
		RoomNumber:     "A-101",
		RoomType:       model.RoomTypeStudy,
		RentPriceCents: 100,
	}, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomUpdateUnknownID(t *testing.T) {
	repo, mock := newRoomMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rooms WHERE room_number = ? AND id != ? LIMIT 1")).
		WithArgs("Z-999", uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rooms WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &model.Room{
		ID:             99,
		RoomNumber:     "Z-999",
		RoomType:       model.RoomTypeStudy,
		RentPriceCents: 100,
	}, nil)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomDeleteBlockedByActiveContract(t *testing.T) {
	repo, mock := newRoomMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rental_contracts WHERE room_id = ? AND status = ?")).
		WithArgs(uint64(8), model.ContractActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 8)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomDeleteCascades(t *testing.T) {
	repo, mock := newRoomMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rental_contracts WHERE room_id = ? AND status = ?")).
		WithArgs(uint64(8), model.ContractActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM room_furniture WHERE room_id = ?")).
		WithArgs(uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rental_contracts WHERE room_id = ?")).
		WithArgs(uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rooms WHERE id = ?")).
		WithArgs(uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), 8))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshAvailability(t *testing.T) {
	repo, mock := newRoomMock(t)
	today := date(2024, 7, 10)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET is_available = 1")).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET is_available = 0")).
		WithArgs(model.ContractActive, today).
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, repo.RefreshAvailability(context.Background(), today))
	assert.NoError(t, mock.ExpectationsWereMet())
}
