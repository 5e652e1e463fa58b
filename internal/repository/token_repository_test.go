package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenMock(t *testing.T) (*TokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTokenRepo(db), mock
}

const tokenSelect = "SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1"

func TestValidateRefreshResolvesLiveToken(t *testing.T) {
	repo, mock := newTokenMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(tokenSelect)).
		WithArgs("hash-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(uint64(21), time.Now().UTC().Add(time.Hour), nil))

	uid, err := repo.ValidateRefresh(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(21), uid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshUnknownHash(t *testing.T) {
	repo, mock := newTokenMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(tokenSelect)).
		WithArgs("hash-x").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}))

	_, err := repo.ValidateRefresh(context.Background(), "hash-x")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshRevokedToken(t *testing.T) {
	repo, mock := newTokenMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(tokenSelect)).
		WithArgs("hash-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(uint64(21), time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	_, err := repo.ValidateRefresh(context.Background(), "hash-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshExpiredToken(t *testing.T) {
	repo, mock := newTokenMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(tokenSelect)).
		WithArgs("hash-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(uint64(21), time.Now().UTC().Add(-time.Minute), nil))

	_, err := repo.ValidateRefresh(context.Background(), "hash-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeByHashSkipsAlreadyRevoked(t *testing.T) {
	repo, mock := newTokenMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = ? AND revoked_at IS NULL")).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.RevokeByHash(context.Background(), "hash-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeAllForUser(t *testing.T) {
	repo, mock := newTokenMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = ? AND revoked_at IS NULL")).
		WithArgs(uint64(21)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.RevokeAllForUser(context.Background(), 21))
	assert.NoError(t, mock.ExpectationsWereMet())
}
