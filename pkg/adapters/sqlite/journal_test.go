package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aretw0/charter/pkg/adapters/sqlite"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Journal = (*sqlite.Journal)(nil)

func newMock(t *testing.T) (*sqlite.Journal, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.New(db), mock
}

func TestJournal_Migrate(t *testing.T) {
	j, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS bookings").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, j.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_Record(t *testing.T) {
	j, mock := newMock(t)
	at := time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs("1001", "Bounty", sqlmock.AnyArg(), at.UnixMilli()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	b, err := j.Record(context.Background(), domain.Booking{
		UserID:    "1001",
		Draft:     domain.Draft{Boat: "Bounty"},
		CreatedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_RecordError(t *testing.T) {
	j, mock := newMock(t)
	mock.ExpectExec("INSERT INTO bookings").WillReturnError(errors.New("disk full"))

	_, err := j.Record(context.Background(), domain.Booking{UserID: "1001"})
	assert.ErrorContains(t, err, "disk full")
}

func TestJournal_Recent(t *testing.T) {
	j, mock := newMock(t)
	at := time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "draft", "created_at"}).
		AddRow(2, "1002", `{"boat":"Aurora","guests_count":3}`, at.UnixMilli()).
		AddRow(1, "1001", `{"boat":"Bounty"}`, at.UnixMilli())
	mock.ExpectQuery("SELECT id, user_id, draft, created_at FROM bookings").
		WithArgs(20).
		WillReturnRows(rows)

	got, err := j.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, "Aurora", got[0].Draft.Boat)
	require.NotNil(t, got[0].Draft.Guests)
	assert.Equal(t, 3, *got[0].Draft.Guests)
	assert.Equal(t, at, got[1].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_RecentCorruptDraft(t *testing.T) {
	j, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "user_id", "draft", "created_at"}).AddRow(1, "1001", "{", 0)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	_, err := j.Recent(context.Background(), 5)
	assert.Error(t, err)
}
