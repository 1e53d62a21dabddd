package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"team-status-backend/internal/status"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_SetStatus(t *testing.T) {
	now := time.Now()
	until := now.Add(2 * time.Hour)

	t.Run("upserts row and appends log in one transaction", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "member_statuses"`)).
			WithArgs("member-1", "active", Any{}, Any{}).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "activity_logs"`)).
			WithArgs("member-1", "active", Any{}).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := s.SetStatus(context.Background(), "member-1", status.StateActive,
			status.Metadata{Until: &until}, now)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated identical calls append a second log entry", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		s := NewGormStore(gormDB)

		for i := 0; i < 2; i++ {
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "member_statuses"`)).
				WithArgs("member-1", "active", Any{}, Any{}).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "activity_logs"`)).
				WithArgs("member-1", "active", Any{}).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(i + 1)))
			mock.ExpectCommit()
		}

		for i := 0; i < 2; i++ {
			err := s.SetStatus(context.Background(), "member-1", status.StateActive,
				status.Metadata{Until: &until}, now)
			assert.NoError(t, err)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects metadata that does not match the state", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		s := NewGormStore(gormDB)

		// No SQL is expected: validation fails before any write.
		err := s.SetStatus(context.Background(), "member-1", status.StateActive,
			status.Metadata{}, now)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStore_GetAllStatuses(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "member_statuses"`)).
		WillReturnRows(sqlmock.NewRows([]string{"member_id", "state", "meta", "updated_at"}).
			AddRow("member-1", "active", `{"until":"2025-09-20T23:16:00Z"}`, time.Now()).
			AddRow("member-2", "inactive", `{"since":"2025-09-18T08:00:00Z"}`, time.Now()))

	snap, err := s.GetAllStatuses(context.Background())
	assert.NoError(t, err)
	assert.Len(t, snap, 2)
	assert.Equal(t, status.StateActive, snap["member-1"].State)
	require.NotNil(t, snap["member-1"].Meta.Until)
	assert.Equal(t, status.StateInactive, snap["member-2"].State)
	require.NotNil(t, snap["member-2"].Meta.Since)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_BoardPointer(t *testing.T) {
	t.Run("returns nil when no pointer exists", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "board_pointers"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "channel_id", "message_id", "created_at"}))

		ptr, err := s.GetBoardPointer(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, ptr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replace deletes the old pointer before inserting", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "board_pointers"`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "board_pointers"`)).
			WithArgs("chan-9", "msg-42", Any{}).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := s.ReplaceBoardPointer(context.Background(), "chan-9", "msg-42")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStore_GetLogSince(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	since := time.Now().Add(-7 * 24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "activity_logs" WHERE timestamp >= $1`)).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "action", "timestamp"}).
			AddRow(1, "member-1", "active", time.Now().Add(-time.Hour)).
			AddRow(2, "member-1", "inactive", time.Now()))

	entries, err := s.GetLogSince(context.Background(), since)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "active", entries[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
