package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"team-status-backend/internal/model"
	"team-status-backend/internal/status"
)

// Store defines the interface for all database operations.
type Store interface {
	// SetStatus records a status transition: the member's row is upserted
	// and an activity log entry is appended, in one transaction.
	SetStatus(ctx context.Context, memberID string, st status.State, meta status.Metadata, at time.Time) error
	GetAllStatuses(ctx context.Context) (status.Snapshot, error)
	GetLogSince(ctx context.Context, since time.Time) ([]model.ActivityLog, error)
	GetBoardPointer(ctx context.Context) (*model.BoardPointer, error)
	ReplaceBoardPointer(ctx context.Context, channelID, messageID string) error
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for callers that need raw access.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// SetStatus upserts the member's status row and appends the transition to the
// activity log. Overwriting an existing row is normal operation, not an
// error. The log append is never skipped after a successful upsert.
func (s *gormStore) SetStatus(ctx context.Context, memberID string, st status.State, meta status.Metadata, at time.Time) error {
	if err := meta.Validate(st); err != nil {
		return fmt.Errorf("invalid status for member %s: %w", memberID, err)
	}

	metaJSON, err := meta.MarshalMeta()
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertStatus(tx, memberID, st, metaJSON, at); err != nil {
			return err
		}
		return appendLog(tx, memberID, st, at)
	})
}

func upsertStatus(tx *gorm.DB, memberID string, st status.State, metaJSON string, at time.Time) error {
	row := model.MemberStatus{
		MemberID:  memberID,
		State:     string(st),
		Meta:      metaJSON,
		UpdatedAt: at,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "meta", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert status for member %s: %w", memberID, err)
	}
	return nil
}

func appendLog(tx *gorm.DB, memberID string, action status.State, at time.Time) error {
	entry := model.ActivityLog{
		MemberID:  memberID,
		Action:    string(action),
		Timestamp: at,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append activity log for member %s: %w", memberID, err)
	}
	return nil
}

// GetAllStatuses loads every member's current status.
func (s *gormStore) GetAllStatuses(ctx context.Context) (status.Snapshot, error) {
	var rows []model.MemberStatus
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch statuses: %w", err)
	}

	snap := make(status.Snapshot, len(rows))
	for _, row := range rows {
		meta, err := status.UnmarshalMeta(row.Meta)
		if err != nil {
			return nil, fmt.Errorf("corrupt metadata for member %s: %w", row.MemberID, err)
		}
		snap[row.MemberID] = status.Entry{
			State: status.State(row.State),
			Meta:  meta,
		}
	}
	return snap, nil
}

// GetLogSince returns all activity log entries at or after the given instant,
// oldest first.
func (s *gormStore) GetLogSince(ctx context.Context, since time.Time) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	if err := s.db.WithContext(ctx).
		Where("timestamp >= ?", since).
		Order("timestamp ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch activity log: %w", err)
	}
	return entries, nil
}

// GetBoardPointer returns the current board pointer, or nil when no board
// message has ever been published.
func (s *gormStore) GetBoardPointer(ctx context.Context) (*model.BoardPointer, error) {
	var ptr model.BoardPointer
	err := s.db.WithContext(ctx).First(&ptr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch board pointer: %w", err)
	}
	return &ptr, nil
}

// ReplaceBoardPointer deletes any existing pointer and inserts the new one as
// one logical step, so the singleton invariant holds.
func (s *gormStore) ReplaceBoardPointer(ctx context.Context, channelID, messageID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.BoardPointer{}).Error; err != nil {
			return fmt.Errorf("failed to delete old board pointer: %w", err)
		}
		ptr := model.BoardPointer{ChannelID: channelID, MessageID: messageID}
		if err := tx.Create(&ptr).Error; err != nil {
			return fmt.Errorf("failed to insert board pointer: %w", err)
		}
		return nil
	})
}
