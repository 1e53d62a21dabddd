package model

import "time"

// ActivityLog records one status transition. Rows are append-only and never
// mutated; the weekly report aggregates over a trailing window of them.
type ActivityLog struct {
	ID        int64     `gorm:"autoIncrement;primaryKey"`
	MemberID  string    `gorm:"size:64;not null;index"`
	Action    string    `gorm:"size:32;not null"`
	Timestamp time.Time `gorm:"not null;index"`
}
