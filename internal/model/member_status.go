package model

import "time"

// MemberStatus is the single current status row for a member.
// Meta holds the state-dependent payload as JSON; its shape is validated
// before anything is written here.
type MemberStatus struct {
	MemberID  string    `gorm:"primaryKey;size:64"`
	State     string    `gorm:"size:32;not null"`
	Meta      string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
