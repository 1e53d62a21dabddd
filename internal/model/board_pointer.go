package model

import "time"

// BoardPointer locates the currently live status board message. At most one
// row exists; it is replaced wholesale when the board is reposted.
type BoardPointer struct {
	ID        int64     `gorm:"primaryKey"`
	ChannelID string    `gorm:"size:64;not null"`
	MessageID string    `gorm:"size:64;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
