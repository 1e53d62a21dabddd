package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// SubscriptionMember maps a push subscription to a roster member whose
// status transitions it wants to hear about. Members live in config, not in
// the database, so this is a plain join row rather than an association.
type SubscriptionMember struct {
	Endpoint string `gorm:"primaryKey;size:512"`
	MemberID string `gorm:"primaryKey;size:64"`
}
