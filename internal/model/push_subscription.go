package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// One row per endpoint; re-registration upserts the keys and owner.
type PushSubscription struct {
	Endpoint   string `gorm:"primaryKey"`
	UserID     string `gorm:"size:36;not null;index"`
	P256DH     string `gorm:"column:p256dh;not null"`
	Auth       string `gorm:"not null"`
	LastSeenAt time.Time
	CreatedAt  time.Time `gorm:"not null"`
}
