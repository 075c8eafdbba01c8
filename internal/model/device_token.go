package model

import "time"

// Platform values for native device tokens.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// DeviceToken holds a provider-issued native push token for one device.
// Same lifecycle as PushSubscription but keyed by the token string.
type DeviceToken struct {
	Token     string `gorm:"primaryKey"`
	UserID    string `gorm:"size:36;not null;index"`
	Platform  string `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}
