package model

// ActivityType maps an event code to a human label. Used by the
// fallback notification rule for codes without a dedicated handler.
type ActivityType struct {
	Code  string `gorm:"primaryKey;size:128"`
	Label string `gorm:"size:256;not null"`
}
