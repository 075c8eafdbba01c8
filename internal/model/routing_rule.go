package model

import "time"

// RecipientType values for routing rules.
const (
	RecipientTypeManagementUser      = "management_user"
	RecipientTypeDepartment          = "department"
	RecipientTypeBroadcast           = "broadcast"
	RecipientTypeNatural             = "natural"
	RecipientTypeAssignedTechnicians = "assigned_technicians"
)

// RoutingRule is a configurable audience override for one event code.
// Rules are managed elsewhere; this engine only reads them, fresh on
// every dispatch so policy changes take effect immediately.
type RoutingRule struct {
	ID                       int64   `gorm:"primaryKey;autoIncrement"`
	EventCode                string  `gorm:"size:128;not null;index"`
	RecipientType            string  `gorm:"size:32;not null"`
	TargetID                 *string `gorm:"size:128"`
	IncludeNaturalRecipients bool    `gorm:"not null;default:false"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
