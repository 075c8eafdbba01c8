package model

import "time"

// Role values recognized by the recipient directory.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RolePlanner    = "planner"
	RoleTechnician = "technician"
	RoleFreelancer = "freelancer"
)

// ManagementRoles are the roles treated as management-class when
// resolving default audiences.
var ManagementRoles = []string{RoleAdmin, RoleManager, RolePlanner}

// StaffingScope values for the per-admin notification preference.
const (
	StaffingScopeAllDepartments = "all_departments"
	StaffingScopeOwnDepartment  = "own_department"
)

// User represents a crew member or office user.
type User struct {
	ID            string `gorm:"primaryKey;size:36"`
	Name          string `gorm:"size:256;not null"`
	Role          string `gorm:"size:32;not null;index"`
	Department    string `gorm:"size:128;index"`
	StaffingScope string `gorm:"size:32"` // empty defaults to all_departments
	Active        bool   `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
