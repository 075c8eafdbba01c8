// Package directory resolves notification audiences from role,
// department and job-participation data. Every read degrades instead
// of failing: a directory fault must never abort the dispatch that
// asked for an audience.
package directory

import (
	"context"
	"log"

	"gorm.io/gorm"

	"crewops-backend/internal/model"
)

// ErrorPolicy states what a read returns when its query fails. The
// policy is an explicit argument so the choice is visible and testable
// at every call site.
type ErrorPolicy int

const (
	// ExcludeAll degrades to an empty audience on error.
	ExcludeAll ErrorPolicy = iota
	// IncludeAll fails open to the widest audience the read supports.
	// Used where a dropped notification is worse than an extra one.
	IncludeAll
)

// Directory performs read-only audience queries against the user and
// assignment tables.
type Directory struct {
	db *gorm.DB
}

// New creates a Directory over the given database handle.
func New(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// ManagementUserIDs returns every active user with a management-class
// role.
func (d *Directory) ManagementUserIDs(ctx context.Context, onError ErrorPolicy) []string {
	var ids []string
	err := d.db.WithContext(ctx).Model(&model.User{}).
		Where("role IN ? AND active = ?", model.ManagementRoles, true).
		Distinct().Pluck("id", &ids).Error
	if err != nil {
		log.Printf("directory: management query failed: %v", err)
		return d.onError(ctx, onError, nil)
	}
	return ids
}

// UsersInDepartment returns every active user in the named department.
func (d *Directory) UsersInDepartment(ctx context.Context, dept string, onError ErrorPolicy) []string {
	if dept == "" {
		return nil
	}
	var ids []string
	err := d.db.WithContext(ctx).Model(&model.User{}).
		Where("department = ? AND active = ?", dept, true).
		Distinct().Pluck("id", &ids).Error
	if err != nil {
		log.Printf("directory: department %q query failed: %v", dept, err)
		return d.onError(ctx, onError, nil)
	}
	return ids
}

// ManagementInDepartment returns active management-class users in the
// named department. An empty department resolves to all management, so
// department-less events still reach someone responsible.
func (d *Directory) ManagementInDepartment(ctx context.Context, dept string, onError ErrorPolicy) []string {
	if dept == "" {
		return d.ManagementUserIDs(ctx, onError)
	}
	var ids []string
	err := d.db.WithContext(ctx).Model(&model.User{}).
		Where("role IN ? AND department = ? AND active = ?", model.ManagementRoles, dept, true).
		Distinct().Pluck("id", &ids).Error
	if err != nil {
		log.Printf("directory: management in department %q query failed: %v", dept, err)
		return d.onError(ctx, onError, nil)
	}
	return ids
}

// AdminUserIDs returns every active admin.
func (d *Directory) AdminUserIDs(ctx context.Context, onError ErrorPolicy) []string {
	var ids []string
	err := d.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ? AND active = ?", model.RoleAdmin, true).
		Distinct().Pluck("id", &ids).Error
	if err != nil {
		log.Printf("directory: admin query failed: %v", err)
		return d.onError(ctx, onError, nil)
	}
	return ids
}

// AdminUserIDsForStaffing returns the admins whose staffing-scope
// preference covers the given department. A missing preference counts
// as all_departments. Callers pass IncludeAll here: staffing and
// incident notifications must not vanish because the preference read
// broke, so errors fall open to the full admin list.
func (d *Directory) AdminUserIDsForStaffing(ctx context.Context, dept string, onError ErrorPolicy) []string {
	var admins []model.User
	err := d.db.WithContext(ctx).
		Select("id", "department", "staffing_scope").
		Where("role = ? AND active = ?", model.RoleAdmin, true).
		Find(&admins).Error
	if err != nil {
		log.Printf("directory: staffing-scope query failed: %v", err)
		return d.onError(ctx, onError, func(ctx context.Context) []string {
			return d.AdminUserIDs(ctx, ExcludeAll)
		})
	}

	ids := make([]string, 0, len(admins))
	for _, a := range admins {
		switch a.StaffingScope {
		case model.StaffingScopeOwnDepartment:
			if a.Department == dept {
				ids = append(ids, a.ID)
			}
		default: // all_departments or unset
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// JobParticipantIDs returns every user assigned to the given job.
func (d *Directory) JobParticipantIDs(ctx context.Context, jobID string, onError ErrorPolicy) []string {
	if jobID == "" {
		return nil
	}
	var ids []string
	err := d.db.WithContext(ctx).Model(&model.JobAssignment{}).
		Where("job_id = ?", jobID).
		Distinct().Pluck("user_id", &ids).Error
	if err != nil {
		log.Printf("directory: participants query for job %q failed: %v", jobID, err)
		return d.onError(ctx, onError, nil)
	}
	return ids
}

// DepartmentOf returns the department of a single user, or "" when
// the user is unknown or the read fails.
func (d *Directory) DepartmentOf(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	var user model.User
	err := d.db.WithContext(ctx).Select("department").First(&user, "id = ?", userID).Error
	if err != nil {
		log.Printf("directory: department lookup for user %q failed: %v", userID, err)
		return ""
	}
	return user.Department
}

// AllActiveUserIDs returns every active user. Used by broadcast-class
// events such as changelog publications.
func (d *Directory) AllActiveUserIDs(ctx context.Context, onError ErrorPolicy) []string {
	var ids []string
	err := d.db.WithContext(ctx).Model(&model.User{}).
		Where("active = ?", true).
		Distinct().Pluck("id", &ids).Error
	if err != nil {
		log.Printf("directory: active-user query failed: %v", err)
		return d.onError(ctx, onError, nil)
	}
	return ids
}

// onError applies the policy after a failed query. widest is the
// fallback used for IncludeAll; a read with no wider audience than
// itself (most of them) passes nil and degrades to empty either way.
func (d *Directory) onError(ctx context.Context, policy ErrorPolicy, widest func(context.Context) []string) []string {
	if policy == IncludeAll && widest != nil {
		return widest(ctx)
	}
	return nil
}
