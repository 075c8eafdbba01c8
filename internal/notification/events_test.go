package notification

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewops-backend/internal/model"
)

func newDeps(t *testing.T) (*Deps, func(...any)) {
	gdb, st, dir := newTestEnv(t)
	deps := &Deps{Store: st, Directory: dir}
	return deps, func(rows ...any) { seed(t, gdb, rows...) }
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	assert.True(t, reg.Known("job.updated"))
	assert.True(t, reg.Known("incident.report.uploaded"))
	assert.False(t, reg.Known("something.unknown"))
	assert.NotNil(t, reg.Builder("something.unknown"), "unknown codes must resolve to the fallback")
}

func TestBuildJobLifecycle(t *testing.T) {
	deps, seed := newDeps(t)
	seed(
		user("mgr1", "Morgan", model.RoleManager, ""),
		user("act1", "Alex", model.RoleTechnician, "sound"),
		&model.Job{ID: "job1", Title: "Arena load-in"},
	)

	p, set := buildJobLifecycle(context.Background(), deps, Event{
		Type:    "job.updated",
		JobID:   "job1",
		ActorID: "act1",
	})

	assert.Equal(t, "Job updated", p.Title)
	assert.Equal(t, "Alex updated Arena load-in", p.Body)
	assert.Equal(t, "/jobs/job1", p.URL)
	assert.ElementsMatch(t, []string{"mgr1"}, set.Recipients())
}

func TestBuildAssignment_GuaranteesAssignee(t *testing.T) {
	deps, seed := newDeps(t)
	seed(
		user("mgr1", "Morgan", model.RoleManager, ""),
		&model.Job{ID: "job1", Title: "Club night"},
	)

	p, set := buildAssignment(context.Background(), deps, Event{
		Type:        "job.assignment.created",
		JobID:       "job1",
		RecipientID: "tech9",
	})

	assert.Equal(t, "New assignment", p.Title)
	assert.Contains(t, p.Body, "Club night")
	assert.True(t, set.Contains("tech9"))

	// The assignee survives an override that strips natural recipients.
	set.StripNatural()
	assert.Equal(t, []string{"tech9"}, set.Recipients())
}

func TestBuildTimesheetSubmitted_ScopedToTechnicianDepartment(t *testing.T) {
	deps, seed := newDeps(t)
	seed(
		user("tech-sound", "Sam", model.RoleTechnician, "sound"),
		user("mgr-sound", "Morgan", model.RoleManager, "sound"),
		user("mgr-lights", "Lee", model.RoleManager, "lights"),
		adminWithScope("adm-all", "Ada", "lights", model.StaffingScopeAllDepartments),
		// The job itself has no department on purpose.
		&model.Job{ID: "job1", Title: "Stadium show"},
	)

	_, set := buildTimesheetSubmitted(context.Background(), deps, Event{
		Type:    "timesheet.submitted",
		JobID:   "job1",
		ActorID: "tech-sound",
	})

	assert.True(t, set.Contains("mgr-sound"))
	assert.True(t, set.Contains("adm-all"))
	assert.False(t, set.Contains("mgr-lights"),
		"management outside the technician's department must not be notified")
}

func TestBuildTimesheetDecision(t *testing.T) {
	deps, seed := newDeps(t)
	seed(&model.Job{ID: "job1", Title: "Stadium show"})

	p, set := buildTimesheetDecision(context.Background(), deps, Event{
		Type:        "timesheet.rejected",
		JobID:       "job1",
		RecipientID: "tech1",
		Fields:      map[string]string{"reason": "missing breaks"},
	})

	assert.Equal(t, "Timesheet rejected", p.Title)
	assert.Contains(t, p.Body, "missing breaks")
	assert.Equal(t, []string{"tech1"}, set.Recipients())
}

func TestBuildStaffingOffer_SentTargetsOffereeOnly(t *testing.T) {
	deps, seed := newDeps(t)
	seed(
		user("mgr1", "Morgan", model.RoleManager, "sound"),
		&model.Job{ID: "job1", Title: "Corporate gig"},
	)

	_, set := buildStaffingOffer(context.Background(), deps, Event{
		Type:        "staffing.offer.sent",
		JobID:       "job1",
		RecipientID: "free1",
	})

	assert.Equal(t, []string{"free1"}, set.Recipients())
}

func TestBuildStaffingOffer_DeclinedScopedToTechnicianDepartment(t *testing.T) {
	deps, seed := newDeps(t)
	seed(
		user("tech-lights", "Taylor", model.RoleTechnician, "lights"),
		user("mgr-lights", "Lee", model.RoleManager, "lights"),
		user("mgr-sound", "Morgan", model.RoleManager, "sound"),
		adminWithScope("adm-own-lights", "Ada", "lights", model.StaffingScopeOwnDepartment),
		adminWithScope("adm-own-sound", "Abe", "sound", model.StaffingScopeOwnDepartment),
		&model.Job{ID: "job1", Title: "Corporate gig", Department: "sound"},
	)

	_, set := buildStaffingOffer(context.Background(), deps, Event{
		Type:    "staffing.offer.declined",
		JobID:   "job1",
		ActorID: "tech-lights",
	})

	// Scoped by the technician's department, not the job's.
	assert.True(t, set.Contains("mgr-lights"))
	assert.True(t, set.Contains("adm-own-lights"))
	assert.False(t, set.Contains("mgr-sound"))
	assert.False(t, set.Contains("adm-own-sound"))
}

func TestBuildIncidentReport(t *testing.T) {
	deps, seed := newDeps(t)
	seed(
		user("act1", "Alex", model.RoleTechnician, "sound"),
		user("mgr-sound", "Morgan", model.RoleManager, "sound"),
		user("mgr-lights", "Lee", model.RoleManager, "lights"),
		adminWithScope("adm-all", "Ada", "video", model.StaffingScopeAllDepartments),
		adminWithScope("adm-own-sound", "Abe", "sound", model.StaffingScopeOwnDepartment),
		adminWithScope("adm-own-lights", "Ann", "lights", model.StaffingScopeOwnDepartment),
		&model.Job{ID: "job1", Title: "Arena night", Department: "sound"},
		&model.JobAssignment{JobID: "job1", UserID: "crew1"},
		&model.JobAssignment{JobID: "job1", UserID: "crew2"},
	)

	p, set := buildIncidentReport(context.Background(), deps, Event{
		Type:    "incident.report.uploaded",
		JobID:   "job1",
		ActorID: "act1",
	})

	assert.True(t, strings.HasPrefix(p.Title, "⚠️"))
	assert.Contains(t, p.Body, "Alex")
	assert.Contains(t, p.Body, "Arena night")

	assert.ElementsMatch(t,
		[]string{"act1", "mgr-sound", "adm-all", "adm-own-sound", "crew1", "crew2"},
		set.Recipients())
	assert.False(t, set.Contains("mgr-lights"))
	assert.False(t, set.Contains("adm-own-lights"))
}

func TestBuildChangelogPublished(t *testing.T) {
	deps, seed := newDeps(t)
	seed(
		user("u1", "U1", model.RoleTechnician, ""),
		user("u2", "U2", model.RoleManager, ""),
		&model.User{ID: "u3", Name: "U3", Role: model.RoleFreelancer, Active: false},
	)

	p, set := buildChangelogPublished(context.Background(), deps, Event{
		Type:   "changelog.published",
		Fields: map[string]string{"version": "2.4.0"},
	})

	assert.Equal(t, "What's new in 2.4.0", p.Title)
	assert.ElementsMatch(t, []string{"u1", "u2"}, set.Recipients())
}

func TestBuildFallback_UsesActivityCatalog(t *testing.T) {
	deps, seed := newDeps(t)
	seed(
		user("mgr1", "Morgan", model.RoleManager, ""),
		&model.ActivityType{Code: "gear.checked_out", Label: "Gear checked out"},
	)

	p, set := buildFallback(context.Background(), deps, Event{Type: "gear.checked_out"})

	assert.Equal(t, "Gear checked out", p.Title)
	assert.ElementsMatch(t, []string{"mgr1"}, set.Recipients())
}

func TestBuildFallback_UnknownCodeWithoutCatalogEntry(t *testing.T) {
	deps, seed := newDeps(t)
	seed(user("mgr1", "Morgan", model.RoleManager, ""))

	p, set := buildFallback(context.Background(), deps, Event{Type: "totally.new"})

	assert.Equal(t, "Activity update", p.Title)
	assert.ElementsMatch(t, []string{"mgr1"}, set.Recipients())
}

func TestBuilders_RejectUnsafeURLField(t *testing.T) {
	deps, seed := newDeps(t)
	seed(user("mgr1", "Morgan", model.RoleManager, ""), &model.Job{ID: "job1", Title: "Show"})

	p, _ := buildJobLifecycle(context.Background(), deps, Event{
		Type:   "job.updated",
		JobID:  "job1",
		Fields: map[string]string{"url": "//evil.example"},
	})
	assert.Equal(t, "/jobs/job1", p.URL)

	p, _ = buildJobLifecycle(context.Background(), deps, Event{
		Type:   "job.updated",
		JobID:  "job1",
		Fields: map[string]string{"url": "/jobs/job1?tab=crew"},
	})
	assert.Equal(t, "/jobs/job1?tab=crew", p.URL)
}
