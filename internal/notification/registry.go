package notification

import (
	"context"
	"fmt"

	"crewops-backend/internal/directory"
	"crewops-backend/internal/store"
)

// Deps carries the collaborators a builder may read from. Builders are
// pure apart from these reads.
type Deps struct {
	Store     store.Store
	Directory *directory.Directory
}

// Builder maps one event to its message and default audience.
type Builder func(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet)

// Registry maps event codes to builders. It is populated once at
// startup and read-only afterwards; unknown codes fall through to an
// explicit fallback builder.
type Registry struct {
	builders map[string]Builder
	fallback Builder
}

// NewRegistry constructs the registry with every known event code
// bound to exactly one builder. A duplicate registration is a wiring
// bug and fails construction.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		builders: make(map[string]Builder),
		fallback: buildFallback,
	}

	register := map[string]Builder{
		// Job lifecycle.
		"job.created":   buildJobLifecycle,
		"job.updated":   buildJobLifecycle,
		"job.cancelled": buildJobLifecycle,
		"job.deleted":   buildJobLifecycle,

		// Job type change.
		"job.type.changed": buildJobTypeChanged,

		// Assignments.
		"job.assignment.created": buildAssignment,
		"job.assignment.removed": buildAssignment,

		// Documents and incidents.
		"job.document.uploaded":    buildDocumentUploaded,
		"incident.report.uploaded": buildIncidentReport,

		// Staffing.
		"staffing.availability.requested": buildStaffingAvailability,
		"staffing.availability.submitted": buildStaffingAvailability,
		"staffing.offer.sent":             buildStaffingOffer,
		"staffing.offer.accepted":         buildStaffingOffer,
		"staffing.offer.declined":         buildStaffingOffer,

		// Timesheets.
		"timesheet.submitted": buildTimesheetSubmitted,
		"timesheet.approved":  buildTimesheetDecision,
		"timesheet.rejected":  buildTimesheetDecision,

		// Tasks.
		"task.assigned":  buildTaskAssigned,
		"task.completed": buildTaskCompleted,

		// Logistics, tours, messaging, changelog.
		"logistics.updated":   buildLogisticsUpdated,
		"tour.updated":        buildTourUpdated,
		"message.posted":      buildMessagePosted,
		"changelog.published": buildChangelogPublished,
	}

	for code, b := range register {
		if err := r.add(code, b); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(code string, b Builder) error {
	if code == "" || b == nil {
		return fmt.Errorf("registry: empty registration for %q", code)
	}
	if _, dup := r.builders[code]; dup {
		return fmt.Errorf("registry: duplicate builder for event code %q", code)
	}
	r.builders[code] = b
	return nil
}

// Builder returns the builder for the given event code, falling back
// to the catch-all builder for unknown codes.
func (r *Registry) Builder(code string) Builder {
	if b, ok := r.builders[code]; ok {
		return b
	}
	return r.fallback
}

// Known reports whether a dedicated builder exists for the code.
func (r *Registry) Known(code string) bool {
	_, ok := r.builders[code]
	return ok
}
