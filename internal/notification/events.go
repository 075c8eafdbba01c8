package notification

import (
	"context"
	"fmt"
	"log"

	"crewops-backend/internal/directory"
	"crewops-backend/internal/model"
)

// lookupJob resolves the event's job row, or nil when absent. A failed
// read is logged and treated as absent: message composition degrades
// to generic wording instead of failing the dispatch.
func lookupJob(ctx context.Context, deps *Deps, e Event) *model.Job {
	if e.JobID == "" {
		return nil
	}
	job, err := deps.Store.JobByID(ctx, e.JobID)
	if err != nil {
		log.Printf("notification: job lookup %q failed: %v", e.JobID, err)
		return nil
	}
	return job
}

// jobTitle returns a human label for the event's job. Callers may
// supply one in the payload to save the lookup.
func jobTitle(ctx context.Context, deps *Deps, e Event) string {
	if t := e.Field("jobTitle"); t != "" {
		return t
	}
	if job := lookupJob(ctx, deps, e); job != nil {
		return job.Title
	}
	return "a job"
}

// jobDepartment returns the department of the event's job, or "".
func jobDepartment(ctx context.Context, deps *Deps, e Event) string {
	if job := lookupJob(ctx, deps, e); job != nil {
		return job.Department
	}
	return ""
}

// userName resolves a display name for the given user id.
func userName(ctx context.Context, deps *Deps, userID string) string {
	if userID == "" {
		return "Someone"
	}
	user, err := deps.Store.UserByID(ctx, userID)
	if err != nil {
		log.Printf("notification: user lookup %q failed: %v", userID, err)
		return "Someone"
	}
	return user.Name
}

// subjectDepartment resolves the department that scopes a staffing or
// timesheet event: the subject technician's own department, never the
// job's. A lighting manager must not hear about a sound technician's
// timesheet just because the job spans departments.
func subjectDepartment(ctx context.Context, deps *Deps, subjectID string) string {
	return deps.Directory.DepartmentOf(ctx, subjectID)
}

// jobRoute returns the default navigation target for job-scoped events.
func jobRoute(e Event) string {
	if e.JobID == "" {
		return "/jobs"
	}
	return "/jobs/" + e.JobID
}

// buildFallback handles event codes without a dedicated builder. The
// label comes from the activity catalog and the audience defaults to
// management, so nothing configured upstream disappears silently.
func buildFallback(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	label, err := deps.Store.ActivityLabel(ctx, e.Type)
	if err != nil || label == "" {
		label = "Activity update"
	}

	set := NewRecipientSet()
	set.Add(e.UserIDs...)
	set.Add(e.RecipientID)
	set.AddNatural(deps.Directory.ManagementUserIDs(ctx, directory.ExcludeAll)...)

	body := label
	if e.JobID != "" {
		body = fmt.Sprintf("%s on %s", label, jobTitle(ctx, deps, e))
	}

	return &Payload{
		Title: label,
		Body:  body,
		URL:   SafeURL(e.Field("url"), jobRoute(e)),
		Type:  e.Type,
	}, set
}
