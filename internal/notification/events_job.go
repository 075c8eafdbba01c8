package notification

import (
	"context"
	"fmt"

	"crewops-backend/internal/directory"
)

// buildJobLifecycle covers job.created/updated/cancelled/deleted.
// Management is the natural audience; explicit recipient ids (e.g. a
// freelancer the planner wants to keep in the loop) are guaranteed.
func buildJobLifecycle(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	title := jobTitle(ctx, deps, e)
	actor := userName(ctx, deps, e.ActorID)

	var headline, body string
	switch e.Type {
	case "job.created":
		headline = "New job"
		body = fmt.Sprintf("%s created %s", actor, title)
	case "job.cancelled":
		headline = "Job cancelled"
		body = fmt.Sprintf("%s cancelled %s", actor, title)
	case "job.deleted":
		headline = "Job deleted"
		body = fmt.Sprintf("%s deleted %s", actor, title)
	default: // job.updated
		headline = "Job updated"
		body = fmt.Sprintf("%s updated %s", actor, title)
		if field := e.Field("changedField"); field != "" {
			body = fmt.Sprintf("%s updated %s of %s", actor, field, title)
		}
	}

	set := NewRecipientSet()
	set.Add(e.UserIDs...)
	set.Add(e.RecipientID)
	set.AddNatural(deps.Directory.ManagementUserIDs(ctx, directory.ExcludeAll)...)

	route := jobRoute(e)
	if e.Type == "job.deleted" {
		route = "/jobs"
	}

	return &Payload{
		Title: headline,
		Body:  body,
		URL:   SafeURL(e.Field("url"), route),
		Type:  e.Type,
	}, set
}

// buildJobTypeChanged notifies management and everyone already working
// the job, since a type change can shift call times and crew needs.
func buildJobTypeChanged(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	title := jobTitle(ctx, deps, e)
	body := fmt.Sprintf("%s changed the type of %s", userName(ctx, deps, e.ActorID), title)
	if from, to := e.Field("fromType"), e.Field("toType"); from != "" && to != "" {
		body = fmt.Sprintf("%s changed %s from %s to %s", userName(ctx, deps, e.ActorID), title, from, to)
	}

	set := NewRecipientSet()
	set.Add(e.UserIDs...)
	set.AddNatural(deps.Directory.ManagementUserIDs(ctx, directory.ExcludeAll)...)
	set.AddNatural(deps.Directory.JobParticipantIDs(ctx, e.JobID, directory.ExcludeAll)...)

	return &Payload{
		Title: "Job type changed",
		Body:  body,
		URL:   SafeURL(e.Field("url"), jobRoute(e)),
		Type:  e.Type,
	}, set
}

// buildAssignment covers job.assignment.created/removed. The affected
// crew member is guaranteed; management is natural.
func buildAssignment(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	title := jobTitle(ctx, deps, e)

	var headline, body string
	if e.Type == "job.assignment.removed" {
		headline = "Removed from job"
		body = fmt.Sprintf("You have been removed from %s", title)
	} else {
		headline = "New assignment"
		body = fmt.Sprintf("You have been assigned to %s", title)
	}

	set := NewRecipientSet()
	set.Add(e.RecipientID)
	set.Add(e.UserIDs...)
	set.AddNatural(deps.Directory.ManagementUserIDs(ctx, directory.ExcludeAll)...)

	return &Payload{
		Title: headline,
		Body:  body,
		URL:   SafeURL(e.Field("url"), jobRoute(e)),
		Type:  e.Type,
	}, set
}

// buildDocumentUploaded notifies management and the job crew about a
// new document on the job.
func buildDocumentUploaded(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	title := jobTitle(ctx, deps, e)
	doc := e.Field("documentName")
	if doc == "" {
		doc = "a document"
	}
	body := fmt.Sprintf("%s uploaded %s to %s", userName(ctx, deps, e.ActorID), doc, title)

	set := NewRecipientSet()
	set.Add(e.UserIDs...)
	set.AddNatural(deps.Directory.ManagementUserIDs(ctx, directory.ExcludeAll)...)
	set.AddNatural(deps.Directory.JobParticipantIDs(ctx, e.JobID, directory.ExcludeAll)...)

	return &Payload{
		Title: "Document uploaded",
		Body:  body,
		URL:   SafeURL(e.Field("url"), jobRoute(e)+"/documents"),
		Type:  e.Type,
	}, set
}

// buildIncidentReport covers incident.report.uploaded. Safety-critical:
// the actor and the staffing-scoped admins are guaranteed (the admin
// read fails open rather than dropping anyone), management of the
// job's department and the whole job crew are natural.
func buildIncidentReport(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	title := jobTitle(ctx, deps, e)
	actor := userName(ctx, deps, e.ActorID)
	dept := jobDepartment(ctx, deps, e)

	set := NewRecipientSet()
	set.Add(e.ActorID)
	set.Add(deps.Directory.AdminUserIDsForStaffing(ctx, dept, directory.IncludeAll)...)
	set.AddNatural(deps.Directory.ManagementInDepartment(ctx, dept, directory.ExcludeAll)...)
	set.AddNatural(deps.Directory.JobParticipantIDs(ctx, e.JobID, directory.ExcludeAll)...)

	return &Payload{
		Title: "⚠️ Incident report",
		Body:  fmt.Sprintf("%s reported an incident on %s", actor, title),
		URL:   SafeURL(e.Field("url"), jobRoute(e)+"/incidents"),
		Type:  e.Type,
	}, set
}
