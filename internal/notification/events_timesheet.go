package notification

import (
	"context"
	"fmt"

	"crewops-backend/internal/directory"
)

// buildTimesheetSubmitted notifies the submitting technician's
// department management plus the staffing-scoped admins. The scope is
// the technician's department on purpose: the job itself may have no
// fixed department or a different one.
func buildTimesheetSubmitted(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	subject := e.ActorID
	dept := subjectDepartment(ctx, deps, subject)
	title := jobTitle(ctx, deps, e)

	set := NewRecipientSet()
	set.AddNatural(deps.Directory.ManagementInDepartment(ctx, dept, directory.ExcludeAll)...)
	set.AddNatural(deps.Directory.AdminUserIDsForStaffing(ctx, dept, directory.IncludeAll)...)

	return &Payload{
		Title: "Timesheet submitted",
		Body:  fmt.Sprintf("%s submitted a timesheet for %s", userName(ctx, deps, subject), title),
		URL:   SafeURL(e.Field("url"), "/timesheets"),
		Type:  e.Type,
	}, set
}

// buildTimesheetDecision covers timesheet.approved and
// timesheet.rejected; the technician who owns the timesheet is the
// guaranteed recipient.
func buildTimesheetDecision(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	title := jobTitle(ctx, deps, e)

	var headline, body string
	if e.Type == "timesheet.rejected" {
		headline = "Timesheet rejected"
		body = fmt.Sprintf("Your timesheet for %s was rejected", title)
		if reason := e.Field("reason"); reason != "" {
			body = fmt.Sprintf("Your timesheet for %s was rejected: %s", title, reason)
		}
	} else {
		headline = "Timesheet approved"
		body = fmt.Sprintf("Your timesheet for %s was approved", title)
	}

	set := NewRecipientSet()
	set.Add(e.RecipientID)

	return &Payload{
		Title: headline,
		Body:  body,
		URL:   SafeURL(e.Field("url"), "/timesheets"),
		Type:  e.Type,
	}, set
}
