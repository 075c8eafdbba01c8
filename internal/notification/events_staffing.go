package notification

import (
	"context"
	"fmt"

	"crewops-backend/internal/directory"
)

// Staffing events are scoped by the subject technician's department,
// not the job's: availability and offers concern the technician's desk.

// buildStaffingAvailability covers staffing.availability.requested and
// staffing.availability.submitted.
func buildStaffingAvailability(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	set := NewRecipientSet()

	var headline, body string
	if e.Type == "staffing.availability.requested" {
		// Asking a technician for availability: the technician is the
		// guaranteed recipient.
		headline = "Availability requested"
		body = fmt.Sprintf("%s asked for your availability", userName(ctx, deps, e.ActorID))
		if period := e.Field("period"); period != "" {
			body = fmt.Sprintf("%s asked for your availability for %s", userName(ctx, deps, e.ActorID), period)
		}
		set.Add(e.RecipientID)
		set.Add(e.UserIDs...)
	} else {
		// A technician submitted availability: their department's
		// management and the staffing-scoped admins hear about it.
		subject := e.ActorID
		dept := subjectDepartment(ctx, deps, subject)
		headline = "Availability submitted"
		body = fmt.Sprintf("%s submitted availability", userName(ctx, deps, subject))
		set.AddNatural(deps.Directory.ManagementInDepartment(ctx, dept, directory.ExcludeAll)...)
		set.AddNatural(deps.Directory.AdminUserIDsForStaffing(ctx, dept, directory.IncludeAll)...)
	}

	return &Payload{
		Title: headline,
		Body:  body,
		URL:   SafeURL(e.Field("url"), "/staffing/availability"),
		Type:  e.Type,
	}, set
}

// buildStaffingOffer covers staffing.offer.sent/accepted/declined.
func buildStaffingOffer(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	title := jobTitle(ctx, deps, e)
	set := NewRecipientSet()

	var headline, body string
	switch e.Type {
	case "staffing.offer.sent":
		// The offeree is guaranteed; nobody else needs the ping.
		headline = "New staffing offer"
		body = fmt.Sprintf("You have been offered a spot on %s", title)
		set.Add(e.RecipientID)
		set.Add(e.UserIDs...)
	case "staffing.offer.accepted":
		subject := e.ActorID
		dept := subjectDepartment(ctx, deps, subject)
		headline = "Offer accepted"
		body = fmt.Sprintf("%s accepted the offer for %s", userName(ctx, deps, subject), title)
		set.AddNatural(deps.Directory.ManagementInDepartment(ctx, dept, directory.ExcludeAll)...)
		set.AddNatural(deps.Directory.AdminUserIDsForStaffing(ctx, dept, directory.IncludeAll)...)
	default: // staffing.offer.declined
		subject := e.ActorID
		dept := subjectDepartment(ctx, deps, subject)
		headline = "Offer declined"
		body = fmt.Sprintf("%s declined the offer for %s", userName(ctx, deps, subject), title)
		set.AddNatural(deps.Directory.ManagementInDepartment(ctx, dept, directory.ExcludeAll)...)
		set.AddNatural(deps.Directory.AdminUserIDsForStaffing(ctx, dept, directory.IncludeAll)...)
	}

	return &Payload{
		Title: headline,
		Body:  body,
		URL:   SafeURL(e.Field("url"), "/staffing/offers"),
		Type:  e.Type,
	}, set
}
