package notification

import (
	"context"
	"fmt"
	"log"

	"crewops-backend/internal/directory"
)

// buildTaskAssigned notifies the assignee.
func buildTaskAssigned(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	task := e.Field("taskName")
	if task == "" {
		task = "a task"
	}
	body := fmt.Sprintf("%s assigned you %s", userName(ctx, deps, e.ActorID), task)

	set := NewRecipientSet()
	set.Add(e.RecipientID)
	set.Add(e.UserIDs...)

	return &Payload{
		Title: "Task assigned",
		Body:  body,
		URL:   SafeURL(e.Field("url"), "/tasks"),
		Type:  e.Type,
	}, set
}

// buildTaskCompleted notifies management that a task was closed.
func buildTaskCompleted(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	task := e.Field("taskName")
	if task == "" {
		task = "a task"
	}
	body := fmt.Sprintf("%s completed %s", userName(ctx, deps, e.ActorID), task)

	set := NewRecipientSet()
	set.Add(e.UserIDs...)
	set.AddNatural(deps.Directory.ManagementUserIDs(ctx, directory.ExcludeAll)...)

	return &Payload{
		Title: "Task completed",
		Body:  body,
		URL:   SafeURL(e.Field("url"), "/tasks"),
		Type:  e.Type,
	}, set
}

// buildLogisticsUpdated notifies management and the job crew about a
// change to transport or equipment logistics.
func buildLogisticsUpdated(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	title := jobTitle(ctx, deps, e)
	body := fmt.Sprintf("Logistics updated for %s", title)
	if detail := e.Field("detail"); detail != "" {
		body = fmt.Sprintf("Logistics updated for %s: %s", title, detail)
	}

	set := NewRecipientSet()
	set.Add(e.UserIDs...)
	set.AddNatural(deps.Directory.ManagementUserIDs(ctx, directory.ExcludeAll)...)
	set.AddNatural(deps.Directory.JobParticipantIDs(ctx, e.JobID, directory.ExcludeAll)...)

	return &Payload{
		Title: "Logistics updated",
		Body:  body,
		URL:   SafeURL(e.Field("url"), jobRoute(e)+"/logistics"),
		Type:  e.Type,
	}, set
}

// buildTourUpdated notifies management plus the crews of the tour's
// jobs; callers pass the affected crew in UserIDs since the tour's
// job list can be large and is known at the call site.
func buildTourUpdated(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	tourName := e.Field("tourName")
	if tourName == "" && e.TourID != "" {
		tour, err := deps.Store.TourByID(ctx, e.TourID)
		if err != nil {
			log.Printf("notification: tour lookup %q failed: %v", e.TourID, err)
		} else {
			tourName = tour.Name
		}
	}
	if tourName == "" {
		tourName = "a tour"
	}
	body := fmt.Sprintf("%s updated %s", userName(ctx, deps, e.ActorID), tourName)

	set := NewRecipientSet()
	set.AddNatural(deps.Directory.ManagementUserIDs(ctx, directory.ExcludeAll)...)
	set.AddNatural(e.UserIDs...)

	route := "/tours"
	if e.TourID != "" {
		route = "/tours/" + e.TourID
	}

	return &Payload{
		Title: "Tour updated",
		Body:  body,
		URL:   SafeURL(e.Field("url"), route),
		Type:  e.Type,
	}, set
}

// buildMessagePosted delivers to the explicit recipient list only.
func buildMessagePosted(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	body := e.Field("preview")
	if body == "" {
		body = fmt.Sprintf("New message from %s", userName(ctx, deps, e.ActorID))
	}

	set := NewRecipientSet()
	set.Add(e.UserIDs...)
	set.Add(e.RecipientID)

	return &Payload{
		Title: fmt.Sprintf("Message from %s", userName(ctx, deps, e.ActorID)),
		Body:  body,
		URL:   SafeURL(e.Field("url"), "/messages"),
		Type:  e.Type,
	}, set
}

// buildChangelogPublished broadcasts release notes to every active
// user.
func buildChangelogPublished(ctx context.Context, deps *Deps, e Event) (*Payload, *RecipientSet) {
	version := e.Field("version")
	title := "What's new"
	if version != "" {
		title = fmt.Sprintf("What's new in %s", version)
	}
	body := e.Field("summary")
	if body == "" {
		body = "A new changelog entry was published"
	}

	set := NewRecipientSet()
	set.AddNatural(deps.Directory.AllActiveUserIDs(ctx, directory.ExcludeAll)...)

	return &Payload{
		Title: title,
		Body:  body,
		URL:   SafeURL(e.Field("url"), "/changelog"),
		Type:  e.Type,
	}, set
}
