// Package notification implements the event-driven fan-out engine:
// audience resolution, routing overrides, payload composition and
// delivery over the web push and native push channels.
package notification

// Event is the engine's only inbound contract: a typed domain event
// with whatever context the business operation that fired it can
// provide. Unknown fields ride along in Fields.
type Event struct {
	Type        string            `json:"eventType"`
	JobID       string            `json:"jobId,omitempty"`
	TourID      string            `json:"tourId,omitempty"`
	RecipientID string            `json:"recipientId,omitempty"`
	ActorID     string            `json:"actorId,omitempty"`
	UserIDs     []string          `json:"userIds,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// Field returns a free-form payload field, or "" when absent.
func (e Event) Field(key string) string {
	if e.Fields == nil {
		return ""
	}
	return e.Fields[key]
}
