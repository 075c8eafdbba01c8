package notification

import (
	"net/url"
	"strings"
)

// Payload is the composed notification, built once per dispatch and
// shared by every endpoint delivery.
type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	URL   string            `json:"url"`
	Type  string            `json:"type"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// SafeURL validates a caller-supplied navigation path and returns it
// unchanged when safe, or the event's default route otherwise. Only
// internal same-origin paths pass: a single leading slash, no
// protocol-relative "//" prefix, before and after percent-decoding.
// This keeps an attacker-controlled payload field from turning a
// notification into an open redirect.
func SafeURL(candidate, fallback string) string {
	if isInternalPath(candidate) {
		return candidate
	}
	return fallback
}

func isInternalPath(p string) bool {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return false
	}
	decoded, err := url.PathUnescape(p)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(decoded, "//")
}
