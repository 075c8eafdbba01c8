package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeURL(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      string
	}{
		{"internal path accepted", "/jobs/123", "/jobs/123"},
		{"protocol-relative rejected", "//evil.example", "/fallback"},
		{"encoded protocol-relative rejected", "%2F%2Fevil.example", "/fallback"},
		{"absolute url rejected", "http://evil.example", "/fallback"},
		{"empty rejected", "", "/fallback"},
		{"slash-encoded-slash rejected", "/%2Fevil.example", "/fallback"},
		{"bad escape rejected", "/jobs/%zz", "/fallback"},
		{"root accepted", "/", "/"},
		{"query kept", "/jobs/123?tab=docs", "/jobs/123?tab=docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeURL(tt.candidate, "/fallback"))
		})
	}
}
