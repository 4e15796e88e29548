package service

import (
	"fmt"
	"strings"

	"github.com/sactel/admin-console/pkg/result"
)

// FallbackMode decides when a failed remote login may be retried against the
// static credential table.
type FallbackMode string

const (
	// FallbackOff never consults the credential table.
	FallbackOff FallbackMode = "off"
	// FallbackUnavailable consults the table only when the auth service could
	// not give an answer: transport errors, timeouts, cancellation, 5xx and
	// unreadable payloads. An explicit rejection is final.
	FallbackUnavailable FallbackMode = "unavailable"
	// FallbackAlways consults the table after any failure, including an
	// explicit rejection of the credentials.
	FallbackAlways FallbackMode = "always"
)

// ParseFallbackMode accepts the config spelling of a mode. Empty means
// FallbackUnavailable.
func ParseFallbackMode(s string) (FallbackMode, error) {
	switch m := FallbackMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return FallbackUnavailable, nil
	case FallbackOff, FallbackUnavailable, FallbackAlways:
		return m, nil
	default:
		return "", fmt.Errorf("unknown fallback mode %q", s)
	}
}

// allows reports whether failure f permits a fallback lookup.
func (m FallbackMode) allows(f *result.Failure) bool {
	if f == nil {
		return false
	}
	switch m {
	case FallbackAlways:
		return true
	case FallbackUnavailable:
		return f.Connectivity()
	default:
		return false
	}
}
