package diag

import "strings"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the lower-case labels used by the short format.
func ParseSeverity(s string) (Severity, bool) {
	for _, sev := range []Severity{SevInfo, SevWarning, SevError} {
		if strings.EqualFold(s, sev.String()) {
			return sev, true
		}
	}
	return SevInfo, false
}
