package conversation

import (
	"fmt"
	"strings"
)

// ValidationError reports why a piece of message content was rejected. Reasons
// accumulate so callers can surface all problems at once.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid message content: %s", strings.Join(e.Reasons, "; "))
}

// UnsupportedFormatError is returned by Export for unknown format names.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %q", e.Format)
}
