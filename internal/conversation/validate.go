package conversation

import "strings"

// MaxContentLength bounds a single message; anything longer is rejected before
// it reaches the log.
const MaxContentLength = 5000

// ValidateContent normalizes message content, returning the trimmed text or a
// *ValidationError listing every reason the content is unusable.
func ValidateContent(content string) (string, error) {
	var reasons []string

	if content == "" {
		reasons = append(reasons, "message content is required")
		return "", &ValidationError{Reasons: reasons}
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		reasons = append(reasons, "message content cannot be empty")
		return "", &ValidationError{Reasons: reasons}
	}

	if len([]rune(trimmed)) > MaxContentLength {
		reasons = append(reasons, "message content is too long (max 5000 characters)")
		return "", &ValidationError{Reasons: reasons}
	}

	return trimmed, nil
}
