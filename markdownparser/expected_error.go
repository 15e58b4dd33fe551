package markdownparser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidExpectedError is returned when an error block has no message
var ErrInvalidExpectedError = errors.New("invalid expected error")

// normalizeMessage normalizes error messages to a canonical form
// - Converts to lowercase: "Expected Digit" → "expected digit"
// - Collapses whitespace and line breaks: "expected\n  digit" → "expected digit"
func normalizeMessage(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}

// ParseExpectedError parses the content of an error block.
// Returns the normalized message or an error if the block is empty
func ParseExpectedError(content string) (string, error) {
	message := normalizeMessage(content)
	if message == "" {
		return "", fmt.Errorf("%w: empty error block", ErrInvalidExpectedError)
	}
	return message, nil
}

// MatchesExpectedError reports whether an actual error message is the
// expected one once both are normalized.
func MatchesExpectedError(expected, actual string) bool {
	return normalizeMessage(expected) == normalizeMessage(actual)
}
