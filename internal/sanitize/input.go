package sanitize

import (
	"fmt"
	"regexp"
)

// Bounds for free-text parameters that end up in a query string.
const (
	MaxQueryLength = 500
	MaxTagLength   = 100
)

// Control characters have no legitimate place in a search query or tag
// name; their presence indicates either corruption or an injection
// attempt, so the value is rejected rather than silently truncated.
var controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F\x{0080}-\x{009F}]`)

// ValidateQuery screens a free-text search or filter parameter.
func ValidateQuery(query string) error {
	return validateText("query", query, MaxQueryLength)
}

// ValidateTag screens a tag name.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag must not be empty")
	}
	return validateText("tag", tag, MaxTagLength)
}

func validateText(field, value string, maxLen int) error {
	if len(value) > maxLen {
		return fmt.Errorf("%s exceeds maximum length of %d characters", field, maxLen)
	}
	if loc := controlChars.FindStringIndex(value); loc != nil {
		return fmt.Errorf("%s contains control character at position %d", field, loc[0])
	}
	return nil
}
