package httpserver

import (
	"regexp"
	"strings"
)

// Field limits mirror the stored document constraints.
const (
	maxNameLen  = 100
	maxTextLen  = 500
	maxEmailLen = 254
	minAge      = 18
	maxAge      = 65
	minUnits    = 1
	maxUnits    = 10
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// sanitizeText strips HTML tags, trims whitespace, and caps the length of a
// free-text field.
func sanitizeText(text string) string {
	cleaned := htmlTagPattern.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > maxTextLen {
		cleaned = cleaned[:maxTextLen]
	}
	return cleaned
}

// validEmail reports whether the address looks like an email.
func validEmail(email string) bool {
	return len(email) <= maxEmailLen && emailPattern.MatchString(email)
}

// validPhone accepts any format carrying 10 to 15 digits.
func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10 && digits <= 15
}
