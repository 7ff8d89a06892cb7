package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	ErrInvalidPhoneNumberFormat = errors.New("invalid phone number: use 7 to 15 digits, optionally starting with +")
	ErrInvalidEmailFormat       = errors.New("invalid email format")
	ErrInvalidDateFormat        = errors.New("invalid date: use RFC 3339 (2006-01-02T15:04:05Z07:00) or YYYY-MM-DD")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsNumeric reports whether s is a non-empty string of digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidatePhoneNumber accepts 7 to 15 digits with an optional leading '+'.
// Spaces and dashes are ignored.
func ValidatePhoneNumber(phone string) error {
	normalized := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	normalized = strings.TrimPrefix(normalized, "+")
	if len(normalized) < 7 || len(normalized) > 15 || !IsNumeric(normalized) {
		return ErrInvalidPhoneNumberFormat
	}
	return nil
}

// ValidateEmailFormat reports whether email looks like an address.
func ValidateEmailFormat(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// NormalizeEmail trims and lowercases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseDeadline parses an RFC 3339 timestamp, or a bare date which is taken
// as the end of that day in UTC.
func ParseDeadline(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, ErrInvalidDateFormat
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t.UTC(), nil
	}

	normalized := strings.ReplaceAll(trimmed, "/", "-")
	dateLayouts := []string{
		"2006-01-02", // YYYY-MM-DD
		"2006-1-2",   // YYYY-M-D
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, normalized); err == nil {
			return d.Add(24*time.Hour - time.Second), nil
		}
	}
	return time.Time{}, ErrInvalidDateFormat
}
