package validator

import (
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	return date, err == nil
}

// OptionalDate parses an optional YYYY-MM-DD query value into errs under field.
func OptionalDate(errs *ValidationErrors, field, value string) *time.Time {
	if value == "" {
		return nil
	}
	date, ok := IsValidDate(value)
	if !ok {
		*errs = append(*errs, ValidationError{
			Field:   field,
			Message: field + " must be in YYYY-MM-DD format",
		})
		return nil
	}
	return &date
}
