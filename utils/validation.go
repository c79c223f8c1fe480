package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	clockTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	dateKeyRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidateClockTime checks a 24-hour "HH:MM" string. Schedule times are
// validated here, at the editing boundary, so the slot planner never sees
// a malformed rule from our own store.
func ValidateClockTime(s string) error {
	if !clockTimeRe.MatchString(s) {
		return fmt.Errorf("invalid time '%s'; expected 24-hour HH:MM", s)
	}
	return nil
}

// ValidateDateKey checks a "yyyy-MM-dd" calendar date string.
func ValidateDateKey(s string) error {
	if !dateKeyRe.MatchString(s) {
		return fmt.Errorf("invalid date '%s'; expected yyyy-MM-dd", s)
	}
	return nil
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	// Try to cast to validator.ValidationErrors
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// If it's not a validation error, return a generic message
		errMsg := err.Error()
		if strings.Contains(errMsg, "cannot unmarshal") || strings.Contains(errMsg, "invalid character") {
			return "Invalid request body"
		}
		return "Invalid request body"
	}

	// Build user-friendly error messages from field-level errors
	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}
	return strings.Join(messages, "; ")
}
