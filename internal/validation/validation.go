package validation

import (
	"fmt"
	"regexp"
	"strings"

	"storynest/internal/models"
)

// clockTimeRegex matches 24-hour HH:mm wall-clock strings
var clockTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidationError represents a validation error on a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateClockTime checks that value is a well-formed HH:mm string
func ValidateClockTime(field, value string) error {
	if !clockTimeRegex.MatchString(value) {
		return ValidationError{Field: field, Message: "must be a HH:mm time between 00:00 and 23:59"}
	}
	return nil
}

// ValidateDailyLimit checks that the daily reading limit is within bounds
func ValidateDailyLimit(minutes int) error {
	if minutes < models.MinDailyLimitMinutes || minutes > models.MaxDailyLimitMinutes {
		return ValidationError{
			Field: "dailyLimitMinutes",
			Message: fmt.Sprintf("must be between %d and %d minutes",
				models.MinDailyLimitMinutes, models.MaxDailyLimitMinutes),
		}
	}
	return nil
}

// UnknownIDsError builds the error returned when an allowlist references
// ids that do not exist
func UnknownIDsError(field string, ids []int64) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return ValidationError{
		Field:   field,
		Message: "unknown ids: " + strings.Join(parts, ", "),
	}
}

// ValidateName checks if a display name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}
