package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldMessage renders one field-level validation failure as a user-facing
// message without leaking internal Go struct names.
func fieldMessage(fe validator.FieldError) string {
	field := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// jsonFieldName lower-cases the leading letter of an exported struct field
// name, matching the camelCase JSON keys clients send.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// SanitizeValidationError takes a binding error and returns a user-friendly
// summary message.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a field-level validation error; most likely a JSON decoding
		// failure. Return a generic message rather than the raw parser error.
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		messages = append(messages, fieldMessage(fe))
	}
	if len(messages) == 0 {
		return "Invalid request body"
	}
	return strings.Join(messages, "; ")
}

// ValidationDetails returns the per-field breakdown of a binding error,
// keyed by the JSON-style field name. Non-validation errors yield an empty map.
func ValidationDetails(err error) map[string]string {
	details := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return details
	}
	for _, fe := range validationErrors {
		details[jsonFieldName(fe.Field())] = fieldMessage(fe)
	}
	return details
}
