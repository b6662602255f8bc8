package errors

import (
	"fmt"
)

// ValidationErrorData contains structured data for validation errors
type ValidationErrorData struct {
	Field      string      `json:"field"`
	Value      interface{} `json:"value,omitempty"`
	Expected   string      `json:"expected,omitempty"`
	Constraint string      `json:"constraint,omitempty"`
}

// ValidationError creates a generic validation error
func ValidationError(message string) MCPError {
	return NewError(CodeValidationError, message, CategoryValidation, SeverityError)
}

// ValidationErrorf creates a generic validation error with formatting
func ValidationErrorf(format string, args ...interface{}) MCPError {
	return NewErrorf(CodeValidationError, CategoryValidation, SeverityError, format, args...)
}

// InvalidFieldValue creates an error for a value that breaks a constraint,
// such as a tool argument rejected by the tool's schema document.
func InvalidFieldValue(field string, value interface{}, constraint string) MCPError {
	return NewError(
		CodeInvalidParameter,
		fmt.Sprintf("Invalid value for field '%s': %s", field, constraint),
		CategoryValidation,
		SeverityError,
	).WithData(&ValidationErrorData{
		Field:      field,
		Value:      value,
		Constraint: constraint,
	})
}

// CombineValidationErrors combines multiple validation errors into a single error
func CombineValidationErrors(errors []MCPError) MCPError {
	if len(errors) == 0 {
		return nil
	}

	if len(errors) == 1 {
		return errors[0]
	}

	messages := make([]string, len(errors))
	errorData := make([]interface{}, len(errors))

	for i, err := range errors {
		messages[i] = err.Message()
		errorData[i] = err.Data()
	}

	return NewError(
		CodeInvalidParams,
		fmt.Sprintf("Multiple validation errors: %v", messages),
		CategoryValidation,
		SeverityError,
	).WithData(map[string]interface{}{
		"errors": errorData,
		"count":  len(errors),
	})
}
