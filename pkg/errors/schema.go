package errors

import (
	"fmt"
	"time"
)

// FieldErrorData contains structured data for encode/decode failures.
// Field is a dotted path with sequence indexes, e.g. "content[1].resource.uri".
type FieldErrorData struct {
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// MissingRequiredField reports a required field absent from the document.
func MissingRequiredField(field string) MCPError {
	return NewError(
		CodeMissingRequiredField,
		fmt.Sprintf("Required field '%s' is missing", field),
		CategoryValidation,
		SeverityError,
	).WithData(&FieldErrorData{
		Field:    field,
		Expected: "required value",
		Actual:   "missing",
	})
}

// UnknownVariantTag reports a union discriminator that names no known variant.
// field is the path of the discriminator key itself.
func UnknownVariantTag(field, tag string) MCPError {
	return NewError(
		CodeUnknownVariantTag,
		fmt.Sprintf("Unknown variant tag %q at '%s'", tag, field),
		CategoryValidation,
		SeverityError,
	).WithData(&FieldErrorData{
		Field: field,
		Tag:   tag,
	})
}

// TypeMismatch reports a field whose wire shape differs from its declared type.
func TypeMismatch(field, expected, actual string) MCPError {
	where := field
	if where == "" {
		where = "document"
	}
	return NewError(
		CodeTypeMismatch,
		fmt.Sprintf("Invalid type for '%s': expected %s, got %s", where, expected, actual),
		CategoryValidation,
		SeverityError,
	).WithData(&FieldErrorData{
		Field:    field,
		Expected: expected,
		Actual:   actual,
	})
}

// InvalidEncoding reports a base64 field that does not decode.
func InvalidEncoding(field string, cause error) MCPError {
	return WrapError(
		cause,
		CodeInvalidEncoding,
		fmt.Sprintf("Field '%s' is not valid base64", field),
		CategoryValidation,
		SeverityError,
	).WithData(&FieldErrorData{
		Field:    field,
		Expected: "base64",
	})
}

// MalformedDocument reports a payload that is not a structured document at all.
func MalformedDocument(cause error) MCPError {
	msg := "Malformed document"
	if cause != nil {
		msg = fmt.Sprintf("Malformed document: %v", cause)
	}
	return WrapError(cause, CodeMalformedDocument, msg, CategoryProtocol, SeverityError)
}

// EncodeFault reports an entity that cannot be encoded because it was built
// in violation of its invariants. It is a programming error, not a data error.
func EncodeFault(entity, reason string) MCPError {
	return NewError(
		CodeEncodeFault,
		fmt.Sprintf("Cannot encode %s: %s", entity, reason),
		CategoryInternal,
		SeverityCritical,
	).WithContext(&Context{Entity: entity, Operation: "encode", Timestamp: time.Now()})
}

// FieldPath returns the field path recorded on a schema or validation
// error, or "".
func FieldPath(err error) string {
	mcpErr, ok := AsMCPError(err)
	if !ok {
		return ""
	}
	switch data := mcpErr.Data().(type) {
	case *FieldErrorData:
		return data.Field
	case *ValidationErrorData:
		return data.Field
	}
	return ""
}

// IsDataError reports whether err is a decode failure caused by the document.
func IsDataError(err error) bool {
	mcpErr, ok := AsMCPError(err)
	if !ok {
		return false
	}
	return IsSchemaCode(mcpErr.Code()) && mcpErr.Code() != CodeEncodeFault
}

// IsProgrammingError reports whether err is an encode fault.
func IsProgrammingError(err error) bool {
	return IsCode(err, CodeEncodeFault)
}
