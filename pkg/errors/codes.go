package errors

// JSON-RPC 2.0 Standard Error Codes
const (
	// ParseError indicates the payload is not well-formed JSON
	CodeParseError int = -32700

	// InvalidRequest indicates the JSON sent is not a valid Request object
	CodeInvalidRequest int = -32600

	// InvalidParams indicates invalid method parameter(s)
	CodeInvalidParams int = -32602

	// InternalError indicates internal JSON-RPC error
	CodeInternalError int = -32603
)

// Validation Errors (-32750 to -32759)
const (
	CodeValidationError  int = -32750 // Generic validation error
	CodeInvalidParameter int = -32752 // Parameter has invalid value
)

// Schema Errors (-32760 to -32769)
//
// Raised by encode and decode of protocol values. Everything except
// CodeEncodeFault is a data error: the document was wrong, not the program.
const (
	CodeMissingRequiredField int = -32760 // Required field absent from the document
	CodeUnknownVariantTag    int = -32761 // Union discriminator not recognised
	CodeTypeMismatch         int = -32762 // Field has the wrong wire shape
	CodeInvalidEncoding      int = -32763 // Base64 payload is malformed
	CodeEncodeFault          int = -32764 // Entity violates its invariants at encode time

	// CodeMalformedDocument is reported for payloads that are not structured
	// documents at all; it shares the JSON-RPC parse error code.
	CodeMalformedDocument = CodeParseError
)

// ErrorCodeInfo provides human-readable information about error codes
type ErrorCodeInfo struct {
	Code        int
	Name        string
	Description string
	Category    Category
	Severity    Severity
}

var errorCodeRegistry = map[int]ErrorCodeInfo{
	CodeParseError:     {CodeParseError, "MalformedDocument", "Payload is not a well-formed document", CategoryProtocol, SeverityError},
	CodeInvalidRequest: {CodeInvalidRequest, "InvalidRequest", "Invalid Request object", CategoryProtocol, SeverityError},
	CodeInvalidParams:  {CodeInvalidParams, "InvalidParams", "Invalid method parameters", CategoryValidation, SeverityError},
	CodeInternalError:  {CodeInternalError, "InternalError", "Internal error", CategoryInternal, SeverityError},

	CodeValidationError:  {CodeValidationError, "ValidationError", "Validation error", CategoryValidation, SeverityError},
	CodeInvalidParameter: {CodeInvalidParameter, "InvalidParameter", "Invalid parameter value", CategoryValidation, SeverityError},

	CodeMissingRequiredField: {CodeMissingRequiredField, "MissingRequiredField", "Required field is absent", CategoryValidation, SeverityError},
	CodeUnknownVariantTag:    {CodeUnknownVariantTag, "UnknownVariantTag", "Unrecognised union discriminator", CategoryValidation, SeverityError},
	CodeTypeMismatch:         {CodeTypeMismatch, "TypeMismatch", "Field has the wrong type", CategoryValidation, SeverityError},
	CodeInvalidEncoding:      {CodeInvalidEncoding, "InvalidEncoding", "Malformed base64 payload", CategoryValidation, SeverityError},
	CodeEncodeFault:          {CodeEncodeFault, "EncodeFault", "Entity violates its invariants", CategoryInternal, SeverityCritical},
}

// GetErrorCodeInfo returns information about an error code
func GetErrorCodeInfo(code int) (ErrorCodeInfo, bool) {
	info, exists := errorCodeRegistry[code]
	return info, exists
}

// GetErrorCodeName returns the name of an error code
func GetErrorCodeName(code int) string {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Name
	}
	return "UnknownError"
}

// GetErrorCodeCategory returns the category of an error code
func GetErrorCodeCategory(code int) Category {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Category
	}
	return CategoryInternal
}

// GetErrorCodeSeverity returns the severity of an error code
func GetErrorCodeSeverity(code int) Severity {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Severity
	}
	return SeverityError
}

// ListErrorCodes returns all registered error codes
func ListErrorCodes() []ErrorCodeInfo {
	codes := make([]ErrorCodeInfo, 0, len(errorCodeRegistry))
	for _, info := range errorCodeRegistry {
		codes = append(codes, info)
	}
	return codes
}

// IsStandardJSONRPCCode checks if a code is in the JSON-RPC reserved range
func IsStandardJSONRPCCode(code int) bool {
	return code >= -32768 && code <= -32000
}

// IsSchemaCode reports whether code belongs to the encode/decode taxonomy.
func IsSchemaCode(code int) bool {
	return code == CodeMalformedDocument || (code <= CodeMissingRequiredField && code >= CodeEncodeFault)
}
