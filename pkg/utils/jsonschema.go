package utils

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

// SchemaDraft is the dialect of generated schema documents.
const SchemaDraft = "http://json-schema.org/draft-07/schema#"

// GenerateJSONSchema reflects a schema document from a Go value, usually a
// pointer to the struct a tool's arguments decode into. Definitions are
// inlined and the struct's fields sit at the root. Unknown properties are
// rejected unless allowAdditional is set.
func GenerateJSONSchema(v interface{}, allowAdditional bool) (json.RawMessage, error) {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: allowAdditional,
	}
	s := r.Reflect(v)
	s.Version = SchemaDraft

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// ToolFor describes a tool whose arguments decode into A.
func ToolFor[A any](name, description string) (protocol.Tool, error) {
	params, err := GenerateJSONSchema(new(A), false)
	if err != nil {
		return protocol.Tool{}, fmt.Errorf("tool %q: %w", name, err)
	}
	return protocol.Tool{
		Name:        name,
		Description: description,
		Parameters:  params,
	}, nil
}

// ValidateAgainstSchema validates a document against a schema document.
// Every violation becomes an InvalidFieldValue error; several are combined.
// A schema that cannot be compiled is reported as a validation error too.
func ValidateAgainstSchema(data json.RawMessage, schema json.RawMessage) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return mcperrors.ValidationErrorf("cannot validate against schema: %v", err)
	}
	if result.Valid() {
		return nil
	}

	resultErrors := result.Errors()
	sort.SliceStable(resultErrors, func(i, j int) bool {
		return resultErrors[i].Field() < resultErrors[j].Field()
	})

	errs := make([]mcperrors.MCPError, 0, len(resultErrors))
	for _, re := range resultErrors {
		errs = append(errs, mcperrors.InvalidFieldValue(re.Field(), re.Value(), re.Description()))
	}
	return mcperrors.CombineValidationErrors(errs)
}

// ValidateToolArguments checks a call against the tool it names. Absent
// arguments are validated as an empty object.
func ValidateToolArguments(tool protocol.Tool, params protocol.CallToolParams) error {
	if params.Name != tool.Name {
		return mcperrors.InvalidFieldValue("name", params.Name, fmt.Sprintf("must name tool %q", tool.Name))
	}
	if len(tool.Parameters) == 0 {
		return mcperrors.ValidationErrorf("tool %q has no parameters schema", tool.Name)
	}

	args := params.Arguments
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return mcperrors.InvalidFieldValue("arguments", nil, err.Error())
	}
	return ValidateAgainstSchema(data, tool.Parameters)
}

// BindArguments decodes a call's arguments into v, typically a pointer to the
// struct the tool was described from with ToolFor.
func BindArguments(params protocol.CallToolParams, v interface{}) error {
	args := params.Arguments
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to bind arguments of %q: %w (data: %s)", params.Name, err, string(data))
	}
	return nil
}
