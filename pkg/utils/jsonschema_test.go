package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

type searchArgs struct {
	Query string `json:"query" jsonschema:"description=Search terms"`
	Limit int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=50"`
}

func TestGenerateJSONSchema(t *testing.T) {
	schema, err := GenerateJSONSchema(new(searchArgs), false)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(schema, &doc))

	assert.Equal(t, SchemaDraft, doc["$schema"])
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Equal(t, []interface{}{"query"}, doc["required"])

	props, ok := doc["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")

	open, err := GenerateJSONSchema(new(searchArgs), true)
	require.NoError(t, err)
	assert.NotContains(t, string(open), `"additionalProperties":false`)
}

func TestToolFor(t *testing.T) {
	tool, err := ToolFor[searchArgs]("search", "Search the web")
	require.NoError(t, err)
	assert.Equal(t, "search", tool.Name)

	data, err := protocol.Marshal(tool)
	require.NoError(t, err)

	var decoded protocol.Tool
	require.NoError(t, protocol.Unmarshal(data, &decoded))
	assert.JSONEq(t, string(tool.Parameters), string(decoded.Parameters))
}

func TestValidateToolArguments(t *testing.T) {
	tool, err := ToolFor[searchArgs]("search", "Search the web")
	require.NoError(t, err)

	tests := []struct {
		name     string
		params   protocol.CallToolParams
		wantCode int
	}{
		{
			name:   "valid",
			params: protocol.CallToolParams{Name: "search", Arguments: map[string]any{"query": "generics"}},
		},
		{
			name:   "valid with limit",
			params: protocol.CallToolParams{Name: "search", Arguments: map[string]any{"query": "generics", "limit": float64(10)}},
		},
		{
			name:     "absent arguments miss required query",
			params:   protocol.CallToolParams{Name: "search"},
			wantCode: mcperrors.CodeInvalidParameter,
		},
		{
			name:     "limit out of range",
			params:   protocol.CallToolParams{Name: "search", Arguments: map[string]any{"query": "generics", "limit": float64(100)}},
			wantCode: mcperrors.CodeInvalidParameter,
		},
		{
			name:     "unknown argument",
			params:   protocol.CallToolParams{Name: "search", Arguments: map[string]any{"query": "generics", "page": float64(2)}},
			wantCode: mcperrors.CodeInvalidParameter,
		},
		{
			name:     "several violations",
			params:   protocol.CallToolParams{Name: "search", Arguments: map[string]any{"query": float64(1), "limit": float64(0)}},
			wantCode: mcperrors.CodeInvalidParams,
		},
		{
			name:     "wrong tool",
			params:   protocol.CallToolParams{Name: "fetch"},
			wantCode: mcperrors.CodeInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToolArguments(tool, tt.params)
			if tt.wantCode == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, mcperrors.IsCode(err, tt.wantCode), "got %v", err)
			assert.True(t, mcperrors.IsCategory(err, mcperrors.CategoryValidation))
		})
	}
}

func TestValidateToolArgumentsFromWire(t *testing.T) {
	tool, err := ToolFor[searchArgs]("search", "Search the web")
	require.NoError(t, err)

	var req protocol.CallToolRequest
	require.NoError(t, protocol.Unmarshal([]byte(`{"method":"tools/call","params":{"name":"search","arguments":{"query":"generics"}}}`), &req))
	assert.NoError(t, ValidateToolArguments(tool, req.Params))

	var args searchArgs
	require.NoError(t, BindArguments(req.Params, &args))
	assert.Equal(t, searchArgs{Query: "generics"}, args)
}

func TestValidateAgainstSchemaReportsFields(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"n":{"type":"integer"}}}`)

	err := ValidateAgainstSchema(json.RawMessage(`{"n":"x"}`), schema)
	require.Error(t, err)

	mcpErr, ok := mcperrors.AsMCPError(err)
	require.True(t, ok)
	data, ok := mcpErr.Data().(*mcperrors.ValidationErrorData)
	require.True(t, ok)
	assert.Equal(t, "n", data.Field)
	assert.Equal(t, "x", data.Value)
}

func TestValidateAgainstSchemaBadSchema(t *testing.T) {
	err := ValidateAgainstSchema(json.RawMessage(`{}`), json.RawMessage(`not a schema`))
	require.Error(t, err)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeValidationError))
}

func TestValidateToolWithoutParameters(t *testing.T) {
	err := ValidateToolArguments(protocol.Tool{Name: "x"}, protocol.CallToolParams{Name: "x"})
	require.Error(t, err)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeValidationError))
}

func TestBindArgumentsTypeError(t *testing.T) {
	var args searchArgs
	err := BindArguments(protocol.CallToolParams{Name: "search", Arguments: map[string]any{"query": true}}, &args)
	assert.Error(t, err)
}
