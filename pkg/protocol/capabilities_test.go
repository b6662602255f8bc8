package protocol

import (
	"encoding/json"
	"testing"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCapabilitiesRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"all absent", `{}`},
		{"all present", `{"roots":{"list_changed":true},"sampling":{"temperature":0.2},"experimental":{"x-feature":{"enabled":true}}}`},
		{"empty mappings", `{"sampling":{},"experimental":{}}`},
		{"empty inner mapping", `{"experimental":{"x":{}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var caps ClientCapabilities
			require.NoError(t, Unmarshal([]byte(tt.doc), &caps))

			data, err := Marshal(caps)
			require.NoError(t, err)
			assert.JSONEq(t, tt.doc, string(data))
		})
	}
}

func TestClientCapabilitiesDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		code  int
		field string
	}{
		{"roots missing list_changed", `{"roots":{}}`, mcperrors.CodeMissingRequiredField, "roots.list_changed"},
		{"roots null", `{"roots":null}`, mcperrors.CodeTypeMismatch, "roots"},
		{"list_changed as string", `{"roots":{"list_changed":"true"}}`, mcperrors.CodeTypeMismatch, "roots.list_changed"},
		{"sampling not object", `{"sampling":[]}`, mcperrors.CodeTypeMismatch, "sampling"},
		{"experimental entry not object", `{"experimental":{"x":1}}`, mcperrors.CodeTypeMismatch, "experimental.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var caps ClientCapabilities
			requireFieldError(t, Unmarshal([]byte(tt.doc), &caps), tt.code, tt.field)
		})
	}
}

func TestRootsCapability(t *testing.T) {
	var rc RootsCapability
	require.NoError(t, Unmarshal([]byte(`{"list_changed":false}`), &rc))
	assert.False(t, rc.ListChanged)

	data, err := Marshal(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"list_changed":false}`, string(data))
}

func TestServerCapabilitiesToolsPresence(t *testing.T) {
	var absent, empty ServerCapabilities
	require.NoError(t, Unmarshal([]byte(`{}`), &absent))
	require.NoError(t, Unmarshal([]byte(`{"tools":[]}`), &empty))

	assert.Nil(t, absent.Tools)
	assert.NotNil(t, empty.Tools)
	assert.Empty(t, empty.Tools)

	data, err := Marshal(absent)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	data, err = Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tools":[]}`, string(data))
}

func TestServerCapabilitiesRoundTrip(t *testing.T) {
	doc := `{
		"experimental": {"streaming": {"chunk": 1024}},
		"tools": [
			{"name": "search", "description": "Search", "parameters": {"type": "object"}},
			{"name": "fetch", "description": "Fetch", "parameters": {"type": "object"}, "returns": {"type": "string"}}
		],
		"prompts": [{"name": "summary", "description": "Summarize"}]
	}`

	var caps ServerCapabilities
	require.NoError(t, Unmarshal([]byte(doc), &caps))
	require.Len(t, caps.Tools, 2)
	require.Len(t, caps.Prompts, 1)
	assert.Equal(t, json.Number("1024"), caps.Experimental["streaming"]["chunk"])

	data, err := Marshal(caps)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(data))
}

func TestServerCapabilitiesDecodeErrors(t *testing.T) {
	var caps ServerCapabilities
	requireFieldError(t,
		Unmarshal([]byte(`{"tools":[{"name":"a","description":"d","parameters":{}},{"name":"b","description":"d"}]}`), &caps),
		mcperrors.CodeMissingRequiredField, "tools[1].parameters")
	requireFieldError(t,
		Unmarshal([]byte(`{"prompts":[{"name":1}]}`), &caps),
		mcperrors.CodeTypeMismatch, "prompts[0].name")
	requireFieldError(t,
		Unmarshal([]byte(`{"tools":null}`), &caps),
		mcperrors.CodeTypeMismatch, "tools")
}

func TestNilExperimentalCapabilityEncodesAsObject(t *testing.T) {
	experimental := map[string]map[string]any{"x": nil, "y": {"on": true}}

	data, err := Marshal(ServerCapabilities{Experimental: experimental})
	require.NoError(t, err)
	assert.JSONEq(t, `{"experimental":{"x":{},"y":{"on":true}}}`, string(data))
	assert.Nil(t, experimental["x"])

	var server ServerCapabilities
	require.NoError(t, Unmarshal(data, &server))
	assert.Equal(t, map[string]any{}, server.Experimental["x"])

	data, err = Marshal(ClientCapabilities{Experimental: map[string]map[string]any{"x": nil}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"experimental":{"x":{}}}`, string(data))

	var client ClientCapabilities
	require.NoError(t, Unmarshal(data, &client))
	assert.Equal(t, map[string]any{}, client.Experimental["x"])
}

func TestServerCapabilitiesToolLookup(t *testing.T) {
	caps := ServerCapabilities{Tools: []Tool{
		{Name: "search", Parameters: []byte(`{}`)},
		{Name: "fetch", Parameters: []byte(`{}`)},
		{Name: "search", Description: "second", Parameters: []byte(`{}`)},
		{Name: "search", Parameters: []byte(`{}`)},
	}}

	tool, ok := caps.FindTool("search")
	assert.True(t, ok)
	assert.Equal(t, "", tool.Description)

	_, ok = caps.FindTool("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"search"}, caps.DuplicateToolNames())
	assert.Empty(t, ServerCapabilities{}.DuplicateToolNames())
}

func TestRootRoundTrip(t *testing.T) {
	for _, doc := range []string{
		`{"uri":"file:///home/user/project"}`,
		`{"name":"project","uri":"file:///home/user/project","annotations":{"audience":["user"]}}`,
	} {
		var root Root
		require.NoError(t, Unmarshal([]byte(doc), &root))

		data, err := Marshal(root)
		require.NoError(t, err)
		assert.JSONEq(t, doc, string(data))
	}

	var root Root
	requireFieldError(t, Unmarshal([]byte(`{"name":"x"}`), &root), mcperrors.CodeMissingRequiredField, "uri")
}

func TestInitializeResult(t *testing.T) {
	doc := `{"capabilities":{"tools":[{"name":"search","description":"d","parameters":{}}]},"_meta":{"server":"demo"}}`

	var result InitializeResult
	require.NoError(t, Unmarshal([]byte(doc), &result))
	_, ok := result.Capabilities.FindTool("search")
	assert.True(t, ok)
	assert.Equal(t, "demo", result.Meta["server"])

	data, err := Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(data))

	data, err = Marshal(InitializeResult{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"capabilities":{}}`, string(data))

	requireFieldError(t, Unmarshal([]byte(`{"_meta":{}}`), &result), mcperrors.CodeMissingRequiredField, "capabilities")
	requireFieldError(t,
		Unmarshal([]byte(`{"capabilities":{"tools":[{"name":"a","description":"d","parameters":{},"annotations":{"priority":"x"}}]}}`), &result),
		mcperrors.CodeTypeMismatch, "capabilities.tools[0].annotations.priority")
}

func TestMalformedDocuments(t *testing.T) {
	docs := []string{
		``,
		`{`,
		`{"capabilities":`,
		`{"uri":"a",}`,
		`not json`,
	}
	for _, doc := range docs {
		var result InitializeResult
		err := Unmarshal([]byte(doc), &result)
		require.Error(t, err, "doc %q", doc)
		assert.True(t, mcperrors.IsCode(err, mcperrors.CodeMalformedDocument), "doc %q: %v", doc, err)
		assert.True(t, mcperrors.IsCategory(err, mcperrors.CategoryProtocol))
	}
}
