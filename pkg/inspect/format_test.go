package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":     FormatAuto,
		"auto": FormatAuto,
		"JSON": FormatJSON,
		"yaml": FormatYAML,
		"yml":  FormatYAML,
	}
	for name, want := range tests {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFormat("toml")
	assert.Error(t, err)
}

const requestYAML = `
method: tools/call
params:
  name: search
  arguments:
    query: generics
    limit: 5
`

func TestNormalize(t *testing.T) {
	t.Run("JSON is passed through", func(t *testing.T) {
		in := []byte(` {"uri": "file:///a"}`)
		out, format, err := Normalize(in, FormatAuto)
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, format)
		assert.Equal(t, in, out)
	})

	t.Run("YAML becomes the equivalent JSON", func(t *testing.T) {
		out, format, err := Normalize([]byte(requestYAML), FormatAuto)
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, format)
		assert.JSONEq(t, `{"method":"tools/call","params":{"name":"search","arguments":{"query":"generics","limit":5}}}`, string(out))
	})

	t.Run("explicit YAML accepts flow style", func(t *testing.T) {
		out, _, err := Normalize([]byte(`{uri: "file:///a", name: readme}`), FormatYAML)
		require.NoError(t, err)
		assert.JSONEq(t, `{"uri":"file:///a","name":"readme"}`, string(out))
	})

	t.Run("non-string keys are stringified", func(t *testing.T) {
		out, _, err := Normalize([]byte("experimental:\n  1: {on: yes}\n"), FormatYAML)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"1":`)
	})

	t.Run("empty input", func(t *testing.T) {
		_, _, err := Normalize([]byte("  \n"), FormatAuto)
		assert.True(t, mcperrors.IsCode(err, mcperrors.CodeMalformedDocument))
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, format, err := Normalize([]byte("uri: [unclosed"), FormatAuto)
		assert.Equal(t, FormatYAML, format)
		assert.True(t, mcperrors.IsCode(err, mcperrors.CodeMalformedDocument))
	})
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		want     protocol.Kind
		wantCode int
	}{
		{name: "call request", doc: `{"method":"tools/call","params":{"name":"x"}}`, want: protocol.KindCallToolRequest},
		{name: "call result", doc: `{"content":[]}`, want: protocol.KindCallToolResult},
		{name: "initialize result", doc: `{"capabilities":{}}`, want: protocol.KindInitializeResult},
		{name: "method without params", doc: `{"method":"tools/call"}`, wantCode: mcperrors.CodeInvalidParameter},
		{name: "unrecognised object", doc: `{"tools":[]}`, wantCode: mcperrors.CodeInvalidParameter},
		{name: "array", doc: `[]`, wantCode: mcperrors.CodeTypeMismatch},
		{name: "null", doc: `null`, wantCode: mcperrors.CodeTypeMismatch},
		{name: "malformed", doc: `{"content":`, wantCode: mcperrors.CodeMalformedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectKind([]byte(tt.doc))
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.True(t, mcperrors.IsCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
