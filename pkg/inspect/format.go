package inspect

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

// Format is the serialization of an input document.
type Format string

const (
	// FormatAuto picks JSON when the first non-space byte opens an object
	// or array, YAML otherwise.
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string selects FormatAuto.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatAuto, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatAuto, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// Normalize converts a document to its JSON wire form and reports the format
// it was read as. JSON input is returned unchanged. YAML input is decoded and
// re-encoded so that it reaches the codec as the equivalent wire value.
func Normalize(data []byte, format Format) ([]byte, Format, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, format, mcperrors.MalformedDocument(errors.New("empty document"))
	}

	if format == FormatAuto || format == "" {
		format = FormatYAML
		if trimmed[0] == '{' || trimmed[0] == '[' {
			format = FormatJSON
		}
	}

	switch format {
	case FormatJSON:
		return data, FormatJSON, nil
	case FormatYAML:
		out, err := yamlToJSON(data)
		if err != nil {
			return nil, FormatYAML, err
		}
		return out, FormatYAML, nil
	default:
		return nil, format, fmt.Errorf("unsupported format: %s", format)
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, mcperrors.MalformedDocument(fmt.Errorf("invalid YAML: %w", err))
	}

	out, err := json.Marshal(jsonValue(doc))
	if err != nil {
		return nil, mcperrors.MalformedDocument(fmt.Errorf("YAML value has no JSON equivalent: %w", err))
	}
	return out, nil
}

// jsonValue rewrites mappings with non-string keys, which encoding/json
// cannot encode, into string-keyed objects.
func jsonValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		for k, item := range v {
			v[k] = jsonValue(item)
		}
		return v
	case map[interface{}]interface{}:
		obj := make(map[string]interface{}, len(v))
		for k, item := range v {
			obj[fmt.Sprint(k)] = jsonValue(item)
		}
		return obj
	case []interface{}:
		for i, item := range v {
			v[i] = jsonValue(item)
		}
		return v
	default:
		return v
	}
}

// KindAuto asks the inspector to detect the entity kind from the document.
const KindAuto protocol.Kind = "auto"

// DetectKind guesses the entity kind of a top-level message document from
// its keys: method and params make a call_tool_request, content a
// call_tool_result, capabilities an initialize_result.
func DetectKind(data []byte) (protocol.Kind, error) {
	if !json.Valid(data) {
		return "", mcperrors.MalformedDocument(errors.New("invalid JSON"))
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil || keys == nil {
		return "", mcperrors.TypeMismatch("", "object", shapeOf(data))
	}

	switch {
	case has(keys, "method") && has(keys, "params"):
		return protocol.KindCallToolRequest, nil
	case has(keys, "content"):
		return protocol.KindCallToolResult, nil
	case has(keys, "capabilities"):
		return protocol.KindInitializeResult, nil
	default:
		return "", mcperrors.InvalidFieldValue("kind", string(KindAuto), "cannot detect entity kind from document keys")
	}
}

func shapeOf(data []byte) string {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return "nothing"
	case data[0] == '[':
		return "array"
	case data[0] == '"':
		return "string"
	case data[0] == 't' || data[0] == 'f':
		return "boolean"
	case data[0] == 'n':
		return "null"
	default:
		return "number"
	}
}

func has(keys map[string]json.RawMessage, key string) bool {
	_, ok := keys[key]
	return ok
}
