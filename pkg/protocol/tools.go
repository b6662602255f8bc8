package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
)

// Tool describes a callable tool advertised by a server. Name is the key a
// dispatcher looks tools up by and must be unique within one server's set.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Parameters is the schema document describing accepted call arguments.
	// It is required and never interpreted by this package.
	Parameters json.RawMessage `json:"parameters"`

	// Returns optionally describes the shape of the tool's result.
	Returns json.RawMessage `json:"returns,omitempty"`

	Annotations *Annotations `json:"annotations,omitempty"`
}

func (t Tool) GetAnnotations() *Annotations { return t.Annotations }

func (t Tool) MarshalJSON() ([]byte, error) {
	if len(t.Parameters) == 0 {
		return nil, mcperrors.EncodeFault("Tool", fmt.Sprintf("tool %q has no parameters schema", t.Name))
	}
	if isNull(t.Parameters) {
		return nil, mcperrors.EncodeFault("Tool", fmt.Sprintf("tool %q has a null parameters schema", t.Name))
	}
	if len(t.Returns) > 0 && isNull(t.Returns) {
		return nil, mcperrors.EncodeFault("Tool", fmt.Sprintf("tool %q has a null returns schema", t.Name))
	}
	type tool Tool
	return json.Marshal(tool(t))
}

// isNull reports whether raw is the JSON literal null, which schema members
// never carry on the wire.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (t *Tool) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, t.decode)
}

func (t *Tool) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	var out Tool
	if out.Name, err = obj.requiredString("name"); err != nil {
		return err
	}
	if out.Description, err = obj.requiredString("description"); err != nil {
		return err
	}
	if out.Parameters, err = obj.schema("parameters", true); err != nil {
		return err
	}
	if out.Returns, err = obj.schema("returns", false); err != nil {
		return err
	}
	if out.Annotations, err = decodeAnnotations(obj); err != nil {
		return err
	}

	*t = out
	return nil
}

// ResourceTemplate describes a named template a server can offer.
type ResourceTemplate struct {
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

func (r ResourceTemplate) GetAnnotations() *Annotations { return r.Annotations }

func (r ResourceTemplate) MarshalJSON() ([]byte, error) {
	type resourceTemplate ResourceTemplate
	return json.Marshal(resourceTemplate(r))
}

func (r *ResourceTemplate) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, r.decode)
}

func (r *ResourceTemplate) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	var out ResourceTemplate
	if out.Name, err = obj.requiredString("name"); err != nil {
		return err
	}
	if out.Description, err = obj.optionalString("description"); err != nil {
		return err
	}
	if out.Annotations, err = decodeAnnotations(obj); err != nil {
		return err
	}

	*r = out
	return nil
}

// CallToolParams names the tool to invoke and its arguments.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitzero"`
}

func (p CallToolParams) MarshalJSON() ([]byte, error) {
	type callToolParams CallToolParams
	return json.Marshal(callToolParams(p))
}

func (p *CallToolParams) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, p.decode)
}

func (p *CallToolParams) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	var out CallToolParams
	if out.Name, err = obj.requiredString("name"); err != nil {
		return err
	}
	if out.Arguments, err = obj.optionalMap("arguments"); err != nil {
		return err
	}

	*p = out
	return nil
}

// CallToolRequest asks a server to invoke a tool. Its method is always
// MethodCallTool; the type has no way to carry any other.
type CallToolRequest struct {
	Params CallToolParams
}

// NewCallToolRequest builds a request for the named tool.
func NewCallToolRequest(name string, arguments map[string]any) CallToolRequest {
	return CallToolRequest{Params: CallToolParams{Name: name, Arguments: arguments}}
}

// Method returns the fixed dispatch key of the request.
func (CallToolRequest) Method() string { return MethodCallTool }

func (r CallToolRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Method string         `json:"method"`
		Params CallToolParams `json:"params"`
	}{MethodCallTool, r.Params})
}

func (r *CallToolRequest) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, r.decode)
}

func (r *CallToolRequest) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	method, err := obj.requiredString("method")
	if err != nil {
		return err
	}
	if method != MethodCallTool {
		return mcperrors.TypeMismatch(obj.at("method"), fmt.Sprintf("%q", MethodCallTool), fmt.Sprintf("%q", method))
	}

	raw, err := obj.require("params", shapeObject)
	if err != nil {
		return err
	}
	var out CallToolRequest
	if err := out.Params.decode(raw, obj.at("params")); err != nil {
		return err
	}

	*r = out
	return nil
}

// CallToolResult is a server's answer to a tool call.
type CallToolResult struct {
	// Content is always present on the wire; nil encodes as [].
	Content []Content

	// IsError is nil when the server did not say; absence means success.
	IsError *bool

	Meta map[string]any
}

// Failed reports whether the result is flagged as an error.
func (r CallToolResult) Failed() bool {
	return r.IsError != nil && *r.IsError
}

// NewErrorResult reports err to the caller as a failed tool result.
func NewErrorResult(err error) CallToolResult {
	isError := true
	return CallToolResult{
		Content: []Content{NewTextContent(err.Error())},
		IsError: &isError,
	}
}

func (r CallToolResult) MarshalJSON() ([]byte, error) {
	contents, err := encodeContents("CallToolResult", r.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Content []json.RawMessage `json:"content"`
		IsError *bool             `json:"is_error,omitempty"`
		Meta    map[string]any    `json:"_meta,omitzero"`
	}{contents, r.IsError, r.Meta})
}

func (r *CallToolResult) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, r.decode)
}

func (r *CallToolResult) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	items, err := obj.requiredArray("content")
	if err != nil {
		return err
	}
	var out CallToolResult
	out.Content = make([]Content, len(items))
	for i, item := range items {
		if out.Content[i], err = decodeContent(item, indexPath(obj.at("content"), i)); err != nil {
			return err
		}
	}

	if out.IsError, err = obj.optionalBool("is_error"); err != nil {
		return err
	}
	if out.Meta, err = obj.optionalMap("_meta"); err != nil {
		return err
	}

	*r = out
	return nil
}
