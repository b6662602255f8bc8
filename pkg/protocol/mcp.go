package protocol

import (
	"encoding/json"
)

const (
	// MethodCallTool is the dispatch key of CallToolRequest.
	MethodCallTool = "tools/call"

	// MethodInitialize is the request InitializeResult answers.
	MethodInitialize = "initialize"
)

// InitializeResult is a server's answer to initialization.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	Meta         map[string]any     `json:"_meta,omitzero"`
}

func (r InitializeResult) MarshalJSON() ([]byte, error) {
	type initializeResult InitializeResult
	return json.Marshal(initializeResult(r))
}

func (r *InitializeResult) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, r.decode)
}

func (r *InitializeResult) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	raw, err := obj.require("capabilities", shapeObject)
	if err != nil {
		return err
	}
	var out InitializeResult
	if err := out.Capabilities.decode(raw, obj.at("capabilities")); err != nil {
		return err
	}
	if out.Meta, err = obj.optionalMap("_meta"); err != nil {
		return err
	}

	*r = out
	return nil
}
