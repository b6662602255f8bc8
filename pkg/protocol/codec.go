package protocol

import (
	"encoding/json"
	"fmt"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
)

// Unmarshal decodes a wire document into v.
//
// A payload that is not well-formed JSON fails with MalformedDocument before
// any field is examined. All other failures come from v's own decoder and
// name the offending field.
func Unmarshal(data []byte, v json.Unmarshaler) error {
	if err := checkWellFormed(data); err != nil {
		return err
	}
	return v.UnmarshalJSON(data)
}

// Marshal encodes v into its wire document.
//
// Failures are programming errors: they are returned as EncodeFault values
// regardless of where in the entity tree they were detected.
func Marshal(v json.Marshaler) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		if mcpErr, ok := mcperrors.AsMCPError(err); ok {
			return nil, mcpErr
		}
		return nil, mcperrors.EncodeFault(fmt.Sprintf("%T", v), err.Error())
	}
	return data, nil
}
