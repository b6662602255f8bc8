package protocol

import (
	"testing"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireFieldError asserts err is a schema error with the given code and
// field path.
func requireFieldError(t *testing.T, err error, code int, field string) *mcperrors.FieldErrorData {
	t.Helper()
	require.Error(t, err)

	mcpErr, ok := mcperrors.AsMCPError(err)
	require.True(t, ok, "expected MCPError, got %T: %v", err, err)
	assert.Equal(t, mcperrors.GetErrorCodeName(code), mcperrors.GetErrorCodeName(mcpErr.Code()), "error: %v", err)
	require.Equal(t, code, mcpErr.Code())

	data, ok := mcpErr.Data().(*mcperrors.FieldErrorData)
	require.True(t, ok, "expected FieldErrorData, got %T", mcpErr.Data())
	assert.Equal(t, field, data.Field)
	return data
}

func ptr[T any](v T) *T { return &v }
