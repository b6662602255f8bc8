// Package pkg groups the building blocks of the MCP schema module.
//
// The protocol value model lives in protocol; everything else either reports
// on it or moves it around.
//
// # Decoding a message
//
//	import (
//	    "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
//	    "github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
//	)
//
//	var result protocol.CallToolResult
//	if err := protocol.Unmarshal(data, &result); err != nil {
//	    // errors.FieldPath(err) names the offending field, e.g. "content[2].uri"
//	}
//
// # Inspecting documents
//
//	ins, err := inspect.New(inspect.DefaultConfig())
//	if err != nil {
//	    // Handle error
//	}
//	report := ins.Inspect(ctx, inspect.KindAuto, data)
//	for _, f := range report.Findings {
//	    fmt.Println(f)
//	}
//
// # Sub-packages
//
//   - protocol: Value types, wire decoding and encoding
//   - errors: Error taxonomy with codes and field paths
//   - logging: Structured logging and operation tracking
//   - observability: Instrumented codec, metrics and tracing
//   - utils: JSON Schema generation and tool argument validation
//   - inspect: Document inspection, linting and batch processing
package pkg
