// Package mcp provides the value model of the Model Context Protocol's tool
// invocation surface.
//
// A client and a server negotiate capabilities, the server advertises tools
// with a schema document for their parameters, the client calls a tool by
// name and the server answers with text, image or embedded-resource content.
// This module defines those values and their exact wire encoding; it does no
// I/O of its own.
//
// # Overview
//
// The module consists of several sub-packages:
//
//   - pkg/protocol: The entity types, the Content union and the codec
//   - pkg/errors: Structured decode and encode errors with field paths
//   - pkg/logging: Structured logging for the collaborators below
//   - pkg/observability: Prometheus metrics and OpenTelemetry spans around the codec
//   - pkg/utils: Schema documents for tool parameters and argument validation
//   - pkg/inspect: Inspection of documents on disk, with lint rules
//
// # Decoding a Call
//
//	var req protocol.CallToolRequest
//	if err := mcp.Unmarshal(data, &req); err != nil {
//	    // errors name the offending field, e.g. "params.name"
//	    log.Printf("rejected at %s: %v", errors.FieldPath(err), err)
//	    return
//	}
//
// # Answering a Call
//
//	result := protocol.CallToolResult{
//	    Content: []protocol.Content{mcp.NewTextContent("42 results")},
//	}
//	data, err := mcp.Marshal(result)
//
// Encoding fails only for values built in violation of their invariants,
// such as a nil content item; those failures are programming errors.
//
// # Describing a Tool
//
//	type searchArgs struct {
//	    Query string `json:"query"`
//	}
//
//	tool, err := utils.ToolFor[searchArgs]("search", "Search the index")
//
// # Examples
//
// The examples directory includes:
//
//   - schema-inspect: A command that decodes, re-encodes and lints documents
package mcp
