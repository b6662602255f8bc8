// Package protocol defines the value model of the MCP tool-invocation schema.
//
// The package covers how a client discovers server capabilities, invokes named
// tools with structured arguments, and receives structured, possibly
// multi-part, possibly annotated results. It is a schema, not a pipeline:
// every type here is an immutable value with a fixed wire contract, and the
// only operations are encode and decode.
//
// # Package Organization
//
//   - annotations.go: Role, Annotations and the Annotated capability
//   - resources.go: Resource and BlobResourceContents
//   - content.go: the Content union (TextContent, ImageContent, EmbeddedResource)
//   - tools.go: Tool, ResourceTemplate and the tools/call messages
//   - capabilities.go: client/server capabilities and roots
//   - mcp.go: method constants and InitializeResult
//   - kinds.go: the Kind registry used to decode a document by name
//   - codec.go, wire.go: entry points and the field-level decoder
//
// # Wire Contract
//
// Field names are lower_snake_case, except the reserved "_meta" key. Optional
// fields are omitted when absent and never encoded as null; an explicit null
// in place of a modeled field is rejected on decode. Optional sequences and
// mappings keep the difference between absent (nil) and present-but-empty.
// Unknown keys are ignored on decode and never reproduced on encode.
//
// Content items carry a "type" discriminator flattened next to the variant's
// fields:
//
//	{"type": "Text", "text": "hello"}
//	{"type": "Image", "image_data": "aGk=", "mime_type": "image/png"}
//	{"type": "EmbeddedResource", "resource": {"uri": "file:///a"}}
//
// # Error Handling
//
// Decode failures are reported as errors from the pkg/errors package:
// MissingRequiredField, UnknownVariantTag, TypeMismatch, InvalidEncoding and
// MalformedDocument, each carrying the path of the offending field. Encode
// only fails for entities built in violation of their invariants, reported
// as EncodeFault.
//
// # Concurrency
//
// Encode and decode are pure: they share no state, perform no I/O and are
// safe to call from any number of goroutines.
package protocol
