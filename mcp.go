// Package mcp provides the Model Context Protocol tool-invocation value model
package mcp

import (
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-schema-go/pkg/utils"
)

// Version represents the current version of the module
const Version = "1.0.0"

// These exports provide direct access to the codec entry points
var (
	// Marshal encodes an entity into its wire document
	Marshal = protocol.Marshal

	// Unmarshal decodes a wire document into an entity
	Unmarshal = protocol.Unmarshal

	// DecodeKind decodes a document as an entity of a named kind
	DecodeKind = protocol.DecodeKind

	// ParseKind validates an entity kind name
	ParseKind = protocol.ParseKind
)

// Wire method names
const (
	MethodCallTool   = protocol.MethodCallTool
	MethodInitialize = protocol.MethodInitialize
)

// Roles
const (
	RoleUser      = protocol.RoleUser
	RoleAssistant = protocol.RoleAssistant
	RoleSystem    = protocol.RoleSystem
)

// Content constructors
var (
	NewTextContent          = protocol.NewTextContent
	NewImageContent         = protocol.NewImageContent
	NewEmbeddedResource     = protocol.NewEmbeddedResource
	NewBlobResourceContents = protocol.NewBlobResourceContents
	NewCallToolRequest      = protocol.NewCallToolRequest
	NewErrorResult          = protocol.NewErrorResult
)

// Tool argument helpers
var (
	GenerateJSONSchema    = utils.GenerateJSONSchema
	ValidateToolArguments = utils.ValidateToolArguments
	BindArguments         = utils.BindArguments
)
