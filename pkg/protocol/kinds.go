package protocol

import (
	"encoding/json"
	"fmt"
	"sort"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
)

// Kind names a top-level entity that can be decoded from its own document.
type Kind string

const (
	KindAnnotations          Kind = "annotations"
	KindResource             Kind = "resource"
	KindBlobResourceContents Kind = "blob_resource_contents"
	KindContent              Kind = "content"
	KindTool                 Kind = "tool"
	KindResourceTemplate     Kind = "resource_template"
	KindRootsCapability      Kind = "roots_capability"
	KindClientCapabilities   Kind = "client_capabilities"
	KindServerCapabilities   Kind = "server_capabilities"
	KindRoot                 Kind = "root"
	KindCallToolParams       Kind = "call_tool_params"
	KindCallToolRequest      Kind = "call_tool_request"
	KindCallToolResult       Kind = "call_tool_result"
	KindInitializeResult     Kind = "initialize_result"
)

// Entity is a pointer to any decodable value of the model.
type Entity interface {
	json.Marshaler
	json.Unmarshaler
}

var kindFactories = map[Kind]func() Entity{
	KindAnnotations:          func() Entity { return &Annotations{} },
	KindResource:             func() Entity { return &Resource{} },
	KindBlobResourceContents: func() Entity { return &BlobResourceContents{} },
	KindContent:              func() Entity { return &ContentItem{} },
	KindTool:                 func() Entity { return &Tool{} },
	KindResourceTemplate:     func() Entity { return &ResourceTemplate{} },
	KindRootsCapability:      func() Entity { return &RootsCapability{} },
	KindClientCapabilities:   func() Entity { return &ClientCapabilities{} },
	KindServerCapabilities:   func() Entity { return &ServerCapabilities{} },
	KindRoot:                 func() Entity { return &Root{} },
	KindCallToolParams:       func() Entity { return &CallToolParams{} },
	KindCallToolRequest:      func() Entity { return &CallToolRequest{} },
	KindCallToolResult:       func() Entity { return &CallToolResult{} },
	KindInitializeResult:     func() Entity { return &InitializeResult{} },
}

// Kinds lists every registered kind, sorted by name.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindFactories))
	for k := range kindFactories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseKind validates a kind name.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if _, ok := kindFactories[k]; !ok {
		return "", mcperrors.InvalidFieldValue("kind", name, "must be a registered entity kind")
	}
	return k, nil
}

// Valid reports whether k is registered.
func (k Kind) Valid() bool {
	_, ok := kindFactories[k]
	return ok
}

func (k Kind) String() string { return string(k) }

// New returns a fresh zero entity of kind k, or nil for an unknown kind.
func (k Kind) New() Entity {
	factory, ok := kindFactories[k]
	if !ok {
		return nil
	}
	return factory()
}

// DecodeKind decodes data as an entity of the given kind.
func DecodeKind(kind Kind, data []byte) (Entity, error) {
	entity := kind.New()
	if entity == nil {
		return nil, mcperrors.InvalidFieldValue("kind", string(kind), "must be a registered entity kind")
	}
	if err := Unmarshal(data, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// KindOf reports the kind of a decoded entity.
func KindOf(entity Entity) (Kind, error) {
	switch entity.(type) {
	case *Annotations:
		return KindAnnotations, nil
	case *Resource:
		return KindResource, nil
	case *BlobResourceContents:
		return KindBlobResourceContents, nil
	case *ContentItem:
		return KindContent, nil
	case *Tool:
		return KindTool, nil
	case *ResourceTemplate:
		return KindResourceTemplate, nil
	case *RootsCapability:
		return KindRootsCapability, nil
	case *ClientCapabilities:
		return KindClientCapabilities, nil
	case *ServerCapabilities:
		return KindServerCapabilities, nil
	case *Root:
		return KindRoot, nil
	case *CallToolParams:
		return KindCallToolParams, nil
	case *CallToolRequest:
		return KindCallToolRequest, nil
	case *CallToolResult:
		return KindCallToolResult, nil
	case *InitializeResult:
		return KindInitializeResult, nil
	default:
		return "", fmt.Errorf("unregistered entity type %T", entity)
	}
}
