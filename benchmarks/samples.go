package benchmarks

import (
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

// Sample documents used by benchmarks and load tests.
var (
	SampleRequest = []byte(`{"method":"tools/call","params":{"name":"search","arguments":{"query":"go generics","limit":10,"filters":{"lang":["en","de"],"since":"2024-01-01"}}}}`)

	SampleResult = []byte(`{"content":[` +
		`{"type":"Text","text":"3 results","annotations":{"audience":["user","assistant"],"priority":0.8}},` +
		`{"type":"Image","image_data":"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==","mime_type":"image/png"},` +
		`{"type":"EmbeddedResource","resource":{"uri":"file:///docs/generics.md","name":"generics.md","mime_type":"text/markdown"}}` +
		`],"is_error":false,"_meta":{"took_ms":12}}`)

	SampleInitializeResult = []byte(`{"capabilities":{"tools":[` +
		`{"name":"search","description":"Search the index","parameters":{"type":"object","properties":{"query":{"type":"string"}},"required":["query"]}},` +
		`{"name":"fetch","description":"Fetch a document","parameters":{"type":"object","properties":{"uri":{"type":"string"}}},"annotations":{"priority":0.5}}` +
		`],"prompts":[{"name":"summarize","description":"Summarize a document"}]}}`)

	SampleInvalidResult = []byte(`{"content":[{"type":"Text","text":"ok"},{"type":"EmbeddedResource","resource":{"name":"no uri"}}]}`)
)

// SampleResultEntity builds a result equivalent to SampleResult.
func SampleResultEntity() *protocol.CallToolResult {
	priority := float32(0.8)
	name := "generics.md"
	mimeType := "text/markdown"
	isError := false

	text := protocol.NewTextContent("3 results")
	text.Annotations = &protocol.Annotations{
		Audience: []protocol.Role{protocol.RoleUser, protocol.RoleAssistant},
		Priority: &priority,
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			text,
			protocol.NewImageContent([]byte{0x89, 'P', 'N', 'G'}, "image/png"),
			protocol.NewEmbeddedResource(protocol.Resource{
				URI:      "file:///docs/generics.md",
				Name:     &name,
				MimeType: &mimeType,
			}),
		},
		IsError: &isError,
		Meta:    map[string]any{"took_ms": float64(12)},
	}
}
