package mcp_test

import (
	"errors"
	"fmt"

	mcp "github.com/ajitpratap0/mcp-schema-go"
	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

func ExampleUnmarshal() {
	var req protocol.CallToolRequest
	err := mcp.Unmarshal([]byte(`{"method":"tools/call","params":{"name":"search","arguments":{"query":"generics"}}}`), &req)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(req.Method(), req.Params.Name, req.Params.Arguments["query"])
	// Output: tools/call search generics
}

func ExampleUnmarshal_fieldError() {
	var result protocol.CallToolResult
	err := mcp.Unmarshal([]byte(`{"content":[{"type":"Text","text":"ok"},{"type":"video"}]}`), &result)
	fmt.Println(mcperrors.FieldPath(err))
	fmt.Println(mcperrors.IsDataError(err))
	// Output:
	// content[1].type
	// true
}

func ExampleMarshal() {
	result := protocol.CallToolResult{
		Content: []protocol.Content{mcp.NewTextContent("42 results")},
	}
	data, err := mcp.Marshal(result)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(data))
	// Output: {"content":[{"type":"Text","text":"42 results"}]}
}

func ExampleNewErrorResult() {
	data, _ := mcp.Marshal(mcp.NewErrorResult(errors.New("index offline")))
	fmt.Println(string(data))
	// Output: {"content":[{"type":"Text","text":"index offline"}],"is_error":true}
}

func ExampleDecodeKind() {
	entity, err := mcp.DecodeKind(protocol.KindRoot, []byte(`{"uri":"file:///workspace","name":"workspace"}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	root := entity.(*protocol.Root)
	fmt.Println(root.URI, *root.Name)
	// Output: file:///workspace workspace
}
