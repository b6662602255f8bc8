package inspect

import (
	"encoding/json"
	"fmt"
	"strings"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

// Lint rule names.
const (
	RuleDuplicateToolName   = "duplicate-tool-name"
	RulePriorityOutOfRange  = "priority-out-of-range"
	RuleParametersNotObject = "parameters-not-object"
)

// Finding is a decoded value that is well-formed but breaks a documented
// invariant the codec does not enforce.
type Finding struct {
	Rule    string `json:"rule"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	if f.Field == "" {
		return fmt.Sprintf("%s: %s", f.Rule, f.Message)
	}
	return fmt.Sprintf("%s: %s: %s", f.Rule, f.Field, f.Message)
}

// Lint checks a decoded entity and returns its findings in document order.
func Lint(entity protocol.Entity) []Finding {
	l := &linter{}
	switch e := entity.(type) {
	case *protocol.Annotations:
		l.annotations("", e)
	case *protocol.Resource:
		l.resource("", *e)
	case *protocol.ContentItem:
		l.content("", e.Content)
	case *protocol.Tool:
		l.tool("", *e)
	case *protocol.ResourceTemplate:
		l.annotations("annotations", e.Annotations)
	case *protocol.Root:
		l.annotations("annotations", e.Annotations)
	case *protocol.ServerCapabilities:
		l.serverCapabilities("", *e)
	case *protocol.CallToolResult:
		l.contents("content", e.Content)
	case *protocol.InitializeResult:
		l.serverCapabilities("capabilities", e.Capabilities)
	}
	return l.findings
}

// FindingsError turns findings into a validation error, one InvalidFieldValue
// per finding. It returns nil for no findings.
func FindingsError(findings []Finding) error {
	if len(findings) == 0 {
		return nil
	}
	errs := make([]mcperrors.MCPError, len(findings))
	for i, f := range findings {
		errs[i] = mcperrors.InvalidFieldValue(f.Field, nil, fmt.Sprintf("%s (%s)", f.Message, f.Rule))
	}
	return mcperrors.CombineValidationErrors(errs)
}

type linter struct {
	findings []Finding
}

func (l *linter) report(rule, field, format string, args ...interface{}) {
	l.findings = append(l.findings, Finding{
		Rule:    rule,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (l *linter) annotations(path string, a *protocol.Annotations) {
	if a == nil || a.PriorityInRange() {
		return
	}
	l.report(RulePriorityOutOfRange, joinPath(path, "priority"), "priority %g is outside [0, 1]", *a.Priority)
}

func (l *linter) resource(path string, r protocol.Resource) {
	l.annotations(joinPath(path, "annotations"), r.Annotations)
}

func (l *linter) content(path string, c protocol.Content) {
	if c == nil {
		return
	}
	l.annotations(joinPath(path, "annotations"), c.GetAnnotations())
	switch v := c.(type) {
	case protocol.EmbeddedResource:
		l.resource(joinPath(path, "resource"), v.Resource)
	case *protocol.EmbeddedResource:
		l.resource(joinPath(path, "resource"), v.Resource)
	}
}

func (l *linter) contents(path string, items []protocol.Content) {
	for i, c := range items {
		l.content(fmt.Sprintf("%s[%d]", path, i), c)
	}
}

func (l *linter) tool(path string, t protocol.Tool) {
	if reason := objectSchemaProblem(t.Parameters); reason != "" {
		l.report(RuleParametersNotObject, joinPath(path, "parameters"), "tool %q parameters %s", t.Name, reason)
	}
	l.annotations(joinPath(path, "annotations"), t.Annotations)
}

func (l *linter) serverCapabilities(path string, s protocol.ServerCapabilities) {
	for _, name := range s.DuplicateToolNames() {
		l.report(RuleDuplicateToolName, joinPath(path, "tools"), "tool name %q is advertised more than once", name)
	}
	for i, t := range s.Tools {
		l.tool(fmt.Sprintf("%s[%d]", joinPath(path, "tools"), i), t)
	}
	for i, p := range s.Prompts {
		l.annotations(fmt.Sprintf("%s[%d].annotations", joinPath(path, "prompts"), i), p.Annotations)
	}
}

// objectSchemaProblem describes why a parameters document does not describe
// an object, or returns "". A schema without a type keyword is accepted.
func objectSchemaProblem(schema json.RawMessage) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(schema, &doc); err != nil || doc == nil {
		return "is not a JSON object"
	}
	raw, ok := doc["type"]
	if !ok {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "object" {
			return ""
		}
		return fmt.Sprintf("have type %q, not \"object\"", single)
	}

	var union []string
	if err := json.Unmarshal(raw, &union); err == nil {
		for _, t := range union {
			if t == "object" {
				return ""
			}
		}
		return fmt.Sprintf("have type [%s], which excludes \"object\"", strings.Join(union, ", "))
	}
	return "have a malformed type keyword"
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
