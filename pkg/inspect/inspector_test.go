package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/ajitpratap0/mcp-schema-go/pkg/logging"
	"github.com/ajitpratap0/mcp-schema-go/pkg/observability"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-schema-go/pkg/utils"
)

type sequentialIDs struct {
	n atomic.Int64
}

func (s *sequentialIDs) Generate() string {
	return fmt.Sprintf("doc-%d", s.n.Add(1))
}

const (
	requestJSON   = `{"method":"tools/call","params":{"name":"search","arguments":{"query":"generics"}}}`
	badResultJSON = `{"content":[{"type":"Text","text":"ok"},{"type":"EmbeddedResource","resource":{}}]}`
	dupToolsJSON  = `{"capabilities":{"tools":[
		{"name":"a","description":"","parameters":{"type":"object"}},
		{"name":"a","description":"","parameters":{"type":"object"}}
	]}}`
)

func newInspector(t *testing.T, mutate func(*Config), opts ...Option) *Inspector {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	ins, err := New(cfg, append([]Option{WithIDGenerator(&sequentialIDs{})}, opts...)...)
	require.NoError(t, err)
	return ins
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, m := range family.GetMetric() {
			got := map[string]string{}
			for _, l := range m.GetLabel() {
				got[l.GetName()] = l.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metrics
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Concurrency = 0
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestInspectDetectsAndCanonicalizes(t *testing.T) {
	ins := newInspector(t, nil)

	report := ins.Inspect(context.Background(), KindAuto, []byte("  "+requestJSON+"\n"))
	require.NoError(t, report.Err)
	assert.True(t, report.OK())
	assert.Equal(t, "doc-1", report.ID)
	assert.Equal(t, FormatJSON, report.Format)
	assert.Equal(t, protocol.KindCallToolRequest, report.Kind)
	assert.JSONEq(t, requestJSON, string(report.Canonical))
	assert.Empty(t, report.Findings)

	req, ok := report.Entity.(*protocol.CallToolRequest)
	require.True(t, ok)
	assert.Equal(t, "search", req.Params.Name)
}

func TestInspectYAML(t *testing.T) {
	ins := newInspector(t, nil)

	report := ins.Inspect(context.Background(), KindAuto, []byte(requestYAML))
	require.NoError(t, report.Err)
	assert.Equal(t, FormatYAML, report.Format)
	assert.JSONEq(t, `{"method":"tools/call","params":{"name":"search","arguments":{"query":"generics","limit":5}}}`, string(report.Canonical))
}

func TestInspectRecordsDecodeFailures(t *testing.T) {
	ins := newInspector(t, nil)

	report := ins.Inspect(context.Background(), KindAuto, []byte(badResultJSON))
	require.Error(t, report.Err)
	assert.False(t, report.OK())
	assert.Equal(t, protocol.KindCallToolResult, report.Kind)
	assert.Equal(t, "content[1].resource.uri", mcperrors.FieldPath(report.Err))
	assert.True(t, mcperrors.IsDataError(report.Err))
	assert.Nil(t, report.Entity)
	assert.Nil(t, report.Canonical)
}

func TestInspectExplicitKind(t *testing.T) {
	ins := newInspector(t, nil)

	report := ins.Inspect(context.Background(), protocol.KindTool, []byte(requestJSON))
	assert.True(t, mcperrors.IsCode(report.Err, mcperrors.CodeMissingRequiredField))

	report = ins.Inspect(context.Background(), protocol.Kind("prompt"), []byte(requestJSON))
	assert.True(t, mcperrors.IsCode(report.Err, mcperrors.CodeInvalidParameter))
}

func TestInspectStrictMode(t *testing.T) {
	lenient := newInspector(t, nil)
	report := lenient.Inspect(context.Background(), KindAuto, []byte(dupToolsJSON))
	require.NoError(t, report.Err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, RuleDuplicateToolName, report.Findings[0].Rule)

	strict := newInspector(t, func(c *Config) { c.Strict = true })
	report = strict.Inspect(context.Background(), KindAuto, []byte(dupToolsJSON))
	require.Error(t, report.Err)
	assert.True(t, mcperrors.IsCategory(report.Err, mcperrors.CategoryValidation))
	assert.NotNil(t, report.Canonical, "a strict failure still carries the decoded document")
}

func TestInspectCancelled(t *testing.T) {
	ins := newInspector(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := ins.Inspect(ctx, KindAuto, []byte(requestJSON))
	assert.ErrorIs(t, report.Err, context.Canceled)
}

func TestInspectLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.NewJSONFormatter())
	ins := newInspector(t, nil, WithLogger(logger))

	report := ins.Inspect(context.Background(), KindAuto, []byte(badResultJSON))
	require.Error(t, report.Err)

	out := buf.String()
	assert.Contains(t, out, `"message":"Operation failed"`)
	assert.Contains(t, out, `"document_id":"doc-1"`)
	assert.Contains(t, out, `"field":"content[1].resource.uri"`)
}

func TestReportMarshalJSON(t *testing.T) {
	ins := newInspector(t, nil)

	data, err := json.Marshal(ins.Inspect(context.Background(), KindAuto, []byte(badResultJSON)))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, false, out["ok"])
	assert.Equal(t, "call_tool_result", out["kind"])

	errObj, ok := out["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(mcperrors.CodeMissingRequiredField), errObj["code"])
	assert.Equal(t, "MissingRequiredField", errObj["name"])
	assert.Equal(t, "content[1].resource.uri", errObj["field"])

	data, err = json.Marshal(ins.Inspect(context.Background(), KindAuto, []byte(requestJSON)))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ok":true`)
	assert.NotContains(t, string(data), `"error"`)
}

func writeFiles(t *testing.T, docs ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(docs))
	for i, doc := range docs {
		paths[i] = filepath.Join(dir, fmt.Sprintf("doc-%02d.json", i))
		require.NoError(t, os.WriteFile(paths[i], []byte(doc), 0o600))
	}
	return paths
}

func TestInspectFiles(t *testing.T) {
	detector := utils.NewGoroutineLeakDetector(t).Start()
	defer detector.Check()

	metrics, err := observability.NewMetricsProvider(observability.MetricsConfig{})
	require.NoError(t, err)
	codec := observability.NewCodec(observability.WithMetrics(metrics))

	var docs []string
	for i := 0; i < 12; i++ {
		switch i % 3 {
		case 0:
			docs = append(docs, requestJSON)
		case 1:
			docs = append(docs, badResultJSON)
		default:
			docs = append(docs, dupToolsJSON)
		}
	}
	paths := writeFiles(t, docs...)

	ins := newInspector(t, func(c *Config) { c.Concurrency = 3 }, WithCodec(codec))
	reports, err := ins.InspectFiles(context.Background(), KindAuto, paths)
	require.NoError(t, err)
	require.Len(t, reports, len(paths))

	ids := map[string]bool{}
	for i, r := range reports {
		assert.Equal(t, paths[i], r.Source)
		assert.Equal(t, i%3 != 1, r.OK(), r.Source)
		ids[r.ID] = true
	}
	assert.Len(t, ids, len(paths), "every report has its own ID")

	reg := metrics.Registry()
	assert.Equal(t, 4.0, counterValue(t, reg, "mcp_schema_lint_findings_total", map[string]string{"rule": RuleDuplicateToolName}))
	assert.Equal(t, 1.0, counterValue(t, reg, "mcp_schema_batch_total", map[string]string{"status": observability.StatusSuccess}))
	assert.Equal(t, 8.0, counterValue(t, reg, "mcp_schema_decode_total", map[string]string{"status": observability.StatusSuccess}))
	assert.Equal(t, 4.0, counterValue(t, reg, "mcp_schema_decode_total", map[string]string{"status": observability.StatusError}))
}

func TestInspectFilesAbortsOnReadError(t *testing.T) {
	metrics, err := observability.NewMetricsProvider(observability.MetricsConfig{})
	require.NoError(t, err)

	paths := writeFiles(t, requestJSON, requestJSON)
	paths = append(paths, filepath.Join(t.TempDir(), "missing.json"))

	ins := newInspector(t, nil, WithCodec(observability.NewCodec(observability.WithMetrics(metrics))))
	reports, err := ins.InspectFiles(context.Background(), KindAuto, paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, reports)
	assert.Equal(t, 1.0, counterValue(t, metrics.Registry(), "mcp_schema_batch_total", map[string]string{"status": observability.StatusError}))
}

func TestInspectFilesCancelled(t *testing.T) {
	paths := writeFiles(t, requestJSON, requestJSON, requestJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ins := newInspector(t, nil)
	reports, err := ins.InspectFiles(ctx, KindAuto, paths)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, reports)
}

func TestInspectFilesEmpty(t *testing.T) {
	ins := newInspector(t, nil)
	reports, err := ins.InspectFiles(context.Background(), KindAuto, nil)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
