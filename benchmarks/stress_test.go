package benchmarks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ajitpratap0/mcp-schema-go/pkg/inspect"
	"github.com/ajitpratap0/mcp-schema-go/pkg/observability"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-schema-go/pkg/utils"
)

// TestConcurrentCodecStress shares one instrumented codec between many
// goroutines and checks every decode/encode cycle is byte-identical.
func TestConcurrentCodecStress(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	detector := utils.NewGoroutineLeakDetector(t).Start()

	metrics, err := observability.NewMetricsProvider(observability.MetricsConfig{})
	require.NoError(t, err)
	tracer, err := observability.NewTracingProvider(observability.TracingConfig{
		SpanExporter: tracetest.NewInMemoryExporter(),
		SampleRate:   0.1,
	})
	require.NoError(t, err)
	codec := observability.NewCodec(observability.WithMetrics(metrics), observability.WithTracer(tracer))

	docs := map[protocol.Kind][]byte{
		protocol.KindCallToolRequest:  SampleRequest,
		protocol.KindCallToolResult:   SampleResult,
		protocol.KindInitializeResult: SampleInitializeResult,
	}
	want := map[protocol.Kind][]byte{}
	for kind, doc := range docs {
		entity, err := codec.Decode(context.Background(), kind, doc)
		require.NoError(t, err)
		want[kind], err = codec.Encode(context.Background(), entity)
		require.NoError(t, err)
	}

	const (
		workers    = 32
		iterations = 500
	)
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := context.Background()
			for i := 0; i < iterations; i++ {
				for kind, doc := range docs {
					entity, err := codec.Decode(ctx, kind, doc)
					if err != nil {
						errs <- err
						return
					}
					out, err := codec.Encode(ctx, entity)
					if err != nil {
						errs <- err
						return
					}
					if !bytes.Equal(out, want[kind]) {
						errs <- assert.AnError
						return
					}
				}
				if _, err := codec.Decode(ctx, protocol.KindCallToolResult, SampleInvalidResult); err == nil {
					errs <- assert.AnError
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("worker failed: %v", err)
	}

	require.NoError(t, codec.Shutdown(context.Background()))
	detector.SetAllowedGrowth(2).Check()
}

// TestConcurrentInspectStress inspects many files with a small worker bound
// and checks reports keep input order.
func TestConcurrentInspectStress(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	dir := t.TempDir()
	samples := [][]byte{SampleRequest, SampleResult, SampleInitializeResult, SampleInvalidResult}
	paths := make([]string, 400)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("doc-%03d.json", i))
		require.NoError(t, os.WriteFile(paths[i], samples[i%len(samples)], 0o600))
	}

	cfg := inspect.DefaultConfig()
	cfg.Concurrency = 8
	ins, err := inspect.New(cfg)
	require.NoError(t, err)

	detector := utils.NewGoroutineLeakDetector(t).Start()
	reports, err := ins.InspectFiles(context.Background(), inspect.KindAuto, paths)
	require.NoError(t, err)
	detector.Check()

	require.Len(t, reports, len(paths))
	for i, r := range reports {
		assert.Equal(t, paths[i], r.Source)
		assert.Equal(t, i%len(samples) != 3, r.OK(), r.Source)
	}
}

// TestMemoryGrowth decodes and encodes repeatedly and checks the heap does
// not keep what it decoded.
func TestMemoryGrowth(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping memory leak test in short mode")
	}

	runtime.GC()
	runtime.GC()
	var initialMem runtime.MemStats
	runtime.ReadMemStats(&initialMem)

	codec := observability.NewCodec()
	ctx := context.Background()
	const iterations = 20000
	for i := 0; i < iterations; i++ {
		entity, err := codec.Decode(ctx, protocol.KindCallToolResult, SampleResult)
		require.NoError(t, err)
		_, err = codec.Encode(ctx, entity)
		require.NoError(t, err)
	}

	runtime.GC()
	runtime.GC()
	var finalMem runtime.MemStats
	runtime.ReadMemStats(&finalMem)

	memGrowthMB := float64(int64(finalMem.HeapAlloc)-int64(initialMem.HeapAlloc)) / (1024 * 1024)
	t.Logf("Memory growth: %.2f MB over %d cycles", memGrowthMB, iterations)
	if memGrowthMB > 20 {
		t.Errorf("Excessive memory growth detected: %.2f MB", memGrowthMB)
	}
}

func TestLoadTester(t *testing.T) {
	metrics, err := observability.NewMetricsProvider(observability.MetricsConfig{})
	require.NoError(t, err)

	lt := NewLoadTester(LoadTestConfig{
		Workers:             4,
		OperationsPerWorker: 200,
		Codec:               observability.NewCodec(observability.WithMetrics(metrics)),
	})
	result, err := lt.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(800), result.TotalOperations)
	assert.Equal(t, int64(800), result.SuccessfulOperations)
	assert.Zero(t, result.FailedOperations)
	assert.Empty(t, result.ErrorCounts)
	assert.LessOrEqual(t, result.MinLatency, result.P50Latency)
	assert.LessOrEqual(t, result.P50Latency, result.P99Latency)
	assert.LessOrEqual(t, result.P99Latency, result.MaxLatency)

	var count int64
	for _, m := range result.OperationMetrics {
		count += m.Count
	}
	assert.Equal(t, int64(800), count)

	var buf bytes.Buffer
	result.PrintResults(&buf)
	assert.Contains(t, buf.String(), "Total Operations: 800")
}

func TestLoadTesterDuration(t *testing.T) {
	lt := NewLoadTester(LoadTestConfig{
		Workers:      2,
		Duration:     50 * time.Millisecond,
		OperationMix: OperationMix{EncodeResult: 1},
	})
	result, err := lt.Run(context.Background())
	require.NoError(t, err)
	assert.Positive(t, result.TotalOperations)
	assert.Len(t, result.OperationMetrics, 1)
	assert.Contains(t, result.OperationMetrics, OpEncodeResult)

	_, err = NewLoadTester(LoadTestConfig{}).Run(context.Background())
	assert.Error(t, err)
}
