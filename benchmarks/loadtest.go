// Package benchmarks provides performance and load testing for the codec
package benchmarks

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ajitpratap0/mcp-schema-go/pkg/observability"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

// Operation names used in results.
const (
	OpDecodeRequest = "DecodeRequest"
	OpDecodeResult  = "DecodeResult"
	OpEncodeResult  = "EncodeResult"
	OpDecodeInvalid = "DecodeInvalid"
)

// LoadTestConfig configures load testing parameters
type LoadTestConfig struct {
	// Number of concurrent workers sharing one codec
	Workers int

	// Number of operations per worker (0 = run until Duration expires)
	OperationsPerWorker int

	// Test duration (0 = run until all operations complete)
	Duration time.Duration

	// Mix of operations to perform
	OperationMix OperationMix

	// Codec under load. Nil uses an uninstrumented codec.
	Codec *observability.Codec
}

// OperationMix defines the distribution of different operations
type OperationMix struct {
	DecodeRequest float64 // Weight of tools/call request decodes
	DecodeResult  float64 // Weight of tool result decodes
	EncodeResult  float64 // Weight of tool result encodes
	DecodeInvalid float64 // Weight of decodes expected to fail
}

// LoadTestResult contains the results of a load test
type LoadTestResult struct {
	TotalOperations      int64
	SuccessfulOperations int64
	FailedOperations     int64
	TotalDuration        time.Duration

	// Latency statistics (in microseconds)
	MinLatency float64
	MaxLatency float64
	AvgLatency float64
	P50Latency float64
	P90Latency float64
	P99Latency float64

	// Throughput
	OperationsPerSecond float64

	// Error breakdown by error type
	ErrorCounts map[string]int64

	// Operation-specific metrics
	OperationMetrics map[string]*OperationMetrics
}

// OperationMetrics tracks metrics for a specific operation type
type OperationMetrics struct {
	Count      int64
	Successful int64
	Failed     int64
	TotalTime  time.Duration
	MinTime    time.Duration
	MaxTime    time.Duration

	mu        sync.Mutex
	latencies []time.Duration
}

// LoadTester drives a codec from many goroutines at once
type LoadTester struct {
	config LoadTestConfig

	totalOperations      int64
	successfulOperations int64
	failedOperations     int64

	mu               sync.Mutex
	errorCounts      map[string]int64
	operationMetrics map[string]*OperationMetrics

	startTime time.Time
}

// NewLoadTester creates a new load tester
func NewLoadTester(config LoadTestConfig) *LoadTester {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Codec == nil {
		config.Codec = observability.NewCodec()
	}

	mix := &config.OperationMix
	total := mix.DecodeRequest + mix.DecodeResult + mix.EncodeResult + mix.DecodeInvalid
	if total == 0 {
		*mix = OperationMix{DecodeRequest: 40, DecodeResult: 30, EncodeResult: 20, DecodeInvalid: 10}
		total = 100
	}
	mix.DecodeRequest /= total
	mix.DecodeResult /= total
	mix.EncodeResult /= total
	mix.DecodeInvalid /= total

	return &LoadTester{
		config:           config,
		errorCounts:      make(map[string]int64),
		operationMetrics: make(map[string]*OperationMetrics),
	}
}

// Run executes the load test
func (lt *LoadTester) Run(ctx context.Context) (*LoadTestResult, error) {
	if lt.config.OperationsPerWorker <= 0 && lt.config.Duration <= 0 {
		return nil, fmt.Errorf("load test needs OperationsPerWorker or Duration")
	}

	if lt.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lt.config.Duration)
		defer cancel()
	}

	lt.startTime = time.Now()

	var wg sync.WaitGroup
	for i := 0; i < lt.config.Workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			lt.runWorker(ctx, rand.New(rand.NewSource(seed)))
		}(int64(i) + lt.startTime.UnixNano())
	}
	wg.Wait()

	return lt.calculateResults(), nil
}

func (lt *LoadTester) runWorker(ctx context.Context, rng *rand.Rand) {
	for n := 0; lt.config.OperationsPerWorker <= 0 || n < lt.config.OperationsPerWorker; n++ {
		if ctx.Err() != nil {
			return
		}
		lt.executeOperation(ctx, lt.selectOperation(rng.Float64()))
	}
}

// selectOperation chooses an operation based on the configured mix
func (lt *LoadTester) selectOperation(r float64) string {
	mix := lt.config.OperationMix
	switch {
	case r < mix.DecodeRequest:
		return OpDecodeRequest
	case r < mix.DecodeRequest+mix.DecodeResult:
		return OpDecodeResult
	case r < mix.DecodeRequest+mix.DecodeResult+mix.EncodeResult:
		return OpEncodeResult
	default:
		return OpDecodeInvalid
	}
}

// executeOperation performs a single operation and records metrics. A
// decode of the invalid sample succeeds when the codec rejects it.
func (lt *LoadTester) executeOperation(ctx context.Context, operation string) {
	codec := lt.config.Codec
	start := time.Now()
	var err error

	switch operation {
	case OpDecodeRequest:
		_, err = codec.Decode(ctx, protocol.KindCallToolRequest, SampleRequest)
	case OpDecodeResult:
		_, err = codec.Decode(ctx, protocol.KindCallToolResult, SampleResult)
	case OpEncodeResult:
		_, err = codec.Encode(ctx, SampleResultEntity())
	case OpDecodeInvalid:
		if _, decodeErr := codec.Decode(ctx, protocol.KindCallToolResult, SampleInvalidResult); decodeErr == nil {
			err = fmt.Errorf("invalid document was accepted")
		}
	}

	duration := time.Since(start)
	atomic.AddInt64(&lt.totalOperations, 1)
	lt.getOperationMetrics(operation).recordOperation(duration, err)

	if err != nil {
		atomic.AddInt64(&lt.failedOperations, 1)
		lt.recordError(err)
	} else {
		atomic.AddInt64(&lt.successfulOperations, 1)
	}
}

func (lt *LoadTester) getOperationMetrics(operation string) *OperationMetrics {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	m, ok := lt.operationMetrics[operation]
	if !ok {
		m = &OperationMetrics{}
		lt.operationMetrics[operation] = m
	}
	return m
}

func (m *OperationMetrics) recordOperation(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Count++
	m.TotalTime += duration
	if err != nil {
		m.Failed++
	} else {
		m.Successful++
	}
	if m.MinTime == 0 || duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
	m.latencies = append(m.latencies, duration)
}

func (lt *LoadTester) recordError(err error) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.errorCounts[observability.ErrorType(err)]++
}

// calculateResults computes the final test results
func (lt *LoadTester) calculateResults() *LoadTestResult {
	duration := time.Since(lt.startTime)
	total := atomic.LoadInt64(&lt.totalOperations)

	result := &LoadTestResult{
		TotalOperations:      total,
		SuccessfulOperations: atomic.LoadInt64(&lt.successfulOperations),
		FailedOperations:     atomic.LoadInt64(&lt.failedOperations),
		TotalDuration:        duration,
		OperationsPerSecond:  float64(total) / duration.Seconds(),
		ErrorCounts:          make(map[string]int64),
		OperationMetrics:     make(map[string]*OperationMetrics),
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()

	for k, v := range lt.errorCounts {
		result.ErrorCounts[k] = v
	}

	var all []time.Duration
	for op, m := range lt.operationMetrics {
		result.OperationMetrics[op] = m
		all = append(all, m.latencies...)
	}

	if len(all) > 0 {
		sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
		var sum time.Duration
		for _, d := range all {
			sum += d
		}
		result.MinLatency = microseconds(all[0])
		result.MaxLatency = microseconds(all[len(all)-1])
		result.AvgLatency = microseconds(sum / time.Duration(len(all)))
		result.P50Latency = microseconds(percentileDuration(all, 50))
		result.P90Latency = microseconds(percentileDuration(all, 90))
		result.P99Latency = microseconds(percentileDuration(all, 99))
	}

	return result
}

func microseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func percentileDuration(sortedDurations []time.Duration, percentile float64) time.Duration {
	index := int(math.Ceil(float64(len(sortedDurations))*percentile/100.0)) - 1
	if index < 0 {
		index = 0
	}
	if index >= len(sortedDurations) {
		index = len(sortedDurations) - 1
	}
	return sortedDurations[index]
}

// PrintResults writes load test results in a readable format
func (r *LoadTestResult) PrintResults(w io.Writer) {
	fmt.Fprintln(w, "=== Load Test Results ===")
	fmt.Fprintf(w, "Total Duration: %s\n", r.TotalDuration)
	fmt.Fprintf(w, "Total Operations: %d\n", r.TotalOperations)
	if r.TotalOperations > 0 {
		fmt.Fprintf(w, "Successful: %d (%.1f%%)\n", r.SuccessfulOperations,
			float64(r.SuccessfulOperations)/float64(r.TotalOperations)*100)
		fmt.Fprintf(w, "Failed: %d (%.1f%%)\n", r.FailedOperations,
			float64(r.FailedOperations)/float64(r.TotalOperations)*100)
	}
	fmt.Fprintf(w, "Operations/sec: %.2f\n", r.OperationsPerSecond)

	fmt.Fprintln(w, "\nLatency Statistics (µs):")
	fmt.Fprintf(w, "  Min: %.2f\n", r.MinLatency)
	fmt.Fprintf(w, "  Avg: %.2f\n", r.AvgLatency)
	fmt.Fprintf(w, "  P50: %.2f\n", r.P50Latency)
	fmt.Fprintf(w, "  P90: %.2f\n", r.P90Latency)
	fmt.Fprintf(w, "  P99: %.2f\n", r.P99Latency)
	fmt.Fprintf(w, "  Max: %.2f\n", r.MaxLatency)

	if len(r.OperationMetrics) > 0 {
		ops := make([]string, 0, len(r.OperationMetrics))
		for op := range r.OperationMetrics {
			ops = append(ops, op)
		}
		sort.Strings(ops)

		fmt.Fprintln(w, "\nOperation Breakdown:")
		for _, op := range ops {
			m := r.OperationMetrics[op]
			fmt.Fprintf(w, "  %s: count=%d failed=%d avg=%.2fµs\n",
				op, m.Count, m.Failed, microseconds(m.TotalTime)/float64(m.Count))
		}
	}

	if len(r.ErrorCounts) > 0 {
		fmt.Fprintln(w, "\nError Summary:")
		for errType, count := range r.ErrorCounts {
			fmt.Fprintf(w, "  %s: %d\n", errType, count)
		}
	}
}
