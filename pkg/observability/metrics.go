package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MetricsConfig configures the metrics provider
type MetricsConfig struct {
	// Service identification
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Prometheus configuration
	MetricsPath string // HTTP path for metrics endpoint (default: /metrics)
	Addr        string // Listen address for the metrics server (default: :9090)

	// Metric options
	Namespace        string    // Prometheus namespace (default: mcp)
	Subsystem        string    // Prometheus subsystem (default: schema)
	HistogramBuckets []float64 // Latency buckets in milliseconds
	SizeBuckets      []float64 // Document size buckets in bytes

	// Labels to add to all metrics
	ConstLabels prometheus.Labels

	// Registry to register with. Nil creates a private registry.
	Registry *prometheus.Registry
}

// MetricsProvider records codec and inspection metrics.
type MetricsProvider interface {
	RecordDecode(ctx context.Context, kind, status string, duration time.Duration, size int)
	RecordEncode(ctx context.Context, kind, status string, duration time.Duration, size int)
	RecordError(ctx context.Context, operation, kind, errorType string)
	RecordLintFinding(ctx context.Context, rule string)
	RecordBatch(ctx context.Context, size int, status string, duration time.Duration)

	// Handler serves the collected metrics in the Prometheus text format.
	Handler() http.Handler

	// Management
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// PrometheusMetricsProvider implements MetricsProvider using Prometheus
type PrometheusMetricsProvider struct {
	config   MetricsConfig
	registry *prometheus.Registry

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener

	decodeTotal    *prometheus.CounterVec
	decodeDuration *prometheus.HistogramVec
	encodeTotal    *prometheus.CounterVec
	encodeDuration *prometheus.HistogramVec
	documentSize   *prometheus.HistogramVec

	errorTotal       *prometheus.CounterVec
	lintFindingTotal *prometheus.CounterVec

	batchTotal    *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	batchSize     prometheus.Histogram
}

// NewMetricsProvider creates a new Prometheus metrics provider
func NewMetricsProvider(config MetricsConfig) (*PrometheusMetricsProvider, error) {
	if config.Namespace == "" {
		config.Namespace = "mcp"
	}
	if config.Subsystem == "" {
		config.Subsystem = "schema"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.Addr == "" {
		config.Addr = ":9090"
	}
	if config.HistogramBuckets == nil {
		config.HistogramBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100}
	}
	if config.SizeBuckets == nil {
		config.SizeBuckets = prometheus.ExponentialBuckets(64, 4, 8)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	constLabels := prometheus.Labels{}
	for k, v := range config.ConstLabels {
		constLabels[k] = v
	}
	if config.ServiceName != "" {
		constLabels["service"] = config.ServiceName
	}
	if config.ServiceVersion != "" {
		constLabels["version"] = config.ServiceVersion
	}
	if config.Environment != "" {
		constLabels["environment"] = config.Environment
	}
	config.ConstLabels = constLabels

	provider := &PrometheusMetricsProvider{
		config:   config,
		registry: config.Registry,
	}
	provider.initializeMetrics()

	if err := provider.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return provider, nil
}

func (p *PrometheusMetricsProvider) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: p.config.ConstLabels,
		},
		labels,
	)
}

func (p *PrometheusMetricsProvider) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        name,
			Help:        help,
			Buckets:     buckets,
			ConstLabels: p.config.ConstLabels,
		},
		labels,
	)
}

// initializeMetrics creates all metric collectors
func (p *PrometheusMetricsProvider) initializeMetrics() {
	p.decodeTotal = p.counterVec("decode_total",
		"Total number of decoded documents", "kind", "status")
	p.decodeDuration = p.histogramVec("decode_duration_milliseconds",
		"Duration of document decoding in milliseconds", p.config.HistogramBuckets, "kind", "status")

	p.encodeTotal = p.counterVec("encode_total",
		"Total number of encoded entities", "kind", "status")
	p.encodeDuration = p.histogramVec("encode_duration_milliseconds",
		"Duration of entity encoding in milliseconds", p.config.HistogramBuckets, "kind", "status")

	p.documentSize = p.histogramVec("document_size_bytes",
		"Size of decoded and encoded documents in bytes", p.config.SizeBuckets, "operation", "kind")

	p.errorTotal = p.counterVec("errors_total",
		"Total number of codec errors by type", "operation", "kind", "error_type")
	p.lintFindingTotal = p.counterVec("lint_findings_total",
		"Total number of lint findings by rule", "rule")

	p.batchTotal = p.counterVec("batch_total",
		"Total number of inspection batches", "status")
	p.batchDuration = p.histogramVec("batch_duration_milliseconds",
		"Duration of inspection batches in milliseconds",
		[]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}, "status")
	p.batchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   p.config.Namespace,
		Subsystem:   p.config.Subsystem,
		Name:        "batch_size",
		Help:        "Number of documents per inspection batch",
		Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		ConstLabels: p.config.ConstLabels,
	})
}

// registerMetrics registers all metrics with the provider's registry
func (p *PrometheusMetricsProvider) registerMetrics() error {
	collectors := []prometheus.Collector{
		p.decodeTotal,
		p.decodeDuration,
		p.encodeTotal,
		p.encodeDuration,
		p.documentSize,
		p.errorTotal,
		p.lintFindingTotal,
		p.batchTotal,
		p.batchDuration,
		p.batchSize,
	}

	for _, collector := range collectors {
		if err := p.registry.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}

	return nil
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordDecode records one decode attempt
func (p *PrometheusMetricsProvider) RecordDecode(ctx context.Context, kind, status string, duration time.Duration, size int) {
	p.decodeTotal.WithLabelValues(kind, status).Inc()
	p.decodeDuration.WithLabelValues(kind, status).Observe(milliseconds(duration))
	p.documentSize.WithLabelValues("decode", kind).Observe(float64(size))
}

// RecordEncode records one encode attempt; size is zero on failure
func (p *PrometheusMetricsProvider) RecordEncode(ctx context.Context, kind, status string, duration time.Duration, size int) {
	p.encodeTotal.WithLabelValues(kind, status).Inc()
	p.encodeDuration.WithLabelValues(kind, status).Observe(milliseconds(duration))
	if status == StatusSuccess {
		p.documentSize.WithLabelValues("encode", kind).Observe(float64(size))
	}
}

// RecordError records a codec failure by error type
func (p *PrometheusMetricsProvider) RecordError(ctx context.Context, operation, kind, errorType string) {
	p.errorTotal.WithLabelValues(operation, kind, errorType).Inc()
}

// RecordLintFinding records one lint finding
func (p *PrometheusMetricsProvider) RecordLintFinding(ctx context.Context, rule string) {
	p.lintFindingTotal.WithLabelValues(rule).Inc()
}

// RecordBatch records a completed inspection batch
func (p *PrometheusMetricsProvider) RecordBatch(ctx context.Context, size int, status string, duration time.Duration) {
	p.batchTotal.WithLabelValues(status).Inc()
	p.batchDuration.WithLabelValues(status).Observe(milliseconds(duration))
	p.batchSize.Observe(float64(size))
}

// Registry returns the registry the provider's collectors live in.
func (p *PrometheusMetricsProvider) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the provider's registry.
func (p *PrometheusMetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Start starts the metrics HTTP server. The listener is bound before Start
// returns so that an unusable address is reported to the caller.
func (p *PrometheusMetricsProvider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.server != nil {
		return fmt.Errorf("metrics server already started on %s", p.listener.Addr())
	}

	listener, err := net.Listen("tcp", p.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", p.config.Addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(p.config.MetricsPath, p.Handler())

	p.listener = listener
	p.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func(server *http.Server) {
		_ = server.Serve(listener)
	}(p.server)

	return nil
}

// Addr returns the bound address of a started server, or "".
func (p *PrometheusMetricsProvider) Addr() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listener == nil {
		return ""
	}
	return p.listener.Addr().String()
}

// Shutdown gracefully shuts down the metrics server
func (p *PrometheusMetricsProvider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	server := p.server
	p.server = nil
	p.listener = nil
	p.mu.Unlock()

	if server != nil {
		return server.Shutdown(ctx)
	}
	return nil
}
