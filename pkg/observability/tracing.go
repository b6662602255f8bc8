// Package observability provides metrics and tracing for encoding and
// decoding protocol documents.
package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrKind       = attribute.Key("mcp.schema.kind")
	AttrOperation  = attribute.Key("mcp.schema.operation")
	AttrSize       = attribute.Key("mcp.schema.size_bytes")
	AttrField      = attribute.Key("mcp.schema.field")
	AttrErrorCode  = attribute.Key("mcp.schema.error_code")
	AttrErrorType  = attribute.Key("mcp.schema.error_type")
	AttrDocumentID = attribute.Key("mcp.schema.document_id")
)

// TracingConfig configures OpenTelemetry tracing
type TracingConfig struct {
	// Service identification
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Exporter configuration
	ExporterType ExporterType
	Endpoint     string // OTLP endpoint
	Headers      map[string]string
	Insecure     bool // Use insecure connection (for development)

	// SpanExporter overrides ExporterType when set.
	SpanExporter sdktrace.SpanExporter

	// Sampling configuration
	SampleRate   float64  // 0.0 to 1.0
	AlwaysSample []string // Entity kinds to always sample
	NeverSample  []string // Entity kinds to never sample

	// Performance options
	BatchTimeout time.Duration
	MaxBatchSize int
	MaxQueueSize int

	// Additional attributes
	ResourceAttributes map[string]string

	// SetGlobal installs the provider as the process-wide tracer provider.
	SetGlobal bool
}

// ExporterType defines the type of trace exporter
type ExporterType string

const (
	// ExporterTypeOTLPGRPC exports traces via OTLP over gRPC
	ExporterTypeOTLPGRPC ExporterType = "otlp-grpc"

	// ExporterTypeOTLPHTTP exports traces via OTLP over HTTP
	ExporterTypeOTLPHTTP ExporterType = "otlp-http"

	// ExporterTypeNoop disables trace export
	ExporterTypeNoop ExporterType = "noop"
)

// ParseExporterType validates an exporter name. The empty string selects
// ExporterTypeNoop.
func ParseExporterType(name string) (ExporterType, error) {
	switch t := ExporterType(name); t {
	case ExporterTypeOTLPGRPC, ExporterTypeOTLPHTTP, ExporterTypeNoop:
		return t, nil
	case "":
		return ExporterTypeNoop, nil
	default:
		return "", fmt.Errorf("unsupported exporter type: %s", name)
	}
}

// TracingProvider manages OpenTelemetry tracing
type TracingProvider struct {
	config         TracingConfig
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	mu             sync.Mutex
	shutdown       func(context.Context) error
}

// NewTracingProvider creates a new tracing provider
func NewTracingProvider(config TracingConfig) (*TracingProvider, error) {
	if config.ServiceName == "" {
		config.ServiceName = "mcp-schema"
	}
	if config.ServiceVersion == "" {
		config.ServiceVersion = "unknown"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}
	if config.SampleRate == 0 {
		config.SampleRate = 1.0
	}
	if config.BatchTimeout == 0 {
		config.BatchTimeout = 5 * time.Second
	}
	if config.MaxBatchSize == 0 {
		config.MaxBatchSize = 512
	}
	if config.MaxQueueSize == 0 {
		config.MaxQueueSize = 2048
	}

	res := createResource(config)

	exporter, err := createExporter(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(config.BatchTimeout),
			sdktrace.WithMaxExportBatchSize(config.MaxBatchSize),
			sdktrace.WithMaxQueueSize(config.MaxQueueSize),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(createSampler(config)),
	)

	if config.SetGlobal {
		otel.SetTracerProvider(tp)
	}

	return &TracingProvider{
		config:         config,
		tracerProvider: tp,
		tracer:         tp.Tracer("github.com/ajitpratap0/mcp-schema-go"),
		shutdown:       tp.Shutdown,
	}, nil
}

// createResource creates the OpenTelemetry resource
func createResource(config TracingConfig) *resource.Resource {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		semconv.DeploymentEnvironment(config.Environment),
	}

	for k, v := range config.ResourceAttributes {
		attrs = append(attrs, attribute.String(k, v))
	}

	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

// createExporter creates the configured trace exporter
func createExporter(config TracingConfig) (sdktrace.SpanExporter, error) {
	if config.SpanExporter != nil {
		return config.SpanExporter, nil
	}

	switch config.ExporterType {
	case ExporterTypeOTLPGRPC, ExporterTypeOTLPHTTP:
		return newOTLPExporter(config)
	case ExporterTypeNoop, "":
		return &noopExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", config.ExporterType)
	}
}

// newOTLPExporter builds an OTLP exporter over gRPC or HTTP.
func newOTLPExporter(config TracingConfig) (sdktrace.SpanExporter, error) {
	var client otlptrace.Client
	if config.ExporterType == ExporterTypeOTLPGRPC {
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(config.Endpoint),
			otlptracegrpc.WithHeaders(config.Headers),
		}
		if config.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		client = otlptracegrpc.NewClient(opts...)
	} else {
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(config.Endpoint),
			otlptracehttp.WithHeaders(config.Headers),
		}
		if config.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		client = otlptracehttp.NewClient(opts...)
	}
	return otlptrace.New(context.Background(), client)
}

// createSampler picks a sampler for the configured rate. Kind lists wrap
// the rate sampler so listed kinds bypass it.
func createSampler(config TracingConfig) sdktrace.Sampler {
	var base sdktrace.Sampler
	switch {
	case config.SampleRate >= 1.0:
		base = sdktrace.AlwaysSample()
	case config.SampleRate <= 0.0:
		base = sdktrace.NeverSample()
	default:
		base = sdktrace.TraceIDRatioBased(config.SampleRate)
	}

	if len(config.AlwaysSample) == 0 && len(config.NeverSample) == 0 {
		return base
	}
	return &kindSampler{
		base:   base,
		always: makeStringSet(config.AlwaysSample),
		never:  makeStringSet(config.NeverSample),
	}
}

// StartCodecSpan starts a span for one encode or decode of a kind.
func (tp *TracingProvider) StartCodecSpan(ctx context.Context, operation, kind string) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrOperation.String(operation),
			AttrKind.String(kind),
		),
	}

	return tp.tracer.Start(ctx, fmt.Sprintf("mcp.schema.%s", operation), opts...)
}

// ForceFlush exports all ended spans that have not been exported yet.
func (tp *TracingProvider) ForceFlush(ctx context.Context) error {
	return tp.tracerProvider.ForceFlush(ctx)
}

// Shutdown gracefully shuts down the tracing provider. Later calls are no-ops.
func (tp *TracingProvider) Shutdown(ctx context.Context) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if tp.shutdown != nil {
		shutdown := tp.shutdown
		tp.shutdown = nil
		return shutdown(ctx)
	}
	return nil
}

// kindSampler decides by the kind attribute of a codec span and defers to
// base for unlisted kinds.
type kindSampler struct {
	base   sdktrace.Sampler
	always map[string]struct{}
	never  map[string]struct{}
}

func (ks *kindSampler) ShouldSample(params sdktrace.SamplingParameters) sdktrace.SamplingResult {
	for _, attr := range params.Attributes {
		if attr.Key != AttrKind {
			continue
		}
		kind := attr.Value.AsString()
		if _, ok := ks.always[kind]; ok {
			return sdktrace.SamplingResult{Decision: sdktrace.RecordAndSample}
		}
		if _, ok := ks.never[kind]; ok {
			return sdktrace.SamplingResult{Decision: sdktrace.Drop}
		}
		break
	}
	return ks.base.ShouldSample(params)
}

func (ks *kindSampler) Description() string {
	return fmt.Sprintf("KindSampler{%s}", ks.base.Description())
}

// noopExporter discards spans
type noopExporter struct{}

func (n *noopExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

func (n *noopExporter) Shutdown(ctx context.Context) error {
	return nil
}

func makeStringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
