package inspect

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joeshaw/envdecode"

	"github.com/ajitpratap0/mcp-schema-go/pkg/logging"
	"github.com/ajitpratap0/mcp-schema-go/pkg/observability"
)

// Config configures an Inspector. Every field can be loaded from the
// environment with LoadConfig.
type Config struct {
	// Format of input documents. ENV: MCP_INSPECT_FORMAT
	Format Format `env:"MCP_INSPECT_FORMAT,default=auto"`
	// Concurrency bounds the files inspected at once. ENV: MCP_INSPECT_CONCURRENCY
	Concurrency int `env:"MCP_INSPECT_CONCURRENCY,default=4"`
	// Strict turns lint findings into failures. ENV: MCP_INSPECT_STRICT
	Strict bool `env:"MCP_INSPECT_STRICT,default=false"`

	// LogFormat is "text" or "json". ENV: MCP_INSPECT_LOG_FORMAT
	LogFormat string `env:"MCP_INSPECT_LOG_FORMAT,default=text"`
	// LogLevel is a logging level name. ENV: MCP_INSPECT_LOG_LEVEL
	LogLevel string `env:"MCP_INSPECT_LOG_LEVEL,default=info"`

	// MetricsAddr enables the Prometheus endpoint when set. ENV: MCP_INSPECT_METRICS_ADDR
	MetricsAddr string `env:"MCP_INSPECT_METRICS_ADDR"`
	// TraceExporter selects the span exporter. ENV: MCP_INSPECT_TRACE_EXPORTER
	TraceExporter string `env:"MCP_INSPECT_TRACE_EXPORTER,default=noop"`
	// TraceEndpoint is the OTLP collector endpoint. ENV: MCP_INSPECT_TRACE_ENDPOINT
	TraceEndpoint string `env:"MCP_INSPECT_TRACE_ENDPOINT"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Format:        FormatAuto,
		Concurrency:   4,
		LogFormat:     "text",
		LogLevel:      "info",
		TraceExporter: string(observability.ExporterTypeNoop),
	}
}

// LoadConfig overlays MCP_INSPECT_* environment variables on DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	if _, err := ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := observability.ParseExporterType(c.TraceExporter); err != nil {
		return err
	}
	return nil
}

// NewLogger builds the logger described by LogFormat and LogLevel.
func (c Config) NewLogger(w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	var formatter logging.Formatter
	switch strings.ToLower(c.LogFormat) {
	case "json":
		formatter = logging.NewJSONFormatter()
	case "text", "":
		formatter = logging.NewTextFormatter()
	default:
		return nil, fmt.Errorf("unsupported log format: %s", c.LogFormat)
	}

	logger := logging.New(w, formatter)
	logger.SetLevel(level)
	return logger, nil
}

// Observability maps the configuration onto the instrumented codec's.
// Tracing is enabled only for a real exporter.
func (c Config) Observability(serviceVersion string) (observability.ObservabilityConfig, error) {
	exporter, err := observability.ParseExporterType(c.TraceExporter)
	if err != nil {
		return observability.ObservabilityConfig{}, err
	}

	return observability.ObservabilityConfig{
		EnableTracing: exporter != observability.ExporterTypeNoop,
		TracingConfig: observability.TracingConfig{
			ServiceName:    "schema-inspect",
			ServiceVersion: serviceVersion,
			ExporterType:   exporter,
			Endpoint:       c.TraceEndpoint,
			Insecure:       true,
		},
		EnableMetrics: c.MetricsAddr != "",
		MetricsConfig: observability.MetricsConfig{
			ServiceName:    "schema-inspect",
			ServiceVersion: serviceVersion,
			Addr:           c.MetricsAddr,
		},
	}, nil
}
