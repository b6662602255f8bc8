package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/ajitpratap0/mcp-schema-go/pkg/logging"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

// Codec operation names, used as metric labels and span names.
const (
	OperationDecode = "decode"
	OperationEncode = "encode"
)

// ObservabilityConfig configures an instrumented codec
type ObservabilityConfig struct {
	// Tracing configuration
	EnableTracing bool
	TracingConfig TracingConfig

	// Metrics configuration
	EnableMetrics bool
	MetricsConfig MetricsConfig

	// CapturePayload records documents on spans. Payloads can be large and
	// may carry tool arguments.
	CapturePayload bool
}

// Codec wraps the protocol encode/decode entry points with spans, metrics
// and logs. The zero-configured Codec from NewCodec adds nothing but logging
// to a discarding logger. A Codec is safe for concurrent use.
type Codec struct {
	tracer         *TracingProvider
	metrics        MetricsProvider
	logger         logging.Logger
	capturePayload bool
}

// CodecOption configures a Codec
type CodecOption func(*Codec)

// WithTracer attaches a tracing provider.
func WithTracer(tp *TracingProvider) CodecOption {
	return func(c *Codec) { c.tracer = tp }
}

// WithMetrics attaches a metrics provider.
func WithMetrics(m MetricsProvider) CodecOption {
	return func(c *Codec) { c.metrics = m }
}

// WithLogger sets the logger for codec failures.
func WithLogger(l logging.Logger) CodecOption {
	return func(c *Codec) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPayloadCapture records documents as span attributes.
func WithPayloadCapture(enabled bool) CodecOption {
	return func(c *Codec) { c.capturePayload = enabled }
}

// NewCodec creates a codec with the given options.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{logger: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewObservedCodec builds the providers described by config and returns a
// codec using them.
func NewObservedCodec(config ObservabilityConfig, logger logging.Logger) (*Codec, error) {
	opts := []CodecOption{WithLogger(logger), WithPayloadCapture(config.CapturePayload)}

	if config.EnableTracing {
		tp, err := NewTracingProvider(config.TracingConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create tracing provider: %w", err)
		}
		opts = append(opts, WithTracer(tp))
	}

	if config.EnableMetrics {
		m, err := NewMetricsProvider(config.MetricsConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics provider: %w", err)
		}
		opts = append(opts, WithMetrics(m))
	}

	return NewCodec(opts...), nil
}

// Metrics returns the attached metrics provider, or nil.
func (c *Codec) Metrics() MetricsProvider { return c.metrics }

// Decode decodes data as an entity of the given kind.
func (c *Codec) Decode(ctx context.Context, kind protocol.Kind, data []byte) (protocol.Entity, error) {
	ctx, span := c.startSpan(ctx, OperationDecode, kind.String())
	defer span.End()

	if span.IsRecording() {
		span.SetAttributes(AttrSize.Int(len(data)))
		if c.capturePayload {
			span.SetAttributes(attribute.String("mcp.schema.payload", string(data)))
		}
	}

	start := time.Now()
	entity, err := protocol.DecodeKind(kind, data)
	duration := time.Since(start)

	c.finish(ctx, span, OperationDecode, kind.String(), duration, len(data), err)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Encode encodes an entity to its wire document.
func (c *Codec) Encode(ctx context.Context, entity protocol.Entity) ([]byte, error) {
	kind, err := protocol.KindOf(entity)
	if err != nil {
		kind = protocol.Kind(fmt.Sprintf("%T", entity))
	}

	ctx, span := c.startSpan(ctx, OperationEncode, kind.String())
	defer span.End()

	start := time.Now()
	data, err := protocol.Marshal(entity)
	duration := time.Since(start)

	if err == nil && span.IsRecording() {
		span.SetAttributes(AttrSize.Int(len(data)))
		if c.capturePayload {
			span.SetAttributes(attribute.String("mcp.schema.payload", string(data)))
		}
	}

	c.finish(ctx, span, OperationEncode, kind.String(), duration, len(data), err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Shutdown flushes and stops the attached providers.
func (c *Codec) Shutdown(ctx context.Context) error {
	var errs []error
	if c.tracer != nil {
		errs = append(errs, c.tracer.Shutdown(ctx))
	}
	if c.metrics != nil {
		errs = append(errs, c.metrics.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (c *Codec) startSpan(ctx context.Context, operation, kind string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	ctx, span := c.tracer.StartCodecSpan(ctx, operation, kind)
	if id := logging.DocumentIDFromContext(ctx); id != "" && span.IsRecording() {
		span.SetAttributes(AttrDocumentID.String(id))
	}
	return ctx, span
}

// finish records the outcome of one codec call. With no tracer the span is
// the caller's, so it is left untouched.
func (c *Codec) finish(ctx context.Context, span trace.Span, operation, kind string, duration time.Duration, size int, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	if c.metrics != nil {
		switch operation {
		case OperationDecode:
			c.metrics.RecordDecode(ctx, kind, status, duration, size)
		case OperationEncode:
			c.metrics.RecordEncode(ctx, kind, status, duration, size)
		}
		if err != nil {
			c.metrics.RecordError(ctx, operation, kind, ErrorType(err))
		}
	}

	if c.tracer != nil && span.IsRecording() {
		if err != nil {
			span.SetAttributes(AttrErrorType.String(ErrorType(err)))
			if mcpErr, ok := mcperrors.AsMCPError(err); ok {
				span.SetAttributes(AttrErrorCode.Int(mcpErr.Code()))
			}
			if path := mcperrors.FieldPath(err); path != "" {
				span.SetAttributes(AttrField.String(path))
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	if err != nil {
		log := c.logger.WithContext(ctx).WithError(err).WithFields(
			logging.String(logging.OperationKey, operation),
			logging.String("kind", kind),
			logging.Duration("duration", duration),
		)
		if mcperrors.IsProgrammingError(err) {
			log.Error("Encode fault")
		} else {
			log.Debug("Document rejected")
		}
	}
}

// ErrorType names an error for metric labels: the schema error name for
// codec errors, "unknown" otherwise.
func ErrorType(err error) string {
	if err == nil {
		return ""
	}
	if mcpErr, ok := mcperrors.AsMCPError(err); ok {
		if info, ok := mcperrors.GetErrorCodeInfo(mcpErr.Code()); ok {
			return info.Name
		}
		return fmt.Sprintf("code_%d", mcpErr.Code())
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unknown"
	}
}
