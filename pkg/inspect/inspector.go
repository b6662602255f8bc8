package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
	"github.com/ajitpratap0/mcp-schema-go/pkg/logging"
	"github.com/ajitpratap0/mcp-schema-go/pkg/observability"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

// Report is the outcome of inspecting one document. A document that fails
// to decode, or fails lint in strict mode, still yields a report with Err
// set.
type Report struct {
	ID        string
	Source    string
	Format    Format
	Kind      protocol.Kind
	Entity    protocol.Entity
	Canonical json.RawMessage
	Findings  []Finding
	Err       error
}

// OK reports whether the document passed.
func (r *Report) OK() bool { return r.Err == nil }

// reportError is the serialized form of Report.Err.
type reportError struct {
	Code    int    `json:"code,omitempty"`
	Name    string `json:"name,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (r *Report) MarshalJSON() ([]byte, error) {
	out := struct {
		ID        string          `json:"id"`
		Source    string          `json:"source,omitempty"`
		Format    Format          `json:"format,omitempty"`
		Kind      protocol.Kind   `json:"kind,omitempty"`
		OK        bool            `json:"ok"`
		Canonical json.RawMessage `json:"canonical,omitempty"`
		Findings  []Finding       `json:"findings,omitempty"`
		Error     *reportError    `json:"error,omitempty"`
	}{
		ID:        r.ID,
		Source:    r.Source,
		Format:    r.Format,
		Kind:      r.Kind,
		OK:        r.OK(),
		Canonical: r.Canonical,
		Findings:  r.Findings,
	}
	if r.Err != nil {
		out.Error = &reportError{
			Name:    observability.ErrorType(r.Err),
			Field:   mcperrors.FieldPath(r.Err),
			Message: r.Err.Error(),
		}
		if mcpErr, ok := mcperrors.AsMCPError(r.Err); ok {
			out.Error.Code = mcpErr.Code()
		}
	}
	return json.Marshal(out)
}

// Inspector decodes, re-encodes and lints protocol documents. It is safe
// for concurrent use.
type Inspector struct {
	config Config
	codec  *observability.Codec
	logger logging.Logger
	ids    logging.IDGenerator
}

// Option configures an Inspector
type Option func(*Inspector)

// WithCodec sets the instrumented codec documents go through.
func WithCodec(codec *observability.Codec) Option {
	return func(i *Inspector) {
		if codec != nil {
			i.codec = codec
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithIDGenerator sets the generator of report IDs.
func WithIDGenerator(gen logging.IDGenerator) Option {
	return func(i *Inspector) {
		if gen != nil {
			i.ids = gen
		}
	}
}

// New creates an inspector. Without WithCodec documents go through an
// uninstrumented codec.
func New(config Config, opts ...Option) (*Inspector, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inspector config: %w", err)
	}
	i := &Inspector{
		config: config,
		logger: logging.Nop(),
		ids:    logging.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.codec == nil {
		i.codec = observability.NewCodec(observability.WithLogger(i.logger))
	}
	return i, nil
}

// Config returns the inspector's configuration.
func (i *Inspector) Config() Config { return i.config }

// Inspect inspects one document. kind may be KindAuto.
func (i *Inspector) Inspect(ctx context.Context, kind protocol.Kind, data []byte) *Report {
	return i.inspect(ctx, "", kind, data)
}

// InspectFiles inspects every file in paths with at most Config.Concurrency
// files in flight. Reports are returned in the order of paths. A document
// that fails inspection is recorded on its report; a file that cannot be
// read, or cancellation of ctx, aborts the batch.
func (i *Inspector) InspectFiles(ctx context.Context, kind protocol.Kind, paths []string) ([]*Report, error) {
	start := time.Now()
	reports := make([]*Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.config.Concurrency)

	for idx, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			reports[idx] = i.inspect(gctx, path, kind, data)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	if m := i.codec.Metrics(); m != nil {
		status := observability.StatusSuccess
		if err != nil {
			status = observability.StatusError
		}
		m.RecordBatch(ctx, len(paths), status, time.Since(start))
	}

	if err != nil {
		i.logger.WithContext(ctx).WithError(err).Error("Batch aborted",
			logging.Int("files", len(paths)),
			logging.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	i.logger.WithContext(ctx).Info("Batch inspected",
		logging.Int("files", len(paths)),
		logging.Int("failed", countFailed(reports)),
		logging.Duration("duration", time.Since(start)),
	)
	return reports, nil
}

func (i *Inspector) inspect(ctx context.Context, source string, kind protocol.Kind, data []byte) *Report {
	report := &Report{
		ID:     i.ids.Generate(),
		Source: source,
		Kind:   kind,
	}
	ctx = logging.ContextWithDocumentID(ctx, report.ID)

	logger := i.logger
	if source != "" {
		logger = logger.WithFields(logging.String("source", source))
	}

	report.Err = logging.Track(ctx, logger, "inspect", func(ctx context.Context) error {
		return i.run(ctx, report, data)
	})
	return report
}

func (i *Inspector) run(ctx context.Context, report *Report, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, format, err := Normalize(data, i.config.Format)
	report.Format = format
	if err != nil {
		return err
	}

	if report.Kind == KindAuto || report.Kind == "" {
		kind, err := DetectKind(data)
		if err != nil {
			return err
		}
		report.Kind = kind
	}

	entity, err := i.codec.Decode(ctx, report.Kind, data)
	if err != nil {
		return err
	}
	report.Entity = entity

	canonical, err := i.codec.Encode(ctx, entity)
	if err != nil {
		return err
	}
	report.Canonical = canonical

	report.Findings = Lint(entity)
	if m := i.codec.Metrics(); m != nil {
		for _, f := range report.Findings {
			m.RecordLintFinding(ctx, f.Rule)
		}
	}

	if i.config.Strict {
		return FindingsError(report.Findings)
	}
	return nil
}

func countFailed(reports []*Report) int {
	n := 0
	for _, r := range reports {
		if r != nil && !r.OK() {
			n++
		}
	}
	return n
}
