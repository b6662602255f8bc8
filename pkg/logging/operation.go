package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IDGenerator generates document IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string {
	return uuid.New().String()
}

// PrefixedGenerator prepends Prefix to IDs from Generator.
type PrefixedGenerator struct {
	Prefix    string
	Generator IDGenerator
}

func (g PrefixedGenerator) Generate() string {
	return fmt.Sprintf("%s-%s", g.Prefix, g.Generator.Generate())
}

// EnsureDocumentID returns ctx and its document ID, attaching a fresh one
// from gen when ctx has none. A nil gen uses UUIDGenerator.
func EnsureDocumentID(ctx context.Context, gen IDGenerator) (context.Context, string) {
	if id := DocumentIDFromContext(ctx); id != "" {
		return ctx, id
	}
	if gen == nil {
		gen = UUIDGenerator{}
	}
	id := gen.Generate()
	return ContextWithDocumentID(ctx, id), id
}

// Track runs fn as a named operation on one document, logging its start at
// debug level and its outcome with duration. Failures are logged through
// WithError so schema error details become fields.
func Track(ctx context.Context, logger Logger, operation string, fn func(context.Context) error) error {
	ctx, _ = EnsureDocumentID(ctx, nil)
	log := logger.WithContext(ctx).WithFields(String(OperationKey, operation))

	log.Debug("Operation started")
	start := time.Now()

	err := fn(ctx)

	duration := time.Since(start)
	if err != nil {
		log.WithError(err).WithFields(Duration("duration", duration)).Error("Operation failed")
	} else {
		log.WithFields(Duration("duration", duration)).Debug("Operation completed")
	}
	return err
}
