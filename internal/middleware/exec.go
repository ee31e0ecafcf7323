package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/qproc/internal/observability"
	"github.com/vyrodovalexey/qproc/internal/processor"
)

// SpanName is the name of the span around each compilation.
const SpanName = "qproc.exec"

// Span attribute keys.
const (
	AttrKeys         = "qproc.keys"
	AttrFilterFields = "qproc.filter_fields"
	AttrSearch       = "qproc.search"
)

// ErrCompile is wrapped by every error the adapters report.
var ErrCompile = errors.New("query compilation failed")

// ErrNoProcessor is reported when the source has no processor.
var ErrNoProcessor = errors.New("no processor available")

type resultKey struct{}

// FromContext returns the result stored by either adapter.
func FromContext(ctx context.Context) (*processor.Result, bool) {
	r, ok := ctx.Value(resultKey{}).(*processor.Result)
	return r, ok
}

// ContextWithResult stores a result in ctx.
func ContextWithResult(ctx context.Context, r *processor.Result) context.Context {
	return context.WithValue(ctx, resultKey{}, r)
}

// execute compiles values inside a span. Panics are returned as errors. The
// returned context is ctx plus the trace id of the span, and is valid on
// error too.
func execute(
	ctx context.Context,
	tracer trace.Tracer,
	src Source,
	values url.Values,
) (logCtx context.Context, result *processor.Result, err error) {
	_, span := tracer.Start(ctx, SpanName, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	logCtx = ctx
	if sc := span.SpanContext(); sc.HasTraceID() {
		logCtx = observability.ContextWithTraceID(ctx, sc.TraceID().String())
	}

	span.SetAttributes(attribute.Int(AttrKeys, len(values)))

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrCompile, rec)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	proc := src.Processor()
	if proc == nil {
		return logCtx, nil, fmt.Errorf("%w: %w", ErrCompile, ErrNoProcessor)
	}

	result = proc.ExecValues(values)

	span.SetAttributes(
		attribute.Int(AttrFilterFields, len(result.Filter)),
		attribute.Bool(AttrSearch, result.Search()),
	)

	return logCtx, result, nil
}
