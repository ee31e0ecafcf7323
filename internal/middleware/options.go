package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/qproc/internal/observability"
	"github.com/vyrodovalexey/qproc/internal/processor"
)

const (
	// DefaultContextKey is the gin context key the result is stored under.
	DefaultContextKey = "qproc"
	// TracerName is the name of the tracer.
	TracerName = "qproc"
)

// Source supplies the processor for a request. *processor.Processor and
// *config.Holder implement it.
type Source interface {
	Processor() *processor.Processor
}

// ErrorHandler handles a compile error in the gin adapter.
type ErrorHandler func(c *gin.Context, err error)

// HTTPErrorHandler handles a compile error in the net/http adapter.
type HTTPErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type options struct {
	contextKey       string
	errorHandler     ErrorHandler
	httpErrorHandler HTTPErrorHandler
	logger           observability.Logger
	tracerProvider   trace.TracerProvider
}

// Option is a functional option for configuring the adapters.
type Option func(*options)

// WithContextKey sets the gin context key for the result.
func WithContextKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.contextKey = key
		}
	}
}

// WithErrorHandler sets the gin error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(o *options) {
		o.errorHandler = handler
	}
}

// WithHTTPErrorHandler sets the net/http error handler.
func WithHTTPErrorHandler(handler HTTPErrorHandler) Option {
	return func(o *options) {
		o.httpErrorHandler = handler
	}
}

// WithLogger sets the logger. Entries carry the request and trace ids of the
// request context.
func WithLogger(logger observability.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracerProvider sets the tracer provider. The global provider is used
// by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		contextKey: DefaultContextKey,
		logger:     observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	return o
}
