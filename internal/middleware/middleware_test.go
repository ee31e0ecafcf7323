package middleware

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vyrodovalexey/qproc/internal/processor"
	"github.com/vyrodovalexey/qproc/internal/schema"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestProcessor(t *testing.T, opts ...schema.FieldOption) *processor.Processor {
	t.Helper()

	s, err := schema.NewBuilder().
		Field("name", schema.String).
		Field("age", schema.Int, opts...).
		Build()
	require.NoError(t, err)
	return processor.New(s)
}

func newPanickingProcessor(t *testing.T) *processor.Processor {
	t.Helper()
	return newTestProcessor(t, schema.DefaultFunc(func() interface{} {
		panic("generator failed")
	}))
}

func setupTracingTest() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return tp, recorder
}

func attributeValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

type nilSource struct{}

func (nilSource) Processor() *processor.Processor { return nil }
