package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/qproc/internal/processor"
	"github.com/vyrodovalexey/qproc/internal/schema"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticSource struct {
	p *processor.Processor
}

func (s staticSource) Processor() *processor.Processor { return s.p }

func newSource(t *testing.T, b *schema.Builder) staticSource {
	t.Helper()

	s, err := b.Build()
	require.NoError(t, err)
	return staticSource{p: processor.New(s)}
}

func TestChecker_Health(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.0.0")
	start := checker.startTime
	checker.now = func() time.Time { return start.Add(90 * time.Second) }

	response := checker.Health()

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Equal(t, "1m30s", response.Uptime)
	assert.Equal(t, start.Add(90*time.Second), response.Timestamp)
}

func TestChecker_Readiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checks   map[string]Status
		expected Status
	}{
		{name: "no checks", checks: nil, expected: StatusHealthy},
		{name: "all healthy", checks: map[string]Status{"a": StatusHealthy, "b": StatusHealthy}, expected: StatusHealthy},
		{name: "one degraded", checks: map[string]Status{"a": StatusHealthy, "b": StatusDegraded}, expected: StatusDegraded},
		{name: "unhealthy wins", checks: map[string]Status{"a": StatusDegraded, "b": StatusUnhealthy}, expected: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewChecker("test")
			for name, status := range tt.checks {
				checker.RegisterCheck(name, func() Check { return Check{Status: status} })
			}

			response := checker.Readiness()
			assert.Equal(t, tt.expected, response.Status)
			assert.Len(t, response.Checks, len(tt.checks))
		})
	}
}

func TestChecker_RegisterCheckReplaces(t *testing.T) {
	t.Parallel()

	checker := NewChecker("test")
	checker.RegisterCheck("schema", func() Check { return Check{Status: StatusUnhealthy} })
	checker.RegisterCheck("schema", func() Check { return Check{Status: StatusHealthy} })
	checker.RegisterCheck("alpha", func() Check { return Check{Status: StatusHealthy} })

	assert.Equal(t, []string{"alpha", "schema"}, checker.Checks())
	assert.Equal(t, StatusHealthy, checker.Readiness().Status)
}

func TestHandlers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       Status
		expectedCode int
	}{
		{name: "ready", status: StatusHealthy, expectedCode: http.StatusOK},
		{name: "degraded is still ready", status: StatusDegraded, expectedCode: http.StatusOK},
		{name: "not ready", status: StatusUnhealthy, expectedCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewChecker("test")
			checker.RegisterCheck("schema", func() Check { return Check{Status: tt.status, Message: "m"} })

			router := gin.New()
			router.GET("/healthz", checker.HealthHandler())
			router.GET("/readyz", checker.ReadinessHandler())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, http.StatusOK, w.Code)

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.expectedCode, w.Code)

			var response ReadinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.status, response.Status)
			assert.Equal(t, Check{Status: tt.status, Message: "m"}, response.Checks["schema"])
		})
	}
}

func TestSchemaCheck(t *testing.T) {
	t.Parallel()

	t.Run("nil source", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, StatusUnhealthy, SchemaCheck(nil)().Status)
	})

	t.Run("no processor", func(t *testing.T) {
		t.Parallel()
		check := SchemaCheck(staticSource{})()
		assert.Equal(t, Check{Status: StatusUnhealthy, Message: "no schema loaded"}, check)
	})

	t.Run("empty schema", func(t *testing.T) {
		t.Parallel()
		check := SchemaCheck(newSource(t, schema.NewBuilder()))()
		assert.Equal(t, StatusDegraded, check.Status)
	})

	t.Run("loaded", func(t *testing.T) {
		t.Parallel()
		src := newSource(t, schema.NewBuilder().
			Field("name", schema.String).
			Field("age", schema.Int).
			Meta("pretty", schema.Boolean))
		check := SchemaCheck(src)()
		assert.Equal(t, Check{Status: StatusHealthy, Message: "2 fields, 1 meta"}, check)
	})
}
