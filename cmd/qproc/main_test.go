package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vyrodovalexey/qproc/internal/config"
	"github.com/vyrodovalexey/qproc/internal/health"
	"github.com/vyrodovalexey/qproc/internal/observability"
	"github.com/vyrodovalexey/qproc/internal/processor"
	"github.com/vyrodovalexey/qproc/internal/schema"
	"github.com/vyrodovalexey/qproc/internal/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSchemaYAML = `
fields:
  name: String
  age: Int
meta:
  pretty: Boolean
`

func newTestProcessor(t *testing.T) *processor.Processor {
	t.Helper()

	s, err := schema.NewBuilder().
		Field("name", schema.String).
		Field("age", schema.Int).
		Meta("pretty", schema.Boolean).
		Build()
	require.NoError(t, err)
	return processor.New(s)
}

func decode(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		setEnv       bool
		expected     string
	}{
		{
			name:         "returns default when env not set",
			key:          "QPROC_TEST_NOTSET",
			defaultValue: "default-value",
			expected:     "default-value",
		},
		{
			name:         "returns env value when set",
			key:          "QPROC_TEST_SET",
			defaultValue: "default-value",
			envValue:     "env-value",
			setEnv:       true,
			expected:     "env-value",
		},
		{
			name:         "returns default when env is empty string",
			key:          "QPROC_TEST_EMPTY",
			defaultValue: "default-value",
			envValue:     "",
			setEnv:       true,
			expected:     "default-value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.expected, getEnvOrDefault(tt.key, tt.defaultValue))
		})
	}
}

func TestCompileQuery(t *testing.T) {
	t.Parallel()

	p := newTestProcessor(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "with leading question mark", query: "?age=gt:30&sort=desc:age&limit=5&pretty=1"},
		{name: "without leading question mark", query: "age=gt:30&sort=desc:age&limit=5&pretty=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := compileQuery(p, tt.query)
			require.NoError(t, err)
			assert.Contains(t, string(data), "\n  \"filter\"")

			out := decode(t, data)
			assert.Equal(t, map[string]interface{}{
				"age": map[string]interface{}{"$gt": float64(30)},
			}, out["filter"])
			assert.Equal(t, map[string]interface{}{"age": float64(-1)}, out["sort"])
			assert.Equal(t, float64(5), out["limit"])
			assert.Equal(t, float64(0), out["skip"])
			assert.Equal(t, map[string]interface{}{"pretty": true}, out["meta"])
		})
	}
}

func TestCompileQuery_InvalidQueryString(t *testing.T) {
	t.Parallel()

	_, err := compileQuery(newTestProcessor(t), "age=%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query string")
}

func TestRunCompile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSchemaYAML), 0o600))

	var out bytes.Buffer
	err := runCompile(&out, path, "name=bob", observability.NopLogger())
	require.NoError(t, err)

	result := decode(t, out.Bytes())
	assert.Equal(t, map[string]interface{}{
		"name": map[string]interface{}{"$eq": "bob"},
	}, result["filter"])
}

func TestRunCompile_MissingSchema(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runCompile(&out, filepath.Join(t.TempDir(), "missing.yaml"), "name=bob", observability.NopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
	assert.Empty(t, out.String())
}

func TestRunCompile_InvalidSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields:\n  age: Decimal\n"), 0o600))

	var out bytes.Buffer
	err := runCompile(&out, path, "age=1", observability.NopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema")
	assert.ErrorIs(t, err, util.ErrUnknownType)
	assert.Empty(t, out.String())
}

func TestBundledSchema(t *testing.T) {
	t.Parallel()

	s, err := config.LoadSchema(filepath.Join("..", "..", "configs", "schema.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "q", s.Keys().Search)
	assert.Len(t, s.FieldDefaults(), 2)
	assert.False(t, s.IsProjectable("email"))
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	s, err := schema.NewBuilder().
		Field("name", schema.String).
		Field("age", schema.Int).
		Build()
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	processor.GetMetrics().MustRegister(registry)

	holder := config.NewHolder(s, processor.WithMetrics(processor.GetMetrics()))
	checker := health.NewChecker("test")
	checker.RegisterCheck("schema", health.SchemaCheck(holder))
	return newRouter(holder, checker, registry, observability.NopLogger(), noop.NewTracerProvider())
}

func TestRouter(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	t.Run("compile", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/compile?name=bob&skip=-3", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

		out := decode(t, w.Body.Bytes())
		assert.Equal(t, map[string]interface{}{
			"name": map[string]interface{}{"$eq": "bob"},
		}, out["filter"])
		assert.Equal(t, float64(3), out["skip"])
	})

	t.Run("healthz", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", decode(t, w.Body.Bytes())["status"])
	})

	t.Run("readyz", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, w.Code)
		out := decode(t, w.Body.Bytes())
		assert.Equal(t, "healthy", out["status"])
		assert.Contains(t, out["checks"], "schema")
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/compile?age=7", nil))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "qproc_processor_exec_total")
	})
}

func TestShutdown_Partial(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		shutdown(t.Context(), &application{}, observability.NopLogger())
	})
}
