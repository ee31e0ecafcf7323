package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vyrodovalexey/qproc/internal/observability"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		existingRequestID string
	}{
		{name: "generates new request ID", existingRequestID: ""},
		{name: "uses existing request ID", existingRequestID: "existing-request-id-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var fromCtx string
			router := gin.New()
			router.Use(RequestID())
			router.GET("/", func(c *gin.Context) {
				fromCtx = observability.RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.existingRequestID != "" {
				req.Header.Set(RequestIDHeader, tt.existingRequestID)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			header := rec.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, header)
			assert.Equal(t, header, fromCtx)

			if tt.existingRequestID != "" {
				assert.Equal(t, tt.existingRequestID, header)
			} else {
				_, err := uuid.Parse(header)
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestIDHandler(t *testing.T) {
	t.Parallel()

	var captured string
	handler := RequestIDHandler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = observability.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, rec.Header().Get(RequestIDHeader))
}
