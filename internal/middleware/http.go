package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/vyrodovalexey/qproc/internal/observability"
)

// HTTP returns a net/http middleware that compiles the request query and
// stores the result in the request context. Read it with FromContext.
func HTTP(src Source, opts ...Option) func(http.Handler) http.Handler {
	o := newOptions(opts)
	tracer := o.tracerProvider.Tracer(TracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logCtx, result, err := execute(r.Context(), tracer, src, r.URL.Query())
			if err != nil {
				o.logger.WithContext(logCtx).Error("query compilation failed",
					observability.Error(err),
					observability.String("method", r.Method),
					observability.String("path", r.URL.Path),
				)

				if o.httpErrorHandler != nil {
					o.httpErrorHandler(w, r, err)
					return
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "Bad Request",
					"message": err.Error(),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithResult(r.Context(), result)))
		})
	}
}
