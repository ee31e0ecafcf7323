package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/qproc/internal/observability"
	"github.com/vyrodovalexey/qproc/internal/processor"
)

// Gin returns a middleware that compiles the request query and stores the
// result in the gin context and the request context.
func Gin(src Source, opts ...Option) gin.HandlerFunc {
	o := newOptions(opts)
	tracer := o.tracerProvider.Tracer(TracerName)

	return func(c *gin.Context) {
		logCtx, result, err := execute(c.Request.Context(), tracer, src, c.Request.URL.Query())
		if err != nil {
			o.logger.WithContext(logCtx).Error("query compilation failed",
				observability.Error(err),
				observability.String("method", c.Request.Method),
				observability.String("path", c.Request.URL.Path),
			)

			if o.errorHandler != nil {
				o.errorHandler(c, err)
				return
			}

			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": err.Error(),
			})
			return
		}

		c.Set(o.contextKey, result)
		c.Request = c.Request.WithContext(ContextWithResult(c.Request.Context(), result))

		c.Next()
	}
}

// FromGin returns the result stored by the gin adapter.
func FromGin(c *gin.Context) (*processor.Result, bool) {
	if c.Request != nil {
		if r, ok := FromContext(c.Request.Context()); ok {
			return r, true
		}
	}
	if v, exists := c.Get(DefaultContextKey); exists {
		r, ok := v.(*processor.Result)
		return r, ok
	}
	return nil, false
}
