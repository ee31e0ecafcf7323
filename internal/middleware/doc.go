// Package middleware provides HTTP adapters that compile the request query
// string with a processor and hand the result to downstream handlers.
//
// Gin and net/http are supported:
//
//	router.Use(middleware.RequestID(), middleware.Gin(holder))
//	router.GET("/items", func(c *gin.Context) {
//	    q, _ := middleware.FromGin(c)
//	    cursor, err := coll.Find(ctx, q.Filter, q.FindOptions())
//	})
//
//	handler := middleware.HTTP(proc)(mux)
//
// A panic raised while compiling, for example by a default generator, is
// converted to an error and passed to the configured error handler. Without
// one the request is aborted with 400 Bad Request.
package middleware
