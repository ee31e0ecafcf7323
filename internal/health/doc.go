// Package health provides liveness and readiness endpoints for the qproc
// server. Readiness aggregates registered checks; the server registers one
// that reports whether a compiled schema is being served.
package health
