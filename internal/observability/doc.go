// Package observability provides logging and tracing setup for qproc.
//
// # Logging
//
// The Logger interface wraps zap:
//
//	logger, err := observability.NewLogger(observability.LogConfig{Level: "info", Format: "json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("schema loaded",
//	    observability.String("path", path),
//	    observability.Int("fields", n),
//	)
//
// Library packages accept a Logger through options and fall back to
// NopLogger.
//
// # Tracing
//
// NewTracer installs an OpenTelemetry tracer provider with an optional OTLP
// gRPC exporter. Middleware obtains tracers through otel.Tracer, so spans are
// dropped when no provider has been installed.
package observability
