package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/qproc/internal/config"
	"github.com/vyrodovalexey/qproc/internal/health"
	"github.com/vyrodovalexey/qproc/internal/middleware"
	"github.com/vyrodovalexey/qproc/internal/observability"
	"github.com/vyrodovalexey/qproc/internal/processor"
)

// application holds all server components.
type application struct {
	holder   *config.Holder
	watcher  *config.Watcher
	tracer   *observability.Tracer
	registry *prometheus.Registry
	server   *http.Server
}

// initApplication loads the schema, starts the watcher and builds the server.
func initApplication(ctx context.Context, flags cliFlags, logger observability.Logger) *application {
	tracer := initTracer(flags, logger)

	metrics := processor.GetMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)
	metrics.Init()

	procOpts := []processor.Option{
		processor.WithLogger(logger),
		processor.WithMetrics(metrics),
	}

	s, err := config.LoadSchema(flags.configPath)
	if err != nil {
		fatalWithSync(logger, "failed to load schema",
			observability.String("config", flags.configPath),
			observability.Error(err),
		)
	}
	holder := config.NewHolder(s, procOpts...)

	logger.Info("schema loaded",
		observability.String("config", flags.configPath),
		observability.Int("fields", len(s.Fields())),
		observability.Int("meta", len(s.MetaFields())),
	)

	watcher, err := config.NewWatcher(flags.configPath, holder.Update, config.WithLogger(logger))
	if err != nil {
		fatalWithSync(logger, "failed to create schema watcher", observability.Error(err))
	}
	if err := watcher.Start(ctx); err != nil {
		fatalWithSync(logger, "failed to start schema watcher", observability.Error(err))
	}

	checker := health.NewChecker(version)
	checker.RegisterCheck("schema", health.SchemaCheck(holder))

	router := newRouter(holder, checker, registry, logger, tracer.Provider())

	return &application{
		holder:   holder,
		watcher:  watcher,
		tracer:   tracer,
		registry: registry,
		server: &http.Server{
			Addr:              flags.listen,
			Handler:           router,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// initTracer initializes the tracer. Tracing is enabled only when an OTLP
// endpoint is configured.
func initTracer(flags cliFlags, logger observability.Logger) *observability.Tracer {
	tracer, err := observability.NewTracer(observability.TracerConfig{
		ServiceName:  "qproc",
		OTLPEndpoint: flags.otlpEndpoint,
		SamplingRate: 1.0,
		Enabled:      flags.otlpEndpoint != "",
	})
	if err != nil {
		fatalWithSync(logger, "failed to initialize tracer", observability.Error(err))
	}
	if tracer.Enabled() {
		logger.Info("tracing enabled", observability.String("endpoint", flags.otlpEndpoint))
	}
	return tracer
}

// newRouter builds the HTTP routes.
func newRouter(
	src middleware.Source,
	checker *health.Checker,
	registry *prometheus.Registry,
	logger observability.Logger,
	tp trace.TracerProvider,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())

	router.GET("/healthz", checker.HealthHandler())
	router.GET("/readyz", checker.ReadinessHandler())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/compile",
		middleware.Gin(src,
			middleware.WithLogger(logger),
			middleware.WithTracerProvider(tp),
		),
		func(c *gin.Context) {
			result, ok := middleware.FromGin(c)
			if !ok {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, result)
		},
	)

	return router
}
