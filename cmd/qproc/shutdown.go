package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/qproc/internal/observability"
)

// runServer serves the compile endpoint until a shutdown signal arrives.
func runServer(flags cliFlags, logger observability.Logger) {
	gin.SetMode(gin.ReleaseMode)

	logger.Info("starting qproc",
		observability.String("version", version),
		observability.String("config", flags.configPath),
		observability.String("address", flags.listen),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := initApplication(ctx, flags, logger)

	go func() {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatalWithSync(logger, "server error", observability.Error(err))
		}
	}()

	waitForShutdown(app, logger)
}

// waitForShutdown waits for a shutdown signal and performs graceful shutdown.
func waitForShutdown(app *application, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdown(shutdownCtx, app, logger)

	logger.Info("qproc stopped")
}

// shutdown stops the watcher, the server and the tracer in that order.
func shutdown(ctx context.Context, app *application, logger observability.Logger) {
	if app.watcher != nil {
		if err := app.watcher.Stop(); err != nil {
			logger.Error("failed to stop schema watcher", observability.Error(err))
		}
	}

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			logger.Error("failed to stop server gracefully", observability.Error(err))
		}
	}

	if app.tracer != nil {
		if err := app.tracer.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown tracer", observability.Error(err))
		}
	}
}
