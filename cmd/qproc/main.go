// Package main is the entry point for the qproc query compiler.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vyrodovalexey/qproc/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath   string
	query        string
	listen       string
	logLevel     string
	logFormat    string
	otlpEndpoint string
	showVersion  bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	if flags.query != "" {
		if err := runCompile(os.Stdout, flags.configPath, flags.query, logger); err != nil {
			fatalWithSync(logger, "failed to compile query", observability.Error(err))
		}
		return
	}

	runServer(flags, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("QPROC_CONFIG", "configs/schema.yaml"),
		"Path to schema file")
	query := flag.String("query", "",
		"Compile a raw query string, print the result and exit")
	listen := flag.String("listen", getEnvOrDefault("QPROC_LISTEN", ":8080"),
		"HTTP listen address")
	logLevel := flag.String("log-level", getEnvOrDefault("QPROC_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("QPROC_LOG_FORMAT", "json"),
		"Log format (json, console)")
	otlpEndpoint := flag.String("otlp-endpoint", getEnvOrDefault("QPROC_OTLP_ENDPOINT", ""),
		"OTLP gRPC endpoint; tracing is disabled when empty")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:   *configPath,
		query:        *query,
		listen:       *listen,
		logLevel:     *logLevel,
		logFormat:    *logFormat,
		otlpEndpoint: *otlpEndpoint,
		showVersion:  *showVersion,
	}
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("qproc version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	return logger
}

// fatalWithSync flushes the logger before exiting.
func fatalWithSync(logger observability.Logger, msg string, fields ...observability.Field) {
	_ = logger.Sync()
	logger.Fatal(msg, fields...)
}
