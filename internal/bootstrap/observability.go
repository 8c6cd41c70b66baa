package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/icyphotoget/perfume/internal/config"
	"github.com/icyphotoget/perfume/internal/observability/logging"
	"github.com/icyphotoget/perfume/internal/observability/tracing"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// SetupLogging installs the zerolog-backed slog logger as the default.
func SetupLogging(cfg config.Config, output io.Writer) *slog.Logger {
	logger := logging.New(logging.Options{
		Service: cfg.ServiceName,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  output,
	})
	slog.SetDefault(logger)
	return logger
}

func SetupTracing(ctx context.Context, cfg config.Config) (tracing.ShutdownFunc, error) {
	return tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		ServiceName: cfg.ServiceName,
		Version:     Version,
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.TracingEndpoint,
		Insecure:    cfg.TracingInsecure,
		SampleRatio: cfg.TracingSampleRatio,
	})
}
