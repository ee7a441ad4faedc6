package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gaitcli/internal/config"
	"gaitcli/internal/infrastructure"
	"gaitcli/pkg/contracts"
)

// Application holds what one CLI run shares: configuration, the logger and
// the telemetry providers with their instruments.
type Application struct {
	Name            string
	Config          *config.Config
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	PipelineMetrics *infrastructure.PipelineMetrics
	SystemMetrics   *infrastructure.SystemMetrics

	startedAt time.Time
}

// NewApplication initializes logging and telemetry for the named tool. A nil
// cfg is loaded with config.Load.
func NewApplication(name string, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = infrastructure.WithComponent(logger, name)

	logger.Info("Application starting",
		slog.String("tool", name),
		slog.String("version", contracts.Version),
		slog.String("commit", contracts.GitCommit))
	cfg.Paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	pipelineMetrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	systemMetrics, err := infrastructure.NewSystemMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}

	return &Application{
		Name:            name,
		Config:          cfg,
		Logger:          logger,
		OTelProviders:   providers,
		PipelineMetrics: pipelineMetrics,
		SystemMetrics:   systemMetrics,
		startedAt:       time.Now(),
	}, nil
}

// Context returns a context carrying a fresh run trace ID. It is cancelled
// on SIGINT or SIGTERM, or when stop is called.
func (a *Application) Context() (ctx context.Context, stop context.CancelFunc) {
	ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return infrastructure.ContextWithTraceID(ctx), stop
}

// WriteMetrics samples system metrics and writes every instrument to path
// in Prometheus text format.
func (a *Application) WriteMetrics(ctx context.Context, path string) error {
	a.SystemMetrics.Collect(ctx)
	if err := a.OTelProviders.WriteMetricsFile(path); err != nil {
		return err
	}
	a.Logger.InfoContext(ctx, "Metrics written", slog.String("path", path))
	return nil
}

// Stop logs resource usage and flushes telemetry.
func (a *Application) Stop(ctx context.Context) error {
	stats := a.SystemMetrics.Collect(ctx)
	a.Logger.InfoContext(ctx, "Application stopping",
		slog.Duration("uptime", time.Since(a.startedAt)),
		slog.Int64("heap_inuse_bytes", stats.HeapInUse),
		slog.Int64("total_alloc_bytes", stats.TotalAlloc),
		slog.Uint64("gc_count", uint64(stats.GCCount)))

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	return errors.Join(errs...)
}
