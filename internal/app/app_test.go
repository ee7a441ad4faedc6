package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaitcli/internal/config"
	apperrors "gaitcli/internal/errors"
	"gaitcli/internal/infrastructure"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Level = "error"
	return cfg
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	a, err := NewApplication("test", cfg)
	require.NoError(t, err)
	return a
}

func TestNewApplication(t *testing.T) {
	a := newTestApplication(t, testConfig(t))

	assert.Equal(t, "test", a.Name)
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.PipelineMetrics)
	assert.NotNil(t, a.SystemMetrics)
	assert.NotNil(t, a.OTelProviders.Registry)
	assert.NoError(t, a.Stop(context.Background()))
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.Workers = 0

	infrastructure.ResetLoggerForTesting()
	_, err := NewApplication("test", cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestContext_CarriesTraceID(t *testing.T) {
	a := newTestApplication(t, testConfig(t))
	defer a.Stop(context.Background())

	ctx, stop := a.Context()
	defer stop()

	assert.NotEmpty(t, infrastructure.GetTraceID(ctx))
	assert.NoError(t, ctx.Err())
	stop()
	assert.Error(t, ctx.Err())
}

func TestWriteMetrics(t *testing.T) {
	a := newTestApplication(t, testConfig(t))
	defer a.Stop(context.Background())

	ctx := context.Background()
	a.PipelineMetrics.TrialStarted(ctx)
	a.PipelineMetrics.TrialFinished(ctx, 0, nil)

	path := filepath.Join(t.TempDir(), "gait.prom")
	require.NoError(t, a.WriteMetrics(ctx, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gait_trials_processed_total")
	assert.Contains(t, string(data), "gait_system_goroutines")
}

func TestWriteMetrics_ExporterDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.MetricsExporter = "none"
	a := newTestApplication(t, cfg)
	defer a.Stop(context.Background())

	err := a.WriteMetrics(context.Background(), filepath.Join(t.TempDir(), "gait.prom"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfig))
}
