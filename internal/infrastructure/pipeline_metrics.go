package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "gaitcli/internal/errors"
)

// PipelineMetrics holds the per-trial instruments of a pipeline run
type PipelineMetrics struct {
	TrialsProcessed metric.Int64Counter
	TrialsFailed    metric.Int64Counter
	TrialDuration   metric.Float64Histogram
	ActiveTrials    metric.Int64UpDownCounter
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	processed, err := meter.Int64Counter(
		"gait_trials_processed_total",
		metric.WithDescription("Trials that went through the pipeline, by status"),
	)
	if err != nil {
		return nil, err
	}

	failed, err := meter.Int64Counter(
		"gait_trials_failed_total",
		metric.WithDescription("Trials that failed, by error type"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"gait_trial_duration_seconds",
		metric.WithDescription("Wall-clock time spent on one trial"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"gait_trials_active",
		metric.WithDescription("Trials currently being processed"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		TrialsProcessed: processed,
		TrialsFailed:    failed,
		TrialDuration:   duration,
		ActiveTrials:    active,
	}, nil
}

// TrialStarted marks a trial as in flight
func (m *PipelineMetrics) TrialStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.ActiveTrials.Add(ctx, 1)
}

// TrialFinished records the outcome of one trial
func (m *PipelineMetrics) TrialFinished(ctx context.Context, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.ActiveTrials.Add(ctx, -1)

	status := attribute.String("status", "success")
	if err != nil {
		status = attribute.String("status", "failure")
		m.TrialsFailed.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", errorType(err)),
		))
	}
	m.TrialsProcessed.Add(ctx, 1, metric.WithAttributes(status))
	m.TrialDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(status))
}

func errorType(err error) string {
	if t := apperrors.TypeOf(err); t != "" {
		return string(t)
	}
	return "UNKNOWN"
}
