package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"gaitcli/internal/dataset"
	apperrors "gaitcli/internal/errors"
	"gaitcli/internal/infrastructure"
	"gaitcli/pkg/contracts/domain"
)

// Ingester loads trials from a source into a dataset.
type Ingester struct {
	workers int
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewIngester creates an ingester running up to workers loads at once.
// Values below 1 use GOMAXPROCS.
func NewIngester(workers int, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Ingester {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Ingester{
		workers: workers,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "ingest"),
	}
}

// Ingest loads every trial the source lists and adds the ones that normalize
// to ds, in source order. Trials that fail are reported in the summary and
// left out of the dataset.
func (in *Ingester) Ingest(ctx context.Context, source TrialSource, ds *dataset.Dataset) (*RunSummary, error) {
	ctx = infrastructure.EnsureTraceID(ctx)

	trials, err := source.Trials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trials: %w", err)
	}

	summary := &RunSummary{
		RunID:   infrastructure.GetTraceID(ctx),
		Results: make([]TrialResult, len(trials)),
	}
	loaded := make([]*domain.Trial, len(trials))
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(in.workers)
	for i, name := range trials {
		g.Go(func() error {
			began := time.Now()
			in.metrics.TrialStarted(ctx)
			trial, err := source.LoadTrial(ctx, name)
			err = apperrors.WrapTrial(name, err)
			summary.Results[i] = TrialResult{Trial: name, Err: err, Duration: time.Since(began)}
			in.metrics.TrialFinished(ctx, summary.Results[i].Duration, err)

			if err != nil {
				in.logger.WarnContext(ctx, "trial_skipped",
					slog.String("trial", name),
					slog.String("error_type", string(apperrors.TypeOf(err))),
					slog.String("error", err.Error()))
				return nil
			}
			loaded[i] = trial
			in.logger.DebugContext(ctx, "trial_loaded",
				slog.String("trial", name),
				slog.Int("samples", trial.Len()),
				slog.Int("markers", len(trial.MarkerNames)))
			return nil
		})
	}
	_ = g.Wait()

	for _, trial := range loaded {
		if trial == nil {
			continue
		}
		if _, exists := ds.Entry(trial.Name); exists {
			in.logger.WarnContext(ctx, "trial_replaced", slog.String("trial", trial.Name))
		}
		ds.Add(trial)
	}

	summary.Duration = time.Since(start)
	summary.tally()

	in.logger.InfoContext(ctx, "ingest_completed",
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Duration("duration", summary.Duration))

	return summary, ctx.Err()
}
