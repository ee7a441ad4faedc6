package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"gaitcli/internal/dataprocessing"
	apperrors "gaitcli/internal/errors"
	"gaitcli/internal/infrastructure"
	"gaitcli/internal/kinematics"
	"gaitcli/pkg/contracts/domain"
)

// Pipeline runs load, extract, compute and report for every trial of a
// source. Trials are independent; one failing never stops the others.
type Pipeline struct {
	source       TrialSource
	extractor    *dataprocessing.Extractor
	joints       []kinematics.Joint
	speedRef     string
	reporters    []Reporter
	workers      int
	trialTimeout time.Duration
	tracer       trace.Tracer
	metrics      *infrastructure.PipelineMetrics
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds how many trials run at once. Values below 1 use
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithTrialTimeout gives each trial a wall-clock budget for loading and
// computing its metrics. Reporting is not part of the budget. Zero disables it.
func WithTrialTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.trialTimeout = d }
}

// WithReporters appends reporters that receive every computed trial.
func WithReporters(r ...Reporter) Option {
	return func(p *Pipeline) { p.reporters = append(p.reporters, r...) }
}

// WithJoints replaces the default joint list.
func WithJoints(joints []kinematics.Joint) Option {
	return func(p *Pipeline) { p.joints = joints }
}

// WithSpeedReference sets the landmark used for walking speed.
func WithSpeedReference(landmark string) Option {
	return func(p *Pipeline) { p.speedRef = landmark }
}

// WithTracer records one span per trial.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithMetrics records per-trial counters and durations.
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger; the default is infrastructure.GetLogger().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline over source using the given marker table.
func New(source TrialSource, markers *dataprocessing.MarkerSet, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    source,
		extractor: dataprocessing.NewExtractor(markers),
		joints:    kinematics.DefaultJoints(),
		speedRef:  kinematics.SpeedReference,
		tracer:    tracenoop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	if p.logger == nil {
		p.logger = infrastructure.GetLogger()
	}
	p.logger = infrastructure.WithComponent(p.logger, "pipeline")
	return p
}

// Run processes every trial the source lists.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	trials, err := p.source.Trials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trials: %w", err)
	}
	return p.RunTrials(ctx, trials)
}

// RunTrials processes the named trials. Per-trial failures are recorded in
// the summary; the returned error is set only when ctx is cancelled or a
// reporter fails to finish.
func (p *Pipeline) RunTrials(ctx context.Context, trials []string) (*RunSummary, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	summary := &RunSummary{
		RunID:   infrastructure.GetTraceID(ctx),
		Results: make([]TrialResult, len(trials)),
	}
	start := time.Now()

	p.logger.InfoContext(ctx, "run_started",
		slog.Int("trial_count", len(trials)),
		slog.Int("workers", p.workers),
		slog.Duration("trial_timeout", p.trialTimeout))

	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, name := range trials {
		if err := ctx.Err(); err != nil {
			summary.Results[i] = TrialResult{Trial: name, Err: apperrors.WrapTrial(name, err)}
			continue
		}
		g.Go(func() error {
			summary.Results[i] = p.runTrial(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	summary.Duration = time.Since(start)
	summary.tally()

	var runErr error
	if err := ctx.Err(); err != nil {
		runErr = err
	} else {
		runErr = p.finish(ctx)
	}

	p.logger.InfoContext(ctx, "run_completed",
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Duration("duration", summary.Duration))

	return summary, runErr
}

func (p *Pipeline) finish(ctx context.Context) error {
	var errs []error
	for _, r := range p.reporters {
		if f, ok := r.(Finisher); ok {
			if err := f.Finish(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// runTrial handles one trial end to end under its span and time budget.
func (p *Pipeline) runTrial(ctx context.Context, name string) TrialResult {
	start := time.Now()
	p.metrics.TrialStarted(ctx)

	ctx, span := p.tracer.Start(ctx, "pipeline.trial",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("trial.name", name)))
	defer span.End()

	metrics, err := p.process(ctx, name)
	result := TrialResult{
		Trial:    name,
		Metrics:  metrics,
		Err:      apperrors.WrapTrial(name, err),
		Duration: time.Since(start),
	}
	p.metrics.TrialFinished(ctx, result.Duration, result.Err)

	if result.Err != nil {
		infrastructure.RecordError(ctx, result.Err)
		p.logger.WarnContext(ctx, "trial_failed",
			slog.String("trial", name),
			slog.String("error_type", string(apperrors.TypeOf(result.Err))),
			slog.String("error", result.Err.Error()),
			slog.Duration("duration", result.Duration))
		return result
	}

	span.SetAttributes(
		attribute.Int("trial.samples", len(metrics.Time)),
		attribute.Float64("trial.walking_speed", metrics.WalkingSpeed))
	p.logger.InfoContext(ctx, "trial_completed",
		slog.String("trial", name),
		slog.Int("samples", len(metrics.Time)),
		slog.Float64("walking_speed", metrics.WalkingSpeed),
		slog.Duration("duration", result.Duration))
	return result
}

// process computes the trial's metrics under the time budget and, when they
// arrive in time, hands them to every reporter. A trial that misses its
// budget never reaches the reporters.
func (p *Pipeline) process(ctx context.Context, name string) (*domain.GaitMetrics, error) {
	metrics, err := p.computeWithBudget(ctx, name)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, r := range p.reporters {
		if err := r.Report(ctx, metrics); err != nil {
			errs = append(errs, err)
		}
	}
	return metrics, errors.Join(errs...)
}

// computeWithBudget runs compute under the trial timeout. On expiry the
// trial is reported as Timeout and its late result is discarded.
func (p *Pipeline) computeWithBudget(ctx context.Context, name string) (*domain.GaitMetrics, error) {
	if p.trialTimeout <= 0 {
		return p.compute(ctx, name)
	}

	tctx, cancel := context.WithTimeout(ctx, p.trialTimeout)
	defer cancel()

	type outcome struct {
		metrics *domain.GaitMetrics
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		m, err := p.compute(tctx, name)
		done <- outcome{m, err}
	}()

	select {
	case o := <-done:
		if o.err != nil && errors.Is(o.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, p.timeoutError(o.err)
		}
		return o.metrics, o.err
	case <-tctx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, p.timeoutError(tctx.Err())
	}
}

func (p *Pipeline) timeoutError(cause error) error {
	return apperrors.NewTimeout(fmt.Sprintf("trial exceeded its %s budget", p.trialTimeout), cause)
}

// compute loads one trial and derives its metrics.
func (p *Pipeline) compute(ctx context.Context, name string) (*domain.GaitMetrics, error) {
	trial, err := p.source.LoadTrial(ctx, name)
	if err != nil {
		return nil, err
	}
	return p.ProcessTrial(ctx, trial)
}

// ProcessTrial extracts the trial's landmarks and computes the joint angle
// series, their summaries and the walking speed. It does no I/O.
func (p *Pipeline) ProcessTrial(ctx context.Context, trial *domain.Trial) (*domain.GaitMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trajectories, err := p.extractor.Extract(trial)
	if err != nil {
		return nil, err
	}

	metrics := &domain.GaitMetrics{
		Trial:     trial.Name,
		Time:      append([]float64(nil), trial.Time...),
		Angles:    make([]domain.AngleSeries, 0, len(p.joints)),
		Summaries: make([]domain.JointSummary, 0, len(p.joints)),
	}
	for _, joint := range p.joints {
		series, err := kinematics.ComputeJoint(trajectories, joint)
		if err != nil {
			return nil, err
		}
		metrics.Angles = append(metrics.Angles, series)
		metrics.Summaries = append(metrics.Summaries, kinematics.Summarize(series))
	}

	reference, ok := trajectories[p.speedRef]
	if !ok {
		return nil, apperrors.NewUnresolvedMarkerGroup(p.speedRef, nil).WithContext("metric", "walking_speed")
	}
	metrics.WalkingSpeed = kinematics.WalkingSpeed(reference, kinematics.ElapsedTime(trial.Time))

	return metrics, nil
}
