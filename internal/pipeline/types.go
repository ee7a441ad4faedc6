package pipeline

import (
	"context"
	"errors"
	"time"

	"gaitcli/pkg/contracts/domain"
)

// TrialSource lists trials and loads each one as a typed Trial.
// dataprocessing.WorkbookSource and dataset.Dataset implement it.
type TrialSource interface {
	Trials(ctx context.Context) ([]string, error)
	LoadTrial(ctx context.Context, name string) (*domain.Trial, error)
}

// Reporter consumes the metrics of one trial. Implementations must be safe
// for concurrent use; the pipeline calls Report from several workers.
type Reporter interface {
	Report(ctx context.Context, metrics *domain.GaitMetrics) error
}

// Finisher is implemented by reporters that write run-level output once
// every trial has been reported.
type Finisher interface {
	Finish(ctx context.Context) error
}

// TrialResult is the outcome of one trial. Metrics may be set even when Err
// is not nil, if computation succeeded and a reporter failed.
type TrialResult struct {
	Trial    string
	Metrics  *domain.GaitMetrics
	Err      error
	Duration time.Duration
}

// OK reports whether the trial went through without error.
func (r TrialResult) OK() bool {
	return r.Err == nil
}

// RunSummary collects the results of a run in input order.
type RunSummary struct {
	RunID     string
	Results   []TrialResult
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Failures returns the failed trials in input order.
func (s *RunSummary) Failures() []TrialResult {
	var out []TrialResult
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Err joins the errors of every failed trial, or returns nil.
func (s *RunSummary) Err() error {
	var errs []error
	for _, r := range s.Failures() {
		errs = append(errs, r.Err)
	}
	return errors.Join(errs...)
}

func (s *RunSummary) tally() {
	s.Succeeded, s.Failed = 0, 0
	for _, r := range s.Results {
		if r.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
}
