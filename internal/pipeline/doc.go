// Package pipeline runs gait analysis over every trial of a source.
//
// A run lists the trials, then loads, extracts, computes and reports each
// one on a bounded pool of workers. A failure stays with its trial: the
// RunSummary records it and the remaining trials carry on. Results keep the
// order the source listed them in, whatever order the workers finish.
//
// Reporters receive the GaitMetrics of every successful trial. Those that
// also implement Finisher are called once after the last trial, which is
// where run-level files such as the walking speed summary get written.
//
// Ingester is the first half of the tool chain: it loads trials from a
// workbook into a dataset, which the analysis run later reads back.
//
// Usage:
//
//	p := pipeline.New(ds, markers,
//	    pipeline.WithWorkers(cfg.Pipeline.Workers),
//	    pipeline.WithReporters(exporter.NewCSVReporter(dir, names)))
//	summary, err := p.Run(ctx)
package pipeline
