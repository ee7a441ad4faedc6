package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gaitcli/internal/app"
	"gaitcli/internal/config"
	"gaitcli/internal/dataset"
	apperrors "gaitcli/internal/errors"
	"gaitcli/internal/exporter"
	"gaitcli/internal/kinematics"
	"gaitcli/internal/pipeline"
	"gaitcli/internal/validation"
	"gaitcli/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, analyzes every trial of the dataset and returns the
// process exit code: 0 when all trials succeed, 1 when any fails.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "dataset file to analyze (defaults to paths.dataset_file)")
	out := fs.String("out", "", "directory for charts and CSV files (defaults to paths.output_dir)")
	workers := fs.Int("workers", 0, "trials processed in parallel (defaults to pipeline.workers)")
	timeout := fs.Duration("trial-timeout", -1, "time budget per trial, 0 for none (defaults to pipeline.trial_timeout)")
	charts := fs.Bool("charts", true, "render <trial>_output.png angle charts")
	csvOut := fs.Bool("csv", true, "write <trial>_angles.csv and walking_speed.csv")
	metricsFile := fs.String("metrics-file", "", "write run metrics in Prometheus text format to this file")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString("analyze"))
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "analyze: %v\n", err)
		return 1
	}

	// Explicit flags override the configuration.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "charts":
			cfg.Pipeline.Charts = *charts
		case "csv":
			cfg.Pipeline.CSV = *csvOut
		}
	})
	if *in != "" {
		cfg.Paths.DatasetFile = *in
	}
	if *out != "" {
		cfg.Paths.OutputDir = *out
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if *timeout >= 0 {
		cfg.Pipeline.TrialTimeout = *timeout
	}
	if *metricsFile != "" {
		cfg.Telemetry.MetricsFile = *metricsFile
	}

	application, err := app.NewApplication("analyze", cfg)
	if err != nil {
		fmt.Fprintf(stderr, "analyze: %v\n", err)
		return 1
	}
	defer application.Stop(context.Background())

	ctx, stop := application.Context()
	defer stop()

	summary, err := analyze(ctx, application)
	if summary != nil {
		printSummary(stdout, summary)
	}
	if err != nil {
		application.Logger.ErrorContext(ctx, "Analysis failed",
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "analyze: %v\n", err)
		return 1
	}

	if path := cfg.Telemetry.MetricsFile; path != "" {
		if err := application.WriteMetrics(ctx, path); err != nil {
			fmt.Fprintf(stderr, "analyze: %v\n", err)
			return 1
		}
	}

	if summary.Failed > 0 {
		return 1
	}
	return 0
}

// analyze runs the pipeline over the configured dataset.
func analyze(ctx context.Context, a *app.Application) (*pipeline.RunSummary, error) {
	cfg := a.Config

	markers, err := cfg.MarkerSet()
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Load(cfg.Paths.DatasetFile)
	if err != nil {
		return nil, err
	}
	ds.RequireMonotonicTime = cfg.Layout.RequireMonotonicTime

	if err := validation.NewFileValidator(a.Logger).ValidateOutputDirectory(cfg.Paths.OutputDir); err != nil {
		return nil, err
	}

	joints := kinematics.DefaultJoints()
	opts := []pipeline.Option{
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithTrialTimeout(cfg.Pipeline.TrialTimeout),
		pipeline.WithJoints(joints),
		pipeline.WithTracer(a.OTelProviders.Tracer),
		pipeline.WithMetrics(a.PipelineMetrics),
		pipeline.WithLogger(a.Logger),
	}
	if cfg.Pipeline.CSV {
		names := make([]string, len(joints))
		for i, j := range joints {
			names[i] = j.Name
		}
		opts = append(opts, pipeline.WithReporters(exporter.NewCSVReporter(cfg.Paths.OutputDir, names)))
	}
	if cfg.Pipeline.Charts {
		opts = append(opts, pipeline.WithReporters(exporter.NewChartReporter(cfg.Paths.OutputDir)))
	}

	a.Logger.InfoContext(ctx, "Analyzing dataset",
		slog.String("dataset", cfg.Paths.DatasetFile),
		slog.Int("trials", ds.Len()),
		slog.String("output_dir", cfg.Paths.OutputDir),
		slog.Bool("charts", cfg.Pipeline.Charts),
		slog.Bool("csv", cfg.Pipeline.CSV))

	return pipeline.New(ds, markers, opts...).Run(ctx)
}

// printSummary writes one line per trial and a total to w.
func printSummary(w io.Writer, summary *pipeline.RunSummary) {
	for _, r := range summary.Results {
		if r.OK() {
			fmt.Fprintf(w, "%-24s ok      speed=%.4f\n", r.Trial, r.Metrics.WalkingSpeed)
			continue
		}
		fmt.Fprintf(w, "%-24s failed  %v\n", r.Trial, r.Err)
	}
	fmt.Fprintf(w, "%d succeeded, %d failed in %s\n", summary.Succeeded, summary.Failed, summary.Duration.Round(time.Millisecond))
}
