package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gaitcli/internal/app"
	"gaitcli/internal/config"
	"gaitcli/internal/dataprocessing"
	"gaitcli/internal/dataset"
	apperrors "gaitcli/internal/errors"
	"gaitcli/internal/files"
	"gaitcli/internal/pipeline"
	"gaitcli/internal/validation"
	"gaitcli/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, ingests every workbook into the dataset file and returns
// the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "workbook (.xlsx) or directory of workbooks to ingest")
	out := fs.String("out", "", "dataset file to write (defaults to paths.dataset_file)")
	workers := fs.Int("workers", 0, "trials normalized in parallel (defaults to pipeline.workers)")
	appendMode := fs.Bool("append", false, "add trials to an existing dataset instead of replacing it")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString("ingest"))
		return 0
	}
	if *in == "" {
		fmt.Fprintln(stderr, "ingest: -in is required")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "ingest: %v\n", err)
		return 1
	}
	if *out != "" {
		cfg.Paths.DatasetFile = *out
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}

	application, err := app.NewApplication("ingest", cfg)
	if err != nil {
		fmt.Fprintf(stderr, "ingest: %v\n", err)
		return 1
	}
	defer application.Stop(context.Background())

	ctx, stop := application.Context()
	defer stop()

	ingested, failed, err := ingest(ctx, application, *in, *appendMode)
	if err != nil {
		application.Logger.ErrorContext(ctx, "Ingest failed",
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "ingest: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "ingested %d trials into %s (%d failed)\n", ingested, cfg.Paths.DatasetFile, failed)
	return 0
}

// ingest loads the workbooks found at input into a dataset and saves it. It
// returns how many trials this run added and how many failed. When no trial
// loads the dataset file is left untouched.
func ingest(ctx context.Context, a *app.Application, input string, appendMode bool) (int, int, error) {
	cfg := a.Config

	workbooks, err := files.NewDiscovery("").ResolveInputs(input)
	if err != nil {
		return 0, 0, err
	}

	validator := validation.NewFileValidator(a.Logger)
	for _, wb := range workbooks {
		if err := validator.ValidateWorkbook(wb.Path); err != nil {
			return 0, 0, err
		}
	}
	if err := validator.ValidateOutputDirectory(filepath.Dir(cfg.Paths.DatasetFile)); err != nil {
		return 0, 0, err
	}

	ds := dataset.New()
	if appendMode && config.FileExists(cfg.Paths.DatasetFile) {
		if ds, err = dataset.Load(cfg.Paths.DatasetFile); err != nil {
			return 0, 0, err
		}
		a.Logger.InfoContext(ctx, "Appending to dataset",
			slog.String("path", cfg.Paths.DatasetFile),
			slog.Int("existing_trials", ds.Len()))
	}
	ds.RequireMonotonicTime = cfg.Layout.RequireMonotonicTime

	normalizer := dataprocessing.NewNormalizer(cfg.Layout)
	ingester := pipeline.NewIngester(cfg.Pipeline.Workers, a.PipelineMetrics, a.Logger)

	added, failed := 0, 0
	for _, wb := range workbooks {
		summary, err := ingestWorkbook(ctx, ingester, normalizer, wb.Path, ds)
		if err != nil {
			return 0, 0, err
		}
		added += summary.Succeeded
		failed += summary.Failed
	}
	if added == 0 {
		return 0, failed, apperrors.NewSourceUnavailable(input, nil).
			WithContext("reason", "no trial could be loaded").
			WithContext("failed_trials", failed)
	}

	if err := ds.Save(cfg.Paths.DatasetFile); err != nil {
		return 0, 0, err
	}
	a.Logger.InfoContext(ctx, "Dataset saved",
		slog.String("path", cfg.Paths.DatasetFile),
		slog.Int("trials", ds.Len()),
		slog.Int("added", added),
		slog.Int("workbooks", len(workbooks)))
	return added, failed, nil
}

// ingestWorkbook adds the trials of one workbook to ds.
func ingestWorkbook(ctx context.Context, ingester *pipeline.Ingester, normalizer *dataprocessing.Normalizer, path string, ds *dataset.Dataset) (*pipeline.RunSummary, error) {
	reader, err := dataprocessing.OpenExcel(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	summary, err := ingester.Ingest(ctx, dataprocessing.NewWorkbookSource(reader, normalizer), ds)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", path, err)
	}
	return summary, nil
}
