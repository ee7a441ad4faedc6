// Package exporter writes per-trial gait metrics to disk.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, appends
// and a UTF-8 BOM for Excel compatibility.
//
// CSVReporter: Writes <trial>_angles.csv for every reported trial and, once
// all trials are done, walking_speed.csv with one summary row per trial.
//
// ChartReporter: Renders <trial>_output.png with one angle curve per joint,
// using gonum/plot.
//
// Example usage:
//
//	csvReporter := exporter.NewCSVReporter("plots", []string{"knee_right", "knee_left"})
//	if err := csvReporter.Report(ctx, metrics); err != nil {
//	    return err
//	}
//	err := csvReporter.Finish(ctx)
//
//	charts := exporter.NewChartReporter("plots")
//	err = charts.Report(ctx, metrics)
package exporter
