// Package app bootstraps a gaitcli command.
//
// NewApplication turns a validated configuration into the process-wide
// logger, the OpenTelemetry providers and the pipeline and system
// instruments built on them. Commands take a signal-aware context from
// Context, do their work, optionally dump metrics with WriteMetrics, and
// call Stop before exiting.
package app
