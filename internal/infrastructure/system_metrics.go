package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemMetrics records process resource usage, sampled once per run
type SystemMetrics struct {
	goRoutines    metric.Int64Gauge
	heapInUse     metric.Int64Gauge
	totalAlloc    metric.Int64Gauge
	gcCount       metric.Int64Gauge
	processUptime metric.Float64Gauge
	startTime     time.Time
}

// SystemStats holds the values recorded by the last Collect
type SystemStats struct {
	GoRoutines    int64
	HeapInUse     int64
	TotalAlloc    int64
	GCCount       uint32
	ProcessUptime time.Duration
}

// NewSystemMetrics creates the gauges on meter. Uptime is measured from now.
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	goRoutines, err := meter.Int64Gauge(
		"gait_system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapInUse, err := meter.Int64Gauge(
		"gait_system_heap_inuse_bytes",
		metric.WithDescription("Heap memory in use in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	totalAlloc, err := meter.Int64Gauge(
		"gait_system_total_alloc_bytes",
		metric.WithDescription("Cumulative bytes allocated by the Go runtime"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"gait_system_gc_count",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	processUptime, err := meter.Float64Gauge(
		"gait_system_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &SystemMetrics{
		goRoutines:    goRoutines,
		heapInUse:     heapInUse,
		totalAlloc:    totalAlloc,
		gcCount:       gcCount,
		processUptime: processUptime,
		startTime:     time.Now(),
	}, nil
}

// Collect reads runtime statistics and records them
func (sm *SystemMetrics) Collect(ctx context.Context) *SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := &SystemStats{
		GoRoutines:    int64(runtime.NumGoroutine()),
		HeapInUse:     int64(memStats.HeapInuse),
		TotalAlloc:    int64(memStats.TotalAlloc),
		GCCount:       memStats.NumGC,
		ProcessUptime: time.Since(sm.startTime),
	}

	sm.goRoutines.Record(ctx, stats.GoRoutines)
	sm.heapInUse.Record(ctx, stats.HeapInUse)
	sm.totalAlloc.Record(ctx, stats.TotalAlloc)
	sm.gcCount.Record(ctx, int64(stats.GCCount))
	sm.processUptime.Record(ctx, stats.ProcessUptime.Seconds())

	return stats
}
