package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("university-results/perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// PerfSample is a single reading of host and runtime stats.
type PerfSample struct {
	CpuPercent  float64
	AllocatedMb int64
	LiveObjects int64
	Goroutines  int64
}

// SamplePerfStats measures cpu usage over `window` and reads the runtime's
// memory stats.
func SamplePerfStats(ctx context.Context, window time.Duration) (PerfSample, error) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sample := PerfSample{
		AllocatedMb: int64(memStats.Alloc / 1_000_000),
		LiveObjects: int64(memStats.Mallocs) - int64(memStats.Frees),
		Goroutines:  int64(runtime.NumGoroutine()),
	}

	cpuUsage, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return sample, err
	}
	if len(cpuUsage) > 0 {
		sample.CpuPercent = cpuUsage[0]
	}
	return sample, nil
}

// InstrumentPerfStats records a PerfSample to the global meter every 30
// seconds until ctx is done.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second * 30)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sample, err := SamplePerfStats(ctx, time.Minute)
				if err != nil {
					slog.WarnContext(ctx, "failed to read cpu usage", "err", err)
				} else {
					cpuGauge.Record(ctx, sample.CpuPercent)
				}
				memoryGauge.Record(ctx, sample.AllocatedMb)
				liveObjectsGauge.Record(ctx, sample.LiveObjects)
				goroutineGauge.Record(ctx, sample.Goroutines)
			case <-ctx.Done():
				return
			}
		}
	}()
}
