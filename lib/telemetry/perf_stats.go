package telemetry

import (
	"context"
	"database/sql"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("go.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")
var dbOpenGauge, _ = meter.Int64Gauge("db_open_connections")
var dbInUseGauge, _ = meter.Int64Gauge("db_in_use_connections")
var dbWaitGauge, _ = meter.Int64Gauge("db_wait_count")

type PerfStatsOptions struct {
	// if unspecified, 30 seconds
	Interval time.Duration
	// connection pool stats are recorded when set
	DB *sql.DB
}

// PerfStats is a single sample of the process and its database pool.
type PerfStats struct {
	CpuPercent  float64
	AllocatedMb int64
	Goroutines  int64
	DBOpen      int64
	DBInUse     int64
	DBWaitCount int64

	hasCpu bool
	hasDB  bool
}

// SamplePerfStats reads the current stats, db may be nil.
func SamplePerfStats(ctx context.Context, db *sql.DB) PerfStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := PerfStats{
		AllocatedMb: int64(memStats.Alloc / 1_000_000),
		Goroutines:  int64(runtime.NumGoroutine()),
	}

	cpuUsage, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		slog.DebugContext(ctx, "failed to read cpu usage", "err", err)
	} else if len(cpuUsage) > 0 {
		stats.CpuPercent = cpuUsage[0]
		stats.hasCpu = true
	}

	if db != nil {
		dbStats := db.Stats()
		stats.DBOpen = int64(dbStats.OpenConnections)
		stats.DBInUse = int64(dbStats.InUse)
		stats.DBWaitCount = dbStats.WaitCount
		stats.hasDB = true
	}
	return stats
}

func (s PerfStats) record(ctx context.Context) {
	if s.hasCpu {
		cpuGauge.Record(ctx, s.CpuPercent)
	}
	memoryGauge.Record(ctx, s.AllocatedMb)
	goroutineGauge.Record(ctx, s.Goroutines)
	if s.hasDB {
		dbOpenGauge.Record(ctx, s.DBOpen)
		dbInUseGauge.Record(ctx, s.DBInUse)
		dbWaitGauge.Record(ctx, s.DBWaitCount)
	}
}

// InstrumentPerfStats records a sample every interval until ctx is
// cancelled.
func InstrumentPerfStats(ctx context.Context, opts PerfStatsOptions) {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				SamplePerfStats(ctx, opts.DB).record(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
