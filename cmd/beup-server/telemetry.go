package main

import (
	"context"
	"log/slog"
	"university-results/internal/components/telemetry"
	libtelemetry "university-results/lib/telemetry"
	"university-results/lib/util/serviceutil"
)

// InitTelemetry sets up logging and exporting, the caller must Shutdown the
// result once it stops serving so buffered spans and metrics are flushed.
func InitTelemetry(ctx context.Context, verbose bool) libtelemetry.Telemetry {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	tel, err := libtelemetry.SetupFromEnv(ctx, "beup-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	libtelemetry.InstrumentPerfStats(ctx)
	return tel
}
