package main

import (
	"context"
	"log/slog"
	"os"
	"time"
	"university-results/cmd/beup-cli/commands"
	"university-results/lib/telemetry"
)

func main() {
	ctx := context.Background()

	exporters, err := telemetry.SetupFromEnv(ctx, "beup-cli")
	if err != nil {
		slog.Warn("telemetry disabled", "err", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	shutdownErr := exporters.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		slog.Error("shutdown telemetry", "err", shutdownErr)
	}

	if err != nil {
		os.Exit(1)
	}
}
