package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"
	"university-results/internal/components/telemetry"
	"university-results/internal/config"
	"university-results/internal/scrapers/beup"
	"university-results/internal/service"
	"university-results/lib/restyutil"
	"university-results/lib/util/serviceutil"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the json5 config file.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	err := run(ctx, *configPath, *verbose)
	if err != nil {
		slog.Error("serve", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, verbose bool) error {
	exporters := InitTelemetry(ctx, verbose)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := exporters.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("shutdown telemetry", "err", err)
		}
	}()

	cfg, err := config.Load(configPath, ".env")
	if err != nil {
		return err
	}

	clientOpts := cfg.ClientOptions()
	if verbose {
		output, err := restyutil.NewFilesystemOutput(".dev/resty/beup")
		if err != nil {
			return err
		}
		clientOpts.Output = output
	}

	tel := telemetry.SlogAPI{}
	client, err := beup.NewClient(clientOpts, tel)
	if err != nil {
		return err
	}
	svc := service.NewService(client, cfg.ServiceOptions(), tel)

	return serviceutil.StartHttpServer(
		ctx,
		cfg.Port,
		otelhttp.NewHandler(svc.Handler(), "beup-server"),
	)
}
