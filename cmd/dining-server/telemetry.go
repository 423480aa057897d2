package main

import (
	"context"
	"log/slog"
	"umddining-backend/lib/restyutil"
	"umddining-backend/lib/serviceutil"
	"umddining-backend/lib/telemetry"
	"umddining-backend/services/dining/fetcher"
)

// keep the dumps of roughly one full batch with its label pages
const restyDumpsKept = 500

func InitTelemetry(ctx context.Context, config telemetry.Config, verbose bool) {
	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	var tel telemetry.Telemetry
	var err error
	if config.Enabled() {
		tel, err = telemetry.Setup(ctx, "dining-server", config)
	} else {
		tel, err = telemetry.SetupFromEnv(ctx, "dining-server")
	}
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	}()

	if !verbose {
		return
	}

	output, err := restyutil.NewFilesystemOutput(".dev/resty/dining", restyDumpsKept)
	if err != nil {
		serviceutil.Fatal("create http dump directory", err)
	}
	fetcher.SetRestyInstrumentOutput(output)
}
