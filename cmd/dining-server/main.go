package main

import (
	"flag"
	"log/slog"
	"time"
	"umddining-backend/lib/configutil"
	"umddining-backend/lib/serviceutil"
	"umddining-backend/lib/telemetry"
	"umddining-backend/services/dining"
	"umddining-backend/services/dining/api"
	"umddining-backend/services/dining/schedule"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	initialScrape := flag.Bool("scrape", false, "Trigger scraping immediately on run.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(*verbose)

	cfg, err := configutil.ReadConfigWithDefaults("config.json5", dining.DefaultConfig)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	InitTelemetry(ctx, cfg.Telemetry, *verbose)

	service, err := dining.Open(ctx, cfg)
	if err != nil {
		serviceutil.Fatal("open dining service", err)
	}
	defer service.Close()

	telemetry.InstrumentPerfStats(ctx, telemetry.PerfStatsOptions{DB: service.DB})

	server := api.NewServer(service.Engine, service.Store, api.Options{
		ScrapeTimeout: time.Duration(cfg.Http.ScrapeTimeoutSeconds) * time.Second,
	})

	if *initialScrape {
		go func() {
			result := schedule.Invoke(ctx, service.Engine, "")
			slog.InfoContext(ctx, "initial scrape finished", "success", result.Success, "items_scraped", result.ItemsScraped)
		}()
	}

	if cfg.Schedule.Enabled {
		scheduler, err := schedule.NewScheduler(service.Engine, schedule.Options{
			Spec: cfg.Schedule.Cron,
		})
		if err != nil {
			serviceutil.Fatal("init scheduler", err)
		}
		go func() {
			err := scheduler.Run(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "scheduler stopped", "err", err)
			}
		}()
	}

	err = serviceutil.StartHttpServer(ctx, cfg.Http.Port, server.Handler())
	if err != nil {
		serviceutil.Fatal("serve http", err)
	}
}
