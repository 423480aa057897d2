package dining

import (
	"context"
	"database/sql"
	"time"
	configlibsql "umddining-backend/lib/configutil/libsql"
	"umddining-backend/lib/telemetry"
	"umddining-backend/services/dining/db"
	"umddining-backend/services/dining/fetcher"
	"umddining-backend/services/dining/halls"
	"umddining-backend/services/dining/reconcile"
	"umddining-backend/services/dining/store"
)

type ScraperConfig struct {
	BaseUrl           string  `json:"base_url"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Concurrency       int     `json:"concurrency"`
}

type ScheduleConfig struct {
	Enabled bool   `json:"enabled"`
	Cron    string `json:"cron"`
}

type HttpConfig struct {
	Port int `json:"port"`
	// seconds a scrape started over http may run, if unspecified, 600
	ScrapeTimeoutSeconds int `json:"scrape_timeout_seconds"`
}

type Config struct {
	Database configlibsql.Struct `json:"database"`
	Scraper  ScraperConfig       `json:"scraper"`
	Schedule ScheduleConfig      `json:"schedule"`
	Http     HttpConfig          `json:"http"`
	// exporters for traces and metrics, telemetry.json5 is used instead
	// when neither has an endpoint
	Telemetry telemetry.Config `json:"telemetry"`
	// if unspecified, halls.Default
	DiningHalls halls.Directory `json:"dining_halls"`
}

var DefaultConfig = Config{
	Database: configlibsql.Struct{File: "dining.db"},
	Scraper: ScraperConfig{
		BaseUrl:           fetcher.DefaultBaseUrl,
		TimeoutSeconds:    int(fetcher.DefaultTimeout / time.Second),
		RequestsPerSecond: fetcher.DefaultRequestsPerSecond,
		Concurrency:       1,
	},
	Schedule: ScheduleConfig{Cron: "0 6 * * *"},
	Http:     HttpConfig{Port: 8000, ScrapeTimeoutSeconds: 600},
}

// Service is everything a process needs to scrape and serve menus.
type Service struct {
	DB      *sql.DB
	Store   store.Store
	Fetcher *fetcher.Fetcher
	Engine  *reconcile.Engine
}

// Open connects to the configured database, makes sure the dining halls
// in the directory exist, and wires up the engine.
func Open(ctx context.Context, cfg Config) (Service, error) {
	database, err := cfg.Database.OpenDB(ctx, db.Schema)
	if err != nil {
		return Service{}, err
	}

	f, err := fetcher.New(fetcher.Options{
		BaseUrl:           cfg.Scraper.BaseUrl,
		Timeout:           time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Scraper.RequestsPerSecond,
	})
	if err != nil {
		database.Close()
		return Service{}, err
	}

	directory := cfg.DiningHalls.OrDefault()
	s := store.New(database)
	err = s.SeedHalls(ctx, directory)
	if err != nil {
		database.Close()
		return Service{}, err
	}

	return Service{
		DB:      database,
		Store:   s,
		Fetcher: f,
		Engine: reconcile.NewEngine(s, f, directory, reconcile.Options{
			Concurrency: cfg.Scraper.Concurrency,
		}),
	}, nil
}

func (s Service) Close() error {
	return s.DB.Close()
}
