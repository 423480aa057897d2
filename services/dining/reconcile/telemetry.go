package reconcile

import (
	"umddining-backend/lib/telemetry"

	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("umddining.services.dining.reconcile")
var meter = telemetry.Meter("umddining.services.dining.reconcile")

var placementsScraped, _ = meter.Int64Counter(
	"placements_scraped",
	metric.WithDescription("placements extracted from menu pages"),
)
var hallFailures, _ = meter.Int64Counter(
	"hall_failures",
	metric.WithDescription("dining halls that could not be scraped in a batch"),
)
var nutritionFetches, _ = meter.Int64Counter(
	"nutrition_fetches",
	metric.WithDescription("label pages fetched for nutrition"),
)
var nutritionCacheHits, _ = meter.Int64Counter(
	"nutrition_cache_hits",
	metric.WithDescription("nutrition lookups answered from the store"),
)
