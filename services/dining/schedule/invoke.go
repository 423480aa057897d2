package schedule

import (
	"context"
	"log/slog"
	"umddining-backend/lib/telemetry"
	"umddining-backend/lib/timezone"
	"umddining-backend/services/dining/reconcile"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("umddining.services.dining.schedule")

type Runner interface {
	RunBatch(ctx context.Context, date string) (reconcile.BatchResult, error)
}

// Result is what a single scheduled (or manual) scrape reports.
type Result struct {
	Success      bool   `json:"success"`
	Date         string `json:"date"`
	ItemsScraped int    `json:"items_scraped"`
	Error        string `json:"error,omitempty"`
}

// Invoke runs one batch for date, today if date is empty. It never
// returns an error, failures are reported in the Result.
func Invoke(ctx context.Context, runner Runner, date string) Result {
	ctx, span := tracer.Start(ctx, "Invoke")
	defer span.End()

	batch, err := runner.RunBatch(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "scheduled scrape failed", "date", date, "err", err)
		if date == "" {
			date = timezone.Today()
		}
		return Result{
			Success: false,
			Date:    date,
			Error:   err.Error(),
		}
	}

	span.SetAttributes(
		attribute.String("date", batch.Date),
		attribute.Int("items_scraped", len(batch.Placements)),
	)
	for _, failure := range batch.Failures {
		slog.WarnContext(ctx, "dining hall failed during scheduled scrape", "dining_hall_id", failure.DiningHallID, "err", failure.Err)
	}
	return Result{
		Success:      true,
		Date:         batch.Date,
		ItemsScraped: len(batch.Placements),
	}
}
