package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"umddining-backend/lib/timezone"
	"umddining-backend/services/dining/extract"
	"umddining-backend/services/dining/halls"
	"umddining-backend/services/dining/store"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned when a food is neither stored nor available
// upstream.
var ErrNotFound = store.ErrNotFound

// ErrPastDate is returned by RunBatch for dates before today, placements
// of past days are never kept.
var ErrPastDate = errors.New("date is before today")

// DefaultLookupTimeout bounds a nutrition lookup shared by concurrent
// callers.
const DefaultLookupTimeout = time.Minute

// Store is the persistence the engine reconciles into, implemented by
// store.Store.
type Store interface {
	PlacementDates(ctx context.Context) ([]string, error)
	DeletePlacementsOn(ctx context.Context, date string) (int64, error)
	SavePlacements(ctx context.Context, placements []extract.Placement) error
	GetFood(ctx context.Context, recNum string) (store.Food, error)
	FillFood(ctx context.Context, recNum string, nutrition extract.Nutrition) (bool, error)
}

// Fetcher reads raw pages from the nutrition site, implemented by
// fetcher.Fetcher.
type Fetcher interface {
	MenuPage(ctx context.Context, hallId, date string) (string, error)
	LabelPage(ctx context.Context, recNum string) (string, error)
}

type Options struct {
	// halls scraped at once in a batch, if unspecified, 1
	Concurrency int
	// if unspecified, DefaultLookupTimeout
	LookupTimeout time.Duration
	// if unspecified, timezone.Now
	Now func() time.Time
}

// Engine keeps the store in line with the site: batches replace a day's
// placements and nutrition is filled in lazily, once per food.
type Engine struct {
	store         Store
	fetcher       Fetcher
	halls         halls.Directory
	concurrency   int
	lookupTimeout time.Duration
	now           func() time.Time

	lookups singleflight.Group

	listenersLock sync.Mutex
	listeners     []func()
}

func NewEngine(s Store, f Fetcher, directory halls.Directory, opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = DefaultLookupTimeout
	}
	if opts.Now == nil {
		opts.Now = timezone.Now
	}
	return &Engine{
		store:         s,
		fetcher:       f,
		halls:         directory,
		concurrency:   opts.Concurrency,
		lookupTimeout: opts.LookupTimeout,
		now:           opts.Now,
	}
}

// Halls is the directory every batch scrapes.
func (e *Engine) Halls() halls.Directory {
	return e.halls
}

// OnChange registers fn to be called whenever a batch or a nutrition
// fill has written to the store.
func (e *Engine) OnChange(fn func()) {
	e.listenersLock.Lock()
	defer e.listenersLock.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) notifyChange() {
	e.listenersLock.Lock()
	listeners := make([]func(), len(e.listeners))
	copy(listeners, e.listeners)
	e.listenersLock.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// HallFailure is a hall that could not be scraped in a batch.
type HallFailure struct {
	DiningHallID string `json:"dining_hall_id"`
	Error        string `json:"error"`
	Err          error  `json:"-"`
}

// BatchResult is what a batch extracted and which halls failed.
type BatchResult struct {
	Date string
	// everything extracted, including placements without a rec_num which
	// are never persisted
	Placements []extract.Placement
	Failures   []HallFailure
}

// RunBatch scrapes every hall for date (M/D/YYYY, empty for today),
// replacing whatever was stored for that date and dropping placements of
// past days. Dates before today are rejected with ErrPastDate. A hall
// that fails is reported in the result, it never fails the batch.
func (e *Engine) RunBatch(ctx context.Context, date string) (BatchResult, error) {
	ctx, span := tracer.Start(ctx, "RunBatch")
	defer span.End()

	if date == "" {
		date = timezone.FormatSiteDate(e.now())
	}
	date, err := timezone.NormalizeSiteDate(date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BatchResult{}, err
	}
	span.SetAttributes(attribute.String("date", date))

	day, err := timezone.ParseSiteDate(date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BatchResult{}, err
	}
	if day.Before(timezone.StartOfDay(e.now())) {
		err = fmt.Errorf("scrape %s: %w", date, ErrPastDate)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BatchResult{}, err
	}

	err = e.deleteStale(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BatchResult{}, err
	}
	deleted, err := e.store.DeletePlacementsOn(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BatchResult{}, fmt.Errorf("clear placements on %s: %w", date, err)
	}
	slog.DebugContext(ctx, "cleared placements", "date", date, "count", deleted)

	placements := make([][]extract.Placement, len(e.halls))
	failures := make([]error, len(e.halls))

	group := errgroup.Group{}
	group.SetLimit(e.concurrency)
	for i, hall := range e.halls {
		i, hall := i, hall
		group.Go(func() error {
			placements[i], failures[i] = e.scrapeHall(ctx, hall, date)
			return nil
		})
	}
	group.Wait()

	result := BatchResult{
		Date:       date,
		Placements: []extract.Placement{},
	}
	for i, hall := range e.halls {
		if failures[i] != nil {
			result.Failures = append(result.Failures, HallFailure{
				DiningHallID: hall.ID,
				Error:        failures[i].Error(),
				Err:          failures[i],
			})
			continue
		}
		result.Placements = append(result.Placements, placements[i]...)
	}

	span.SetAttributes(
		attribute.Int("placements", len(result.Placements)),
		attribute.Int("failures", len(result.Failures)),
	)
	slog.InfoContext(
		ctx, "finished batch",
		"date", date,
		"placements", len(result.Placements),
		"failures", len(result.Failures),
	)
	e.notifyChange()

	return result, nil
}

func (e *Engine) deleteStale(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "deleteStale")
	defer span.End()

	dates, err := e.store.PlacementDates(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("list placement dates: %w", err)
	}

	today := timezone.StartOfDay(e.now())
	for _, text := range dates {
		date, err := timezone.ParseSiteDate(text)
		if err != nil {
			slog.WarnContext(ctx, "skipping placements with unparseable date", "date", text, "err", err)
			continue
		}
		if !date.Before(today) {
			continue
		}
		deleted, err := e.store.DeletePlacementsOn(ctx, text)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("delete placements on %s: %w", text, err)
		}
		slog.DebugContext(ctx, "deleted stale placements", "date", text, "count", deleted)
	}
	return nil
}

func (e *Engine) scrapeHall(ctx context.Context, hall halls.DiningHall, date string) ([]extract.Placement, error) {
	ctx, span := tracer.Start(ctx, "scrapeHall")
	defer span.End()

	span.SetAttributes(attribute.String("dining_hall_id", hall.ID))

	fail := func(err error) ([]extract.Placement, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		hallFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("dining_hall_id", hall.ID)))
		slog.WarnContext(ctx, "failed to scrape dining hall", "dining_hall_id", hall.ID, "date", date, "err", err)
		return nil, err
	}

	html, err := e.fetcher.MenuPage(ctx, hall.ID, date)
	if err != nil {
		return fail(err)
	}
	placements, err := extract.ExtractMenu(ctx, html, hall.ID, date)
	if err != nil {
		return fail(err)
	}

	persisted := make([]extract.Placement, 0, len(placements))
	for _, p := range placements {
		if p.RecNum == "" {
			slog.WarnContext(ctx, "placement has no rec_num, not persisting it", "dining_hall_id", hall.ID, "date", date, "name", p.Name)
			continue
		}
		persisted = append(persisted, p)
	}
	err = e.store.SavePlacements(ctx, persisted)
	if err != nil {
		return fail(fmt.Errorf("save placements: %w", err))
	}

	placementsScraped.Add(ctx, int64(len(placements)), metric.WithAttributes(attribute.String("dining_hall_id", hall.ID)))
	slog.DebugContext(ctx, "scraped dining hall", "dining_hall_id", hall.ID, "date", date, "placements", len(placements))
	return placements, nil
}
