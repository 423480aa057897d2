package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"umddining-backend/lib/telemetry"
	"umddining-backend/lib/textutil"
	"umddining-backend/lib/timezone"
	"umddining-backend/services/dining/halls"
	"umddining-backend/services/dining/reconcile"
	"umddining-backend/services/dining/store"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = telemetry.Tracer("umddining.services.dining.api")

const searchLimit = 50

type Engine interface {
	RunBatch(ctx context.Context, date string) (reconcile.BatchResult, error)
	GetNutrition(ctx context.Context, recNum string) (store.Food, error)
	OnChange(fn func())
}

type Store interface {
	DiningHalls(ctx context.Context) ([]halls.DiningHall, error)
	Menu(ctx context.Context, filter store.MenuFilter) ([]store.MenuItem, error)
	Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error)
}

type Options struct {
	// if unspecified, 256
	CacheSize int
	// if unspecified, 10 minutes
	CacheTTL time.Duration
	// bounds a scrape started through the api, which keeps running if the
	// client goes away, if unspecified, 10 minutes
	ScrapeTimeout time.Duration
}

type Server struct {
	engine        Engine
	store         Store
	menus         *menuCache
	scrapeTimeout time.Duration
	mux           *http.ServeMux
}

func NewServer(engine Engine, s Store, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.ScrapeTimeout <= 0 {
		opts.ScrapeTimeout = 10 * time.Minute
	}

	server := &Server{
		engine:        engine,
		store:         s,
		menus:         newMenuCache(s, opts.CacheSize, opts.CacheTTL),
		scrapeTimeout: opts.ScrapeTimeout,
		mux:           http.NewServeMux(),
	}
	engine.OnChange(server.menus.Purge)

	server.mux.HandleFunc("GET /{$}", server.handleIndex)
	server.mux.HandleFunc("GET /api/dining-halls", server.handleDiningHalls)
	server.mux.HandleFunc("GET /api/menu", server.handleMenu)
	server.mux.HandleFunc("GET /api/nutrition", server.handleNutrition)
	server.mux.HandleFunc("GET /api/search", server.handleSearch)
	server.mux.HandleFunc("POST /api/scrape", server.handleScrape)
	return server
}

// Handler is the full api with logging, cors and tracing applied.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(
		withCors(withRequestLogging(s.mux)),
		"umddining-api",
	)
}

type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var endpoints = []endpoint{
	{Method: "GET", Path: "/api/dining-halls", Description: "all dining halls"},
	{Method: "GET", Path: "/api/menu", Description: "menu items, filtered by dining_hall_id, date and meal_period"},
	{Method: "GET", Path: "/api/nutrition", Description: "nutrition of the food with rec_num, fetched on first request"},
	{Method: "GET", Path: "/api/search", Description: "foods with names containing q"},
	{Method: "POST", Path: "/api/scrape", Description: "scrape every dining hall for date, today if unspecified"},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJson(w, r, http.StatusOK, struct {
		Success   bool       `json:"success"`
		Service   string     `json:"service"`
		Endpoints []endpoint `json:"endpoints"`
	}{
		Success:   true,
		Service:   "umd dining",
		Endpoints: endpoints,
	})
}

func (s *Server) handleDiningHalls(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.DiningHalls(r.Context())
	if err != nil {
		writeError(w, r, errorStatus(err), err)
		return
	}
	writeList(w, r, rows)
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.MenuFilter{
		DiningHallID: strings.TrimSpace(query.Get("dining_hall_id")),
		MealPeriod:   strings.TrimSpace(query.Get("meal_period")),
	}
	if date := query.Get("date"); date != "" {
		normalized, err := timezone.NormalizeSiteDate(date)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		filter.Date = normalized
	}

	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.String("dining_hall_id", filter.DiningHallID),
		attribute.String("date", filter.Date),
		attribute.String("meal_period", filter.MealPeriod),
	)

	items, err := s.menus.Get(r.Context(), filter)
	if err != nil {
		writeError(w, r, errorStatus(err), err)
		return
	}
	writeList(w, r, items)
}

func (s *Server) handleNutrition(w http.ResponseWriter, r *http.Request) {
	recNum := strings.TrimSpace(r.URL.Query().Get("rec_num"))
	if recNum == "" {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("rec_num is required"))
		return
	}

	food, err := s.engine.GetNutrition(r.Context(), recNum)
	if err != nil {
		writeError(w, r, errorStatus(err), err)
		return
	}
	writeJson(w, r, http.StatusOK, dataResponse[store.Food]{
		Success: true,
		Data:    food,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleSearch")
	defer span.End()

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("q is required"))
		return
	}
	span.SetAttributes(attribute.String("q", q))

	results, err := s.store.Search(ctx, q, searchLimit)
	if err != nil {
		writeError(w, r, errorStatus(err), err)
		return
	}
	textutil.SortBySimilarity(results, q, func(result store.SearchResult) string {
		return result.Name
	})
	writeList(w, r, results)
}

type scrapeResponse struct {
	Success      bool                    `json:"success"`
	Date         string                  `json:"date"`
	ItemsScraped int                     `json:"items_scraped"`
	Failures     []reconcile.HallFailure `json:"failures"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date != "" {
		_, err := timezone.NormalizeSiteDate(date)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}

	// a batch clears the date before refilling it, it must not stop halfway
	// because the client disconnected
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.scrapeTimeout)
	defer cancel()

	result, err := s.engine.RunBatch(ctx, date)
	if err != nil {
		writeError(w, r, errorStatus(err), err)
		return
	}
	failures := result.Failures
	if failures == nil {
		failures = []reconcile.HallFailure{}
	}
	writeJson(w, r, http.StatusOK, scrapeResponse{
		Success:      true,
		Date:         result.Date,
		ItemsScraped: len(result.Placements),
		Failures:     failures,
	})
}
