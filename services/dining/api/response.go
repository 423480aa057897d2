package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"umddining-backend/services/dining/extract"
	"umddining-backend/services/dining/fetcher"
	"umddining-backend/services/dining/reconcile"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type listResponse[T any] struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    []T  `json:"data"`
}

type dataResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func writeJson(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to write response", "err", err)
	}
}

func writeList[T any](w http.ResponseWriter, r *http.Request, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJson(w, r, http.StatusOK, listResponse[T]{
		Success: true,
		Count:   len(items),
		Data:    items,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= 500 {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	}
	writeJson(w, r, status, errorResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// errorStatus maps an error from the engine or store to the status it
// should be reported with.
func errorStatus(err error) int {
	var fetchErr *fetcher.FetchError
	var parseErr *extract.ParseError
	switch {
	case errors.Is(err, reconcile.ErrPastDate):
		return http.StatusBadRequest
	case errors.Is(err, reconcile.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &fetchErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
