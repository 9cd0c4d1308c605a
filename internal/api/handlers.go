package api

import (
	"encoding/json"
	"net/http"

	"github.com/kmorten/price-tracker/internal/cache"
	"github.com/kmorten/price-tracker/internal/ledger"
	"github.com/kmorten/price-tracker/internal/models"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store ledger.Store
	cache *cache.Cache
	urls  []string
}

// NewHandler creates a new Handler. cache may be nil when no Redis is
// configured; the latest-report endpoint then returns 404.
func NewHandler(store ledger.Store, c *cache.Cache, urls []string) *Handler {
	return &Handler{
		store: store,
		cache: c,
		urls:  urls,
	}
}

// productView is the list item returned by GET /products
type productView struct {
	URL    string         `json:"url"`
	Name   string         `json:"name,omitempty"`
	Latest *models.Record `json:"latest,omitempty"`
}

// GetProducts handles GET /products
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	l, err := h.store.Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	views := make([]productView, 0, len(h.urls))
	for _, url := range h.urls {
		v := productView{URL: url}
		if history := l.History(url); len(history) > 0 {
			latest := history[len(history)-1]
			v.Latest = &latest
			v.Name = latest.ProductName
		}
		views = append(views, v)
	}
	respondJSON(w, http.StatusOK, views)
}

// GetHistory handles GET /products/history?url=
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "url query parameter is required", http.StatusBadRequest)
		return
	}

	l, err := h.store.Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	history := l.History(url)
	if len(history) == 0 {
		http.Error(w, "no history for url", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// GetLatestReport handles GET /report/latest
func (h *Handler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		http.Error(w, "no report available", http.StatusNotFound)
		return
	}
	summary, err := h.cache.LatestSummary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if summary == nil {
		http.Error(w, "no report available", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
