package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorten/price-tracker/internal/cache"
	"github.com/kmorten/price-tracker/internal/ledger"
	"github.com/kmorten/price-tracker/internal/models"
)

func seedStore(t *testing.T) *ledger.CSVStore {
	t.Helper()
	store := ledger.NewCSVStore(filepath.Join(t.TempDir(), "ledger.csv"))

	l := ledger.New()
	l.Append(models.Record{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ProductName: "Widget", Price: "12.00", URL: "http://a"})
	l.Append(models.Record{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ProductName: "Widget", Price: "9.99", URL: "http://a"})
	require.NoError(t, store.Save(context.Background(), l))
	return store
}

func TestHandlers(t *testing.T) {
	store := seedStore(t)

	mr := miniredis.RunT(t)
	summaryCache := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	handler := NewHandler(store, summaryCache, []string{"http://a", "http://b"})
	router := SetupRoutes(handler)

	t.Run("health check", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("products lists every tracked url with its latest record", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var views []struct {
			URL    string         `json:"url"`
			Name   string         `json:"name"`
			Latest *models.Record `json:"latest"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		require.Len(t, views, 2)

		assert.Equal(t, "http://a", views[0].URL)
		require.NotNil(t, views[0].Latest)
		assert.Equal(t, "9.99", views[0].Latest.Price)

		assert.Equal(t, "http://b", views[1].URL)
		assert.Nil(t, views[1].Latest)
	})

	t.Run("history returns ledger-ordered rows", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/history?url=http://a", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var rows []models.Record
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "12.00", rows[0].Price)
		assert.Equal(t, "9.99", rows[1].Price)
	})

	t.Run("history requires the url parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/history", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("history of unknown url is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/history?url=http://nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("latest report is 404 until a run is cached", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/report/latest", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("latest report serves the cached summary", func(t *testing.T) {
		require.NoError(t, summaryCache.StoreSummary(context.Background(),
			&models.RunSummary{Date: "2024-01-02", ReportBody: "Date: 2024-01-02\n"}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/report/latest", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var s models.RunSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
		assert.Equal(t, "2024-01-02", s.Date)
	})
}
