package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propgo/propgo"
	"github.com/propgo/propgo/config"
	"github.com/propgo/propgo/property"
)

func newTestHandler(t *testing.T, cfg config.ServerConfig) http.Handler {
	t.Helper()

	store := property.NewStore([]property.Property{
		{Bedrooms: 2, Bathrooms: 1, Price: 150_000, YearBuilt: 1950},
		{Bedrooms: 3, Bathrooms: 2.5, Price: 250_000, YearBuilt: 1987, HasGarage: true},
		{Bedrooms: 3, Bathrooms: 2, Price: 350_000, YearBuilt: 2005, HasGarage: true, HasFireplace: true},
		{Bedrooms: 4, Bathrooms: 3, Price: 450_000, YearBuilt: 2015},
	})
	engine, err := propgo.New(store)
	require.NoError(t, err)

	srv := New(engine, slog.New(slog.DiscardHandler), NewMetrics())
	return srv.Handler(cfg, config.MetricsConfig{Enabled: true, Path: "/metrics"})
}

func getHomes(t *testing.T, h http.Handler, rawQuery string) (*httptest.ResponseRecorder, homesResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/homes?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body homesResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandleHomes(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})

	t.Run("NoFilters", func(t *testing.T) {
		rec, body := getHomes(t, h, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 4, body.Count)
		assert.Len(t, body.Properties, 4)
	})

	t.Run("Bedrooms", func(t *testing.T) {
		rec, body := getHomes(t, h, "bedrooms=3")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, body.Count)
	})

	t.Run("BathroomsAtLeast", func(t *testing.T) {
		rec, body := getHomes(t, h, "bathrooms=2.5")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, body.Count)
	})

	t.Run("PriceRange", func(t *testing.T) {
		rec, body := getHomes(t, h, "price_min=200000&price_max=300000")
		assert.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, body.Count)
		assert.Equal(t, int64(250_000), body.Properties[0].Price)
	})

	t.Run("OpenEndedPrice", func(t *testing.T) {
		rec, body := getHomes(t, h, "price_min=400000")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, body.Count)
	})

	t.Run("YearRangeAndFlags", func(t *testing.T) {
		rec, body := getHomes(t, h, "year_min=1980&year_max=2010&garage=true&fireplace=true")
		assert.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, body.Count)
		assert.Equal(t, 2005, body.Properties[0].YearBuilt)
	})

	t.Run("NoMatch", func(t *testing.T) {
		rec, body := getHomes(t, h, "bedrooms=9")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, body.Count)
	})

	t.Run("Limit", func(t *testing.T) {
		rec, body := getHomes(t, h, "limit=2")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 4, body.Count, "count reports all matches")
		assert.Len(t, body.Properties, 2, "payload is truncated")
	})

	t.Run("TimingsReported", func(t *testing.T) {
		rec, body := getHomes(t, h, "bedrooms=3")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.GreaterOrEqual(t, body.Timing.HashSetMillis, 0.0)
		assert.GreaterOrEqual(t, body.Timing.PostingListMillis, 0.0)
	})

	t.Run("BadParamValue", func(t *testing.T) {
		rec, _ := getHomes(t, h, "bedrooms=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvertedRange", func(t *testing.T) {
		rec, _ := getHomes(t, h, "price_min=300000&price_max=200000")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})

	// One query so the query collectors have samples.
	getHomes(t, h, "bedrooms=3")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "propgo_queries_total")
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{RateLimit: 1, RateBurst: 2})

	get := func(path, addr string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, get("/api/homes", "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, get("/api/homes", "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, get("/api/homes", "10.0.0.1:1234"))

	// Other clients have their own budget.
	assert.Equal(t, http.StatusOK, get("/api/homes", "10.0.0.2:1234"))

	// Health stays reachable for throttled clients.
	assert.Equal(t, http.StatusOK, get("/health", "10.0.0.1:1234"))
}

func TestFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/homes?bedrooms=3&bathrooms=2&price_min=100000&year_max=2000&garage=true&basement=false", nil)

	f, err := filterFromQuery(req)
	require.NoError(t, err)

	assert.Len(t, f.Conditions, 4)
	assert.Equal(t, 3.0, *f.Conditions["bedrooms"].Equals)
	assert.Equal(t, 2.0, *f.Conditions["bathrooms"].Min)
	assert.Nil(t, f.Conditions["bathrooms"].Max)
	assert.Equal(t, 100_000.0, *f.Conditions["price"].Min)
	assert.Equal(t, 2000.0, *f.Conditions["year_built"].Max)

	require.Len(t, f.Flags, 1, "only flags set to true are required")
	assert.Equal(t, "garage", string(f.Flags[0]))
}
