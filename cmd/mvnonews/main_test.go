package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/mvnonews/internal/app"
	"github.com/deusflow/mvnonews/internal/config"
	"github.com/deusflow/mvnonews/internal/metrics"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"collect", "daily", "serve", "history"}, names)

	daily, _, err := root.Find([]string{"daily"})
	require.NoError(t, err)
	assert.NotNil(t, daily.Flags().Lookup("date"))
}

func TestNewScheduler(t *testing.T) {
	a := app.New(&config.Config{}, nil, nil, nil, nil)

	c, err := newScheduler(context.Background(), a, "0 */3 * * *", "10 0 * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)

	_, err = newScheduler(context.Background(), a, "bogus schedule", "10 0 * * *")
	assert.Error(t, err)
}

func TestHealthHandler(t *testing.T) {
	saved := metrics.Global
	t.Cleanup(func() { metrics.Global = saved })

	metrics.Global = &metrics.Metrics{IsHealthy: true}
	rec := httptest.NewRecorder()
	healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])

	metrics.Global.SetError("search failed")
	rec = httptest.NewRecorder()
	healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "search failed", body["last_error"])
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	metricsHandler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "articles_fetched")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
