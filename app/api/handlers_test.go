package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lysyi3m/plex-letterboxd/app/export"
	"github.com/lysyi3m/plex-letterboxd/app/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStatus struct {
	status scheduler.Status
}

func (s staticStatus) Status() scheduler.Status {
	return s.status
}

func serve(t *testing.T, handler *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	NewServer(handler).ServeHTTP(w, req)
	return w
}

func TestGetHealth(t *testing.T) {
	handler := NewHandler(staticStatus{}, "test")
	handler.now = func() time.Time { return time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC) }

	w := serve(t, handler, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-05-01T03:00:00Z", body["timestamp"])
}

func TestGetStatus_BeforeFirstRun(t *testing.T) {
	handler := NewHandler(staticStatus{status: scheduler.Status{Trigger: "daily at 03:00 UTC"}}, "test")

	w := serve(t, handler, "/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "daily at 03:00 UTC", body["trigger"])
	assert.Nil(t, body["next_run"])
	assert.Nil(t, body["last_run"])
	assert.Equal(t, float64(0), body["runs"])
}

func TestGetStatus_AfterRun(t *testing.T) {
	next := time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)
	status := scheduler.Status{
		Trigger: "daily at 03:00 UTC",
		NextRun: &next,
		LastRun: &export.RunSummary{
			RunID:       "run-1",
			StartedAt:   time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC),
			Duration:    1500 * time.Millisecond,
			Added:       1,
			HistorySize: 42,
			Libraries: []export.LibraryResult{
				{Library: "Bogus", Err: errors.New("plex library section not found")},
				{Library: "Movies", Added: 1, Skipped: 41},
			},
		},
		Runs: 3,
	}
	handler := NewHandler(staticStatus{status: status}, "test")

	w := serve(t, handler, "/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.NotNil(t, body.NextRun)
	assert.Equal(t, "2024-05-02T03:00:00Z", *body.NextRun)
	assert.Equal(t, 3, body.Runs)
	assert.Equal(t, 42, body.HistorySize)
	require.NotNil(t, body.LastRun)
	assert.Equal(t, "run-1", body.LastRun.RunID)
	assert.Equal(t, "1.5s", body.LastRun.Duration)
	require.Len(t, body.LastRun.Libraries, 2)
	assert.Equal(t, "plex library section not found", body.LastRun.Libraries[0].Error)
	assert.Empty(t, body.LastRun.Libraries[1].Error)
	assert.Equal(t, 41, body.LastRun.Libraries[1].Skipped)
}

func TestUnknownRoute(t *testing.T) {
	w := serve(t, NewHandler(staticStatus{}, "test"), "/library/sections")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
