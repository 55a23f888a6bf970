package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"docshare-sync/internal/auth"
	"docshare-sync/internal/handlers"
	"docshare-sync/internal/presence"
	"docshare-sync/internal/relay"
)

func newTestRouter(logger *zap.Logger) http.Handler {
	hub := relay.NewHub(nil, 8, logger)
	ws := handlers.NewWebSocketHandler(hub, presence.NewRegistry(), auth.NewValidator("test-secret", nil, logger), logger)
	pres := handlers.NewPresenceHandler(hub, logger)
	return NewRouter(ws, pres, logger, nil)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
}

// TestRequestLogging checks that every request produces one structured
// log line with method, path and status.
func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := newTestRouter(zap.New(core))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/healthz", nil))

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("log entries: got %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "GET" {
		t.Errorf("method: got %v, want GET", fields["method"])
	}
	if fields["path"] != "/api/v1/healthz" {
		t.Errorf("path: got %v, want /api/v1/healthz", fields["path"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status: got %v, want %d", fields["status"], http.StatusOK)
	}
}
