package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithComponent_AddsComponentAndService(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "test"})
	t.Cleanup(func() { Configure(Config{Level: "warn"}) })

	l := WithComponent("feed")
	l.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line should be JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "feed" {
		t.Errorf("expected component feed, got %v", entry["component"])
	}
	if entry["service"] != "test" {
		t.Errorf("expected service test, got %v", entry["service"])
	}
}

func TestConfigure_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "error", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "warn"}) })

	l := Base()
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line should be filtered at error level, got %q", buf.String())
	}
}

func TestFromContext_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "warn"}) })

	ctx := ContextWithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Fatalf("expected req-42, got %q", got)
	}
	FromContext(ctx).Info().Msg("x")

	var entry map[string]any
	_ = json.Unmarshal(buf.Bytes(), &entry)
	if entry["request_id"] != "req-42" {
		t.Errorf("expected request_id in log line, got %v", entry["request_id"])
	}
}

func TestMiddleware_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "warn"}) })

	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tabs/feed", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("access line should be JSON: %v", err)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("expected status 418, got %v", entry["status"])
	}
	if entry["path"] != "/tabs/feed" {
		t.Errorf("expected path /tabs/feed, got %v", entry["path"])
	}
}
