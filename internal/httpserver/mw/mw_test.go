package mw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		trustProxy bool
		remoteAddr string
		xff        string
		expected   int
	}{
		{"loopback allowed", []string{"127.0.0.1/32"}, false, "127.0.0.1:4000", "", http.StatusOK},
		{"outsider rejected", []string{"127.0.0.1/32"}, false, "10.0.0.9:4000", "", http.StatusForbidden},
		{"empty list passthrough", nil, false, "10.0.0.9:4000", "", http.StatusOK},
		{"forwarded ignored without trust", []string{"127.0.0.1/32"}, false, "10.0.0.9:4000", "127.0.0.1", http.StatusForbidden},
		{"forwarded honoured with trust", []string{"127.0.0.1/32"}, true, "10.0.0.9:4000", "127.0.0.1, 10.0.0.9", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AllowOnlyCIDRS(tt.allowed, tt.trustProxy, logger.Nop())(okHandler)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.expected {
				t.Errorf("status = %d, want %d", rec.Code, tt.expected)
			}
		})
	}
}

func TestEnforceHost(t *testing.T) {
	tests := []struct {
		host     string
		allowed  []string
		expected int
	}{
		{"localhost:7878", []string{"localhost:7878"}, http.StatusOK},
		{"ql.home.lan", []string{"*.home.lan"}, http.StatusOK},
		{"evil.example", []string{"*.home.lan"}, http.StatusForbidden},
		{"anything", nil, http.StatusOK},
		{"LOCALHOST:7878", []string{"localhost"}, http.StatusOK},
		{"localhost:9999", []string{"localhost:7878"}, http.StatusForbidden},
		{"home.lan", []string{"*.home.lan"}, http.StatusForbidden},
		{"ql.home.lan:7878", []string{"*.home.lan"}, http.StatusOK},
	}

	for _, tt := range tests {
		h := EnforceHost(tt.allowed, logger.Nop())(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = tt.host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.expected {
			t.Errorf("host %s: status = %d, want %d", tt.host, rec.Code, tt.expected)
		}
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 1})(okHandler)

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("192.0.2.1:1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}

	rec := send("192.0.2.1:1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 should carry Retry-After")
	}

	if rec := send("192.0.2.2:1"); rec.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", rec.Code)
	}
}

func TestLimiterRefill(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 60})
	now := time.Now()

	if ok, _, _ := l.allow("a", now); !ok {
		t.Fatal("first token should be available")
	}
	if ok, _, retry := l.allow("a", now); ok || retry != 1 {
		t.Fatalf("bucket should be empty with retry 1s, got ok=%v retry=%d", ok, retry)
	}
	if ok, _, _ := l.allow("a", now.Add(time.Second)); !ok {
		t.Error("bucket should refill after one second")
	}
}

func TestRejectWritesJSON(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"127.0.0.1"}, false, logger.Nop())(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.RemoteAddr = "203.0.113.5:1"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"error":"Forbidden"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestLogUsesRoutePattern(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))

	r := chi.NewRouter()
	r.Use(Log(log, false))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})

	for _, target := range []string{"/items/abc?q=secret", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}

	first := entries[0].ContextMap()
	if first["route"] != "/items/{id}" {
		t.Errorf("route = %v, want /items/{id}", first["route"])
	}
	if first["status"] != int64(http.StatusNotFound) {
		t.Errorf("status = %v, want 404", first["status"])
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("level = %v, want info", entries[0].Level)
	}
	if entries[1].Level != zapcore.DebugLevel {
		t.Errorf("probe level = %v, want debug", entries[1].Level)
	}
}
