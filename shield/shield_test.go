package shield_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/morph/dbopen"
	"github.com/hazyhaar/morph/shield"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	h := shield.SecurityHeaders(shield.DefaultHeaders())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy not set")
	}
}

func TestMaxBody(t *testing.T) {
	// WHAT: bodies over the cap must fail when read.
	// WHY: the upload cap is the first line of defense against disk/memory
	// exhaustion from oversized files.
	var readErr error
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	})
	h := shield.MaxBody(16)(inner)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/convert/text", strings.NewReader(strings.Repeat("a", 64)))
	h.ServeHTTP(rec, req)

	if readErr == nil {
		t.Fatal("expected read error for oversized body")
	}

	readErr = nil
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/convert/text", strings.NewReader("small"))
	h.ServeHTTP(rec, req)
	if readErr != nil {
		t.Fatalf("small body should pass: %v", readErr)
	}
}

func TestTraceID(t *testing.T) {
	var gotTrace string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = shield.GetTraceID(r.Context())
		if shield.GetLogger(r.Context()) == nil {
			t.Error("no logger in context")
		}
	})
	h := shield.TraceID(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if gotTrace == "" {
		t.Fatal("trace ID not injected into context")
	}
	if rec.Header().Get("X-Trace-ID") != gotTrace {
		t.Errorf("header trace %q != context trace %q", rec.Header().Get("X-Trace-ID"), gotTrace)
	}
}

func TestMemoryStore(t *testing.T) {
	s := shield.NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := s.Incr(ctx, "1.2.3.4:POST /convert/text", time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if n != i {
			t.Fatalf("count = %d, want %d", n, i)
		}
	}

	// Separate keys do not share counters.
	n, err := s.Incr(ctx, "5.6.7.8:POST /convert/text", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("other key count = %d, want 1", n)
	}
}

func TestMemoryStore_WindowReset(t *testing.T) {
	s := shield.NewMemoryStore()
	ctx := context.Background()

	s.Incr(ctx, "k", 10*time.Millisecond)
	s.Incr(ctx, "k", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	n, err := s.Incr(ctx, "k", 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("count after window = %d, want 1", n)
	}
}

func TestSQLiteStore(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(shield.Schema))
	s := shield.NewSQLiteStore(db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := s.Incr(ctx, "ip:endpoint", time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if n != i {
			t.Fatalf("count = %d, want %d", n, i)
		}
	}
}

func newLimiter(t *testing.T, cfg shield.RateLimiterConfig, extraSeed string) *shield.RateLimiter {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(shield.Schema))
	if extraSeed != "" {
		if _, err := db.Exec(extraSeed); err != nil {
			t.Fatal(err)
		}
	}
	cfg.DB = db
	return shield.NewRateLimiter(cfg)
}

func TestRateLimiter_EndpointRule(t *testing.T) {
	rl := newLimiter(t, shield.RateLimiterConfig{},
		`INSERT OR REPLACE INTO rate_limits (endpoint, max_requests, window_seconds) VALUES ('POST /convert/tiny', 2, 60)`)
	h := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/convert/tiny", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: code = %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/convert/tiny", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d, want 429", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("429 body is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("429 body missing error field")
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 missing Retry-After")
	}
}

func TestRateLimiter_SeededVideoRule(t *testing.T) {
	// The seeded rules cap POST /convert/video at 10/min.
	rl := newLimiter(t, shield.RateLimiterConfig{ClientPerHour: 1000, ClientPerDay: 1000}, "")
	h := rl.Middleware(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/convert/video", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: code = %d, want 200", i+1, rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/convert/video", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("11th request: code = %d, want 429", rec.Code)
	}
}

func TestRateLimiter_ClientHourlyCap(t *testing.T) {
	rl := newLimiter(t, shield.RateLimiterConfig{ClientPerHour: 3, ClientPerDay: 1000}, "")
	h := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/convert/length", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: code = %d, want 200", i+1, rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/convert/length", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d, want 429 after hourly cap", rec.Code)
	}
}

func TestRateLimiter_ExcludedPrefix(t *testing.T) {
	rl := newLimiter(t, shield.RateLimiterConfig{
		ClientPerHour:   1,
		ClientPerDay:    1,
		ExcludePrefixes: []string{"/static/", "/healthz"},
	}, "")
	h := rl.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("excluded path limited on request %d", i+1)
		}
	}
}

func TestRateLimiter_ReadOnlyPassThrough(t *testing.T) {
	rl := newLimiter(t, shield.RateLimiterConfig{ClientPerHour: 1, ClientPerDay: 1}, "")
	h := rl.Middleware(okHandler())

	// Pages and other GETs never count against client caps.
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/length-converter", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET limited on request %d", i+1)
		}
	}
}

func TestExtractIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := shield.ExtractIP(req); got != "203.0.113.9" {
		t.Errorf("ExtractIP = %q, want first XFF entry", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.7:4411"
	if got := shield.ExtractIP(req); got != "198.51.100.7" {
		t.Errorf("ExtractIP = %q, want host from RemoteAddr", got)
	}
}
