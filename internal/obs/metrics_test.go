package obs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                "/",
		"/":                               "/",
		"/metrics":                        "/metrics",
		"/api/zgloszenia/42":              "/api/zgloszenia/:id",
		"/api/zgloszenia?status=OPEN":     "/api/zgloszenia",
		"/api/admin/dzialy/7/":            "/api/admin/dzialy/:id",
		"/api/harmonogramy/abc":           "/api/harmonogramy/abc",
		"/api/admin/maszyny/12?expand=no": "/api/admin/maszyny/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	Init()
	r := chi.NewRouter()
	r.Use(Instrument)
	r.Get("/api/zgloszenia/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/zgloszenia/{id}", "418"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/zgloszenia/5", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/zgloszenia/{id}", "418"))
	if after-before != 1 {
		t.Fatalf("expected one request counted under route pattern, got %v", after-before)
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger(LogConfig{Level: "chatty"}); err == nil || !strings.Contains(err.Error(), "chatty") {
		t.Fatalf("expected unknown level error, got %v", err)
	}
	logger, err := NewLogger(LogConfig{Level: "debug", File: t.TempDir() + "/drimain.log"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Debug("hello")
	_ = logger.Sync()
}
