package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSetMaxBodyBytes(t *testing.T) {
	SetMaxBodyBytes(10)
	if maxBodyBytes != 10 {
		t.Fatalf("maxBodyBytes=%d", maxBodyBytes)
	}
	w := do(t, NewMux(newMock()), http.MethodPost, "/models", `{"name":"longer-than-ten"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("reset maxBodyBytes=%d", maxBodyBytes)
	}
}

func TestSetRequestTimeoutSeconds(t *testing.T) {
	SetRequestTimeoutSeconds(-5)
	if requestTimeout != 0 {
		t.Fatalf("negative should disable, got %v", requestTimeout)
	}
	SetRequestTimeoutSeconds(3)
	if requestTimeout != 3*time.Second {
		t.Fatalf("requestTimeout=%v", requestTimeout)
	}
	SetRequestTimeoutSeconds(0)
}

func TestCORSPreflight(t *testing.T) {
	SetCORSOptions(true, []string{"https://example.com"}, []string{"GET", "POST"}, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/models", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	NewMux(newMock()).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Fatalf("allow-origin=%q", got)
	}
}

func TestCORSDisabledByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	NewMux(newMock()).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin=%q", got)
	}
}

func TestRateLimit(t *testing.T) {
	SetRateLimit(0.001, 2)
	defer SetRateLimit(0, 0)
	r := NewMux(newMock())
	for i := 0; i < 2; i++ {
		if w := do(t, r, http.MethodGet, "/models", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i, w.Code)
		}
	}
	w := do(t, r, http.MethodGet, "/models", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
	// Probes are not rate limited.
	if w := do(t, r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}
}
