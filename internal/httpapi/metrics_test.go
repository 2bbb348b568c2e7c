package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mlmodeld/internal/schema"
)

func scrape(t *testing.T) []byte {
	t.Helper()
	mrr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	return mrr.Body.Bytes()
}

// TestMetricsMiddleware_EmitsRequestCounters verifies that wrapping a handler
// with MetricsMiddleware results in request metrics being exposed via the
// Prometheus /metrics handler.
func TestMetricsMiddleware_EmitsRequestCounters(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rr := httptest.NewRecorder()
	MetricsMiddleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if body := scrape(t); !bytes.Contains(body, []byte("mlmodeld_http_requests_total")) {
		t.Fatalf("expected to find mlmodeld_http_requests_total in metrics")
	}
}

func TestMetrics_UseRoutePattern(t *testing.T) {
	do(t, NewMux(newMock()), http.MethodGet, "/models/some-model-name", "")
	body := scrape(t)
	if !bytes.Contains(body, []byte(`path="/models/{name}"`)) {
		t.Fatalf("expected route pattern label in metrics")
	}
	if bytes.Contains(body, []byte(`path="/models/some-model-name"`)) {
		t.Fatalf("raw path leaked into labels")
	}
}

func TestIncrementBackpressure(t *testing.T) {
	IncrementBackpressure("")
	if body := scrape(t); !bytes.Contains(body, []byte(`mlmodeld_http_backpressure_total{reason="unspecified"}`)) {
		t.Fatalf("expected unspecified backpressure counter")
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	w := do(t, NewMux(newMock()), http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestModelOperationMetrics(t *testing.T) {
	svc := newMock()
	r := NewMux(svc)
	do(t, r, http.MethodPost, "/models/m1/predict", `{"inputs":{}}`)
	s, _ := schema.New(map[string]string{"age": "float"}, "")
	_, svc.predErr = s.Encode(map[string]any{"age": "xyz"}, nil)
	if w := do(t, r, http.MethodPost, "/models/m1/predict", `{"inputs":{"age":"xyz"}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	body := scrape(t)
	for _, series := range []string{
		`mlmodeld_http_model_operations_total{op="predict",outcome="ok"}`,
		`mlmodeld_http_model_operations_total{op="predict",outcome="invalid"}`,
		`mlmodeld_http_model_operation_duration_seconds_count{op="predict"}`,
	} {
		if !bytes.Contains(body, []byte(series)) {
			t.Fatalf("expected %s in metrics", series)
		}
	}
}

func TestOpOutcome(t *testing.T) {
	cases := map[int]string{
		http.StatusOK:                  "ok",
		http.StatusCreated:             "ok",
		http.StatusBadRequest:          "invalid",
		http.StatusNotFound:            "not_found",
		http.StatusConflict:            "conflict",
		http.StatusUnprocessableEntity: "fit_failed",
		http.StatusGatewayTimeout:      "timeout",
		http.StatusInternalServerError: "error",
	}
	for status, want := range cases {
		if got := opOutcome(status); got != want {
			t.Fatalf("opOutcome(%d)=%q want %q", status, got, want)
		}
	}
}
