package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"mlmodeld/internal/httpapi"
	"mlmodeld/internal/manager"
	"mlmodeld/pkg/types"
)

const irisYAML = `name: iris
types:
  petal_length: FLOAT
  petal_width: FLOAT
  species: CLASS
output: species
config:
  k: 3
rows:
  - {inputs: {petal_length: 1.4, petal_width: 0.2}, output: setosa}
  - {inputs: {petal_length: 1.3, petal_width: 0.2}, output: setosa}
  - {inputs: {petal_length: 1.5, petal_width: 0.1}, output: setosa}
  - {inputs: {petal_length: 4.7, petal_width: 1.4}, output: versicolor}
  - {inputs: {petal_length: 4.5, petal_width: 1.5}, output: versicolor}
  - {inputs: {petal_length: 4.9, petal_width: 1.5}, output: versicolor}
`

func TestE2E_Catalog_Predict_Ready(t *testing.T) {
	dir := createTempCatalogDir(t, map[string]string{"iris.yaml": irisYAML})
	srv, reg, pub := newServerForDir(t, dir)

	// 1) Before MarkReady the daemon reports loading.
	resp, body := httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz expected 503, got %d body=%s", resp.StatusCode, string(body))
	}
	reg.MarkReady()
	if resp, _ = httpGet(t, srv.URL+"/readyz"); resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz expected 200, got %d", resp.StatusCode)
	}

	// 2) The catalog model is listed with its seed rows, untrained.
	resp, body = httpGet(t, srv.URL+"/models")
	var list types.ModelsResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("/models json: %v body=%s", err, string(body))
	}
	if len(list.Models) != 1 || list.Models[0].State != "training" || list.Models[0].TrainingSets != 6 {
		t.Fatalf("/models=%+v", list.Models)
	}

	// 3) Concurrent predicts trigger exactly one fit.
	const n = 16
	var wg sync.WaitGroup
	values := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, body := httpPostJSON(t, srv.URL+"/models/iris/predict", []byte(`{"inputs":{"petal_length":4.6,"petal_width":1.4}}`))
			if resp.StatusCode != http.StatusOK {
				values <- fmt.Sprintf("status %d: %s", resp.StatusCode, body)
				return
			}
			var p types.PredictResponse
			_ = json.Unmarshal(body, &p)
			values <- fmt.Sprint(p.Value)
		}()
	}
	wg.Wait()
	close(values)
	for v := range values {
		if v != "versicolor" {
			t.Fatalf("predict=%s", v)
		}
	}
	if got := pub.Count(manager.EventTrainDone); got != 1 {
		t.Fatalf("expected exactly one fit, got %d", got)
	}

	// 4) Describe exposes backend diagnostics.
	resp, body = httpGet(t, srv.URL+"/models/iris")
	var st types.ModelStatus
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("describe json: %v", err)
	}
	if st.State != "ready" || st.MethodName != "knn" || st.Info["rows"] != float64(6) {
		t.Fatalf("describe=%+v", st)
	}
}

func TestE2E_CreateTrainRemove(t *testing.T) {
	srv, reg, _ := newServerForDir(t, "")
	reg.MarkReady()

	resp, body := httpPostJSON(t, srv.URL+"/models", []byte(`{"name":"price","types":{"rooms":"ORDER","price":"FLOAT"},"output":"price","config":{"method":"linear","epochs":3000,"learningRate":0.1}}`))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", resp.StatusCode, string(body))
	}
	rows := `{"rows":[`
	for i := 1; i <= 8; i++ {
		if i > 1 {
			rows += ","
		}
		rows += fmt.Sprintf(`{"inputs":{"rooms":%d},"output":%d}`, i, 50*i+20)
	}
	rows += `]}`
	if resp, body = httpPostJSON(t, srv.URL+"/models/price/rows", []byte(rows)); resp.StatusCode != http.StatusOK {
		t.Fatalf("rows status=%d body=%s", resp.StatusCode, string(body))
	}
	if resp, body = httpPostJSON(t, srv.URL+"/models/price/train", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("train status=%d body=%s", resp.StatusCode, string(body))
	}
	resp, body = httpPostJSON(t, srv.URL+"/models/price/predict", []byte(`{"inputs":{"rooms":10}}`))
	var p types.PredictResponse
	if err := json.Unmarshal(body, &p); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("predict status=%d body=%s", resp.StatusCode, string(body))
	}
	if v, ok := p.Value.(float64); !ok || v < 515 || v > 525 {
		t.Fatalf("predict=%v", p.Value)
	}

	resp, body = httpDo(t, http.MethodDelete, srv.URL+"/models/price", nil)
	var rm types.RemoveResponse
	_ = json.Unmarshal(body, &rm)
	if resp.StatusCode != http.StatusOK || rm.Status != "removed" {
		t.Fatalf("remove status=%d body=%s", resp.StatusCode, string(body))
	}
	if resp, _ = httpPostJSON(t, srv.URL+"/models/price/predict", []byte(`{"inputs":{"rooms":1}}`)); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("predict after remove status=%d", resp.StatusCode)
	}
}

// TestE2E_Backpressure429 verifies /models routes return 429 once the rate
// limiter's burst is spent, while probes stay reachable.
func TestE2E_Backpressure429(t *testing.T) {
	httpapi.SetRateLimit(0.001, 1)
	defer httpapi.SetRateLimit(0, 0)
	srv, _, _ := newServerForDir(t, "")

	if resp, _ := httpGet(t, srv.URL+"/models"); resp.StatusCode != http.StatusOK {
		t.Fatalf("first request status=%d", resp.StatusCode)
	}
	resp, body := httpGet(t, srv.URL+"/models")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d body=%s", resp.StatusCode, string(body))
	}
	var e types.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Code != http.StatusTooManyRequests {
		t.Fatalf("error body=%s", string(body))
	}
	if resp, _ = httpGet(t, srv.URL+"/healthz"); resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status=%d", resp.StatusCode)
	}
}
