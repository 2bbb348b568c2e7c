package httpapi

import (
	"net/http"
	"testing"

	"mlmodeld/internal/backend/native"
	"mlmodeld/internal/manager"
	"mlmodeld/pkg/types"
)

// End to end over a real registry with the built-in framework.
func TestRegistryService_Lifecycle(t *testing.T) {
	reg := manager.New(native.Frameworks())
	reg.MarkReady()
	r := NewMux(NewService(reg))

	w := do(t, r, http.MethodPost, "/models", `{"name":"m1","types":{"age":"FLOAT","tier":"CLASS"},"output":"tier","config":{"k":1}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}

	if w := do(t, r, http.MethodPost, "/models/m1/predict", `{"inputs":{"age":5}}`); w.Code != http.StatusConflict {
		t.Fatalf("predict before data status=%d", w.Code)
	}

	w = do(t, r, http.MethodPost, "/models/m1/rows", `{"rows":[{"inputs":{"age":5.0},"output":"gold"},{"inputs":{"age":50},"output":"silver"}]}`)
	var ack types.AddRowsResponse
	decode(t, w, &ack)
	if ack.TrainingSets != 2 || ack.State != "training" {
		t.Fatalf("ack=%+v", ack)
	}

	if w := do(t, r, http.MethodPost, "/models/m1/rows", `{"inputs":{"height":1}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status=%d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/models/m1/rows", `{"inputs":{"age":"old"},"output":"gold"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric add status=%d", w.Code)
	}

	// Lazy training on first predict.
	w = do(t, r, http.MethodPost, "/models/m1/predict", `{"inputs":{"age":6}}`)
	var p types.PredictResponse
	decode(t, w, &p)
	if w.Code != http.StatusOK || p.Value != "gold" {
		t.Fatalf("predict status=%d body=%+v", w.Code, p)
	}
	if w := do(t, r, http.MethodPost, "/models/m1/predict", `{"inputs":{"age":"xyz"}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric predict status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/models/m1", "")
	var st types.ModelStatus
	decode(t, w, &st)
	if st.State != "ready" || st.MethodName != "knn" || st.TrainingSets != 2 || st.Info["k"] != float64(1) {
		t.Fatalf("describe=%+v", st)
	}

	if w := do(t, r, http.MethodPost, "/models/m1/rows", `{"inputs":{"age":1},"output":"gold"}`); w.Code != http.StatusConflict {
		t.Fatalf("add after ready status=%d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/models/m1/train", ""); w.Code != http.StatusOK {
		t.Fatalf("train on ready status=%d", w.Code)
	}

	var rm types.RemoveResponse
	decode(t, do(t, r, http.MethodDelete, "/models/m1", ""), &rm)
	if rm.Status != "removed" {
		t.Fatalf("remove=%+v", rm)
	}
	if w := do(t, r, http.MethodGet, "/models/m1", ""); w.Code != http.StatusNotFound {
		t.Fatalf("describe after remove status=%d", w.Code)
	}
}

func TestRegistryService_CreateErrors(t *testing.T) {
	r := NewMux(NewService(manager.New(native.Frameworks())))
	cases := []struct {
		body string
		want int
	}{
		{`{"name":"m","types":{"a":"vector"},"output":"a"}`, http.StatusBadRequest},
		{`{"name":"m","types":{"a":"float","b":"class"},"output":"b","config":{"framework":"tensorflow"}}`, http.StatusBadRequest},
		{`{"name":"m","types":{"a":"float","b":"class"},"output":"b","config":{"method":"svm"}}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		if w := do(t, r, http.MethodPost, "/models", c.body); w.Code != c.want {
			t.Fatalf("%s: status=%d body=%s", c.body, w.Code, w.Body.String())
		}
	}
}

func TestRegistryService_TrainingFailed(t *testing.T) {
	r := NewMux(NewService(manager.New(native.Frameworks())))
	do(t, r, http.MethodPost, "/models", `{"name":"m","types":{"a":"float","b":"class"},"output":"b"}`)
	do(t, r, http.MethodPost, "/models/m/rows", `{"inputs":{"a":1}}`)
	if w := do(t, r, http.MethodPost, "/models/m/train", ""); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
