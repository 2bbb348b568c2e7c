package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBackendContext_CanceledByBaseContext(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	SetBaseContext(base)
	defer SetBaseContext(nil)

	ctx, cancel := backendContext(httptest.NewRequest(http.MethodPost, "/models/m/train", nil))
	defer cancel()
	cancelBase()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected cancellation after base context canceled")
	}
}

func TestBackendContext_CanceledByRequest(t *testing.T) {
	rctx, cancelReq := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/models/m/train", nil).WithContext(rctx)
	ctx, cancel := backendContext(req)
	defer cancel()
	cancelReq()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected cancellation after request context canceled")
	}
}

func TestBackendContext_Timeout(t *testing.T) {
	SetRequestTimeoutSeconds(1)
	defer SetRequestTimeoutSeconds(0)
	ctx, cancel := backendContext(httptest.NewRequest(http.MethodPost, "/models/m/predict", nil))
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Fatalf("expected deadline")
	}
}

func TestTrainReceivesBackendContext(t *testing.T) {
	SetRequestTimeoutSeconds(5)
	defer SetRequestTimeoutSeconds(0)
	svc := newMock()
	svc.models["m1"] = managerResult("m1")
	do(t, NewMux(svc), http.MethodPost, "/models/m1/train", "")
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.gotCtx == nil {
		t.Fatalf("train not called")
	}
	if _, ok := svc.gotCtx.Deadline(); !ok {
		t.Fatalf("expected train context to carry the request timeout")
	}
}
