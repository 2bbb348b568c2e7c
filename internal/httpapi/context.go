package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is a process-level context that can be canceled on shutdown.
// Defaults to Background if not set.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// backendContext returns the context handed to train/predict: canceled when
// the client goes away, when the server shuts down, or after requestTimeout.
// The returned cancel func must be called when the handler ends.
func backendContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(serverBaseCtx, cancel)
	if requestTimeout > 0 {
		tctx, tcancel := context.WithTimeout(ctx, requestTimeout)
		return tctx, func() { tcancel(); stop(); cancel() }
	}
	return ctx, func() { stop(); cancel() }
}
