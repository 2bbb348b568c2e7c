package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mlmodeld/internal/schema"
)

// fakeBackend is a lightweight in-memory backend used for tests.
type fakeBackend struct {
	fitErr error
	// block, when set, makes Fit wait until it is closed.
	block chan struct{}
	// started receives one value per Fit call, without blocking.
	started chan struct{}

	fitCalls  atomic.Int32
	infoCalls atomic.Int32

	mu      sync.Mutex
	gotRows []schema.Row
}

func (f *fakeBackend) Method() string { return "fake" }

func (f *fakeBackend) Fit(ctx context.Context, rows []schema.Row) (Fitted, error) {
	f.fitCalls.Add(1)
	f.mu.Lock()
	f.gotRows = rows
	f.mu.Unlock()
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.fitErr != nil {
		return nil, f.fitErr
	}
	return fakeFitted{rows: len(rows), infoCalls: &f.infoCalls}, nil
}

func (f *fakeBackend) rows() []schema.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotRows
}

type fakeFitted struct {
	rows      int
	infoCalls *atomic.Int32
}

func (p fakeFitted) Predict(ctx context.Context, row schema.Row) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if row[0].Set {
		return "seen:" + row[0].Value, nil
	}
	return "empty", nil
}

func (p fakeFitted) Info() map[string]any {
	p.infoCalls.Add(1)
	return map[string]any{"rows": p.rows}
}

func fakeFactory(fb *fakeBackend) Factory {
	return func(s *schema.Schema, cfg map[string]any) (Backend, error) {
		if cfg["method"] == "bad" {
			return nil, ErrInvalidConfig("unsupported method %v", cfg["method"])
		}
		return fb, nil
	}
}

// newTestRegistry returns a registry whose default framework is backed by fb.
func newTestRegistry(t *testing.T, fb *fakeBackend) (*Registry, *MemoryPublisher) {
	t.Helper()
	pub := NewMemoryPublisher()
	r := NewWithConfig(RegistryConfig{
		Frameworks: map[string]Factory{"native": fakeFactory(fb), "Other": fakeFactory(fb)},
		Publisher:  pub,
	})
	return r, pub
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

var scenarioTypes = map[string]string{"age": "FLOAT", "tier": "CLASS"}

func contextWithCancel(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	c, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return c, cancel
}
