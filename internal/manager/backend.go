package manager

import (
	"context"

	"mlmodeld/internal/schema"
)

// Backend is a learning algorithm bound to one model's schema.
// Implementations receive rows aligned to the schema offsets and never see
// the field names unless they ask the schema they were built with.
type Backend interface {
	// Method names the algorithm (e.g., "knn").
	Method() string
	// Fit trains on rows in insertion order. Implementations must return
	// when ctx is canceled.
	Fit(ctx context.Context, rows []schema.Row) (Fitted, error)
}

// Fitted is an immutable trained model. Predict may be called concurrently.
type Fitted interface {
	// Predict returns the predicted output for a row whose output cell is unset.
	Predict(ctx context.Context, row schema.Row) (any, error)
}

// InfoProvider is implemented by fitted models that expose diagnostics for
// describe. Info is computed once per fitted model and cached.
type InfoProvider interface {
	Info() map[string]any
}

// Factory constructs a Backend for a schema and the create-time config map.
type Factory func(s *schema.Schema, config map[string]any) (Backend, error)
