package manager

// Event represents a model lifecycle event.
// Minimal and stable: name + model name and optional fields via key/values.
type Event struct {
	Name   string
	Model  string
	Fields map[string]any
}

// Event names published by the registry and model handles.
const (
	EventModelCreated  = "model_created"
	EventModelReplaced = "model_replaced"
	EventModelRemoved  = "model_removed"
	EventRowsAdded     = "rows_added"
	EventTrainStart    = "train_start"
	EventTrainDone     = "train_done"
	EventTrainFailed   = "train_failed"
)

// EventPublisher receives events from the registry. Implementations should be
// lightweight and non-blocking; Publish must not panic. Publish may be called
// while a model's lock is held.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
