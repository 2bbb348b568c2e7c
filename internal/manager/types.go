package manager

// State is the lifecycle state of a model handle.
type State string

const (
	StateCreated  State = "created"
	StateTraining State = "training"
	StateReady    State = "ready"
	StateRemoved  State = "removed"
	// StateUnknown is reported for names that do not exist. No live model is
	// ever in this state.
	StateUnknown State = "unknown"
)

// Result is a read-only projection of a model, used for describe and remove.
type Result struct {
	Name       string
	State      State
	Framework  string
	MethodName string
	// TrainingSets is the number of buffered rows; zero means none were added.
	TrainingSets int
	// Info holds backend diagnostics for ready models, or the last fit error
	// of a model still in training.
	Info map[string]any
}

// Example is one named-input training example.
type Example struct {
	Inputs map[string]any
	Output any
}
