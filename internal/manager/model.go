package manager

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mlmodeld/internal/schema"
)

// Model is a single named model handle: schema, buffered rows, lifecycle
// state and a bound backend. All methods are safe for concurrent use.
type Model struct {
	name      string
	id        string // generation id, unique per Create
	framework string
	schema    *schema.Schema
	backend   Backend
	created   time.Time

	pub   EventPublisher
	cache *infoCache

	// fits coalesces concurrent Train calls into one backend fit.
	fits singleflight.Group

	mu        sync.Mutex
	state     State
	buf       trainingBuffer
	fitted    Fitted
	trainedAt time.Time
	lastErr   string
}

// Name returns the immutable model name.
func (m *Model) Name() string { return m.name }

// ID returns the generation id assigned at creation.
func (m *Model) ID() string { return m.id }

// Schema returns the model's row layout.
func (m *Model) Schema() *schema.Schema { return m.schema }

// State returns the current lifecycle state.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// setState moves the lifecycle forward. Callers hold m.mu.
func (m *Model) setState(to State) error {
	if !canTransition(m.state, to) {
		return ErrIllegalState(m.name, m.state, "move to "+string(to))
	}
	m.state = to
	return nil
}

func (m *Model) wrap(err error) error {
	return modelError{model: m.name, state: m.state, err: err}
}

// Add encodes one example and appends it to the training buffer.
func (m *Model) Add(inputs map[string]any, output any) error {
	return m.AddBatch([]Example{{Inputs: inputs, Output: output}})
}

// AddBatch encodes every example before appending any, so a batch with one
// bad row leaves the buffer unchanged.
func (m *Model) AddBatch(examples []Example) error {
	if len(examples) == 0 {
		return nil
	}
	m.mu.Lock()
	if !m.state.CanAcceptTrainingData() {
		st := m.state
		m.mu.Unlock()
		return ErrIllegalState(m.name, st, "add")
	}
	rows := make([]schema.Row, 0, len(examples))
	for _, ex := range examples {
		row, err := m.schema.Encode(ex.Inputs, ex.Output)
		if err != nil {
			err = m.wrap(err)
			m.mu.Unlock()
			return err
		}
		rows = append(rows, row)
	}
	m.buf.append(rows...)
	_ = m.setState(StateTraining)
	total := m.buf.len()
	m.pub.Publish(Event{Name: EventRowsAdded, Model: m.name, Fields: map[string]any{"rows": len(rows), "total": total}})
	m.mu.Unlock()
	rowsAddedTotal.Add(float64(len(rows)))
	return nil
}

// Train fits the buffered rows. It is a no-op for ready models. Concurrent
// callers share a single fit and all observe its outcome; the context of the
// caller that started the fit governs cancellation.
func (m *Model) Train(ctx context.Context) error {
	_, err, _ := m.fits.Do("fit", func() (any, error) {
		return nil, m.train(ctx)
	})
	return err
}

func (m *Model) train(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.state == StateReady:
		return nil
	case m.state == StateCreated:
		return ErrNotReady(m.name, m.state)
	case !m.state.CanTrain():
		return ErrIllegalState(m.name, m.state, "train")
	}

	rows := m.buf.snapshot()
	method := m.backend.Method()
	m.pub.Publish(Event{Name: EventTrainStart, Model: m.name, Fields: map[string]any{"rows": len(rows), "method": method}})
	start := time.Now()
	fitted, err := m.backend.Fit(ctx, rows)
	if err == nil && fitted == nil {
		err = errors.New("backend returned no fitted model")
	}
	dur := time.Since(start)
	fitDuration.WithLabelValues(method).Observe(dur.Seconds())
	fitsTotal.WithLabelValues(method, resultLabel(err)).Inc()
	if err != nil {
		m.lastErr = err.Error()
		m.pub.Publish(Event{Name: EventTrainFailed, Model: m.name, Fields: map[string]any{"error": err.Error(), "dur_ms": dur.Milliseconds()}})
		return trainingFailedError{model: m.name, state: m.state, cause: err}
	}
	m.fitted = fitted
	m.trainedAt = time.Now()
	m.lastErr = ""
	_ = m.setState(StateReady)
	m.pub.Publish(Event{Name: EventTrainDone, Model: m.name, Fields: map[string]any{"rows": len(rows), "dur_ms": dur.Milliseconds()}})
	return nil
}

// Predict trains lazily if needed, then asks the fitted model for the output
// of inputs. The returned value's type depends on the backend.
func (m *Model) Predict(ctx context.Context, inputs map[string]any) (any, error) {
	if m.State() != StateReady {
		if err := m.Train(ctx); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	if m.state != StateReady {
		st := m.state
		m.mu.Unlock()
		if st == StateRemoved {
			return nil, ErrIllegalState(m.name, st, "predict")
		}
		return nil, ErrNotReady(m.name, st)
	}
	row, err := m.schema.Encode(inputs, nil)
	if err != nil {
		err = m.wrap(err)
		m.mu.Unlock()
		return nil, err
	}
	fitted := m.fitted
	m.mu.Unlock()

	method := m.backend.Method()
	v, err := fitted.Predict(ctx, row)
	predictionsTotal.WithLabelValues(method, resultLabel(err)).Inc()
	if err != nil {
		return nil, modelError{model: m.name, state: StateReady, err: err}
	}
	return v, nil
}

// Describe returns the model's status view. Ready models include backend
// diagnostics merged into Info.
func (m *Model) Describe() Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := Result{
		Name:         m.name,
		State:        m.state,
		Framework:    m.framework,
		MethodName:   m.backend.Method(),
		TrainingSets: m.buf.len(),
	}
	// Cache access stays under mu so it is ordered against markRemoved's forget.
	if m.state == StateReady && m.fitted != nil {
		info := map[string]any{"trainedAt": m.trainedAt.UTC().Format(time.RFC3339)}
		maps.Copy(info, m.cache.get(m.id, m.fitted))
		res.Info = info
	} else if m.lastErr != "" {
		res.Info = map[string]any{"lastError": m.lastErr}
	}
	return res
}

// markRemoved moves the handle to its terminal state. It waits for any fit
// in progress on this model.
func (m *Model) markRemoved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Live() {
		_ = m.setState(StateRemoved)
	}
	m.cache.forget(m.id)
}
