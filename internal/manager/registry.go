package manager

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mlmodeld/internal/schema"
)

// Registry is a concurrent name -> Model map. Create one per process and pass
// it to whatever host surface needs it.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model

	frameworks       map[string]Factory
	defaultFramework string
	publisher        EventPublisher
	info             *infoCache

	ready     atomic.Bool
	startTime time.Time
}

// New returns a Registry with the given frameworks and package defaults.
func New(frameworks map[string]Factory) *Registry {
	return NewWithConfig(RegistryConfig{Frameworks: frameworks})
}

// NewWithConfig constructs a Registry from RegistryConfig.
func NewWithConfig(cfg RegistryConfig) *Registry {
	r := &Registry{
		models:           make(map[string]*Model),
		frameworks:       make(map[string]Factory, len(cfg.Frameworks)),
		defaultFramework: strings.ToLower(cfg.DefaultFramework),
		publisher:        cfg.Publisher,
		info:             newInfoCache(cfg.InfoCacheSize),
		startTime:        time.Now(),
	}
	for k, f := range cfg.Frameworks {
		r.frameworks[strings.ToLower(k)] = f
	}
	if r.defaultFramework == "" {
		r.defaultFramework = defaultFramework
	}
	if r.publisher == nil {
		r.publisher = noopPublisher{}
	}
	return r
}

// Create builds a model and registers it under name, replacing any model
// already registered there. The replaced model moves to the removed state.
// config["framework"] selects the backend; the rest of config is passed to
// the framework's factory. Nothing is registered when Create fails.
func (r *Registry) Create(name string, fieldTypes map[string]string, outputField string, config map[string]any) (*Model, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidConfig("model name is required")
	}
	framework := r.defaultFramework
	if v, ok := config["framework"]; ok && v != nil {
		framework = strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
	}
	factory, ok := r.frameworks[framework]
	if !ok {
		return nil, ErrUnsupportedFramework(framework)
	}
	sch, err := schema.New(fieldTypes, outputField)
	if err != nil {
		return nil, err
	}
	backend, err := factory(sch, maps.Clone(config))
	if err != nil {
		return nil, fmt.Errorf("framework %s: %w", framework, err)
	}

	m := &Model{
		name:      name,
		id:        uuid.NewString(),
		framework: framework,
		schema:    sch,
		backend:   backend,
		created:   time.Now(),
		pub:       r.publisher,
		cache:     r.info,
		state:     StateCreated,
	}

	r.mu.Lock()
	old := r.models[name]
	r.models[name] = m
	r.mu.Unlock()

	modelsCreatedTotal.WithLabelValues(framework).Inc()
	if old != nil {
		old.markRemoved()
		modelsRemovedTotal.WithLabelValues("replaced").Inc()
		r.publisher.Publish(Event{Name: EventModelReplaced, Model: name, Fields: map[string]any{"previous_id": old.id}})
	} else {
		liveModels.Inc()
	}
	r.publisher.Publish(Event{Name: EventModelCreated, Model: name, Fields: map[string]any{
		"id": m.id, "framework": framework, "method": backend.Method(), "fields": sch.Len(),
	}})
	return m, nil
}

// Get returns the model registered under name.
func (r *Registry) Get(name string) (*Model, error) {
	r.mu.RLock()
	m, ok := r.models[name]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrModelNotFound(name)
	}
	return m, nil
}

// Remove unregisters name. It never fails: a missing name reports
// StateUnknown, an existing one StateRemoved.
func (r *Registry) Remove(name string) Result {
	r.mu.Lock()
	m, ok := r.models[name]
	if ok {
		delete(r.models, name)
	}
	r.mu.Unlock()
	if !ok {
		modelsRemovedTotal.WithLabelValues(string(StateUnknown)).Inc()
		return Result{Name: name, State: StateUnknown}
	}
	m.markRemoved()
	liveModels.Dec()
	modelsRemovedTotal.WithLabelValues(string(StateRemoved)).Inc()
	r.publisher.Publish(Event{Name: EventModelRemoved, Model: name, Fields: map[string]any{"id": m.id}})
	return Result{Name: name, State: StateRemoved}
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Frameworks returns the registered framework keys, sorted.
func (r *Registry) Frameworks() []string {
	out := make([]string, 0, len(r.frameworks))
	for k := range r.frameworks {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultFramework returns the framework used when create config omits one.
func (r *Registry) DefaultFramework() string { return r.defaultFramework }

// MarkReady flags startup as complete (catalog loaded).
func (r *Registry) MarkReady() { r.ready.Store(true) }

// Ready reports whether MarkReady was called.
func (r *Registry) Ready() bool { return r.ready.Load() }

// Uptime returns the time since the registry was constructed.
func (r *Registry) Uptime() time.Duration { return time.Since(r.startTime) }
