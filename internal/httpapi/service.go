package httpapi

import (
	"context"

	"mlmodeld/internal/manager"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	CreateModel(name string, fieldTypes map[string]string, output string, config map[string]any) (manager.Result, error)
	List() []manager.Result
	Describe(name string) (manager.Result, error)
	Remove(name string) manager.Result
	AddBatch(name string, examples []manager.Example) error
	Train(ctx context.Context, name string) error
	Predict(ctx context.Context, name string, inputs map[string]any) (any, error)
	Frameworks() []string
	DefaultFramework() string
	Ready() bool
}

// registryService adapts a registry, whose Create returns the live handle,
// to Service.
type registryService struct {
	*manager.Registry
}

// NewService exposes reg through the HTTP API.
func NewService(reg *manager.Registry) Service {
	return registryService{Registry: reg}
}

func (s registryService) CreateModel(name string, fieldTypes map[string]string, output string, config map[string]any) (manager.Result, error) {
	m, err := s.Create(name, fieldTypes, output, config)
	if err != nil {
		return manager.Result{}, err
	}
	return m.Describe(), nil
}
