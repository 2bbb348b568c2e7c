package manager

import "context"

// The methods below are the name-keyed boundary used by host surfaces. Each
// resolves the model with Get first, so a missing name is always a
// not-found error rather than a state error.

// Add appends one example to the named model.
func (r *Registry) Add(name string, inputs map[string]any, output any) error {
	m, err := r.Get(name)
	if err != nil {
		return err
	}
	return m.Add(inputs, output)
}

// AddBatch appends examples to the named model, all or nothing.
func (r *Registry) AddBatch(name string, examples []Example) error {
	m, err := r.Get(name)
	if err != nil {
		return err
	}
	return m.AddBatch(examples)
}

// Train fits the named model.
func (r *Registry) Train(ctx context.Context, name string) error {
	m, err := r.Get(name)
	if err != nil {
		return err
	}
	return m.Train(ctx)
}

// Predict returns the named model's prediction for inputs.
func (r *Registry) Predict(ctx context.Context, name string, inputs map[string]any) (any, error) {
	m, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return m.Predict(ctx, inputs)
}

// Describe returns the status view of the named model.
func (r *Registry) Describe(name string) (Result, error) {
	m, err := r.Get(name)
	if err != nil {
		return Result{}, err
	}
	return m.Describe(), nil
}
