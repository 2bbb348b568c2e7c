package manager

import "sort"

// List describes every registered model, sorted by name.
func (r *Registry) List() []Result {
	r.mu.RLock()
	models := make([]*Model, 0, len(r.models))
	for _, m := range r.models {
		models = append(models, m)
	}
	r.mu.RUnlock()
	sort.Slice(models, func(i, j int) bool { return models[i].name < models[j].name })
	out := make([]Result, 0, len(models))
	for _, m := range models {
		out = append(out, m.Describe())
	}
	return out
}

// StateCounts returns how many registered models are in each state.
func (r *Registry) StateCounts() map[State]int {
	r.mu.RLock()
	models := make([]*Model, 0, len(r.models))
	for _, m := range r.models {
		models = append(models, m)
	}
	r.mu.RUnlock()
	out := make(map[State]int, 3)
	for _, m := range models {
		out[m.State()]++
	}
	return out
}
