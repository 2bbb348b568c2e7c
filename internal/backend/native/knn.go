package native

import (
	"context"
	"sort"

	"mlmodeld/internal/schema"
)

// knnModel stores the training set; prediction is the majority label (class
// output) or the mean target (numeric output) of the k nearest rows.
type knnModel struct {
	enc    *encoder
	X      [][]float64
	labels []string
	y      []float64 // nil for class outputs
	k      int
}

func fitKNN(enc *encoder, X [][]float64, labels []string, y []float64, k int) *knnModel {
	if k > len(X) {
		k = len(X)
	}
	return &knnModel{enc: enc, X: X, labels: labels, y: y, k: k}
}

func (m *knnModel) Predict(ctx context.Context, row schema.Row) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	xi, err := m.enc.vector(row)
	if err != nil {
		return nil, err
	}
	nbrs := m.nearest(xi)
	if m.y != nil {
		sum := 0.0
		for _, j := range nbrs {
			sum += m.y[j]
		}
		return sum / float64(len(nbrs)), nil
	}
	// Majority vote; ties go to the label whose first vote came from the
	// closer neighbour.
	votes := make(map[string]int, len(nbrs))
	best, bestVotes := "", 0
	for _, j := range nbrs {
		l := m.labels[j]
		votes[l]++
		if votes[l] > bestVotes {
			best, bestVotes = l, votes[l]
		}
	}
	return best, nil
}

// nearest returns the indices of the k closest training rows, closest first.
// Equal distances keep insertion order so predictions are reproducible.
func (m *knnModel) nearest(xi []float64) []int {
	type pair struct {
		d float64
		i int
	}
	all := make([]pair, len(m.X))
	for j, xj := range m.X {
		all[j] = pair{d: euclidSquared(xi, xj), i: j}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].d < all[b].d })
	out := make([]int, m.k)
	for n := 0; n < m.k; n++ {
		out[n] = all[n].i
	}
	return out
}

func (m *knnModel) Info() map[string]any {
	info := map[string]any{
		"k":        m.k,
		"rows":     len(m.X),
		"features": m.enc.featureNames(),
	}
	if m.y == nil {
		info["classes"] = classCounts(m.labels)
	}
	return info
}

func classCounts(labels []string) map[string]int {
	out := map[string]int{}
	for _, l := range labels {
		out[l]++
	}
	return out
}
