package native

import (
	"context"
	"sort"

	"mlmodeld/internal/schema"
)

// centroidModel predicts the class whose mean feature vector is closest.
type centroidModel struct {
	enc       *encoder
	classes   []string // sorted
	centroids [][]float64
	counts    []int
}

func fitCentroid(enc *encoder, X [][]float64, labels []string) *centroidModel {
	idx := map[string]int{}
	for _, l := range labels {
		idx[l] = 0
	}
	m := &centroidModel{enc: enc}
	for l := range idx {
		m.classes = append(m.classes, l)
	}
	sort.Strings(m.classes)
	m.centroids = make([][]float64, len(m.classes))
	m.counts = make([]int, len(m.classes))
	for i, l := range m.classes {
		idx[l] = i
		m.centroids[i] = make([]float64, enc.width)
	}
	for r, x := range X {
		c := idx[labels[r]]
		m.counts[c]++
		for j, v := range x {
			m.centroids[c][j] += v
		}
	}
	for c, sum := range m.centroids {
		for j := range sum {
			sum[j] /= float64(m.counts[c])
		}
	}
	return m
}

func (m *centroidModel) Predict(ctx context.Context, row schema.Row) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x, err := m.enc.vector(row)
	if err != nil {
		return nil, err
	}
	best, bestD := 0, euclidSquared(x, m.centroids[0])
	for c := 1; c < len(m.centroids); c++ {
		if d := euclidSquared(x, m.centroids[c]); d < bestD {
			best, bestD = c, d
		}
	}
	return m.classes[best], nil
}

func (m *centroidModel) Info() map[string]any {
	counts := make(map[string]int, len(m.classes))
	for i, c := range m.classes {
		counts[c] = m.counts[i]
	}
	return map[string]any{
		"classes":  counts,
		"features": m.enc.featureNames(),
	}
}
