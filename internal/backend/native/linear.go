package native

import (
	"context"

	"mlmodeld/internal/schema"
)

// linearModel is least-squares regression on standardized features, fitted by
// full-batch gradient descent. Weights start at zero, so fits are
// deterministic.
type linearModel struct {
	enc *encoder
	W   []float64
	b   float64
	mse float64
}

func fitLinear(ctx context.Context, enc *encoder, X [][]float64, y []float64, epochs int, lr float64) (*linearModel, error) {
	m := &linearModel{enc: enc, W: make([]float64, enc.width)}
	n := float64(len(X))
	gW := make([]float64, len(m.W))
	for ep := 0; ep < epochs; ep++ {
		if ep%50 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for j := range gW {
			gW[j] = 0
		}
		gb := 0.0
		for i, row := range X {
			d := m.dot(row) - y[i]
			for j, xij := range row {
				gW[j] += d * xij
			}
			gb += d
		}
		for j := range m.W {
			m.W[j] -= lr * 2 * gW[j] / n
		}
		m.b -= lr * 2 * gb / n
	}
	for i, row := range X {
		d := m.dot(row) - y[i]
		m.mse += d * d
	}
	m.mse /= n
	return m, nil
}

func (m *linearModel) dot(x []float64) float64 {
	sum := m.b
	for j, v := range x {
		sum += m.W[j] * v
	}
	return sum
}

func (m *linearModel) Predict(ctx context.Context, row schema.Row) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x, err := m.enc.vector(row)
	if err != nil {
		return nil, err
	}
	return m.dot(x), nil
}

func (m *linearModel) Info() map[string]any {
	names := m.enc.featureNames()
	weights := make(map[string]float64, len(names))
	for i, n := range names {
		weights[n] = m.W[i]
	}
	return map[string]any{
		"weights": weights,
		"bias":    m.b,
		"mse":     m.mse,
	}
}
