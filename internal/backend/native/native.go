// Package native is the built-in backend framework. It offers three small
// supervised methods over schema rows: k-nearest-neighbour ("knn", default),
// nearest class centroid ("centroid") and linear regression ("linear").
//
// Class fields are one-hot encoded with the categories seen at fit time;
// float and order fields are standardized, and unset numeric cells take the
// column mean.
package native

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"mlmodeld/internal/manager"
	"mlmodeld/internal/schema"
)

// Framework is the key this package registers under.
const Framework = "native"

// Method names.
const (
	MethodKNN      = "knn"
	MethodCentroid = "centroid"
	MethodLinear   = "linear"
)

const (
	defaultK            = 3
	defaultEpochs       = 500
	defaultLearningRate = 0.05
)

// Frameworks returns the factory map entry for this package.
func Frameworks() map[string]manager.Factory {
	return map[string]manager.Factory{Framework: New}
}

// New builds a backend from the create-time config. Recognized keys:
// "method", "k" (knn), "epochs" and "learningRate" (linear).
func New(s *schema.Schema, cfg map[string]any) (manager.Backend, error) {
	if s.OutputOffset() < 0 {
		return nil, manager.ErrInvalidConfig("native methods need an output field")
	}
	method := MethodKNN
	if v, ok := cfg["method"]; ok && v != nil {
		method = strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
	}
	out := s.Field(s.OutputOffset())
	b := &backend{schema: s, method: method}
	var err error
	switch method {
	case MethodKNN:
		if b.k, err = intOpt(cfg, "k", defaultK); err != nil {
			return nil, err
		}
		if b.k < 1 {
			return nil, manager.ErrInvalidConfig("k must be positive, got %d", b.k)
		}
	case MethodCentroid:
		if out.Type.Numeric() {
			return nil, manager.ErrInvalidConfig("centroid needs a class output, %s is %s", out.Name, out.Type)
		}
	case MethodLinear:
		if !out.Type.Numeric() {
			return nil, manager.ErrInvalidConfig("linear needs a float or order output, %s is %s", out.Name, out.Type)
		}
		if b.epochs, err = intOpt(cfg, "epochs", defaultEpochs); err != nil {
			return nil, err
		}
		if b.lr, err = floatOpt(cfg, "learningRate", defaultLearningRate); err != nil {
			return nil, err
		}
		if b.epochs < 1 || b.lr <= 0 {
			return nil, manager.ErrInvalidConfig("epochs and learningRate must be positive")
		}
	default:
		return nil, manager.ErrInvalidConfig("unsupported method %q", method)
	}
	return b, nil
}

type backend struct {
	schema *schema.Schema
	method string
	k      int
	epochs int
	lr     float64
}

func (b *backend) Method() string { return b.method }

func (b *backend) Fit(ctx context.Context, rows []schema.Row) (manager.Fitted, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	enc, err := fitEncoder(b.schema, rows)
	if err != nil {
		return nil, err
	}
	X := make([][]float64, len(rows))
	for i, row := range rows {
		if X[i], err = enc.vector(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := b.schema.Field(b.schema.OutputOffset())
	labels := make([]string, len(rows))
	for i, row := range rows {
		c := row[out.Offset]
		if !c.Set {
			return nil, fmt.Errorf("row %d has no value for output field %s", i, out.Name)
		}
		labels[i] = c.Value
	}
	var y []float64
	if out.Type.Numeric() {
		y = make([]float64, len(labels))
		for i, l := range labels {
			if y[i], err = strconv.ParseFloat(l, 64); err != nil {
				return nil, fmt.Errorf("row %d: output %s: %q is not a number", i, out.Name, l)
			}
		}
	}

	switch b.method {
	case MethodCentroid:
		return fitCentroid(enc, X, labels), nil
	case MethodLinear:
		return fitLinear(ctx, enc, X, y, b.epochs, b.lr)
	default:
		return fitKNN(enc, X, labels, y, b.k), nil
	}
}

func intOpt(cfg map[string]any, key string, def int) (int, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return def, nil
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != float64(int(x)) {
			return 0, manager.ErrInvalidConfig("%s must be an integer, got %v", key, x)
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, manager.ErrInvalidConfig("%s must be an integer, got %v", key, x)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, manager.ErrInvalidConfig("%s must be an integer, got %q", key, x)
		}
		return n, nil
	default:
		return 0, manager.ErrInvalidConfig("%s must be an integer, got %T", key, v)
	}
}

func floatOpt(cfg map[string]any, key string, def float64) (float64, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return def, nil
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, manager.ErrInvalidConfig("%s must be a number, got %v", key, x)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, manager.ErrInvalidConfig("%s must be a number, got %q", key, x)
		}
		return f, nil
	default:
		return 0, manager.ErrInvalidConfig("%s must be a number, got %T", key, v)
	}
}
