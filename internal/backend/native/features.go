package native

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"mlmodeld/internal/schema"
)

// column maps one input field to one or more feature slots.
type column struct {
	name    string
	offset  int // row offset
	start   int // first feature slot
	numeric bool
	mean    float64
	std     float64
	cats    map[string]int // class value -> slot index relative to start
	catList []string
}

// encoder turns rows into standardized feature vectors. It is fitted once
// and read-only afterwards.
type encoder struct {
	cols  []column
	width int
}

func fitEncoder(s *schema.Schema, rows []schema.Row) (*encoder, error) {
	enc := &encoder{}
	for _, f := range s.Fields() {
		if f.Output {
			continue
		}
		col := column{name: f.Name, offset: f.Offset, start: enc.width, numeric: f.Type.Numeric()}
		if col.numeric {
			var vals []float64
			for i, row := range rows {
				c := row[f.Offset]
				if !c.Set {
					continue
				}
				v, err := strconv.ParseFloat(c.Value, 64)
				if err != nil {
					return nil, fmt.Errorf("row %d: field %s: %q is not a number", i, f.Name, c.Value)
				}
				vals = append(vals, v)
			}
			col.mean, col.std = meanStd(vals)
			enc.width++
		} else {
			col.cats = map[string]int{}
			for _, row := range rows {
				if c := row[f.Offset]; c.Set {
					col.cats[c.Value] = 0
				}
			}
			for v := range col.cats {
				col.catList = append(col.catList, v)
			}
			sort.Strings(col.catList)
			for i, v := range col.catList {
				col.cats[v] = i
			}
			enc.width += len(col.catList)
		}
		enc.cols = append(enc.cols, col)
	}
	return enc, nil
}

// vector encodes a row. Unset numeric cells take the training mean (0 after
// scaling); unset or unseen class cells leave their one-hot slots at zero.
func (e *encoder) vector(row schema.Row) ([]float64, error) {
	out := make([]float64, e.width)
	for _, col := range e.cols {
		c := row[col.offset]
		if !c.Set {
			continue
		}
		if col.numeric {
			v, err := strconv.ParseFloat(c.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("field %s: %q is not a number", col.name, c.Value)
			}
			if col.std > 0 {
				out[col.start] = (v - col.mean) / col.std
			}
			continue
		}
		if i, ok := col.cats[c.Value]; ok {
			out[col.start+i] = 1
		}
	}
	return out, nil
}

// featureNames labels every slot, "field" for numeric and "field=value" for
// one-hot slots.
func (e *encoder) featureNames() []string {
	out := make([]string, 0, e.width)
	for _, col := range e.cols {
		if col.numeric {
			out = append(out, col.name)
			continue
		}
		for _, v := range col.catList {
			out = append(out, col.name+"="+v)
		}
	}
	return out
}

func meanStd(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	ss := 0.0
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(vals)))
}

// euclidSquared computes the squared Euclidean distance between two vectors.
func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
