package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Cell is one slot of a Row. Set is false for fields the example did not provide.
type Cell struct {
	Value string
	Set   bool
}

// Row is an encoded example aligned to schema offsets.
type Row []Cell

// Values returns the cell values with unset cells as empty strings.
func (r Row) Values() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Value
	}
	return out
}

// Equal reports whether two rows hold the same cells.
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

// Encode converts named inputs and an optional label into a Row.
// A nil label leaves the output cell unset. Values of float and order fields
// must parse as numbers.
func (s *Schema) Encode(inputs map[string]any, label any) (Row, error) {
	row := make(Row, len(s.fields))
	for name, v := range inputs {
		off, ok := s.offsets[name]
		if !ok {
			return nil, unknownFieldError{field: name}
		}
		if v == nil {
			continue
		}
		c, err := s.cell(off, v)
		if err != nil {
			return nil, err
		}
		row[off] = c
	}
	if label != nil {
		if s.output == "" {
			return nil, unknownFieldError{field: "(output)"}
		}
		off := s.offsets[s.output]
		c, err := s.cell(off, label)
		if err != nil {
			return nil, err
		}
		row[off] = c
	}
	return row, nil
}

func (s *Schema) cell(off int, v any) (Cell, error) {
	f := s.fields[off]
	text := Format(v)
	if f.Type.Numeric() {
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return Cell{}, invalidValueError{field: f.Name, typ: f.Type, value: text}
		}
	}
	return Cell{Value: text, Set: true}, nil
}

// Format renders a value in its canonical textual form.
func Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
