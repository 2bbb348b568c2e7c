// Package schema maps named model fields to data types and fixed row offsets,
// and encodes named inputs into offset-aligned rows.
package schema

import (
	"sort"
	"strings"
)

// DataType is the declared kind of a field.
type DataType string

const (
	TypeClass DataType = "class"
	TypeFloat DataType = "float"
	TypeOrder DataType = "order"
)

// ParseDataType maps a case-insensitive type token to a DataType.
func ParseDataType(name string) (DataType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "CLASS":
		return TypeClass, nil
	case "FLOAT":
		return TypeFloat, nil
	case "ORDER":
		return TypeOrder, nil
	default:
		return "", invalidTypeError{token: name}
	}
}

// Numeric reports whether values of this type are parsed as numbers.
func (t DataType) Numeric() bool { return t == TypeFloat || t == TypeOrder }

// Field describes one column of a row.
type Field struct {
	Name   string
	Type   DataType
	Offset int
	Output bool
}

// Schema is immutable after construction and safe for concurrent use.
type Schema struct {
	fields  []Field
	offsets map[string]int
	output  string
}

// New builds a Schema from type tokens keyed by field name.
//
// Input fields get offsets in lexicographic name order; the output field, if
// any, takes the last offset. An output field without a declared type is a
// class field.
func New(types map[string]string, output string) (*Schema, error) {
	names := make([]string, 0, len(types))
	for name := range types {
		if name == output {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	s := &Schema{
		fields:  make([]Field, 0, len(names)+1),
		offsets: make(map[string]int, len(names)+1),
		output:  output,
	}
	for _, name := range names {
		dt, err := ParseDataType(types[name])
		if err != nil {
			return nil, err
		}
		s.add(Field{Name: name, Type: dt})
	}
	if output != "" {
		dt := TypeClass
		if tok, ok := types[output]; ok {
			var err error
			if dt, err = ParseDataType(tok); err != nil {
				return nil, err
			}
		}
		s.add(Field{Name: output, Type: dt, Output: true})
	}
	return s, nil
}

func (s *Schema) add(f Field) {
	f.Offset = len(s.fields)
	s.fields = append(s.fields, f)
	s.offsets[f.Name] = f.Offset
}

// Len is the number of columns in a row.
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns the columns in offset order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the column at offset i.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Offset returns the column offset of a field.
func (s *Schema) Offset(name string) (int, bool) {
	off, ok := s.offsets[name]
	return off, ok
}

// Output returns the output field name, empty when the schema has none.
func (s *Schema) Output() string { return s.output }

// OutputOffset returns the offset of the output field, or -1.
func (s *Schema) OutputOffset() int {
	if s.output == "" {
		return -1
	}
	return s.offsets[s.output]
}

// Types returns the declared type of every field keyed by name.
func (s *Schema) Types() map[string]DataType {
	out := make(map[string]DataType, len(s.fields))
	for _, f := range s.fields {
		out[f.Name] = f.Type
	}
	return out
}
