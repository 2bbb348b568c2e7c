package schema

import (
	"errors"
	"fmt"
	"net/http"
)

// unknownFieldError signals a row that names a field the schema does not know.
type unknownFieldError struct{ field string }

func (e unknownFieldError) Error() string   { return "unknown field: " + e.field }
func (e unknownFieldError) StatusCode() int { return http.StatusBadRequest }

// IsUnknownField reports whether err (or anything it wraps) is an unknown-field error.
func IsUnknownField(err error) bool {
	var e unknownFieldError
	return errors.As(err, &e)
}

type invalidTypeError struct{ token string }

func (e invalidTypeError) Error() string   { return "unknown type: " + e.token }
func (e invalidTypeError) StatusCode() int { return http.StatusBadRequest }

// IsInvalidType reports whether err is an unparseable data type token.
func IsInvalidType(err error) bool {
	var e invalidTypeError
	return errors.As(err, &e)
}

// invalidValueError signals a value that cannot be read as its field's type,
// such as a non-numeric string in a float or order field.
type invalidValueError struct {
	field string
	typ   DataType
	value string
}

func (e invalidValueError) Error() string {
	return fmt.Sprintf("field %s: %q is not a valid %s value", e.field, e.value, e.typ)
}
func (e invalidValueError) StatusCode() int { return http.StatusBadRequest }

// IsInvalidValue reports whether err is a value rejected by its field's type.
func IsInvalidValue(err error) bool {
	var e invalidValueError
	return errors.As(err, &e)
}
