package manager

import (
	"errors"
	"fmt"
	"net/http"

	"mlmodeld/internal/schema"
)

// modelNotFoundError is returned by lookups of names that are not registered.
type modelNotFoundError struct{ name string }

func (e modelNotFoundError) Error() string   { return "No valid ML-Model " + e.name }
func (e modelNotFoundError) StatusCode() int { return http.StatusNotFound }

// ErrModelNotFound returns the lookup failure for name.
func ErrModelNotFound(name string) error { return modelNotFoundError{name: name} }

// IsModelNotFound reports whether the error indicates a missing model name.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

type unsupportedFrameworkError struct{ framework string }

func (e unsupportedFrameworkError) Error() string   { return "Unknown framework: " + e.framework }
func (e unsupportedFrameworkError) StatusCode() int { return http.StatusBadRequest }

// ErrUnsupportedFramework reports a framework key with no registered factory.
func ErrUnsupportedFramework(framework string) error {
	return unsupportedFrameworkError{framework: framework}
}

// IsUnsupportedFramework reports whether err is an unknown framework selector.
func IsUnsupportedFramework(err error) bool {
	var e unsupportedFrameworkError
	return errors.As(err, &e)
}

// illegalStateError signals an operation the model's current state forbids.
type illegalStateError struct {
	model string
	state State
	op    string
}

func (e illegalStateError) Error() string {
	if e.op == "add" {
		return fmt.Sprintf("Model %s not able to accept training data, state is: %s", e.model, e.state)
	}
	return fmt.Sprintf("Model %s cannot %s, state is: %s", e.model, e.op, e.state)
}

func (e illegalStateError) StatusCode() int { return http.StatusConflict }

// ErrIllegalState constructs an illegal-state error for op on model.
func ErrIllegalState(model string, state State, op string) error {
	return illegalStateError{model: model, state: state, op: op}
}

// IsIllegalState reports whether err is an operation rejected by the lifecycle.
func IsIllegalState(err error) bool {
	var e illegalStateError
	return errors.As(err, &e)
}

// notReadyError means the model has no training data to fit.
type notReadyError struct {
	model string
	state State
}

func (e notReadyError) Error() string {
	if e.state == StateCreated {
		return fmt.Sprintf("Model %s is not ready to predict, it has no training data, state is %s", e.model, e.state)
	}
	return fmt.Sprintf("Model %s is not ready to predict, state is %s", e.model, e.state)
}

func (e notReadyError) StatusCode() int { return http.StatusConflict }

// ErrNotReady constructs a not-ready error.
func ErrNotReady(model string, state State) error { return notReadyError{model: model, state: state} }

// IsNotReady reports whether err indicates unmet training prerequisites.
func IsNotReady(err error) bool {
	var e notReadyError
	return errors.As(err, &e)
}

// trainingFailedError wraps a backend fit failure.
type trainingFailedError struct {
	model string
	state State
	cause error
}

func (e trainingFailedError) Error() string {
	return fmt.Sprintf("Model %s training failed, state is %s: %v", e.model, e.state, e.cause)
}

func (e trainingFailedError) Unwrap() error   { return e.cause }
func (e trainingFailedError) StatusCode() int { return http.StatusUnprocessableEntity }

// IsTrainingFailed reports whether err is a backend fit failure.
func IsTrainingFailed(err error) bool {
	var e trainingFailedError
	return errors.As(err, &e)
}

// invalidConfigError covers create requests a backend factory rejects.
type invalidConfigError struct{ msg string }

func (e invalidConfigError) Error() string   { return "invalid model config: " + e.msg }
func (e invalidConfigError) StatusCode() int { return http.StatusBadRequest }

// ErrInvalidConfig constructs an invalid-config error.
func ErrInvalidConfig(format string, args ...any) error {
	return invalidConfigError{msg: fmt.Sprintf(format, args...)}
}

// IsInvalidConfig reports whether err is a rejected model configuration.
func IsInvalidConfig(err error) bool {
	var e invalidConfigError
	return errors.As(err, &e)
}

// IsUnknownField reports whether err is a row naming a field outside the schema.
func IsUnknownField(err error) bool { return schema.IsUnknownField(err) }

// IsInvalidType reports whether err is an unparseable data type token.
func IsInvalidType(err error) bool { return schema.IsInvalidType(err) }

// IsInvalidValue reports whether err is a value that does not fit its field's
// type, such as text in a float field.
func IsInvalidValue(err error) bool { return schema.IsInvalidValue(err) }

// modelError attaches model name and state to errors raised below the model
// (schema encoding, backend predict) while keeping them classifiable.
type modelError struct {
	model string
	state State
	err   error
}

func (e modelError) Error() string {
	return fmt.Sprintf("model %s (state %s): %v", e.model, e.state, e.err)
}

func (e modelError) Unwrap() error { return e.err }
