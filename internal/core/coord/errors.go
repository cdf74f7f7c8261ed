package coord

import (
	"errors"
	"fmt"
)

// Coordinate faults
var (
	ErrArity     = errors.New("coordinate arity mismatch")
	ErrValue     = errors.New("values given must be numbers")
	ErrIndex     = errors.New("coordinate index out of range")
	ErrRadix     = errors.New("radix must be at least 2")
	ErrInvariant = errors.New("limb invariant violated")
)

// ErrorCode represents a numeric fault code
type ErrorCode int

const (
	ErrorCodeSuccess   ErrorCode = 0
	ErrorCodeArity     ErrorCode = 1001
	ErrorCodeValue     ErrorCode = 1002
	ErrorCodeIndex     ErrorCode = 1003
	ErrorCodeRadix     ErrorCode = 1004
	ErrorCodeInvariant ErrorCode = 1005
	ErrorCodeUnknown   ErrorCode = 9999
)

// Error is a coordinate fault with the operation that raised it
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// Unwrap returns the fault sentinel
func (e *Error) Unwrap() error {
	return e.Cause
}

var errorCodeMap = map[error]ErrorCode{
	ErrArity:     ErrorCodeArity,
	ErrValue:     ErrorCodeValue,
	ErrIndex:     ErrorCodeIndex,
	ErrRadix:     ErrorCodeRadix,
	ErrInvariant: ErrorCodeInvariant,
}

// GetErrorCode returns the fault code for err
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ErrorCodeSuccess
	}
	if code, exists := errorCodeMap[err]; exists {
		return code
	}

	var coordErr *Error
	if errors.As(err, &coordErr) {
		return coordErr.Code
	}

	return ErrorCodeUnknown
}

func newError(op string, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    errorCodeMap[cause],
		Op:      op,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

func arityError(op string, want int) error {
	if want == 1 {
		return newError(op, ErrArity, "value given must be tuple or list of 1 value")
	}
	return newError(op, ErrArity, "value given must be tuple or list of %d values", want)
}

func valueError(op string, value any) error {
	return newError(op, ErrValue, "values given must be numbers, got %q", fmt.Sprint(value))
}

func indexError(op string, index, arity int) error {
	return newError(op, ErrIndex, "coordinate index %d out of range [0, %d)", index, arity)
}
