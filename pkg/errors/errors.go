package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Common sentinel errors for quick checks
var (
	// ErrInvalidInput is returned when caller input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedProtocol is matched by every UnsupportedProtocolError.
	ErrUnsupportedProtocol = errors.New("unsupported relay protocol")

	// ErrTransport is matched by every TransportError.
	ErrTransport = errors.New("transport error")

	// ErrDecode is matched by every DecodeError.
	ErrDecode = errors.New("decode error")

	// ErrClosed is returned when using a relayer after Close.
	ErrClosed = errors.New("relayer closed")

	// ErrInternal is returned when an internal error occurs.
	ErrInternal = errors.New("internal error")
)

// Error is the base interface for all custom errors in the module.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Stack returns the captured stack trace.
func (e *BaseError) Stack() []uintptr {
	return e.stack
}

// captureStack captures the current stack trace.
func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// ValidationError represents an input validation error.
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
			stack:   captureStack(1),
		},
		Field: field,
		Value: value,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, msg)
	}
	return fmt.Sprintf("validation error: %s", msg)
}

// WithCause attaches the underlying error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Is reports whether target is ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnsupportedProtocolError is returned when a relay protocol id has no
// registered descriptor.
type UnsupportedProtocolError struct {
	*BaseError
	Protocol string
}

// NewUnsupportedProtocolError creates a new unsupported protocol error.
func NewUnsupportedProtocolError(protocol string) *UnsupportedProtocolError {
	return &UnsupportedProtocolError{
		BaseError: &BaseError{
			code:    CodeUnsupportedProtocol,
			message: fmt.Sprintf("unsupported relay protocol %q", protocol),
			stack:   captureStack(1),
		},
		Protocol: protocol,
	}
}

// Is reports whether target is ErrUnsupportedProtocol.
func (e *UnsupportedProtocolError) Is(target error) bool {
	return target == ErrUnsupportedProtocol
}

// TransportError wraps a failure reported by the transport, either while
// connecting, while exchanging a request, or as a JSON-RPC error response.
type TransportError struct {
	*BaseError
	Op     string
	Method string
	// RPCCode is the JSON-RPC error code when the relay answered with an
	// error object, zero otherwise.
	RPCCode int
}

// NewTransportError creates a new transport error. The cause is kept
// unchanged so callers can still match it with errors.Is / errors.As.
func NewTransportError(op, method string, cause error) *TransportError {
	message := fmt.Sprintf("%s failed", op)
	if method != "" {
		message = fmt.Sprintf("%s %s failed", op, method)
	}
	return &TransportError{
		BaseError: &BaseError{
			code:    CodeTransport,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
		Op:     op,
		Method: method,
	}
}

// NewRPCError creates a transport error from a relay error response.
func NewRPCError(op, method string, rpcCode int, rpcMessage string) *TransportError {
	e := NewTransportError(op, method, fmt.Errorf("relay error %d: %s", rpcCode, rpcMessage))
	e.RPCCode = rpcCode
	return e
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// DecodeError is returned when a wire payload cannot be decrypted or is not
// a well-formed serialized payload.
type DecodeError struct {
	*BaseError
	Reason string
}

// NewDecodeError creates a new decode error.
func NewDecodeError(reason string, cause error) *DecodeError {
	return &DecodeError{
		BaseError: &BaseError{
			code:    CodeDecode,
			message: fmt.Sprintf("decode payload: %s", reason),
			cause:   cause,
			stack:   captureStack(1),
		},
		Reason: reason,
	}
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// InternalError represents an internal error.
type InternalError struct {
	*BaseError
	Operation string
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *InternalError {
	if message == "" {
		message = "internal error"
	}
	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
	}
}

// WithOperation sets the operation context.
func (e *InternalError) WithOperation(op string) *InternalError {
	e.Operation = op
	return e
}

// Wrap wraps an error with additional context.
// If the error is already one of our custom types, it preserves the code
// and adds the cause chain. Otherwise, it creates an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var e Error
	if errors.As(err, &e) {
		return &BaseError{
			code:    e.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   err,
			stack:   captureStack(1),
		},
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// New creates a new error with a message.
func New(message string) error {
	return &BaseError{
		code:    CodeInternal,
		message: message,
		stack:   captureStack(1),
	}
}

// Newf creates a new error with a formatted message.
func Newf(format string, args ...interface{}) error {
	return New(fmt.Sprintf(format, args...))
}
