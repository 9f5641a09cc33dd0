package errors

// Error codes for categorizing errors.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeCancelled indicates the operation was cancelled.
	CodeCancelled = "CANCELLED"

	// CodeInvalidArgument indicates client specified an invalid argument.
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeDeadlineExceeded indicates operation deadline was exceeded.
	CodeDeadlineExceeded = "DEADLINE_EXCEEDED"

	// CodeUnavailable indicates the relay is currently unavailable.
	CodeUnavailable = "UNAVAILABLE"

	// CodeInternal indicates internal errors.
	CodeInternal = "INTERNAL"

	// Domain-specific error codes

	// CodeValidation indicates input validation failed.
	CodeValidation = "VALIDATION_ERROR"

	// CodeUnsupportedProtocol indicates the relay protocol id is not registered.
	CodeUnsupportedProtocol = "UNSUPPORTED_PROTOCOL"

	// CodeTransport indicates the transport failed to connect or the relay
	// rejected a request.
	CodeTransport = "TRANSPORT_ERROR"

	// CodeDecode indicates a payload could not be decrypted or deserialized.
	CodeDecode = "DECODE_ERROR"

	// CodeConfigError indicates a configuration error.
	CodeConfigError = "CONFIG_ERROR"

	// CodeClosed indicates the relayer was closed.
	CodeClosed = "CLOSED"
)

// ErrorCategory represents a high-level error category.
type ErrorCategory string

const (
	// CategoryClient indicates the caller supplied something unusable.
	CategoryClient ErrorCategory = "CLIENT_ERROR"

	// CategoryNetwork indicates a transport or relay error.
	CategoryNetwork ErrorCategory = "NETWORK_ERROR"

	// CategoryTimeout indicates a timeout or cancellation.
	CategoryTimeout ErrorCategory = "TIMEOUT_ERROR"

	// CategoryData indicates an undecodable payload.
	CategoryData ErrorCategory = "DATA_ERROR"

	// CategoryInternal indicates everything else.
	CategoryInternal ErrorCategory = "INTERNAL_ERROR"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodeInvalidArgument, CodeValidation, CodeUnsupportedProtocol,
		CodeConfigError, CodeClosed:
		return CategoryClient

	case CodeDeadlineExceeded, CodeCancelled:
		return CategoryTimeout

	case CodeTransport, CodeUnavailable:
		return CategoryNetwork

	case CodeDecode:
		return CategoryData

	default:
		return CategoryInternal
	}
}

// IsRetryable returns true if an error with the given code may succeed when
// the caller repeats the operation. Nothing in this module retries on its own.
func IsRetryable(code string) bool {
	switch code {
	case CodeDeadlineExceeded, CodeUnavailable, CodeTransport:
		return true
	default:
		return false
	}
}

// IsClientError returns true if the error code is caused by caller input.
func IsClientError(code string) bool {
	return GetCategory(code) == CategoryClient
}
