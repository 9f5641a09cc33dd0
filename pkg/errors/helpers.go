package errors

import "errors"

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr) || errors.Is(err, ErrInvalidInput)
}

// IsUnsupportedProtocol checks if an error was caused by an unknown relay
// protocol id.
func IsUnsupportedProtocol(err error) bool {
	if err == nil {
		return false
	}

	var protoErr *UnsupportedProtocolError
	return errors.As(err, &protoErr) || errors.Is(err, ErrUnsupportedProtocol)
}

// IsTransport checks if an error came from the transport or the relay.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}

	var transportErr *TransportError
	return errors.As(err, &transportErr) || errors.Is(err, ErrTransport)
}

// IsDecode checks if an error is a payload decode error.
func IsDecode(err error) bool {
	if err == nil {
		return false
	}

	var decodeErr *DecodeError
	return errors.As(err, &decodeErr) || errors.Is(err, ErrDecode)
}

// IsClosed checks if an error indicates use after Close.
func IsClosed(err error) bool {
	return err != nil && errors.Is(err, ErrClosed)
}

// IsInternal checks if an error is an internal error.
func IsInternal(err error) bool {
	if err == nil {
		return false
	}

	var internalErr *InternalError
	return errors.As(err, &internalErr) || errors.Is(err, ErrInternal)
}

// ShouldRetry reports whether the caller may repeat the failed operation.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return IsRetryable(customErr.Code())
	}

	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Code()
	}

	switch {
	case errors.Is(err, ErrClosed):
		return CodeClosed
	case IsValidation(err):
		return CodeValidation
	default:
		return CodeInternal
	}
}

// GetErrorMessage extracts a human-readable message from an error.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Message()
	}

	return err.Error()
}

// Cause returns the underlying cause of an error.
// It unwraps the error chain until it finds the root cause.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		underlying := unwrapper.Unwrap()
		if underlying == nil {
			return err
		}
		err = underlying
	}
}
