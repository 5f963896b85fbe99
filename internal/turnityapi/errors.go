package turnityapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork indicates the backend could not be reached or the
	// connection failed before a response arrived.
	ErrNetwork = errors.New("turnity backend unreachable")

	// ErrUnauthorized indicates the backend rejected the session token.
	ErrUnauthorized = errors.New("session expired or unauthorized")

	// ErrDecode indicates a 2xx response whose body did not match the
	// expected shape.
	ErrDecode = errors.New("unexpected response from turnity backend")
)

// BackendError is a non-2xx response carrying a message body.
type BackendError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("turnity backend returned status %d", e.Status)
	}
	return fmt.Sprintf("turnity backend returned status %d: %s", e.Status, e.Message)
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

func errorCode(err error) string {
	var be *BackendError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "NETWORK"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrDecode):
		return "DECODE"
	case errors.As(err, &be):
		return fmt.Sprintf("HTTP_%d", be.Status)
	default:
		return "UNKNOWN"
	}
}
