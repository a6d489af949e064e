package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Op names a remote operation.
type Op string

const (
	OpCreateUser Op = "create-user"
	OpGetForm    Op = "get-form"
)

var (
	// ErrRegistrationFailed matches every failed create-user call.
	ErrRegistrationFailed = errors.New("client: registration failed")
	// ErrFetchFailed matches every failed get-form call.
	ErrFetchFailed = errors.New("client: fetching form failed")
)

// RequestError describes a failed remote call. StatusCode is zero when the
// request never produced a response.
type RequestError struct {
	Op         Op
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("client: %s: status %d %s: %v", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("client: %s: status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("client: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("client: %s failed", e.Op)
	}
}

// Unwrap exposes the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is matches the operation sentinel.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrRegistrationFailed:
		return e.Op == OpCreateUser
	case ErrFetchFailed:
		return e.Op == OpGetForm
	default:
		return false
	}
}

// StatusCode extracts the HTTP status from err, or zero.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
