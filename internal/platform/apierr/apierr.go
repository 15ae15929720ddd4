package apierr

import (
	"fmt"
	"net/http"
)

// Error pairs an HTTP status and a stable machine-readable code with the
// underlying cause. Services return it when they already know how a failure
// should surface; handlers unwrap it instead of guessing a status.
type Error struct {
	Status int
	Code   string
	Err    error
}

func New(status int, code string, err error) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &Error{Status: status, Code: code, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("api error (%d)", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }
