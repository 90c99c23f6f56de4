package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/practiceboard-backend/internal/domain/calendar"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From maps err onto an HTTP error. An *Error passes through; calendar error
// codes map to their status; anything else is a 500 tagged with fallbackCode.
// Internal causes are not echoed to the client.
func From(err error, fallbackCode string) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch calendar.CodeOf(err) {
	case calendar.CodeValidation:
		return New(http.StatusBadRequest, string(calendar.CodeValidation), err)
	case calendar.CodeNotFound:
		return New(http.StatusNotFound, string(calendar.CodeNotFound), err)
	case calendar.CodeInvariantViolation:
		return New(http.StatusInternalServerError, string(calendar.CodeInvariantViolation), errors.New("stored calendar data is inconsistent"))
	}
	return New(http.StatusInternalServerError, fallbackCode, errors.New("internal error"))
}
