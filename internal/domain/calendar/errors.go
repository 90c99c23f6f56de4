package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies calendar failures for the transport layer.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodeInternal           ErrorCode = "internal"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	case e.Op != "":
		return fmt.Sprintf("%s (%s)", e.Op, e.Code)
	case e.Message != "":
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

func Validation(op, message string) error {
	return NewError(CodeValidation, op, message, nil)
}

// NotFound is returned for missing rows and for rows owned by someone else.
func NotFound(op, message string) error {
	return NewError(CodeNotFound, op, message, nil)
}

func Invariant(op, message string, cause error) error {
	return NewError(CodeInvariantViolation, op, message, cause)
}

// Wrap tags err as internal unless it already carries a code.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return NewError(CodeInternal, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func CodeOf(err error) ErrorCode {
	var ce *Error
	if !errors.As(err, &ce) {
		return ""
	}
	return ce.Code
}
