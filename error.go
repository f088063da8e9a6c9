package pullread

import (
	"errors"
	"fmt"
)

// Error codes. The fetch-classification codes map one-to-one onto the
// failure taxonomy used by the retry policy; the rest are general
// application codes.
const (
	EBOTBLOCKED     = "bot_blocked"
	ECONNECTION     = "connection"
	EHEADERTOOLARGE = "header_too_large"
	EINTERNAL       = "internal"
	EINVALID        = "invalid"
	ENOTFOUND       = "not_found"
	EREDIRECTLOOP   = "redirect_loop"
	ESERVER         = "server_error"
	ESKIPPED        = "skipped"
	ETIMEOUT        = "timeout"
	EUNKNOWN        = "unknown"
)

// Error represents an application error with a machine-readable code and
// a human-readable message. Fetch errors fold the originating HTTP status
// into the message so callers can parse it back out.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("pullread error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
