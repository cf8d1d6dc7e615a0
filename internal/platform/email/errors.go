package email

import (
	"errors"
	"fmt"
	"net/textproto"
)

// SendError wraps an SMTP failure with its response code, when the server
// produced one. Code is 0 for connection-level failures.
type SendError struct {
	Code int
	Err  error
}

func (e *SendError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("smtp %d: %v", e.Code, e.Err)
	}
	return e.Err.Error()
}

func (e *SendError) Unwrap() error { return e.Err }

// wrapSendError normalizes errors coming out of the SMTP client. Server
// responses surface as *textproto.Error with the SMTP reply code.
func wrapSendError(err error) error {
	if err == nil {
		return nil
	}
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return &SendError{Code: tpErr.Code, Err: err}
	}
	return &SendError{Err: err}
}

// IsPermanent reports whether err is a 5xx SMTP rejection. Permanent
// failures must not be retried.
func IsPermanent(err error) bool {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Code >= 500
	}
	return false
}

// IsTransient reports whether err is worth retrying: a 4xx SMTP response
// or a connection-level failure with no reply code.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return !IsPermanent(err)
}
