package errors

import (
	stderrors "errors"
)

// HTTPError is a failure local to one request that maps onto a response
// status. Two HTTPErrors are considered the same kind when their
// messages match, regardless of what they wrap.
type HTTPError struct {
	msg    string
	status int
	error
}

func (e HTTPError) Error() string {
	msg := e.msg
	if e.error != nil {
		msg += ": " + e.error.Error()
	}
	return msg
}

func (e HTTPError) Wrap(err error) HTTPError {
	if err == nil {
		return e
	}
	return HTTPError{e.msg, e.status, err}
}

// WithDetail wraps a plain message describing where the error happened.
func (e HTTPError) WithDetail(detail string) HTTPError {
	return e.Wrap(stderrors.New(detail))
}

func (e HTTPError) Unwrap() error {
	return e.error
}

func (e HTTPError) Is(err error) bool {
	if err, ok := err.(HTTPError); ok {
		return e.msg == err.msg
	}
	return false
}

func (e HTTPError) StatusCode() int {
	return e.status
}

func reg(msg string, status int) HTTPError {
	return HTTPError{msg, status, nil}
}

var (
	ErrMalformedRequestLine = reg("malformed request line", 400)
	ErrMalformedHeader      = reg("malformed header", 400)
	ErrRouteMismatch        = reg("path does not match route", 400)
	ErrUnsupportedMethod    = reg("unsupported method", 400)
	ErrMissingHeader        = reg("missing required header", 400)
	ErrIncompleteBody       = reg("body shorter than content-length", 400)
	ErrForbiddenPath        = reg("path escapes root directory", 403)
	ErrNotFound             = reg("not found", 404)
	ErrRequestTimeout       = reg("request not received in time", 408)
	ErrBodyTooLarge         = reg("request body too large", 413)
	ErrHeaderTooLarge       = reg("request header too large", 431)
	ErrIO                   = reg("i/o failure", 500)
	ErrInternal             = reg("internal server error", 500)
	ErrMalformedStatusLine  = reg("malformed status line", 502)
)

// StatusCode reports the response status err should produce. errors that
// don't carry one are internal errors.
func StatusCode(err error) int {
	var sc interface{ StatusCode() int }
	if stderrors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 500
}

// Is and As are re-exported so importers don't need both errors packages.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }
