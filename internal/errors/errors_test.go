package errors_test

import (
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/frankli0324/go-httpd/internal/errors"
)

func TestStatusCode(t *testing.T) {
	type tCase struct {
		err    error
		target error
		status int
	}
	for name, cas := range map[string]tCase{
		"Registered":   {errors.ErrNotFound, errors.ErrNotFound, 404},
		"Wrapped":      {errors.ErrIO.Wrap(os.ErrPermission), errors.ErrIO, 500},
		"WithDetail":   {errors.ErrForbiddenPath.WithDetail("../x"), errors.ErrForbiddenPath, 403},
		"WrapNil":      {errors.ErrHeaderTooLarge.Wrap(nil), errors.ErrHeaderTooLarge, 431},
		"FmtWrapped":   {fmt.Errorf("serving: %w", errors.ErrRequestTimeout.Wrap(os.ErrDeadlineExceeded)), errors.ErrRequestTimeout, 408},
		"Plain":        {io.ErrShortWrite, nil, 500},
		"Transport":    {errors.NewTransportError(errors.OpRead, syscall.ECONNRESET), nil, 500},
		"StatusLine":   {errors.ErrMalformedStatusLine.WithDetail("x"), errors.ErrMalformedStatusLine, 502},
		"BodyTooLarge": {errors.ErrBodyTooLarge, errors.ErrBodyTooLarge, 413},
	} {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			if got := errors.StatusCode(tCase.err); got != tCase.status {
				t.Errorf("StatusCode() = %d, want %d", got, tCase.status)
			}
			if tCase.target != nil && !errors.Is(tCase.err, tCase.target) {
				t.Errorf("%v is not %v", tCase.err, tCase.target)
			}
		})
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := errors.ErrIO.WithDetail("disk full")
	if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrInternal) {
		t.Errorf("%v matched a different kind with the same status", err)
	}
	if !errors.Is(err, errors.ErrIO.WithDetail("other detail")) {
		t.Error("kinds with different details should match")
	}
	if !errors.Is(errors.ErrIO.Wrap(os.ErrNotExist), os.ErrNotExist) {
		t.Error("wrapped cause is not reachable")
	}
	if got := err.Error(); got != "i/o failure: disk full" {
		t.Errorf("Error() = %q", got)
	}
}

func TestTransportError(t *testing.T) {
	if errors.NewTransportError(errors.OpWrite, nil) != nil {
		t.Error("nil cause should yield nil")
	}
	err := errors.NewTransportError(errors.OpWrite, syscall.EPIPE)
	var te *errors.TransportError
	if !errors.As(err, &te) || te.Op != errors.OpWrite {
		t.Fatalf("unexpected %#v", err)
	}
	if got := err.Error(); got != "transport write: "+syscall.EPIPE.Error() {
		t.Errorf("Error() = %q", got)
	}
	if got := errors.Op(7).String(); got != "op(7)" {
		t.Errorf("unknown op prints %q", got)
	}
}

func TestClassification(t *testing.T) {
	type tCase struct {
		err                              error
		timeout, closed, temporaryAccept bool
	}
	for name, cas := range map[string]tCase{
		"EOF":           {err: io.EOF, closed: true},
		"UnexpectedEOF": {err: io.ErrUnexpectedEOF, closed: true},
		"NetClosed":     {err: net.ErrClosed, closed: true},
		"ClosedPipe":    {err: io.ErrClosedPipe, closed: true},
		"Reset":         {err: &net.OpError{Op: "read", Err: os.NewSyscallError("read", syscall.ECONNRESET)}, closed: true},
		"BrokenPipe":    {err: errors.NewTransportError(errors.OpWrite, syscall.EPIPE), closed: true},
		"Deadline":      {err: &net.OpError{Op: "read", Err: os.ErrDeadlineExceeded}, timeout: true, temporaryAccept: true},
		"TooManyFiles":  {err: &net.OpError{Op: "accept", Err: os.NewSyscallError("accept", syscall.EMFILE)}, temporaryAccept: true},
		"FileTable":     {err: syscall.ENFILE, temporaryAccept: true},
		"Aborted":       {err: syscall.ECONNABORTED, temporaryAccept: true},
		"Refused":       {err: syscall.ECONNREFUSED},
		"HTTPError":     {err: errors.ErrNotFound},
	} {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			if got := errors.IsTimeout(tCase.err); got != tCase.timeout {
				t.Errorf("IsTimeout() = %v", got)
			}
			if got := errors.IsConnClosed(tCase.err); got != tCase.closed {
				t.Errorf("IsConnClosed() = %v", got)
			}
			if got := errors.IsTemporaryAccept(tCase.err); got != tCase.temporaryAccept {
				t.Errorf("IsTemporaryAccept() = %v", got)
			}
		})
	}
}
