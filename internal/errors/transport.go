package errors

import (
	stderrors "errors"
	"io"
	"net"
	"os"
	"strconv"
	"syscall"
)

type Op int

const (
	OpAccept Op = iota
	OpRead
	OpWrite
)

func (o Op) String() string {
	switch o {
	case OpAccept:
		return "accept"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return "op(" + strconv.Itoa(int(o)) + ")"
	}
}

// TransportError is a socket level failure. a connection that hits one
// is dropped, no response is guaranteed.
type TransportError struct {
	Op Op
	error
}

func NewTransportError(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{op, err}
}

func (e *TransportError) Error() string {
	return "transport " + e.Op.String() + ": " + e.error.Error()
}

func (e *TransportError) Unwrap() error {
	return e.error
}

func IsTimeout(err error) bool {
	if stderrors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}

// IsConnClosed reports errors meaning the peer or we are gone, which are
// part of normal operation and not worth more than a debug line.
func IsConnClosed(err error) bool {
	return stderrors.Is(err, io.EOF) ||
		stderrors.Is(err, io.ErrUnexpectedEOF) ||
		stderrors.Is(err, net.ErrClosed) ||
		stderrors.Is(err, io.ErrClosedPipe) ||
		stderrors.Is(err, syscall.ECONNRESET) ||
		stderrors.Is(err, syscall.EPIPE)
}

// IsTemporaryAccept reports accept errors worth retrying after a pause,
// such as running out of file descriptors.
func IsTemporaryAccept(err error) bool {
	return IsTimeout(err) ||
		stderrors.Is(err, syscall.EMFILE) ||
		stderrors.Is(err, syscall.ENFILE) ||
		stderrors.Is(err, syscall.ECONNABORTED)
}
