package nettools

import (
	"context"
	"net"
	"syscall"
)

type ListenOptions struct {
	ReusePort bool
}

// Listen opens a TCP listener with SO_REUSEADDR set, and SO_REUSEPORT if
// asked for, on platforms that support them.
func Listen(ctx context.Context, addr string, opts ListenOptions) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var serr error
			if err := c.Control(func(fd uintptr) {
				serr = setSockopts(fd, opts)
			}); err != nil {
				return err
			}
			return serr
		},
	}
	return lc.Listen(ctx, "tcp", addr)
}

// Tune applies per connection options to an accepted connection.
func Tune(c net.Conn) error {
	if t, ok := c.(interface{ NetConn() net.Conn }); ok {
		c = t.NetConn()
	}
	if tc, ok := c.(*net.TCPConn); ok {
		return tc.SetNoDelay(true)
	}
	return nil
}
