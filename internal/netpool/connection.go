package netpool

import (
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/frankli0324/go-httpd/internal/errors"
)

// Conn is a tracked connection. it closes itself on a write error or on
// a read error other than EOF or a deadline, after which the peer may
// still be answered.
type Conn struct {
	conn     net.Conn
	p        *Pool
	isClosed atomic.Bool
}

func (c *Conn) Available() bool {
	return !c.isClosed.Load()
}

func (c *Conn) Raw() net.Conn {
	return c.conn
}

func (c *Conn) Write(p []byte) (n int, err error) {
	n, err = c.conn.Write(p)
	if err != nil {
		c.logErr("write", err)
		c.Close()
	}
	return
}

func (c *Conn) Read(p []byte) (n int, err error) {
	n, err = c.conn.Read(p)
	if err != nil && err != io.EOF && !errors.IsTimeout(err) {
		c.logErr("read", err)
		c.Close()
	}
	return
}

func (c *Conn) logErr(op string, err error) {
	if errors.IsConnClosed(err) || errors.IsTimeout(err) || !c.Available() {
		return
	}
	c.p.log.Warn().Err(err).Str("op", op).Str("remote", c.conn.RemoteAddr().String()).Msg("netpool: connection error")
}

// Close is idempotent, only the first call releases the ticket.
func (c *Conn) Close() error {
	if !c.isClosed.CompareAndSwap(false, true) {
		return nil
	}
	err := c.conn.Close()
	c.p.untrack(c)
	return err
}

func (c *Conn) LocalAddr() net.Addr                { return c.conn.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr               { return c.conn.RemoteAddr() }
func (c *Conn) SetDeadline(t time.Time) error      { return c.conn.SetDeadline(t) }
func (c *Conn) SetReadDeadline(t time.Time) error  { return c.conn.SetReadDeadline(t) }
func (c *Conn) SetWriteDeadline(t time.Time) error { return c.conn.SetWriteDeadline(t) }
