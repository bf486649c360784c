package server

import (
	"context"
	"io"
	"net"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/frankli0324/go-httpd/internal/errors"
	"github.com/frankli0324/go-httpd/internal/http"
	"github.com/frankli0324/go-httpd/internal/netpool"
)

const (
	lingerTimeout = 500 * time.Millisecond
	lingerBytes   = 256 << 10
)

// conn serves exactly one request on one accepted connection.
type conn struct {
	srv     *Server
	rwc     *netpool.Conn
	handler Handler
	log     zerolog.Logger
	state   ConnState
}

func (c *conn) setState(state ConnState) {
	if c.state == state {
		return
	}
	c.log.Trace().Stringer("from", c.state).Stringer("to", state).Msg("state")
	c.state = state
	if hook := c.srv.ConnState; hook != nil {
		hook(c.rwc, state)
	}
}

func (c *conn) serve(ctx context.Context) {
	ctx = c.log.WithContext(ctx)
	defer func() {
		c.rwc.Close()
		c.setState(StateClosed)
	}()
	if hook := c.srv.ConnState; hook != nil {
		hook(c.rwc, StateAwaitingRead)
	}

	if d := c.srv.cfg.ReadTimeout; d > 0 {
		c.rwc.SetReadDeadline(time.Now().Add(d))
	}
	req, err := c.srv.h1.ReadRequest(c.rwc, func(n int) {
		c.log.Debug().Int("bytes", n).Msg("read")
		c.setState(StateParsing)
	})
	if err != nil {
		c.readFailed(err)
		return
	}
	c.setState(StateParsing)

	c.setState(StateDispatching)
	resp, err := c.dispatch(ctx, req)
	if err != nil {
		c.log.Debug().Err(err).Msg("handler failed")
		resp = errorResponse(err)
	}
	c.respond(resp)
}

func (c *conn) readFailed(err error) {
	if err == io.EOF {
		c.log.Debug().Msg("peer closed before sending a request")
		return
	}
	var te *errors.TransportError
	if errors.As(err, &te) {
		if errors.IsConnClosed(err) || errors.IsTimeout(err) {
			c.log.Debug().Err(err).Msg("connection dropped")
		} else {
			c.log.Warn().Err(err).Msg("connection dropped")
		}
		return
	}
	c.log.Info().Err(err).Int("status", errors.StatusCode(err)).Msg("rejecting request")
	c.respond(errorResponse(err))
}

// dispatch runs the handler chain, turning a panic into a 500 for this
// connection only.
func (c *conn) dispatch(ctx context.Context, req *http.Request) (resp *http.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("handler panicked")
			resp, err = nil, errors.ErrInternal
		}
	}()
	resp, err = c.handler(ctx, req)
	if err == nil && resp == nil {
		err = errors.ErrInternal.WithDetail("handler returned no response")
	}
	return
}

func (c *conn) respond(resp *http.Response) {
	c.setState(StateResponding)
	if d := c.srv.cfg.WriteTimeout; d > 0 {
		c.rwc.SetWriteDeadline(time.Now().Add(d))
	}
	err := c.srv.h1.WriteResponse(c.rwc, resp)
	if errors.Is(err, errors.ErrIO) {
		// the response itself was unusable, nothing went out yet
		c.log.Error().Err(err).Msg("discarding response")
		resp = errorResponse(err)
		err = c.srv.h1.WriteResponse(c.rwc, resp)
	}
	if err != nil {
		if errors.IsConnClosed(err) || errors.IsTimeout(err) {
			c.log.Debug().Err(err).Msg("write failed")
		} else {
			c.log.Warn().Err(err).Msg("write failed")
		}
		return
	}
	if resp.StatusCode >= 400 {
		c.linger()
	}
}

// linger half-closes the connection and drains what the peer still sends,
// so that unread request bytes don't turn our close into a reset that
// discards the response before the peer reads it.
func (c *conn) linger() {
	cw, ok := c.rwc.Raw().(interface{ CloseWrite() error })
	if !ok || cw.CloseWrite() != nil {
		return
	}
	c.rwc.SetReadDeadline(time.Now().Add(lingerTimeout))
	io.Copy(io.Discard, io.LimitReader(c.rwc, lingerBytes))
}

func errorResponse(err error) *http.Response {
	return status(errors.StatusCode(err))
}

func remoteAddr(c net.Conn) string {
	if a := c.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}
