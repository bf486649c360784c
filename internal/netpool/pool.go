package netpool

import (
	"context"
	"net"
	"sync"

	"github.com/rs/zerolog"
)

// Pool admits connections. a ticket is taken before accepting and given
// back when the tracked connection is closed, so at most maxConn
// connections are ever being served at the same time.
type Pool struct {
	sync.Mutex
	connTicket chan struct{}
	active     map[*Conn]struct{}
	idle       chan struct{} // closed and replaced whenever active drains

	log zerolog.Logger
}

// NewPool creates a Pool admitting at most maxConn connections, zero
// means unlimited.
func NewPool(maxConn uint, log zerolog.Logger) *Pool {
	p := &Pool{
		active: map[*Conn]struct{}{},
		idle:   make(chan struct{}),
		log:    log,
	}
	if maxConn > 0 {
		p.connTicket = make(chan struct{}, maxConn)
	}
	close(p.idle)
	return p
}

// Acquire blocks until a connection may be admitted or ctx is done.
func (p *Pool) Acquire(ctx context.Context) error {
	if p.connTicket == nil {
		return ctx.Err()
	}
	select {
	case p.connTicket <- struct{}{}:
		return nil
	default:
	}
	p.log.Debug().Int("max", cap(p.connTicket)).Msg("netpool: connection limit reached, waiting")
	select {
	case p.connTicket <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release gives back a ticket taken by Acquire that was never handed to Track.
func (p *Pool) Release() {
	if p.connTicket != nil {
		<-p.connTicket
	}
}

// Track wraps c so that closing it releases its ticket.
func (p *Pool) Track(c net.Conn) *Conn {
	tc := &Conn{conn: c, p: p}
	p.Lock()
	if len(p.active) == 0 {
		p.idle = make(chan struct{})
	}
	p.active[tc] = struct{}{}
	p.Unlock()
	return tc
}

func (p *Pool) untrack(c *Conn) {
	p.Lock()
	delete(p.active, c)
	if len(p.active) == 0 {
		close(p.idle)
	}
	p.Unlock()
	p.Release()
}

// Active returns the number of tracked connections.
func (p *Pool) Active() int {
	p.Lock()
	defer p.Unlock()
	return len(p.active)
}

// Wait blocks until no tracked connection is left or ctx is done.
func (p *Pool) Wait(ctx context.Context) error {
	p.Lock()
	idle := p.idle
	p.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CloseAll closes every tracked connection.
func (p *Pool) CloseAll() {
	p.Lock()
	cc := make([]*Conn, 0, len(p.active))
	for c := range p.active {
		cc = append(cc, c)
	}
	p.Unlock()
	for _, c := range cc {
		c.Close()
	}
}
