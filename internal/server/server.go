package server

import (
	"context"
	stderrors "errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/frankli0324/go-httpd/internal/config"
	"github.com/frankli0324/go-httpd/internal/errors"
	"github.com/frankli0324/go-httpd/internal/netpool"
	"github.com/frankli0324/go-httpd/internal/nettools"
	"github.com/frankli0324/go-httpd/internal/transport"
)

// ErrServerClosed is returned by Serve once its context is done and
// in-flight connections have been dealt with.
var ErrServerClosed = stderrors.New("server closed")

type Server struct {
	// ConnState, if set, is called from the connection's goroutine on
	// every state change.
	ConnState func(net.Conn, ConnState)

	cfg    *config.Config
	log    zerolog.Logger
	h1     *transport.HTTP1
	router *Router
	pool   *netpool.Pool

	mu          sync.Mutex
	middlewares []Middleware

	nextID atomic.Uint64
}

func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	root, err := NewRoot(cfg.Directory)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg: cfg,
		log: log,
		h1: &transport.HTTP1{
			BufferSize:     cfg.BufferSize,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
			MaxBodyBytes:   cfg.MaxBodyBytes,
		},
		router: NewRouter(root),
		pool:   netpool.NewPool(cfg.MaxConns, log),
	}, nil
}

// Use appends mws to the chain wrapping the router. The first Use'd mw
// is the outermost one. Middlewares added after Serve started only apply
// to later Serve calls.
func (s *Server) Use(mws ...Middleware) {
	s.mu.Lock()
	s.middlewares = append(s.middlewares, mws...)
	s.mu.Unlock()
}

func (s *Server) handler() Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return chain(s.router.ServeRequest, s.middlewares)
}

// Root is the directory the files route is confined to.
func (s *Server) Root() string { return s.router.files.root.Dir() }

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := nettools.Listen(ctx, s.cfg.Addr, nettools.ListenOptions{ReusePort: s.cfg.ReusePort})
	if err != nil {
		return err
	}
	s.log.Info().Str("addr", ln.Addr().String()).Str("directory", s.Root()).Msg("listening for connections")
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln, each served on its own goroutine,
// never more than MaxConns at once. When ctx is done the listener is
// closed and in-flight connections get ShutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	handler := s.handler()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-done:
		}
	}()
	// connections outlive the accept loop until shutdown gives up on them
	connCtx := context.WithoutCancel(ctx)

	var tempDelay time.Duration
	for {
		if err := s.pool.Acquire(ctx); err != nil {
			ln.Close()
			return s.shutdown()
		}
		rw, err := ln.Accept()
		if err != nil {
			s.pool.Release()
			if ctx.Err() != nil {
				return s.shutdown()
			}
			if errors.IsTemporaryAccept(err) {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else if tempDelay *= 2; tempDelay > time.Second {
					tempDelay = time.Second
				}
				s.log.Warn().Err(err).Dur("retry_in", tempDelay).Msg("accept failed")
				time.Sleep(tempDelay)
				continue
			}
			return errors.NewTransportError(errors.OpAccept, err)
		}
		tempDelay = 0
		if err := nettools.Tune(rw); err != nil {
			s.log.Debug().Err(err).Msg("tuning accepted connection")
		}
		c := s.newConn(rw, handler)
		go c.serve(connCtx)
	}
}

func (s *Server) newConn(rw net.Conn, handler Handler) *conn {
	return &conn{
		srv:     s,
		rwc:     s.pool.Track(rw),
		handler: handler,
		log: s.log.With().
			Uint64("conn", s.nextID.Add(1)).
			Str("remote", remoteAddr(rw)).
			Logger(),
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.pool.Wait(ctx); err != nil {
		s.log.Warn().Int("active", s.pool.Active()).Msg("shutdown timed out, closing remaining connections")
		s.pool.CloseAll()
	}
	s.log.Info().Msg("server stopped")
	return ErrServerClosed
}
