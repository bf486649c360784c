package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/frankli0324/go-httpd/internal/errors"
	"github.com/frankli0324/go-httpd/internal/http"
)

type Handler = func(ctx context.Context, req *http.Request) (*http.Response, error)
type Middleware func(next Handler) Handler

func chain(h Handler, mws []Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// AccessLog logs one line per dispatched request with the logger found
// in the request context.
func AccessLog() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			ev := zerolog.Ctx(ctx).Info()
			code, size := 0, 0
			if err != nil {
				code = errors.StatusCode(err)
				ev = ev.Err(err)
			} else if resp != nil {
				code, size = resp.StatusCode, len(resp.Body)
			}
			ev.Str("method", req.Method).
				Str("path", req.Path).
				Int("status", code).
				Int("bytes", size).
				Dur("duration", time.Since(start)).
				Msg("request")
			return resp, err
		}
	}
}
