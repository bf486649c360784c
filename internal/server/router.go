package server

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/frankli0324/go-httpd/internal/http"
)

// Router picks exactly one handler per request. routes are tried in
// order, the first match wins:
//
//	/               200, empty body
//	/echo/<msg>     echo
//	/user-agent     User-Agent reflection
//	/files/<name>   GET reads, POST writes below the root directory
//	anything else   404
//
// /echo and /files without a trailing slash reach their handlers too,
// which reject them with 400. a prefix-only router would answer 404 for
// /files, it is kept symmetric with /echo on purpose.
type Router struct {
	files *filesHandler
}

func NewRouter(root *Root) *Router {
	return &Router{&filesHandler{root}}
}

func (rt *Router) Route(path string) (string, Handler) {
	switch {
	case path == "/":
		return "index", index
	case path == "/echo" || strings.HasPrefix(path, "/echo/"):
		return "echo", echo
	case path == "/user-agent":
		return "user-agent", userAgent
	case path == "/files" || strings.HasPrefix(path, "/files/"):
		return "files", rt.files.serve
	default:
		return "not-found", notFound
	}
}

// ServeRequest dispatches req to the handler Route selects.
func (rt *Router) ServeRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	name, h := rt.Route(req.Path)
	zerolog.Ctx(ctx).Debug().Str("route", name).Msg("dispatching")
	return h(ctx, req)
}
