// Package httpd is a small HTTP/1.1 server speaking over raw TCP. It serves
// a fixed set of routes: echo, User-Agent reflection and reading and
// writing files below a root directory.
package httpd

import (
	"github.com/frankli0324/go-httpd/internal/config"
	"github.com/frankli0324/go-httpd/internal/http"
	"github.com/frankli0324/go-httpd/internal/server"
)

type Server = server.Server
type Config = config.Config
type ConnState = server.ConnState

type Request = http.Request
type Response = http.Response
type Header = http.Header
type Headers = http.Headers

type Handler = server.Handler
type Middleware = server.Middleware

var (
	NewServer     = server.New
	DefaultConfig = config.Default
	AccessLog     = server.AccessLog

	ErrServerClosed = server.ErrServerClosed
)
