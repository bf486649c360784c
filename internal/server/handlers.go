package server

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/frankli0324/go-httpd/internal/errors"
	"github.com/frankli0324/go-httpd/internal/http"
)

func contentResponse(contentType string, body []byte) *http.Response {
	resp := &http.Response{StatusCode: 200, Body: body}
	resp.Add("Content-Type", contentType)
	resp.Add("Content-Length", strconv.Itoa(len(body)))
	return resp
}

func status(code int) *http.Response {
	return &http.Response{StatusCode: code}
}

func index(ctx context.Context, req *http.Request) (*http.Response, error) {
	return status(200), nil
}

func notFound(ctx context.Context, req *http.Request) (*http.Response, error) {
	return status(404), nil
}

func echo(ctx context.Context, req *http.Request) (*http.Response, error) {
	_, message, ok := strings.Cut(req.Path, "/echo/")
	if !ok {
		return nil, errors.ErrRouteMismatch.WithDetail(req.Path)
	}
	return contentResponse("text/plain", []byte(message)), nil
}

func userAgent(ctx context.Context, req *http.Request) (*http.Response, error) {
	ua, ok := req.Header.Get("User-Agent")
	if !ok {
		return nil, errors.ErrMissingHeader.WithDetail("User-Agent")
	}
	return contentResponse("text/plain", []byte(ua)), nil
}

type filesHandler struct {
	root *Root
}

func (f *filesHandler) serve(ctx context.Context, req *http.Request) (*http.Response, error) {
	_, name, ok := strings.Cut(req.Path, "/files/")
	if !ok {
		return nil, errors.ErrRouteMismatch.WithDetail(req.Path)
	}
	switch req.Method {
	case "GET":
		return f.read(ctx, name)
	case "POST":
		return f.write(ctx, name, req)
	default:
		return nil, errors.ErrUnsupportedMethod.WithDetail(req.Method)
	}
}

func (f *filesHandler) read(ctx context.Context, name string) (*http.Response, error) {
	b, err := f.root.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return contentResponse("application/octet-stream", b), nil
}

func (f *filesHandler) write(ctx context.Context, name string, req *http.Request) (*http.Response, error) {
	if _, ok := req.Header.Get("Content-Length"); !ok {
		return nil, errors.ErrMissingHeader.WithDetail("Content-Length")
	}
	cl := req.Header.ContentLength()
	if cl < 0 {
		return nil, errors.ErrMissingHeader.WithDetail("unparseable Content-Length")
	}
	if int64(len(req.Body)) < cl {
		return nil, errors.ErrIncompleteBody
	}
	if err := f.root.WriteFile(name, req.Body[:cl]); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("file", name).Int64("bytes", cl).Msg("file written")
	return status(201), nil
}
