package transport

import (
	"bytes"

	"github.com/frankli0324/go-httpd/internal/errors"
	"github.com/frankli0324/go-httpd/internal/http"
)

var (
	crlf     = []byte("\r\n")
	crlfcrlf = []byte("\r\n\r\n")
	proto    = []byte(http.Proto)
	colonSP  = []byte(": ")
)

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isLineByte(c byte) bool { return c == '\r' || c == '\n' }

// takeToken consumes a non-empty run of bytes up to whitespace or a line break.
func takeToken(b []byte) (tok, rest []byte, ok bool) {
	i := 0
	for i < len(b) && !isSpace(b[i]) && !isLineByte(b[i]) {
		i++
	}
	return b[:i], b[i:], i > 0
}

func skipSpaces(b []byte) ([]byte, bool) {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	return b[i:], i > 0
}

// ParseRequestLine decodes
//
//	METHOD SP PATH SP HTTP/1.1 CRLF
//
// returning the request and the bytes following the CRLF. the returned
// request only has Method, Path and Proto set.
func ParseRequestLine(b []byte) (*http.Request, []byte, error) {
	method, rest, ok := takeToken(b)
	if !ok {
		return nil, b, errors.ErrMalformedRequestLine.WithDetail("missing method")
	}
	if rest, ok = skipSpaces(rest); !ok {
		return nil, b, errors.ErrMalformedRequestLine.WithDetail("missing space after method")
	}
	path, rest, ok := takeToken(rest)
	if !ok {
		return nil, b, errors.ErrMalformedRequestLine.WithDetail("missing path")
	}
	if rest, ok = skipSpaces(rest); !ok {
		return nil, b, errors.ErrMalformedRequestLine.WithDetail("missing space after path")
	}
	if !bytes.HasPrefix(rest, proto) {
		return nil, b, errors.ErrMalformedRequestLine.WithDetail("unsupported protocol version")
	}
	rest = rest[len(proto):]
	if !bytes.HasPrefix(rest, crlf) {
		return nil, b, errors.ErrMalformedRequestLine.WithDetail("missing CRLF")
	}
	return &http.Request{
		Method: decode(method),
		Path:   decode(path),
		Proto:  http.Proto,
	}, rest[len(crlf):], nil
}

// ParseHeader decodes a single `NAME: VALUE CRLF` line.
func ParseHeader(b []byte) (http.Header, []byte, error) {
	i := bytes.IndexByte(b, ':')
	if i <= 0 {
		return http.Header{}, b, errors.ErrMalformedHeader.WithDetail("missing name")
	}
	name := b[:i]
	if bytes.ContainsAny(name, "\r\n") {
		return http.Header{}, b, errors.ErrMalformedHeader.WithDetail("line break in name")
	}
	rest := b[i:]
	if !bytes.HasPrefix(rest, colonSP) {
		return http.Header{}, b, errors.ErrMalformedHeader.WithDetail(`missing ": " separator`)
	}
	rest = rest[len(colonSP):]
	j := bytes.IndexByte(rest, '\r')
	if j < 0 || !bytes.HasPrefix(rest[j:], crlf) {
		return http.Header{}, b, errors.ErrMalformedHeader.WithDetail("missing CRLF")
	}
	value := rest[:j]
	if bytes.IndexByte(value, '\n') >= 0 {
		return http.Header{}, b, errors.ErrMalformedHeader.WithDetail("line break in value")
	}
	return http.Header{Name: decode(name), Value: decode(value)}, rest[j+len(crlf):], nil
}

// ParseHeaders decodes header lines until the blank line ending the
// header block, which is consumed, so the returned bytes start at the
// body. running out of input also ends the block.
func ParseHeaders(b []byte) (http.Headers, []byte, error) {
	var headers http.Headers
	for {
		switch {
		case len(b) == 0:
			return headers, b, nil
		case bytes.HasPrefix(b, crlf):
			return headers, b[len(crlf):], nil
		}
		h, rest, err := ParseHeader(b)
		if err != nil {
			return headers, b, err
		}
		headers = append(headers, h)
		b = rest
	}
}

// ParseRequest decodes the request line and the header block. Body is
// left unset, the returned bytes are everything after the head.
func ParseRequest(b []byte) (*http.Request, []byte, error) {
	req, rest, err := ParseRequestLine(b)
	if err != nil {
		return nil, b, err
	}
	if req.Header, rest, err = ParseHeaders(rest); err != nil {
		return nil, b, err
	}
	return req, rest, nil
}
