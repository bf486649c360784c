package http

import (
	"strconv"
)

const Proto = "HTTP/1.1"

type Request struct {
	Method string
	Path   string // raw, not URL-decoded
	Proto  string

	Header Headers
	Body   []byte
}

type Header struct {
	Name  string
	Value string
}

type Headers []Header

// Get returns the value of the first header named exactly name.
func (h Headers) Get(name string) (string, bool) {
	for _, f := range h {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value carried under name, in input order.
func (h Headers) Values(name string) []string {
	var vv []string
	for _, f := range h {
		if f.Name == name {
			vv = append(vv, f.Value)
		}
	}
	return vv
}

// ContentLength returns the first Content-Length header parsed as a
// non-negative integer, or -1 if absent or unparseable.
func (h Headers) ContentLength() int64 {
	v, ok := h.Get("Content-Length")
	if !ok {
		return -1
	}
	n, err := strconv.ParseUint(v, 10, 63)
	if err != nil {
		return -1
	}
	return int64(n)
}

type Response struct {
	Proto      string
	StatusCode int
	Header     Headers
	Body       []byte
}

// Add appends a header field, keeping previously added ones.
func (r *Response) Add(name, value string) {
	r.Header = append(r.Header, Header{name, value})
}
