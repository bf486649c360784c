package transport_test

import (
	"testing"

	"github.com/frankli0324/go-httpd/internal/errors"
	"github.com/frankli0324/go-httpd/internal/http"
	"github.com/frankli0324/go-httpd/internal/transport"
)

type lineCase struct {
	data   string
	method string
	path   string
	rest   string
}

var requestLineShouldBe = map[string]lineCase{
	"Root": {
		data: "GET / HTTP/1.1\r\n", method: "GET", path: "/",
	},
	"HeadersFollow": {
		data: "GET /user-agent HTTP/1.1\r\nUser-Agent: curl/7.81\r\n\r\n", method: "GET", path: "/user-agent",
		rest: "User-Agent: curl/7.81\r\n\r\n",
	},
	"Post": {
		data: "POST /files/new.txt HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc", method: "POST", path: "/files/new.txt",
		rest: "Content-Length: 3\r\n\r\nabc",
	},
	"PathNotDecoded": {
		data: "GET /echo/a%20b?x=1 HTTP/1.1\r\n", method: "GET", path: "/echo/a%20b?x=1",
	},
	"ArbitraryMethodToken": {
		data: "DELETE /files/a HTTP/1.1\r\n", method: "DELETE", path: "/files/a",
	},
	"InvalidUTF8Replaced": {
		data: "GET /echo/\xff\xfe HTTP/1.1\r\n", method: "GET", path: "/echo/��",
	},
}

func TestParseRequestLine(t *testing.T) {
	for name, cas := range requestLineShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			req, rest, err := transport.ParseRequestLine([]byte(tCase.data))
			if err != nil {
				t.Fatal(err)
			}
			if req.Method != tCase.method || req.Path != tCase.path || req.Proto != "HTTP/1.1" {
				t.Errorf("got %q %q %q", req.Method, req.Path, req.Proto)
			}
			if string(rest) != tCase.rest {
				t.Errorf("remaining bytes %q, want %q", rest, tCase.rest)
			}
		})
	}
}

var malformedRequestLines = map[string]string{
	"Empty":           "",
	"LeadingSpace":    " GET / HTTP/1.1\r\n",
	"NoPath":          "GET HTTP/1.1\r\n",
	"NoVersion":       "GET /\r\n",
	"HTTP10":          "GET / HTTP/1.0\r\n",
	"HTTP2Preface":    "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n",
	"MissingCRLF":     "GET / HTTP/1.1",
	"BareLF":          "GET / HTTP/1.1\n",
	"TrailingGarbage": "GET / HTTP/1.1x\r\n",
	"LineBreakInPath": "GET /a\r\nb HTTP/1.1\r\n",
}

func TestParseRequestLineMalformed(t *testing.T) {
	for name, data := range malformedRequestLines {
		data := data
		t.Run(name, func(t *testing.T) {
			_, rest, err := transport.ParseRequestLine([]byte(data))
			if !errors.Is(err, errors.ErrMalformedRequestLine) {
				t.Fatalf("expected malformed request line, got %v", err)
			}
			if string(rest) != data {
				t.Errorf("input should not be consumed on failure, got %q", rest)
			}
		})
	}
}

type headersCase struct {
	data    string
	headers http.Headers
	rest    string
}

var headersShouldBe = map[string]headersCase{
	"NoInput": {},
	"OnlyTerminator": {
		data: "\r\n",
	},
	"Single": {
		data:    "User-Agent: curl/7.81\r\n\r\n",
		headers: http.Headers{{Name: "User-Agent", Value: "curl/7.81"}},
	},
	"OrderAndDuplicatesKept": {
		data: "B: 2\r\nA: 1\r\nB: 3\r\n\r\n",
		headers: http.Headers{
			{Name: "B", Value: "2"}, {Name: "A", Value: "1"}, {Name: "B", Value: "3"},
		},
	},
	"NamesNotCanonicalized": {
		data:    "x-123-vv: 1\r\n\r\n",
		headers: http.Headers{{Name: "x-123-vv", Value: "1"}},
	},
	"RemainingIsBody": {
		data:    "Content-Length: 3\r\n\r\nabc",
		headers: http.Headers{{Name: "Content-Length", Value: "3"}},
		rest:    "abc",
	},
	"BodyStartingWithCRLF": {
		data:    "Content-Length: 4\r\n\r\n\r\nab",
		headers: http.Headers{{Name: "Content-Length", Value: "4"}},
		rest:    "\r\nab",
	},
	"NoBlankLine": {
		data:    "Host: a\r\n",
		headers: http.Headers{{Name: "Host", Value: "a"}},
	},
	"EmptyValue": {
		data:    "X-Empty: \r\n\r\n",
		headers: http.Headers{{Name: "X-Empty", Value: ""}},
	},
	"ValueKeepsColons": {
		data:    "Host: localhost:4221\r\n\r\n",
		headers: http.Headers{{Name: "Host", Value: "localhost:4221"}},
	},
	"InvalidUTF8Replaced": {
		data:    "User-Agent: a\xffb\r\n\r\n",
		headers: http.Headers{{Name: "User-Agent", Value: "a�b"}},
	},
}

func TestParseHeaders(t *testing.T) {
	for name, cas := range headersShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			headers, rest, err := transport.ParseHeaders([]byte(tCase.data))
			if err != nil {
				t.Fatal(err)
			}
			if len(headers) != len(tCase.headers) {
				t.Fatalf("got %d headers %q, want %q", len(headers), headers, tCase.headers)
			}
			for i := range headers {
				if headers[i] != tCase.headers[i] {
					t.Errorf("header %d: got %q, want %q", i, headers[i], tCase.headers[i])
				}
			}
			if string(rest) != tCase.rest {
				t.Errorf("remaining bytes %q, want %q", rest, tCase.rest)
			}
		})
	}
}

var malformedHeaders = map[string]string{
	"NoColon":         "Host localhost\r\n\r\n",
	"NoSpaceAfter":    "Host:localhost\r\n\r\n",
	"EmptyName":       ": value\r\n\r\n",
	"MissingCRLF":     "Host: localhost",
	"BareLF":          "Host: localhost\n\r\n",
	"NameSpansLines":  "garbage\r\nHost: a\r\n\r\n",
	"SecondMalformed": "Host: a\r\nbroken\r\n\r\n",
}

func TestParseHeadersMalformed(t *testing.T) {
	for name, data := range malformedHeaders {
		data := data
		t.Run(name, func(t *testing.T) {
			if _, _, err := transport.ParseHeaders([]byte(data)); !errors.Is(err, errors.ErrMalformedHeader) {
				t.Fatalf("expected malformed header, got %v", err)
			}
		})
	}
}

func TestParseRequest(t *testing.T) {
	req, rest, err := transport.ParseRequest([]byte("POST /files/new.txt HTTP/1.1\r\nHost: localhost:4221\r\nContent-Length: 3\r\n\r\nabc"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != "POST" || req.Path != "/files/new.txt" {
		t.Errorf("unexpected request line %q %q", req.Method, req.Path)
	}
	if v, _ := req.Header.Get("Content-Length"); v != "3" {
		t.Errorf("Content-Length = %q", v)
	}
	if req.Header.ContentLength() != 3 {
		t.Errorf("ContentLength() = %d", req.Header.ContentLength())
	}
	if string(rest) != "abc" {
		t.Errorf("body %q", rest)
	}
}
