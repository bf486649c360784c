package transport

import (
	"bufio"
	"bytes"
	"io"
	nhttp "net/http"
	"strconv"

	"golang.org/x/net/http/httpguts"

	"github.com/frankli0324/go-httpd/internal/errors"
	"github.com/frankli0324/go-httpd/internal/http"
)

const (
	DefaultBufferSize     = 1024
	DefaultMaxHeaderBytes = 16 << 10
	DefaultMaxBodyBytes   = 10 << 20
)

// HTTP1 reads requests from and writes responses to a byte stream. the
// zero value uses the Default* limits.
type HTTP1 struct {
	BufferSize     int // size of each read
	MaxHeaderBytes int // request line plus header block
	MaxBodyBytes   int64
}

func (t *HTTP1) bufferSize() int {
	if t.BufferSize > 0 {
		return t.BufferSize
	}
	return DefaultBufferSize
}

func (t *HTTP1) maxHeaderBytes() int {
	if t.MaxHeaderBytes > 0 {
		return t.MaxHeaderBytes
	}
	return DefaultMaxHeaderBytes
}

func (t *HTTP1) maxBodyBytes() int64 {
	if t.MaxBodyBytes > 0 {
		return t.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

// ReadRequest accumulates bytes from r until the head is complete and,
// when a valid Content-Length is present, until the body is too. it
// returns io.EOF untouched if the peer closed before sending anything.
//
// onRead, if non nil, is called with the size of every successful read.
func (t *HTTP1) ReadRequest(r io.Reader, onRead func(n int)) (*http.Request, error) {
	size := t.bufferSize()
	buf := make([]byte, 0, size)
	headEnd := -1
	for {
		if len(buf) == cap(buf) {
			grown := make([]byte, len(buf), 2*cap(buf))
			copy(grown, buf)
			buf = grown
		}
		end := len(buf) + size
		if end > cap(buf) {
			end = cap(buf)
		}
		n, rerr := r.Read(buf[len(buf):end])
		if n > 0 && onRead != nil {
			onRead(n)
		}
		scanFrom := len(buf) - len(crlfcrlf) + 1
		if scanFrom < 0 {
			scanFrom = 0
		}
		buf = buf[:len(buf)+n]

		if headEnd < 0 {
			if i := bytes.Index(buf[scanFrom:], crlfcrlf); i >= 0 {
				headEnd = scanFrom + i + len(crlfcrlf)
			} else if len(buf) > t.maxHeaderBytes() {
				return nil, errors.ErrHeaderTooLarge
			}
		}

		if headEnd >= 0 {
			req, done, err := t.tryComplete(buf)
			if err != nil || done {
				return req, err
			}
		}

		if rerr != nil {
			return t.readFailed(buf, headEnd, rerr)
		}
	}
}

// tryComplete parses the buffered head and reports whether the body has
// fully arrived.
func (t *HTTP1) tryComplete(buf []byte) (*http.Request, bool, error) {
	req, rest, err := ParseRequest(buf)
	if err != nil {
		return nil, true, err
	}
	cl := req.Header.ContentLength()
	if cl > t.maxBodyBytes() {
		return nil, true, errors.ErrBodyTooLarge.WithDetail("content-length " + strconv.FormatInt(cl, 10))
	}
	if cl < 0 {
		req.Body = rest
		return req, true, nil
	}
	if int64(len(rest)) < cl {
		return nil, false, nil
	}
	req.Body = rest[:cl]
	return req, true, nil
}

func (t *HTTP1) readFailed(buf []byte, headEnd int, rerr error) (*http.Request, error) {
	if rerr != io.EOF {
		if len(buf) > 0 && errors.IsTimeout(rerr) {
			return nil, errors.ErrRequestTimeout.Wrap(rerr)
		}
		return nil, errors.NewTransportError(errors.OpRead, rerr)
	}
	if len(buf) == 0 {
		return nil, io.EOF
	}
	if headEnd >= 0 {
		return nil, errors.ErrIncompleteBody
	}
	// the peer stopped sending without a blank line, take what we have.
	req, rest, err := ParseRequest(buf)
	if err != nil {
		return nil, err
	}
	if cl := req.Header.ContentLength(); cl > 0 {
		return nil, errors.ErrIncompleteBody
	}
	req.Body = rest
	return req, nil
}

// WriteResponse writes the status line, headers and body of resp e.g.:
//
//	HTTP/1.1 200 OK\r\n
//	Content-Type: text/plain\r\n
//	Content-Length: 5\r\n
//	\r\n
//	hello
func (t *HTTP1) WriteResponse(w io.Writer, resp *http.Response) error {
	for _, h := range resp.Header {
		if !httpguts.ValidHeaderFieldName(h.Name) || !httpguts.ValidHeaderFieldValue(h.Value) {
			return errors.ErrIO.WithDetail("invalid response header " + strconv.Quote(h.Name))
		}
	}
	bw := bufio.NewWriter(w) // default bufsize is 4096

	bw.WriteString(http.Proto)
	bw.WriteByte(' ')
	bw.WriteString(strconv.Itoa(resp.StatusCode))
	bw.WriteByte(' ')
	bw.WriteString(nhttp.StatusText(resp.StatusCode))
	bw.WriteString("\r\n")
	for _, h := range resp.Header {
		bw.WriteString(h.Name)
		bw.WriteString(": ")
		bw.WriteString(h.Value)
		bw.WriteString("\r\n")
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return errors.NewTransportError(errors.OpWrite, err)
	}
	if _, err := bw.Write(resp.Body); err != nil {
		return errors.NewTransportError(errors.OpWrite, err)
	}
	return errors.NewTransportError(errors.OpWrite, bw.Flush())
}

// ReadResponse parses a response written by [HTTP1.WriteResponse]. the
// body is bounded by Content-Length when present, otherwise it runs to EOF.
func (t *HTTP1) ReadResponse(r io.Reader) (*http.Response, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadSlice('\n')
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	proto, status, ok := bytes.Cut(bytes.TrimSuffix(line, crlf), []byte{' '})
	if !ok {
		return nil, errors.ErrMalformedStatusLine.WithDetail("malformed HTTP response")
	}
	resp := &http.Response{Proto: string(proto)}
	code, _, _ := bytes.Cut(status, []byte{' '})
	if len(code) != 3 {
		return nil, errors.ErrMalformedStatusLine.WithDetail("malformed HTTP status code " + string(code))
	}
	if resp.StatusCode, err = strconv.Atoi(string(code)); err != nil || resp.StatusCode < 0 {
		return nil, errors.ErrMalformedStatusLine.WithDetail("malformed HTTP status code")
	}

	var head []byte
	for {
		line, err := br.ReadSlice('\n')
		head = append(head, line...)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if bytes.Equal(line, crlf) {
			break
		}
	}
	if resp.Header, _, err = ParseHeaders(head); err != nil {
		return nil, err
	}

	body := io.Reader(br)
	if cl := resp.Header.ContentLength(); cl >= 0 {
		body = io.LimitReader(br, cl)
	}
	if resp.Body, err = io.ReadAll(body); err != nil {
		return nil, err
	}
	if cl := resp.Header.ContentLength(); cl >= 0 && int64(len(resp.Body)) != cl {
		return nil, io.ErrUnexpectedEOF
	}
	return resp, nil
}
