// package transport contains implementations to requirements on *message syntaxes*
// defined by http related RFCs, narrowed down to the subset this server speaks:
//
//	METHOD SP PATH SP HTTP/1.1 CRLF
//	(NAME ": " VALUE CRLF)*
//	CRLF
//	body, sized by Content-Length only
//
// no chunked transfer coding, no pipelining, one request per connection.
// reason phrases are taken from [net/http.StatusText].

package transport
