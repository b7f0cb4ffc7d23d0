// Package http11 implements the HTTP/1.1 request pipeline pieces used by
// the spark server: reading raw request bytes off a connection, parsing
// them into a Request, validating the result, and writing a single
// complete response.
//
// One request is served per connection. Request bodies, chunked transfer
// encoding and keep-alive are not supported.
package http11

// Protocol version written on every status line
const Version = "HTTP/1.1"

// Line terminators
const (
	crlf       = "\r\n"
	headersEnd = "\r\n\r\n"
)

// ReadChunkSize is the number of bytes requested from the connection per
// read while looking for the end of the header block.
const ReadChunkSize = 1024

// DefaultMaxHeaderBytes bounds the request head when no limit is configured.
const DefaultMaxHeaderBytes = 8192

// Header names, canonical form
const (
	headerContentType    = "Content-Type"
	headerContentLength  = "Content-Length"
	headerHost           = "Host"
	headerAccept         = "Accept"
	headerAcceptLanguage = "Accept-Language"
	headerConnection     = "Connection"
	headerLocation       = "Location"
)

// Connection header value that enables keep-alive
const keepAliveToken = "keep-alive"

// Error body prefix
const errorBodyPrefix = "Error - "
