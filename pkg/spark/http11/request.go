package http11

// RequestLine is the first line of a request.
type RequestLine struct {
	Method   Method
	URI      string
	Protocol string
}

// Request is a parsed request head. It is built once per connection by
// Parse and treated as read-only afterwards.
type Request struct {
	Line    RequestLine
	Headers []Header
}

// Method returns the request method
func (r *Request) Method() Method { return r.Line.Method }

// URI returns the raw request target as received
func (r *Request) URI() string { return r.Line.URI }

// Header returns the first header of the given kind.
func (r *Request) Header(kind HeaderKind) (Header, bool) {
	for _, h := range r.Headers {
		if h.Kind == kind {
			return h, true
		}
	}
	return Header{}, false
}

// Host returns the Host header value and whether it was present.
func (r *Request) Host() (string, bool) {
	h, ok := r.Header(HeaderHost)
	return h.Value, ok
}

// ContentLength returns the declared body length and whether it was present.
func (r *Request) ContentLength() (int64, bool) {
	h, ok := r.Header(HeaderContentLength)
	return h.Length, ok
}

// KeepAlive reports whether the client asked for a persistent connection.
// The server still closes after one response.
func (r *Request) KeepAlive() bool {
	h, ok := r.Header(HeaderConnection)
	return ok && h.KeepAlive
}

// Custom returns the value of an unrecognized header by case-insensitive name.
func (r *Request) Custom(name string) (string, bool) {
	for _, h := range r.Headers {
		if h.Kind == HeaderCustom && equalFoldASCII(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
