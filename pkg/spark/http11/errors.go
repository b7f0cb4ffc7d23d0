package http11

import (
	"errors"
	"fmt"
)

// Parser errors
var (
	// ErrEmptyRequest indicates the connection closed before any request line
	ErrEmptyRequest = errors.New("http11: empty request")

	// ErrInvalidRequestLine indicates the request line is malformed
	// Request line format: METHOD URI PROTOCOL
	ErrInvalidRequestLine = errors.New("http11: invalid request line")

	// ErrInvalidHeader indicates a header line without a colon separator
	ErrInvalidHeader = errors.New("http11: invalid HTTP header")

	// ErrInvalidContentLength indicates Content-Length is not a non-negative integer
	ErrInvalidContentLength = errors.New("http11: invalid Content-Length")

	// ErrHeadersTooLarge indicates the request head exceeded the read limit
	// before the terminating blank line was seen
	ErrHeadersTooLarge = errors.New("http11: headers too large")
)

// Validation errors
var (
	ErrUnsupportedMethod     = errors.New("http11: unsupported method")
	ErrEmptyHost             = errors.New("http11: empty Host header")
	ErrNegativeContentLength = errors.New("http11: negative Content-Length")
	ErrEmptyPath             = errors.New("http11: empty path")
	ErrPathTraversal         = errors.New("http11: path traversal")
)

// Response errors
var (
	// ErrAlreadyResponded indicates a second response on the same writer
	ErrAlreadyResponded = errors.New("http11: response already written")
)

// DecodeError reports request bytes that are not valid UTF-8.
type DecodeError struct {
	// Offset of the first invalid byte
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("http11: request is not valid UTF-8 (byte %d)", e.Offset)
}

// ParseError reports a request whose structure could not be parsed.
// Err is one of the parser sentinels above.
type ParseError struct {
	Err  error
	Line string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %q", e.Err.Error(), e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a parsed request that breaks a semantic rule.
type ValidationError struct {
	Err error

	// Path is the offending request URI for path failures
	Path string

	// cause is the underlying error, if any (e.g. *uri.TraversalError)
	cause error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Path)
	}
	return e.Err.Error()
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ValidationError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.cause}
}

// Reason returns the short client-facing description of a pipeline error,
// suitable for an error response body. Unknown errors yield "bad request".
func Reason(err error) string {
	var de *DecodeError
	if errors.As(err, &de) {
		return "invalid request encoding"
	}

	for _, r := range []struct {
		err    error
		reason string
	}{
		{ErrEmptyRequest, "empty request"},
		{ErrInvalidRequestLine, "invalid request line"},
		{ErrInvalidHeader, "invalid header"},
		{ErrInvalidContentLength, "invalid content length"},
		{ErrHeadersTooLarge, "headers too large"},
		{ErrUnsupportedMethod, "unsupported method"},
		{ErrEmptyHost, "empty host"},
		{ErrNegativeContentLength, "invalid content length"},
		{ErrEmptyPath, "empty path"},
		{ErrPathTraversal, "invalid path"},
	} {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "bad request"
}

// IsClientError reports whether err came out of reading, parsing or
// validating a request and should be answered with 400 Bad Request.
func IsClientError(err error) bool {
	var (
		de *DecodeError
		pe *ParseError
		ve *ValidationError
	)
	return errors.As(err, &de) || errors.As(err, &pe) || errors.As(err, &ve)
}
