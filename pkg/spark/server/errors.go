package server

import (
	"errors"
	"net"

	"github.com/watt-toolkit/spark/pkg/spark/http11"
	"github.com/watt-toolkit/spark/pkg/spark/router"
	"github.com/watt-toolkit/spark/pkg/spark/static"
)

// ErrServerClosed is returned by Serve after Shutdown or context cancellation.
var ErrServerClosed = errors.New("server: closed")

// MalformedError is a route match that was structurally close but
// incomplete.
type MalformedError struct {
	Pattern string
	Reason  string
}

func (e *MalformedError) Error() string {
	return "server: malformed request for " + e.Pattern + ": " + e.Reason
}

var (
	// errHandlerFailed marks a handler that returned without writing
	errHandlerFailed = errors.New("server: handler failed")

	// errNoResponse is the cause when a handler returned nil without writing
	errNoResponse = errors.New("no response written")
)

// Client-facing reasons
const (
	reasonTimeout   = "request timeout"
	reasonForbidden = "Forbidden, Access Denied"
	reasonNotFound  = "Not Found"
	reasonInternal  = "Internal Server Error"
)

// statusFor maps a pipeline error to the response status and the reason
// written in the body.
func statusFor(err error) (http11.Status, string) {
	var (
		ne net.Error
		me *MalformedError
	)
	switch {
	case errors.As(err, &ne) && ne.Timeout():
		return http11.StatusBadRequest, reasonTimeout
	case http11.IsClientError(err):
		return http11.StatusBadRequest, http11.Reason(err)
	case errors.As(err, &me):
		return http11.StatusBadRequest, me.Reason
	case errors.Is(err, static.ErrForbidden):
		return http11.StatusForbidden, reasonForbidden
	case errors.Is(err, static.ErrNotFound):
		return http11.StatusNotFound, reasonNotFound
	default:
		return http11.StatusInternalServerError, reasonInternal
	}
}

// errorKind labels err for metrics and logs.
func errorKind(err error) string {
	var (
		ne net.Error
		de *http11.DecodeError
		pe *http11.ParseError
		ve *http11.ValidationError
		me *MalformedError
	)
	switch {
	case errors.As(err, &ne) && ne.Timeout():
		return "timeout"
	case errors.As(err, &de):
		return "decode"
	case errors.As(err, &pe):
		return "parse"
	case errors.As(err, &ve):
		return "validate"
	case errors.As(err, &me):
		return "route"
	case errors.Is(err, static.ErrForbidden), errors.Is(err, static.ErrNotFound):
		return "static"
	case errors.Is(err, errHandlerFailed):
		return "handler"
	default:
		return "internal"
	}
}

// malformed converts a Malformed router result into an error.
func malformed(route router.Route, res router.Result) error {
	return &MalformedError{Pattern: route.Pattern, Reason: res.Reason}
}
