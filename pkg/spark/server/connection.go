package server

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/watt-toolkit/spark/pkg/spark/http11"
	"github.com/watt-toolkit/spark/pkg/spark/router"
	"github.com/watt-toolkit/spark/pkg/spark/static"
)

// Connection runs the request pipeline for one accepted connection.
// It is owned by a single worker goroutine and closed exactly once.
type Connection struct {
	state atomic.Int32

	conn net.Conn
	srv  *Server
	w    *http11.ResponseWriter

	start time.Time
	raw   string
	req   *http11.Request
	path  string
	err   error

	route router.Route
	match router.Result
}

type stateFunc func(*Connection) stateFunc

func newConnection(srv *Server, conn net.Conn) *Connection {
	c := &Connection{
		conn:  conn,
		srv:   srv,
		w:     http11.NewResponseWriter(conn),
		start: time.Now(),
	}
	c.state.Store(int32(StateReading))
	return c
}

// State returns the current pipeline state.
func (c *Connection) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

func (c *Connection) setState(s ConnectionState) {
	c.state.Store(int32(s))
	c.srv.logger.Debug("connection_state",
		zap.String("remote", c.remoteAddr()),
		zap.Stringer("state", s))
}

// serve drives the state machine to Responded and closes the connection.
func (c *Connection) serve() {
	defer c.close()
	defer func() {
		if r := recover(); r != nil {
			c.srv.logger.Error("connection_panic",
				zap.String("remote", c.remoteAddr()),
				zap.Any("panic", r),
				zap.Stack("stack"))
			if !c.w.Responded() {
				c.fail(fmt.Errorf("panic: %v", r))
			}
		}
	}()

	for state := readRequest; state != nil; {
		state = state(c)
	}
}

func (c *Connection) close() {
	c.state.Store(int32(StateResponded))
	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.srv.logger.Debug("connection_close_failed", zap.Error(err))
	}
}

// state funcs

func readRequest(c *Connection) stateFunc {
	if d := c.srv.cfg.ReadTimeout; d > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(d))
	}
	raw, err := http11.ReadRequest(c.conn, c.srv.cfg.MaxHeaderBytes)
	if err != nil {
		var ne net.Error
		if !http11.IsClientError(err) && !(errors.As(err, &ne) && ne.Timeout()) {
			// Broken connection: nothing can be written back
			c.srv.logger.Debug("request_read_failed",
				zap.String("remote", c.remoteAddr()),
				zap.Error(err))
			c.srv.metrics.Error("read")
			return responded
		}
		return c.fail(err)
	}
	c.raw = raw
	return parseRequest
}

func parseRequest(c *Connection) stateFunc {
	req, err := http11.Parse(c.raw)
	if err != nil {
		return c.fail(err)
	}
	c.req = req
	c.setState(StateParsed)
	return validateRequest
}

func validateRequest(c *Connection) stateFunc {
	p, err := http11.Validate(c.req)
	if err != nil {
		return c.fail(err)
	}
	c.path = p
	c.setState(StateValidated)
	return dispatch
}

func dispatch(c *Connection) stateFunc {
	c.route, c.match = c.srv.router.Match(c.req.Method(), c.path)
	switch c.match.Kind {
	case router.Match, router.Redirect:
		c.setState(StateRouterDispatch)
		return routerDispatch
	case router.Malformed:
		return c.fail(malformed(c.route, c.match))
	default:
		c.setState(StateStaticDispatch)
		return staticDispatch
	}
}

func routerDispatch(c *Connection) stateFunc {
	c.setWriteDeadline()
	if c.match.Kind == router.Redirect {
		c.written(c.w.Redirect(c.match.Target))
		return responded
	}

	err := c.route.Handler.Serve(c.w, c.match.Params)
	if !c.w.Responded() {
		if err == nil {
			err = errNoResponse
		}
		return c.fail(fmt.Errorf("%w: %s: %v", errHandlerFailed, c.route.Pattern, err))
	}
	if werr := c.w.Err(); werr != nil {
		c.written(werr)
		return responded
	}
	c.written(nil)
	if err != nil {
		// The response went out; a handler error now is only reported
		c.srv.logger.Warn("handler_failed",
			zap.String("path", c.path),
			zap.String("route", c.route.Pattern),
			zap.Error(err))
		c.srv.metrics.Error("handler")
	}
	return responded
}

func staticDispatch(c *Connection) stateFunc {
	f, err := c.srv.resolver.Resolve(c.path)
	if errors.Is(err, static.ErrNotFound) {
		c.setState(StateNotFound)
		return c.fail(err)
	}
	if err != nil {
		return c.fail(err)
	}
	c.setWriteDeadline()
	c.written(c.w.Respond(http11.StatusOK, f.Type, f.Content))
	return responded
}

func responded(c *Connection) stateFunc {
	c.setState(StateResponded)
	return nil
}

// fail records err, writes the mapped error response and ends the pipeline.
func (c *Connection) fail(err error) stateFunc {
	c.err = err
	status, reason := statusFor(err)
	kind := errorKind(err)
	c.srv.metrics.Error(kind)

	fields := []zap.Field{
		zap.String("remote", c.remoteAddr()),
		zap.String("kind", kind),
		zap.Int("status", status.Code()),
		zap.Error(err),
	}
	if status >= http11.StatusInternalServerError {
		c.srv.logger.Error("request_failed", fields...)
	} else {
		c.srv.logger.Debug("request_rejected", fields...)
	}

	c.setWriteDeadline()
	c.written(c.w.RespondError(status, reason))
	return responded
}

// written logs and records the outcome of the single response write.
func (c *Connection) written(err error) {
	if err != nil {
		c.srv.logger.Warn("response_write_failed",
			zap.String("remote", c.remoteAddr()),
			zap.Error(err))
		c.srv.metrics.Error("write")
		return
	}

	elapsed := time.Since(c.start)
	n := c.w.BytesWritten()
	c.srv.stats.served.Add(1)
	c.srv.metrics.Response(c.w.Status().Code(), n, elapsed)

	method, uri := "", ""
	if c.req != nil {
		method, uri = c.req.Method().String(), c.req.URI()
	}
	c.srv.logger.Info("request_served",
		zap.String("remote", c.remoteAddr()),
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", c.w.Status().Code()),
		zap.String("size", humanize.Bytes(uint64(n))),
		zap.Duration("duration", elapsed))
}

func (c *Connection) setWriteDeadline() {
	if d := c.srv.cfg.WriteTimeout; d > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(d))
	}
}

func (c *Connection) remoteAddr() string {
	if a := c.conn.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}
