// Package socket creates tuned TCP listeners and applies per-connection
// socket options.
//
// Platform-specific options live in socket_linux.go; other platforms fall
// back to plain listeners.
package socket

import (
	"context"
	"net"
	"syscall"
)

// Config represents socket tuning configuration.
// Zero values mean "use system defaults".
type Config struct {
	// TCP_NODELAY on accepted connections
	NoDelay bool

	// SO_REUSEPORT on the listener (Linux only)
	ReusePort bool

	// TCP_DEFER_ACCEPT on the listener (Linux only): the server is not
	// woken until the client sends data
	DeferAccept bool

	// DeferAcceptSeconds bounds how long the kernel holds a silent
	// connection when DeferAccept is set. Default: 5
	DeferAcceptSeconds int
}

// DefaultConfig returns the recommended configuration for one-shot
// request/response connections.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:            true,
		DeferAccept:        true,
		DeferAcceptSeconds: 5,
	}
}

// Listen opens a TCP listener on addr with listener options from cfg
// applied before bind.
func Listen(ctx context.Context, addr string, cfg *Config) (net.Listener, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var opErr error
			err := c.Control(func(fd uintptr) {
				opErr = applyListenerOptions(int(fd), cfg)
			})
			if err != nil {
				return err
			}
			return opErr
		},
	}
	return lc.Listen(ctx, "tcp", addr)
}

// Apply applies per-connection options. Non-TCP connections are left alone.
func Apply(conn net.Conn, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	if cfg.NoDelay {
		if err := tcpConn.SetNoDelay(true); err != nil {
			return err
		}
	}
	return nil
}
