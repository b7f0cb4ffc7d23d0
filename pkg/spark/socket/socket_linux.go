//go:build linux

package socket

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// applyListenerOptions sets Linux listener options on fd before bind.
// SO_REUSEADDR is always set; failing to set it is fatal, the rest are
// best-effort.
func applyListenerOptions(fd int, cfg *Config) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("socket: SO_REUSEADDR: %w", err)
	}

	if cfg.ReusePort {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
			return fmt.Errorf("socket: SO_REUSEPORT: %w", err)
		}
	}

	// TCP_DEFER_ACCEPT - Only wake server when data arrives
	// Value is timeout in seconds
	if cfg.DeferAccept {
		secs := cfg.DeferAcceptSeconds
		if secs <= 0 {
			secs = 5
		}
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_DEFER_ACCEPT, secs)
	}
	return nil
}
