//go:build !linux

package socket

// applyListenerOptions is a no-op on platforms without specific optimizations.
func applyListenerOptions(fd int, cfg *Config) error {
	return nil
}
