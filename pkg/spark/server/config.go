package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/watt-toolkit/spark/pkg/spark/http11"
	"github.com/watt-toolkit/spark/pkg/spark/metrics"
	"github.com/watt-toolkit/spark/pkg/spark/socket"
)

// Config holds server configuration
type Config struct {
	// MaxWorkers bounds the number of connections served concurrently.
	// When all workers are busy the acceptor stops accepting.
	// Default: 256
	MaxWorkers int

	// ReadTimeout is the maximum time to receive the request head.
	// Default: 10 seconds
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to write the response.
	// Default: 10 seconds
	WriteTimeout time.Duration

	// MaxHeaderBytes bounds the request head.
	// Default: 8192
	MaxHeaderBytes int

	// AcceptRate limits new connections per second; 0 disables limiting.
	AcceptRate float64

	// AcceptBurst is the limiter bucket size. Default: 1 when AcceptRate is set
	AcceptBurst int

	// Socket tuning applied to accepted connections. Nil uses socket defaults.
	Socket *socket.Config

	// Logger receives connection and response logs. Default: no-op
	Logger *zap.Logger

	// Metrics records server activity. Nil disables recording.
	Metrics *metrics.Collector
}

// DefaultConfig returns the default server configuration
func DefaultConfig() Config {
	return Config{
		MaxWorkers:     256,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: http11.DefaultMaxHeaderBytes,
	}
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = d.MaxWorkers
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.MaxHeaderBytes == 0 {
		c.MaxHeaderBytes = d.MaxHeaderBytes
	}
	if c.AcceptRate > 0 && c.AcceptBurst <= 0 {
		c.AcceptBurst = 1
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
