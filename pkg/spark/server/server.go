// Package server accepts TCP connections and runs the spark request
// pipeline on each of them using a bounded pool of workers.
package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/watt-toolkit/spark/pkg/spark/metrics"
	"github.com/watt-toolkit/spark/pkg/spark/router"
	"github.com/watt-toolkit/spark/pkg/spark/socket"
	"github.com/watt-toolkit/spark/pkg/spark/static"
)

// Server serves one request per connection.
//
// The router and resolver are immutable and shared by every worker.
// At most Config.MaxWorkers connections are served at once; the acceptor
// waits for a free worker before accepting the next connection.
type Server struct {
	router   *router.Router
	resolver *static.Resolver
	cfg      Config
	logger   *zap.Logger
	metrics  *metrics.Collector

	workers *semaphore.Weighted
	limiter *rate.Limiter

	mu         sync.Mutex
	listeners  map[net.Listener]struct{}
	conns      map[net.Conn]struct{}
	wg         sync.WaitGroup
	inShutdown atomic.Bool

	stats stats
}

type stats struct {
	accepted atomic.Int64
	active   atomic.Int64
	served   atomic.Int64
}

// Stats is a snapshot of server counters.
type Stats struct {
	Accepted int64
	Active   int64
	Served   int64
}

// New creates a server. A nil router has no routes and a nil resolver
// serves no static files.
func New(r *router.Router, res *static.Resolver, cfg Config) *Server {
	cfg = cfg.withDefaults()
	if r == nil {
		r, _ = router.New()
	}
	if res == nil {
		res = static.NewResolver(nil)
	}
	s := &Server{
		router:    r,
		resolver:  res,
		cfg:       cfg,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		workers:   semaphore.NewWeighted(int64(cfg.MaxWorkers)),
		listeners: make(map[net.Listener]struct{}),
		conns:     make(map[net.Conn]struct{}),
	}
	if cfg.AcceptRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.AcceptRate), cfg.AcceptBurst)
	}
	return s
}

// ListenAndServe opens a tuned listener on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := socket.Listen(ctx, addr, s.cfg.Socket)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or Shutdown is
// called, then returns ErrServerClosed. Other accept failures are returned
// as is; temporary ones are retried with backoff.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if !s.trackListener(ln, true) {
		ln.Close()
		return ErrServerClosed
	}
	defer s.trackListener(ln, false)

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.logger.Info("server_listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("max_workers", s.cfg.MaxWorkers))

	var tempDelay time.Duration
	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return s.closedErr(ctx, err)
			}
		}
		if err := s.workers.Acquire(ctx, 1); err != nil {
			return s.closedErr(ctx, err)
		}

		conn, err := ln.Accept()
		if err != nil {
			s.workers.Release(1)
			if s.shuttingDown() || ctx.Err() != nil {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if tempDelay > time.Second {
					tempDelay = time.Second
				}
				s.logger.Error("accept_failed", zap.Error(err), zap.Duration("retry_in", tempDelay))
				time.Sleep(tempDelay)
				continue
			}
			s.logger.Error("accept_failed", zap.Error(err))
			return err
		}
		tempDelay = 0

		if err := socket.Apply(conn, s.cfg.Socket); err != nil {
			s.logger.Debug("socket_tuning_failed", zap.Error(err))
		}

		if !s.startConn(conn) {
			conn.Close()
			s.workers.Release(1)
			return ErrServerClosed
		}
		s.stats.accepted.Add(1)
		s.metrics.ConnectionAccepted()
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	s.stats.active.Add(1)
	s.metrics.WorkerStarted()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		s.metrics.WorkerDone()
		s.stats.active.Add(-1)
		s.workers.Release(1)
		s.wg.Done()
	}()

	newConnection(s, conn).serve()
}

// Shutdown stops accepting, then waits for in-flight connections to finish
// or ctx to end. When ctx ends first, remaining connections are closed and
// ctx's error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.inShutdown.Store(true)
	for ln := range s.listeners {
		ln.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("server_stopped")
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		for c := range s.conns {
			c.Close()
		}
		s.mu.Unlock()
		s.logger.Warn("server_shutdown_forced", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

// Stats returns a snapshot of the server counters.
func (s *Server) Stats() Stats {
	return Stats{
		Accepted: s.stats.accepted.Load(),
		Active:   s.stats.active.Load(),
		Served:   s.stats.served.Load(),
	}
}

func (s *Server) shuttingDown() bool { return s.inShutdown.Load() }

func (s *Server) closedErr(ctx context.Context, err error) error {
	if s.shuttingDown() || ctx.Err() != nil {
		return ErrServerClosed
	}
	return err
}

func (s *Server) trackListener(ln net.Listener, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		if s.shuttingDown() {
			return false
		}
		s.listeners[ln] = struct{}{}
	} else {
		delete(s.listeners, ln)
	}
	return true
}

// startConn registers c with the in-flight set unless shutdown has begun.
// Registration and the WaitGroup increment happen under the same lock that
// Shutdown takes before waiting.
func (s *Server) startConn(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shuttingDown() {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}
