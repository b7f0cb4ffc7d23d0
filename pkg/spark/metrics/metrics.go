// Package metrics defines the Prometheus collectors for the spark server
// and the HTTP endpoint that exposes them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "spark"
	subsystem = "server"
)

// Collector records server activity. A nil *Collector is valid and
// records nothing.
type Collector struct {
	connections   prometheus.Counter
	responses     *prometheus.CounterVec
	errors        *prometheus.CounterVec
	activeWorkers prometheus.Gauge
	responseTime  prometheus.Histogram
	responseBytes prometheus.Counter
}

// NewCollector creates the collectors and registers them with reg.
// Registering twice on the same registry panics.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		connections: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connections_total",
			Help:      "Total number of accepted connections",
		}),
		responses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "responses_total",
			Help:      "Total number of responses by status code",
		}, []string{"status"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "errors_total",
			Help:      "Total number of pipeline errors by kind",
		}, []string{"kind"}),
		activeWorkers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_workers",
			Help:      "Number of connections currently being served",
		}),
		responseTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "response_seconds",
			Help:      "Time from accept to response written",
			Buckets:   prometheus.DefBuckets,
		}),
		responseBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "response_bytes_total",
			Help:      "Total bytes written in responses",
		}),
	}
}

// ConnectionAccepted counts an accepted connection.
func (c *Collector) ConnectionAccepted() {
	if c == nil {
		return
	}
	c.connections.Inc()
}

// WorkerStarted marks a worker slot as busy.
func (c *Collector) WorkerStarted() {
	if c == nil {
		return
	}
	c.activeWorkers.Inc()
}

// WorkerDone releases a worker slot.
func (c *Collector) WorkerDone() {
	if c == nil {
		return
	}
	c.activeWorkers.Dec()
}

// Response records a written response.
func (c *Collector) Response(status int, bytes int64, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.responses.WithLabelValues(strconv.Itoa(status)).Inc()
	c.responseBytes.Add(float64(bytes))
	c.responseTime.Observe(elapsed.Seconds())
}

// Error counts a pipeline error of the given kind, e.g. "parse" or "write".
func (c *Collector) Error(kind string) {
	if c == nil {
		return
	}
	c.errors.WithLabelValues(kind).Inc()
}
