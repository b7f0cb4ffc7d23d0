package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ConnectionAccepted()
	c.WorkerStarted()
	c.WorkerDone()
	c.Response(200, 10, time.Millisecond)
	c.Error("parse")
}

// TestMetricsEndpoint tests that recorded values show up on /metrics
func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ConnectionAccepted()
	c.ConnectionAccepted()
	c.Response(404, 40, 2*time.Millisecond)
	c.Error("static")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		"spark_server_connections_total 2",
		`spark_server_responses_total{status="404"} 1`,
		`spark_server_errors_total{kind="static"} 1`,
		"spark_server_response_bytes_total 40",
		"spark_server_response_seconds_count 1",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(Handler(prometheus.NewRegistry()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	resp2, err := http.Post(srv.URL+"/healthz", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST /healthz failed: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", resp2.StatusCode)
	}
}
