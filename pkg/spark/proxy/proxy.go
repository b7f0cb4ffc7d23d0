// Package proxy fetches pages from an allowlisted set of upstream hosts.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// ErrHostNotAllowed is returned for hosts outside the allowlist.
var ErrHostNotAllowed = errors.New("proxy: host not allowed")

// DefaultTimeout bounds a single upstream fetch
const DefaultTimeout = 5 * time.Second

// Config configures a Client.
type Config struct {
	// AllowedHosts lists the upstream hosts that may be fetched, compared
	// case-insensitively. An empty list allows nothing.
	AllowedHosts []string

	// Timeout bounds each fetch. Default: 5 seconds
	Timeout time.Duration

	// Dial overrides how upstream connections are opened. Nil uses TCP.
	Dial fasthttp.DialFunc
}

// Result is an upstream response.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client fetches upstream pages over plain HTTP.
type Client struct {
	allowed map[string]struct{}
	timeout time.Duration
	client  *fasthttp.Client
}

// New creates a client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedHosts))
	for _, h := range cfg.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed[h] = struct{}{}
		}
	}
	return &Client{
		allowed: allowed,
		timeout: cfg.Timeout,
		client: &fasthttp.Client{
			Name:         "spark",
			Dial:         cfg.Dial,
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
	}
}

// Enabled reports whether any host is allowed.
func (c *Client) Enabled() bool { return len(c.allowed) > 0 }

// Allowed reports whether host may be fetched.
func (c *Client) Allowed(host string) bool {
	_, ok := c.allowed[strings.ToLower(host)]
	return ok
}

// Fetch issues GET http://host/path and returns the upstream response.
// The fetch ends at the earlier of ctx's deadline and the client timeout.
func (c *Client) Fetch(ctx context.Context, host, path string) (*Result, error) {
	if !c.Allowed(host) {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, host)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://" + host + path)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("proxy: fetch %s%s: %w", host, path, err)
	}

	return &Result{
		StatusCode:  resp.StatusCode(),
		ContentType: string(resp.Header.ContentType()),
		Body:        append([]byte(nil), resp.Body()...),
	}, nil
}

// Close releases idle upstream connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}
