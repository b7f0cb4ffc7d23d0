// Package router dispatches request paths to handlers using ordered,
// segment-based patterns with ":name" placeholders.
//
// A Router is built once from its full route list and never changes
// afterwards, so it can be shared by every connection without locking.
package router

import (
	"errors"
	"fmt"

	"github.com/watt-toolkit/spark/pkg/spark/http11"
)

// Route errors
var (
	ErrEmptyPattern = errors.New("router: empty route pattern")
	ErrNilHandler   = errors.New("router: nil handler")
)

// Route binds a method and pattern to a handler, or to a redirect target.
type Route struct {
	Method  http11.Method
	Pattern string
	Handler Handler

	// target is set for redirect routes only
	target string
}

// Handle builds a route for method and pattern.
func Handle(method http11.Method, pattern string, h Handler) Route {
	return Route{Method: method, Pattern: pattern, Handler: h}
}

// GET builds a GET route from a handler function.
func GET(pattern string, f HandlerFunc) Route {
	return Handle(http11.MethodGET, pattern, f)
}

// POST builds a POST route from a handler function.
func POST(pattern string, f HandlerFunc) Route {
	return Handle(http11.MethodPOST, pattern, f)
}

// RedirectTo builds a route that answers matching requests with a
// permanent redirect to target.
func RedirectTo(method http11.Method, pattern, target string) Route {
	return Route{Method: method, Pattern: pattern, target: target}
}

// IsRedirect reports whether r is a redirect route.
func (r Route) IsRedirect() bool { return r.target != "" }

// Target returns the redirect target, or "".
func (r Route) Target() string { return r.target }

func (r Route) String() string {
	if r.IsRedirect() {
		return fmt.Sprintf("%s %s -> %s", r.Method, r.Pattern, r.target)
	}
	return fmt.Sprintf("%s %s", r.Method, r.Pattern)
}

// Router holds an immutable, ordered route table.
type Router struct {
	routes []Route
}

// New creates a router from routes. Order is significant: the first
// route that does not report NoMatch decides the request.
func New(routes ...Route) (*Router, error) {
	table := make([]Route, len(routes))
	for i, r := range routes {
		if r.Pattern == "" {
			return nil, fmt.Errorf("route %d: %w", i, ErrEmptyPattern)
		}
		if r.Handler == nil && !r.IsRedirect() {
			return nil, fmt.Errorf("route %d (%s): %w", i, r.Pattern, ErrNilHandler)
		}
		table[i] = r
	}
	return &Router{routes: table}, nil
}

// Match finds the route for method and path.
//
// Routes registered for other methods are skipped. For the rest,
// MatchPath is applied in registration order and the first result that
// is not NoMatch is returned with its route. A match on a redirect route
// is reported as Redirect. If nothing applies the result is NoMatch and
// the returned Route is the zero value.
func (r *Router) Match(method http11.Method, path string) (Route, Result) {
	for _, route := range r.routes {
		if route.Method != method {
			continue
		}
		res := MatchPath(path, route.Pattern)
		switch res.Kind {
		case NoMatch:
			continue
		case Match:
			if route.IsRedirect() {
				return route, Result{Kind: Redirect, Target: route.target}
			}
		}
		return route, res
	}
	return Route{}, Result{Kind: NoMatch}
}

// Routes returns a copy of the route table in registration order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Len returns the number of registered routes.
func (r *Router) Len() int { return len(r.routes) }
