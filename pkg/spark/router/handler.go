package router

import "github.com/watt-toolkit/spark/pkg/spark/http11"

// Params holds the segments captured by ":name" placeholders, keyed by
// name without the colon.
type Params map[string]string

// Get returns the captured value for name, or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Handler produces the response for a matched route.
//
// A handler writes exactly one response through w. If it returns an error
// without having written, the server answers 500; an error after writing
// is only logged.
type Handler interface {
	Serve(w *http11.ResponseWriter, params Params) error
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(w *http11.ResponseWriter, params Params) error

// Serve calls f(w, params).
func (f HandlerFunc) Serve(w *http11.ResponseWriter, params Params) error {
	return f(w, params)
}
