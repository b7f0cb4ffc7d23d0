package site

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/watt-toolkit/spark/pkg/spark/http11"
	"github.com/watt-toolkit/spark/pkg/spark/proxy"
	"github.com/watt-toolkit/spark/pkg/spark/router"
)

// serve matches path and runs the handler, returning the raw response
func serve(t *testing.T, r *router.Router, path string) string {
	t.Helper()
	route, res := r.Match(http11.MethodGET, path)
	if res.Kind != router.Match {
		t.Fatalf("%s: match kind = %v", path, res.Kind)
	}
	var out bytes.Buffer
	if err := route.Handler.Serve(http11.NewResponseWriter(&out), res.Params); err != nil {
		t.Fatalf("%s: handler failed: %v", path, err)
	}
	return out.String()
}

func body(resp string) string {
	_, b, _ := strings.Cut(resp, "\r\n\r\n")
	return b
}

func TestRoutes(t *testing.T) {
	r, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		path        string
		contentType string
		body        string
	}{
		{"/yourid/abc", "text/plain", "Your id is: abc"},
		{"/a/first/x/second", "text/plain", "first second"},
		{"/memes", "application/json", "{\n\t\"memes\": [\n\t\t\"meme\"\n\t]\n}"},
	}
	for _, tt := range tests {
		out := serve(t, r, tt.path)
		if !strings.HasPrefix(out, "HTTP/1.1 200 OK\r\nContent-Type: "+tt.contentType+"\r\n") {
			t.Errorf("%s: head = %q", tt.path, out)
		}
		if got := body(out); got != tt.body {
			t.Errorf("%s: body = %q, want %q", tt.path, got, tt.body)
		}
	}
}

func TestPages(t *testing.T) {
	r, _ := New(Options{})

	index := body(serve(t, r, "/"))
	for _, want := range []string{"<title>Hello, World!</title>", `<a href="/webgl">WebGL Demo</a>`} {
		if !strings.Contains(index, want) {
			t.Errorf("index missing %q", want)
		}
	}

	webgl := body(serve(t, r, "/webgl"))
	if !strings.Contains(webgl, `width="800" height="600"`) {
		t.Errorf("webgl page missing canvas: %s", webgl)
	}
}

func TestHomeRedirect(t *testing.T) {
	r, _ := New(Options{})
	_, res := r.Match(http11.MethodGET, "/home")
	if res.Kind != router.Redirect || res.Target != "/" {
		t.Errorf("result = %+v, want redirect to /", res)
	}
}

func TestBarcode(t *testing.T) {
	r, _ := New(Options{})

	out := serve(t, r, "/barcode/PJJ123C")
	if !strings.Contains(out, "Content-Type: image/bmp\r\n") {
		t.Errorf("head = %q", out[:64])
	}
	if !strings.HasPrefix(body(out), "BM") {
		t.Error("body is not a bitmap")
	}

	route, res := r.Match(http11.MethodGET, "/barcode/\x01")
	var buf bytes.Buffer
	if err := route.Handler.Serve(http11.NewResponseWriter(&buf), res.Params); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "HTTP/1.1 400 Bad Request\r\n") {
		t.Errorf("unencodable data: %q", buf.String())
	}
}

func TestExternal(t *testing.T) {
	if r, _ := New(Options{}); hasPattern(r, "/external/:host") {
		t.Error("external route registered without an allowlist")
	}

	ln := fasthttputil.NewInmemoryListener()
	defer ln.Close()
	go (&fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("text/html")
		ctx.WriteString("<p>upstream</p>")
	}}).Serve(ln)

	p := proxy.New(proxy.Config{
		AllowedHosts: []string{"example.com"},
		Dial:         func(string) (net.Conn, error) { return ln.Dial() },
	})
	r, err := New(Options{Proxy: p})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out := serve(t, r, "/external/example.com")
	if !strings.HasPrefix(out, "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n") || body(out) != "<p>upstream</p>" {
		t.Errorf("proxied response = %q", out)
	}

	out = serve(t, r, "/external/other.test")
	if !strings.HasPrefix(out, "HTTP/1.1 403 Forbidden\r\n") {
		t.Errorf("disallowed host response = %q", out)
	}
}

func hasPattern(r *router.Router, pattern string) bool {
	for _, route := range r.Routes() {
		if route.Pattern == pattern {
			return true
		}
	}
	return false
}
