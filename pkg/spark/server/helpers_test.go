package server

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/watt-toolkit/spark/pkg/spark/http11"
	"github.com/watt-toolkit/spark/pkg/spark/router"
	"github.com/watt-toolkit/spark/pkg/spark/static"
)

// mockConn implements net.Conn for testing
type mockConn struct {
	readData  io.Reader
	writeData strings.Builder
	closes    int
	mu        sync.Mutex
}

func newMockConn(data string) *mockConn {
	return &mockConn{readData: strings.NewReader(data)}
}

func (m *mockConn) Read(b []byte) (int, error)  { return m.readData.Read(b) }
func (m *mockConn) Write(b []byte) (int, error) { return m.writeData.Write(b) }

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

func (m *mockConn) LocalAddr() net.Addr                { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080} }
func (m *mockConn) RemoteAddr() net.Addr               { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321} }
func (m *mockConn) SetDeadline(t time.Time) error      { return nil }
func (m *mockConn) SetReadDeadline(t time.Time) error  { return nil }
func (m *mockConn) SetWriteDeadline(t time.Time) error { return nil }

func (m *mockConn) output() string { return m.writeData.String() }

// errReader fails every read with err
type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

type testTimeout struct{}

func (testTimeout) Error() string   { return "i/o timeout" }
func (testTimeout) Timeout() bool   { return true }
func (testTimeout) Temporary() bool { return true }

var _ net.Error = testTimeout{}

// testRoutes mirrors a small application
func testRoutes(t *testing.T, calls *int) *router.Router {
	t.Helper()
	r, err := router.New(
		router.GET("/home/:id", func(w *http11.ResponseWriter, p router.Params) error {
			if calls != nil {
				*calls++
			}
			return w.RespondText(http11.StatusOK, "id = "+p.Get("id"))
		}),
		router.GET("/boom", func(w *http11.ResponseWriter, p router.Params) error {
			return errors.New("database unavailable")
		}),
		router.GET("/silent", func(w *http11.ResponseWriter, p router.Params) error {
			return nil
		}),
		router.GET("/panic", func(w *http11.ResponseWriter, p router.Params) error {
			panic("handler bug")
		}),
		router.GET("/late-error", func(w *http11.ResponseWriter, p router.Params) error {
			if err := w.RespondText(http11.StatusOK, "partial"); err != nil {
				return err
			}
			return errors.New("after write")
		}),
		router.RedirectTo(http11.MethodGET, "/old", "/home/1"),
	)
	if err != nil {
		t.Fatalf("router.New failed: %v", err)
	}
	return r
}

func testResolver() *static.Resolver {
	fsys := fstest.MapFS{
		"index.html":   {Data: []byte("<h1>spark</h1>")},
		"assets/x.png": {Data: []byte("png")},
		"src/a/b.txt":  {Data: []byte("nested")},
	}
	return static.NewResolver(fsys,
		static.Directory{Prefix: "/", AllowSubdirectories: false},
		static.Directory{Prefix: "/src/", AllowSubdirectories: true},
	)
}

func newTestServer(t *testing.T, cfg Config, calls *int) (*Server, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	cfg.Logger = zap.New(core)
	return New(testRoutes(t, calls), testResolver(), cfg), logs
}

// serveMock runs one connection over a mockConn and returns its output
func serveMock(t *testing.T, srv *Server, request string) (*mockConn, *Connection) {
	t.Helper()
	conn := newMockConn(request)
	c := newConnection(srv, conn)
	c.serve()
	return conn, c
}

func statesLogged(logs *observer.ObservedLogs) []string {
	var states []string
	for _, e := range logs.FilterMessage("connection_state").All() {
		states = append(states, e.ContextMap()["state"].(string))
	}
	return states
}
