// Package site defines the demo application served by the spark binary.
package site

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"

	"github.com/watt-toolkit/spark/pkg/spark/content"
	"github.com/watt-toolkit/spark/pkg/spark/http11"
	"github.com/watt-toolkit/spark/pkg/spark/mime"
	"github.com/watt-toolkit/spark/pkg/spark/proxy"
	"github.com/watt-toolkit/spark/pkg/spark/router"
)

const (
	helloTitle = "Hello, World!"
	webglTitle = "WebGL HTTP Server Demo Page"

	reasonForbidden  = "Forbidden, Access Denied"
	reasonBadGateway = "Bad Gateway"
	reasonBadBarcode = "unencodable barcode data"
)

// Options configures the site.
type Options struct {
	// Proxy serves /external/:host when it allows at least one host
	Proxy *proxy.Client

	Logger *zap.Logger
}

type site struct {
	proxy  *proxy.Client
	logger *zap.Logger
}

// Routes returns the route table in match order.
func Routes(opts Options) []router.Route {
	s := &site{proxy: opts.Proxy, logger: opts.Logger}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	routes := []router.Route{
		router.GET("/", s.index),
		router.GET("/memes", s.memes),
		router.GET("/yourid/:id", s.yourID),
		router.GET("/a/:b/x/:y", s.abxy),
		router.GET("/webgl", s.webgl),
		router.GET("/barcode/:data", s.barcode),
		router.RedirectTo(http11.MethodGET, "/home", "/"),
	}
	if s.proxy != nil && s.proxy.Enabled() {
		routes = append(routes, router.GET("/external/:host", s.external))
	}
	return routes
}

// New builds a router over Routes(opts).
func New(opts Options) (*router.Router, error) {
	return router.New(Routes(opts)...)
}

func (s *site) index(w *http11.ResponseWriter, _ router.Params) error {
	page := content.NewPage().
		Title(helloTitle).
		Script("hello_world.js", "").
		Style("* { font-family: monospace; }").
		Heading(1, helloTitle).
		Break().
		Paragraph(helloTitle).
		Link("WebGL Demo", "/webgl")
	return w.Respond(http11.StatusOK, mime.HTML, []byte(page.String()))
}

func (s *site) memes(w *http11.ResponseWriter, _ router.Params) error {
	body, err := json.MarshalIndent(map[string][]string{"memes": {"meme"}}, "", "\t")
	if err != nil {
		return err
	}
	return w.Respond(http11.StatusOK, mime.JSON, body)
}

func (s *site) yourID(w *http11.ResponseWriter, p router.Params) error {
	return w.RespondText(http11.StatusOK, "Your id is: "+p.Get("id"))
}

func (s *site) abxy(w *http11.ResponseWriter, p router.Params) error {
	return w.RespondText(http11.StatusOK, p.Get("b")+" "+p.Get("y"))
}

func (s *site) webgl(w *http11.ResponseWriter, _ router.Params) error {
	page := content.NewPage().
		Title(webglTitle).
		Heading(1, webglTitle).
		Canvas(800, 600, "", true)
	return w.Respond(http11.StatusOK, mime.HTML, []byte(page.String()))
}

// barcode renders :data as a Code 128 bitmap.
func (s *site) barcode(w *http11.ResponseWriter, p router.Params) error {
	bits, err := content.EncodeCode128(p.Get("data"))
	if err != nil {
		return w.RespondError(http11.StatusBadRequest, reasonBadBarcode)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := content.EncodeBMP(buf, content.BarcodeImage(bits, content.DefaultBarcodeHeight)); err != nil {
		return err
	}
	return w.Respond(http11.StatusOK, mime.BMP, buf.B)
}

// external relays the root page of an allowlisted host.
func (s *site) external(w *http11.ResponseWriter, p router.Params) error {
	host := p.Get("host")
	res, err := s.proxy.Fetch(context.Background(), host, "/")
	switch {
	case errors.Is(err, proxy.ErrHostNotAllowed):
		return w.RespondError(http11.StatusForbidden, reasonForbidden)
	case err != nil:
		s.logger.Warn("upstream_fetch_failed", zap.String("host", host), zap.Error(err))
		return w.RespondError(http11.StatusBadGateway, reasonBadGateway)
	}
	return w.Respond(http11.StatusOK, mime.Parse(res.ContentType), res.Body)
}
