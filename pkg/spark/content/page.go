// Package content builds the bodies served by the demo site: small HTML
// pages, Code 128 barcodes and 24-bit bitmaps.
package content

import (
	"html"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Page is an HTML document assembled element by element.
// Text is escaped; raw script and style bodies are not.
type Page struct {
	title string
	head  []string
	body  []string
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{}
}

// Title sets the document title.
func (p *Page) Title(t string) *Page {
	p.title = t
	return p
}

// Script adds a JavaScript element to the head. Either src or code may be empty.
func (p *Page) Script(src, code string) *Page {
	attrs := attr("type", "text/javascript")
	if src != "" {
		attrs += attr("src", src)
	}
	p.head = append(p.head, element("script", attrs, code))
	return p
}

// Style adds an inline stylesheet to the head.
func (p *Page) Style(css string) *Page {
	p.head = append(p.head, element("style", attr("type", "text/css"), css))
	return p
}

// Heading adds an <h1>..<h6>. Levels outside 1..6 become a paragraph.
func (p *Page) Heading(level int, text string) *Page {
	if level < 1 || level > 6 {
		return p.Paragraph(text)
	}
	p.body = append(p.body, element("h"+strconv.Itoa(level), "", html.EscapeString(text)))
	return p
}

func (p *Page) Paragraph(text string) *Page {
	p.body = append(p.body, element("p", "", html.EscapeString(text)))
	return p
}

func (p *Page) Break() *Page {
	p.body = append(p.body, "<br/>")
	return p
}

// Link adds a hyperlink.
func (p *Page) Link(text, href string) *Page {
	p.body = append(p.body, element("a", attr("href", href), html.EscapeString(text)))
	return p
}

// Canvas adds a canvas element. With webgl set, a script that acquires a
// WebGL context and clears the canvas follows it.
func (p *Page) Canvas(width, height int, id string, webgl bool) *Page {
	if id == "" {
		id = "canvas"
	}
	attrs := attr("id", id) + attr("width", strconv.Itoa(width)) + attr("height", strconv.Itoa(height))
	p.body = append(p.body, element("canvas", attrs, ""))
	if webgl {
		p.body = append(p.body, element("script", attr("type", "text/javascript"), webglBootstrap(id)))
	}
	return p
}

func webglBootstrap(id string) string {
	return "const gl = document.getElementById(" + strconv.Quote(id) + ").getContext('webgl');" +
		"if (gl) { gl.clearColor(0.0, 0.0, 0.0, 1.0); gl.clear(gl.COLOR_BUFFER_BIT); }" +
		"else { console.log('WebGL unavailable'); }"
}

// String renders the document.
func (p *Page) String() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("<!DOCTYPE html><html><head>")
	if p.title != "" {
		buf.WriteString(element("title", "", html.EscapeString(p.title)))
	}
	for _, h := range p.head {
		buf.WriteString(h)
	}
	buf.WriteString("</head><body>")
	for _, b := range p.body {
		buf.WriteString(b)
	}
	buf.WriteString("</body></html>")
	return buf.String()
}

func element(tag, attrs, inner string) string {
	var sb strings.Builder
	sb.Grow(len(tag)*2 + len(attrs) + len(inner) + 5)
	sb.WriteByte('<')
	sb.WriteString(tag)
	sb.WriteString(attrs)
	sb.WriteByte('>')
	sb.WriteString(inner)
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteByte('>')
	return sb.String()
}

func attr(name, value string) string {
	return " " + name + "=\"" + html.EscapeString(value) + "\""
}
