package http11

import (
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/watt-toolkit/spark/pkg/spark/mime"
)

var (
	colonSpace = []byte(": ")
	crlfBytes  = []byte(crlf)
)

// Field is an extra response header written after Content-Type and
// Content-Length.
type Field struct {
	Name  string
	Value string
}

// Location returns the Location field used by redirects.
func Location(target string) Field {
	return Field{Name: headerLocation, Value: target}
}

// flusher is implemented by buffered sinks such as *bufio.Writer
type flusher interface {
	Flush() error
}

// ResponseWriter writes exactly one complete response.
//
// The status line, headers and body are assembled in a pooled buffer and
// handed to the underlying writer in a single Write call, followed by a
// Flush when the writer supports it. Content-Length always equals the
// body's byte length. Every call after the first returns
// ErrAlreadyResponded without writing.
type ResponseWriter struct {
	w io.Writer

	responded    bool
	status       Status
	bytesWritten int64
	err          error
}

// NewResponseWriter creates a new ResponseWriter for the given writer.
func NewResponseWriter(w io.Writer) *ResponseWriter {
	return &ResponseWriter{w: w}
}

// Respond writes the response. extra fields follow Content-Type and
// Content-Length in the order given.
func (rw *ResponseWriter) Respond(status Status, ct mime.Type, body []byte, extra ...Field) error {
	if rw.responded {
		return ErrAlreadyResponded
	}
	rw.responded = true
	rw.status = status

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.Write(statusLine(status))
	writeField(buf, headerContentType, ct.String())
	writeField(buf, headerContentLength, strconv.Itoa(len(body)))
	for _, f := range extra {
		writeField(buf, f.Name, f.Value)
	}
	buf.Write(crlfBytes)
	buf.Write(body)

	n, err := rw.w.Write(buf.B)
	rw.bytesWritten = int64(n)
	if err == nil {
		if f, ok := rw.w.(flusher); ok {
			err = f.Flush()
		}
	}
	rw.err = err
	return err
}

// RespondText writes a text/plain response.
func (rw *ResponseWriter) RespondText(status Status, text string) error {
	return rw.Respond(status, mime.Text, []byte(text))
}

// RespondError writes a text/plain error response whose body is
// "Error - <reason>\r\n".
func (rw *ResponseWriter) RespondError(status Status, reason string) error {
	return rw.RespondText(status, errorBodyPrefix+reason+crlf)
}

// Redirect writes a 301 response pointing at target.
func (rw *ResponseWriter) Redirect(target string) error {
	return rw.Respond(StatusMovedPermanently, mime.Text, nil, Location(target))
}

// Responded reports whether a response has been attempted.
func (rw *ResponseWriter) Responded() bool { return rw.responded }

// Err returns the error from writing or flushing the response, if any.
func (rw *ResponseWriter) Err() error { return rw.err }

// Status returns the status of the written response, or 0.
func (rw *ResponseWriter) Status() Status { return rw.status }

// BytesWritten returns the number of bytes accepted by the underlying writer.
func (rw *ResponseWriter) BytesWritten() int64 { return rw.bytesWritten }

func writeField(buf *bytebufferpool.ByteBuffer, name, value string) {
	buf.WriteString(name)
	buf.Write(colonSpace)
	buf.WriteString(value)
	buf.Write(crlfBytes)
}
