package http11

import "strconv"

// Status is an HTTP response status code.
type Status int

// Status codes produced by the server
const (
	StatusOK                  Status = 200
	StatusMovedPermanently    Status = 301
	StatusBadRequest          Status = 400
	StatusForbidden           Status = 403
	StatusNotFound            Status = 404
	StatusRequestTimeout      Status = 408
	StatusInternalServerError Status = 500
	StatusBadGateway          Status = 502
)

// Pre-compiled status lines with CRLF
var (
	status200Bytes = []byte("HTTP/1.1 200 OK\r\n")
	status301Bytes = []byte("HTTP/1.1 301 Moved Permanently\r\n")
	status400Bytes = []byte("HTTP/1.1 400 Bad Request\r\n")
	status403Bytes = []byte("HTTP/1.1 403 Forbidden\r\n")
	status404Bytes = []byte("HTTP/1.1 404 Not Found\r\n")
	status408Bytes = []byte("HTTP/1.1 408 Request Timeout\r\n")
	status500Bytes = []byte("HTTP/1.1 500 Internal Server Error\r\n")
	status502Bytes = []byte("HTTP/1.1 502 Bad Gateway\r\n")
)

// Code returns the numeric status code.
func (s Status) Code() int { return int(s) }

// Text returns the reason phrase for s.
func (s Status) Text() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusMovedPermanently:
		return "Moved Permanently"
	case StatusBadRequest:
		return "Bad Request"
	case StatusForbidden:
		return "Forbidden"
	case StatusNotFound:
		return "Not Found"
	case StatusRequestTimeout:
		return "Request Timeout"
	case StatusInternalServerError:
		return "Internal Server Error"
	case StatusBadGateway:
		return "Bad Gateway"
	default:
		return "Unknown"
	}
}

func (s Status) String() string {
	return strconv.Itoa(int(s)) + " " + s.Text()
}

// statusLine returns the full status line including CRLF.
func statusLine(s Status) []byte {
	switch s {
	case StatusOK:
		return status200Bytes
	case StatusMovedPermanently:
		return status301Bytes
	case StatusBadRequest:
		return status400Bytes
	case StatusForbidden:
		return status403Bytes
	case StatusNotFound:
		return status404Bytes
	case StatusRequestTimeout:
		return status408Bytes
	case StatusInternalServerError:
		return status500Bytes
	case StatusBadGateway:
		return status502Bytes
	}
	return []byte(Version + " " + s.String() + crlf)
}
