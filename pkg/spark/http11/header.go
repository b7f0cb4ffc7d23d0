package http11

import (
	"strconv"
	"strings"

	"github.com/watt-toolkit/spark/pkg/spark/mime"
)

// HeaderKind tags the variant held by a Header.
type HeaderKind uint8

const (
	HeaderCustom HeaderKind = iota
	HeaderContentType
	HeaderContentLength
	HeaderHost
	HeaderAccept
	HeaderAcceptLanguage
	HeaderConnection
)

// String returns the canonical header name for recognized kinds.
func (k HeaderKind) String() string {
	switch k {
	case HeaderContentType:
		return headerContentType
	case HeaderContentLength:
		return headerContentLength
	case HeaderHost:
		return headerHost
	case HeaderAccept:
		return headerAccept
	case HeaderAcceptLanguage:
		return headerAcceptLanguage
	case HeaderConnection:
		return headerConnection
	default:
		return "Custom"
	}
}

// Header is a single parsed request header.
//
// Only the fields for Kind are meaningful:
//   - HeaderContentType: Type
//   - HeaderContentLength: Length
//   - HeaderHost, HeaderAcceptLanguage: Value
//   - HeaderAccept: Types
//   - HeaderConnection: KeepAlive
//   - HeaderCustom: Name and Value, as received
type Header struct {
	Kind      HeaderKind
	Name      string
	Value     string
	Type      mime.Type
	Types     []mime.Type
	Length    int64
	KeepAlive bool
}

// kindByName maps lower-cased header names to their kind
var kindByName = map[string]HeaderKind{
	"content-type":    HeaderContentType,
	"content-length":  HeaderContentLength,
	"host":            HeaderHost,
	"accept":          HeaderAccept,
	"accept-language": HeaderAcceptLanguage,
	"connection":      HeaderConnection,
}

// parseHeader builds a Header from a name and an already trimmed value.
// The only value-level failure is a Content-Length that is not a
// non-negative integer.
func parseHeader(name, value string) (Header, error) {
	kind, ok := kindByName[strings.ToLower(name)]
	if !ok {
		return Header{Kind: HeaderCustom, Name: name, Value: value}, nil
	}

	h := Header{Kind: kind, Name: kind.String(), Value: value}
	switch kind {
	case HeaderContentType:
		h.Type = mime.Parse(value)
	case HeaderContentLength:
		// Digits only; 63 bits keeps the value in range for Length
		n, err := strconv.ParseUint(value, 10, 63)
		if err != nil {
			return Header{}, &ParseError{Err: ErrInvalidContentLength, Line: value}
		}
		h.Length = int64(n)
	case HeaderAccept:
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			h.Types = append(h.Types, mime.Parse(part))
		}
	case HeaderConnection:
		h.KeepAlive = strings.EqualFold(value, keepAliveToken)
	}
	return h, nil
}
