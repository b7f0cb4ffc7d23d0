// Package mime maps file extensions and header values to the small set of
// content types the server emits.
package mime

import "strings"

// Type is a media type as written in a Content-Type header.
type Type string

// Supported media types
const (
	HTML       Type = "text/html"
	JSON       Type = "application/json"
	Text       Type = "text/plain"
	JavaScript Type = "text/javascript"
	CSS        Type = "text/css"
	JPEG       Type = "image/jpeg"
	PNG        Type = "image/png"
	GIF        Type = "image/gif"
	BMP        Type = "image/bmp"
	CSV        Type = "text/csv"

	// Unknown is used for anything not listed above.
	Unknown Type = "application/octet-stream"
)

var byExtension = map[string]Type{
	"html": HTML,
	"htm":  HTML,
	"json": JSON,
	"txt":  Text,
	"js":   JavaScript,
	"css":  CSS,
	"jpg":  JPEG,
	"jpeg": JPEG,
	"png":  PNG,
	"gif":  GIF,
	"bmp":  BMP,
	"csv":  CSV,
}

var byName = map[string]Type{
	string(HTML):       HTML,
	string(JSON):       JSON,
	string(Text):       Text,
	string(JavaScript): JavaScript,
	string(CSS):        CSS,
	string(JPEG):       JPEG,
	string(PNG):        PNG,
	string(GIF):        GIF,
	string(BMP):        BMP,
	string(CSV):        CSV,
}

// FromExtension returns the type for a file extension given without the
// leading dot. Matching is case-insensitive.
func FromExtension(ext string) Type {
	if t, ok := byExtension[strings.ToLower(ext)]; ok {
		return t
	}
	return Unknown
}

// Parse maps a header value such as "text/html; charset=utf-8" to a Type.
// Parameters are ignored. Unrecognized values yield Unknown.
func Parse(s string) Type {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	if t, ok := byName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return Unknown
}

// String returns the header representation of t.
func (t Type) String() string {
	if t == "" {
		return string(Unknown)
	}
	return string(t)
}
