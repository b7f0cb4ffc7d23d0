package http11

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"
)

var headersEndBytes = []byte(headersEnd)

// ReadRequest reads the request head from r.
//
// Bytes are read ReadChunkSize at a time and accumulated until the buffer
// contains "\r\n\r\n" or r reports io.EOF. Anything that arrived after the
// terminator in the same read is returned with the head; it is never
// interpreted as a body.
//
// When limit > 0 and more than limit bytes accumulate without a
// terminator, ReadRequest returns a *ParseError wrapping ErrHeadersTooLarge.
// Non-EOF read errors, including deadline expiry, are returned unchanged.
// The accumulated bytes must be valid UTF-8, otherwise a *DecodeError is
// returned.
func ReadRequest(r io.Reader, limit int) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var chunk [ReadChunkSize]byte
	for {
		n, err := r.Read(chunk[:])
		if n > 0 {
			// Only the tail can complete a terminator split across reads
			start := buf.Len() - (len(headersEndBytes) - 1)
			if start < 0 {
				start = 0
			}
			buf.Write(chunk[:n])
			if bytes.Contains(buf.B[start:], headersEndBytes) {
				break
			}
			if limit > 0 && buf.Len() > limit {
				return "", &ParseError{Err: ErrHeadersTooLarge}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
	}

	if off := invalidUTF8Offset(buf.B); off >= 0 {
		return "", &DecodeError{Offset: off}
	}
	return string(buf.B), nil
}

// invalidUTF8Offset returns the index of the first byte that does not
// start a valid UTF-8 sequence, or -1.
func invalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
