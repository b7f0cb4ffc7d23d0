package http11

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// chunkReader returns its chunks one Read at a time
type chunkReader struct {
	chunks []string
	err    error
}

func (r *chunkReader) Read(b []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(b, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

// stallReader fails the test if read past the terminator
type stallReader struct {
	t    *testing.T
	data string
	done bool
}

func (r *stallReader) Read(b []byte) (int, error) {
	if r.done {
		r.t.Fatal("ReadRequest read past the header terminator")
	}
	r.done = true
	return copy(b, r.data), nil
}

func TestReadRequestStopsAtTerminator(t *testing.T) {
	input := "GET / HTTP/1.1\r\nHost: x\r\n\r\n"
	got, err := ReadRequest(&stallReader{t: t, data: input}, 0)
	if err != nil {
		t.Fatalf("ReadRequest failed: %v", err)
	}
	if got != input {
		t.Errorf("ReadRequest = %q, want %q", got, input)
	}
}

// TestReadRequestSplitTerminator tests a terminator split across reads
func TestReadRequestSplitTerminator(t *testing.T) {
	r := &chunkReader{chunks: []string{"GET / HTTP/1.1\r\nHost: x\r", "\n\r", "\n"}}
	got, err := ReadRequest(r, 0)
	if err != nil {
		t.Fatalf("ReadRequest failed: %v", err)
	}
	if got != "GET / HTTP/1.1\r\nHost: x\r\n\r\n" {
		t.Errorf("ReadRequest = %q", got)
	}
	if len(r.chunks) != 0 {
		t.Errorf("unread chunks = %v", r.chunks)
	}
}

func TestReadRequestEOFWithoutTerminator(t *testing.T) {
	got, err := ReadRequest(strings.NewReader("GET / HTTP/1.1"), 0)
	if err != nil {
		t.Fatalf("ReadRequest failed: %v", err)
	}
	if got != "GET / HTTP/1.1" {
		t.Errorf("ReadRequest = %q", got)
	}
}

// TestReadRequestLargeHead tests a head spanning several read chunks
func TestReadRequestLargeHead(t *testing.T) {
	input := "GET / HTTP/1.1\r\nX-Pad: " + strings.Repeat("a", 3*ReadChunkSize) + "\r\n\r\n"
	got, err := ReadRequest(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("ReadRequest failed: %v", err)
	}
	if got != input {
		t.Errorf("ReadRequest length = %d, want %d", len(got), len(input))
	}
}

func TestReadRequestTooLarge(t *testing.T) {
	input := "GET / HTTP/1.1\r\nX-Pad: " + strings.Repeat("a", 4*ReadChunkSize)
	_, err := ReadRequest(strings.NewReader(input), 2*ReadChunkSize)
	if !errors.Is(err, ErrHeadersTooLarge) {
		t.Fatalf("ReadRequest error = %v, want ErrHeadersTooLarge", err)
	}
}

func TestReadRequestInvalidUTF8(t *testing.T) {
	input := "GET /\xff\xfe HTTP/1.1\r\n\r\n"
	_, err := ReadRequest(strings.NewReader(input), 0)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("ReadRequest error = %v, want *DecodeError", err)
	}
	if de.Offset != 5 {
		t.Errorf("Offset = %d, want 5", de.Offset)
	}
	if Reason(err) != "invalid request encoding" {
		t.Errorf("Reason = %q", Reason(err))
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// TestReadRequestPassesReadErrors tests that deadline errors are returned unchanged
func TestReadRequestPassesReadErrors(t *testing.T) {
	r := &chunkReader{chunks: []string{"GET / HT"}, err: timeoutError{}}
	start := time.Now()
	_, err := ReadRequest(r, 0)
	if _, ok := err.(timeoutError); !ok {
		t.Fatalf("ReadRequest error = %v (%T), want timeoutError", err, err)
	}
	if time.Since(start) > time.Second {
		t.Error("ReadRequest blocked after read error")
	}
}
