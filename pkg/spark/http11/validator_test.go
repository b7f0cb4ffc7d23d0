package http11

import (
	"errors"
	"testing"

	"github.com/watt-toolkit/spark/pkg/spark/uri"
)

func mustParse(t *testing.T, input string) *Request {
	t.Helper()
	req, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return req
}

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"GET / HTTP/1.1\r\nHost: x\r\n\r\n", "/"},
		{"GET /./src/./main.go HTTP/1.1\r\n\r\n", "/src/main.go"},
		{"POST /api HTTP/1.1\r\nContent-Length: 0\r\n\r\n", "/api"},
		{"DELETE /home/42 HTTP/1.1\r\n\r\n", "/home/42"},
		{"PUT /a//b/ HTTP/1.1\r\n\r\n", "/a//b/"},
	}

	for _, tt := range tests {
		got, err := Validate(mustParse(t, tt.input))
		if err != nil {
			t.Errorf("Validate(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Validate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"trace", "TRACE / HTTP/1.1\r\n\r\n", ErrUnsupportedMethod},
		{"unknown method", "BREW / HTTP/1.1\r\n\r\n", ErrUnsupportedMethod},
		{"head", "HEAD / HTTP/1.1\r\n\r\n", ErrUnsupportedMethod},
		{"lowercase method", "get /home/42 HTTP/1.1\r\nHost: x\r\n\r\n", ErrUnsupportedMethod},
		{"mixed case method", "Post /api HTTP/1.1\r\n\r\n", ErrUnsupportedMethod},
		{"traversal", "GET /src/../../etc/passwd HTTP/1.1\r\n\r\n", ErrPathTraversal},
		{"dot only", "GET . HTTP/1.1\r\n\r\n", ErrEmptyPath},
		{"empty host", "GET / HTTP/1.1\r\nHost:\r\n\r\n", ErrEmptyHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(mustParse(t, tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate error = %v, want %v", err, tt.want)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if !IsClientError(err) {
				t.Error("IsClientError = false")
			}
		})
	}
}

// TestValidateTraversalCarriesPath tests that the offending path is reported verbatim
func TestValidateTraversalCarriesPath(t *testing.T) {
	_, err := Validate(mustParse(t, "GET /a/../b HTTP/1.1\r\n\r\n"))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if ve.Path != "/a/../b" {
		t.Errorf("Path = %q, want %q", ve.Path, "/a/../b")
	}
	var te *uri.TraversalError
	if !errors.As(err, &te) {
		t.Error("ValidationError does not unwrap to *uri.TraversalError")
	}
	if Reason(err) != "invalid path" {
		t.Errorf("Reason = %q", Reason(err))
	}
}

// TestValidateOrder tests that the method check runs before the path check
func TestValidateOrder(t *testing.T) {
	_, err := Validate(mustParse(t, "TRACE /../x HTTP/1.1\r\nHost:\r\n\r\n"))
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("Validate error = %v, want ErrUnsupportedMethod", err)
	}

	_, err = Validate(mustParse(t, "GET /../x HTTP/1.1\r\nHost:\r\n\r\n"))
	if !errors.Is(err, ErrPathTraversal) {
		t.Fatalf("Validate error = %v, want ErrPathTraversal", err)
	}
}

func TestValidateNegativeLength(t *testing.T) {
	req := mustParse(t, "GET / HTTP/1.1\r\n\r\n")
	req.Headers = append(req.Headers, Header{Kind: HeaderContentLength, Length: -5})
	_, err := Validate(req)
	if !errors.Is(err, ErrNegativeContentLength) {
		t.Fatalf("Validate error = %v, want ErrNegativeContentLength", err)
	}
}
