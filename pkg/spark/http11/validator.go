package http11

import "github.com/watt-toolkit/spark/pkg/spark/uri"

// Validate checks a parsed request and returns its sanitized path.
//
// Checks run in order and the first failure is returned as a
// *ValidationError:
//  1. the method is one of GET, POST, PUT, DELETE
//  2. the URI sanitizes without traversal and is not empty afterwards
//  3. Content-Length, when present, is non-negative
//  4. Host, when present, is non-empty
func Validate(req *Request) (string, error) {
	if !req.Method().IsSupported() {
		return "", &ValidationError{Err: ErrUnsupportedMethod}
	}

	p, err := uri.Sanitize(req.URI())
	if err != nil {
		return "", &ValidationError{Err: ErrPathTraversal, Path: req.URI(), cause: err}
	}
	if p == "" {
		return "", &ValidationError{Err: ErrEmptyPath, Path: req.URI()}
	}

	if n, ok := req.ContentLength(); ok && n < 0 {
		return "", &ValidationError{Err: ErrNegativeContentLength}
	}

	if host, ok := req.Host(); ok && host == "" {
		return "", &ValidationError{Err: ErrEmptyHost}
	}

	return p, nil
}
