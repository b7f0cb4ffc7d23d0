// Package uri normalizes request paths before they reach routing or the
// filesystem.
//
// Sanitize is the single gate against directory traversal: every path the
// server resolves has passed through it, and the result is stable under
// repeated application.
package uri

import (
	"fmt"
	"path"
	"strings"
)

const (
	segmentCurrent = "."
	segmentParent  = ".."
)

// TraversalError reports a path containing a parent-directory segment.
type TraversalError struct {
	// Path is the original, unmodified input.
	Path string
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("uri: invalid URI: %s", e.Path)
}

// Sanitize removes "." segments from p and rejects any ".." segment.
//
// The path is split on "/" and rejoined with "/". Every other segment,
// including empty ones, is kept in order: "/a//b/" stays "/a//b/".
// A ".." anywhere in the path, including the first
// or last segment, returns a *TraversalError naming p.
func Sanitize(p string) (string, error) {
	segments := strings.Split(p, "/")
	kept := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case segmentParent:
			return "", &TraversalError{Path: p}
		case segmentCurrent:
			continue
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, "/"), nil
}

// Extension returns the extension of the last segment of p without the
// leading dot, or "" when there is none.
func Extension(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return ""
	}
	return ext[1:]
}
