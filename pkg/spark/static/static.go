// Package static serves files from a fixed set of directory prefixes.
package static

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/watt-toolkit/spark/pkg/spark/mime"
	"github.com/watt-toolkit/spark/pkg/spark/uri"
)

// Resolution errors
var (
	// ErrNotFound indicates no directory covers the path, or the file does
	// not exist, or the path names a directory
	ErrNotFound = errors.New("static: not found")

	// ErrForbidden indicates the path is deeper than a non-recursive
	// directory allows, or the file cannot be read for lack of permission
	ErrForbidden = errors.New("static: forbidden")
)

// InternalError wraps any other failure reading a file.
type InternalError struct {
	Path string
	Err  error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("static: reading %s: %v", e.Path, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// Directory is a served path prefix.
type Directory struct {
	// Prefix is matched against the start of the request path, e.g. "/src/"
	Prefix string

	// AllowSubdirectories permits paths at any depth below Prefix. When
	// false only paths at most one segment deeper than Prefix are served.
	AllowSubdirectories bool
}

// File is the outcome of a successful resolution.
type File struct {
	Name    string
	Content []byte
	Type    mime.Type
}

// Resolver maps request paths to files under root.
// It is immutable after construction.
type Resolver struct {
	root fs.FS
	dirs []Directory
}

// NewResolver creates a resolver reading from root.
// The directory list is copied.
func NewResolver(root fs.FS, dirs ...Directory) *Resolver {
	d := make([]Directory, len(dirs))
	copy(d, dirs)
	return &Resolver{root: root, dirs: d}
}

// Directories returns a copy of the configured directories.
func (r *Resolver) Directories() []Directory {
	d := make([]Directory, len(r.dirs))
	copy(d, r.dirs)
	return d
}

// Resolve reads the file for a sanitized request path.
//
// The directory whose prefix starts p is chosen; when several qualify the
// longest prefix wins, and among equal prefixes the first registered.
// This is not first-match: with "/" registered before "/src/", paths under
// /src/ still follow the "/src/" policy rather than being forbidden by "/".
// A non-recursive directory rejects paths more than one segment deeper
// than its prefix with ErrForbidden. The leading slash is stripped and the
// remainder read from the resolver's root. A trailing slash never names a
// file.
//
// Errors: ErrNotFound when no directory qualifies, the file is missing or
// is a directory, or p ends in a slash; ErrForbidden for depth or
// permission failures; *InternalError for anything else.
func (r *Resolver) Resolve(p string) (*File, error) {
	dir, ok := r.directoryFor(p)
	if !ok {
		return nil, ErrNotFound
	}
	if !dir.AllowSubdirectories && !isFirstLevel(p, dir.Prefix) {
		return nil, ErrForbidden
	}
	return r.read(p)
}

func (r *Resolver) directoryFor(p string) (Directory, bool) {
	var (
		best  Directory
		found bool
	)
	for _, d := range r.dirs {
		if !strings.HasPrefix(p, d.Prefix) {
			continue
		}
		if !found || len(d.Prefix) > len(best.Prefix) {
			best, found = d, true
		}
	}
	return best, found
}

func (r *Resolver) read(p string) (*File, error) {
	if strings.HasSuffix(p, "/") {
		return nil, ErrNotFound
	}
	name := path.Clean(strings.TrimPrefix(p, "/"))
	if name == "." || !fs.ValidPath(name) {
		return nil, ErrNotFound
	}

	info, err := fs.Stat(r.root, name)
	if err != nil {
		return nil, classify(name, err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	content, err := fs.ReadFile(r.root, name)
	if err != nil {
		return nil, classify(name, err)
	}

	return &File{
		Name:    name,
		Content: content,
		Type:    mime.FromExtension(uri.Extension(name)),
	}, nil
}

func classify(name string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrForbidden
	default:
		return &InternalError{Path: name, Err: err}
	}
}

// isFirstLevel reports whether p is at most one segment deeper than prefix.
// Segments are counted after trimming slashes; "/" has none.
func isFirstLevel(p, prefix string) bool {
	return segmentCount(p) <= segmentCount(prefix)+1
}

func segmentCount(p string) int {
	t := strings.Trim(p, "/")
	if t == "" {
		return 0
	}
	return strings.Count(t, "/") + 1
}
