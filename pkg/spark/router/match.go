package router

import "strings"

// Kind classifies the outcome of matching a path against a pattern.
type Kind uint8

const (
	// NoMatch means the route does not apply; the next route is tried.
	NoMatch Kind = iota

	// Match means the path matched and Params holds the captures.
	Match

	// Redirect means the matched route sends the client to Target.
	Redirect

	// Malformed means the path fits the route's prefix but is missing
	// segments; Reason says which. Scanning stops at a Malformed result.
	Malformed
)

// String returns a lower-case name for k.
func (k Kind) String() string {
	switch k {
	case NoMatch:
		return "no-match"
	case Match:
		return "match"
	case Redirect:
		return "redirect"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Reasons carried by Malformed results
const (
	ReasonMissingParameter = "missing parameter"
	ReasonMalformedPath    = "malformed path"
)

// Result is the outcome of one match attempt.
type Result struct {
	Kind   Kind
	Params Params
	Target string
	Reason string
}

// paramPrefix marks a capturing pattern segment
const paramPrefix = ':'

// MatchPath matches a request path against a route pattern.
//
// Both are trimmed of leading and trailing slashes and split on "/".
// A request with more segments than the pattern never matches. Segments
// are compared pairwise: a pattern segment ":name" captures the request
// segment under "name" (an empty segment captures ""), any other pattern
// segment must equal the request segment exactly. A request with fewer
// segments than the pattern is Malformed: "missing parameter" when the
// first unmatched pattern segment is a placeholder, "malformed path"
// otherwise.
//
// Example:
//
//	MatchPath("/home/abc", "/home/:id")  // Match, id=abc
//	MatchPath("/home/", "/home/:id")     // Malformed, missing parameter
//	MatchPath("/home/abc", "/home")      // NoMatch
func MatchPath(requestPath, pattern string) Result {
	req := splitPath(requestPath)
	pat := splitPath(pattern)

	if len(req) > len(pat) {
		return Result{Kind: NoMatch}
	}

	var params Params
	for i, seg := range req {
		p := pat[i]
		if isParam(p) {
			if params == nil {
				params = make(Params, len(pat))
			}
			params[p[1:]] = seg
			continue
		}
		if p != seg {
			return Result{Kind: NoMatch}
		}
	}

	if len(req) < len(pat) {
		if isParam(pat[len(req)]) {
			return Result{Kind: Malformed, Reason: ReasonMissingParameter}
		}
		return Result{Kind: Malformed, Reason: ReasonMalformedPath}
	}

	if params == nil {
		params = Params{}
	}
	return Result{Kind: Match, Params: params}
}

// splitPath trims slashes from both ends and splits on "/".
// The empty path yields a single empty segment.
func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func isParam(seg string) bool {
	return len(seg) > 0 && seg[0] == paramPrefix
}
