package http11

import "strings"

// Parse parses a request head produced by ReadRequest.
//
// Lines may end in "\r\n" or "\n". Leading blank lines are ignored. The
// first line must hold exactly three whitespace-separated tokens: method,
// URI and protocol. Each following line up to the first blank line is a
// header split on its first colon; the value is trimmed. Anything after
// the blank line is ignored.
//
// An unknown method token is not a parse error: it yields MethodUnknown
// and is rejected by Validate.
func Parse(text string) (*Request, error) {
	lines := strings.Split(text, "\n")

	i := 0
	for i < len(lines) && trimCR(lines[i]) == "" {
		i++
	}
	if i == len(lines) {
		return nil, &ParseError{Err: ErrEmptyRequest}
	}

	line, err := parseRequestLine(trimCR(lines[i]))
	if err != nil {
		return nil, err
	}

	req := &Request{Line: line}
	for _, raw := range lines[i+1:] {
		l := trimCR(raw)
		if l == "" {
			break
		}
		h, err := parseHeaderLine(l)
		if err != nil {
			return nil, err
		}
		req.Headers = append(req.Headers, h)
	}
	return req, nil
}

func parseRequestLine(l string) (RequestLine, error) {
	fields := strings.Fields(l)
	if len(fields) != 3 {
		return RequestLine{}, &ParseError{Err: ErrInvalidRequestLine, Line: l}
	}
	return RequestLine{
		Method:   ParseMethod(fields[0]),
		URI:      fields[1],
		Protocol: fields[2],
	}, nil
}

func parseHeaderLine(l string) (Header, error) {
	name, value, ok := strings.Cut(l, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Header{}, &ParseError{Err: ErrInvalidHeader, Line: l}
	}
	return parseHeader(name, strings.TrimSpace(value))
}

func trimCR(s string) string {
	return strings.TrimSuffix(s, "\r")
}
