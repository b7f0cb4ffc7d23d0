package http11

// Method identifies an HTTP request method.
type Method uint8

// Method IDs for O(1) switching
const (
	MethodUnknown Method = iota
	MethodGET
	MethodPOST
	MethodPUT
	MethodDELETE
	MethodPATCH
	MethodHEAD
	MethodOPTIONS
	MethodCONNECT
	MethodTRACE
)

const (
	methodGETString     = "GET"
	methodPOSTString    = "POST"
	methodPUTString     = "PUT"
	methodDELETEString  = "DELETE"
	methodPATCHString   = "PATCH"
	methodHEADString    = "HEAD"
	methodOPTIONSString = "OPTIONS"
	methodCONNECTString = "CONNECT"
	methodTRACEString   = "TRACE"
)

// ParseMethod converts a request-line token to a Method.
// Method tokens are case-sensitive: "get" is not GET. Unrecognized tokens
// return MethodUnknown; rejecting them is left to Validate.
func ParseMethod(token string) Method {
	switch token {
	case methodGETString:
		return MethodGET
	case methodPOSTString:
		return MethodPOST
	case methodPUTString:
		return MethodPUT
	case methodDELETEString:
		return MethodDELETE
	case methodPATCHString:
		return MethodPATCH
	case methodHEADString:
		return MethodHEAD
	case methodOPTIONSString:
		return MethodOPTIONS
	case methodCONNECTString:
		return MethodCONNECT
	case methodTRACEString:
		return MethodTRACE
	}
	return MethodUnknown
}

// String returns the canonical token for m.
func (m Method) String() string {
	switch m {
	case MethodGET:
		return methodGETString
	case MethodPOST:
		return methodPOSTString
	case MethodPUT:
		return methodPUTString
	case MethodDELETE:
		return methodDELETEString
	case MethodPATCH:
		return methodPATCHString
	case MethodHEAD:
		return methodHEADString
	case MethodOPTIONS:
		return methodOPTIONSString
	case MethodCONNECT:
		return methodCONNECTString
	case MethodTRACE:
		return methodTRACEString
	default:
		return "UNKNOWN"
	}
}

// IsSupported reports whether the server accepts requests with m.
// Only GET, POST, PUT and DELETE are served.
func (m Method) IsSupported() bool {
	switch m {
	case MethodGET, MethodPOST, MethodPUT, MethodDELETE:
		return true
	}
	return false
}
