package server

// ConnectionState is a step in the per-connection pipeline.
//
//	Reading -> Parsed -> Validated -> RouterDispatch | StaticDispatch | NotFound -> Responded
//
// Failures while reading, parsing or validating go straight to Responded.
type ConnectionState int32

const (
	// StateReading is the initial state: the request head is being read
	StateReading ConnectionState = iota

	// StateParsed means the head was decoded and parsed into a Request
	StateParsed

	// StateValidated means the request passed validation
	StateValidated

	// StateRouterDispatch means a route matched and its handler is running
	StateRouterDispatch

	// StateStaticDispatch means no route matched and a file is being resolved
	StateStaticDispatch

	// StateNotFound means neither a route nor a file served the path
	StateNotFound

	// StateResponded is terminal: one response was attempted and the
	// connection is closed
	StateResponded
)

// String returns the string representation of the connection state
func (s ConnectionState) String() string {
	switch s {
	case StateReading:
		return "reading"
	case StateParsed:
		return "parsed"
	case StateValidated:
		return "validated"
	case StateRouterDispatch:
		return "router-dispatch"
	case StateStaticDispatch:
		return "static-dispatch"
	case StateNotFound:
		return "not-found"
	case StateResponded:
		return "responded"
	default:
		return "unknown"
	}
}
