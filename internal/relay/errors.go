package relay

import "fmt"

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Code int
	// Body is the raw response body. Bodies over 64 KiB are cut there and
	// end with "…(truncated)".
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay: backend returned %d: %s", e.Code, e.Body)
}

// TransportError wraps connection, timeout and read failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relay: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when a 2xx body is not the expected JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("relay: decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
