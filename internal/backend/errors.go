package backend

import "fmt"

// TransportError reports a request that could not complete at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError reports a response whose status is outside 2xx.
type ServerError struct {
	Op     string
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server Error: %d", e.Status)
}
