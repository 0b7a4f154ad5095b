package transport

import "fmt"

// Kind classifies a send failure. Auth and Connection usually point at
// a systemic problem rather than a single bad recipient.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindConnection Kind = "connection"
	KindRejected   Kind = "rejected"
	KindUnknown    Kind = "unknown"
)

// Error wraps a transport failure with its classified kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
