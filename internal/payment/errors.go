package payment

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an upstream failure for logging. Callers of the
// donation endpoint see one failure shape regardless of kind.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindAuth means the gateway refused the credentials or returned no token.
	KindAuth
	// KindTransport means the request never produced an HTTP response.
	KindTransport
	// KindRejected means the gateway answered a payment with a non-2xx status.
	KindRejected
	// KindDecode means a response body could not be parsed.
	KindDecode
	// KindInput means the donation request lacks a field the payment needs.
	KindInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindDecode:
		return "decode"
	case KindInput:
		return "input"
	default:
		return "unknown"
	}
}

var (
	ErrNoToken     = errors.New("authentication response has no access token")
	ErrNoDonorName = errors.New("donorName is required")
)

// Error is an upstream failure with the gateway operation that produced it.
type Error struct {
	Kind   ErrorKind
	Op     string // "authenticate", "process payment" or "donate"
	Status int    // HTTP status, 0 when there was no response
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
