package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrorMarker is how the generation service flags an error embedded in a text payload.
const ErrorMarker = "❌"

var (
	ErrInvalidIdea    = errors.New("invalid idea")
	ErrInvalidOptions = errors.New("invalid options")
)

// ErrorClass is the transport-level classification of a failed call.
type ErrorClass string

const (
	ClassTimeout     ErrorClass = "timeout"
	ClassUnreachable ErrorClass = "unreachable"
	ClassUnknown     ErrorClass = "unknown"
)

// ClassifiedError carries an explicit classification produced at the collaborator boundary.
type ClassifiedError struct {
	Class ErrorClass
	Err   error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Class, e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// Classify wraps err with its ErrorClass. Already classified errors and service faults pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return err
	}
	var fault *ServiceFault
	if errors.As(err, &fault) {
		return err
	}
	return &ClassifiedError{Class: ClassOf(err), Err: err}
}

// ClassOf inspects err for its transport class. It is the single place that falls back to
// message matching, for errors that carry no typed signal.
func ClassOf(err error) ErrorClass {
	if err == nil {
		return ClassUnknown
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTimeout
	}
	// a timeout in the message wins over any connectivity signal
	if ClassifyMessage(err.Error()) == ClassTimeout {
		return ClassTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return ClassUnreachable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ClassUnreachable
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return ClassUnreachable
	}
	return ClassifyMessage(err.Error())
}

// ClassifyMessage is the substring fallback: "timeout" wins over "connect".
func ClassifyMessage(msg string) ErrorClass {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "timeout"), strings.Contains(m, "timed out"), strings.Contains(m, "deadline exceeded"):
		return ClassTimeout
	case strings.Contains(m, "connect"):
		return ClassUnreachable
	default:
		return ClassUnknown
	}
}

// ServiceFault is a structured failure reported by the generation service itself.
type ServiceFault struct {
	Message    string
	StatusCode int
}

func (f *ServiceFault) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("generation service error (status %d): %s", f.StatusCode, f.Message)
	}
	return "generation service error: " + f.Message
}

// Class hints at the service state behind the fault message.
func (f *ServiceFault) Class() ErrorClass {
	return ClassifyFaultMessage(f.Message)
}

// ClassifyFaultMessage reads connectivity and overload hints out of an error-bearing payload.
func ClassifyFaultMessage(msg string) ErrorClass {
	switch {
	case strings.Contains(msg, "Cannot connect"), strings.Contains(msg, "ECONNREFUSED"):
		return ClassUnreachable
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "temporarily unavailable"):
		return ClassTimeout
	default:
		return ClassUnknown
	}
}

// HasErrorMarker reports whether a text payload is actually an error message.
func HasErrorMarker(text string) bool {
	return strings.Contains(text, ErrorMarker)
}
