package orchestrator

import (
	"errors"
	"strings"

	"cofoundr_pitch_deck/generator"
)

var (
	ErrServerOffline = errors.New("server offline")
	ErrInFlight      = errors.New("generation already in flight")
)

// Kind names the variant of an Outcome.
type Kind string

const (
	KindSuccess          Kind = "success"
	KindServiceError     Kind = "service_error"
	KindTransportFailure Kind = "transport_failure"
)

// Outcome is the result of one submission. It is always exactly one of Success,
// ServiceError or TransportFailure.
type Outcome interface {
	Kind() Kind
	isOutcome()
}

// Success carries generated text with no error marker in it.
type Success struct {
	Text      string
	RequestID string
}

// ServiceError is a failure reported by the service, or a submission rejected locally before
// any call was made (Err is then ErrServerOffline, ErrInFlight or an invalid idea/options error).
type ServiceError struct {
	Message   string
	Class     generator.ErrorClass
	RequestID string
	Err       error
}

// TransportFailure is a call that raised instead of returning a payload.
type TransportFailure struct {
	Class     generator.ErrorClass
	Message   string
	RequestID string
	Err       error
}

func (Success) Kind() Kind          { return KindSuccess }
func (ServiceError) Kind() Kind     { return KindServiceError }
func (TransportFailure) Kind() Kind { return KindTransportFailure }

func (Success) isOutcome()          {}
func (ServiceError) isOutcome()     {}
func (TransportFailure) isOutcome() {}

// Local reports whether the submission was rejected before reaching the network.
func (e ServiceError) Local() bool { return e.RequestID == "" }

// Message returns the user-facing text of o: the deck for a success, the error otherwise.
func Message(o Outcome) string {
	switch v := o.(type) {
	case Success:
		return v.Text
	case ServiceError:
		return v.Message
	case TransportFailure:
		return v.Message
	default:
		return ""
	}
}

// Display is what the output pane shows for o. Failures always carry the error marker.
func Display(o Outcome) string {
	msg := Message(o)
	if o == nil || o.Kind() == KindSuccess || msg == "" || generator.HasErrorMarker(msg) {
		return msg
	}
	return generator.ErrorMarker + " " + msg
}

// Class returns the failure class of o, or "" for a success.
func Class(o Outcome) generator.ErrorClass {
	switch v := o.(type) {
	case ServiceError:
		return v.Class
	case TransportFailure:
		return v.Class
	default:
		return ""
	}
}

var displayMarkers = []string{generator.ErrorMarker, "Please enter", "Failed", "Analyzing your startup"}

// LooksValid is the cheap display-level check that gates copy, export and share. It is not
// the content validator: it only rejects empty text and text that reads like an error or a
// progress message.
func LooksValid(output string) bool {
	if strings.TrimSpace(output) == "" {
		return false
	}
	for _, m := range displayMarkers {
		if strings.Contains(output, m) {
			return false
		}
	}
	return true
}
