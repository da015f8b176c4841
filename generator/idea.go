package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinIdeaLength = 10
	MaxIdeaLength = 2000
)

// InvalidIdeaError explains why an idea was rejected before any network call.
type InvalidIdeaError struct {
	Reason string
}

func (e *InvalidIdeaError) Error() string { return e.Reason }

func (e *InvalidIdeaError) Is(target error) bool { return target == ErrInvalidIdea }

// ValidateIdea checks the idea text is present and inside the accepted length band.
func ValidateIdea(idea string) error {
	text := strings.TrimSpace(idea)
	n := utf8.RuneCountInString(text)
	switch {
	case n == 0:
		return &InvalidIdeaError{Reason: "Please enter your startup idea"}
	case n < MinIdeaLength:
		return &InvalidIdeaError{Reason: fmt.Sprintf("Please provide more details about your idea (at least %d characters)", MinIdeaLength)}
	case n > MaxIdeaLength:
		return &InvalidIdeaError{Reason: fmt.Sprintf("Idea description is too long (maximum %d characters)", MaxIdeaLength)}
	}
	return nil
}
