package publisher

import (
	"errors"
	"fmt"

	"cofoundr_pitch_deck/content"
)

var (
	// ErrExportDeclined is returned when the user does not confirm an export with warnings.
	ErrExportDeclined = errors.New("export declined")
	// ErrExporterRejected is the cause recorded when the exporter reports failure without an error.
	ErrExporterRejected = errors.New("exporter reported failure")
)

// ContentValidationError blocks an export: the text is structurally unusable.
type ContentValidationError struct {
	Validation content.ValidationResult
	Message    string
}

func (e *ContentValidationError) Error() string { return e.Message }

// ExportError is a failure of the exporter after validation passed.
type ExportError struct {
	Filename string
	Cause    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s failed: %v", e.Filename, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

// UserMessage hides the cause behind a retry suggestion.
func (e *ExportError) UserMessage() string {
	return "Failed to export the pitch deck. Please try again. If the problem persists, try regenerating the pitch deck."
}
