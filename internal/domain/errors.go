package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the rate sheet could not be found or opened.
	ErrDataUnavailable = errors.New("rate data unavailable")
	// ErrEmptySelection means no rows match the selected city and hotel.
	ErrEmptySelection = errors.New("no rate found for this selection")
	// ErrAssistantDisabled is returned when no model credential is configured.
	ErrAssistantDisabled = errors.New("assistant disabled: no API key configured")
)

// SchemaError reports a required column missing from a rate sheet.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("missing column %q", e.Column)
	}
	return fmt.Sprintf("%s: missing column %q", e.Path, e.Column)
}

// RemoteCallFailure wraps any failure of the language-model call.
type RemoteCallFailure struct {
	Reason string // credential|network|timeout|status|response
	Err    error
}

func (e *RemoteCallFailure) Error() string {
	if e.Err == nil {
		return "assistant call failed: " + e.Reason
	}
	return fmt.Sprintf("assistant call failed (%s): %v", e.Reason, e.Err)
}

func (e *RemoteCallFailure) Unwrap() error { return e.Err }
