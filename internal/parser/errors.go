package parser

import (
	"fmt"

	"github.com/IgorBayerl/swift-report-ingest/internal/xmlcursor"
)

// StreamError reports malformed markup or a missing structural element. It
// aborts the report being read.
type StreamError = xmlcursor.StreamError

// ParseError reports a required value that could not be parsed, such as a
// non-numeric hit count. It aborts the report being read because the stream
// cannot be resumed mid-structure.
type ParseError struct {
	Element   string
	Attribute string
	Value     string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s=%q on <%s>: %v", e.Attribute, e.Value, e.Element, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldMissingError reports a structured issue entry lacking a required field.
// Only that entry is dropped.
type FieldMissingError struct {
	Element string
	Field   string
	Reason  string
}

func (e *FieldMissingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("<%s>: field %q %s", e.Element, e.Field, e.Reason)
	}
	return fmt.Sprintf("<%s>: missing required field %q", e.Element, e.Field)
}
