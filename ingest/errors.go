package ingest

import (
	"fmt"
)

// Code classifies adapter-level line failures into a closed set.
type Code string

const (
	// CodeJSONParse means the line is not syntactically valid JSON.
	CodeJSONParse Code = "json_parse"
	// CodeTypedParse means the line is valid JSON with a recognized
	// discriminator, but is missing a field that variant requires.
	CodeTypedParse Code = "typed_parse"
	// CodeNormalize means the payload is structurally valid but two
	// fields the protocol guarantees to be consistent contradict each
	// other.
	CodeNormalize Code = "normalize"
	// CodeUnknown is reserved as a marker for the Unknown event kind.
	// An unrecognized discriminator is an event, not an error, so no
	// AdapterError ever carries this code.
	CodeUnknown Code = "unknown"
)

// AdapterError is a classified failure from a protocol parser.
//
// Summary is redacted: it names the failure without reproducing input
// content and is safe to log under the default capture policy. Details
// may contain the offending line and decoder output; access it through
// Detail so the configured policy is enforced uniformly.
type AdapterError struct {
	Cause   error
	Code    Code
	Summary string
	Details string
}

func (e *AdapterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Summary, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Summary)
}

func (e *AdapterError) Unwrap() error {
	return e.Cause
}

// Detail returns the error detail appropriate for the given policy.
func (e *AdapterError) Detail(p DetailPolicy) string {
	if p == FullDetails && e.Details != "" {
		return e.Details
	}
	return e.Summary
}

// LineErrorKind discriminates line-record failures.
type LineErrorKind int

const (
	// ErrKindIO is a transport failure, terminal for the stream.
	ErrKindIO LineErrorKind = iota
	// ErrKindInvalidUTF8 is a per-line encoding failure.
	ErrKindInvalidUTF8
	// ErrKindLineTooLong is a per-line budget overflow; the line was
	// discarded but numbering continues.
	ErrKindLineTooLong
	// ErrKindAdapter is a classified protocol parse failure.
	ErrKindAdapter
)

// LineError pairs a failure with the 1-based line it occurred on.
type LineError struct {
	Adapter       *AdapterError
	Cause         error
	Kind          LineErrorKind
	Line          int
	ObservedBytes int
	MaxLineBytes  int
}

func (e *LineError) Error() string {
	switch e.Kind {
	case ErrKindIO:
		return fmt.Sprintf("line %d: read failed: %v", e.Line, e.Cause)
	case ErrKindInvalidUTF8:
		return fmt.Sprintf("line %d: invalid UTF-8", e.Line)
	case ErrKindLineTooLong:
		return fmt.Sprintf("line %d: %d bytes exceeds budget of %d", e.Line, e.ObservedBytes, e.MaxLineBytes)
	case ErrKindAdapter:
		return fmt.Sprintf("line %d: %v", e.Line, e.Adapter)
	}
	return fmt.Sprintf("line %d: unknown failure", e.Line)
}

func (e *LineError) Unwrap() error {
	if e.Adapter != nil {
		return e.Adapter
	}
	return e.Cause
}

// Terminal reports whether the failure ends the stream. Only transport
// failures do.
func (e *LineError) Terminal() bool {
	return e.Kind == ErrKindIO
}
