package ingest

import "github.com/bazelment/yoloswe/agentingest/ndjson"

// CapturePolicy governs how much raw input is retained alongside
// classified output.
type CapturePolicy int

const (
	// CaptureNone retains nothing.
	CaptureNone CapturePolicy = iota
	// CaptureLine retains the raw line text.
	CaptureLine
	// CaptureJSON retains the decoded generic JSON value.
	CaptureJSON
	// CaptureBoth retains both.
	CaptureBoth
)

// DetailPolicy governs how much failure detail leaves the parser.
type DetailPolicy int

const (
	// RedactedSummaryOnly exposes only input-free summaries. Default.
	RedactedSummaryOnly DetailPolicy = iota
	// FullDetails exposes raw line content in error details.
	FullDetails
)

// ErrorRecord is delivered to the configured sink for every
// adapter-classified failure.
type ErrorRecord struct {
	SessionID string
	Parser    string
	Code      Code
	Details   string
	// AgentSessionID and AgentUUID are peeked from the raw line when
	// present, so failed lines can still be correlated with the agent's
	// own identifiers.
	AgentSessionID string
	AgentUUID      string
	Line           int
}

// ErrorSink receives structured failure records. Implementations must
// not retain the record's slices past the call.
type ErrorSink interface {
	CaptureError(rec ErrorRecord)
}

// ErrorSinkFunc adapts a function to the ErrorSink interface.
type ErrorSinkFunc func(rec ErrorRecord)

// CaptureError implements ErrorSink.
func (f ErrorSinkFunc) CaptureError(rec ErrorRecord) { f(rec) }

// Config controls one ingestion session. The zero value is usable and
// selects the defaults below. A Config is immutable for the session's
// lifetime.
type Config struct {
	// Sink receives a record for every adapter-classified failure.
	// Optional.
	Sink ErrorSink

	// MaxLineBytes is the per-line budget. Zero selects
	// ndjson.DefaultMaxLineBytes (64 KiB).
	MaxLineBytes int

	// MaxRawBytesTotal bounds the total bytes of raw capture across the
	// session. Zero means unlimited. Once exhausted, further captures
	// are omitted; classification and numbering are unaffected.
	MaxRawBytesTotal int64

	// CaptureRaw selects what raw input is attached to line records.
	CaptureRaw CapturePolicy

	// ErrorDetail selects how much failure detail reaches records and
	// the sink.
	ErrorDetail DetailPolicy
}

func (c Config) maxLineBytes() int {
	if c.MaxLineBytes <= 0 {
		return ndjson.DefaultMaxLineBytes
	}
	return c.MaxLineBytes
}
