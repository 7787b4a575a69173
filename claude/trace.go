package claude

import "encoding/json"

// TraceEntry wraps a protocol message with capture metadata. Trace
// files produced by recording tooling carry one entry per line.
type TraceEntry struct {
	ID         string          `json:"id"`
	Timestamp  string          `json:"timestamp"`
	Direction  string          `json:"direction"` // "sent" or "received"
	Message    json.RawMessage `json:"message"`
	TurnNumber int             `json:"turnNumber,omitempty"`
}

// UnwrapTrace extracts the inner protocol message bytes from a
// trace-entry line. Lines that are not trace entries (or carry no
// message payload) are returned unchanged, so a stream of raw protocol
// lines passes through untouched.
func UnwrapTrace(line []byte) []byte {
	var entry TraceEntry
	if err := json.Unmarshal(line, &entry); err != nil || len(entry.Message) == 0 {
		return line
	}
	return entry.Message
}

// ParseTraceEntry classifies one trace-file line, unwrapping the
// trace-entry envelope when present.
func ParseTraceEntry(line []byte) (Message, error) {
	return ParseMessage(UnwrapTrace(line))
}
