package ingest

import (
	"encoding/json"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"

	"github.com/bazelment/yoloswe/agentingest/ndjson"
)

// RawCapture is the raw input retained alongside a classified outcome,
// subject to the session's capture policy and byte budget.
type RawCapture struct {
	// Line is the raw line text (CaptureLine / CaptureBoth).
	Line string
	// JSON is the decoded generic value (CaptureJSON / CaptureBoth).
	// Nil when the line was not valid JSON.
	JSON map[string]any
}

// LineRecord is one classified outcome for one physical line.
// Exactly one of Event (HasEvent true) or Err is set, except for lines
// that produce neither (blank lines under the typed parsers), which
// still occupy a record so numbering stays contiguous.
type LineRecord[E any] struct {
	Raw      *RawCapture
	Err      *LineError
	Event    E
	Line     int
	HasEvent bool
}

// Session drives one bounded reader through one parser under one
// immutable configuration. Sessions are single-threaded: records are
// produced strictly in input order and no state is shared between
// sessions. Not safe for concurrent use.
type Session[E any] struct {
	reader    *ndjson.Reader
	parser    LineParser[E]
	cfg       Config
	id        string
	rawBudget int64
	budgeted  bool
	exhausted bool
	done      bool
}

// NewSession creates a session reading from src with the given parser.
func NewSession[E any](src io.Reader, parser LineParser[E], cfg Config) *Session[E] {
	return &Session[E]{
		reader:    ndjson.NewReader(src, cfg.maxLineBytes()),
		parser:    parser,
		cfg:       cfg,
		id:        uuid.NewString(),
		rawBudget: cfg.MaxRawBytesTotal,
		budgeted:  cfg.MaxRawBytesTotal > 0,
	}
}

// ID returns the session's ingest identifier, stamped on every
// error-sink record.
func (s *Session[E]) ID() string { return s.id }

// Next returns the next line record. ok is false once the stream is
// exhausted; a transport failure yields one final record with a
// terminal error, then ok is false.
func (s *Session[E]) Next() (rec LineRecord[E], ok bool) {
	if s.done {
		return LineRecord[E]{}, false
	}

	raw, ok := s.reader.Next()
	if !ok {
		s.done = true
		return LineRecord[E]{}, false
	}

	switch r := raw.(type) {
	case ndjson.TooLong:
		s.parser.Reset()
		return LineRecord[E]{
			Line: r.Number,
			Err: &LineError{
				Kind:          ErrKindLineTooLong,
				Line:          r.Number,
				ObservedBytes: r.ObservedBytes,
				MaxLineBytes:  r.MaxLineBytes,
			},
		}, true

	case ndjson.ReadError:
		s.done = true
		return LineRecord[E]{
			Line: r.Number,
			Err:  &LineError{Kind: ErrKindIO, Line: r.Number, Cause: r.Err},
		}, true

	case ndjson.Line:
		return s.classify(r), true
	}

	// Unreachable with the current reader record set.
	return LineRecord[E]{}, false
}

// classify runs one in-budget line through the parser and applies the
// capture policy.
func (s *Session[E]) classify(line ndjson.Line) LineRecord[E] {
	if !utf8.Valid(line.Bytes) {
		s.parser.Reset()
		return LineRecord[E]{
			Line: line.Number,
			Err:  &LineError{Kind: ErrKindInvalidUTF8, Line: line.Number},
		}
	}

	text := string(line.Bytes)
	rec := LineRecord[E]{Line: line.Number}

	// When the capture policy wants the decoded value anyway, hand it to
	// the parser's pre-decoded entry point so the line is not decoded
	// twice. Decode failures fall through to ParseText, which owns the
	// JsonParse classification.
	var decoded map[string]any
	wantJSON := s.cfg.CaptureRaw == CaptureJSON || s.cfg.CaptureRaw == CaptureBoth
	if wantJSON {
		if err := json.Unmarshal(line.Bytes, &decoded); err != nil {
			decoded = nil
		}
	}

	var (
		ev   E
		has  bool
		aerr *AdapterError
	)
	if decoded != nil {
		ev, has, aerr = s.parser.ParseValue(text, decoded)
	} else {
		ev, has, aerr = s.parser.ParseText(text)
	}

	switch {
	case aerr != nil:
		rec.Err = &LineError{Kind: ErrKindAdapter, Line: line.Number, Adapter: aerr}
		s.notify(line, aerr)
	case has:
		rec.Event = ev
		rec.HasEvent = true
	}

	rec.Raw = s.capture(text, decoded)
	return rec
}

// capture applies the raw-capture policy under the monotonic byte
// budget. Once the budget runs out captures are silently omitted.
func (s *Session[E]) capture(text string, decoded map[string]any) *RawCapture {
	if s.cfg.CaptureRaw == CaptureNone {
		return nil
	}
	if s.budgeted {
		cost := int64(len(text))
		if s.rawBudget < cost {
			if !s.exhausted {
				s.exhausted = true
				slog.Debug("raw capture budget exhausted", "session", s.id)
			}
			return nil
		}
		s.rawBudget -= cost
	}

	rc := &RawCapture{}
	switch s.cfg.CaptureRaw {
	case CaptureLine:
		rc.Line = text
	case CaptureJSON:
		rc.JSON = decoded
	case CaptureBoth:
		rc.Line = text
		rc.JSON = decoded
	}
	return rc
}

// notify delivers a policy-redacted record to the error sink, peeking
// the agent's own correlation identifiers out of the raw bytes without
// another full decode.
func (s *Session[E]) notify(line ndjson.Line, aerr *AdapterError) {
	if s.cfg.Sink == nil {
		return
	}
	rec := ErrorRecord{
		SessionID: s.id,
		Parser:    s.parser.Name(),
		Line:      line.Number,
		Code:      aerr.Code,
		Details:   aerr.Detail(s.cfg.ErrorDetail),
	}
	if v, err := jsonparser.GetString(line.Bytes, "session_id"); err == nil {
		rec.AgentSessionID = v
	}
	if v, err := jsonparser.GetString(line.Bytes, "uuid"); err == nil {
		rec.AgentUUID = v
	}
	s.cfg.Sink.CaptureError(rec)
}
