package claude

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bazelment/yoloswe/agentingest/ingest"
)

// Parser classifies Claude stream-json lines into the closed Message
// set. It implements ingest.LineParser[Message].
//
// Parsing is two-pass: a generic JSON decode of the trimmed line (any
// failure is CodeJSONParse, unconditionally), then reconstruction of
// the typed variant selected by the outer discriminator (a recognized
// discriminator with a missing required field is CodeTypedParse). After
// successful reconstruction a consistency check applies: a result whose
// subtype claims success while its error flag is set is CodeNormalize.
// An unrecognized discriminator is not an error — it yields
// UnknownMessage.
//
// The parser carries one piece of cross-line state: the session ID seen
// on earlier lines, used to backfill messages the CLI emits without
// one. Backfill never changes how a line is classified.
type Parser struct {
	sessionID string
}

// NewParser creates a Parser.
func NewParser() *Parser { return &Parser{} }

// Name identifies the parser in error-sink records.
func (p *Parser) Name() string { return "claude" }

// Reset clears cross-line state so a discarded or corrupted line cannot
// skew later lines.
func (p *Parser) Reset() { p.sessionID = "" }

// ParseText classifies one line of text. A blank or whitespace-only
// line produces no event and no error.
func (p *Parser) ParseText(line string) (Message, bool, *ingest.AdapterError) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, false, nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, false, jsonParseError(trimmed, err)
	}
	return p.classify(trimmed, discriminator(decoded))
}

// ParseValue classifies one line given a generic JSON value the caller
// already decoded from it. Classification is identical to ParseText for
// logically equivalent input.
func (p *Parser) ParseValue(line string, decoded map[string]any) (Message, bool, *ingest.AdapterError) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, false, nil
	}
	if decoded == nil {
		return p.ParseText(line)
	}
	tag, _ := decoded["type"].(string)
	return p.classify(trimmed, tag)
}

// ParseMessage classifies a single raw line without cross-line state.
func ParseMessage(line []byte) (Message, error) {
	msg, ok, aerr := NewParser().ParseText(string(line))
	if aerr != nil {
		return nil, aerr
	}
	if !ok {
		return nil, nil
	}
	return msg, nil
}

// discriminator extracts the outer type tag from a decoded generic
// value. Non-object values and missing or non-string tags yield "".
func discriminator(decoded any) string {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return ""
	}
	tag, _ := obj["type"].(string)
	return tag
}

// classify is pass two: reconstruct the typed variant for the matched
// discriminator.
func (p *Parser) classify(trimmed, tag string) (Message, bool, *ingest.AdapterError) {
	data := []byte(trimmed)

	switch MessageType(tag) {
	case MessageTypeSystem:
		var msg SystemMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, typedParseError(tag, trimmed, err)
		}
		if msg.Subtype == "" {
			return nil, false, missingFieldError(tag, "subtype", trimmed)
		}
		msg.SessionID = p.trackSession(msg.SessionID)
		return msg, true, nil

	case MessageTypeAssistant:
		var msg AssistantMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, typedParseError(tag, trimmed, err)
		}
		if msg.Message.Role == "" {
			return nil, false, missingFieldError(tag, "message.role", trimmed)
		}
		msg.SessionID = p.trackSession(msg.SessionID)
		return msg, true, nil

	case MessageTypeUser:
		var msg UserMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, typedParseError(tag, trimmed, err)
		}
		if msg.Message.Role == "" {
			return nil, false, missingFieldError(tag, "message.role", trimmed)
		}
		msg.SessionID = p.trackSession(msg.SessionID)
		return msg, true, nil

	case MessageTypeResult:
		var msg ResultMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, typedParseError(tag, trimmed, err)
		}
		if msg.Subtype == "" {
			return nil, false, missingFieldError(tag, "subtype", trimmed)
		}
		if msg.Subtype == "success" && msg.IsError {
			return nil, false, &ingest.AdapterError{
				Code:    ingest.CodeNormalize,
				Summary: "result subtype claims success but is_error is set",
				Details: fmt.Sprintf("contradictory result: subtype=%q is_error=true: %s", msg.Subtype, trimmed),
			}
		}
		msg.SessionID = p.trackSession(msg.SessionID)
		return msg, true, nil

	case MessageTypeStreamEvent:
		var msg StreamEvent
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, typedParseError(tag, trimmed, err)
		}
		if len(msg.Event) == 0 || string(msg.Event) == "null" {
			return nil, false, missingFieldError(tag, "event", trimmed)
		}
		var inner struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg.Event, &inner); err != nil || inner.Type == "" {
			return nil, false, missingFieldError(tag, "event.type", trimmed)
		}
		msg.InnerType = inner.Type
		msg.SessionID = p.trackSession(msg.SessionID)
		return msg, true, nil

	default:
		return UnknownMessage{TypeTag: tag, Raw: append(json.RawMessage(nil), data...)}, true, nil
	}
}

// trackSession remembers the most recent session ID and backfills
// messages that arrived without one.
func (p *Parser) trackSession(id string) string {
	if id != "" {
		p.sessionID = id
		return id
	}
	return p.sessionID
}

func jsonParseError(line string, err error) *ingest.AdapterError {
	return &ingest.AdapterError{
		Code:    ingest.CodeJSONParse,
		Summary: "line is not valid JSON",
		Details: fmt.Sprintf("invalid JSON: %v: %s", err, line),
		Cause:   err,
	}
}

func typedParseError(tag, line string, err error) *ingest.AdapterError {
	return &ingest.AdapterError{
		Code:    ingest.CodeTypedParse,
		Summary: fmt.Sprintf("%s message payload does not match its variant", tag),
		Details: fmt.Sprintf("decode %s message: %v: %s", tag, err, line),
		Cause:   err,
	}
}

func missingFieldError(tag, field, line string) *ingest.AdapterError {
	return &ingest.AdapterError{
		Code:    ingest.CodeTypedParse,
		Summary: fmt.Sprintf("%s message missing required field %s", tag, field),
		Details: fmt.Sprintf("%s message missing required field %s: %s", tag, field, line),
	}
}
