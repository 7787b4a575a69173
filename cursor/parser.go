package cursor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bazelment/yoloswe/agentingest/ingest"
)

// Parser classifies Cursor stream-json lines. It implements
// ingest.LineParser[Message] with the same two-pass contract as the
// claude parser: syntax failures are CodeJSONParse, recognized
// discriminators with missing required fields are CodeTypedParse, and a
// result claiming success with its error flag set is CodeNormalize.
// The parser keeps no cross-line state.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser { return &Parser{} }

// Name identifies the parser in error-sink records.
func (p *Parser) Name() string { return "cursor" }

// Reset is a no-op; the parser is stateless across lines.
func (p *Parser) Reset() {}

// ParseText classifies one line of text. Blank and whitespace-only
// lines produce no event and no error.
func (p *Parser) ParseText(line string) (Message, bool, *ingest.AdapterError) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, false, nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, false, &ingest.AdapterError{
			Code:    ingest.CodeJSONParse,
			Summary: "line is not valid JSON",
			Details: fmt.Sprintf("invalid JSON: %v: %s", err, trimmed),
			Cause:   err,
		}
	}
	tag := ""
	if obj, ok := decoded.(map[string]any); ok {
		tag, _ = obj["type"].(string)
	}
	return p.classify(trimmed, tag)
}

// ParseValue classifies one line given its already-decoded generic
// value. Classification matches ParseText.
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

func (p *Parser) classify(trimmed, tag string) (Message, bool, *ingest.AdapterError) {
	data := []byte(trimmed)

	switch tag {
	case "system":
		var msg SystemInitMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, decodeError(tag, trimmed, err)
		}
		if msg.Subtype == "" {
			return nil, false, missingField(tag, "subtype", trimmed)
		}
		return &msg, true, nil

	case "assistant":
		var msg AssistantMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, decodeError(tag, trimmed, err)
		}
		if msg.Message.Role == "" {
			return nil, false, missingField(tag, "message.role", trimmed)
		}
		return &msg, true, nil

	case "tool_call":
		var msg ToolCallMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, decodeError(tag, trimmed, err)
		}
		if msg.CallID == "" {
			return nil, false, missingField(tag, "call_id", trimmed)
		}
		if len(msg.ToolCall) == 0 {
			return nil, false, missingField(tag, "tool_call", trimmed)
		}
		return &msg, true, nil

	case "result":
		var msg ResultMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, false, decodeError(tag, trimmed, err)
		}
		if msg.Subtype == "" {
			return nil, false, missingField(tag, "subtype", trimmed)
		}
		if msg.Subtype == "success" && msg.IsError {
			return nil, false, &ingest.AdapterError{
				Code:    ingest.CodeNormalize,
				Summary: "result subtype claims success but is_error is set",
				Details: fmt.Sprintf("contradictory result: subtype=%q is_error=true: %s", msg.Subtype, trimmed),
			}
		}
		return &msg, true, nil

	default:
		return &UnknownMessage{TypeTag: tag, Raw: append(json.RawMessage(nil), data...)}, true, nil
	}
}

func decodeError(tag, line string, err error) *ingest.AdapterError {
	return &ingest.AdapterError{
		Code:    ingest.CodeTypedParse,
		Summary: fmt.Sprintf("%s message payload does not match its variant", tag),
		Details: fmt.Sprintf("decode %s message: %v: %s", tag, err, line),
		Cause:   err,
	}
}

func missingField(tag, field, line string) *ingest.AdapterError {
	return &ingest.AdapterError{
		Code:    ingest.CodeTypedParse,
		Summary: fmt.Sprintf("%s message missing required field %s", tag, field),
		Details: fmt.Sprintf("%s message missing required field %s: %s", tag, field, line),
	}
}
