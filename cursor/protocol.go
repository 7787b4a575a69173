// Package cursor parses the Cursor Agent CLI's stream-json output.
// The protocol is flatter than claude's: one NDJSON object per line
// with a "type" discriminator and per-type payload fields.
package cursor

import (
	"encoding/json"
	"fmt"
)

// Message is the union type for all protocol messages.
type Message interface {
	messageType() string
}

// SystemInitMessage represents a system init message.
// Example: {"type":"system","subtype":"init","session_id":"...","model":"...","cwd":"..."}
type SystemInitMessage struct {
	Type           string `json:"type"`
	Subtype        string `json:"subtype"`
	SessionID      string `json:"session_id"`
	Model          string `json:"model"`
	CWD            string `json:"cwd"`
	PermissionMode string `json:"permissionMode"`
	APIKeySource   string `json:"apiKeySource"`
}

func (m *SystemInitMessage) messageType() string { return "system" }

// AssistantMessageContent is a content block within an assistant message.
type AssistantMessageContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// AssistantMessageInner is the inner message object of an assistant message.
type AssistantMessageInner struct {
	Role    string                    `json:"role"`
	Content []AssistantMessageContent `json:"content"`
}

// AssistantMessage represents an assistant text message.
type AssistantMessage struct {
	Type      string                `json:"type"`
	Message   AssistantMessageInner `json:"message"`
	SessionID string                `json:"session_id"`
}

func (m *AssistantMessage) messageType() string { return "assistant" }

// Text concatenates the message's text content blocks.
func (m *AssistantMessage) Text() string {
	var out string
	for _, c := range m.Message.Content {
		if c.Type == "text" {
			out += c.Text
		}
	}
	return out
}

// ToolCallMessage represents a tool call event (started or completed).
// The tool_call field is a map with a single key (the tool name)
// mapping to the call detail.
type ToolCallMessage struct {
	ToolCall  map[string]map[string]any `json:"tool_call"`
	Type      string                    `json:"type"`
	Subtype   string                    `json:"subtype"`
	CallID    string                    `json:"call_id"`
	SessionID string                    `json:"session_id"`
}

func (m *ToolCallMessage) messageType() string { return "tool_call" }

// ToolCallDetail holds the extracted name, args, and optional result
// from a tool call.
type ToolCallDetail struct {
	Args   map[string]any
	Result any
	Name   string
}

// Detail extracts the tool call detail. The tool_call field is a map
// with a single key (tool name) → {args, result?}.
func (m *ToolCallMessage) Detail() (*ToolCallDetail, error) {
	if len(m.ToolCall) == 0 {
		return nil, fmt.Errorf("empty tool_call field")
	}
	for name, detail := range m.ToolCall {
		d := &ToolCallDetail{Name: name}
		if args, ok := detail["args"].(map[string]any); ok {
			d.Args = args
		}
		if result, ok := detail["result"]; ok {
			d.Result = result
		}
		return d, nil
	}
	return nil, fmt.Errorf("no tool call entries found")
}

// ResultMessage represents the final result of a session.
type ResultMessage struct {
	Type          string `json:"type"`
	Subtype       string `json:"subtype"`
	Result        string `json:"result"`
	SessionID     string `json:"session_id"`
	DurationMs    int64  `json:"duration_ms"`
	DurationAPIMs int64  `json:"duration_api_ms"`
	IsError       bool   `json:"is_error"`
}

func (m *ResultMessage) messageType() string { return "result" }

// UnknownMessage carries any line whose discriminator is outside the
// recognized set (e.g. "user", "thinking", or kinds added by newer CLI
// versions). It is an event, not an error.
type UnknownMessage struct {
	TypeTag string
	Raw     json.RawMessage
}

func (m *UnknownMessage) messageType() string { return m.TypeTag }
