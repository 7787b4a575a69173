// Package agentstream defines the agent-agnostic normalized event shape
// shared by all agent protocol packages (claude, cursor).
//
// Each agent package parses its own wire protocol into typed messages
// and owns an adapter that maps those messages into this package's
// Event. Every successfully parsed protocol event maps to exactly one
// normalized event; anything an adapter cannot confidently classify
// becomes KindUnknown with no channel rather than being dropped, so the
// normalized sequence is a 1:1 audit trail of the parsed input.
package agentstream

// Kind identifies the normalized event category.
type Kind int

const (
	// KindUnknown marks events the adapter could not confidently
	// classify. It is a valid event kind, never an error.
	KindUnknown Kind = iota
	// KindStatus covers initialization and lifecycle notices.
	KindStatus
	// KindTextOutput covers agent-generated text.
	KindTextOutput
	// KindToolCall covers tool invocations.
	KindToolCall
	// KindToolResult covers tool completion payloads.
	KindToolResult
	// KindError covers failures the agent surfaced itself.
	KindError
)

// String returns the kind's wire name.
func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindTextOutput:
		return "text_output"
	case KindToolCall:
		return "tool_call"
	case KindToolResult:
		return "tool_result"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// AgentKind identifies which agent protocol produced an event.
type AgentKind string

const (
	AgentClaude AgentKind = "claude"
	AgentCursor AgentKind = "cursor"
)

// Correlation carries the producing protocol's own identifiers so
// normalized events can be tied back to agent sessions, messages, and
// tool invocations.
type Correlation struct {
	SessionID       string `json:"session_id,omitempty"`
	MessageID       string `json:"message_id,omitempty"`
	ParentToolUseID string `json:"parent_tool_use_id,omitempty"`
	ToolCallID      string `json:"tool_call_id,omitempty"`
}

// Event is the consumer-facing normalized event. Exactly one is
// produced per successfully parsed protocol event; ownership passes to
// the consumer on delivery.
type Event struct {
	// ToolInput is the tool invocation's arguments (KindToolCall).
	ToolInput map[string]any `json:"tool_input,omitempty"`
	// ToolResult is the tool's completion payload (KindToolResult).
	ToolResult any `json:"tool_result,omitempty"`
	// RawLine is the captured raw input, attached only when the
	// ingestion capture policy requests it.
	RawLine string `json:"raw_line,omitempty"`
	// Text is the generated text (KindTextOutput) or status detail.
	Text string `json:"text,omitempty"`
	// Status is the protocol's own subtype for KindStatus events.
	Status string `json:"status,omitempty"`
	// ToolName names the tool for KindToolCall / KindToolResult.
	ToolName string `json:"tool_name,omitempty"`
	// RawType preserves the original discriminator for KindUnknown.
	RawType string `json:"raw_type,omitempty"`

	Correlation Correlation `json:"correlation"`
	Agent       AgentKind   `json:"agent"`
	// Channel tags the logical source lane. The zero value means no
	// channel was assigned (always the case for KindUnknown).
	Channel Channel `json:"channel,omitzero"`
	Kind    Kind    `json:"kind"`
	// Line is the 1-based input line this event came from.
	Line int `json:"line"`
	// IsError marks tool results and completions the agent flagged as
	// failed.
	IsError bool `json:"is_error,omitempty"`
}

// Adapter maps one agent's typed protocol events into normalized
// events. Implementations are stateless with respect to the stream;
// all per-line context arrives through the arguments.
type Adapter[E any] interface {
	// Normalize converts one parsed protocol event. It never fails:
	// unclassifiable input maps to KindUnknown.
	Normalize(line int, ev E) Event

	// Agent identifies the protocol this adapter understands.
	Agent() AgentKind
}
