package claude

import (
	"github.com/bazelment/yoloswe/agentingest/agentstream"
)

// Adapter maps typed protocol messages into the shared normalized event
// shape. Every parsed message yields exactly one normalized event;
// anything the mapping cannot confidently place becomes KindUnknown
// with no channel.
type Adapter struct{}

// Agent identifies the protocol this adapter understands.
func (Adapter) Agent() agentstream.AgentKind { return agentstream.AgentClaude }

// Normalize converts one parsed message. It never fails.
func (Adapter) Normalize(line int, msg Message) agentstream.Event {
	ev := agentstream.Event{
		Agent: agentstream.AgentClaude,
		Kind:  agentstream.KindUnknown,
		Line:  line,
	}

	switch m := msg.(type) {
	case SystemMessage:
		ev.Kind = agentstream.KindStatus
		ev.Channel = agentstream.ChannelSystem
		ev.Status = m.Subtype
		ev.Correlation = agentstream.Correlation{SessionID: m.SessionID, MessageID: m.UUID}

	case AssistantMessage:
		ev.Correlation = correlation(m.SessionID, m.UUID, m.ParentToolUseID)
		if text, ok := m.Message.Content.AsString(); ok {
			ev.Kind = agentstream.KindTextOutput
			ev.Channel = agentstream.ChannelAssistant
			ev.Text = text
			return ev
		}
		blocks, ok := m.Message.Content.AsBlocks()
		if !ok {
			ev.RawType = string(m.Type)
			return ev
		}
		// A message carrying a tool invocation normalizes as the tool
		// call; pure text and thinking normalize as text output.
		for _, block := range blocks {
			if tool, isTool := block.(ToolUseBlock); isTool {
				ev.Kind = agentstream.KindToolCall
				ev.Channel = agentstream.ChannelTool
				ev.ToolName = tool.Name
				ev.ToolInput = tool.Input
				ev.Correlation.ToolCallID = tool.ID
				return ev
			}
		}
		ev.Kind = agentstream.KindTextOutput
		ev.Channel = agentstream.ChannelAssistant
		ev.Text = collectText(blocks)

	case UserMessage:
		ev.Correlation = correlation(m.SessionID, m.UUID, m.ParentToolUseID)
		blocks, ok := m.Message.Content.AsBlocks()
		if !ok {
			ev.RawType = string(m.Type)
			return ev
		}
		for _, block := range blocks {
			if result, isResult := block.(ToolResultBlock); isResult {
				ev.Kind = agentstream.KindToolResult
				ev.Channel = agentstream.ChannelTool
				ev.ToolResult = result.Content
				ev.IsError = result.IsError
				ev.Correlation.ToolCallID = result.ToolUseID
				return ev
			}
		}
		// User echoes with no tool result carry nothing this layer can
		// vouch for.
		ev.RawType = string(m.Type)

	case ResultMessage:
		ev.Correlation = agentstream.Correlation{SessionID: m.SessionID, MessageID: m.UUID}
		ev.Status = m.Subtype
		ev.Text = m.Result
		if m.IsError {
			ev.Kind = agentstream.KindError
			ev.Channel = agentstream.ChannelError
		} else {
			ev.Kind = agentstream.KindStatus
			ev.Channel = agentstream.ChannelSystem
		}
		ev.IsError = m.IsError

	case StreamEvent:
		ev.Correlation = correlation(m.SessionID, m.UUID, m.ParentToolUseID)
		if text, ok := m.TextDelta(); ok {
			ev.Kind = agentstream.KindTextOutput
			ev.Channel = agentstream.ChannelAssistant
			ev.Text = text
			return ev
		}
		// Lifecycle sub-events (message_start, content_block_stop, ...)
		// surface as status with the inner tag passed through verbatim.
		ev.Kind = agentstream.KindStatus
		ev.Channel = agentstream.ChannelAssistant
		ev.Status = m.InnerType

	case UnknownMessage:
		ev.RawType = m.TypeTag
	}

	return ev
}

func correlation(sessionID, uuid string, parentToolUseID *string) agentstream.Correlation {
	c := agentstream.Correlation{SessionID: sessionID, MessageID: uuid}
	if parentToolUseID != nil {
		c.ParentToolUseID = *parentToolUseID
	}
	return c
}

func collectText(blocks ContentBlocks) string {
	var out string
	for _, block := range blocks {
		switch b := block.(type) {
		case TextBlock:
			out += b.Text
		case ThinkingBlock:
			// Thinking is not user-facing text output.
		}
	}
	return out
}
