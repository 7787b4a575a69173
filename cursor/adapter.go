package cursor

import (
	"github.com/bazelment/yoloswe/agentingest/agentstream"
)

// Adapter maps cursor protocol messages into the shared normalized
// event shape, one event per parsed message.
type Adapter struct{}

// Agent identifies the protocol this adapter understands.
func (Adapter) Agent() agentstream.AgentKind { return agentstream.AgentCursor }

// Normalize converts one parsed message. It never fails.
func (Adapter) Normalize(line int, msg Message) agentstream.Event {
	ev := agentstream.Event{
		Agent: agentstream.AgentCursor,
		Kind:  agentstream.KindUnknown,
		Line:  line,
	}

	switch m := msg.(type) {
	case *SystemInitMessage:
		ev.Kind = agentstream.KindStatus
		ev.Channel = agentstream.ChannelSystem
		ev.Status = m.Subtype
		ev.Correlation.SessionID = m.SessionID

	case *AssistantMessage:
		ev.Kind = agentstream.KindTextOutput
		ev.Channel = agentstream.ChannelAssistant
		ev.Text = m.Text()
		ev.Correlation.SessionID = m.SessionID

	case *ToolCallMessage:
		ev.Correlation.SessionID = m.SessionID
		ev.Correlation.ToolCallID = m.CallID
		detail, err := m.Detail()
		if err != nil {
			// Parsed but unreadable tool payload: keep it accounted for.
			ev.RawType = m.Type
			return ev
		}
		ev.ToolName = detail.Name
		ev.Channel = agentstream.ChannelTool
		if m.Subtype == "completed" {
			ev.Kind = agentstream.KindToolResult
			ev.ToolResult = detail.Result
		} else {
			ev.Kind = agentstream.KindToolCall
			ev.ToolInput = detail.Args
		}

	case *ResultMessage:
		ev.Correlation.SessionID = m.SessionID
		ev.Status = m.Subtype
		ev.Text = m.Result
		ev.IsError = m.IsError
		if m.IsError {
			ev.Kind = agentstream.KindError
			ev.Channel = agentstream.ChannelError
		} else {
			ev.Kind = agentstream.KindStatus
			ev.Channel = agentstream.ChannelSystem
		}

	case *UnknownMessage:
		ev.RawType = m.TypeTag
	}

	return ev
}
