package claude

import (
	"testing"

	"github.com/bazelment/yoloswe/agentingest/agentstream"
)

func normalizeLine(t *testing.T, line string) agentstream.Event {
	t.Helper()
	msg, ok, aerr := NewParser().ParseText(line)
	if aerr != nil || !ok {
		t.Fatalf("parse failed: (%v, %v)", ok, aerr)
	}
	return Adapter{}.Normalize(7, msg)
}

func TestAdapter_SystemInitToStatus(t *testing.T) {
	ev := normalizeLine(t, `{"type":"system","subtype":"init","session_id":"s","uuid":"u-1","model":"opus"}`)
	if ev.Kind != agentstream.KindStatus {
		t.Errorf("expected KindStatus, got %v", ev.Kind)
	}
	if ev.Channel != agentstream.ChannelSystem {
		t.Errorf("expected system channel, got %q", ev.Channel)
	}
	if ev.Status != "init" || ev.Line != 7 || ev.Agent != agentstream.AgentClaude {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Correlation.SessionID != "s" || ev.Correlation.MessageID != "u-1" {
		t.Errorf("unexpected correlation: %+v", ev.Correlation)
	}
}

func TestAdapter_AssistantTextToTextOutput(t *testing.T) {
	ev := normalizeLine(t, `{"type":"assistant","session_id":"s","uuid":"u","message":{"role":"assistant","content":[{"type":"text","text":"Hello "},{"type":"text","text":"world"}]}}`)
	if ev.Kind != agentstream.KindTextOutput {
		t.Errorf("expected KindTextOutput, got %v", ev.Kind)
	}
	if ev.Channel != agentstream.ChannelAssistant {
		t.Errorf("expected assistant channel, got %q", ev.Channel)
	}
	if ev.Text != "Hello world" {
		t.Errorf("unexpected text %q", ev.Text)
	}
}

func TestAdapter_AssistantStringContent(t *testing.T) {
	ev := normalizeLine(t, `{"type":"assistant","session_id":"s","message":{"role":"assistant","content":"plain reply"}}`)
	if ev.Kind != agentstream.KindTextOutput || ev.Text != "plain reply" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestAdapter_ToolUseToToolCall(t *testing.T) {
	ev := normalizeLine(t, `{"type":"assistant","session_id":"s","message":{"role":"assistant","content":[{"type":"tool_use","id":"tu-1","name":"Bash","input":{"command":"ls"}}]}}`)
	if ev.Kind != agentstream.KindToolCall {
		t.Errorf("expected KindToolCall, got %v", ev.Kind)
	}
	if ev.Channel != agentstream.ChannelTool {
		t.Errorf("expected tool channel, got %q", ev.Channel)
	}
	if ev.ToolName != "Bash" || ev.ToolInput["command"] != "ls" {
		t.Errorf("unexpected tool fields: %+v", ev)
	}
	if ev.Correlation.ToolCallID != "tu-1" {
		t.Errorf("unexpected correlation: %+v", ev.Correlation)
	}
}

func TestAdapter_ToolResultToToolResult(t *testing.T) {
	ev := normalizeLine(t, `{"type":"user","session_id":"s","parent_tool_use_id":"tu-1","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"tu-1","content":"file listing","is_error":false}]}}`)
	if ev.Kind != agentstream.KindToolResult {
		t.Errorf("expected KindToolResult, got %v", ev.Kind)
	}
	if ev.ToolResult != "file listing" || ev.IsError {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Correlation.ToolCallID != "tu-1" || ev.Correlation.ParentToolUseID != "tu-1" {
		t.Errorf("unexpected correlation: %+v", ev.Correlation)
	}
}

func TestAdapter_ErrorResultToError(t *testing.T) {
	ev := normalizeLine(t, `{"type":"result","subtype":"error_during_execution","is_error":true,"result":"boom","session_id":"s"}`)
	if ev.Kind != agentstream.KindError {
		t.Errorf("expected KindError, got %v", ev.Kind)
	}
	if ev.Channel != agentstream.ChannelError || !ev.IsError || ev.Text != "boom" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestAdapter_SuccessResultToStatus(t *testing.T) {
	ev := normalizeLine(t, `{"type":"result","subtype":"success","is_error":false,"result":"done","session_id":"s"}`)
	if ev.Kind != agentstream.KindStatus || ev.Channel != agentstream.ChannelSystem {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Status != "success" {
		t.Errorf("unexpected status %q", ev.Status)
	}
}

func TestAdapter_StreamTextDelta(t *testing.T) {
	ev := normalizeLine(t, `{"type":"stream_event","session_id":"s","event":{"type":"content_block_delta","delta":{"type":"text_delta","text":"chunk"}}}`)
	if ev.Kind != agentstream.KindTextOutput || ev.Text != "chunk" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestAdapter_StreamLifecycleToStatus(t *testing.T) {
	ev := normalizeLine(t, `{"type":"stream_event","session_id":"s","event":{"type":"message_start","message":{}}}`)
	if ev.Kind != agentstream.KindStatus {
		t.Errorf("expected KindStatus, got %v", ev.Kind)
	}
	if ev.Status != "message_start" {
		t.Errorf("expected verbatim inner tag, got %q", ev.Status)
	}
}

func TestAdapter_UnknownIsAccountedFor(t *testing.T) {
	ev := normalizeLine(t, `{"type":"future_kind","x":1}`)
	if ev.Kind != agentstream.KindUnknown {
		t.Errorf("expected KindUnknown, got %v", ev.Kind)
	}
	if !ev.Channel.IsZero() {
		t.Errorf("expected no channel, got %q", ev.Channel)
	}
	if ev.RawType != "future_kind" {
		t.Errorf("expected raw discriminator, got %q", ev.RawType)
	}
}
