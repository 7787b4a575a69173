package agentstream

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// MaxChannelBytes is the channel identifier length cap.
const MaxChannelBytes = 64

// Channel is a validated tag naming the logical source lane of a
// normalized event. A non-zero Channel is guaranteed non-empty, ASCII,
// at most 64 bytes, with an alphanumeric first character and remaining
// characters alphanumeric or one of '.', '_', '/', '-'. Construction
// fails closed: no invalid instance can exist, and there is no mutation
// after construction. The zero value means "no channel".
type Channel struct {
	name string
}

// Lanes assigned by the built-in adapters.
var (
	ChannelSystem    = Channel{name: "system"}
	ChannelAssistant = Channel{name: "assistant"}
	ChannelTool      = Channel{name: "tool"}
	ChannelError     = Channel{name: "error"}
)

// ParseChannel validates s and constructs a Channel. ok is false when s
// is invalid; no partially valid value is ever produced.
func ParseChannel(s string) (Channel, bool) {
	if !validChannel(s) {
		return Channel{}, false
	}
	return Channel{name: s}, true
}

func validChannel(s string) bool {
	if len(s) == 0 || len(s) > MaxChannelBytes {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 {
			return false
		}
		if isAlphanumeric(c) {
			continue
		}
		if i == 0 {
			return false
		}
		switch c {
		case '.', '_', '/', '-':
		default:
			return false
		}
	}
	return true
}

func isAlphanumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// String returns the channel name, or the empty string for the zero
// value.
func (c Channel) String() string { return c.name }

// IsZero reports whether no channel was assigned.
func (c Channel) IsZero() bool { return c.name == "" }

// MarshalJSON implements json.Marshaler.
func (c Channel) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.name)
}

// UnmarshalJSON implements json.Unmarshaler, failing closed on any
// value that would not validate.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*c = Channel{}
		return nil
	}
	ch, ok := ParseChannel(s)
	if !ok {
		return fmt.Errorf("invalid channel %q", s)
	}
	*c = ch
	return nil
}

// JSONSchema describes the channel wire shape for schema export.
func (Channel) JSONSchema() *jsonschema.Schema {
	max := uint64(MaxChannelBytes)
	return &jsonschema.Schema{
		Type:      "string",
		MaxLength: &max,
		Pattern:   `^[0-9A-Za-z][0-9A-Za-z._/-]*$`,
	}
}
