package agentstream

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// EventSchema returns the JSON schema of the normalized event shape.
// Downstream consumers that re-serialize events (log stores, replay
// tooling) can validate against it instead of trusting producers.
func EventSchema() (json.RawMessage, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true, // Inline all definitions instead of using $ref
		ExpandedStruct: true, // Don't use $ref for struct types
	}

	schema := reflector.Reflect(Event{})
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal event schema: %w", err)
	}
	return b, nil
}
