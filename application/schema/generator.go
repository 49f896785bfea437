// Package schema provides JSON schema generation for agent configuration
// documents, so game-side tooling can validate and autocomplete them.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/Oxyde-Labs/Oxyde/domain/entities"
)

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// AgentConfigSchema returns the schema of the agent configuration
// document accepted by create_agent and create_agent_from_json.
func AgentConfigSchema() ([]byte, error) {
	return GenerateSchema(entities.AgentConfig{})
}
