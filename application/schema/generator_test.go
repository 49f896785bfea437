package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema_SimpleStruct(t *testing.T) {
	type SimpleConfig struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}

	schema, err := GenerateSchema(SimpleConfig{})
	require.NoError(t, err)
	assert.NotEmpty(t, schema)

	// Validate it's valid JSON
	var decoded map[string]interface{}
	err = json.Unmarshal(schema, &decoded)
	require.NoError(t, err)

	assert.Contains(t, string(schema), "host")
	assert.Contains(t, string(schema), "port")
}

func TestAgentConfigSchema(t *testing.T) {
	schema, err := AgentConfigSchema()
	require.NoError(t, err)

	var decoded map[string]interface{}
	err = json.Unmarshal(schema, &decoded)
	require.NoError(t, err)

	schemaStr := string(schema)
	assert.Contains(t, schemaStr, "agent")
	assert.Contains(t, schemaStr, "memory")
	assert.Contains(t, schemaStr, "inference")
	assert.Contains(t, schemaStr, "behavior")
	assert.Contains(t, schemaStr, "short_term_capacity")

	properties, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok, "properties should be a map")
	assert.Contains(t, properties, "agent")

	required, ok := decoded["required"].([]interface{})
	require.True(t, ok, "required should be an array")
	assert.Contains(t, required, "agent")
}
