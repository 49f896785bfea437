package oxyde

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oxyde-Labs/Oxyde/host"
)

var _ Runtime = (*host.Engine)(nil)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elara.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
agent:
  name: "Elara"
  role: "Tavern Keeper"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Elara", cfg.Agent.Name)
}

func TestParseConfig_RejectsInvalid(t *testing.T) {
	_, err := ParseConfig([]byte(`{"agent": {"role": "Guard"}}`))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestConfigJSON_UsesAgentWireKey(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"agent": {"name": "Grimm", "role": "Blacksmith"}}`))
	require.NoError(t, err)

	doc, err := ConfigJSON(cfg)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(doc), &decoded))
	assert.Contains(t, decoded, "agent")
	assert.Contains(t, decoded, "memory")
}

func TestConfigSchema(t *testing.T) {
	schema, err := ConfigSchema()
	require.NoError(t, err)
	assert.Contains(t, string(schema), `"agent"`)
}

func TestNewEngine_ImplementsRuntime(t *testing.T) {
	e := NewEngine(WithABI(ABIMinimal))
	require.NotNil(t, e)
	assert.Equal(t, "unloaded", e.State())
}
