package parser

import (
	"encoding/json"

	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
)

// JSONConfigParser implements ConfigParser for JSON, the format the agent
// runtime itself consumes.
type JSONConfigParser struct{}

// NewJSONConfigParser creates a new JSONConfigParser.
func NewJSONConfigParser() ports.ConfigParser {
	return &JSONConfigParser{}
}

// Parse unmarshals JSON bytes into an AgentConfig struct. Fields the
// document omits keep the runtime's defaults.
func (p *JSONConfigParser) Parse(data []byte) (*entities.AgentConfig, error) {
	config := entities.AgentConfig{
		Memory:    entities.DefaultMemoryConfig(),
		Inference: entities.DefaultInferenceConfig(),
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}
