package parser

import (
	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlConfigParser implements ConfigParser for YAML.
type YamlConfigParser struct{}

// NewYamlConfigParser creates a new YamlConfigParser.
func NewYamlConfigParser() ports.ConfigParser {
	return &YamlConfigParser{}
}

// Parse unmarshals YAML bytes into an AgentConfig struct. Fields the
// document omits keep the runtime's defaults.
func (p *YamlConfigParser) Parse(data []byte) (*entities.AgentConfig, error) {
	config := entities.AgentConfig{
		Memory:    entities.DefaultMemoryConfig(),
		Inference: entities.DefaultInferenceConfig(),
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}
