package ports

import "github.com/Oxyde-Labs/Oxyde/domain/entities"

// ConfigParser parses raw configuration bytes into an AgentConfig.
type ConfigParser interface {
	// Parse unmarshals configuration bytes into an AgentConfig struct.
	Parse(data []byte) (*entities.AgentConfig, error)
}
