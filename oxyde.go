// Package oxyde embeds Oxyde agents in a Go game or simulation host.
//
// The package wraps the agent runtime shared library: it locates and loads
// the right binary for the platform, binds its exported symbols, and
// exposes the runtime's agents through the Runtime interface. Values
// crossing the boundary are plain Go strings, numbers and structs; all
// native memory management stays inside this module.
//
// Typical use:
//
//	rt := oxyde.NewEngine(oxyde.WithBaseDir("GameRoot"))
//	defer rt.Close()
//
//	if err := rt.Init(); err != nil {
//		// runtime missing or incompatible
//	}
//	id, err := rt.CreateAgent("configs/elara.yaml")
package oxyde

import (
	"github.com/Oxyde-Labs/Oxyde/application/config"
	"github.com/Oxyde-Labs/Oxyde/application/schema"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
	"github.com/Oxyde-Labs/Oxyde/host"
)

// Runtime is the interface game code programs against. The native engine
// returned by NewEngine implements it, as does the wasm runtime and the
// in-memory fake in hosttest.
type Runtime = ports.AgentRuntime

// ABI selects which native symbol shape an engine binds.
type ABI = host.ABI

const (
	ABIExtended = host.ABIExtended
	ABIMinimal  = host.ABIMinimal
)

// Option configures the native engine.
type Option = host.Option

// Engine options, re-exported so embedding code only imports this package.
var (
	WithABI         = host.WithABI
	WithBaseDir     = host.WithBaseDir
	WithLibraryPath = host.WithLibraryPath
	WithLogger      = host.WithLogger
)

// NewEngine creates the native runtime engine. The shared library is not
// touched until the first operation or an explicit EnsureLoaded.
func NewEngine(opts ...Option) *host.Engine {
	return host.NewEngine(opts...)
}

// LoadConfig reads and validates an agent configuration file (JSON or
// YAML, chosen by extension).
func LoadConfig(path string) (*AgentConfig, error) {
	return config.Load(path)
}

// ParseConfig parses and validates an in-memory JSON configuration
// document.
func ParseConfig(data []byte) (*AgentConfig, error) {
	return config.Parse(data)
}

// ValidateConfig checks a configuration against its validation rules.
func ValidateConfig(c *AgentConfig) error {
	return config.Validate(c)
}

// ConfigJSON renders a validated configuration as the JSON document
// CreateAgentFromJSON accepts.
func ConfigJSON(c *AgentConfig) (string, error) {
	return config.CanonicalJSON(c)
}

// ConfigSchema returns the JSON schema of the configuration document, for
// editor tooling and pipeline validation.
func ConfigSchema() ([]byte, error) {
	return schema.AgentConfigSchema()
}
