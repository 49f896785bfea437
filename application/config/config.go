// Package config loads, validates and canonicalizes agent configuration
// documents before they cross into the agent runtime.
package config

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/errors"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
	"github.com/Oxyde-Labs/Oxyde/infrastructure/parser"
)

// validate is a package-level singleton for better performance.
// Creating a new validator on each call is expensive; reusing is recommended.
var validate = validator.New()

// parserFor selects a ConfigParser by file extension.
func parserFor(path string) (ports.ConfigParser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parser.NewJSONConfigParser(), nil
	case ".yaml", ".yml":
		return parser.NewYamlConfigParser(), nil
	default:
		return nil, &errors.ConfigError{
			Err: fmt.Errorf("unsupported config format %q (want .json, .yaml or .yml)", filepath.Ext(path)),
		}
	}
}

// Load reads, parses and validates an agent configuration file. The
// format is chosen by file extension. Fields the document omits keep the
// runtime's defaults.
func Load(path string) (*entities.AgentConfig, error) {
	p, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Err: err}
	}
	return parseWith(p, data)
}

// Parse parses and validates an in-memory JSON configuration document.
func Parse(data []byte) (*entities.AgentConfig, error) {
	return parseWith(parser.NewJSONConfigParser(), data)
}

func parseWith(p ports.ConfigParser, data []byte) (*entities.AgentConfig, error) {
	config, err := p.Parse(data)
	if err != nil {
		return nil, &errors.ConfigError{Err: err}
	}
	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks a configuration against its validation tags. The
// returned error names the first offending field.
func Validate(config *entities.AgentConfig) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) && len(verrs) > 0 {
		return &errors.ConfigError{Field: verrs[0].Namespace(), Err: err}
	}
	return &errors.ConfigError{Err: err}
}

// CanonicalJSON renders a validated configuration as the JSON document
// create_agent_from_json accepts.
func CanonicalJSON(config *entities.AgentConfig) (string, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return "", &errors.ConfigError{Err: err}
	}
	return string(data), nil
}
