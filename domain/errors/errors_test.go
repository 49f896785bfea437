package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformError(t *testing.T) {
	err := &PlatformError{OS: "plan9", Arch: "arm"}

	assert.Equal(t, "no agent runtime library is available for plan9/arm", err.Error())

	var platformErr *PlatformError
	require.True(t, errors.As(err, &platformErr))
	assert.Equal(t, "plan9", platformErr.OS)
}

func TestLoadError(t *testing.T) {
	baseErr := fmt.Errorf("no such file or directory")
	err := &LoadError{
		Path: "/opt/game/Oxyde/Binaries/ThirdParty/Linux/liboxyde.so",
		Err:  baseErr,
	}

	assert.Equal(t,
		"failed to load agent runtime from /opt/game/Oxyde/Binaries/ThirdParty/Linux/liboxyde.so: no such file or directory",
		err.Error())
	assert.True(t, errors.Is(err, baseErr))
}

func TestLoadError_NoPath(t *testing.T) {
	err := &LoadError{Err: fmt.Errorf("wrong ELF class")}

	assert.Equal(t, "failed to load agent runtime: wrong ELF class", err.Error())
}

func TestBindError_NamesEveryMissingSymbol(t *testing.T) {
	err := &BindError{
		Library: "liboxyde.so",
		Missing: []string{"oxyde_process_input", "oxyde_free_string"},
	}

	assert.Equal(t,
		"failed to bind agent runtime liboxyde.so: missing symbols [oxyde_process_input, oxyde_free_string]",
		err.Error())

	var bindErr *BindError
	require.True(t, errors.As(err, &bindErr))
	assert.Len(t, bindErr.Missing, 2)
}

func TestCallError(t *testing.T) {
	err := &CallError{Op: "process_input", Agent: "agent-42"}

	assert.Equal(t, "agent runtime call process_input failed for agent agent-42", err.Error())
}

func TestCallError_WrapsUnsupported(t *testing.T) {
	err := &CallError{Op: "add_memory", Err: ErrUnsupported}

	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.Contains(t, err.Error(), "add_memory")
}

func TestDecodeError(t *testing.T) {
	baseErr := fmt.Errorf("invalid UTF-8 at byte 7")
	err := &DecodeError{Op: "get_agent_state", Err: baseErr}

	assert.Equal(t, "failed to decode get_agent_state result: invalid UTF-8 at byte 7", err.Error())
	assert.True(t, errors.Is(err, baseErr))
}

func TestConfigError(t *testing.T) {
	baseErr := fmt.Errorf("must be between 0 and 1")
	err := &ConfigError{Field: "memory.decay_rate", Err: baseErr}

	assert.Equal(t, "agent config validation failed for field 'memory.decay_rate': must be between 0 and 1", err.Error())
	assert.True(t, errors.Is(err, baseErr))
}

func TestConfigError_NoField(t *testing.T) {
	err := &ConfigError{Err: fmt.Errorf("empty document")}

	assert.Equal(t, "agent config validation failed: empty document", err.Error())
}
