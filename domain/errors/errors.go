// Package errors provides domain-specific error types for the SDK.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
)

// ErrUnsupported reports an operation that is not part of the ABI shape the
// engine was bound with (for example a memory call on a legacy binding).
var ErrUnsupported = stdErrors.New("operation not supported by bound ABI shape")

// ErrClosed reports use of an engine or runtime after Close.
var ErrClosed = stdErrors.New("runtime is closed")

// PlatformError indicates the current platform has no known shared-library
// name mapping. There is no retry path until the runtime is ported.
type PlatformError struct {
	OS   string
	Arch string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("no agent runtime library is available for %s/%s", e.OS, e.Arch)
}

// LoadError indicates the OS loader could not map the shared library at the
// resolved path. Retryable once the environment is fixed: a later ensure
// re-attempts the full resolution.
type LoadError struct {
	Err  error
	Path string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to load agent runtime from %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to load agent runtime: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// BindError indicates one or more required symbols were missing from the
// loaded library, i.e. an ABI version mismatch between SDK and runtime.
// Missing names every symbol that failed to resolve, not just the first,
// so version skew can be diagnosed in a single attempt.
type BindError struct {
	Library string
	Missing []string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind agent runtime %s: missing symbols [%s]",
		e.Library, strings.Join(e.Missing, ", "))
}

// CallError indicates an individual foreign call signaled failure. It is
// recoverable at the call site and never affects binder state.
type CallError struct {
	Err   error
	Op    string
	Agent string
}

func (e *CallError) Error() string {
	msg := fmt.Sprintf("agent runtime call %s failed", e.Op)
	if e.Agent != "" {
		msg = fmt.Sprintf("%s for agent %s", msg, e.Agent)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a string returned by the runtime was not valid UTF-8.
// The foreign buffer is always released before this error is reported.
type DecodeError struct {
	Err error
	Op  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s result: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConfigError represents a host-side agent configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("agent config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("agent config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
