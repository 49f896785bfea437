package host

import "log/slog"

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithABI selects which ABI shape the engine binds. The default is
// ABIExtended.
func WithABI(abi ABI) Option {
	return func(e *Engine) {
		e.abi = abi
	}
}

// WithBaseDir sets the directory the Oxyde/Binaries/ThirdParty search path
// is resolved beneath. The default is the running executable's directory.
func WithBaseDir(dir string) Option {
	return func(e *Engine) {
		e.baseDir = dir
	}
}

// WithLibraryPath bypasses path resolution with an explicit library file.
func WithLibraryPath(path string) Option {
	return func(e *Engine) {
		e.libraryPath = path
	}
}

// WithLogger sets the logger for load/bind diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
