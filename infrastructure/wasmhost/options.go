package wasmhost

import "log/slog"

// Option defines a functional option for configuring the wasm runtime.
type Option func(*settings)

type settings struct {
	logger    *slog.Logger
	configDir string
}

// WithLogger sets the logger that receives the guest's log records and
// the transport's own diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfigDir preopens a host directory as the guest's filesystem root,
// so CreateAgent config paths resolve inside it.
func WithConfigDir(dir string) Option {
	return func(s *settings) {
		s.configDir = dir
	}
}
