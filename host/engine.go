package host

import (
	stdErrors "errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/errors"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
	"github.com/Oxyde-Labs/Oxyde/infrastructure/dl"
)

// Binding layer lifecycle states. A failed bind returns the engine to
// unloaded, never to loaded, so a retry can never observe a half-resolved
// table.
const (
	stateUnloaded = iota
	stateLoaded
	stateBound
)

// Engine drives the Oxyde agent runtime shared library. It owns the
// process-wide library handle and symbol table: create one engine per
// process for a given runtime library.
//
// Initialization is lazy and idempotent: the first operation (or an
// explicit EnsureLoaded) loads and binds the library; afterwards the cached
// table is used without locking. A failed initialization leaves the engine
// unloaded and is safe to retry.
//
// After initialization, operations may be called from multiple goroutines
// concurrently exactly insofar as the runtime library itself permits; the
// engine does not serialize calls per agent.
type Engine struct {
	bound atomic.Pointer[symbolTable]

	mu     sync.Mutex
	lib    ports.SharedLibrary
	state  int
	closed bool
	path   string

	abi         ABI
	baseDir     string
	libraryPath string
	logger      *slog.Logger

	openLibrary func(path string) (ports.SharedLibrary, error)
}

var _ ports.AgentRuntime = (*Engine)(nil)

// NewEngine creates an engine with the given options. No loading happens
// until the first operation.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		abi:    ABIExtended,
		logger: slog.Default(),
		openLibrary: func(path string) (ports.SharedLibrary, error) {
			return dl.Open(path)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnsureLoaded loads and binds the runtime library if that has not
// happened yet. It is idempotent: once bound it returns nil without
// touching the filesystem. On failure the engine stays unloaded and a
// later call re-attempts the full resolution.
func (e *Engine) EnsureLoaded() error {
	_, err := e.table()
	return err
}

// table returns the bound symbol table, initializing on first use. The
// fast path is a single atomic load; the slow path is a mutex-guarded
// check-and-set that latches only on success, so concurrent first calls
// cannot load the library twice or observe a torn table.
func (e *Engine) table() (*symbolTable, error) {
	if t := e.bound.Load(); t != nil {
		return t, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, errors.ErrClosed
	}
	if t := e.bound.Load(); t != nil {
		return t, nil
	}

	t, err := e.loadAndBind()
	if err != nil {
		return nil, err
	}
	e.bound.Store(t)
	return t, nil
}

// loadAndBind runs the unloaded -> loaded -> bound sequence. Caller holds
// e.mu. Load and bind failures are logged here, once, with the full
// diagnostic detail; call failures are never logged.
func (e *Engine) loadAndBind() (*symbolTable, error) {
	path, err := e.resolveLibraryPath()
	if err != nil {
		e.logger.Error("agent runtime unavailable", "os", runtime.GOOS, "error", err)
		return nil, err
	}

	lib, err := e.openLibrary(path)
	if err != nil {
		e.logger.Error("failed to load agent runtime", "path", path, "error", err)
		return nil, &errors.LoadError{Path: path, Err: err}
	}
	e.state = stateLoaded

	table, err := bind(lib, e.abi, filepath.Base(path))
	if err != nil {
		// bind already closed the handle.
		e.state = stateUnloaded
		var bindErr *errors.BindError
		if stdErrors.As(err, &bindErr) {
			e.logger.Error("failed to bind agent runtime", "path", path, "abi", e.abi.String(), "missing", bindErr.Missing)
		}
		return nil, err
	}

	e.lib = lib
	e.path = path
	e.state = stateBound
	e.logger.Info("agent runtime bound", "path", path, "abi", e.abi.String())
	return table, nil
}

// State reports the binding layer's lifecycle state: "unloaded", "loaded"
// or "bound".
func (e *Engine) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case stateBound:
		return "bound"
	case stateLoaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// LibraryPath returns the absolute path the runtime was loaded from, or ""
// before a successful load.
func (e *Engine) LibraryPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// Close unloads the runtime library. The engine is unusable afterwards.
// Close must not run concurrently with in-flight operations; tearing down
// while calls are executing foreign code is the caller's responsibility to
// prevent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.bound.Store(nil)
	e.state = stateUnloaded

	if e.lib == nil {
		return nil
	}
	lib := e.lib
	e.lib = nil
	return lib.Close()
}

// Init initializes the runtime. Call it once after the engine binds,
// before creating agents.
func (e *Engine) Init() error {
	t, err := e.table()
	if err != nil {
		return err
	}
	return t.initialize()
}

// CreateAgent creates an agent from a configuration file path and returns
// its runtime-assigned id.
func (e *Engine) CreateAgent(configPath string) (entities.AgentID, error) {
	t, err := e.table()
	if err != nil {
		return "", err
	}
	return t.createAgent(configPath)
}

// CreateAgentFromJSON creates an agent from an inline JSON configuration
// document. Extended ABI only.
func (e *Engine) CreateAgentFromJSON(configJSON string) (entities.AgentID, error) {
	t, err := e.table()
	if err != nil {
		return "", err
	}
	return t.createAgentFromJSON(configJSON)
}

// UpdateAgentContext replaces the agent's world context with the given
// JSON document.
func (e *Engine) UpdateAgentContext(id entities.AgentID, contextJSON string) error {
	t, err := e.table()
	if err != nil {
		return err
	}
	return t.updateAgentContext(id, contextJSON)
}

// ProcessInput sends input text to the agent and returns its response.
func (e *Engine) ProcessInput(id entities.AgentID, input string) (string, error) {
	t, err := e.table()
	if err != nil {
		return "", err
	}
	return t.processInput(id, input)
}

// AgentState returns the agent's state snapshot as JSON.
func (e *Engine) AgentState(id entities.AgentID) (string, error) {
	t, err := e.table()
	if err != nil {
		return "", err
	}
	return t.agentState(id)
}

// EmotionVector returns the agent's eight-channel emotion vector. Extended
// ABI only; on failure all channels are at their 0.0 default.
func (e *Engine) EmotionVector(id entities.AgentID) (entities.EmotionVector, error) {
	t, err := e.table()
	if err != nil {
		return entities.EmotionVector{}, err
	}
	return t.emotionVector(id)
}

// LegacyEmotionVector returns the three-channel emotion vector of the
// minimal ABI shape. Minimal ABI only.
func (e *Engine) LegacyEmotionVector(id entities.AgentID) (entities.LegacyEmotionVector, error) {
	t, err := e.table()
	if err != nil {
		return entities.LegacyEmotionVector{}, err
	}
	return t.legacyEmotionVector(id)
}

// AddMemory stores a memory with the given importance. Extended ABI only.
func (e *Engine) AddMemory(id entities.AgentID, category, content string, importance float64) error {
	t, err := e.table()
	if err != nil {
		return err
	}
	return t.addMemory(id, category, content, importance)
}

// AddEmotionalMemory stores a memory with an emotional charge. Extended
// ABI only.
func (e *Engine) AddEmotionalMemory(id entities.AgentID, category, content string, importance, valence, intensity float64) error {
	t, err := e.table()
	if err != nil {
		return err
	}
	return t.addEmotionalMemory(id, category, content, importance, valence, intensity)
}

// MemoryCount returns the number of memories the agent holds. Unknown
// agents count zero. Extended ABI only.
func (e *Engine) MemoryCount(id entities.AgentID) (uint32, error) {
	t, err := e.table()
	if err != nil {
		return 0, err
	}
	return t.memoryCount(id)
}

// ClearMemories removes all non-permanent memories and returns how many
// were removed. Permanent memories are excluded. Extended ABI only.
func (e *Engine) ClearMemories(id entities.AgentID) (uint32, error) {
	t, err := e.table()
	if err != nil {
		return 0, err
	}
	return t.clearMemories(id)
}

// MemoriesByCategory returns the agent's memories in one category as a
// JSON array. Extended ABI only.
func (e *Engine) MemoriesByCategory(id entities.AgentID, category string) (string, error) {
	t, err := e.table()
	if err != nil {
		return "", err
	}
	return t.memoriesByCategory(id, category)
}

// RetrieveRelevantMemories returns at most limit memories relevant to the
// query, as a JSON array. Extended ABI only.
func (e *Engine) RetrieveRelevantMemories(id entities.AgentID, query string, limit uint32) (string, error) {
	t, err := e.table()
	if err != nil {
		return "", err
	}
	return t.retrieveRelevantMemories(id, query, limit)
}

// ForgetMemory removes one memory by id. Permanent memories refuse.
// Extended ABI only.
func (e *Engine) ForgetMemory(id entities.AgentID, memoryID string) error {
	t, err := e.table()
	if err != nil {
		return err
	}
	return t.forgetMemory(id, memoryID)
}

// ForgetMemoriesByCategory removes all non-permanent memories in one
// category and returns how many were removed. Extended ABI only.
func (e *Engine) ForgetMemoriesByCategory(id entities.AgentID, category string) (uint32, error) {
	t, err := e.table()
	if err != nil {
		return 0, err
	}
	return t.forgetMemoriesByCategory(id, category)
}
