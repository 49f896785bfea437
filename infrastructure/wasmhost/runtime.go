// Package wasmhost runs the agent runtime compiled to WebAssembly instead
// of a native shared library. The guest is sandboxed in-process with
// wazero; it exports the same operation set as the extended native ABI,
// with strings crossing linear memory as (pointer, length) pairs through
// the guest's own allocator.
//
// Ownership mirrors the native transport: every buffer the guest hands
// back is copied into host memory and then released exactly once, here via
// the sized deallocator rather than free_string.
package wasmhost

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/errors"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
	"github.com/Oxyde-Labs/Oxyde/internal/abi"
)

const (
	// moduleName identifies the guest in errors and host-side logs.
	moduleName = "oxyde.wasm"

	// hostModule is the import namespace the guest links against.
	hostModule = "env"

	// guestAlloc and guestDealloc are the guest's linear-memory allocator
	// pair. Dealloc takes the original length, so the wasm build has no
	// free_string export.
	guestAlloc   = "oxyde_alloc"
	guestDealloc = "oxyde_dealloc"
)

// guestTable holds the resolved guest exports, one field per operation,
// mirroring the native symbol tables.
type guestTable struct {
	init                     api.Function
	createAgent              api.Function
	createAgentFromJSON      api.Function
	updateAgentContext       api.Function
	processInput             api.Function
	getAgentState            api.Function
	getEmotionVector         api.Function
	addMemory                api.Function
	addEmotionalMemory       api.Function
	getMemoryCount           api.Function
	clearMemories            api.Function
	getMemoriesByCategory    api.Function
	retrieveRelevantMemories api.Function
	forgetMemory             api.Function
	forgetMemoriesByCategory api.Function

	alloc   api.Function
	dealloc api.Function
}

// Runtime drives an agent runtime compiled to wasm. It implements the same
// interface as the native engine; construction performs the load and bind
// eagerly, so a non-nil Runtime is always ready for calls.
//
// Guest calls are serialized: wasm linear memory is single-threaded and the
// allocator is not reentrant.
type Runtime struct {
	mu     sync.Mutex
	ctx    context.Context
	wasm   wazero.Runtime
	module api.Module
	table  guestTable
	logger *slog.Logger
	closed bool
}

var _ ports.AgentRuntime = (*Runtime)(nil)

// NewRuntime compiles and instantiates the agent runtime from wasm bytes.
// Compilation and instantiation failures surface as a LoadError; a guest
// that instantiates but lacks required exports surfaces a BindError naming
// every missing export.
func NewRuntime(ctx context.Context, wasmBytes []byte, opts ...Option) (*Runtime, error) {
	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	if err := registerHostFunctions(ctx, rt, s.logger); err != nil {
		_ = rt.Close(ctx)
		return nil, &errors.LoadError{Path: moduleName, Err: err}
	}

	cfg := wazero.NewModuleConfig().WithName("oxyde")
	if s.configDir != "" {
		cfg = cfg.WithFSConfig(wazero.NewFSConfig().WithDirMount(s.configDir, "/"))
	}

	module, err := rt.InstantiateWithConfig(ctx, wasmBytes, cfg)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, &errors.LoadError{Path: moduleName, Err: err}
	}

	r := &Runtime{
		ctx:    ctx,
		wasm:   rt,
		module: module,
		logger: s.logger,
	}
	if err := r.bindExports(); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	// Reactor-style builds export _initialize instead of running a start
	// function.
	if initialize := module.ExportedFunction("_initialize"); initialize != nil {
		if _, err := initialize.Call(ctx); err != nil {
			_ = rt.Close(ctx)
			return nil, &errors.LoadError{Path: moduleName, Err: err}
		}
	}

	s.logger.Info("agent runtime instantiated", "module", moduleName, "config_dir", s.configDir)
	return r, nil
}

// requiredExports is the guest surface this transport binds: the extended
// operation set, with free_string replaced by the allocator pair.
func requiredExports() []string {
	names := make([]string, 0, len(abi.ExtendedSymbols)+1)
	for _, name := range abi.ExtendedSymbols {
		if name == abi.SymFreeString {
			continue
		}
		names = append(names, name)
	}
	return append(names, guestAlloc, guestDealloc)
}

// bindExports resolves every required export before wiring any of them, so
// a mismatched guest is reported in full and the Runtime is never left
// partially bound.
func (r *Runtime) bindExports() error {
	resolved := make(map[string]api.Function)
	var missing []string
	for _, name := range requiredExports() {
		fn := r.module.ExportedFunction(name)
		if fn == nil {
			missing = append(missing, name)
			continue
		}
		resolved[name] = fn
	}
	if len(missing) > 0 {
		return &errors.BindError{Library: moduleName, Missing: missing}
	}

	r.table = guestTable{
		init:                     resolved[abi.SymInit],
		createAgent:              resolved[abi.SymCreateAgent],
		createAgentFromJSON:      resolved[abi.SymCreateAgentFromJSON],
		updateAgentContext:       resolved[abi.SymUpdateAgentContext],
		processInput:             resolved[abi.SymProcessInput],
		getAgentState:            resolved[abi.SymGetAgentState],
		getEmotionVector:         resolved[abi.SymGetEmotionVector],
		addMemory:                resolved[abi.SymAddMemory],
		addEmotionalMemory:       resolved[abi.SymAddEmotionalMemory],
		getMemoryCount:           resolved[abi.SymGetMemoryCount],
		clearMemories:            resolved[abi.SymClearMemories],
		getMemoriesByCategory:    resolved[abi.SymGetMemoriesByCategory],
		retrieveRelevantMemories: resolved[abi.SymRetrieveRelevantMemories],
		forgetMemory:             resolved[abi.SymForgetMemory],
		forgetMemoriesByCategory: resolved[abi.SymForgetMemoriesByCategory],
		alloc:                    resolved[guestAlloc],
		dealloc:                  resolved[guestDealloc],
	}
	return nil
}

// registerHostFunctions instantiates the host module the guest imports.
// log_message lets the guest emit structured records through the host
// logger; the payload is a packed pointer to a JSON {level, message}
// document in guest memory.
func registerHostFunctions(ctx context.Context, rt wazero.Runtime, logger *slog.Logger) error {
	_, err := rt.NewHostModuleBuilder(hostModule).
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, packed uint64) {
			ptr, length := abi.UnpackPtrLen(packed)
			payload, ok := m.Memory().Read(ptr, length)
			if !ok {
				logger.Warn("guest log points outside linear memory", "ptr", ptr, "len", length)
				return
			}
			var record struct {
				Level   string `json:"level"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(payload, &record); err != nil {
				logger.Info("agent runtime log", "payload", string(payload))
				return
			}
			logger.Log(ctx, slogLevel(record.Level), record.Message, "source", "agent-runtime")
		}).
		Export("log_message").
		Instantiate(ctx)
	return err
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// pushString copies s into guest memory and returns its location. The
// guest takes ownership of argument buffers; the host never deallocates
// them. Empty strings pass as (0, 0) without an allocation.
func (r *Runtime) pushString(s string) (ptr, length uint32, err error) {
	if len(s) == 0 {
		return 0, 0, nil
	}
	results, err := r.table.alloc.Call(r.ctx, uint64(len(s)))
	if err != nil {
		return 0, 0, err
	}
	if len(results) == 0 || results[0] == 0 {
		return 0, 0, fmt.Errorf("guest allocator refused %d bytes", len(s))
	}
	ptr = api.DecodeU32(results[0])
	if !r.module.Memory().Write(ptr, []byte(s)) {
		return 0, 0, fmt.Errorf("failed to write %d bytes at %#x", len(s), ptr)
	}
	return ptr, uint32(len(s)), nil
}

// takeBytes copies a guest-allocated result out of linear memory and
// releases it exactly once. A packed value of zero is the guest's failure
// signal and carries no buffer.
func (r *Runtime) takeBytes(op string, agent entities.AgentID, packed uint64) ([]byte, error) {
	if packed == 0 {
		return nil, &errors.CallError{Op: op, Agent: string(agent)}
	}
	ptr, length := abi.UnpackPtrLen(packed)
	view, ok := r.module.Memory().Read(ptr, length)
	if !ok {
		return nil, &errors.DecodeError{Op: op, Err: fmt.Errorf("result at %#x+%d is outside linear memory", ptr, length)}
	}
	owned := make([]byte, len(view))
	copy(owned, view)
	if _, err := r.table.dealloc.Call(r.ctx, uint64(ptr), uint64(length)); err != nil {
		return nil, &errors.CallError{Op: op, Agent: string(agent), Err: err}
	}
	return owned, nil
}

func (r *Runtime) takeString(op string, agent entities.AgentID, packed uint64) (string, error) {
	owned, err := r.takeBytes(op, agent, packed)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(owned) {
		return "", &errors.DecodeError{Op: op, Err: fmt.Errorf("%w (%d bytes)", abi.ErrInvalidUTF8, len(owned))}
	}
	return string(owned), nil
}

// call invokes a guest export under the runtime lock. Traps surface as a
// CallError; the zeroth result is returned, or 0 for void exports.
func (r *Runtime) call(op string, agent entities.AgentID, fn api.Function, args ...uint64) (uint64, error) {
	results, err := fn.Call(r.ctx, args...)
	if err != nil {
		return 0, &errors.CallError{Op: op, Agent: string(agent), Err: err}
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0], nil
}

func (r *Runtime) guard() error {
	if r.closed {
		return errors.ErrClosed
	}
	return nil
}

// callString pushes the given text arguments and returns the guest's
// string result. Argument errors are attributed to the operation.
func (r *Runtime) callString(op string, agent entities.AgentID, fn api.Function, texts ...string) (string, error) {
	args := make([]uint64, 0, len(texts)*2)
	for _, text := range texts {
		ptr, length, err := r.pushString(text)
		if err != nil {
			return "", &errors.CallError{Op: op, Agent: string(agent), Err: err}
		}
		args = append(args, uint64(ptr), uint64(length))
	}
	packed, err := r.call(op, agent, fn, args...)
	if err != nil {
		return "", err
	}
	return r.takeString(op, agent, packed)
}

// Init initializes the guest runtime. Call it once before creating agents.
func (r *Runtime) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return err
	}
	ok, err := r.call("init", "", r.table.init)
	if err != nil {
		return err
	}
	if ok == 0 {
		return &errors.CallError{Op: "init"}
	}
	return nil
}

// CreateAgent creates an agent from a configuration file path, resolved
// inside the preopened config directory.
func (r *Runtime) CreateAgent(configPath string) (entities.AgentID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return "", err
	}
	id, err := r.callString("create_agent", "", r.table.createAgent, configPath)
	return entities.AgentID(id), err
}

// CreateAgentFromJSON creates an agent from an inline JSON document.
func (r *Runtime) CreateAgentFromJSON(configJSON string) (entities.AgentID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return "", err
	}
	id, err := r.callString("create_agent_from_json", "", r.table.createAgentFromJSON, configJSON)
	return entities.AgentID(id), err
}

// UpdateAgentContext replaces the agent's world context with the given
// JSON document.
func (r *Runtime) UpdateAgentContext(id entities.AgentID, contextJSON string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return err
	}
	const op = "update_agent_context"
	idPtr, idLen, err := r.pushString(string(id))
	if err != nil {
		return &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	ctxPtr, ctxLen, err := r.pushString(contextJSON)
	if err != nil {
		return &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	ok, err := r.call(op, id, r.table.updateAgentContext,
		uint64(idPtr), uint64(idLen), uint64(ctxPtr), uint64(ctxLen))
	if err != nil {
		return err
	}
	if ok == 0 {
		return &errors.CallError{Op: op, Agent: string(id)}
	}
	return nil
}

// ProcessInput sends input text to the agent and returns its response.
func (r *Runtime) ProcessInput(id entities.AgentID, input string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return "", err
	}
	return r.callString("process_input", id, r.table.processInput, string(id), input)
}

// AgentState returns the agent's state snapshot as JSON.
func (r *Runtime) AgentState(id entities.AgentID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return "", err
	}
	return r.callString("get_agent_state", id, r.table.getAgentState, string(id))
}

// EmotionVector returns the agent's eight-channel emotion vector. The
// guest returns a packed pointer to the channels as little-endian f32s,
// which is also wasm's linear-memory byte order.
func (r *Runtime) EmotionVector(id entities.AgentID) (entities.EmotionVector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var vector entities.EmotionVector
	if err := r.guard(); err != nil {
		return vector, err
	}
	const op = "get_emotion_vector"
	idPtr, idLen, err := r.pushString(string(id))
	if err != nil {
		return vector, &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	packed, err := r.call(op, id, r.table.getEmotionVector, uint64(idPtr), uint64(idLen))
	if err != nil {
		return vector, err
	}
	raw, err := r.takeBytes(op, id, packed)
	if err != nil {
		return vector, err
	}
	if len(raw) != entities.EmotionChannels*4 {
		return vector, &errors.DecodeError{Op: op, Err: fmt.Errorf("emotion vector is %d bytes, want %d", len(raw), entities.EmotionChannels*4)}
	}
	var channels [entities.EmotionChannels]float32
	for i := range channels {
		channels[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return entities.EmotionVectorFromChannels(channels), nil
}

// AddMemory stores a memory with the given importance in [0, 1].
func (r *Runtime) AddMemory(id entities.AgentID, category, content string, importance float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return err
	}
	return r.addMemory("add_memory", id, category, content, importance, 0, 0, false)
}

// AddEmotionalMemory stores a memory with an emotional charge.
func (r *Runtime) AddEmotionalMemory(id entities.AgentID, category, content string, importance, valence, intensity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return err
	}
	return r.addMemory("add_emotional_memory", id, category, content, importance, valence, intensity, true)
}

func (r *Runtime) addMemory(op string, id entities.AgentID, category, content string, importance, valence, intensity float64, emotional bool) error {
	idPtr, idLen, err := r.pushString(string(id))
	if err != nil {
		return &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	catPtr, catLen, err := r.pushString(category)
	if err != nil {
		return &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	bodyPtr, bodyLen, err := r.pushString(content)
	if err != nil {
		return &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	args := []uint64{
		uint64(idPtr), uint64(idLen),
		uint64(catPtr), uint64(catLen),
		uint64(bodyPtr), uint64(bodyLen),
		api.EncodeF64(importance),
	}
	fn := r.table.addMemory
	if emotional {
		fn = r.table.addEmotionalMemory
		args = append(args, api.EncodeF64(valence), api.EncodeF64(intensity))
	}
	ok, err := r.call(op, id, fn, args...)
	if err != nil {
		return err
	}
	if ok == 0 {
		return &errors.CallError{Op: op, Agent: string(id)}
	}
	return nil
}

// MemoryCount returns the number of memories the agent holds. Unknown
// agents count zero.
func (r *Runtime) MemoryCount(id entities.AgentID) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countOp("get_memory_count", id, r.table.getMemoryCount)
}

// ClearMemories removes all non-permanent memories and returns how many
// were removed.
func (r *Runtime) ClearMemories(id entities.AgentID) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countOp("clear_memories", id, r.table.clearMemories)
}

func (r *Runtime) countOp(op string, id entities.AgentID, fn api.Function) (uint32, error) {
	if err := r.guard(); err != nil {
		return 0, err
	}
	idPtr, idLen, err := r.pushString(string(id))
	if err != nil {
		return 0, &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	count, err := r.call(op, id, fn, uint64(idPtr), uint64(idLen))
	if err != nil {
		return 0, err
	}
	return api.DecodeU32(count), nil
}

// MemoriesByCategory returns the agent's memories in one category as a
// JSON array.
func (r *Runtime) MemoriesByCategory(id entities.AgentID, category string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return "", err
	}
	return r.callString("get_memories_by_category", id, r.table.getMemoriesByCategory, string(id), category)
}

// RetrieveRelevantMemories returns at most limit memories relevant to the
// query, as a JSON array.
func (r *Runtime) RetrieveRelevantMemories(id entities.AgentID, query string, limit uint32) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return "", err
	}
	const op = "retrieve_relevant_memories"
	idPtr, idLen, err := r.pushString(string(id))
	if err != nil {
		return "", &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	queryPtr, queryLen, err := r.pushString(query)
	if err != nil {
		return "", &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	packed, err := r.call(op, id, r.table.retrieveRelevantMemories,
		uint64(idPtr), uint64(idLen), uint64(queryPtr), uint64(queryLen), uint64(limit))
	if err != nil {
		return "", err
	}
	return r.takeString(op, id, packed)
}

// ForgetMemory removes one memory by id. Permanent memories refuse.
func (r *Runtime) ForgetMemory(id entities.AgentID, memoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return err
	}
	const op = "forget_memory"
	idPtr, idLen, err := r.pushString(string(id))
	if err != nil {
		return &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	memPtr, memLen, err := r.pushString(memoryID)
	if err != nil {
		return &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	ok, err := r.call(op, id, r.table.forgetMemory,
		uint64(idPtr), uint64(idLen), uint64(memPtr), uint64(memLen))
	if err != nil {
		return err
	}
	if ok == 0 {
		return &errors.CallError{Op: op, Agent: string(id)}
	}
	return nil
}

// ForgetMemoriesByCategory removes all non-permanent memories in one
// category and returns how many were removed.
func (r *Runtime) ForgetMemoriesByCategory(id entities.AgentID, category string) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(); err != nil {
		return 0, err
	}
	const op = "forget_memories_by_category"
	idPtr, idLen, err := r.pushString(string(id))
	if err != nil {
		return 0, &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	catPtr, catLen, err := r.pushString(category)
	if err != nil {
		return 0, &errors.CallError{Op: op, Agent: string(id), Err: err}
	}
	count, err := r.call(op, id, r.table.forgetMemoriesByCategory,
		uint64(idPtr), uint64(idLen), uint64(catPtr), uint64(catLen))
	if err != nil {
		return 0, err
	}
	return api.DecodeU32(count), nil
}

// Close tears down the wazero runtime and every instantiated module. It is
// idempotent; operations after Close report ErrClosed.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.wasm.Close(r.ctx)
}
