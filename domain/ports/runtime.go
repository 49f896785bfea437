package ports

import "github.com/Oxyde-Labs/Oxyde/domain/entities"

// AgentRuntime is the full operation surface of the agent runtime, as seen
// by an embedding application. It abstracts the transport: the native
// shared-library engine, the WebAssembly runtime and the in-memory fake all
// implement it.
//
// It deliberately does NOT abstract over the two native ABI shapes: an
// engine bound to the legacy shape reports the operations it cannot carry
// (memory calls, the eight-channel emotion vector) with ErrUnsupported
// instead of emulating them.
//
// All calls are synchronous and run to completion; there is no
// cancellation. JSON-returning operations return the runtime's document
// verbatim, already copied into host-owned memory.
type AgentRuntime interface {
	// Init initializes the runtime. Call it once before creating agents.
	Init() error

	// CreateAgent creates an agent from a configuration file path.
	CreateAgent(configPath string) (entities.AgentID, error)

	// CreateAgentFromJSON creates an agent from an inline JSON document.
	CreateAgentFromJSON(configJSON string) (entities.AgentID, error)

	// UpdateAgentContext replaces the agent's world context with the given
	// JSON document.
	UpdateAgentContext(id entities.AgentID, contextJSON string) error

	// ProcessInput sends input text to the agent and returns its response.
	ProcessInput(id entities.AgentID, input string) (string, error)

	// AgentState returns the agent's state snapshot as JSON.
	AgentState(id entities.AgentID) (string, error)

	// EmotionVector returns the agent's eight-channel emotion vector.
	EmotionVector(id entities.AgentID) (entities.EmotionVector, error)

	// AddMemory stores a memory with the given importance in [0, 1].
	AddMemory(id entities.AgentID, category, content string, importance float64) error

	// AddEmotionalMemory stores a memory with an emotional charge.
	AddEmotionalMemory(id entities.AgentID, category, content string, importance, valence, intensity float64) error

	// MemoryCount returns the number of memories the agent holds.
	// Unknown agents count zero.
	MemoryCount(id entities.AgentID) (uint32, error)

	// ClearMemories removes all non-permanent memories and returns how
	// many were removed. Permanent memories are excluded from clearing.
	ClearMemories(id entities.AgentID) (uint32, error)

	// MemoriesByCategory returns the agent's memories in one category as a
	// JSON array.
	MemoriesByCategory(id entities.AgentID, category string) (string, error)

	// RetrieveRelevantMemories returns at most limit memories relevant to
	// the query, as a JSON array.
	RetrieveRelevantMemories(id entities.AgentID, query string, limit uint32) (string, error)

	// ForgetMemory removes one memory by id. Permanent memories refuse.
	ForgetMemory(id entities.AgentID, memoryID string) error

	// ForgetMemoriesByCategory removes all non-permanent memories in one
	// category and returns how many were removed.
	ForgetMemoriesByCategory(id entities.AgentID, category string) (uint32, error)
}
