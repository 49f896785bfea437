package abi

// Exported symbol names of the agent runtime. The native shared library
// and the wasm build export the same names.
const (
	SymInit                     = "oxyde_init"
	SymCreateAgent              = "oxyde_create_agent"
	SymCreateAgentFromJSON      = "oxyde_create_agent_from_json"
	SymUpdateAgentContext       = "oxyde_update_agent_context"
	SymProcessInput             = "oxyde_process_input"
	SymGetAgentState            = "oxyde_get_agent_state"
	SymGetEmotionVector         = "oxyde_get_emotion_vector"
	SymFreeString               = "oxyde_free_string"
	SymAddMemory                = "oxyde_add_memory"
	SymAddEmotionalMemory       = "oxyde_add_emotional_memory"
	SymGetMemoryCount           = "oxyde_get_memory_count"
	SymClearMemories            = "oxyde_clear_memories"
	SymGetMemoriesByCategory    = "oxyde_get_memories_by_category"
	SymRetrieveRelevantMemories = "oxyde_retrieve_relevant_memories"
	SymForgetMemory             = "oxyde_forget_memory"
	SymForgetMemoriesByCategory = "oxyde_forget_memories_by_category"
)

// MinimalSymbols is the older seven-symbol lifecycle shape.
var MinimalSymbols = []string{
	SymInit,
	SymCreateAgent,
	SymUpdateAgentContext,
	SymProcessInput,
	SymGetAgentState,
	SymGetEmotionVector,
	SymFreeString,
}

// ExtendedSymbols is the current sixteen-symbol shape: lifecycle, the
// eight-channel emotion vector and the memory system.
var ExtendedSymbols = []string{
	SymInit,
	SymCreateAgent,
	SymCreateAgentFromJSON,
	SymUpdateAgentContext,
	SymProcessInput,
	SymGetAgentState,
	SymGetEmotionVector,
	SymFreeString,
	SymAddMemory,
	SymAddEmotionalMemory,
	SymGetMemoryCount,
	SymClearMemories,
	SymGetMemoriesByCategory,
	SymRetrieveRelevantMemories,
	SymForgetMemory,
	SymForgetMemoriesByCategory,
}
