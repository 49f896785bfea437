package host

import (
	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/errors"
	"github.com/Oxyde-Labs/Oxyde/internal/abi"
)

// Every operation follows the same call protocol: encode text arguments as
// C strings valid for the call duration (purego's convention), invoke the
// bound pointer, surface a false/null result as a CallError without
// decoding, and copy-then-free any string the runtime allocated.

// takeString decodes a runtime-allocated string result and releases it
// exactly once, including when decoding fails.
func (t *symbolTable) takeString(op string, agent entities.AgentID, ptr uintptr) (string, error) {
	if ptr == 0 {
		return "", &errors.CallError{Op: op, Agent: string(agent)}
	}
	owned := abi.TakeCString(ptr, t.freeStringFunc())
	defer owned.Release()

	s, err := owned.String()
	if err != nil {
		return "", &errors.DecodeError{Op: op, Err: err}
	}
	return s, nil
}

func (t *symbolTable) unsupported(op string, agent entities.AgentID) error {
	return &errors.CallError{Op: op, Agent: string(agent), Err: errors.ErrUnsupported}
}

func (t *symbolTable) initialize() error {
	if !t.initFunc()() {
		return &errors.CallError{Op: "init"}
	}
	return nil
}

func (t *symbolTable) createAgent(configPath string) (entities.AgentID, error) {
	var ptr uintptr
	if t.min != nil {
		ptr = t.min.createAgent(configPath)
	} else {
		ptr = t.ext.createAgent(configPath)
	}
	id, err := t.takeString("create_agent", "", ptr)
	return entities.AgentID(id), err
}

func (t *symbolTable) createAgentFromJSON(configJSON string) (entities.AgentID, error) {
	if t.ext == nil {
		return "", t.unsupported("create_agent_from_json", "")
	}
	id, err := t.takeString("create_agent_from_json", "", t.ext.createAgentFromJSON(configJSON))
	return entities.AgentID(id), err
}

func (t *symbolTable) updateAgentContext(id entities.AgentID, contextJSON string) error {
	var ok bool
	if t.min != nil {
		ok = t.min.updateAgentContext(string(id), contextJSON)
	} else {
		ok = t.ext.updateAgentContext(string(id), contextJSON)
	}
	if !ok {
		return &errors.CallError{Op: "update_agent_context", Agent: string(id)}
	}
	return nil
}

func (t *symbolTable) processInput(id entities.AgentID, input string) (string, error) {
	var ptr uintptr
	if t.min != nil {
		ptr = t.min.processInput(string(id), input)
	} else {
		ptr = t.ext.processInput(string(id), input)
	}
	return t.takeString("process_input", id, ptr)
}

func (t *symbolTable) agentState(id entities.AgentID) (string, error) {
	var ptr uintptr
	if t.min != nil {
		ptr = t.min.getAgentState(string(id))
	} else {
		ptr = t.ext.getAgentState(string(id))
	}
	return t.takeString("get_agent_state", id, ptr)
}

// emotionVector marshals the extended shape's eight-channel out-buffer. On
// failure every channel is left at the documented default 0.0; a partially
// written buffer is never surfaced.
func (t *symbolTable) emotionVector(id entities.AgentID) (entities.EmotionVector, error) {
	if t.ext == nil {
		return entities.EmotionVector{}, t.unsupported("get_emotion_vector", id)
	}
	var channels [entities.EmotionChannels]float32
	if !t.ext.getEmotionVector(string(id), &channels[0]) {
		return entities.EmotionVector{}, &errors.CallError{Op: "get_emotion_vector", Agent: string(id)}
	}
	return entities.EmotionVectorFromChannels(channels), nil
}

// legacyEmotionVector marshals the minimal shape's three out-parameters.
func (t *symbolTable) legacyEmotionVector(id entities.AgentID) (entities.LegacyEmotionVector, error) {
	if t.min == nil {
		return entities.LegacyEmotionVector{}, t.unsupported("get_emotion_vector", id)
	}
	var joy, anger, fear float32
	if !t.min.getEmotionVector(string(id), &joy, &anger, &fear) {
		return entities.LegacyEmotionVector{}, &errors.CallError{Op: "get_emotion_vector", Agent: string(id)}
	}
	return entities.LegacyEmotionVector{Joy: joy, Anger: anger, Fear: fear}, nil
}

func (t *symbolTable) addMemory(id entities.AgentID, category, content string, importance float64) error {
	if t.ext == nil {
		return t.unsupported("add_memory", id)
	}
	if !t.ext.addMemory(string(id), category, content, importance) {
		return &errors.CallError{Op: "add_memory", Agent: string(id)}
	}
	return nil
}

func (t *symbolTable) addEmotionalMemory(id entities.AgentID, category, content string, importance, valence, intensity float64) error {
	if t.ext == nil {
		return t.unsupported("add_emotional_memory", id)
	}
	if !t.ext.addEmotionalMemory(string(id), category, content, importance, valence, intensity) {
		return &errors.CallError{Op: "add_emotional_memory", Agent: string(id)}
	}
	return nil
}

func (t *symbolTable) memoryCount(id entities.AgentID) (uint32, error) {
	if t.ext == nil {
		return 0, t.unsupported("get_memory_count", id)
	}
	return t.ext.getMemoryCount(string(id)), nil
}

func (t *symbolTable) clearMemories(id entities.AgentID) (uint32, error) {
	if t.ext == nil {
		return 0, t.unsupported("clear_memories", id)
	}
	return t.ext.clearMemories(string(id)), nil
}

func (t *symbolTable) memoriesByCategory(id entities.AgentID, category string) (string, error) {
	if t.ext == nil {
		return "", t.unsupported("get_memories_by_category", id)
	}
	return t.takeString("get_memories_by_category", id, t.ext.getMemoriesByCategory(string(id), category))
}

func (t *symbolTable) retrieveRelevantMemories(id entities.AgentID, query string, limit uint32) (string, error) {
	if t.ext == nil {
		return "", t.unsupported("retrieve_relevant_memories", id)
	}
	return t.takeString("retrieve_relevant_memories", id, t.ext.retrieveRelevantMemories(string(id), query, limit))
}

func (t *symbolTable) forgetMemory(id entities.AgentID, memoryID string) error {
	if t.ext == nil {
		return t.unsupported("forget_memory", id)
	}
	if !t.ext.forgetMemory(string(id), memoryID) {
		return &errors.CallError{Op: "forget_memory", Agent: string(id)}
	}
	return nil
}

func (t *symbolTable) forgetMemoriesByCategory(id entities.AgentID, category string) (uint32, error) {
	if t.ext == nil {
		return 0, t.unsupported("forget_memories_by_category", id)
	}
	return t.ext.forgetMemoriesByCategory(string(id), category), nil
}
