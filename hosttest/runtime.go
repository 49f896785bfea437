// Package hosttest provides an in-memory agent runtime for testing game
// integration code without a native runtime library. It honors the same
// observable contract as the native engine: opaque agent ids, JSON
// snapshots, importance clamping, permanence, and capacity eviction.
package hosttest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Oxyde-Labs/Oxyde/application/config"
	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/errors"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
)

type fakeAgent struct {
	id       entities.AgentID
	config   *entities.AgentConfig
	state    string
	context  string
	emotion  entities.EmotionVector
	memories []entities.Memory
}

// Runtime is an in-memory ports.AgentRuntime. The zero value is not
// usable; construct with NewRuntime.
type Runtime struct {
	// RespondFunc scripts ProcessInput responses. When nil, agents echo
	// a deterministic acknowledgement.
	RespondFunc func(id entities.AgentID, input string) string

	mu          sync.Mutex
	initialized bool
	closed      bool
	nextAgent   int
	nextMemory  int
	agents      map[entities.AgentID]*fakeAgent
	now         func() uint64
}

var _ ports.AgentRuntime = (*Runtime)(nil)

// NewRuntime creates an empty fake runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		agents: make(map[entities.AgentID]*fakeAgent),
		now:    func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// Init marks the runtime ready. Operations before Init fail, mirroring a
// native runtime that has not set up its engine.
func (r *Runtime) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.ErrClosed
	}
	r.initialized = true
	return nil
}

// Close shuts the runtime down. Further operations fail with ErrClosed.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *Runtime) agentLocked(op string, id entities.AgentID) (*fakeAgent, error) {
	if r.closed {
		return nil, errors.ErrClosed
	}
	if !r.initialized {
		return nil, &errors.CallError{Op: op, Agent: string(id), Err: fmt.Errorf("runtime not initialized")}
	}
	a, ok := r.agents[id]
	if !ok {
		return nil, &errors.CallError{Op: op, Agent: string(id), Err: fmt.Errorf("unknown agent")}
	}
	return a, nil
}

// CreateAgent creates an agent from a configuration file.
func (r *Runtime) CreateAgent(configPath string) (entities.AgentID, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", &errors.CallError{Op: "create_agent", Err: err}
	}
	return r.register(cfg)
}

// CreateAgentFromJSON creates an agent from an inline JSON document.
func (r *Runtime) CreateAgentFromJSON(configJSON string) (entities.AgentID, error) {
	cfg, err := config.Parse([]byte(configJSON))
	if err != nil {
		return "", &errors.CallError{Op: "create_agent_from_json", Err: err}
	}
	return r.register(cfg)
}

func (r *Runtime) register(cfg *entities.AgentConfig) (entities.AgentID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", errors.ErrClosed
	}
	if !r.initialized {
		return "", &errors.CallError{Op: "create_agent", Err: fmt.Errorf("runtime not initialized")}
	}

	r.nextAgent++
	id := entities.AgentID(fmt.Sprintf("agent-%d", r.nextAgent))
	r.agents[id] = &fakeAgent{id: id, config: cfg, state: "idle"}
	return id, nil
}

// UpdateAgentContext stores the agent's world context.
func (r *Runtime) UpdateAgentContext(id entities.AgentID, contextJSON string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.agentLocked("update_agent_context", id)
	if err != nil {
		return err
	}
	if !json.Valid([]byte(contextJSON)) {
		return &errors.CallError{Op: "update_agent_context", Agent: string(id), Err: fmt.Errorf("context is not valid JSON")}
	}
	a.context = contextJSON
	return nil
}

// ProcessInput produces the agent's response to input text.
func (r *Runtime) ProcessInput(id entities.AgentID, input string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.agentLocked("process_input", id)
	if err != nil {
		return "", err
	}
	if r.RespondFunc != nil {
		return r.RespondFunc(id, input), nil
	}
	return fmt.Sprintf("%s acknowledges: %s", a.config.Agent.Name, input), nil
}

// AgentState returns the agent's snapshot as JSON.
func (r *Runtime) AgentState(id entities.AgentID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.agentLocked("get_agent_state", id)
	if err != nil {
		return "", err
	}

	snapshot := entities.AgentState{
		ID:          a.id,
		Name:        a.config.Agent.Name,
		State:       a.state,
		MemoryCount: uint32(len(a.memories)),
	}
	if a.emotion != (entities.EmotionVector{}) {
		emotion := a.emotion
		snapshot.Emotion = &emotion
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", &errors.DecodeError{Op: "get_agent_state", Err: err}
	}
	return string(data), nil
}

// SetEmotion scripts the emotion vector an agent reports.
func (r *Runtime) SetEmotion(id entities.AgentID, vec entities.EmotionVector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.agents[id]; ok {
		a.emotion = vec
	}
}

// EmotionVector returns the agent's current emotion vector.
func (r *Runtime) EmotionVector(id entities.AgentID) (entities.EmotionVector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.agentLocked("get_emotion_vector", id)
	if err != nil {
		return entities.EmotionVector{}, err
	}
	return a.emotion, nil
}

// AddMemory stores a memory. Importance at or above 1.0 marks the memory
// permanent; the stored score is clamped to [0, 1].
func (r *Runtime) AddMemory(id entities.AgentID, category, content string, importance float64) error {
	return r.addMemory("add_memory", id, category, content, importance, 0, 0)
}

// AddEmotionalMemory stores a memory with an emotional charge. Valence is
// clamped to [-1, 1] and intensity to [0, 1].
func (r *Runtime) AddEmotionalMemory(id entities.AgentID, category, content string, importance, valence, intensity float64) error {
	return r.addMemory("add_emotional_memory", id, category, content, importance, valence, intensity)
}

func (r *Runtime) addMemory(op string, id entities.AgentID, category, content string, importance, valence, intensity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.agentLocked(op, id)
	if err != nil {
		return err
	}
	category = strings.ToLower(category)
	if !validCategory(category) {
		return &errors.CallError{Op: op, Agent: string(id), Err: fmt.Errorf("unknown memory category %q", category)}
	}

	permanent := importance >= 1.0
	if !permanent && len(a.memories) >= a.config.Memory.Capacity {
		if err := a.evictLocked(category); err != nil {
			return &errors.CallError{Op: op, Agent: string(id), Err: err}
		}
	}

	r.nextMemory++
	now := r.now()
	a.memories = append(a.memories, entities.Memory{
		ID:                 fmt.Sprintf("mem-%d", r.nextMemory),
		Category:           category,
		Content:            content,
		CreatedAt:          now,
		LastAccessed:       now,
		Importance:         clamp(importance, 0, 1),
		EmotionalValence:   clamp(valence, -1, 1),
		EmotionalIntensity: clamp(intensity, 0, 1),
		Permanent:          permanent,
	})
	return nil
}

// evictLocked frees one slot, preferring the least important non-permanent
// memory of the same category, then the least important overall.
func (a *fakeAgent) evictLocked(category string) error {
	idx := a.leastImportantLocked(func(m entities.Memory) bool {
		return !m.Permanent && m.Category == category
	})
	if idx == -1 {
		idx = a.leastImportantLocked(func(m entities.Memory) bool {
			return !m.Permanent
		})
	}
	if idx == -1 {
		return fmt.Errorf("memory capacity reached and all memories are permanent")
	}
	a.memories = append(a.memories[:idx], a.memories[idx+1:]...)
	return nil
}

func (a *fakeAgent) leastImportantLocked(keep func(entities.Memory) bool) int {
	idx := -1
	var best float64
	for i, m := range a.memories {
		if !keep(m) {
			continue
		}
		score := m.Importance * (1 + float64(m.AccessCount)/10)
		if idx == -1 || score < best {
			idx, best = i, score
		}
	}
	return idx
}

// MemoryCount returns the number of memories held. Unknown agents count
// zero.
func (r *Runtime) MemoryCount(id entities.AgentID) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return 0, nil
	}
	return uint32(len(a.memories)), nil
}

// ClearMemories removes all non-permanent memories and returns how many
// were removed.
func (r *Runtime) ClearMemories(id entities.AgentID) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return 0, nil
	}

	kept := a.memories[:0]
	var removed uint32
	for _, m := range a.memories {
		if m.Permanent {
			kept = append(kept, m)
		} else {
			removed++
		}
	}
	a.memories = kept
	return removed, nil
}

// MemoriesByCategory returns the agent's memories in one category as a
// JSON array.
func (r *Runtime) MemoriesByCategory(id entities.AgentID, category string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.agentLocked("get_memories_by_category", id)
	if err != nil {
		return "", err
	}

	category = strings.ToLower(category)
	matched := make([]entities.Memory, 0)
	for _, m := range a.memories {
		if m.Category == category {
			matched = append(matched, m)
		}
	}
	return marshalMemories("get_memories_by_category", matched)
}

// RetrieveRelevantMemories scores memories against the query and returns
// at most limit of them, most relevant first, as a JSON array.
func (r *Runtime) RetrieveRelevantMemories(id entities.AgentID, query string, limit uint32) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.agentLocked("retrieve_relevant_memories", id)
	if err != nil {
		return "", err
	}

	type scored struct {
		memory    entities.Memory
		relevance float64
	}
	candidates := make([]scored, 0, len(a.memories))
	for _, m := range a.memories {
		rel := relevance(m, query)
		if rel >= a.config.Memory.ImportanceThreshold {
			candidates = append(candidates, scored{m, rel})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].relevance > candidates[j].relevance
	})

	if uint32(len(candidates)) > limit {
		candidates = candidates[:limit]
	}
	matched := make([]entities.Memory, 0, len(candidates))
	for _, c := range candidates {
		matched = append(matched, c.memory)
	}
	return marshalMemories("retrieve_relevant_memories", matched)
}

// ForgetMemory removes one memory by id. Permanent memories refuse.
func (r *Runtime) ForgetMemory(id entities.AgentID, memoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := r.agentLocked("forget_memory", id)
	if err != nil {
		return err
	}

	for i, m := range a.memories {
		if m.ID != memoryID {
			continue
		}
		if m.Permanent {
			return &errors.CallError{Op: "forget_memory", Agent: string(id), Err: fmt.Errorf("cannot forget a permanent memory")}
		}
		a.memories = append(a.memories[:i], a.memories[i+1:]...)
		return nil
	}
	return &errors.CallError{Op: "forget_memory", Agent: string(id), Err: fmt.Errorf("unknown memory %q", memoryID)}
}

// ForgetMemoriesByCategory removes all non-permanent memories in one
// category and returns how many were removed.
func (r *Runtime) ForgetMemoriesByCategory(id entities.AgentID, category string) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return 0, nil
	}

	category = strings.ToLower(category)
	kept := a.memories[:0]
	var removed uint32
	for _, m := range a.memories {
		if m.Category == category && !m.Permanent {
			removed++
		} else {
			kept = append(kept, m)
		}
	}
	a.memories = kept
	return removed, nil
}

func marshalMemories(op string, memories []entities.Memory) (string, error) {
	data, err := json.Marshal(memories)
	if err != nil {
		return "", &errors.DecodeError{Op: op, Err: err}
	}
	return string(data), nil
}

func validCategory(category string) bool {
	switch category {
	case entities.MemoryEpisodic, entities.MemorySemantic, entities.MemoryProcedural, entities.MemoryEmotional:
		return true
	}
	return false
}

// relevance blends query word overlap, stored importance and a tag bonus,
// clamped to [0, 1].
func relevance(m entities.Memory, query string) float64 {
	words := strings.Fields(strings.ToLower(query))
	content := strings.ToLower(m.Content)

	matched := 0
	for _, w := range words {
		if strings.Contains(content, w) {
			matched++
		}
	}
	var wordScore float64
	if len(words) > 0 {
		wordScore = float64(matched) / float64(len(words))
	}

	tagBonus := 0.0
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(query), strings.ToLower(tag)) {
			tagBonus = 0.1
			break
		}
	}

	return clamp(wordScore*0.6+m.Importance*0.3+tagBonus, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
