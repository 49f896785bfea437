package entities

// AgentID is the opaque token identifying a stateful agent instance inside
// the agent runtime. The SDK never interprets its structure, only forwards
// it; there is no local object modeling an agent.
type AgentID string

// Personality describes who an agent is. It is part of the configuration
// document the runtime consumes when creating an agent.
type Personality struct {
	// Name is the agent's display name.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Role is the agent's function in the world (e.g. "Shopkeeper", "Guard").
	Role string `json:"role" yaml:"role" validate:"required"`

	// Backstory holds personality traits and history, one statement per entry.
	Backstory []string `json:"backstory,omitempty" yaml:"backstory"`

	// Knowledge holds facts the agent knows about the world.
	Knowledge []string `json:"knowledge,omitempty" yaml:"knowledge"`
}

// EmbeddingModel selects the vector embedding backend of the memory
// system.
type EmbeddingModel string

const (
	EmbeddingMiniBert   EmbeddingModel = "MiniBert"
	EmbeddingDistilBert EmbeddingModel = "DistilBert"
	EmbeddingCustom     EmbeddingModel = "Custom"
)

// MemoryConfig controls the runtime's memory system for one agent.
type MemoryConfig struct {
	// Capacity is the maximum number of memories retained.
	Capacity int `json:"capacity" yaml:"capacity" validate:"gte=1"`

	// ShortTermCapacity is the size of the short-term window. It can never
	// exceed Capacity.
	ShortTermCapacity int `json:"short_term_capacity" yaml:"short_term_capacity" validate:"gte=1,ltefield=Capacity"`

	// DecayRate is the per-tick importance decay applied to non-permanent
	// memories, in [0, 1].
	DecayRate float64 `json:"decay_rate" yaml:"decay_rate" validate:"gte=0,lte=1"`

	// ImportanceThreshold is the minimum importance below which memories
	// become eligible for eviction, in [0, 1].
	ImportanceThreshold float64 `json:"importance_threshold" yaml:"importance_threshold" validate:"gte=0,lte=1"`

	// Persistence enables saving memories across sessions.
	Persistence bool `json:"persistence" yaml:"persistence"`

	// PriorityCategories are retained preferentially under capacity pressure.
	PriorityCategories []string `json:"priority_categories,omitempty" yaml:"priority_categories"`

	// UseEmbeddings enables vector similarity for memory retrieval.
	UseEmbeddings bool `json:"use_embeddings" yaml:"use_embeddings"`

	// EmbeddingModel picks the embedding backend.
	EmbeddingModel EmbeddingModel `json:"embedding_model" yaml:"embedding_model" validate:"omitempty,oneof=MiniBert DistilBert Custom"`

	// EmbeddingDimension is the vector width. It must be set whenever
	// embeddings are enabled.
	EmbeddingDimension int `json:"embedding_dimension" yaml:"embedding_dimension" validate:"required_if=UseEmbeddings true,gte=0"`

	// CustomModelPath locates the model file for the Custom backend.
	CustomModelPath string `json:"custom_model_path,omitempty" yaml:"custom_model_path" validate:"required_if=EmbeddingModel Custom"`
}

// DefaultMemoryConfig returns the memory settings the runtime uses when a
// configuration document omits them.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:            100,
		ShortTermCapacity:   10,
		DecayRate:           0.05,
		ImportanceThreshold: 0.2,
		EmbeddingModel:      EmbeddingMiniBert,
		EmbeddingDimension:  384,
	}
}

// InferenceConfig controls the runtime's language model backend.
type InferenceConfig struct {
	// Model is the model identifier the runtime should load or call.
	Model string `json:"model" yaml:"model" validate:"required"`

	// UseLocal selects an on-device model instead of a remote API.
	UseLocal bool `json:"use_local" yaml:"use_local"`

	// LocalModelPath locates the model file when UseLocal is set.
	LocalModelPath string `json:"local_model_path,omitempty" yaml:"local_model_path" validate:"required_if=UseLocal true"`

	// APIEndpoint is the cloud inference endpoint used when UseLocal is
	// not set.
	APIEndpoint string `json:"api_endpoint,omitempty" yaml:"api_endpoint" validate:"omitempty,http_url"`

	// APIKey authenticates against the cloud endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key"`

	// Temperature is the sampling temperature, in [0, 2].
	Temperature float64 `json:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`

	// MaxTokens caps the response length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" validate:"gte=1,lte=100000"`

	// TimeoutMs bounds a single inference call, in milliseconds.
	TimeoutMs uint64 `json:"timeout_ms" yaml:"timeout_ms" validate:"gte=1,lte=300000"`

	// FallbackAPI is tried when the primary endpoint fails.
	FallbackAPI string `json:"fallback_api,omitempty" yaml:"fallback_api" validate:"omitempty,http_url"`
}

// DefaultInferenceConfig returns the inference settings the runtime uses
// when a configuration document omits them.
func DefaultInferenceConfig() InferenceConfig {
	return InferenceConfig{
		Model:       "llama2-7b",
		APIEndpoint: "https://api.openai.com/v1/chat/completions",
		Temperature: 0.7,
		MaxTokens:   256,
		TimeoutMs:   5000,
	}
}

// BehaviorConfig describes one scripted behavior trigger.
type BehaviorConfig struct {
	// Trigger is the condition activating the behavior.
	Trigger string `json:"trigger" yaml:"trigger" validate:"required"`

	// Cooldown is the minimum delay between activations, in seconds.
	Cooldown uint64 `json:"cooldown" yaml:"cooldown"`

	// Priority orders behaviors when several trigger at once.
	Priority uint32 `json:"priority" yaml:"priority"`
}

// AgentConfig is the full configuration document for one agent. It is the
// payload accepted by create_agent_from_json and the content of the files
// create_agent reads; the runtime validates it again on its side.
type AgentConfig struct {
	// Agent is the personality section. The wire key is "agent".
	Agent Personality `json:"agent" yaml:"agent" validate:"required"`

	// Memory is the memory system section.
	Memory MemoryConfig `json:"memory" yaml:"memory"`

	// Inference is the language model section.
	Inference InferenceConfig `json:"inference" yaml:"inference"`

	// Behavior maps behavior names to their triggers.
	Behavior map[string]BehaviorConfig `json:"behavior,omitempty" yaml:"behavior" validate:"dive"`
}

// AgentState is the snapshot document returned by get_agent_state.
type AgentState struct {
	// ID is the agent's opaque identifier.
	ID AgentID `json:"id"`

	// Name is the agent's display name.
	Name string `json:"name"`

	// State is the runtime lifecycle state ("idle", "processing", ...).
	State string `json:"state,omitempty"`

	// MemoryCount is the number of memories currently held.
	MemoryCount uint32 `json:"memory_count,omitempty"`

	// Emotion is the current emotion vector, when the runtime exposes it.
	Emotion *EmotionVector `json:"emotion,omitempty"`
}
