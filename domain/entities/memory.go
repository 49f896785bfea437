package entities

// Memory categories understood by the runtime. The set is closed: memory
// operations fail on any other value. Matching is case-insensitive and the
// runtime reports categories in this lowercase form.
const (
	MemoryEpisodic   = "episodic"
	MemorySemantic   = "semantic"
	MemoryProcedural = "procedural"
	MemoryEmotional  = "emotional"
)

// Memory is the wire shape of one memory record, as returned inside the
// JSON arrays of get_memories_by_category and retrieve_relevant_memories.
type Memory struct {
	// ID is the runtime-assigned memory identifier, used by forget_memory.
	ID string `json:"id"`

	// Category classifies the memory (see the Memory* constants).
	Category string `json:"category"`

	// Tags are optional free-form labels.
	Tags []string `json:"tags,omitempty"`

	// Content is the remembered text.
	Content string `json:"content"`

	// CreatedAt is the creation time in Unix seconds.
	CreatedAt uint64 `json:"created_at"`

	// LastAccessed is the last retrieval time in Unix seconds.
	LastAccessed uint64 `json:"last_accessed"`

	// AccessCount is how often the memory has been retrieved.
	AccessCount uint32 `json:"access_count"`

	// Importance is the retention weight in [0, 1]. The runtime clamps
	// values outside the range; an importance of 1.0 or higher at creation
	// marks the memory permanent.
	Importance float64 `json:"importance"`

	// EmotionalValence is how positive or negative the memory is, in [-1, 1].
	EmotionalValence float64 `json:"emotional_valence"`

	// EmotionalIntensity is how strong the emotional charge is, in [0, 1].
	EmotionalIntensity float64 `json:"emotional_intensity"`

	// Permanent memories are excluded from clearing, forgetting and decay.
	Permanent bool `json:"permanent"`
}
