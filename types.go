package oxyde

import (
	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/errors"
)

// Core types are re-exported from domain/entities so embedding code only
// imports this package.
type (
	AgentID             = entities.AgentID
	AgentConfig         = entities.AgentConfig
	Personality         = entities.Personality
	MemoryConfig        = entities.MemoryConfig
	InferenceConfig     = entities.InferenceConfig
	BehaviorConfig      = entities.BehaviorConfig
	AgentState          = entities.AgentState
	Memory              = entities.Memory
	EmbeddingModel      = entities.EmbeddingModel
	EmotionVector       = entities.EmotionVector
	LegacyEmotionVector = entities.LegacyEmotionVector
)

// Embedding models the runtime can load for memory retrieval.
const (
	EmbeddingMiniBert   = entities.EmbeddingMiniBert
	EmbeddingDistilBert = entities.EmbeddingDistilBert
	EmbeddingCustom     = entities.EmbeddingCustom
)

// Memory categories understood by the runtime.
const (
	MemoryEpisodic   = entities.MemoryEpisodic
	MemorySemantic   = entities.MemorySemantic
	MemoryProcedural = entities.MemoryProcedural
	MemoryEmotional  = entities.MemoryEmotional
)

// EmotionChannels is the width of the extended emotion vector.
const EmotionChannels = entities.EmotionChannels

// Error types, re-exported for errors.As / errors.Is at call sites.
type (
	PlatformError = errors.PlatformError
	LoadError     = errors.LoadError
	BindError     = errors.BindError
	CallError     = errors.CallError
	DecodeError   = errors.DecodeError
	ConfigError   = errors.ConfigError
)

// Sentinel errors.
var (
	ErrUnsupported = errors.ErrUnsupported
	ErrClosed      = errors.ErrClosed
)
