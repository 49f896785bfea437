package host

// ABI selects which evolution of the runtime's exported symbol set an
// engine binds. The two shapes export overlapping symbol names with
// different signatures (get_emotion_vector in particular), so an engine
// binds exactly one shape and never mixes them.
type ABI int

const (
	// ABIExtended is the current sixteen-symbol set: the agent lifecycle,
	// the eight-channel emotion vector and the memory system.
	ABIExtended ABI = iota

	// ABIMinimal is the older seven-symbol lifecycle set with the
	// three-channel emotion vector. Engines bound to it report the
	// remaining operations as unsupported.
	ABIMinimal
)

func (a ABI) String() string {
	if a == ABIMinimal {
		return "minimal"
	}
	return "extended"
}

// minimalTable is the typed call table of the minimal ABI shape.
//
// Functions returning runtime-allocated strings are declared as returning
// uintptr, not string: the marshaler needs the original pointer to hand to
// oxyde_free_string after copying.
type minimalTable struct {
	init               func() bool
	createAgent        func(configPath string) uintptr
	updateAgentContext func(agentID, contextJSON string) bool
	processInput       func(agentID, input string) uintptr
	getAgentState      func(agentID string) uintptr
	getEmotionVector   func(agentID string, joy, anger, fear *float32) bool
	freeString         func(ptr uintptr)
}

// extendedTable is the typed call table of the extended ABI shape.
type extendedTable struct {
	init                     func() bool
	createAgent              func(configPath string) uintptr
	createAgentFromJSON      func(configJSON string) uintptr
	updateAgentContext       func(agentID, contextJSON string) bool
	processInput             func(agentID, input string) uintptr
	getAgentState            func(agentID string) uintptr
	getEmotionVector         func(agentID string, channels *float32) bool
	freeString               func(ptr uintptr)
	addMemory                func(agentID, category, content string, importance float64) bool
	addEmotionalMemory       func(agentID, category, content string, importance, valence, intensity float64) bool
	getMemoryCount           func(agentID string) uint32
	clearMemories            func(agentID string) uint32
	getMemoriesByCategory    func(agentID, category string) uintptr
	retrieveRelevantMemories func(agentID, query string, limit uint32) uintptr
	forgetMemory             func(agentID, memoryID string) bool
	forgetMemoriesByCategory func(agentID, category string) uint32
}

// symbolTable is the tagged variant over the two ABI shapes. Exactly one of
// min/ext is non-nil, matching abi. It is either fully populated by a
// successful bind or never handed out at all.
type symbolTable struct {
	abi ABI
	min *minimalTable
	ext *extendedTable
}

func (t *symbolTable) initFunc() func() bool {
	if t.min != nil {
		return t.min.init
	}
	return t.ext.init
}

func (t *symbolTable) freeStringFunc() func(uintptr) {
	if t.min != nil {
		return t.min.freeString
	}
	return t.ext.freeString
}
