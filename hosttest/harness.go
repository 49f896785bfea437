package hosttest

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
)

// TestCase defines one scenario driven against an agent runtime.
type TestCase struct {
	Name     string
	Run      func(rt ports.AgentRuntime) error
	Validate func(t *testing.T, rt ports.AgentRuntime, err error)
}

// RunRuntimeTests runs a suite of scenarios, each against a fresh runtime
// from factory. The same suite can drive the in-memory fake, the wasm
// runtime, or a native engine with a real library installed.
func RunRuntimeTests(t *testing.T, factory func() ports.AgentRuntime, tests []TestCase) {
	t.Helper()

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			rt := factory()

			var err error
			if tc.Run != nil {
				err = tc.Run(rt)
			}
			if tc.Validate != nil {
				tc.Validate(t, rt, err)
			}
		})
	}
}

// DefaultAgentJSON is a minimal valid configuration document for tests.
const DefaultAgentJSON = `{
  "agent": {
    "name": "Testa",
    "role": "Test Subject",
    "backstory": ["Created for the test suite"]
  }
}`

// CreateTestAgent initializes rt and creates an agent from
// DefaultAgentJSON, failing the test on error.
func CreateTestAgent(t *testing.T, rt ports.AgentRuntime) entities.AgentID {
	t.Helper()

	if err := rt.Init(); err != nil {
		t.Fatalf("init runtime: %v", err)
	}
	id, err := rt.CreateAgentFromJSON(DefaultAgentJSON)
	if err != nil {
		t.Fatalf("create test agent: %v", err)
	}
	return id
}

// AssertMemoryCount asserts the runtime reports exactly want memories.
func AssertMemoryCount(t *testing.T, rt ports.AgentRuntime, id entities.AgentID, want uint32) {
	t.Helper()

	got, err := rt.MemoryCount(id)
	if err != nil {
		t.Errorf("memory count: %v", err)
		return
	}
	if got != want {
		t.Errorf("memory count: expected %d, got %d", want, got)
	}
}

// AssertStateField asserts a specific field in the agent state snapshot
// matches the expected value.
func AssertStateField(t *testing.T, rt ports.AgentRuntime, id entities.AgentID, key string, expected any) {
	t.Helper()

	snapshot, err := rt.AgentState(id)
	if err != nil {
		t.Errorf("agent state: %v", err)
		return
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(snapshot), &decoded); err != nil {
		t.Errorf("agent state is not valid JSON: %v", err)
		return
	}

	val, ok := decoded[key]
	if !ok {
		t.Errorf("missing state field %q", key)
		return
	}

	// Handle basic numeric conversion for JSON unmarshaled data
	if expectedNum, ok := toFloat64(expected); ok {
		if actualNum, ok := toFloat64(val); ok {
			if expectedNum != actualNum {
				t.Errorf("field %q: expected %v, got %v", key, expected, val)
			}
			return
		}
	}

	if !reflect.DeepEqual(val, expected) {
		t.Errorf("field %q: expected %v, got %v", key, expected, val)
	}
}

// DecodeMemories parses the JSON array returned by the memory listing
// operations.
func DecodeMemories(t *testing.T, doc string) []entities.Memory {
	t.Helper()

	var memories []entities.Memory
	if err := json.Unmarshal([]byte(doc), &memories); err != nil {
		t.Fatalf("memory listing is not valid JSON: %v", err)
	}
	return memories
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case float32:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}
