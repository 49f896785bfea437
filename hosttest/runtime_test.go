package hosttest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/errors"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
	"github.com/Oxyde-Labs/Oxyde/hosttest"
)

func TestRuntime_AgentLifecycle(t *testing.T) {
	rt := hosttest.NewRuntime()
	id := hosttest.CreateTestAgent(t, rt)

	reply, err := rt.ProcessInput(id, "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "Testa")
	assert.Contains(t, reply, "hello")

	hosttest.AssertStateField(t, rt, id, "id", string(id))
	hosttest.AssertStateField(t, rt, id, "name", "Testa")
	hosttest.AssertStateField(t, rt, id, "state", "idle")

	require.NoError(t, rt.UpdateAgentContext(id, `{"location":"tavern"}`))
	assert.Error(t, rt.UpdateAgentContext(id, `{"location":`))
}

func TestRuntime_RequiresInit(t *testing.T) {
	rt := hosttest.NewRuntime()

	_, err := rt.CreateAgentFromJSON(hosttest.DefaultAgentJSON)
	var callErr *errors.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestRuntime_ScriptedResponses(t *testing.T) {
	rt := hosttest.NewRuntime()
	rt.RespondFunc = func(id entities.AgentID, input string) string {
		return "scripted"
	}
	id := hosttest.CreateTestAgent(t, rt)

	reply, err := rt.ProcessInput(id, "anything")
	require.NoError(t, err)
	assert.Equal(t, "scripted", reply)
}

func TestRuntime_CreateAgentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keeper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
agent:
  name: "Elara"
  role: "Tavern Keeper"
`), 0o644))

	rt := hosttest.NewRuntime()
	require.NoError(t, rt.Init())

	id, err := rt.CreateAgent(path)
	require.NoError(t, err)
	hosttest.AssertStateField(t, rt, id, "name", "Elara")

	_, err = rt.CreateAgent(filepath.Join(t.TempDir(), "missing.yaml"))
	var callErr *errors.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "create_agent", callErr.Op)
}

func TestRuntime_MemoryRoundTrip(t *testing.T) {
	rt := hosttest.NewRuntime()
	id := hosttest.CreateTestAgent(t, rt)

	require.NoError(t, rt.AddMemory(id, "episodic", "met the player at the gate", 0.6))
	require.NoError(t, rt.AddMemory(id, "semantic", "the king's name is Aldric", 1.0))
	hosttest.AssertMemoryCount(t, rt, id, 2)

	doc, err := rt.MemoriesByCategory(id, "episodic")
	require.NoError(t, err)
	memories := hosttest.DecodeMemories(t, doc)
	require.Len(t, memories, 1)
	assert.Equal(t, "met the player at the gate", memories[0].Content)
	assert.False(t, memories[0].Permanent)

	// Importance 1.0 marks the memory permanent; clear keeps it.
	removed, err := rt.ClearMemories(id)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), removed)
	hosttest.AssertMemoryCount(t, rt, id, 1)

	doc, err = rt.MemoriesByCategory(id, "semantic")
	require.NoError(t, err)
	memories = hosttest.DecodeMemories(t, doc)
	require.Len(t, memories, 1)
	assert.True(t, memories[0].Permanent)

	err = rt.ForgetMemory(id, memories[0].ID)
	var callErr *errors.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Contains(t, err.Error(), "permanent")

	err = rt.ForgetMemory(id, "mem-999")
	require.ErrorAs(t, err, &callErr)
}

func TestRuntime_ClampsScores(t *testing.T) {
	rt := hosttest.NewRuntime()
	id := hosttest.CreateTestAgent(t, rt)

	require.NoError(t, rt.AddEmotionalMemory(id, "emotional", "betrayed by the guard", 1.5, -3.0, 2.0))

	doc, err := rt.MemoriesByCategory(id, "emotional")
	require.NoError(t, err)
	memories := hosttest.DecodeMemories(t, doc)
	require.Len(t, memories, 1)

	assert.Equal(t, 1.0, memories[0].Importance)
	assert.True(t, memories[0].Permanent, "importance at or above 1.0 is permanent")
	assert.Equal(t, -1.0, memories[0].EmotionalValence)
	assert.Equal(t, 1.0, memories[0].EmotionalIntensity)
}

func TestRuntime_RejectsUnknownCategory(t *testing.T) {
	rt := hosttest.NewRuntime()
	id := hosttest.CreateTestAgent(t, rt)

	err := rt.AddMemory(id, "prophetic", "the comet returns", 0.5)
	var callErr *errors.CallError
	require.ErrorAs(t, err, &callErr)

	// Category matching is case-insensitive.
	require.NoError(t, rt.AddMemory(id, "Episodic", "saw the comet", 0.5))
	doc, err := rt.MemoriesByCategory(id, "EPISODIC")
	require.NoError(t, err)
	assert.Len(t, hosttest.DecodeMemories(t, doc), 1)
}

func TestRuntime_CapacityEviction(t *testing.T) {
	rt := hosttest.NewRuntime()
	require.NoError(t, rt.Init())

	id, err := rt.CreateAgentFromJSON(`{
  "agent": {"name": "Testa", "role": "Test Subject"},
  "memory": {"capacity": 2, "short_term_capacity": 1}
}`)
	require.NoError(t, err)

	require.NoError(t, rt.AddMemory(id, "episodic", "first errand", 0.2))
	require.NoError(t, rt.AddMemory(id, "episodic", "second errand", 0.8))
	require.NoError(t, rt.AddMemory(id, "episodic", "third errand", 0.5))
	hosttest.AssertMemoryCount(t, rt, id, 2)

	// The least important memory of the category went first.
	doc, err := rt.MemoriesByCategory(id, "episodic")
	require.NoError(t, err)
	memories := hosttest.DecodeMemories(t, doc)
	contents := []string{memories[0].Content, memories[1].Content}
	assert.NotContains(t, contents, "first errand")
}

func TestRuntime_CapacityFullOfPermanentMemories(t *testing.T) {
	rt := hosttest.NewRuntime()
	require.NoError(t, rt.Init())

	id, err := rt.CreateAgentFromJSON(`{
  "agent": {"name": "Testa", "role": "Test Subject"},
  "memory": {"capacity": 1, "short_term_capacity": 1}
}`)
	require.NoError(t, err)

	require.NoError(t, rt.AddMemory(id, "semantic", "unforgettable oath", 1.0))
	err = rt.AddMemory(id, "semantic", "ordinary fact", 0.4)

	var callErr *errors.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Contains(t, err.Error(), "permanent")

	// A new permanent memory still fits.
	require.NoError(t, rt.AddMemory(id, "semantic", "second oath", 1.0))
	hosttest.AssertMemoryCount(t, rt, id, 2)
}

func TestRuntime_RetrieveRelevantMemories(t *testing.T) {
	rt := hosttest.NewRuntime()
	id := hosttest.CreateTestAgent(t, rt)

	require.NoError(t, rt.AddMemory(id, "episodic", "saw a dragon over the mountain", 0.9))
	require.NoError(t, rt.AddMemory(id, "episodic", "bought bread at the market", 0.3))
	require.NoError(t, rt.AddMemory(id, "semantic", "dragons hoard gold", 0.7))

	doc, err := rt.RetrieveRelevantMemories(id, "dragon", 5)
	require.NoError(t, err)
	memories := hosttest.DecodeMemories(t, doc)
	require.NotEmpty(t, memories)
	assert.Contains(t, memories[0].Content, "dragon")
	for _, m := range memories {
		assert.NotEqual(t, "bought bread at the market", m.Content)
	}

	doc, err = rt.RetrieveRelevantMemories(id, "dragon", 1)
	require.NoError(t, err)
	assert.Len(t, hosttest.DecodeMemories(t, doc), 1)

	doc, err = rt.RetrieveRelevantMemories(id, "dragon", 0)
	require.NoError(t, err)
	assert.Empty(t, hosttest.DecodeMemories(t, doc))
}

func TestRuntime_ForgetMemoriesByCategory(t *testing.T) {
	rt := hosttest.NewRuntime()
	id := hosttest.CreateTestAgent(t, rt)

	require.NoError(t, rt.AddMemory(id, "episodic", "small talk", 0.2))
	require.NoError(t, rt.AddMemory(id, "episodic", "coronation day", 1.0))
	require.NoError(t, rt.AddMemory(id, "semantic", "taxes due in spring", 0.5))

	removed, err := rt.ForgetMemoriesByCategory(id, "episodic")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), removed, "permanent memories survive category forgetting")
	hosttest.AssertMemoryCount(t, rt, id, 2)
}

func TestRuntime_EmotionVector(t *testing.T) {
	rt := hosttest.NewRuntime()
	id := hosttest.CreateTestAgent(t, rt)

	vec, err := rt.EmotionVector(id)
	require.NoError(t, err)
	assert.Equal(t, entities.EmotionVector{}, vec)

	want := entities.EmotionVector{Joy: 0.9, Fear: 0.1}
	rt.SetEmotion(id, want)

	vec, err = rt.EmotionVector(id)
	require.NoError(t, err)
	assert.Equal(t, want, vec)
}

func TestRuntime_UnknownAgent(t *testing.T) {
	rt := hosttest.NewRuntime()
	require.NoError(t, rt.Init())

	_, err := rt.ProcessInput("agent-99", "hello")
	var callErr *errors.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "agent-99", callErr.Agent)

	// Count operations have no failure channel.
	n, err := rt.MemoryCount("agent-99")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), n)

	removed, err := rt.ClearMemories("agent-99")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), removed)
}

func TestRuntime_Close(t *testing.T) {
	rt := hosttest.NewRuntime()
	id := hosttest.CreateTestAgent(t, rt)

	require.NoError(t, rt.Close())
	_, err := rt.ProcessInput(id, "hello")
	assert.ErrorIs(t, err, errors.ErrClosed)
}

func TestRunRuntimeTests_Harness(t *testing.T) {
	factory := func() ports.AgentRuntime { return hosttest.NewRuntime() }

	hosttest.RunRuntimeTests(t, factory, []hosttest.TestCase{
		{
			Name: "memories accumulate",
			Run: func(rt ports.AgentRuntime) error {
				if err := rt.Init(); err != nil {
					return err
				}
				id, err := rt.CreateAgentFromJSON(hosttest.DefaultAgentJSON)
				if err != nil {
					return err
				}
				return rt.AddMemory(id, "episodic", "joined the caravan", 0.5)
			},
			Validate: func(t *testing.T, rt ports.AgentRuntime, err error) {
				if err != nil {
					t.Fatalf("scenario failed: %v", err)
				}
				hosttest.AssertMemoryCount(t, rt, "agent-1", 1)
			},
		},
		{
			Name: "each scenario gets a fresh runtime",
			Run: func(rt ports.AgentRuntime) error {
				return rt.Init()
			},
			Validate: func(t *testing.T, rt ports.AgentRuntime, err error) {
				if err != nil {
					t.Fatalf("scenario failed: %v", err)
				}
				hosttest.AssertMemoryCount(t, rt, "agent-1", 0)
			},
		},
	})
}
