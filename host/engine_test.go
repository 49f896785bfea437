package host

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oxyde-Labs/Oxyde/domain/entities"
	"github.com/Oxyde-Labs/Oxyde/domain/errors"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
	"github.com/Oxyde-Labs/Oxyde/internal/abi"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine wires an engine to a fake library, bypassing the
// filesystem and the real dynamic loader.
func newTestEngine(lib *fakeLibrary, opts ...Option) *Engine {
	base := []Option{
		WithLibraryPath(filepath.Join("testdata", "liboxyde.so")),
		WithLogger(discardLogger()),
	}
	e := NewEngine(append(base, opts...)...)
	e.openLibrary = func(path string) (ports.SharedLibrary, error) {
		return lib, nil
	}
	return e
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine()

	assert.Equal(t, ABIExtended, e.abi)
	assert.NotNil(t, e.logger)
	assert.NotNil(t, e.openLibrary)
	assert.Equal(t, "unloaded", e.State())
	assert.Equal(t, "", e.LibraryPath())
}

func TestEngine_EnsureLoadedBindsOnce(t *testing.T) {
	lib := libraryWith(abi.ExtendedSymbols...)
	e := newTestEngine(lib)

	require.NoError(t, e.EnsureLoaded())
	assert.Equal(t, "bound", e.State())
	assert.Equal(t, "liboxyde.so", filepath.Base(e.LibraryPath()))

	// Idempotent.
	require.NoError(t, e.EnsureLoaded())
	assert.Equal(t, 0, lib.closed)
}

func TestEngine_ConcurrentFirstUseLoadsOnce(t *testing.T) {
	var opens int32
	lib := libraryWith(abi.ExtendedSymbols...)
	e := NewEngine(
		WithLibraryPath(filepath.Join("testdata", "liboxyde.so")),
		WithLogger(discardLogger()),
	)
	e.openLibrary = func(path string) (ports.SharedLibrary, error) {
		atomic.AddInt32(&opens, 1)
		return lib, nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.EnsureLoaded()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
}

func TestEngine_LoadFailureSurfacesPath(t *testing.T) {
	e := NewEngine(
		WithLibraryPath(filepath.Join("testdata", "liboxyde.so")),
		WithLogger(discardLogger()),
	)
	e.openLibrary = func(path string) (ports.SharedLibrary, error) {
		return nil, fmt.Errorf("cannot open shared object file")
	}

	err := e.EnsureLoaded()
	var loadErr *errors.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "liboxyde.so")
	assert.Contains(t, err.Error(), "cannot open shared object file")
	assert.Equal(t, "unloaded", e.State())
}

func TestEngine_FailedBindIsRetryable(t *testing.T) {
	e := newTestEngine(libraryWith(abi.SymInit, abi.SymFreeString))

	err := e.EnsureLoaded()
	var bindErr *errors.BindError
	require.ErrorAs(t, err, &bindErr)
	assert.NotEmpty(t, bindErr.Missing)
	assert.Equal(t, "unloaded", e.State())

	// A corrected runtime on the same path binds on the next attempt.
	full := libraryWith(abi.ExtendedSymbols...)
	e.openLibrary = func(path string) (ports.SharedLibrary, error) {
		return full, nil
	}
	require.NoError(t, e.EnsureLoaded())
	assert.Equal(t, "bound", e.State())
}

func TestEngine_BindFailureLogsEveryMissingSymbol(t *testing.T) {
	var buf bytes.Buffer
	lib := libraryWith(abi.MinimalSymbols...)
	e := newTestEngine(lib, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	err := e.EnsureLoaded()
	require.Error(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "failed to bind agent runtime")
	assert.Contains(t, logged, abi.SymCreateAgentFromJSON)
	assert.Contains(t, logged, abi.SymForgetMemoriesByCategory)
}

func TestEngine_ABISelectionFlowsToBind(t *testing.T) {
	e := newTestEngine(libraryWith(abi.MinimalSymbols...), WithABI(ABIMinimal))

	require.NoError(t, e.EnsureLoaded())

	// The minimal shape has no memory surface.
	err := e.AddMemory("npc-1", entities.MemoryEpisodic, "met the player", 0.5)
	assert.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestEngine_CloseIsIdempotent(t *testing.T) {
	lib := libraryWith(abi.ExtendedSymbols...)
	e := newTestEngine(lib)
	require.NoError(t, e.EnsureLoaded())

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.Equal(t, 1, lib.closed)
	assert.Equal(t, "unloaded", e.State())

	err := e.Init()
	assert.ErrorIs(t, err, errors.ErrClosed)
	_, err = e.ProcessInput("npc-1", "hello")
	assert.ErrorIs(t, err, errors.ErrClosed)
}

func TestEngine_CloseBeforeFirstLoad(t *testing.T) {
	e := newTestEngine(libraryWith(abi.ExtendedSymbols...))

	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.EnsureLoaded(), errors.ErrClosed)
}

func TestEngine_OpsDelegateToBoundTable(t *testing.T) {
	arena := newArena()
	e := NewEngine(WithLogger(discardLogger()))
	e.bound.Store(extTable(&extendedTable{
		processInput: func(agentID, input string) uintptr {
			return arena.cstring("as you say, " + input)
		},
		getMemoryCount: func(agentID string) uint32 { return 7 },
		freeString:     arena.free,
	}))

	out, err := e.ProcessInput("npc-1", "friend")
	require.NoError(t, err)
	assert.Equal(t, "as you say, friend", out)
	assert.Equal(t, 1, arena.totalFrees())

	n, err := e.MemoryCount("npc-1")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), n)
}
