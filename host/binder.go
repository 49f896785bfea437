package host

import (
	"github.com/ebitengine/purego"

	"github.com/Oxyde-Labs/Oxyde/domain/errors"
	"github.com/Oxyde-Labs/Oxyde/domain/ports"
	"github.com/Oxyde-Labs/Oxyde/internal/abi"
)

// bind resolves the symbol set of one ABI shape against a loaded library
// and registers it into a typed call table.
//
// Binding is atomic: if any symbol fails to resolve, no registration
// happens, the library handle is closed so the process returns to the
// unloaded state, and the BindError names every missing symbol.
func bind(lib ports.SharedLibrary, shape ABI, library string) (*symbolTable, error) {
	names := abi.ExtendedSymbols
	if shape == ABIMinimal {
		names = abi.MinimalSymbols
	}

	addrs, missing := resolveSymbols(lib, names)
	if len(missing) > 0 {
		_ = lib.Close()
		return nil, &errors.BindError{Library: library, Missing: missing}
	}

	table := &symbolTable{abi: shape}
	if shape == ABIMinimal {
		table.min = newMinimalTable(addrs)
	} else {
		table.ext = newExtendedTable(addrs)
	}
	return table, nil
}

// resolveSymbols looks up every name and reports the full list of misses,
// not just the first, so an ABI mismatch is diagnosable in one attempt.
func resolveSymbols(lib ports.SharedLibrary, names []string) (map[string]uintptr, []string) {
	addrs := make(map[string]uintptr, len(names))
	var missing []string
	for _, name := range names {
		addr, err := lib.Lookup(name)
		if err != nil || addr == 0 {
			missing = append(missing, name)
			continue
		}
		addrs[name] = addr
	}
	return addrs, missing
}

func newMinimalTable(addrs map[string]uintptr) *minimalTable {
	t := &minimalTable{}
	registerFunc(&t.init, addrs[abi.SymInit])
	registerFunc(&t.createAgent, addrs[abi.SymCreateAgent])
	registerFunc(&t.updateAgentContext, addrs[abi.SymUpdateAgentContext])
	registerFunc(&t.processInput, addrs[abi.SymProcessInput])
	registerFunc(&t.getAgentState, addrs[abi.SymGetAgentState])
	registerFunc(&t.getEmotionVector, addrs[abi.SymGetEmotionVector])
	registerFunc(&t.freeString, addrs[abi.SymFreeString])
	return t
}

func newExtendedTable(addrs map[string]uintptr) *extendedTable {
	t := &extendedTable{}
	registerFunc(&t.init, addrs[abi.SymInit])
	registerFunc(&t.createAgent, addrs[abi.SymCreateAgent])
	registerFunc(&t.createAgentFromJSON, addrs[abi.SymCreateAgentFromJSON])
	registerFunc(&t.updateAgentContext, addrs[abi.SymUpdateAgentContext])
	registerFunc(&t.processInput, addrs[abi.SymProcessInput])
	registerFunc(&t.getAgentState, addrs[abi.SymGetAgentState])
	registerFunc(&t.getEmotionVector, addrs[abi.SymGetEmotionVector])
	registerFunc(&t.freeString, addrs[abi.SymFreeString])
	registerFunc(&t.addMemory, addrs[abi.SymAddMemory])
	registerFunc(&t.addEmotionalMemory, addrs[abi.SymAddEmotionalMemory])
	registerFunc(&t.getMemoryCount, addrs[abi.SymGetMemoryCount])
	registerFunc(&t.clearMemories, addrs[abi.SymClearMemories])
	registerFunc(&t.getMemoriesByCategory, addrs[abi.SymGetMemoriesByCategory])
	registerFunc(&t.retrieveRelevantMemories, addrs[abi.SymRetrieveRelevantMemories])
	registerFunc(&t.forgetMemory, addrs[abi.SymForgetMemory])
	registerFunc(&t.forgetMemoriesByCategory, addrs[abi.SymForgetMemoriesByCategory])
	return t
}

// registerFunc registers the given function at the address. purego converts
// string arguments to C strings valid for the duration of the call, which
// is exactly the lifetime the runtime ABI grants borrowed text.
func registerFunc(fnPtr any, addr uintptr) {
	purego.RegisterFunc(fnPtr, addr)
}
