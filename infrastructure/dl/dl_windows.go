//go:build windows

package dl

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func openLibrary(path string) (uintptr, error) {
	// LOAD_WITH_ALTERED_SEARCH_PATH so DLLs shipped next to the runtime
	// resolve from its own directory, not the host executable's.
	handle, err := windows.LoadLibraryEx(path, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return 0, fmt.Errorf("LoadLibrary %s: %w", path, err)
	}
	return uintptr(handle), nil
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	addr, err := windows.GetProcAddress(windows.Handle(handle), name)
	if err != nil {
		return 0, fmt.Errorf("GetProcAddress %s: %w", name, err)
	}
	return addr, nil
}

func closeLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	if err := windows.FreeLibrary(windows.Handle(handle)); err != nil {
		return fmt.Errorf("FreeLibrary: %w", err)
	}
	return nil
}
