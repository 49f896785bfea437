//go:build darwin || freebsd || linux || netbsd

package dl

import (
	"fmt"

	"github.com/ebitengine/purego"
)

func openLibrary(path string) (uintptr, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("dlopen %s: %w", path, err)
	}
	if handle == 0 {
		return 0, fmt.Errorf("dlopen %s: nil handle", path)
	}
	return handle, nil
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	addr, err := purego.Dlsym(handle, name)
	if err != nil {
		return 0, fmt.Errorf("dlsym %s: %w", name, err)
	}
	return addr, nil
}

func closeLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	if err := purego.Dlclose(handle); err != nil {
		return fmt.Errorf("dlclose: %w", err)
	}
	return nil
}
