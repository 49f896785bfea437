// Package dl is the infrastructure adapter for platform dynamic loading.
// It maps shared objects into the process and resolves their exported
// symbols: dlopen/dlsym/dlclose on POSIX systems,
// LoadLibrary/GetProcAddress/FreeLibrary on Windows.
package dl

// Library is an open shared object. It implements ports.SharedLibrary.
type Library struct {
	handle uintptr
}

// Open maps the shared object at path into the process. The path should be
// absolute; relative paths are resolved by the OS loader's own rules.
func Open(path string) (*Library, error) {
	handle, err := openLibrary(path)
	if err != nil {
		return nil, err
	}
	return &Library{handle: handle}, nil
}

// Lookup resolves an exported symbol to its address.
func (l *Library) Lookup(name string) (uintptr, error) {
	return lookupSymbol(l.handle, name)
}

// Close releases the shared object from this process.
func (l *Library) Close() error {
	return closeLibrary(l.handle)
}
