package ports

// SharedLibrary abstracts a platform shared object mapped into the process.
// Implementations wrap dlopen/dlsym on POSIX systems and
// LoadLibrary/GetProcAddress on Windows.
type SharedLibrary interface {
	// Lookup resolves an exported symbol to its address. It returns an
	// error when the symbol is absent; it never returns a zero address
	// with a nil error.
	Lookup(name string) (uintptr, error)

	// Close unmaps the library from the process. The handle and every
	// address resolved from it are invalid afterwards.
	Close() error
}
