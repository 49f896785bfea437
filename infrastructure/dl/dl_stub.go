//go:build !windows && !darwin && !freebsd && !linux && !netbsd

package dl

import "errors"

var errUnsupported = errors.New("dynamic library loading is not supported on this platform")

func openLibrary(string) (uintptr, error) {
	return 0, errUnsupported
}

func lookupSymbol(uintptr, string) (uintptr, error) {
	return 0, errUnsupported
}

func closeLibrary(uintptr) error {
	return nil
}
