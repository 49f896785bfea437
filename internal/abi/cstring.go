// Package abi provides the low-level value conventions shared by the
// runtime transports: NUL-terminated C string handling for the native
// shared-library ABI, and pointer/length packing for the WebAssembly ABI.
package abi

import (
	"errors"
	"fmt"
	"unicode/utf8"
	"unsafe"
)

// MaxCStringLen bounds how far a C string result is scanned for its NUL
// terminator. A result without a terminator inside this window is treated
// as malformed rather than walking arbitrary process memory.
const MaxCStringLen = 1 << 24 // 16 MiB

// ErrNotTerminated reports a C string with no NUL inside MaxCStringLen.
var ErrNotTerminated = errors.New("string is not NUL-terminated within bounds")

// ErrInvalidUTF8 reports a C string whose bytes are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("string is not valid UTF-8")

// ReadCString copies the NUL-terminated buffer at ptr into host-owned
// memory. It does not validate the encoding and it does not release the
// foreign buffer.
func ReadCString(ptr uintptr) ([]byte, error) {
	if ptr == 0 {
		return nil, errors.New("null string pointer")
	}
	buf := make([]byte, 0, 64)
	for i := 0; i < MaxCStringLen; i++ {
		ch := *(*byte)(unsafe.Pointer(ptr + uintptr(i)))
		if ch == 0 {
			return buf, nil
		}
		buf = append(buf, ch)
	}
	return nil, ErrNotTerminated
}

// Owned is a scoped wrapper for a string buffer the foreign runtime
// allocated and handed over. The contract: the buffer must be released
// through the runtime's free function exactly once, after its bytes have
// been copied out, on every exit path. Use it as
//
//	owned := abi.TakeCString(ptr, table.freeString)
//	defer owned.Release()
//	s, err := owned.String()
//
// so the release happens whether decoding succeeds or fails.
type Owned struct {
	ptr      uintptr
	free     func(uintptr)
	released bool
}

// TakeCString takes ownership of the foreign buffer at ptr. The free
// function is the runtime's designated release entry point.
func TakeCString(ptr uintptr, free func(uintptr)) *Owned {
	return &Owned{ptr: ptr, free: free}
}

// String copies the buffer into a host-owned string and validates that it
// is UTF-8. The copy is taken before Release; calling String after Release
// is a bug and returns an error instead of touching freed memory.
func (o *Owned) String() (string, error) {
	if o.released {
		return "", errors.New("string already released")
	}
	buf, err := ReadCString(o.ptr)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w (%d bytes)", ErrInvalidUTF8, len(buf))
	}
	return string(buf), nil
}

// Release hands the buffer back to the runtime. It is idempotent: the
// second and later calls do nothing, so a defer cannot double-free a
// pointer that was already released on an error path.
func (o *Owned) Release() {
	if o.released || o.ptr == 0 {
		return
	}
	o.released = true
	o.free(o.ptr)
}
