package abi

// PtrHighBits is the bit offset of the pointer half of a packed
// pointer/length value.
const PtrHighBits = 32

// PackPtrLen packs a WebAssembly linear-memory pointer and a length into a
// single uint64: pointer in the high 32 bits, length in the low 32 bits.
// A packed value of 0 is the runtime's failure sentinel.
func PackPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << PtrHighBits) | uint64(length)
}

// UnpackPtrLen splits a packed uint64 into its pointer and length halves.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	return uint32(packed >> PtrHighBits), uint32(packed)
}
