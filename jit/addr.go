//go:build amd64

package jit

import "unsafe"

// entryAddr returns the address of mem's first byte as a callable
// function pointer value. Isolated in its own file since it's the one
// line of genuinely unsafe pointer arithmetic this package needs (§9,
// "Design Notes": "the executable-page acquisition step... is the one
// genuinely unsafe operation").
func entryAddr(mem []byte) uintptr {
	return uintptr(unsafe.Pointer(&mem[0]))
}
