//go:build amd64

package jit

import (
	"reflect"
	"unsafe"

	"github.com/tang-lang/tang/compilectx"
)

// StringConstAddr returns the data pointer and length backing string
// constant idx in cc's intern table, for emitting a literal or a
// Period/LoadLibrary name directly into machine code as an immediate
// address. This relies on cc.StringConstants outliving the compiled
// Program (Program.Create retains the Compiler Context's string table
// rather than copying it into a fresh slice) and on Go's non-moving
// allocator never relocating the string's backing bytes out from under
// the baked-in address.
func StringConstAddr(cc *compilectx.Context, idx int) (uintptr, int) {
	s := cc.StringConstants[idx]
	hdr := (*reflect.StringHeader)(unsafe.Pointer(&s))
	return hdr.Data, hdr.Len
}
