//go:build amd64

package jit

import (
	"reflect"

	"github.com/tang-lang/tang/value"
)

// The JIT emits `call` instructions whose targets are the addresses
// below. Each is a hand-written Plan9 assembly stub (trampoline_amd64.s)
// using Go's stable, stack-based ABI0 convention rather than the
// register-based ABIInternal convention ordinary Go functions compile to
// — a pure-assembly TEXT symbol has no ABIInternal wrapper generated for
// it, so reflect.ValueOf(fn).Pointer() below yields a genuine, stable
// entry point the JIT can `call` directly. Emitted code pushes arguments
// in reverse order (cdecl-style) before `call`, matching each stub's
// frame layout; every stub pops its arguments from the native stack, sets
// up the Go ABIInternal call into the corresponding rtXxx function
// declared below, and returns its result in RAX.
// rtCreateIntTrampoline etc. are implemented in trampoline_amd64.s; they
// have no Go body, only a declaration, so the linker emits them as plain
// ABI0 TEXT symbols.
func rtNullTrampoline()
func rtTrueTrampoline()
func rtFalseTrampoline()
func rtCreateIntTrampoline()
func rtCreateFloatTrampoline()
func rtCreateStringTrampoline()
func rtBinaryOpTrampoline()
func rtUnaryOpTrampoline()
func rtIndexTrampoline()
func rtPeriodTrampoline()
func rtCallTrampoline()
func rtPeekLocalTrampoline()
func rtPokeLocalTrampoline()
func rtPeekGlobalTrampoline()
func rtPokeGlobalTrampoline()
func rtLoadLibraryTrampoline()
func rtPrintTrampoline()
func rtTruthyTrampoline()
func rtReturnTrampoline()

var (
	addrNull         = funcAddr(rtNullTrampoline)
	addrTrue         = funcAddr(rtTrueTrampoline)
	addrFalse        = funcAddr(rtFalseTrampoline)
	addrCreateInt    = funcAddr(rtCreateIntTrampoline)
	addrCreateFloat  = funcAddr(rtCreateFloatTrampoline)
	addrCreateString = funcAddr(rtCreateStringTrampoline)
	addrBinaryOp     = funcAddr(rtBinaryOpTrampoline)
	addrUnaryOp      = funcAddr(rtUnaryOpTrampoline)
	addrIndex        = funcAddr(rtIndexTrampoline)
	addrPeriod       = funcAddr(rtPeriodTrampoline)
	addrCall         = funcAddr(rtCallTrampoline)
	addrPeekLocal    = funcAddr(rtPeekLocalTrampoline)
	addrPokeLocal    = funcAddr(rtPokeLocalTrampoline)
	addrPeekGlobal   = funcAddr(rtPeekGlobalTrampoline)
	addrPokeGlobal   = funcAddr(rtPokeGlobalTrampoline)
	addrLoadLibrary  = funcAddr(rtLoadLibraryTrampoline)
	addrPrint        = funcAddr(rtPrintTrampoline)
	addrTruthy       = funcAddr(rtTruthyTrampoline)
	addrReturn       = funcAddr(rtReturnTrampoline)
)

func funcAddr(fn interface{}) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// rtCreateInt, rtCreateFloat and rtCreateString wrap the Value Kernel's
// integer/float/string constructors behind the argument shape the JIT's
// literal-emission sequences expect (§4.7): context pointer
// plus one payload argument (or two, for a string's pointer+length).
func rtNull(*value.Context) value.Value { return value.Null }

func rtTrue(*value.Context) value.Value { return value.NewBoolean(true) }

func rtFalse(*value.Context) value.Value { return value.NewBoolean(false) }

func rtCreateInt(ctx *value.Context, v int64) value.Value {
	return value.NewInteger(ctx, v)
}

func rtCreateFloat(ctx *value.Context, bits uint64) value.Value {
	return value.NewFloat(ctx, floatFromBits(bits))
}

func rtCreateString(ctx *value.Context, ptr uintptr, length int) value.Value {
	s := bytesFromPtr(ptr, length)
	return value.NewString(ctx, s, 0)
}

// rtBinaryOp and rtUnaryOp dispatch a compiled-in opcode against two (or
// one) operands — the JIT's generalized stand-in for emitting one call
// target per arithmetic/comparison operator, collapsing §4.7's per-op
// examples (ADD, SUB, LT, ...) into a single trampoline parameterized by
// opcode, the same way the bytecode VM's dispatch loop switches on opcode
// rather than calling a different native function per operator.
func rtBinaryOp(ctx *value.Context, op int, lhs, rhs value.Value) value.Value {
	return dispatchBinary(op, lhs, rhs, ctx)
}

func rtUnaryOp(ctx *value.Context, op int, operand value.Value) value.Value {
	return dispatchUnary(op, operand, ctx)
}

func rtIndex(ctx *value.Context, receiver, idx value.Value) value.Value {
	return receiver.Index(idx, ctx)
}

func rtPeriod(ctx *value.Context, receiver value.Value, namePtr uintptr, nameLen int) value.Value {
	return receiver.Period(bytesFromPtr(namePtr, nameLen), ctx)
}

func rtCall(ctx *value.Context, fn value.Value, argsPtr uintptr, argc int) value.Value {
	args := make([]value.Value, argc)
	// argsPtr points at an array of value.Value interface words the JIT
	// spilled to the native stack before the call; copying them into a Go
	// slice here keeps the unsafe pointer arithmetic confined to
	// bytesFromPtr/argsFromPtr rather than scattered through the emitter.
	copy(args, argsFromPtr(argsPtr, argc))
	return fn.Call(args, ctx)
}

// rtPeekLocal/rtPokeLocal/rtPeekGlobal/rtPokeGlobal back the native
// path's variable access: rather than hand-encoding frame-relative
// memory loads against ctx.Stack's Go slice header (fragile across any
// future change to Context's layout), native code calls back into Go
// helpers that apply the same frame-relative stack and global-slot
// logic as the bytecode VM's PEEK_LOCAL/POKE_LOCAL/PEEK_GLOBAL/
// POKE_GLOBAL handlers.
func rtPeekLocal(ctx *value.Context, offset int) value.Value {
	idx := ctx.FP + offset
	if idx < 0 || idx >= len(ctx.Stack) {
		return value.Null
	}
	return ctx.Stack[idx]
}

func rtPokeLocal(ctx *value.Context, offset int, v value.Value) {
	idx := ctx.FP + offset
	for len(ctx.Stack) <= idx {
		ctx.Stack = append(ctx.Stack, value.Null)
	}
	ctx.Stack[idx] = v
}

func rtPeekGlobal(ctx *value.Context, offset int) value.Value {
	return ctx.PeekGlobal(offset)
}

func rtPokeGlobal(ctx *value.Context, offset int, v value.Value) {
	ctx.PokeGlobal(offset, v)
}

func rtLoadLibrary(ctx *value.Context, namePtr uintptr, nameLen int) value.Value {
	name := bytesFromPtr(namePtr, nameLen)
	if v, ok := ctx.Globals[name]; ok {
		return v
	}
	return value.NotImplemented(ctx)
}

func rtPrint(ctx *value.Context, v value.Value) value.Value {
	return v.Print(ctx)
}

// rtTruthy backs If condition tests on the native path: a
// condition's truthiness is read from the same Flags().IsTrue bit the
// Boolean true singleton carries (§3.1), not a type switch, so any value
// a future library adds that sets the bit reads as truthy without the
// JIT needing to know about it. Returns 0/1 rather than bool so the
// trampoline's return value lands in RAX as a plain integer the emitted
// test/jcc sequence can branch on directly.
func rtTruthy(_ *value.Context, v value.Value) int64 {
	if v.Flags().IsTrue {
		return 1
	}
	return 0
}

// rtReturn stores the native program's final value on ctx.Result. A
// compiled-to-native Program has no Go-side call frame to return an
// interface value through (the entry point is invoked by program.callNative,
// a bare asm stub with no result-marshalling of its own), so every path
// that would otherwise hand a value back to the caller — an explicit
// `return`, or simply falling off the end of the program — converges on
// cc.ReturnLabel and calls this instead (§3.5, "context.result").
func rtReturn(ctx *value.Context, v value.Value) value.Value {
	ctx.Result = v
	return v
}
