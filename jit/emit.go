//go:build amd64

package jit

import (
	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
)

// Every Emit* helper below targets a runtime trampoline whose underlying
// Go function takes the Execution Context first (System V AMD64: RDI),
// matching every rtXxx signature in runtime.go. Each helper copies any
// value it needs out of RAX into its final argument register *before*
// clobbering RAX with the trampoline's address, then brackets the call
// with AlignStackForCall/UnalignStack per §4.7's alignment discipline.

// EmitIntegerLiteral emits `mov rdi, r15; mov rsi, imm64; call
// <integer-create>`, leaving the new Integer in RAX (§4.7's
// representative Integer-literal sequence).
func EmitIntegerLiteral(cc *compilectx.Context, v int64) {
	e := New(cc)
	e.MovRegReg(RDI, R15)
	e.MovRegImm64(RSI, uint64(v))
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrCreateInt))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitFloatLiteral emits the float-literal sequence from §4.7: the bit
// pattern crosses to rtCreateFloat as a raw uint64, converted back to a
// float64 on the Go side, rather than an x87/SSE move the interpreter
// side never needs to inspect.
func EmitFloatLiteral(cc *compilectx.Context, bits uint64) {
	e := New(cc)
	e.MovRegReg(RDI, R15)
	e.MovRegImm64(RSI, bits)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrCreateFloat))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitBooleanLiteral emits a call to the true/false singleton-returning
// trampoline (§4.7: "mov rax, <addr of true/false singleton>").
func EmitBooleanLiteral(cc *compilectx.Context, v bool) {
	e := New(cc)
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	if v {
		e.MovRegImm64(RAX, uint64(addrTrue))
	} else {
		e.MovRegImm64(RAX, uint64(addrFalse))
	}
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitNullLiteral loads the Null singleton into RAX.
func EmitNullLiteral(cc *compilectx.Context) {
	e := New(cc)
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrNull))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitStringLiteral emits the string-literal sequence from §4.7; ptr and
// length identify a string constant the Program keeps alive for the
// run's duration.
func EmitStringLiteral(cc *compilectx.Context, ptr uintptr, length int) {
	e := New(cc)
	e.MovRegReg(RDI, R15)
	e.MovRegImm64(RSI, uint64(ptr))
	e.MovRegImm64(RDX, uint64(length))
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrCreateString))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitUnary assumes the operand is already compiled into RAX; it calls
// the shared unary-op trampoline with (ctx, op, operand) (§4.7).
func EmitUnary(cc *compilectx.Context, op bytecode.Opcode) {
	e := New(cc)
	e.MovRegReg(RDX, RAX)
	e.MovRegImm64(RSI, uint64(op))
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrUnaryOp))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitBinaryOpCall assumes lhs is already on the native stack (pushed by
// the caller after compiling it, see PushOperand) and rhs is in RAX; it
// calls the shared binary-op trampoline with (ctx, op, lhs, rhs) (§4.7's
// Binary sequence).
func EmitBinaryOpCall(cc *compilectx.Context, op bytecode.Opcode) {
	e := New(cc)
	e.MovRegReg(RCX, RAX)
	e.Pop(RDX)
	e.MovRegImm64(RSI, uint64(op))
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrBinaryOp))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitIndexCall mirrors EmitBinaryOpCall's shape for Index: the receiver
// is pushed on the native stack, the index expression result sits in
// RAX; calls (ctx, receiver, idx).
func EmitIndexCall(cc *compilectx.Context) {
	e := New(cc)
	e.MovRegReg(RDX, RAX)
	e.Pop(RSI)
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrIndex))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitPeriodCall compiles a Period (attribute) access: the receiver is
// already on the native stack; calls (ctx, receiver, namePtr, nameLen).
func EmitPeriodCall(cc *compilectx.Context, ptr uintptr, length int) {
	e := New(cc)
	e.Pop(RSI)
	e.MovRegImm64(RDX, uint64(ptr))
	e.MovRegImm64(RCX, uint64(length))
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrPeriod))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitBreakOrContinue emits `mov rax, <null singleton>; jmp
// <break/continue label>` with the jump site recorded against label for
// PatchAll.
func EmitBreakOrContinue(cc *compilectx.Context, label compilectx.Label) {
	EmitNullLiteral(cc)
	New(cc).JmpRel32(label)
}

// PushOperand pushes RAX onto the native stack so a subsequent operand
// can be compiled into RAX without clobbering the first (used by Binary
// and Index emission between compiling lhs/receiver and rhs/index).
func PushOperand(cc *compilectx.Context) { New(cc).Push(RAX) }

// EmitPeekLocal/EmitPokeLocal/EmitPeekGlobal/EmitPokeGlobal compile
// variable access by calling back into the same Go-side accessors the
// bytecode VM's PEEK_LOCAL/POKE_LOCAL/PEEK_GLOBAL/POKE_GLOBAL handlers
// use (see runtime.go's doc comment on rtPeekLocal) rather than
// hand-encoding frame-relative loads against ctx.Stack's Go slice
// header. EmitPokeLocal/EmitPokeGlobal assume the value to store is
// already in RAX and leave it there afterward, matching
// assignment-as-expression.
func EmitPeekLocal(cc *compilectx.Context, offset int) {
	e := New(cc)
	e.MovRegImm64(RSI, uint64(offset))
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrPeekLocal))
	e.CallReg(RAX)
	e.UnalignStack()
}

func EmitPokeLocal(cc *compilectx.Context, offset int) {
	e := New(cc)
	e.MovRegReg(RDX, RAX)
	e.MovRegImm64(RSI, uint64(offset))
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrPokeLocal))
	e.CallReg(RAX)
	e.UnalignStack()
	e.MovRegReg(RAX, RDX)
}

func EmitPeekGlobal(cc *compilectx.Context, offset int) {
	e := New(cc)
	e.MovRegImm64(RSI, uint64(offset))
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrPeekGlobal))
	e.CallReg(RAX)
	e.UnalignStack()
}

func EmitPokeGlobal(cc *compilectx.Context, offset int) {
	e := New(cc)
	e.MovRegReg(RDX, RAX)
	e.MovRegImm64(RSI, uint64(offset))
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrPokeGlobal))
	e.CallReg(RAX)
	e.UnalignStack()
	e.MovRegReg(RAX, RDX)
}

// EmitLoadLibrary compiles a LOAD_LIBRARY reference, calling
// rtLoadLibrary with (ctx, namePtr, nameLen).
func EmitLoadLibrary(cc *compilectx.Context, ptr uintptr, length int) {
	e := New(cc)
	e.MovRegImm64(RSI, uint64(ptr))
	e.MovRegImm64(RDX, uint64(length))
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrLoadLibrary))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitPrint compiles a print statement, calling rtPrint with (ctx,
// value), the value already computed in RAX.
func EmitPrint(cc *compilectx.Context) {
	e := New(cc)
	e.MovRegReg(RSI, RAX)
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrPrint))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitStoreResult compiles the native program's exit point: the value
// already computed in RAX (either an explicit `return`'s expression, or
// whatever the program's last statement left behind) is handed to
// rtReturn so Program.Execute can read it back off ctx.Result once the
// entry call returns (§3.5). Every CompileToNative caller arranges for
// control to reach cc.ReturnLabel with its result in RAX before this
// runs; see Return.CompileToNative and the top-level Program compile
// driver.
func EmitStoreResult(cc *compilectx.Context) {
	e := New(cc)
	e.MovRegReg(RSI, RAX)
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrReturn))
	e.CallReg(RAX)
	e.UnalignStack()
}

// EmitJumpIfFalsy calls rtTruthy on the value already in RAX and emits a
// conditional jump to label when it reports falsy — the native
// equivalent of the bytecode JMPF instruction, backing If condition
// tests.
func EmitJumpIfFalsy(cc *compilectx.Context, label compilectx.Label) {
	e := New(cc)
	e.MovRegReg(RSI, RAX)
	e.MovRegReg(RDI, R15)
	e.AlignStackForCall()
	e.MovRegImm64(RAX, uint64(addrTruthy))
	e.CallReg(RAX)
	e.UnalignStack()
	e.TestRegReg(RAX, RAX)
	e.JccRel32(JZ, label)
}
