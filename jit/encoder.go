//go:build amd64

// Package jit implements Tang's x86-64 native-code emitter (§4.7). It
// shares the Compiler Context and label discipline with the bytecode
// compiler; ast.Node.CompileToNative calls the helpers here to append
// machine instructions to a Context's Native byte buffer, leaving the
// produced Value in RAX on exit, exactly as the bytecode path leaves it
// on the evaluation stack.
//
// Encoding follows the conventions named in §4.7: RAX holds the current
// value, R15 is pinned to the Execution Context pointer for the program's
// duration, and external Value-Kernel calls use the System V AMD64 ABI
// (RDI/RSI/RDX/RCX/R8/R9) with RSP 16-byte aligned across the call.
package jit

import "github.com/tang-lang/tang/compilectx"

// Reg identifies a general-purpose x86-64 register by its ModR/M number
// (0-7 for the legacy set, 8-15 for the REX-extended set).
type Reg int

//nolint:revive
const (
	RAX Reg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

// needsREX reports whether encoding r requires a REX prefix bit (true for
// the extended R8-R15 register file).
func needsREX(r Reg) bool { return r >= R8 }

func modrm(mod, reg, rm Reg) byte {
	return byte(int(mod)<<6 | (int(reg)&7)<<3 | (int(rm) & 7))
}

func rex(w bool, r, x, b Reg) byte {
	v := byte(0x40)
	if w {
		v |= 0x08
	}
	if needsREX(r) {
		v |= 0x04
	}
	if needsREX(x) {
		v |= 0x02
	}
	if needsREX(b) {
		v |= 0x01
	}
	return v
}

// Emitter appends encoded instructions to a Compiler Context's Native
// buffer and keeps its StackDepth counter in step with Push and Pop.
type Emitter struct {
	cc *compilectx.Context
}

// New wraps cc for native emission.
func New(cc *compilectx.Context) *Emitter { return &Emitter{cc: cc} }

func (e *Emitter) emit(bytes ...byte) {
	e.cc.Native = append(e.cc.Native, bytes...)
}

func le32(v int32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

// MovRegImm64 encodes `movabs dst, imm64`.
func (e *Emitter) MovRegImm64(dst Reg, imm uint64) {
	e.emit(rex(true, 0, 0, dst), 0xB8+byte(dst&7))
	e.emit(le64(imm)...)
}

// MovRegReg encodes `mov dst, src` (64-bit).
func (e *Emitter) MovRegReg(dst, src Reg) {
	e.emit(rex(true, src, 0, dst), 0x89, modrm(3, src, dst))
}

// MovRegMem encodes `mov dst, [src+disp]`.
func (e *Emitter) MovRegMem(dst, src Reg, disp int32) {
	e.emit(rex(true, dst, 0, src), 0x8B)
	e.emitModRMDisp(dst, src, disp)
}

// MovMemReg encodes `mov [dst+disp], src`.
func (e *Emitter) MovMemReg(dst Reg, disp int32, src Reg) {
	e.emit(rex(true, src, 0, dst), 0x89)
	e.emitModRMDisp(src, dst, disp)
}

func (e *Emitter) emitModRMDisp(reg, base Reg, disp int32) {
	switch {
	case disp == 0 && base&7 != RBP&7:
		e.emit(modrm(0, reg, base))
	case disp >= -128 && disp <= 127:
		e.emit(modrm(1, reg, base), byte(disp))
	default:
		e.emit(modrm(2, reg, base))
		e.emit(le32(disp)...)
	}
}

// Push encodes `push reg`.
func (e *Emitter) Push(r Reg) {
	if needsREX(r) {
		e.emit(0x41)
	}
	e.emit(0x50 + byte(r&7))
	e.cc.StackDepth++
}

// Pop encodes `pop reg`.
func (e *Emitter) Pop(r Reg) {
	if needsREX(r) {
		e.emit(0x41)
	}
	e.emit(0x58 + byte(r&7))
	e.cc.StackDepth--
}

// Lea encodes `lea dst, [src+disp]`.
func (e *Emitter) Lea(dst, src Reg, disp int32) {
	e.emit(rex(true, dst, 0, src), 0x8D)
	e.emitModRMDisp(dst, src, disp)
}

// AndRegImm32 encodes `and dst, imm32` (used to mask RSP to 16-byte
// alignment: AndRegImm32(RSP, -16)).
func (e *Emitter) AndRegImm32(dst Reg, imm int32) {
	e.emit(rex(true, 0, 0, dst), 0x81, modrm(3, 4, dst))
	e.emit(le32(imm)...)
}

func (e *Emitter) arithRegReg(opReg byte, dst, src Reg) {
	e.emit(rex(true, src, 0, dst), opReg, modrm(3, src, dst))
}

// AddRegReg encodes `add dst, src`.
func (e *Emitter) AddRegReg(dst, src Reg) { e.arithRegReg(0x01, dst, src) }

// SubRegReg encodes `sub dst, src`.
func (e *Emitter) SubRegReg(dst, src Reg) { e.arithRegReg(0x29, dst, src) }

// XorRegReg encodes `xor dst, src`.
func (e *Emitter) XorRegReg(dst, src Reg) { e.arithRegReg(0x31, dst, src) }

// CmpRegReg encodes `cmp dst, src`.
func (e *Emitter) CmpRegReg(dst, src Reg) { e.arithRegReg(0x39, dst, src) }

// TestRegReg encodes `test dst, src`.
func (e *Emitter) TestRegReg(dst, src Reg) { e.arithRegReg(0x85, dst, src) }

// CallReg encodes `call reg`.
func (e *Emitter) CallReg(r Reg) {
	if needsREX(r) {
		e.emit(0x41)
	}
	e.emit(0xFF, modrm(3, 2, r))
}

// Ret encodes `ret`.
func (e *Emitter) Ret() { e.emit(0xC3) }

// Leave encodes `leave`.
func (e *Emitter) Leave() { e.emit(0xC9) }

// JmpRel32 emits an unconditional jump with a placeholder rel32 operand,
// recording the operand's byte offset as a jump site against label so
// PatchAll fills it in once the label resolves.
func (e *Emitter) JmpRel32(label compilectx.Label) {
	e.emit(0xE9)
	off := len(e.cc.Native)
	e.emit(0, 0, 0, 0)
	e.cc.AddLabelJumpNative(label, off)
}

// Jcc identifies a conditional jump by the second byte of its two-byte
// 0x0F 0x8x opcode.
type Jcc byte

//nolint:revive
const (
	JE  Jcc = 0x84
	JNE Jcc = 0x85
	JZ  Jcc = 0x84
	JNZ Jcc = 0x85
)

// JccRel32 emits a conditional jump with a placeholder rel32 operand,
// recording the jump site against label.
func (e *Emitter) JccRel32(cc Jcc, label compilectx.Label) {
	e.emit(0x0F, byte(cc))
	off := len(e.cc.Native)
	e.emit(0, 0, 0, 0)
	e.cc.AddLabelJumpNative(label, off)
}

// MovqXmmReg encodes `movq xmm0, src` (GP-to-XMM move, used to load a
// float64 bit pattern computed in a GP register into XMM0 for the
// Value-Kernel float-create call).
func (e *Emitter) MovqXmmReg(src Reg) {
	e.emit(0x66, rex(true, 0, 0, src), 0x0F, 0x6E, modrm(3, 0, src))
}

// AlignStackForCall saves RBP, copies RSP into RBP, then masks RSP to
// 16-byte alignment — the prologue every external Value-Kernel call needs
// per §4.7. UnalignStack is its matching epilogue.
func (e *Emitter) AlignStackForCall() {
	e.Push(RBP)
	e.MovRegReg(RBP, RSP)
	e.AndRegImm32(RSP, -16)
}

// UnalignStack restores RSP/RBP after a call made under AlignStackForCall.
func (e *Emitter) UnalignStack() {
	e.MovRegReg(RSP, RBP)
	e.Pop(RBP)
}
