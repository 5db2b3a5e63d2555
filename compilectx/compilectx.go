// Package compilectx implements the Compiler Context (§4.4): the state
// shared by both the bytecode compiler and the x86-64 JIT emitter, chiefly
// the label/jump-patching discipline that lets a single pass emit forward
// jumps before their targets are known.
package compilectx

import (
	"fmt"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/scope"
	"github.com/tang-lang/tang/value"
)

// Label is an opaque integer token identifying a jump target.
type Label int

// jumpSite is a single recorded reference to a label that needs patching
// once the label's target is known. Exactly one of the two offsets is
// meaningful, selected by which emission path recorded it.
type jumpSite struct {
	bytecodeCellOffset int // index into Bytecode where the JMP immediate lives
	nativeByteOffset   int // byte offset into Native where a rel32 lives
	native             bool
}

type labelState struct {
	sites    []jumpSite
	target   int
	resolved bool
}

// Context is the Compiler Context. Each compile pass starts from its own
// instance: compiler.CompileBytecode and compiler.CompileNative each
// call New, so the bytecode and native passes have separate label
// numbering spaces.
type Context struct {
	labels    []labelState
	nextLabel Label

	// BreakLabel, ContinueLabel, ReturnLabel are the three standard
	// labels pre-allocated at construction (§4.4). Loop nodes save and
	// restore BreakLabel/ContinueLabel around their own fresh labels to
	// implement nested, labelled control flow.
	BreakLabel    Label
	ContinueLabel Label
	ReturnLabel   Label

	// ScopeStack tracks nested blocks during emission; the top is the
	// scope currently being compiled.
	ScopeStack []*scope.Scope

	// Globals is not read or populated by any compile pass; global slot
	// offsets come from each Identifier's resolved scope.Binding.
	Globals map[uint64]int

	// Bytecode accumulates the compiled cell stream.
	Bytecode bytecode.Instructions
	// BytecodeOffsets records, for each logical instruction emitted, the
	// cell index it starts at — used for disassembly and debug mapping.
	BytecodeOffsets []int

	// Native accumulates emitted x86-64 machine code bytes.
	Native []byte
	// StackDepth counts the 8-byte words the emitter's Push/Pop put on
	// the native stack. Nothing reads it: call sites align RSP by masking
	// it in AlignStackForCall instead.
	StackDepth int

	// StringConstants and FunctionConstants hold pointer-style immediates
	// referenced by STRING/LOAD bytecode cells.
	StringConstants   []string
	FunctionConstants []*value.Function

	// functionConstIndex maps a function's mangled name to its slot in
	// FunctionConstants, allocated on first reference (by either a
	// recursive/forward identifier use or the declaring Function node
	// itself — whichever compiles first) so the LOAD instruction's
	// immediate is stable regardless of compilation order.
	functionConstIndex map[string]int
}

// New creates a Context with its three standard labels pre-allocated.
func New() *Context {
	c := &Context{Globals: make(map[uint64]int), functionConstIndex: make(map[string]int)}
	c.BreakLabel = c.NewLabel()
	c.ContinueLabel = c.NewLabel()
	c.ReturnLabel = c.NewLabel()
	return c
}

// NewLabel allocates and returns a fresh label token.
func (c *Context) NewLabel() Label {
	c.labels = append(c.labels, labelState{})
	l := c.nextLabel
	c.nextLabel++
	return l
}

// AddLabelJumpBytecode records that the immediate cell at offset (within
// c.Bytecode) must be patched with label's target once resolved.
func (c *Context) AddLabelJumpBytecode(label Label, offset int) {
	c.labels[label].sites = append(c.labels[label].sites, jumpSite{bytecodeCellOffset: offset})
}

// AddLabelJumpNative records that the rel32 field at byte offset (within
// c.Native) must be patched with label's target once resolved.
func (c *Context) AddLabelJumpNative(label Label, offset int) {
	c.labels[label].sites = append(c.labels[label].sites, jumpSite{nativeByteOffset: offset, native: true})
}

// SetLabel records label's resolved target as the current end of the
// bytecode stream (for bytecode emission).
func (c *Context) SetLabel(label Label) {
	c.labels[label].target = len(c.Bytecode)
	c.labels[label].resolved = true
}

// SetLabelNative records label's resolved target as the current end of
// the native byte buffer (for JIT emission).
func (c *Context) SetLabelNative(label Label) {
	c.labels[label].target = len(c.Native)
	c.labels[label].resolved = true
}

// PatchAll walks every label and patches every recorded jump site with
// its resolved target, per §4.4's "at the end of compilation the context
// walks every label and patches every recorded jump-site." It returns an
// error naming the first label left unresolved, since an unpatched jump
// site would otherwise silently jump to cell/byte zero.
func (c *Context) PatchAll() error {
	for i := range c.labels {
		ls := &c.labels[i]
		if len(ls.sites) == 0 {
			continue
		}
		if !ls.resolved {
			return fmt.Errorf("compilectx: label %d never resolved but has %d pending jump site(s)", i, len(ls.sites))
		}
		for _, site := range ls.sites {
			if site.native {
				patchRel32(c.Native, site.nativeByteOffset, ls.target)
			} else {
				c.Bytecode[site.bytecodeCellOffset] = bytecode.Cell(ls.target)
			}
		}
	}
	return nil
}

// patchRel32 writes target as a little-endian rel32 at byte offset off,
// the x86-64 jcc/jmp relative-displacement encoding.
func patchRel32(buf []byte, off, target int) {
	rel := int32(target - (off + 4))
	buf[off] = byte(rel)
	buf[off+1] = byte(rel >> 8)
	buf[off+2] = byte(rel >> 16)
	buf[off+3] = byte(rel >> 24)
}

// Emit appends a bytecode instruction and records its starting cell
// offset in BytecodeOffsets, returning that offset (used by callers that
// need to patch an immediate they just emitted, e.g. a forward jump whose
// site is the instruction's own operand cell).
func (c *Context) Emit(op bytecode.Opcode, operands ...bytecode.Cell) int {
	pos := len(c.Bytecode)
	c.BytecodeOffsets = append(c.BytecodeOffsets, pos)
	c.Bytecode = append(c.Bytecode, bytecode.Make(op, operands...)...)
	return pos
}

// OperandOffset returns the cell offset of instruction op's first
// immediate, given the offset Emit returned for it — i.e. pos+1, since
// every instruction reserves exactly one opcode cell before its operands.
func OperandOffset(emittedAt int) int { return emittedAt + 1 }

// PushScope enters a nested scope during emission.
func (c *Context) PushScope(s *scope.Scope) { c.ScopeStack = append(c.ScopeStack, s) }

// PopScope leaves the current nested scope.
func (c *Context) PopScope() {
	c.ScopeStack = c.ScopeStack[:len(c.ScopeStack)-1]
}

// CurrentScope returns the scope currently being compiled.
func (c *Context) CurrentScope() *scope.Scope {
	if len(c.ScopeStack) == 0 {
		return nil
	}
	return c.ScopeStack[len(c.ScopeStack)-1]
}

// InternString adds s to the string-constant table (if not already
// present) and returns its index, used as a STRING instruction's
// immediate.
func (c *Context) InternString(s string) int {
	for i, existing := range c.StringConstants {
		if existing == s {
			return i
		}
	}
	c.StringConstants = append(c.StringConstants, s)
	return len(c.StringConstants) - 1
}

// FunctionConstIndexForName returns the function-constant slot for
// mangledName, allocating a fresh placeholder *value.Function if this is
// the first reference (§4.5: the Function node itself later fills in
// the real entry offsets; a forward or recursive reference that compiles
// first only needs the slot to exist).
func (c *Context) FunctionConstIndexForName(mangledName string) int {
	if idx, ok := c.functionConstIndex[mangledName]; ok {
		return idx
	}
	idx := len(c.FunctionConstants)
	c.FunctionConstants = append(c.FunctionConstants, value.NewStaticFunction(mangledName, 0))
	c.functionConstIndex[mangledName] = idx
	return idx
}

// SetFunctionConstant overwrites the placeholder at mangledName's slot
// with fn, the real object built once the declaring Function node
// compiles its body and knows its parameter count and entry offsets.
func (c *Context) SetFunctionConstant(mangledName string, fn *value.Function) {
	idx := c.FunctionConstIndexForName(mangledName)
	c.FunctionConstants[idx] = fn
}
