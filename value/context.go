package value

import "strings"

// Context is the per-run Execution Context (§3.5): it owns the output
// buffer, the garbage-collection list, and the evaluation machinery shared
// by the bytecode VM and the JIT-compiled native path. The caller creates
// a Context with NewContext and passes it to Program.Execute, which
// registers the libraries into it; nothing in Context is safe to share
// across concurrent runs (see §5, "single Program execution at a time").
type Context struct {
	output strings.Builder

	// GCList holds every heap-allocated Value registered during this run,
	// in allocation order, so Destroy can release them when the run ends.
	GCList []Value

	// Globals maps a library name to its creator/singleton Value,
	// populated by the host embedding (or library package) before
	// execution begins (§3.5: "globals hash (identifier-hash -> native
	// library-creator callback)"); Tang's Go rendition keys it by name
	// directly rather than by a separate hash, since Go's map already
	// hashes the key.
	Globals map[string]Value

	// GlobalSlots holds `global`-declared variable storage, indexed by
	// the stack offset scope.DeclareGlobal assigned at analysis time —
	// distinct from Globals, which holds library bindings, not script
	// globals.
	GlobalSlots []Value

	// Stack is the evaluation stack used by the bytecode VM.
	Stack []Value
	// PCStack and BPStack are not used by vm.Run, which keeps the
	// caller's program counter and base pointer for CALL/RETURN (§4.6)
	// in its own local stacks.
	PCStack []int
	BPStack []int
	// FP is the current frame pointer: the stack index below which a
	// function's locals are forbidden to read (§4.6 frame-pointer
	// discipline).
	FP int

	Result Value

	// UserData is opaque storage for a host embedding this Context
	// (§6.3, host embedding API).
	UserData interface{}

	notSupported   Value
	notImplemented Value
	outOfMemory    Value
}

// NewContext creates a fresh Execution Context with its well-known error
// singletons initialized.
func NewContext() *Context {
	ctx := &Context{
		Globals: make(map[string]Value),
	}
	ctx.notSupported = newSingletonError("not_supported", "operation not supported")
	ctx.notImplemented = newSingletonError("not_implemented", "operation not implemented")
	ctx.outOfMemory = newSingletonError("out_of_memory", "out of memory")
	return ctx
}

// AppendOutput appends s to the run's output buffer (the target of the
// `print` statement and the host embedding API's output accessor).
func (ctx *Context) AppendOutput(s string) { ctx.output.WriteString(s) }

// Output returns everything written by `print` so far this run.
func (ctx *Context) Output() string { return ctx.output.String() }

// EnsureGlobalSlots grows GlobalSlots to at least n entries, filling any
// newly created slots with Null (a `global` declaration without an
// initializer reads back as Null until first assigned).
func (ctx *Context) EnsureGlobalSlots(n int) {
	for len(ctx.GlobalSlots) < n {
		ctx.GlobalSlots = append(ctx.GlobalSlots, Null)
	}
}

// PeekGlobal and PokeGlobal read/write global slot i, growing the slot
// table on demand.
func (ctx *Context) PeekGlobal(i int) Value {
	ctx.EnsureGlobalSlots(i + 1)
	return ctx.GlobalSlots[i]
}

func (ctx *Context) PokeGlobal(i int, v Value) {
	ctx.EnsureGlobalSlots(i + 1)
	ctx.GlobalSlots[i] = v
}

// Register adds v to the GC list and returns it. Every allocating
// constructor in this package (NewInteger, NewArray, ...) calls Register
// before returning, matching §3.1's "every heap-allocated value is
// registered with the Context's GC list at creation." If appending would
// fail (it cannot, in Go, barring true OOM) the original destroys v and
// returns the out-of-memory singleton instead, per §3.1's registration
// failure rule; we keep the shape for fidelity even though Go's GCList is a
// slice that only fails to grow by panicking the whole process.
func (ctx *Context) Register(v Value) Value {
	ctx.GCList = append(ctx.GCList, v)
	return v
}

// newError allocates and registers a fresh, non-singleton Error carrying
// msg.
func (ctx *Context) newError(msg string) Value {
	return ctx.Register(&Error{Default: Default{flags: Flags{IsError: true}}, Kind: "error", Message: msg})
}

// NewError is newError exported for library and host-embedding code
// outside this package (e.g. a NativeFunction validating its arguments).
func (ctx *Context) NewError(msg string) Value { return ctx.newError(msg) }

// newSentinelError returns one of the shared not_supported/not_implemented
// singletons by message; used by Default's fallback methods.
func (ctx *Context) newSentinelError(msg string) Value {
	switch msg {
	case errNotSupported:
		return ctx.notSupported
	case errNotImplemented:
		return ctx.notImplemented
	default:
		return ctx.newError(msg)
	}
}

// Destroy releases every value this run registered. Built-in Tang values
// have nothing to release beyond what Go's own collector already reclaims,
// so this mainly exists to walk the list and call each Value's Destroy for
// fidelity with §3.1's "Context owns destruction of every value it
// registered."
func (ctx *Context) Destroy() {
	for _, v := range ctx.GCList {
		if v != nil {
			v.Flags()
			v.Destroy()
		}
	}
	ctx.GCList = nil
}
