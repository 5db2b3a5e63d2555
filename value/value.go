// Package value implements Tang's runtime value system (§3.1): the
// polymorphic Value interface with its virtual dispatch table, the value
// flags that drive the temporary/deep-copy discipline, and the per-run
// Context that owns the garbage-collection list, evaluation stack and
// output buffer.
//
// Every concrete value type (Integer, Float, String, ...) embeds Default,
// which supplies not-implemented/not-supported fallbacks for every
// operation (§4.1, "Generic default implementations"). A concrete type
// overrides only the operations it actually supports; Go's method
// promotion plays the role the original's vtable pointer-sharing does.
package value

import "fmt"

// Type names a Value variant.
type Type string

//nolint:revive
const (
	NullType           Type = "Null"
	BooleanType        Type = "Boolean"
	IntegerType        Type = "Integer"
	FloatType          Type = "Float"
	StringType         Type = "String"
	ArrayType          Type = "Array"
	MapType            Type = "Map"
	IteratorType       Type = "Iterator"
	FunctionType       Type = "Function"
	NativeFunctionType Type = "NativeFunction"
	LibraryType        Type = "Library"
	RNGType            Type = "RNG"
	ErrorType          Type = "Error"
)

// Flags carries the per-value bits described in §3.1.
type Flags struct {
	IsTrue           bool
	IsError          bool
	IsTemporary      bool
	RequiresDeepCopy bool
	IsSingleton      bool
	IsAReference     bool
}

// Value is the interface every Tang runtime value implements. Operations
// follow the (self, other, selfIsLHS, ctx) shape described in §4.1: a
// binary operation returns a newly allocated and GC-registered value, a
// singleton, or a mutated self when self was already a temporary.
type Value interface {
	// Type returns the variant name used in error messages and diagnostics.
	Type() Type

	// Flags returns a pointer to this value's mutable flag set.
	Flags() *Flags

	// ToString renders the value for `print`, string concatenation and
	// diagnostics.
	ToString(ctx *Context) string

	// Print writes the value's string form to the context's output buffer
	// and returns Null. The Default implementation composes ToString with
	// the context's append, matching §4.1's "generic print... appends the
	// returned string to the Execution Context output."
	Print(ctx *Context) Value

	// DeepCopy returns an independent copy. Singletons return themselves
	// (§3.1 invariant).
	DeepCopy(ctx *Context) Value

	// Destroy releases any resources not owned by the Context's GC list.
	// For every built-in Tang value this is a no-op: Go's garbage
	// collector reclaims the backing memory, so Destroy exists purely to
	// keep the operation-table shape named by §3.3/§4.1.
	Destroy()

	Add(other Value, selfIsLHS bool, ctx *Context) Value
	Subtract(other Value, selfIsLHS bool, ctx *Context) Value
	Multiply(other Value, selfIsLHS bool, ctx *Context) Value
	Divide(other Value, selfIsLHS bool, ctx *Context) Value
	Modulo(other Value, selfIsLHS bool, ctx *Context) Value
	Negate(ctx *Context) Value

	LogicalAnd(other Value, selfIsLHS bool, ctx *Context) Value
	LogicalOr(other Value, selfIsLHS bool, ctx *Context) Value
	LogicalNot(ctx *Context) Value

	LessThan(other Value, selfIsLHS bool, ctx *Context) Value
	LessEqual(other Value, selfIsLHS bool, ctx *Context) Value
	GreaterThan(other Value, selfIsLHS bool, ctx *Context) Value
	GreaterEqual(other Value, selfIsLHS bool, ctx *Context) Value
	Equal(other Value, selfIsLHS bool, ctx *Context) Value
	NotEqual(other Value, selfIsLHS bool, ctx *Context) Value

	Index(idx Value, ctx *Context) Value
	AssignIndex(idx Value, val Value, ctx *Context) Value
	Slice(start, end, skip Value, ctx *Context) Value
	Period(name string, ctx *Context) Value
	Call(args []Value, ctx *Context) Value

	IteratorGet(ctx *Context) Value
	// IteratorNext returns the next element and a boolean Value reporting
	// whether iteration should continue, matching the bytecode ITERATOR_NEXT
	// instruction's two-value stack effect (§4.3).
	IteratorNext(ctx *Context) (Value, Value)

	Cast(t Type, ctx *Context) Value
}

// Default implements Value with the generic fallbacks from §4.1: every
// operation returns a not-implemented/not-supported Error, except Equal
// and NotEqual (which return Booleans: false and true), Destroy (a no-op)
// and Period (which returns a "no attribute" error). Concrete types embed
// Default and override what they support; Go's method promotion plays the
// role the original's shared vtable-pointer defaults do.
//
// ToString, Print and DeepCopy are not promoted through Default: they
// need the concrete value (Go embedding has no virtual "self"), so every
// concrete type implements them directly. GenericPrint below is the
// shared helper a type's own Print method delegates to, which is the
// closest Go equivalent of §4.1's "generic print... composes from
// to_string."
type Default struct {
	flags Flags
}

func (d *Default) Flags() *Flags { return &d.flags }

func (d *Default) Destroy() {}

// GenericPrint appends self's string form to ctx's output and returns
// Null, matching the generic `print` operation in §4.1.
func GenericPrint(self Value, ctx *Context) Value {
	ctx.AppendOutput(self.ToString(ctx))
	return Null
}

func (d *Default) Add(_ Value, _ bool, ctx *Context) Value           { return ctx.notSupported }
func (d *Default) Subtract(_ Value, _ bool, ctx *Context) Value      { return ctx.notSupported }
func (d *Default) Multiply(_ Value, _ bool, ctx *Context) Value      { return ctx.notSupported }
func (d *Default) Divide(_ Value, _ bool, ctx *Context) Value        { return ctx.notSupported }
func (d *Default) Modulo(_ Value, _ bool, ctx *Context) Value        { return ctx.notSupported }
func (d *Default) Negate(ctx *Context) Value                        { return ctx.notSupported }
func (d *Default) LogicalAnd(_ Value, _ bool, ctx *Context) Value    { return ctx.notSupported }
func (d *Default) LogicalOr(_ Value, _ bool, ctx *Context) Value     { return ctx.notSupported }
func (d *Default) LogicalNot(ctx *Context) Value                    { return ctx.notSupported }
func (d *Default) LessThan(_ Value, _ bool, ctx *Context) Value      { return ctx.notSupported }
func (d *Default) LessEqual(_ Value, _ bool, ctx *Context) Value     { return ctx.notSupported }
func (d *Default) GreaterThan(_ Value, _ bool, ctx *Context) Value   { return ctx.notSupported }
func (d *Default) GreaterEqual(_ Value, _ bool, ctx *Context) Value  { return ctx.notSupported }
func (d *Default) Equal(_ Value, _ bool, _ *Context) Value { return NewBoolean(false) }
func (d *Default) NotEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(d.Equal(other, selfIsLHS, ctx))
}
func (d *Default) Index(_ Value, ctx *Context) Value               { return ctx.notImplemented }
func (d *Default) AssignIndex(_ Value, _ Value, ctx *Context) Value { return ctx.notImplemented }
func (d *Default) Slice(_, _, _ Value, ctx *Context) Value         { return ctx.notImplemented }
func (d *Default) Call(_ []Value, ctx *Context) Value              { return ctx.notImplemented }
func (d *Default) IteratorGet(ctx *Context) Value                  { return ctx.notImplemented }
func (d *Default) IteratorNext(ctx *Context) (Value, Value)        { return ctx.notImplemented, NewBoolean(false) }
func (d *Default) Cast(_ Type, ctx *Context) Value                 { return ctx.notSupported }

// NotSupported returns the shared not_supported error singleton, the
// sentinel a binary-operation dispatcher (§7) treats as a request to
// retry with operands swapped.
func NotSupported(ctx *Context) Value { return ctx.notSupported }

// NotImplemented returns the shared not_implemented error singleton.
func NotImplemented(ctx *Context) Value { return ctx.notImplemented }

// Period provides the generic attribute-table lookup described in §4.1:
// "the sole exception [to not_implemented/not_supported] is generic
// period (walks the operation table's attribute table)". Types without an
// attribute table (most of them) get a fresh "no attribute named" error
// from this shared helper; Library, Map and the RNG override it.
func (d *Default) Period(name string, ctx *Context) Value {
	return ctx.newError(fmt.Sprintf("no attribute named %q", name))
}

// sentinel error messages for the not_implemented/not_supported
// singletons; Context.newSentinelError is their only user.
const (
	errNotSupported   = "operation not supported"
	errNotImplemented = "operation not implemented"
)
