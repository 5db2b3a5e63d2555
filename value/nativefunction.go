package value

// NativeFunction is a host-provided callable (§3.1), optionally bound to a
// receiver (e.g. `random.seeded(123).next_int`, where `next_int` is bound
// to the RNG that `seeded` produced). Libraries build these to expose Go
// functions as Tang callables.
type NativeFunction struct {
	Default
	Name     string
	Receiver Value
	Fn       func(ctx *Context, receiver Value, args []Value) Value
}

var _ Value = (*NativeFunction)(nil)

// NewNativeFunction allocates, registers and returns a new temporary
// NativeFunction. receiver may be nil for a free function.
func NewNativeFunction(ctx *Context, name string, receiver Value, fn func(ctx *Context, receiver Value, args []Value) Value) Value {
	return ctx.Register(&NativeFunction{Default{flags: Flags{IsTemporary: true}}, name, receiver, fn})
}

// NewStaticNativeFunction builds a NativeFunction outside any run's GC
// list, for a library's process-wide callable attributes (e.g.
// `random.seeded`) that are bound once at package init and shared across
// every Context, the same way NewStaticFunction shares a compiled
// Function across every Execute call.
func NewStaticNativeFunction(name string, receiver Value, fn func(ctx *Context, receiver Value, args []Value) Value) Value {
	return &NativeFunction{Default{flags: Flags{IsSingleton: true}}, name, receiver, fn}
}

func (n *NativeFunction) Type() Type { return NativeFunctionType }

func (n *NativeFunction) ToString(*Context) string { return "native function " + n.Name }

func (n *NativeFunction) Print(ctx *Context) Value { return GenericPrint(n, ctx) }

func (n *NativeFunction) DeepCopy(*Context) Value { return n }

func (n *NativeFunction) Call(args []Value, ctx *Context) Value {
	return n.Fn(ctx, n.Receiver, args)
}
