package value

// Function is a script-defined callable (§3.1). The Function object is
// created when FunctionDeclaration's CompileToBytecode compiles the body,
// with BytecodeEntry set to the cell offset MARK_FP sits at in the
// Program's bytecode stream. NativeEntry is a field for the corresponding
// byte offset in the native code page; no compile pass assigns it.
//
// The CALL bytecode instruction and its native-code equivalent manage a
// script Function's frame directly (push pc/fp, set fp, jump to entry)
// rather than going through Function.Call — that generic entry point is
// reserved for a host embedder calling a Function value out-of-band, which
// Tang's core does not itself need, so it reports not_implemented.
type Function struct {
	Default
	Name          string
	ParamCount    int
	BytecodeEntry int
	NativeEntry   int
}

var _ Value = (*Function)(nil)

// NewFunction allocates, registers and returns a new temporary Function
// with its entry points not yet known (filled in once its body compiles).
func NewFunction(ctx *Context, name string, paramCount int) *Function {
	fn := &Function{Default: Default{flags: Flags{IsTemporary: true}}, Name: name, ParamCount: paramCount}
	ctx.Register(fn)
	return fn
}

// NewStaticFunction builds a *Function that is not tied to any
// particular run's GC list: compiled function objects are built once
// per Program (by the compiler, not at execution time) and shared across
// every Execute call and every call site, the same way the teacher's
// compiled-constants pool outlives any one evaluation. IsSingleton marks
// it as never deep-copied or destroyed per-run.
func NewStaticFunction(name string, paramCount int) *Function {
	return &Function{Default: Default{flags: Flags{IsSingleton: true}}, Name: name, ParamCount: paramCount}
}

func (f *Function) Type() Type { return FunctionType }

func (f *Function) ToString(*Context) string { return "function " + f.Name }

func (f *Function) Print(ctx *Context) Value { return GenericPrint(f, ctx) }

// DeepCopy returns f itself: functions are immutable once compiled, so
// copying one is pointless busywork — every script that references the
// same declared function shares one Function object, the way the
// original's function-scope table is shared across call sites.
func (f *Function) DeepCopy(*Context) Value { return f }
