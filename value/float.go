package value

import (
	"strconv"

	"github.com/tang-lang/tang/ustring"
)

// Float is a 64-bit floating point value. It mirrors Integer's in-place
// reuse optimization for freshly computed temporaries.
type Float struct {
	Default
	Val float64
}

var _ Value = (*Float)(nil)

// NewFloat allocates, registers and returns a new temporary Float.
func NewFloat(ctx *Context, v float64) Value {
	return ctx.Register(&Float{Default{flags: Flags{IsTemporary: true}}, v})
}

// NewSingletonFloat builds a Float outside any run's GC list, for
// process-wide constants such as Math.pi (§5, "shared immutable
// singletons") that outlive any single Context.
func NewSingletonFloat(v float64) Value {
	return &Float{Default{flags: Flags{IsSingleton: true}}, v}
}

func (f *Float) Type() Type { return FloatType }

func (f *Float) ToString(*Context) string { return strconv.FormatFloat(f.Val, 'g', -1, 64) }

func (f *Float) Print(ctx *Context) Value { return GenericPrint(f, ctx) }

func (f *Float) DeepCopy(ctx *Context) Value { return NewFloat(ctx, f.Val) }

func (f *Float) reuse(ctx *Context, v float64) Value {
	if f.Flags().IsTemporary && !f.Flags().IsSingleton {
		f.Val = v
		return f
	}
	return NewFloat(ctx, v)
}

func operand(other Value) (float64, bool) {
	switch o := other.(type) {
	case *Float:
		return o.Val, true
	case *Integer:
		return float64(o.Val), true
	default:
		return 0, false
	}
}

func (f *Float) Add(other Value, selfIsLHS bool, ctx *Context) Value {
	if v, ok := operand(other); ok {
		return f.reuse(ctx, f.Val+v)
	}
	return ctx.notSupported
}

func (f *Float) Subtract(other Value, selfIsLHS bool, ctx *Context) Value {
	v, ok := operand(other)
	if !ok {
		return ctx.notSupported
	}
	if selfIsLHS {
		return f.reuse(ctx, f.Val-v)
	}
	return f.reuse(ctx, v-f.Val)
}

func (f *Float) Multiply(other Value, selfIsLHS bool, ctx *Context) Value {
	if v, ok := operand(other); ok {
		return f.reuse(ctx, f.Val*v)
	}
	return ctx.notSupported
}

func (f *Float) Divide(other Value, selfIsLHS bool, ctx *Context) Value {
	v, ok := operand(other)
	if !ok {
		return ctx.notSupported
	}
	lhs, rhs := f.Val, v
	if !selfIsLHS {
		lhs, rhs = rhs, lhs
	}
	if rhs == 0 {
		return ErrDivideByZero
	}
	return f.reuse(ctx, lhs/rhs)
}

func (f *Float) Negate(ctx *Context) Value { return f.reuse(ctx, -f.Val) }

func (f *Float) LessThan(other Value, selfIsLHS bool, ctx *Context) Value {
	v, ok := operand(other)
	if !ok {
		return ctx.notSupported
	}
	lhs, rhs := f.Val, v
	if !selfIsLHS {
		lhs, rhs = rhs, lhs
	}
	return NewBoolean(lhs < rhs)
}

func (f *Float) LessEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	v, ok := operand(other)
	if !ok {
		return ctx.notSupported
	}
	lhs, rhs := f.Val, v
	if !selfIsLHS {
		lhs, rhs = rhs, lhs
	}
	return NewBoolean(lhs <= rhs)
}

func (f *Float) GreaterThan(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(f.LessEqual(other, selfIsLHS, ctx))
}

func (f *Float) GreaterEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(f.LessThan(other, selfIsLHS, ctx))
}

func (f *Float) Equal(other Value, _ bool, ctx *Context) Value {
	if v, ok := operand(other); ok {
		return NewBoolean(f.Val == v)
	}
	return NewBoolean(false)
}

func (f *Float) NotEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(f.Equal(other, selfIsLHS, ctx))
}

func (f *Float) Cast(t Type, ctx *Context) Value {
	switch t {
	case FloatType:
		return f
	case IntegerType:
		return NewInteger(ctx, int64(f.Val))
	case BooleanType:
		return NewBoolean(f.Val != 0)
	case StringType:
		return NewString(ctx, f.ToString(ctx), ustring.Trusted)
	default:
		return ctx.notSupported
	}
}
