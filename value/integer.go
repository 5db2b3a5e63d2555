package value

import (
	"strconv"

	"github.com/tang-lang/tang/ustring"
)

// Integer is a 64-bit signed integer value. New integers are created
// temporary (§3.1: "freshly computed values start temporary and may be
// adopted without copying by whatever consumes them next"); Negate and the
// binary arithmetic ops reuse self in place when self is already a
// temporary, non-singleton Integer, to avoid an extra allocation for
// straight-line arithmetic.
type Integer struct {
	Default
	Val int64
}

var _ Value = (*Integer)(nil)

// NewInteger allocates, registers and returns a new temporary Integer.
func NewInteger(ctx *Context, v int64) Value {
	return ctx.Register(&Integer{Default{flags: Flags{IsTemporary: true}}, v})
}

func (i *Integer) Type() Type { return IntegerType }

func (i *Integer) ToString(*Context) string { return strconv.FormatInt(i.Val, 10) }

func (i *Integer) Print(ctx *Context) Value { return GenericPrint(i, ctx) }

func (i *Integer) DeepCopy(ctx *Context) Value { return NewInteger(ctx, i.Val) }

// reuse returns self mutated to v when self is a temporary, non-singleton
// Integer (the in-place optimization from §4.1), else a freshly allocated
// Integer.
func (i *Integer) reuse(ctx *Context, v int64) Value {
	if i.Flags().IsTemporary && !i.Flags().IsSingleton {
		i.Val = v
		return i
	}
	return NewInteger(ctx, v)
}

func (i *Integer) Add(other Value, selfIsLHS bool, ctx *Context) Value {
	switch o := other.(type) {
	case *Integer:
		return i.reuse(ctx, i.Val+o.Val)
	case *Float:
		return NewFloat(ctx, float64(i.Val)+o.Val)
	default:
		return ctx.notSupported
	}
}

func (i *Integer) Subtract(other Value, selfIsLHS bool, ctx *Context) Value {
	switch o := other.(type) {
	case *Integer:
		if selfIsLHS {
			return i.reuse(ctx, i.Val-o.Val)
		}
		return i.reuse(ctx, o.Val-i.Val)
	case *Float:
		if selfIsLHS {
			return NewFloat(ctx, float64(i.Val)-o.Val)
		}
		return NewFloat(ctx, o.Val-float64(i.Val))
	default:
		return ctx.notSupported
	}
}

func (i *Integer) Multiply(other Value, selfIsLHS bool, ctx *Context) Value {
	switch o := other.(type) {
	case *Integer:
		return i.reuse(ctx, i.Val*o.Val)
	case *Float:
		return NewFloat(ctx, float64(i.Val)*o.Val)
	default:
		return ctx.notSupported
	}
}

func (i *Integer) Divide(other Value, selfIsLHS bool, ctx *Context) Value {
	switch o := other.(type) {
	case *Integer:
		lhs, rhs := i.Val, o.Val
		if !selfIsLHS {
			lhs, rhs = rhs, lhs
		}
		if rhs == 0 {
			return ErrDivideByZero
		}
		return i.reuse(ctx, lhs/rhs)
	case *Float:
		lhs, rhs := float64(i.Val), o.Val
		if !selfIsLHS {
			lhs, rhs = rhs, lhs
		}
		if rhs == 0 {
			return ErrDivideByZero
		}
		return NewFloat(ctx, lhs/rhs)
	default:
		return ctx.notSupported
	}
}

func (i *Integer) Modulo(other Value, selfIsLHS bool, ctx *Context) Value {
	o, ok := other.(*Integer)
	if !ok {
		return ctx.notSupported
	}
	lhs, rhs := i.Val, o.Val
	if !selfIsLHS {
		lhs, rhs = rhs, lhs
	}
	if rhs == 0 {
		return ErrModuloByZero
	}
	return i.reuse(ctx, lhs%rhs)
}

func (i *Integer) Negate(ctx *Context) Value { return i.reuse(ctx, -i.Val) }

func (i *Integer) compareFloat(self float64, other Value, selfIsLHS bool) (lhs, rhs float64, ok bool) {
	o, isFloat := other.(*Float)
	if !isFloat {
		return 0, 0, false
	}
	lhs, rhs = self, o.Val
	if !selfIsLHS {
		lhs, rhs = rhs, lhs
	}
	return lhs, rhs, true
}

func (i *Integer) LessThan(other Value, selfIsLHS bool, ctx *Context) Value {
	if o, ok := other.(*Integer); ok {
		lhs, rhs := i.Val, o.Val
		if !selfIsLHS {
			lhs, rhs = rhs, lhs
		}
		return NewBoolean(lhs < rhs)
	}
	if lhs, rhs, ok := i.compareFloat(float64(i.Val), other, selfIsLHS); ok {
		return NewBoolean(lhs < rhs)
	}
	return ctx.notSupported
}

func (i *Integer) LessEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	if o, ok := other.(*Integer); ok {
		lhs, rhs := i.Val, o.Val
		if !selfIsLHS {
			lhs, rhs = rhs, lhs
		}
		return NewBoolean(lhs <= rhs)
	}
	if lhs, rhs, ok := i.compareFloat(float64(i.Val), other, selfIsLHS); ok {
		return NewBoolean(lhs <= rhs)
	}
	return ctx.notSupported
}

func (i *Integer) GreaterThan(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(i.LessEqual(other, selfIsLHS, ctx))
}

func (i *Integer) GreaterEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(i.LessThan(other, selfIsLHS, ctx))
}

func (i *Integer) Equal(other Value, selfIsLHS bool, ctx *Context) Value {
	switch o := other.(type) {
	case *Integer:
		return NewBoolean(i.Val == o.Val)
	case *Float:
		return NewBoolean(float64(i.Val) == o.Val)
	default:
		return NewBoolean(false)
	}
}

func (i *Integer) NotEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(i.Equal(other, selfIsLHS, ctx))
}

func (i *Integer) Cast(t Type, ctx *Context) Value {
	switch t {
	case IntegerType:
		return i
	case FloatType:
		return NewFloat(ctx, float64(i.Val))
	case BooleanType:
		return NewBoolean(i.Val != 0)
	case StringType:
		return NewString(ctx, i.ToString(ctx), ustring.Trusted)
	default:
		return ctx.notSupported
	}
}
