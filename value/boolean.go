package value

import "github.com/tang-lang/tang/ustring"

// Boolean is Tang's true/false value. Like Null, both booleans are
// process-wide singletons (§3.1): there is exactly one true and one false,
// and True()/False() always return the same pointer.
type Boolean struct {
	Default
	val bool
}

var (
	trueValue  = &Boolean{Default{flags: Flags{IsSingleton: true, IsTrue: true}}, true}
	falseValue = &Boolean{Default{flags: Flags{IsSingleton: true}}, false}
)

// NewBoolean returns the shared true or false singleton for b.
func NewBoolean(b bool) Value {
	if b {
		return trueValue
	}
	return falseValue
}

// negateBool flips a Value known to be a Boolean (as returned by Equal);
// used to implement NotEqual as "not Equal" the way the original's default
// comparison fallbacks do.
func negateBool(v Value) Value {
	b, ok := v.(*Boolean)
	if !ok {
		return v
	}
	return NewBoolean(!b.val)
}

func (b *Boolean) Type() Type { return BooleanType }

func (b *Boolean) ToString(*Context) string {
	if b.val {
		return "true"
	}
	return "false"
}

func (b *Boolean) Print(ctx *Context) Value { return GenericPrint(b, ctx) }

func (b *Boolean) DeepCopy(*Context) Value { return b }

func (b *Boolean) LogicalAnd(other Value, selfIsLHS bool, ctx *Context) Value {
	o, ok := other.(*Boolean)
	if !ok {
		return ctx.notSupported
	}
	return NewBoolean(b.val && o.val)
}

func (b *Boolean) LogicalOr(other Value, selfIsLHS bool, ctx *Context) Value {
	o, ok := other.(*Boolean)
	if !ok {
		return ctx.notSupported
	}
	return NewBoolean(b.val || o.val)
}

func (b *Boolean) LogicalNot(*Context) Value { return NewBoolean(!b.val) }

func (b *Boolean) Equal(other Value, _ bool, ctx *Context) Value {
	o, ok := other.(*Boolean)
	if !ok {
		return NewBoolean(false)
	}
	return NewBoolean(b.val == o.val)
}

func (b *Boolean) NotEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(b.Equal(other, selfIsLHS, ctx))
}

func (b *Boolean) Cast(t Type, ctx *Context) Value {
	switch t {
	case IntegerType:
		if b.val {
			return NewInteger(ctx, 1)
		}
		return NewInteger(ctx, 0)
	case FloatType:
		if b.val {
			return NewFloat(ctx, 1)
		}
		return NewFloat(ctx, 0)
	case StringType:
		return NewString(ctx, b.ToString(ctx), ustring.Trusted)
	case BooleanType:
		return b
	default:
		return ctx.notSupported
	}
}
