package value

import "github.com/tang-lang/tang/ustring"

// nullValue is the type of the single Null value. Every operation not
// explicitly overridden falls through to Default's not_implemented /
// not_supported behavior, matching §4.1's description of Null as "inert":
// it only supports equality, logical not, casts and printing.
type nullValue struct{ Default }

// Null is the process-wide Null singleton (§3.1: "Null, true, false... are
// singletons, never destroyed or deep-copied").
var Null Value = &nullValue{Default{flags: Flags{IsSingleton: true}}}

func (n *nullValue) Type() Type { return NullType }

func (n *nullValue) ToString(*Context) string { return "null" }

func (n *nullValue) Print(ctx *Context) Value { return GenericPrint(n, ctx) }

func (n *nullValue) DeepCopy(*Context) Value { return Null }

func (n *nullValue) Equal(other Value, _ bool, ctx *Context) Value {
	return NewBoolean(other == Null)
}

func (n *nullValue) NotEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(n.Equal(other, selfIsLHS, ctx))
}

func (n *nullValue) LogicalNot(*Context) Value { return NewBoolean(true) }

func (n *nullValue) Cast(t Type, ctx *Context) Value {
	switch t {
	case BooleanType:
		return NewBoolean(false)
	case StringType:
		return NewString(ctx, "null", ustring.Trusted)
	default:
		return ctx.notSupported
	}
}
