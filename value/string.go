package value

import (
	"github.com/tang-lang/tang/ustring"
)

// String wraps a grapheme-aware, taint-tagged ustring.String as a Tang
// runtime value (§3.2). Because ustring.String is immutable, two String
// values can safely share one without copying. Nothing sets the
// RequiresDeepCopy flag on a String; ADOPT only clears it (§3.1).
type String struct {
	Default
	Buf *ustring.String
}

var _ Value = (*String)(nil)

// NewString allocates, registers and returns a new temporary String
// wrapping raw UTF-8 bytes tagged tag.
func NewString(ctx *Context, s string, tag ustring.Tag) Value {
	return ctx.Register(&String{Default{flags: Flags{IsTemporary: true}}, ustring.New(s, tag)})
}

// NewTaggedString wraps an already-built ustring.String (e.g. the result
// of Concat or Slice) as a registered, temporary Tang value.
func NewTaggedString(ctx *Context, s *ustring.String) Value {
	return ctx.Register(&String{Default{flags: Flags{IsTemporary: true}}, s})
}

func (s *String) Type() Type { return StringType }

func (s *String) ToString(*Context) string { return s.Buf.Bytes() }

func (s *String) Print(ctx *Context) Value { return GenericPrint(s, ctx) }

func (s *String) DeepCopy(ctx *Context) Value { return NewTaggedString(ctx, s.Buf) }

func (s *String) Add(other Value, selfIsLHS bool, ctx *Context) Value {
	o, ok := other.(*String)
	if !ok {
		return ctx.notSupported
	}
	if selfIsLHS {
		return NewTaggedString(ctx, s.Buf.Concat(o.Buf))
	}
	return NewTaggedString(ctx, o.Buf.Concat(s.Buf))
}

func (s *String) Equal(other Value, _ bool, ctx *Context) Value {
	o, ok := other.(*String)
	if !ok {
		return NewBoolean(false)
	}
	return NewBoolean(s.Buf.Equal(o.Buf))
}

func (s *String) NotEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return negateBool(s.Equal(other, selfIsLHS, ctx))
}

func (s *String) LessThan(other Value, selfIsLHS bool, ctx *Context) Value {
	o, ok := other.(*String)
	if !ok {
		return ctx.notSupported
	}
	lhs, rhs := s.Buf.Bytes(), o.Buf.Bytes()
	if !selfIsLHS {
		lhs, rhs = rhs, lhs
	}
	return NewBoolean(lhs < rhs)
}

func (s *String) LessEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return NewBoolean(!boolOf(s.GreaterThan(other, selfIsLHS, ctx)))
}

func (s *String) GreaterThan(other Value, selfIsLHS bool, ctx *Context) Value {
	o, ok := other.(*String)
	if !ok {
		return ctx.notSupported
	}
	lhs, rhs := s.Buf.Bytes(), o.Buf.Bytes()
	if !selfIsLHS {
		lhs, rhs = rhs, lhs
	}
	return NewBoolean(lhs > rhs)
}

func (s *String) GreaterEqual(other Value, selfIsLHS bool, ctx *Context) Value {
	return NewBoolean(!boolOf(s.LessThan(other, selfIsLHS, ctx)))
}

func boolOf(v Value) bool {
	b, ok := v.(*Boolean)
	return ok && b.val
}

// Index returns the single-grapheme substring at idx, matching §4.1's
// indexing contract for strings (out-of-range is an error, not a panic).
func (s *String) Index(idx Value, ctx *Context) Value {
	i, ok := idx.(*Integer)
	if !ok {
		return ctx.notSupported
	}
	n := int(i.Val)
	if n < 0 || n >= s.Buf.Len() {
		return ctx.newError("string index out of range")
	}
	return NewTaggedString(ctx, s.Buf.Slice(n, n+1, 1))
}

// Slice returns the grapheme range [start, end) with stride skip (§3.3's
// Slice AST node semantics), Null arguments defaulting to the whole range
// with a stride of one.
func (s *String) Slice(start, end, skip Value, ctx *Context) Value {
	lo, hi, stride := 0, s.Buf.Len(), 1
	if i, ok := start.(*Integer); ok {
		lo = int(i.Val)
	}
	if i, ok := end.(*Integer); ok {
		hi = int(i.Val)
	}
	if i, ok := skip.(*Integer); ok && i.Val != 0 {
		stride = int(i.Val)
	}
	return NewTaggedString(ctx, s.Buf.Slice(lo, hi, stride))
}

func (s *String) Cast(t Type, ctx *Context) Value {
	switch t {
	case StringType:
		return s
	default:
		return ctx.notSupported
	}
}
