package value

import "strings"

// Array is Tang's ordered, heterogeneous, mutable sequence value.
type Array struct {
	Default
	Elems []Value
}

var _ Value = (*Array)(nil)

// NewArray allocates, registers and returns a new temporary Array.
func NewArray(ctx *Context, elems []Value) Value {
	return ctx.Register(&Array{Default{flags: Flags{IsTemporary: true}}, elems})
}

func (a *Array) Type() Type { return ArrayType }

func (a *Array) ToString(ctx *Context) string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.ToString(ctx)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) Print(ctx *Context) Value { return GenericPrint(a, ctx) }

func (a *Array) DeepCopy(ctx *Context) Value {
	cp := make([]Value, len(a.Elems))
	for i, e := range a.Elems {
		cp[i] = e.DeepCopy(ctx)
	}
	return NewArray(ctx, cp)
}

func (a *Array) Index(idx Value, ctx *Context) Value {
	i, ok := idx.(*Integer)
	if !ok {
		return ctx.notSupported
	}
	n := int(i.Val)
	if n < 0 || n >= len(a.Elems) {
		return ctx.newError("array index out of range")
	}
	return a.Elems[n]
}

func (a *Array) AssignIndex(idx Value, val Value, ctx *Context) Value {
	i, ok := idx.(*Integer)
	if !ok {
		return ctx.notSupported
	}
	n := int(i.Val)
	if n < 0 || n >= len(a.Elems) {
		return ctx.newError("array index out of range")
	}
	if val.Flags().IsTemporary {
		val.Flags().IsTemporary = false
	} else {
		val = val.DeepCopy(ctx)
	}
	a.Elems[n] = val
	return val
}

func (a *Array) Slice(start, end, skip Value, ctx *Context) Value {
	lo, hi, stride := 0, len(a.Elems), 1
	if i, ok := start.(*Integer); ok {
		lo = int(i.Val)
	}
	if i, ok := end.(*Integer); ok {
		hi = int(i.Val)
	}
	if i, ok := skip.(*Integer); ok && i.Val != 0 {
		stride = int(i.Val)
	}
	if lo < 0 {
		lo = 0
	}
	if hi > len(a.Elems) {
		hi = len(a.Elems)
	}
	var out []Value
	for i := lo; i < hi; i += stride {
		out = append(out, a.Elems[i])
	}
	return NewArray(ctx, out)
}

func (a *Array) Add(other Value, selfIsLHS bool, ctx *Context) Value {
	o, ok := other.(*Array)
	if !ok {
		return ctx.notSupported
	}
	lhs, rhs := a.Elems, o.Elems
	if !selfIsLHS {
		lhs, rhs = rhs, lhs
	}
	combined := make([]Value, 0, len(lhs)+len(rhs))
	combined = append(combined, lhs...)
	combined = append(combined, rhs...)
	return NewArray(ctx, combined)
}

// arrayIterator walks an Array's elements in order.
type arrayIterator struct {
	Default
	arr *Array
	pos int
}

func (a *Array) IteratorGet(ctx *Context) Value {
	return ctx.Register(&arrayIterator{Default{flags: Flags{IsTemporary: true}}, a, 0})
}

func (it *arrayIterator) Type() Type { return IteratorType }

func (it *arrayIterator) ToString(*Context) string { return "iterator" }

func (it *arrayIterator) Print(ctx *Context) Value { return GenericPrint(it, ctx) }

func (it *arrayIterator) DeepCopy(ctx *Context) Value {
	return ctx.Register(&arrayIterator{Default{flags: Flags{IsTemporary: true}}, it.arr, it.pos})
}

func (it *arrayIterator) IteratorNext(ctx *Context) (Value, Value) {
	if it.pos >= len(it.arr.Elems) {
		return ErrIteratorEnd, NewBoolean(false)
	}
	v := it.arr.Elems[it.pos]
	it.pos++
	return v, NewBoolean(true)
}
