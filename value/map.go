package value

import "strings"

// Map is Tang's string-keyed, insertion-ordered map value (§3.3's Map AST
// node compiles an ordered sequence of (key-string, value-node) pairs, so
// the runtime value preserves that order for iteration and printing).
type Map struct {
	Default
	keys   []string
	values map[string]Value
}

var _ Value = (*Map)(nil)

// NewMap allocates, registers and returns a new temporary Map built from
// parallel keys/values slices (same length, keys in insertion order).
func NewMap(ctx *Context, keys []string, values []Value) Value {
	m := &Map{Default: Default{flags: Flags{IsTemporary: true}}, keys: append([]string(nil), keys...), values: make(map[string]Value, len(keys))}
	for i, k := range keys {
		m.values[k] = values[i]
	}
	return ctx.Register(m)
}

func (m *Map) Type() Type { return MapType }

func (m *Map) ToString(ctx *Context) string {
	parts := make([]string, len(m.keys))
	for i, k := range m.keys {
		parts[i] = k + ": " + m.values[k].ToString(ctx)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (m *Map) Print(ctx *Context) Value { return GenericPrint(m, ctx) }

func (m *Map) DeepCopy(ctx *Context) Value {
	vals := make([]Value, len(m.keys))
	for i, k := range m.keys {
		vals[i] = m.values[k].DeepCopy(ctx)
	}
	return NewMap(ctx, m.keys, vals)
}

func (m *Map) Index(idx Value, ctx *Context) Value {
	s, ok := idx.(*String)
	if !ok {
		return ctx.notSupported
	}
	v, ok := m.values[s.Buf.Bytes()]
	if !ok {
		return ctx.newError("no such key: " + s.Buf.Bytes())
	}
	return v
}

func (m *Map) AssignIndex(idx Value, val Value, ctx *Context) Value {
	s, ok := idx.(*String)
	if !ok {
		return ctx.notSupported
	}
	key := s.Buf.Bytes()
	if val.Flags().IsTemporary {
		val.Flags().IsTemporary = false
	} else {
		val = val.DeepCopy(ctx)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
	return val
}

func (m *Map) Period(name string, ctx *Context) Value {
	v, ok := m.values[name]
	if !ok {
		return ctx.newError("no attribute named " + name)
	}
	return v
}

// mapIterator walks a Map's entries in insertion order, yielding each
// value (keys are accessible via Period/Index, matching how scripts would
// already have obtained them).
type mapIterator struct {
	Default
	m   *Map
	pos int
}

func (m *Map) IteratorGet(ctx *Context) Value {
	return ctx.Register(&mapIterator{Default{flags: Flags{IsTemporary: true}}, m, 0})
}

func (it *mapIterator) Type() Type { return IteratorType }

func (it *mapIterator) ToString(*Context) string { return "iterator" }

func (it *mapIterator) Print(ctx *Context) Value { return GenericPrint(it, ctx) }

func (it *mapIterator) DeepCopy(ctx *Context) Value {
	return ctx.Register(&mapIterator{Default{flags: Flags{IsTemporary: true}}, it.m, it.pos})
}

func (it *mapIterator) IteratorNext(ctx *Context) (Value, Value) {
	if it.pos >= len(it.m.keys) {
		return ErrIteratorEnd, NewBoolean(false)
	}
	k := it.m.keys[it.pos]
	it.pos++
	return it.m.values[k], NewBoolean(true)
}
