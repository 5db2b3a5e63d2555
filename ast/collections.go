package ast

import (
	"fmt"
	"strings"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
)

// Array is an ordered sequence of element expressions.
type Array struct {
	Base
	Elements []Node
}

var _ Node = (*Array)(nil)

func (n *Array) Destroy() {
	for _, e := range n.Elements {
		e.Destroy()
	}
}

func (n *Array) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (n *Array) Simplify(vars VarMap) (Node, error) {
	for i, e := range n.Elements {
		simplified, err := e.Simplify(vars)
		if err != nil {
			return n, err
		}
		n.Elements[i] = simplified
	}
	return n, nil
}

func (n *Array) Analyze(sc *scope.Scope) error {
	for _, e := range n.Elements {
		if err := e.Analyze(sc); err != nil {
			return err
		}
	}
	return nil
}

func (n *Array) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Elements...)
}

func (n *Array) CompileToBytecode(cc *compilectx.Context) error {
	if err := emitAll(cc, n.Elements); err != nil {
		return err
	}
	cc.Emit(bytecode.ARRAY, bytecode.Cell(len(n.Elements)))
	return nil
}

// MapEntry is one key/value pair of a Map literal; the key is always a
// source-level string (§3.3: "ordered sequence of (key-string,
// value-node) pairs").
type MapEntry struct {
	Key   string
	Value Node
}

// Map is an ordered sequence of key/value pairs.
type Map struct {
	Base
	Entries []MapEntry
}

var _ Node = (*Map)(nil)

func (n *Map) Destroy() {
	for _, e := range n.Entries {
		e.Value.Destroy()
	}
}

func (n *Map) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = fmt.Sprintf("%q: %s", e.Key, e.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (n *Map) Simplify(vars VarMap) (Node, error) {
	for i, e := range n.Entries {
		simplified, err := e.Value.Simplify(vars)
		if err != nil {
			return n, err
		}
		n.Entries[i].Value = simplified
	}
	return n, nil
}

func (n *Map) Analyze(sc *scope.Scope) error {
	for _, e := range n.Entries {
		if err := e.Value.Analyze(sc); err != nil {
			return err
		}
	}
	return nil
}

func (n *Map) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, e := range n.Entries {
		if err := e.Value.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

func (n *Map) CompileToBytecode(cc *compilectx.Context) error {
	for _, e := range n.Entries {
		idx := cc.InternString(e.Key)
		cc.Emit(bytecode.STRING, bytecode.Cell(idx))
		if err := e.Value.CompileToBytecode(cc); err != nil {
			return err
		}
	}
	cc.Emit(bytecode.MAP, bytecode.Cell(len(n.Entries)))
	return nil
}

// Index is `receiver[idx]`.
type Index struct {
	Base
	Receiver Node
	Idx      Node
}

var _ Node = (*Index)(nil)

func (n *Index) Destroy() { n.Receiver.Destroy(); n.Idx.Destroy() }
func (n *Index) String() string { return fmt.Sprintf("(%s[%s])", n.Receiver.String(), n.Idx.String()) }

func (n *Index) Simplify(vars VarMap) (Node, error) {
	r, err := n.Receiver.Simplify(vars)
	if err != nil {
		return n, err
	}
	i, err := n.Idx.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Receiver, n.Idx = r, i
	return n, nil
}

func (n *Index) Analyze(sc *scope.Scope) error {
	if err := n.Receiver.Analyze(sc); err != nil {
		return err
	}
	return n.Idx.Analyze(sc)
}

func (n *Index) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Receiver, n.Idx)
}

func (n *Index) CompileToBytecode(cc *compilectx.Context) error {
	if err := n.Receiver.CompileToBytecode(cc); err != nil {
		return err
	}
	if err := n.Idx.CompileToBytecode(cc); err != nil {
		return err
	}
	cc.Emit(bytecode.INDEX)
	return nil
}

// Period is `receiver.name`, a member/attribute access.
type Period struct {
	Base
	Receiver Node
	Name     string
}

var _ Node = (*Period)(nil)

func (n *Period) Destroy() { n.Receiver.Destroy() }
func (n *Period) String() string { return fmt.Sprintf("(%s.%s)", n.Receiver.String(), n.Name) }

func (n *Period) Simplify(vars VarMap) (Node, error) {
	r, err := n.Receiver.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Receiver = r
	return n, nil
}

func (n *Period) Analyze(sc *scope.Scope) error { return n.Receiver.Analyze(sc) }

func (n *Period) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return n.Receiver.Walk(fn)
}

func (n *Period) CompileToBytecode(cc *compilectx.Context) error {
	if err := n.Receiver.CompileToBytecode(cc); err != nil {
		return err
	}
	idx := cc.InternString(n.Name)
	cc.Emit(bytecode.PERIOD, bytecode.Cell(idx))
	return nil
}

// Slice is `receiver[start:end:skip]`.
type Slice struct {
	Base
	Receiver Node
	Start    Node
	End      Node
	Skip     Node
}

var _ Node = (*Slice)(nil)

func (n *Slice) Destroy() {
	n.Receiver.Destroy()
	if n.Start != nil {
		n.Start.Destroy()
	}
	if n.End != nil {
		n.End.Destroy()
	}
	if n.Skip != nil {
		n.Skip.Destroy()
	}
}

func (n *Slice) String() string {
	return fmt.Sprintf("(%s[%v:%v:%v])", n.Receiver.String(), n.Start, n.End, n.Skip)
}

func (n *Slice) Simplify(vars VarMap) (Node, error) {
	r, err := n.Receiver.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Receiver = r
	for _, p := range []*Node{&n.Start, &n.End, &n.Skip} {
		if *p == nil {
			continue
		}
		simplified, err := (*p).Simplify(vars)
		if err != nil {
			return n, err
		}
		*p = simplified
	}
	return n, nil
}

func (n *Slice) Analyze(sc *scope.Scope) error {
	if err := n.Receiver.Analyze(sc); err != nil {
		return err
	}
	for _, c := range []Node{n.Start, n.End, n.Skip} {
		if c == nil {
			continue
		}
		if err := c.Analyze(sc); err != nil {
			return err
		}
	}
	return nil
}

func (n *Slice) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Receiver, n.Start, n.End, n.Skip)
}

func (n *Slice) CompileToBytecode(cc *compilectx.Context) error {
	if err := n.Receiver.CompileToBytecode(cc); err != nil {
		return err
	}
	for _, c := range []Node{n.Start, n.End, n.Skip} {
		if c == nil {
			cc.Emit(bytecode.NULL)
			continue
		}
		if err := c.CompileToBytecode(cc); err != nil {
			return err
		}
	}
	cc.Emit(bytecode.SLICE)
	return nil
}
