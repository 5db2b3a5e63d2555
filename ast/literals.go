package ast

import (
	"strconv"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
)

// Integer is an integer literal (§3.3).
type Integer struct {
	Base
	Value int64
}

var _ Node = (*Integer)(nil)

func (n *Integer) Destroy() {}
func (n *Integer) String() string { return strconv.FormatInt(n.Value, 10) }

func (n *Integer) Simplify(VarMap) (Node, error) { return n, nil }

func (n *Integer) Analyze(*scope.Scope) error {
	n.PossibleType = TypeInteger
	return nil
}

func (n *Integer) Walk(fn func(Node) error) error { return fn(n) }

func (n *Integer) CompileToBytecode(cc *compilectx.Context) error {
	cc.Emit(bytecode.INTEGER, bytecode.Cell(n.Value))
	return nil
}

// Float is a floating-point literal.
type Float struct {
	Base
	Value float64
}

var _ Node = (*Float)(nil)

func (n *Float) Destroy() {}
func (n *Float) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

func (n *Float) Simplify(VarMap) (Node, error) { return n, nil }

func (n *Float) Analyze(*scope.Scope) error {
	n.PossibleType = TypeFloat
	return nil
}

func (n *Float) Walk(fn func(Node) error) error { return fn(n) }

func (n *Float) CompileToBytecode(cc *compilectx.Context) error {
	cc.Emit(bytecode.FLOAT, bytecode.Cell(int64(floatBits(n.Value))))
	return nil
}

// Boolean is a boolean literal.
type Boolean struct {
	Base
	Value bool
}

var _ Node = (*Boolean)(nil)

func (n *Boolean) Destroy() {}
func (n *Boolean) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}

func (n *Boolean) Simplify(VarMap) (Node, error) { return n, nil }

func (n *Boolean) Analyze(*scope.Scope) error {
	n.PossibleType = TypeBoolean
	return nil
}

func (n *Boolean) Walk(fn func(Node) error) error { return fn(n) }

func (n *Boolean) CompileToBytecode(cc *compilectx.Context) error {
	v := bytecode.Cell(0)
	if n.Value {
		v = 1
	}
	cc.Emit(bytecode.BOOLEAN, v)
	return nil
}

// String is a string literal. The raw Go string is interned into the
// Compiler Context's string-constant table at compile time. The parser
// leaves Tag at zero (ustring.Trusted), and both compile paths create
// the string value as Trusted.
type String struct {
	Base
	Value string
	Tag   int
}

var _ Node = (*String)(nil)

func (n *String) Destroy() {}
func (n *String) String() string { return strconv.Quote(n.Value) }

func (n *String) Simplify(VarMap) (Node, error) { return n, nil }

func (n *String) Analyze(*scope.Scope) error {
	n.PossibleType = TypeString
	return nil
}

func (n *String) Walk(fn func(Node) error) error { return fn(n) }

func (n *String) CompileToBytecode(cc *compilectx.Context) error {
	idx := cc.InternString(n.Value)
	cc.Emit(bytecode.STRING, bytecode.Cell(idx))
	return nil
}

// Null is the `null` literal.
type Null struct {
	Base
}

var _ Node = (*Null)(nil)

func (n *Null) Destroy() {}
func (n *Null) String() string { return "null" }

func (n *Null) Simplify(VarMap) (Node, error) { return n, nil }

func (n *Null) Analyze(*scope.Scope) error {
	n.PossibleType = TypeNull
	return nil
}

func (n *Null) Walk(fn func(Node) error) error { return fn(n) }

func (n *Null) CompileToBytecode(cc *compilectx.Context) error {
	cc.Emit(bytecode.NULL)
	return nil
}
