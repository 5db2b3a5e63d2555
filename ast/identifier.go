package ast

import (
	"fmt"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
)

// Identifier is a name reference (§3.3). Hash, Binding and MangledName
// are filled in by Analyze's call to scope.Resolve; CompileToBytecode
// reads them back to choose PEEK_LOCAL/PEEK_GLOBAL/LOAD/LOAD_LIBRARY.
type Identifier struct {
	Base
	Name    string
	Hash    uint64
	Binding scope.Binding
}

var _ Node = (*Identifier)(nil)

func (n *Identifier) Destroy() {}
func (n *Identifier) String() string { return n.Name }

func (n *Identifier) Simplify(vars VarMap) (Node, error) {
	if lit, ok := vars[scope.Hash(n.Name)]; ok {
		return lit, nil
	}
	return n, nil
}

func (n *Identifier) Analyze(sc *scope.Scope) error {
	n.Hash = scope.Hash(n.Name)
	b, ok := sc.Resolve(n.Name)
	if !ok {
		return fmt.Errorf("ast: undefined identifier %q", n.Name)
	}
	n.Binding = b
	return nil
}

func (n *Identifier) Walk(fn func(Node) error) error { return fn(n) }

func (n *Identifier) CompileToBytecode(cc *compilectx.Context) error {
	switch n.Binding.Kind {
	case scope.Local:
		cc.Emit(bytecode.PEEK_LOCAL, bytecode.Cell(n.Binding.Offset))
	case scope.Global:
		cc.Emit(bytecode.PEEK_GLOBAL, bytecode.Cell(n.Binding.Offset))
	case scope.Function:
		idx := cc.FunctionConstIndexForName(n.Binding.MangledName)
		cc.Emit(bytecode.LOAD, bytecode.Cell(idx))
	case scope.Library:
		idx := cc.InternString(n.Name)
		cc.Emit(bytecode.LOAD_LIBRARY, bytecode.Cell(idx))
	default:
		return fmt.Errorf("ast: identifier %q has no resolved binding", n.Name)
	}
	return nil
}

// Library is a bare library-name reference used as the right-hand side
// of a `use` statement, e.g. `use math;`.
type Library struct {
	Base
	Name string
	Hash uint64
}

var _ Node = (*Library)(nil)

func (n *Library) Destroy() {}
func (n *Library) String() string { return n.Name }

func (n *Library) Simplify(VarMap) (Node, error) { return n, nil }

func (n *Library) Analyze(*scope.Scope) error {
	n.Hash = scope.Hash(n.Name)
	return nil
}

func (n *Library) Walk(fn func(Node) error) error { return fn(n) }

func (n *Library) CompileToBytecode(cc *compilectx.Context) error {
	idx := cc.InternString(n.Name)
	cc.Emit(bytecode.LOAD_LIBRARY, bytecode.Cell(idx))
	return nil
}
