package ast

import (
	"fmt"
	"strings"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
)

// FunctionCall is `callee(args...)`.
type FunctionCall struct {
	Base
	Callee Node
	Args   []Node
}

var _ Node = (*FunctionCall)(nil)

func (n *FunctionCall) Destroy() {
	n.Callee.Destroy()
	for _, a := range n.Args {
		a.Destroy()
	}
}

func (n *FunctionCall) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Callee.String(), strings.Join(parts, ", "))
}

func (n *FunctionCall) Simplify(vars VarMap) (Node, error) {
	callee, err := n.Callee.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Callee = callee
	for i, a := range n.Args {
		simplified, err := a.Simplify(vars)
		if err != nil {
			return n, err
		}
		n.Args[i] = simplified
	}
	return n, nil
}

func (n *FunctionCall) Analyze(sc *scope.Scope) error {
	if err := n.Callee.Analyze(sc); err != nil {
		return err
	}
	for _, a := range n.Args {
		if err := a.Analyze(sc); err != nil {
			return err
		}
	}
	return nil
}

func (n *FunctionCall) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	if err := n.Callee.Walk(fn); err != nil {
		return err
	}
	return walkAll(fn, n.Args...)
}

func (n *FunctionCall) CompileToBytecode(cc *compilectx.Context) error {
	if err := emitAll(cc, n.Args); err != nil {
		return err
	}
	if err := n.Callee.CompileToBytecode(cc); err != nil {
		return err
	}
	cc.Emit(bytecode.CALL, bytecode.Cell(len(n.Args)))
	return nil
}

// Assign is `lhs = rhs`, where lhs is an Identifier or an Index
// expression (§3.3). Assignment is itself an expression: the rhs value
// remains on the evaluation stack as the Assign node's result.
type Assign struct {
	Base
	Lhs Node
	Rhs Node
}

var _ Node = (*Assign)(nil)

func (n *Assign) Destroy() { n.Lhs.Destroy(); n.Rhs.Destroy() }
func (n *Assign) String() string { return fmt.Sprintf("(%s = %s)", n.Lhs.String(), n.Rhs.String()) }

func (n *Assign) Simplify(vars VarMap) (Node, error) {
	rhs, err := n.Rhs.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Rhs = rhs
	if id, ok := n.Lhs.(*Identifier); ok && IsLiteral(rhs) {
		vars[scope.Hash(id.Name)] = rhs
	} else if id, ok := n.Lhs.(*Identifier); ok {
		delete(vars, scope.Hash(id.Name))
	}
	return n, nil
}

func (n *Assign) Analyze(sc *scope.Scope) error {
	if err := n.Lhs.Analyze(sc); err != nil {
		return err
	}
	return n.Rhs.Analyze(sc)
}

func (n *Assign) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Lhs, n.Rhs)
}

func (n *Assign) CompileToBytecode(cc *compilectx.Context) error {
	switch lhs := n.Lhs.(type) {
	case *Identifier:
		if err := n.Rhs.CompileToBytecode(cc); err != nil {
			return err
		}
		switch lhs.Binding.Kind {
		case scope.Local:
			cc.Emit(bytecode.POKE_LOCAL, bytecode.Cell(lhs.Binding.Offset))
		case scope.Global:
			cc.Emit(bytecode.POKE_GLOBAL, bytecode.Cell(lhs.Binding.Offset))
		default:
			return fmt.Errorf("ast: cannot assign to %q", lhs.Name)
		}
		return nil
	case *Index:
		if err := lhs.Receiver.CompileToBytecode(cc); err != nil {
			return err
		}
		if err := lhs.Idx.CompileToBytecode(cc); err != nil {
			return err
		}
		if err := n.Rhs.CompileToBytecode(cc); err != nil {
			return err
		}
		cc.Emit(bytecode.ASSIGN_INDEX)
		return nil
	default:
		return fmt.Errorf("ast: invalid assignment target %T", n.Lhs)
	}
}
