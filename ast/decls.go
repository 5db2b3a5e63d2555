package ast

import (
	"fmt"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
	"github.com/tang-lang/tang/value"
)

// Global is `global name;` or `global name = init;`, valid only at the
// root scope (§4.2).
type Global struct {
	Base
	Ident *Identifier
	Init  Node
}

var _ Node = (*Global)(nil)

func (n *Global) Destroy() {
	if n.Init != nil {
		n.Init.Destroy()
	}
}

func (n *Global) String() string {
	if n.Init == nil {
		return "global " + n.Ident.Name
	}
	return fmt.Sprintf("global %s = %s", n.Ident.Name, n.Init.String())
}

func (n *Global) Simplify(vars VarMap) (Node, error) {
	if n.Init == nil {
		return n, nil
	}
	init, err := n.Init.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Init = init
	if IsLiteral(init) {
		vars[scope.Hash(n.Ident.Name)] = init
	}
	return n, nil
}

func (n *Global) Analyze(sc *scope.Scope) error {
	if sc.Parent != nil {
		return fmt.Errorf("ast: global declaration %q must appear at the top level", n.Ident.Name)
	}
	if sc.HasLocal(n.Ident.Name) {
		return redeclarationError("global identifier", n.Ident.Name)
	}
	offset := sc.DeclareGlobal(n.Ident.Name)
	n.Ident.Hash = scope.Hash(n.Ident.Name)
	n.Ident.Binding = scope.Binding{Kind: scope.Global, Offset: offset}
	if n.Init != nil {
		return n.Init.Analyze(sc)
	}
	return nil
}

func (n *Global) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	if n.Init != nil {
		return n.Init.Walk(fn)
	}
	return nil
}

func (n *Global) CompileToBytecode(cc *compilectx.Context) error {
	if n.Init != nil {
		if err := n.Init.CompileToBytecode(cc); err != nil {
			return err
		}
	} else {
		cc.Emit(bytecode.NULL)
	}
	cc.Emit(bytecode.POKE_GLOBAL, bytecode.Cell(n.Ident.Binding.Offset))
	return nil
}

// Use is `use name;`, binding name as a library reference resolvable
// anywhere in the program; valid only at the root scope.
type Use struct {
	Base
	Ident *Library
}

var _ Node = (*Use)(nil)

func (n *Use) Destroy() {}
func (n *Use) String() string { return "use " + n.Ident.Name }

func (n *Use) Simplify(VarMap) (Node, error) { return n, nil }

func (n *Use) Analyze(sc *scope.Scope) error {
	if sc.Parent != nil {
		return fmt.Errorf("ast: use statement for %q must appear at the top level", n.Ident.Name)
	}
	if sc.IsLibraryDeclared(n.Ident.Name) {
		return redeclarationError("library", n.Ident.Name)
	}
	sc.DeclareLibrary(n.Ident.Name)
	return n.Ident.Analyze(sc)
}

func (n *Use) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return n.Ident.Walk(fn)
}

func (n *Use) CompileToBytecode(cc *compilectx.Context) error {
	return n.Ident.CompileToBytecode(cc)
}

// Function is a named function declaration with parameters and a body
// (§3.3, §4.2, §4.5).
type Function struct {
	Base
	Name        string
	Params      []string
	Body        Node
	MangledName string
	bodyScope   *scope.Scope
}

var _ Node = (*Function)(nil)

func (n *Function) Destroy() { n.Body.Destroy() }
func (n *Function) String() string { return "function " + n.Name + "(...) " + n.Body.String() }

func (n *Function) Simplify(vars VarMap) (Node, error) {
	// A function body is compiled once, independent of any call site's
	// propagated constants, so it simplifies with a fresh, empty map
	// rather than inheriting the caller's vars.
	body, err := n.Body.Simplify(make(VarMap))
	if err != nil {
		return n, err
	}
	n.Body = body
	return n, nil
}

func (n *Function) Analyze(sc *scope.Scope) error {
	if sc.HasFunction(n.Name) {
		return redeclarationError("function", n.Name)
	}
	child, mangled := sc.DeclareFunction(n.Name)
	n.MangledName = mangled
	n.bodyScope = child
	for _, p := range n.Params {
		child.DeclareLocal(p)
	}
	return n.Body.Analyze(child)
}

func (n *Function) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return n.Body.Walk(fn)
}

func (n *Function) CompileToBytecode(cc *compilectx.Context) error {
	skip := cc.NewLabel()
	pos := cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(skip, compilectx.OperandOffset(pos))

	entry := len(cc.Bytecode)
	cc.Emit(bytecode.MARK_FP)
	cc.PushScope(n.bodyScope)
	if err := n.Body.CompileToBytecode(cc); err != nil {
		cc.PopScope()
		return err
	}
	cc.PopScope()
	cc.Emit(bytecode.RETURN)

	cc.SetLabel(skip)
	cc.Emit(bytecode.NULL)

	fn := value.NewStaticFunction(n.MangledName, len(n.Params))
	fn.BytecodeEntry = entry
	cc.SetFunctionConstant(n.MangledName, fn)
	return nil
}
