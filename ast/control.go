package ast

import (
	"fmt"
	"strings"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
)

// Block is a sequence of statements evaluating to its last statement's
// value (§4.5: "emit each statement, emitting POP after every statement
// except the last... an empty block emits a single NULL").
type Block struct {
	Base
	Statements []Node
}

var _ Node = (*Block)(nil)

func (n *Block) Destroy() {
	for _, s := range n.Statements {
		s.Destroy()
	}
}

func (n *Block) String() string {
	parts := make([]string, len(n.Statements))
	for i, s := range n.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (n *Block) Simplify(vars VarMap) (Node, error) {
	for i, s := range n.Statements {
		simplified, err := s.Simplify(vars)
		if err != nil {
			return n, err
		}
		n.Statements[i] = simplified
	}
	return n, nil
}

func (n *Block) Analyze(sc *scope.Scope) error {
	for _, s := range n.Statements {
		if err := s.Analyze(sc); err != nil {
			return err
		}
	}
	return nil
}

func (n *Block) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Statements...)
}

func (n *Block) CompileToBytecode(cc *compilectx.Context) error {
	if len(n.Statements) == 0 {
		cc.Emit(bytecode.NULL)
		return nil
	}
	for i, s := range n.Statements {
		if err := s.CompileToBytecode(cc); err != nil {
			return err
		}
		if i != len(n.Statements)-1 {
			cc.Emit(bytecode.POP)
		}
	}
	return nil
}

// assignedIdentifierHashes walks n collecting the identifier hashes
// every Assign-to-Identifier inside it targets, used by loop nodes to
// invalidate the variable map before descending (§4.2).
func assignedIdentifierHashes(n Node) map[uint64]bool {
	out := make(map[uint64]bool)
	_ = n.Walk(func(child Node) error {
		if a, ok := child.(*Assign); ok {
			if id, ok := a.Lhs.(*Identifier); ok {
				out[scope.Hash(id.Name)] = true
			}
		}
		return nil
	})
	return out
}

func invalidate(vars VarMap, hashes map[uint64]bool) {
	for h := range hashes {
		delete(vars, h)
	}
}

// If is an `if condition { ifBlock } else { elseBlock }` (Else may be
// nil).
type If struct {
	Base
	Condition Node
	Then      Node
	Else      Node
}

var _ Node = (*If)(nil)

func (n *If) Destroy() {
	n.Condition.Destroy()
	n.Then.Destroy()
	if n.Else != nil {
		n.Else.Destroy()
	}
}

func (n *If) String() string {
	if n.Else == nil {
		return fmt.Sprintf("if %s %s", n.Condition.String(), n.Then.String())
	}
	return fmt.Sprintf("if %s %s else %s", n.Condition.String(), n.Then.String(), n.Else.String())
}

func (n *If) Simplify(vars VarMap) (Node, error) {
	cond, err := n.Condition.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Condition = cond

	if b, ok := cond.(*Boolean); ok {
		if b.Value {
			return n.Then.Simplify(vars)
		}
		if n.Else != nil {
			return n.Else.Simplify(vars)
		}
		return &Null{Base: Base{Pos: n.Pos}}, nil
	}

	thenVars := vars.Clone()
	then, err := n.Then.Simplify(thenVars)
	if err != nil {
		return n, err
	}
	n.Then = then

	elseVars := vars.Clone()
	if n.Else != nil {
		els, err := n.Else.Simplify(elseVars)
		if err != nil {
			return n, err
		}
		n.Else = els
	}

	reconciled := thenVars.Intersect(elseVars)
	for k := range vars {
		delete(vars, k)
	}
	for k, v := range reconciled {
		vars[k] = v
	}
	return n, nil
}

func (n *If) Analyze(sc *scope.Scope) error {
	if err := n.Condition.Analyze(sc); err != nil {
		return err
	}
	if err := n.Then.Analyze(sc); err != nil {
		return err
	}
	if n.Else != nil {
		return n.Else.Analyze(sc)
	}
	return nil
}

func (n *If) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	if err := n.Condition.Walk(fn); err != nil {
		return err
	}
	if err := n.Then.Walk(fn); err != nil {
		return err
	}
	if n.Else != nil {
		return n.Else.Walk(fn)
	}
	return nil
}

func (n *If) CompileToBytecode(cc *compilectx.Context) error {
	if err := n.Condition.CompileToBytecode(cc); err != nil {
		return err
	}
	// JMPF peeks rather than pops (§4.5, matching Binary's `&&`/`||`
	// short-circuit), so both the fallthrough and the jump-taken path
	// must explicitly pop the condition before leaving their own
	// result on the stack.
	elseLabel, endLabel := cc.NewLabel(), cc.NewLabel()
	pos := cc.Emit(bytecode.JMPF, 0)
	cc.AddLabelJumpBytecode(elseLabel, compilectx.OperandOffset(pos))
	cc.Emit(bytecode.POP)
	if err := n.Then.CompileToBytecode(cc); err != nil {
		return err
	}
	pos = cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(endLabel, compilectx.OperandOffset(pos))
	cc.SetLabel(elseLabel)
	cc.Emit(bytecode.POP)
	if n.Else != nil {
		if err := n.Else.CompileToBytecode(cc); err != nil {
			return err
		}
	} else {
		cc.Emit(bytecode.NULL)
	}
	cc.SetLabel(endLabel)
	return nil
}

// While is `while condition { body }`.
type While struct {
	Base
	Condition Node
	Body      Node
}

var _ Node = (*While)(nil)

func (n *While) Destroy() { n.Condition.Destroy(); n.Body.Destroy() }
func (n *While) String() string { return fmt.Sprintf("while %s %s", n.Condition.String(), n.Body.String()) }

func (n *While) Simplify(vars VarMap) (Node, error) {
	invalidate(vars, assignedIdentifierHashes(n.Body))
	cond, err := n.Condition.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Condition = cond
	body, err := n.Body.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Body = body
	return n, nil
}

func (n *While) Analyze(sc *scope.Scope) error {
	if err := n.Condition.Analyze(sc); err != nil {
		return err
	}
	return n.Body.Analyze(sc)
}

func (n *While) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Condition, n.Body)
}

func (n *While) CompileToBytecode(cc *compilectx.Context) error {
	top := cc.NewLabel()
	saveBreak, saveContinue := cc.BreakLabel, cc.ContinueLabel
	cc.ContinueLabel = top
	cc.BreakLabel = cc.NewLabel()
	defer func() { cc.BreakLabel, cc.ContinueLabel = saveBreak, saveContinue }()

	// JMPF peeks rather than pops, so both the fallthrough (condition
	// true, into body) and the jump-taken (condition false, to exit)
	// path explicitly discard it; exit pops the condition and falls
	// through into BreakLabel, which `break` also targets directly
	// (arriving with nothing extra on the stack) before pushing Null.
	exit := cc.NewLabel()
	cc.SetLabel(top)
	if err := n.Condition.CompileToBytecode(cc); err != nil {
		return err
	}
	pos := cc.Emit(bytecode.JMPF, 0)
	cc.AddLabelJumpBytecode(exit, compilectx.OperandOffset(pos))
	cc.Emit(bytecode.POP)
	if err := n.Body.CompileToBytecode(cc); err != nil {
		return err
	}
	cc.Emit(bytecode.POP)
	jpos := cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(top, compilectx.OperandOffset(jpos))
	cc.SetLabel(exit)
	cc.Emit(bytecode.POP)
	cc.SetLabel(cc.BreakLabel)
	cc.Emit(bytecode.NULL)
	return nil
}

// DoWhile is `do { body } while condition`.
type DoWhile struct {
	Base
	Body      Node
	Condition Node
}

var _ Node = (*DoWhile)(nil)

func (n *DoWhile) Destroy() { n.Body.Destroy(); n.Condition.Destroy() }
func (n *DoWhile) String() string { return fmt.Sprintf("do %s while %s", n.Body.String(), n.Condition.String()) }

func (n *DoWhile) Simplify(vars VarMap) (Node, error) {
	invalidate(vars, assignedIdentifierHashes(n.Body))
	body, err := n.Body.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Body = body
	cond, err := n.Condition.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Condition = cond
	return n, nil
}

func (n *DoWhile) Analyze(sc *scope.Scope) error {
	if err := n.Body.Analyze(sc); err != nil {
		return err
	}
	return n.Condition.Analyze(sc)
}

func (n *DoWhile) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Body, n.Condition)
}

func (n *DoWhile) CompileToBytecode(cc *compilectx.Context) error {
	top := cc.NewLabel()
	condLabel := cc.NewLabel()
	reentry := cc.NewLabel()
	done := cc.NewLabel()
	saveBreak, saveContinue := cc.BreakLabel, cc.ContinueLabel
	cc.ContinueLabel = condLabel
	cc.BreakLabel = cc.NewLabel()
	defer func() { cc.BreakLabel, cc.ContinueLabel = saveBreak, saveContinue }()

	cc.SetLabel(top)
	if err := n.Body.CompileToBytecode(cc); err != nil {
		return err
	}
	cc.Emit(bytecode.POP)
	cc.SetLabel(condLabel)
	if err := n.Condition.CompileToBytecode(cc); err != nil {
		return err
	}
	// JMPT peeks; reentry discards the true condition before looping
	// back to top, the fallthrough discards the false condition before
	// BreakLabel (which `break` also targets directly) pushes Null.
	pos := cc.Emit(bytecode.JMPT, 0)
	cc.AddLabelJumpBytecode(reentry, compilectx.OperandOffset(pos))
	cc.Emit(bytecode.POP)
	cc.SetLabel(cc.BreakLabel)
	cc.Emit(bytecode.NULL)
	jpos := cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(done, compilectx.OperandOffset(jpos))
	cc.SetLabel(reentry)
	cc.Emit(bytecode.POP)
	jpos2 := cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(top, compilectx.OperandOffset(jpos2))
	cc.SetLabel(done)
	return nil
}

// For is a C-style `for (init; condition; post) { body }`; any clause
// may be nil.
type For struct {
	Base
	Init      Node
	Condition Node
	Post      Node
	Body      Node
}

var _ Node = (*For)(nil)

func (n *For) Destroy() {
	if n.Init != nil {
		n.Init.Destroy()
	}
	if n.Condition != nil {
		n.Condition.Destroy()
	}
	if n.Post != nil {
		n.Post.Destroy()
	}
	n.Body.Destroy()
}

func (n *For) String() string { return fmt.Sprintf("for (...) %s", n.Body.String()) }

func (n *For) Simplify(vars VarMap) (Node, error) {
	if n.Init != nil {
		init, err := n.Init.Simplify(vars)
		if err != nil {
			return n, err
		}
		n.Init = init
	}
	invalidate(vars, assignedIdentifierHashes(n.Body))
	if n.Post != nil {
		invalidate(vars, assignedIdentifierHashes(n.Post))
	}
	if n.Condition != nil {
		cond, err := n.Condition.Simplify(vars)
		if err != nil {
			return n, err
		}
		n.Condition = cond
	}
	body, err := n.Body.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Body = body
	if n.Post != nil {
		post, err := n.Post.Simplify(vars)
		if err != nil {
			return n, err
		}
		n.Post = post
	}
	return n, nil
}

func (n *For) Analyze(sc *scope.Scope) error {
	if n.Init != nil {
		if err := n.Init.Analyze(sc); err != nil {
			return err
		}
	}
	if n.Condition != nil {
		if err := n.Condition.Analyze(sc); err != nil {
			return err
		}
	}
	if n.Post != nil {
		if err := n.Post.Analyze(sc); err != nil {
			return err
		}
	}
	return n.Body.Analyze(sc)
}

func (n *For) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Init, n.Condition, n.Body, n.Post)
}

func (n *For) CompileToBytecode(cc *compilectx.Context) error {
	if n.Init != nil {
		if err := n.Init.CompileToBytecode(cc); err != nil {
			return err
		}
		cc.Emit(bytecode.POP)
	}
	top := cc.NewLabel()
	postLabel := cc.NewLabel()
	saveBreak, saveContinue := cc.BreakLabel, cc.ContinueLabel
	cc.ContinueLabel = postLabel
	cc.BreakLabel = cc.NewLabel()
	defer func() { cc.BreakLabel, cc.ContinueLabel = saveBreak, saveContinue }()

	var exit compilectx.Label
	hasExit := n.Condition != nil
	if hasExit {
		exit = cc.NewLabel()
	}
	cc.SetLabel(top)
	if n.Condition != nil {
		if err := n.Condition.CompileToBytecode(cc); err != nil {
			return err
		}
		// JMPF peeks; discard the condition on both the fallthrough
		// (into body) and the jump-taken (to exit) path.
		pos := cc.Emit(bytecode.JMPF, 0)
		cc.AddLabelJumpBytecode(exit, compilectx.OperandOffset(pos))
		cc.Emit(bytecode.POP)
	}
	if err := n.Body.CompileToBytecode(cc); err != nil {
		return err
	}
	cc.Emit(bytecode.POP)
	cc.SetLabel(postLabel)
	if n.Post != nil {
		if err := n.Post.CompileToBytecode(cc); err != nil {
			return err
		}
		cc.Emit(bytecode.POP)
	}
	jpos := cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(top, compilectx.OperandOffset(jpos))
	if hasExit {
		cc.SetLabel(exit)
		cc.Emit(bytecode.POP)
	}
	cc.SetLabel(cc.BreakLabel)
	cc.Emit(bytecode.NULL)
	return nil
}

// RangedFor is `for (item in iterable) { body }`.
type RangedFor struct {
	Base
	Var      *Identifier
	Iterable Node
	Body     Node
}

var _ Node = (*RangedFor)(nil)

func (n *RangedFor) Destroy() { n.Iterable.Destroy(); n.Body.Destroy() }
func (n *RangedFor) String() string {
	return fmt.Sprintf("for %s in %s %s", n.Var.String(), n.Iterable.String(), n.Body.String())
}

func (n *RangedFor) Simplify(vars VarMap) (Node, error) {
	iter, err := n.Iterable.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Iterable = iter
	invalidate(vars, map[uint64]bool{scope.Hash(n.Var.Name): true})
	invalidate(vars, assignedIdentifierHashes(n.Body))
	body, err := n.Body.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Body = body
	return n, nil
}

func (n *RangedFor) Analyze(sc *scope.Scope) error {
	if err := n.Iterable.Analyze(sc); err != nil {
		return err
	}
	sc.DeclareLocal(n.Var.Name)
	if err := n.Var.Analyze(sc); err != nil {
		return err
	}
	return n.Body.Analyze(sc)
}

func (n *RangedFor) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Iterable, n.Var, n.Body)
}

func (n *RangedFor) CompileToBytecode(cc *compilectx.Context) error {
	if err := n.Iterable.CompileToBytecode(cc); err != nil {
		return err
	}
	cc.Emit(bytecode.ITERATOR)
	top := cc.NewLabel()
	saveBreak, saveContinue := cc.BreakLabel, cc.ContinueLabel
	cc.ContinueLabel = top
	cc.BreakLabel = cc.NewLabel()
	defer func() { cc.BreakLabel, cc.ContinueLabel = saveBreak, saveContinue }()

	exit := cc.NewLabel()
	cc.SetLabel(top)
	// ITERATOR_NEXT peeks the iterator sitting under it (leaving it
	// for the next iteration) and pushes (value, hasNext) (§4.6). JMPF
	// peeks hasNext, so both paths must explicitly pop it: the
	// fallthrough (more elements) pops it then stores the iterated
	// value; exit pops it then discards the stale value alongside it,
	// leaving just the iterator to be popped before BreakLabel (which
	// `break` also targets directly, arriving with just the iterator
	// on the stack) produces Null.
	cc.Emit(bytecode.ITERATOR_NEXT)
	pos := cc.Emit(bytecode.JMPF, 0)
	cc.AddLabelJumpBytecode(exit, compilectx.OperandOffset(pos))
	cc.Emit(bytecode.POP)
	switch n.Var.Binding.Kind {
	case scope.Local:
		cc.Emit(bytecode.POKE_LOCAL, bytecode.Cell(n.Var.Binding.Offset))
	case scope.Global:
		cc.Emit(bytecode.POKE_GLOBAL, bytecode.Cell(n.Var.Binding.Offset))
	}
	cc.Emit(bytecode.POP)
	if err := n.Body.CompileToBytecode(cc); err != nil {
		return err
	}
	cc.Emit(bytecode.POP)
	jpos := cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(top, compilectx.OperandOffset(jpos))
	cc.SetLabel(exit)
	cc.Emit(bytecode.POP) // discard hasNext=false
	cc.Emit(bytecode.POP) // discard the stale value ITERATOR_NEXT still pushed
	cc.SetLabel(cc.BreakLabel)
	cc.Emit(bytecode.POP) // discard the iterator itself before producing the loop's result
	cc.Emit(bytecode.NULL)
	return nil
}

// Break and Continue jump to the Compiler Context's current
// break/continue label. In bytecode they push nothing (the enclosing
// loop's break epilogue pushes the loop's Null result); the native form
// loads Null into RAX before jumping.
type Break struct{ Base }

var _ Node = (*Break)(nil)

func (n *Break) Destroy()                         {}
func (n *Break) String() string                   { return "break" }
func (n *Break) Simplify(VarMap) (Node, error)     { return n, nil }
func (n *Break) Analyze(*scope.Scope) error        { return nil }
func (n *Break) Walk(fn func(Node) error) error    { return fn(n) }
func (n *Break) CompileToBytecode(cc *compilectx.Context) error {
	// No value is pushed here: every loop's BreakLabel epilogue pushes
	// the Null result itself, after popping whatever bookkeeping value
	// (e.g. a RangedFor's iterator) that loop keeps on the stack. A
	// statement-position jump leaves the preceding statements' already-
	// popped stack depth undisturbed, so the epilogue sees the same
	// depth whether it arrived via exhaustion or via this jump.
	pos := cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(cc.BreakLabel, compilectx.OperandOffset(pos))
	return nil
}

type Continue struct{ Base }

var _ Node = (*Continue)(nil)

func (n *Continue) Destroy()                      {}
func (n *Continue) String() string                { return "continue" }
func (n *Continue) Simplify(VarMap) (Node, error)  { return n, nil }
func (n *Continue) Analyze(*scope.Scope) error     { return nil }
func (n *Continue) Walk(fn func(Node) error) error { return fn(n) }
func (n *Continue) CompileToBytecode(cc *compilectx.Context) error {
	// ContinueLabel always targets a condition re-check (or, for
	// RangedFor, the next ITERATOR_NEXT), never an expression-value
	// consumer, so nothing should be pushed before jumping there.
	pos := cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(cc.ContinueLabel, compilectx.OperandOffset(pos))
	return nil
}

// Return is `return expr;` (expr may be nil, meaning `return null;`).
type Return struct {
	Base
	Expr Node
}

var _ Node = (*Return)(nil)

func (n *Return) Destroy() {
	if n.Expr != nil {
		n.Expr.Destroy()
	}
}
func (n *Return) String() string {
	if n.Expr == nil {
		return "return"
	}
	return "return " + n.Expr.String()
}

func (n *Return) Simplify(vars VarMap) (Node, error) {
	if n.Expr == nil {
		return n, nil
	}
	expr, err := n.Expr.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Expr = expr
	return n, nil
}

func (n *Return) Analyze(sc *scope.Scope) error {
	if n.Expr == nil {
		return nil
	}
	return n.Expr.Analyze(sc)
}

func (n *Return) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	if n.Expr != nil {
		return n.Expr.Walk(fn)
	}
	return nil
}

func (n *Return) CompileToBytecode(cc *compilectx.Context) error {
	if n.Expr != nil {
		if err := n.Expr.CompileToBytecode(cc); err != nil {
			return err
		}
	} else {
		cc.Emit(bytecode.NULL)
	}
	cc.Emit(bytecode.RETURN)
	return nil
}

// Print is `print expr;`.
type Print struct {
	Base
	Expr Node
}

var _ Node = (*Print)(nil)

func (n *Print) Destroy() { n.Expr.Destroy() }
func (n *Print) String() string { return "print " + n.Expr.String() }

func (n *Print) Simplify(vars VarMap) (Node, error) {
	expr, err := n.Expr.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Expr = expr
	return n, nil
}

func (n *Print) Analyze(sc *scope.Scope) error { return n.Expr.Analyze(sc) }

func (n *Print) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return n.Expr.Walk(fn)
}

func (n *Print) CompileToBytecode(cc *compilectx.Context) error {
	if err := n.Expr.CompileToBytecode(cc); err != nil {
		return err
	}
	cc.Emit(bytecode.PRINT)
	return nil
}
