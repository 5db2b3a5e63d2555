package ast

import (
	"fmt"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
	"github.com/tang-lang/tang/value"
)

// Unary is a prefix operator over a single operand, `op ∈ {neg, not}`
// (§3.3).
type Unary struct {
	Base
	Op      string // "-" or "!"
	Operand Node
}

var _ Node = (*Unary)(nil)

func (n *Unary) Destroy() { n.Operand.Destroy() }
func (n *Unary) String() string { return fmt.Sprintf("(%s%s)", n.Op, n.Operand.String()) }

func (n *Unary) Simplify(vars VarMap) (Node, error) {
	operand, err := n.Operand.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Operand = operand
	if IsLiteral(operand) {
		if folded, ok := foldUnary(n.Op, operand, n.Pos); ok {
			return folded, nil
		}
	}
	return n, nil
}

func (n *Unary) Analyze(sc *scope.Scope) error {
	return n.Operand.Analyze(sc)
}

func (n *Unary) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return n.Operand.Walk(fn)
}

func (n *Unary) CompileToBytecode(cc *compilectx.Context) error {
	if err := n.Operand.CompileToBytecode(cc); err != nil {
		return err
	}
	switch n.Op {
	case "-":
		cc.Emit(bytecode.NEG)
	case "!":
		cc.Emit(bytecode.NOT)
	default:
		return fmt.Errorf("ast: unknown unary operator %q", n.Op)
	}
	return nil
}

// Binary is an infix operator, `op ∈ {+,−,*,/,%,<,≤,>,≥,=,≠,&&,||}`.
type Binary struct {
	Base
	Op  string
	Lhs Node
	Rhs Node
}

var _ Node = (*Binary)(nil)

func (n *Binary) Destroy() { n.Lhs.Destroy(); n.Rhs.Destroy() }
func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Lhs.String(), n.Op, n.Rhs.String())
}

func (n *Binary) Simplify(vars VarMap) (Node, error) {
	lhs, err := n.Lhs.Simplify(vars)
	if err != nil {
		return n, err
	}
	rhs, err := n.Rhs.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Lhs, n.Rhs = lhs, rhs
	if IsLiteral(lhs) && IsLiteral(rhs) {
		if folded, ok := foldBinary(n.Op, lhs, rhs, n.Pos); ok {
			return folded, nil
		}
	}
	return n, nil
}

func (n *Binary) Analyze(sc *scope.Scope) error {
	if err := n.Lhs.Analyze(sc); err != nil {
		return err
	}
	return n.Rhs.Analyze(sc)
}

func (n *Binary) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Lhs, n.Rhs)
}

var binaryOpcodes = map[string]bytecode.Opcode{
	"+": bytecode.ADD, "-": bytecode.SUB, "*": bytecode.MUL, "/": bytecode.DIV, "%": bytecode.MOD,
	"<": bytecode.LT, "<=": bytecode.LE, ">": bytecode.GT, ">=": bytecode.GE,
	"==": bytecode.EQ, "!=": bytecode.NE,
}

func (n *Binary) CompileToBytecode(cc *compilectx.Context) error {
	// `&&`/`||` short-circuit: compile lhs, peek it (leaving it on the
	// stack as the block-result candidate), jump past rhs if it already
	// decides the result, else pop it and compile rhs (§4.5).
	if n.Op == "&&" || n.Op == "||" {
		if err := n.Lhs.CompileToBytecode(cc); err != nil {
			return err
		}
		end := cc.NewLabel()
		if n.Op == "&&" {
			pos := cc.Emit(bytecode.JMPF, 0)
			cc.AddLabelJumpBytecode(end, compilectx.OperandOffset(pos))
		} else {
			pos := cc.Emit(bytecode.JMPT, 0)
			cc.AddLabelJumpBytecode(end, compilectx.OperandOffset(pos))
		}
		cc.Emit(bytecode.POP)
		if err := n.Rhs.CompileToBytecode(cc); err != nil {
			return err
		}
		cc.SetLabel(end)
		return nil
	}

	if err := n.Lhs.CompileToBytecode(cc); err != nil {
		return err
	}
	if err := n.Rhs.CompileToBytecode(cc); err != nil {
		return err
	}
	op, ok := binaryOpcodes[n.Op]
	if !ok {
		return fmt.Errorf("ast: unknown binary operator %q", n.Op)
	}
	cc.Emit(op)
	return nil
}

// Cast converts expression's runtime value to target type ∈ {int,
// float, bool, string}.
type Cast struct {
	Base
	Expr   Node
	Target value.Type
}

var _ Node = (*Cast)(nil)

func (n *Cast) Destroy() { n.Expr.Destroy() }
func (n *Cast) String() string { return fmt.Sprintf("(%s as %s)", n.Expr.String(), n.Target) }

func (n *Cast) Simplify(vars VarMap) (Node, error) {
	expr, err := n.Expr.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Expr = expr
	return n, nil
}

func (n *Cast) Analyze(sc *scope.Scope) error { return n.Expr.Analyze(sc) }

func (n *Cast) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return n.Expr.Walk(fn)
}

var castTags = map[value.Type]bytecode.TypeTag{
	value.IntegerType: bytecode.TagInt, value.FloatType: bytecode.TagFloat,
	value.BooleanType: bytecode.TagBool, value.StringType: bytecode.TagString,
}

func (n *Cast) CompileToBytecode(cc *compilectx.Context) error {
	if err := n.Expr.CompileToBytecode(cc); err != nil {
		return err
	}
	tag, ok := castTags[n.Target]
	if !ok {
		return fmt.Errorf("ast: unsupported cast target %s", n.Target)
	}
	cc.Emit(bytecode.CAST, bytecode.Cell(tag))
	return nil
}

// Ternary is `condition ? if-true : if-false`.
type Ternary struct {
	Base
	Condition Node
	IfTrue    Node
	IfFalse   Node
}

var _ Node = (*Ternary)(nil)

func (n *Ternary) Destroy() { n.Condition.Destroy(); n.IfTrue.Destroy(); n.IfFalse.Destroy() }
func (n *Ternary) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", n.Condition.String(), n.IfTrue.String(), n.IfFalse.String())
}

func (n *Ternary) Simplify(vars VarMap) (Node, error) {
	cond, err := n.Condition.Simplify(vars)
	if err != nil {
		return n, err
	}
	n.Condition = cond
	if b, ok := cond.(*Boolean); ok {
		if b.Value {
			return n.IfTrue.Simplify(vars)
		}
		return n.IfFalse.Simplify(vars)
	}
	trueVars := vars.Clone()
	falseVars := vars.Clone()
	ifTrue, err := n.IfTrue.Simplify(trueVars)
	if err != nil {
		return n, err
	}
	ifFalse, err := n.IfFalse.Simplify(falseVars)
	if err != nil {
		return n, err
	}
	n.IfTrue, n.IfFalse = ifTrue, ifFalse
	reconciled := trueVars.Intersect(falseVars)
	for k := range vars {
		delete(vars, k)
	}
	for k, v := range reconciled {
		vars[k] = v
	}
	return n, nil
}

func (n *Ternary) Analyze(sc *scope.Scope) error {
	if err := n.Condition.Analyze(sc); err != nil {
		return err
	}
	if err := n.IfTrue.Analyze(sc); err != nil {
		return err
	}
	return n.IfFalse.Analyze(sc)
}

func (n *Ternary) Walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	return walkAll(fn, n.Condition, n.IfTrue, n.IfFalse)
}

func (n *Ternary) CompileToBytecode(cc *compilectx.Context) error {
	if err := n.Condition.CompileToBytecode(cc); err != nil {
		return err
	}
	// JMPF peeks, so both paths must explicitly discard the condition
	// (mirrors If's CompileToBytecode).
	elseLabel, endLabel := cc.NewLabel(), cc.NewLabel()
	pos := cc.Emit(bytecode.JMPF, 0)
	cc.AddLabelJumpBytecode(elseLabel, compilectx.OperandOffset(pos))
	cc.Emit(bytecode.POP)
	if err := n.IfTrue.CompileToBytecode(cc); err != nil {
		return err
	}
	pos = cc.Emit(bytecode.JMP, 0)
	cc.AddLabelJumpBytecode(endLabel, compilectx.OperandOffset(pos))
	cc.SetLabel(elseLabel)
	cc.Emit(bytecode.POP)
	if err := n.IfFalse.CompileToBytecode(cc); err != nil {
		return err
	}
	cc.SetLabel(endLabel)
	return nil
}
