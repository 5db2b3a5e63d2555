//go:build amd64

package ast

import (
	"fmt"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/jit"
	"github.com/tang-lang/tang/scope"
)

// This file implements NativeCompiler for the representative node
// subset §4.7 names directly (literals, Unary, Binary, Index, Break,
// Continue, Block) plus the naturals needed to make that subset
// composable without reaching into bytecode: Identifier local/global
// reads, If, Print, Return, and Assign to an identifier. A node kind
// with no CompileToNative method here, or one that returns an error
// from it (e.g. Binary's `&&`/`||`, an Assign to an Index, an
// Identifier bound to a function or library), makes the whole
// enclosing Program fall back to bytecode-only execution — see
// DESIGN.md's note on why native coverage is all-or-nothing per
// Program rather than mixed per function.

func compileNative(cc *compilectx.Context, n Node) error {
	nc, ok := n.(NativeCompiler)
	if !ok {
		return fmt.Errorf("ast: %T has no native compilation support", n)
	}
	return nc.CompileToNative(cc)
}

var _ NativeCompiler = (*Integer)(nil)

func (n *Integer) CompileToNative(cc *compilectx.Context) error {
	jit.EmitIntegerLiteral(cc, n.Value)
	return nil
}

var _ NativeCompiler = (*Float)(nil)

func (n *Float) CompileToNative(cc *compilectx.Context) error {
	jit.EmitFloatLiteral(cc, floatBits(n.Value))
	return nil
}

var _ NativeCompiler = (*Boolean)(nil)

func (n *Boolean) CompileToNative(cc *compilectx.Context) error {
	jit.EmitBooleanLiteral(cc, n.Value)
	return nil
}

var _ NativeCompiler = (*Null)(nil)

func (n *Null) CompileToNative(cc *compilectx.Context) error {
	jit.EmitNullLiteral(cc)
	return nil
}

var _ NativeCompiler = (*String)(nil)

func (n *String) CompileToNative(cc *compilectx.Context) error {
	idx := cc.InternString(n.Value)
	ptr, length := jit.StringConstAddr(cc, idx)
	jit.EmitStringLiteral(cc, ptr, length)
	return nil
}

var _ NativeCompiler = (*Unary)(nil)

func (n *Unary) CompileToNative(cc *compilectx.Context) error {
	if err := compileNative(cc, n.Operand); err != nil {
		return err
	}
	switch n.Op {
	case "-":
		jit.EmitUnary(cc, bytecode.NEG)
	case "!":
		jit.EmitUnary(cc, bytecode.NOT)
	default:
		return fmt.Errorf("ast: unknown unary operator %q", n.Op)
	}
	return nil
}

var _ NativeCompiler = (*Binary)(nil)

func (n *Binary) CompileToNative(cc *compilectx.Context) error {
	// `&&`/`||` need a conditional branch on the lhs's truthiness before
	// the rhs is even evaluated (§4.5's short-circuit requirement); that
	// branch belongs in a later pass once it is worth the extra emitted
	// code. For now these two operators fall back to bytecode.
	if n.Op == "&&" || n.Op == "||" {
		return fmt.Errorf("ast: native compilation does not support short-circuit operator %q", n.Op)
	}
	op, ok := binaryOpcodes[n.Op]
	if !ok {
		return fmt.Errorf("ast: unknown binary operator %q", n.Op)
	}
	if err := compileNative(cc, n.Lhs); err != nil {
		return err
	}
	jit.PushOperand(cc)
	if err := compileNative(cc, n.Rhs); err != nil {
		return err
	}
	jit.EmitBinaryOpCall(cc, op)
	return nil
}

var _ NativeCompiler = (*Index)(nil)

func (n *Index) CompileToNative(cc *compilectx.Context) error {
	if err := compileNative(cc, n.Receiver); err != nil {
		return err
	}
	jit.PushOperand(cc)
	if err := compileNative(cc, n.Idx); err != nil {
		return err
	}
	jit.EmitIndexCall(cc)
	return nil
}

var _ NativeCompiler = (*Identifier)(nil)

func (n *Identifier) CompileToNative(cc *compilectx.Context) error {
	switch n.Binding.Kind {
	case scope.Local:
		jit.EmitPeekLocal(cc, n.Binding.Offset)
	case scope.Global:
		jit.EmitPeekGlobal(cc, n.Binding.Offset)
	default:
		return fmt.Errorf("ast: native compilation does not support identifier %q's binding kind", n.Name)
	}
	return nil
}

var _ NativeCompiler = (*Block)(nil)

func (n *Block) CompileToNative(cc *compilectx.Context) error {
	if len(n.Statements) == 0 {
		jit.EmitNullLiteral(cc)
		return nil
	}
	for _, s := range n.Statements {
		if err := compileNative(cc, s); err != nil {
			return err
		}
	}
	return nil
}

var _ NativeCompiler = (*Break)(nil)

func (n *Break) CompileToNative(cc *compilectx.Context) error {
	jit.EmitBreakOrContinue(cc, cc.BreakLabel)
	return nil
}

var _ NativeCompiler = (*Continue)(nil)

func (n *Continue) CompileToNative(cc *compilectx.Context) error {
	jit.EmitBreakOrContinue(cc, cc.ContinueLabel)
	return nil
}

var _ NativeCompiler = (*If)(nil)

func (n *If) CompileToNative(cc *compilectx.Context) error {
	if err := compileNative(cc, n.Condition); err != nil {
		return err
	}
	elseLabel, endLabel := cc.NewLabel(), cc.NewLabel()
	jit.EmitJumpIfFalsy(cc, elseLabel)
	if err := compileNative(cc, n.Then); err != nil {
		return err
	}
	jit.New(cc).JmpRel32(endLabel)
	cc.SetLabelNative(elseLabel)
	if n.Else != nil {
		if err := compileNative(cc, n.Else); err != nil {
			return err
		}
	} else {
		jit.EmitNullLiteral(cc)
	}
	cc.SetLabelNative(endLabel)
	return nil
}

var _ NativeCompiler = (*Print)(nil)

func (n *Print) CompileToNative(cc *compilectx.Context) error {
	if err := compileNative(cc, n.Expr); err != nil {
		return err
	}
	jit.EmitPrint(cc)
	return nil
}

var _ NativeCompiler = (*Return)(nil)

func (n *Return) CompileToNative(cc *compilectx.Context) error {
	if n.Expr != nil {
		if err := compileNative(cc, n.Expr); err != nil {
			return err
		}
	} else {
		jit.EmitNullLiteral(cc)
	}
	jit.New(cc).JmpRel32(cc.ReturnLabel)
	return nil
}

var _ NativeCompiler = (*Assign)(nil)

func (n *Assign) CompileToNative(cc *compilectx.Context) error {
	lhs, ok := n.Lhs.(*Identifier)
	if !ok {
		return fmt.Errorf("ast: native compilation only supports assignment to an identifier, got %T", n.Lhs)
	}
	if err := compileNative(cc, n.Rhs); err != nil {
		return err
	}
	switch lhs.Binding.Kind {
	case scope.Local:
		jit.EmitPokeLocal(cc, lhs.Binding.Offset)
	case scope.Global:
		jit.EmitPokeGlobal(cc, lhs.Binding.Offset)
	default:
		return fmt.Errorf("ast: cannot natively assign to %q", lhs.Name)
	}
	return nil
}
