package vm

import (
	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/value"
)

// dispatchBinary and dispatchUnary translate a bytecode opcode into the
// matching value.Value operation method, the same table jit/dispatch.go
// carries for the native path — duplicated here rather than shared because
// jit is amd64-only (`//go:build amd64`) while the bytecode VM is the
// portable path every architecture falls back to (see DESIGN.md).
func dispatchBinary(op bytecode.Opcode, lhs, rhs value.Value, ctx *value.Context) value.Value {
	try := func(self, other value.Value, selfIsLHS bool) value.Value {
		switch op {
		case bytecode.ADD:
			return self.Add(other, selfIsLHS, ctx)
		case bytecode.SUB:
			return self.Subtract(other, selfIsLHS, ctx)
		case bytecode.MUL:
			return self.Multiply(other, selfIsLHS, ctx)
		case bytecode.DIV:
			return self.Divide(other, selfIsLHS, ctx)
		case bytecode.MOD:
			return self.Modulo(other, selfIsLHS, ctx)
		case bytecode.LT:
			return self.LessThan(other, selfIsLHS, ctx)
		case bytecode.LE:
			return self.LessEqual(other, selfIsLHS, ctx)
		case bytecode.GT:
			return self.GreaterThan(other, selfIsLHS, ctx)
		case bytecode.GE:
			return self.GreaterEqual(other, selfIsLHS, ctx)
		case bytecode.EQ:
			return self.Equal(other, selfIsLHS, ctx)
		case bytecode.NE:
			return self.NotEqual(other, selfIsLHS, ctx)
		case bytecode.AND:
			return self.LogicalAnd(other, selfIsLHS, ctx)
		case bytecode.OR:
			return self.LogicalOr(other, selfIsLHS, ctx)
		default:
			return value.NotImplemented(ctx)
		}
	}

	result := try(lhs, rhs, true)
	if e, ok := result.(*value.Error); ok && e.Kind == "not_supported" {
		return try(rhs, lhs, false)
	}
	return result
}

func dispatchUnary(op bytecode.Opcode, operand value.Value, ctx *value.Context) value.Value {
	switch op {
	case bytecode.NEG:
		return operand.Negate(ctx)
	case bytecode.NOT:
		return operand.LogicalNot(ctx)
	default:
		return value.NotImplemented(ctx)
	}
}
