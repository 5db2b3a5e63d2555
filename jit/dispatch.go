//go:build amd64

package jit

import (
	"math"
	"reflect"
	"unsafe"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/value"
)

// dispatchBinary implements the not_supported retry protocol (§7) for the
// binary opcodes the JIT can emit a call to: if the forward attempt
// reports not_supported, retry once with operands swapped and
// selfIsLHS=false before surfacing the error.
func dispatchBinary(op int, lhs, rhs value.Value, ctx *value.Context) value.Value {
	try := func(self, other value.Value, selfIsLHS bool) value.Value {
		switch bytecode.Opcode(op) {
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
		retry := try(rhs, lhs, false)
		return retry
	}
	return result
}

func dispatchUnary(op int, operand value.Value, ctx *value.Context) value.Value {
	switch bytecode.Opcode(op) {
	case bytecode.NEG:
		return operand.Negate(ctx)
	case bytecode.NOT:
		return operand.LogicalNot(ctx)
	default:
		return value.NotImplemented(ctx)
	}
}

func floatFromBits(bits uint64) float64 { return math.Float64frombits(bits) }

func bytesFromPtr(ptr uintptr, length int) string {
	var s string
	hdr := (*reflect.StringHeader)(unsafe.Pointer(&s))
	hdr.Data = ptr
	hdr.Len = length
	return s
}

func argsFromPtr(ptr uintptr, argc int) []value.Value {
	return unsafe.Slice((*value.Value)(unsafe.Pointer(ptr)), argc)
}
