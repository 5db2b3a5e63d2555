// Package vm implements the portable bytecode dispatch loop (§4.6): the
// execution path every architecture can run, and the one a Program falls
// back to whenever any part of its AST could not be compiled to native
// machine code (§4.8).
package vm

import (
	"fmt"
	"math"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/value"
)

// Run executes ins against ctx starting at cell 0, using stringConstants
// and functionConstants for STRING/LOAD_LIBRARY/LOAD's immediates — the
// same tables the Compiler Context built during compilation (§4.4). It
// returns the value the top-level program evaluated to, or an error if
// execution faults (stack underflow, unknown opcode, an unresolved
// library name reached at call time is not a fault — it resolves to the
// not_implemented singleton, matching rtLoadLibrary's native twin).
func Run(ctx *value.Context, ins bytecode.Instructions, stringConstants []string, functionConstants []*value.Function) (value.Value, error) {
	var (
		pc      int
		pcStack []int
		bpStack []int
	)

	pop := func() (value.Value, error) {
		if len(ctx.Stack) == 0 {
			return nil, fmt.Errorf("vm: stack underflow at cell %d", pc)
		}
		v := ctx.Stack[len(ctx.Stack)-1]
		ctx.Stack = ctx.Stack[:len(ctx.Stack)-1]
		return v, nil
	}
	push := func(v value.Value) { ctx.Stack = append(ctx.Stack, v) }
	top := func() (value.Value, error) {
		if len(ctx.Stack) == 0 {
			return nil, fmt.Errorf("vm: stack underflow at cell %d", pc)
		}
		return ctx.Stack[len(ctx.Stack)-1], nil
	}

	for pc < len(ins) {
		op := bytecode.Opcode(ins[pc])
		def, err := bytecode.Lookup(op)
		if err != nil {
			return nil, err
		}
		operands, _ := bytecode.ReadOperands(def, ins[pc+1:])
		next := pc + 1 + def.Operands

		switch op {
		case bytecode.NULL:
			push(value.Null)
		case bytecode.BOOLEAN:
			push(value.NewBoolean(operands[0] != 0))
		case bytecode.FLOAT:
			push(value.NewFloat(ctx, math.Float64frombits(uint64(operands[0]))))
		case bytecode.INTEGER:
			push(value.NewInteger(ctx, int64(operands[0])))
		case bytecode.STRING:
			push(value.NewString(ctx, stringConstants[operands[0]], 0))
		case bytecode.ARRAY:
			n := int(operands[0])
			start := len(ctx.Stack) - n
			elems := make([]value.Value, n)
			copy(elems, ctx.Stack[start:])
			ctx.Stack = ctx.Stack[:start]
			push(value.NewArray(ctx, elems))
		case bytecode.MAP:
			n := int(operands[0])
			start := len(ctx.Stack) - 2*n
			keys := make([]string, n)
			values := make([]value.Value, n)
			for i := 0; i < n; i++ {
				keys[i] = ctx.Stack[start+2*i].ToString(ctx)
				values[i] = ctx.Stack[start+2*i+1]
			}
			ctx.Stack = ctx.Stack[:start]
			push(value.NewMap(ctx, keys, values))
		case bytecode.CAST:
			v, err := pop()
			if err != nil {
				return nil, err
			}
			t, ok := typeTags[bytecode.TypeTag(operands[0])]
			if !ok {
				return nil, fmt.Errorf("vm: unknown cast tag %d at cell %d", operands[0], pc)
			}
			push(v.Cast(t, ctx))

		case bytecode.POP:
			if _, err := pop(); err != nil {
				return nil, err
			}

		// PUSH_BP/POP_BP/PUSH_FP/POP_FP are never emitted by the compiler
		// (CALL/RETURN manage the frame pointer directly, see below), but
		// get plausible standalone semantics for ISA completeness: Context
		// carries a single FP, not separate base/frame pointers, so both
		// pairs alias the same save/restore stack.
		case bytecode.PUSH_BP, bytecode.PUSH_FP:
			bpStack = append(bpStack, ctx.FP)
		case bytecode.POP_BP, bytecode.POP_FP:
			if len(bpStack) == 0 {
				return nil, fmt.Errorf("vm: frame-pointer stack underflow at cell %d", pc)
			}
			ctx.FP = bpStack[len(bpStack)-1]
			bpStack = bpStack[:len(bpStack)-1]
		case bytecode.PUSH_PC:
			pcStack = append(pcStack, pc)
		case bytecode.POP_PC:
			if len(pcStack) == 0 {
				return nil, fmt.Errorf("vm: program-counter stack underflow at cell %d", pc)
			}
			next = pcStack[len(pcStack)-1]
			pcStack = pcStack[:len(pcStack)-1]
		case bytecode.MARK_FP:
			// No-op: CALL below already computed and set the new frame's
			// FP before jumping here, since its argument-count immediate
			// gives it everything MARK_FP would otherwise need.
		case bytecode.SET_NOT_TEMP:
			v, err := top()
			if err != nil {
				return nil, err
			}
			v.Flags().IsTemporary = false
		case bytecode.ADOPT:
			v, err := top()
			if err != nil {
				return nil, err
			}
			v.Flags().RequiresDeepCopy = false

		case bytecode.PEEK_GLOBAL:
			push(ctx.PeekGlobal(int(operands[0])))
		case bytecode.POKE_GLOBAL:
			v, err := top()
			if err != nil {
				return nil, err
			}
			ctx.PokeGlobal(int(operands[0]), v)
		case bytecode.PEEK_LOCAL:
			idx := ctx.FP + int(operands[0])
			if idx < 0 || idx >= len(ctx.Stack) {
				push(value.Null)
			} else {
				push(ctx.Stack[idx])
			}
		case bytecode.POKE_LOCAL:
			v, err := top()
			if err != nil {
				return nil, err
			}
			idx := ctx.FP + int(operands[0])
			for len(ctx.Stack) <= idx {
				ctx.Stack = append(ctx.Stack, value.Null)
			}
			ctx.Stack[idx] = v
		case bytecode.LOAD:
			idx := int(operands[0])
			if idx < 0 || idx >= len(functionConstants) {
				return nil, fmt.Errorf("vm: function constant %d out of range at cell %d", idx, pc)
			}
			push(functionConstants[idx])
		case bytecode.LOAD_LIBRARY:
			name := stringConstants[operands[0]]
			if lib, ok := ctx.Globals[name]; ok {
				push(lib)
			} else {
				push(value.NotImplemented(ctx))
			}

		case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.DIV, bytecode.MOD,
			bytecode.LT, bytecode.LE, bytecode.GT, bytecode.GE, bytecode.EQ, bytecode.NE,
			bytecode.AND, bytecode.OR:
			rhs, err := pop()
			if err != nil {
				return nil, err
			}
			lhs, err := pop()
			if err != nil {
				return nil, err
			}
			push(dispatchBinary(op, lhs, rhs, ctx))
		case bytecode.NEG, bytecode.NOT:
			operand, err := pop()
			if err != nil {
				return nil, err
			}
			push(dispatchUnary(op, operand, ctx))

		case bytecode.JMP:
			next = int(operands[0])
		case bytecode.JMPF:
			v, err := top()
			if err != nil {
				return nil, err
			}
			if !v.Flags().IsTrue {
				next = int(operands[0])
			}
		case bytecode.JMPT:
			v, err := top()
			if err != nil {
				return nil, err
			}
			if v.Flags().IsTrue {
				next = int(operands[0])
			}

		case bytecode.CALL:
			argc := int(operands[0])
			callee, err := pop()
			if err != nil {
				return nil, err
			}
			if fn, ok := callee.(*value.Function); ok {
				if len(ctx.Stack) < argc {
					return nil, fmt.Errorf("vm: call stack underflow at cell %d", pc)
				}
				pcStack = append(pcStack, next)
				bpStack = append(bpStack, ctx.FP)
				ctx.FP = len(ctx.Stack) - argc
				next = fn.BytecodeEntry
			} else {
				if len(ctx.Stack) < argc {
					return nil, fmt.Errorf("vm: call stack underflow at cell %d", pc)
				}
				start := len(ctx.Stack) - argc
				args := make([]value.Value, argc)
				copy(args, ctx.Stack[start:])
				ctx.Stack = ctx.Stack[:start]
				push(callee.Call(args, ctx))
			}
		case bytecode.RETURN:
			retval, err := pop()
			if err != nil {
				return nil, err
			}
			if len(bpStack) == 0 || len(pcStack) == 0 {
				return nil, fmt.Errorf("vm: return outside a function call at cell %d", pc)
			}
			savedFP := bpStack[len(bpStack)-1]
			bpStack = bpStack[:len(bpStack)-1]
			savedPC := pcStack[len(pcStack)-1]
			pcStack = pcStack[:len(pcStack)-1]
			ctx.Stack = ctx.Stack[:ctx.FP]
			ctx.FP = savedFP
			push(retval)
			next = savedPC

		case bytecode.PRINT:
			v, err := pop()
			if err != nil {
				return nil, err
			}
			push(v.Print(ctx))
		case bytecode.INDEX:
			idx, err := pop()
			if err != nil {
				return nil, err
			}
			receiver, err := pop()
			if err != nil {
				return nil, err
			}
			push(receiver.Index(idx, ctx))
		case bytecode.PERIOD:
			receiver, err := pop()
			if err != nil {
				return nil, err
			}
			push(receiver.Period(stringConstants[operands[0]], ctx))
		case bytecode.SLICE:
			skip, err := pop()
			if err != nil {
				return nil, err
			}
			end, err := pop()
			if err != nil {
				return nil, err
			}
			start, err := pop()
			if err != nil {
				return nil, err
			}
			receiver, err := pop()
			if err != nil {
				return nil, err
			}
			push(receiver.Slice(start, end, skip, ctx))
		case bytecode.ASSIGN_INDEX:
			val, err := pop()
			if err != nil {
				return nil, err
			}
			idx, err := pop()
			if err != nil {
				return nil, err
			}
			receiver, err := pop()
			if err != nil {
				return nil, err
			}
			push(receiver.AssignIndex(idx, val, ctx))
		case bytecode.ITERATOR:
			receiver, err := pop()
			if err != nil {
				return nil, err
			}
			push(receiver.IteratorGet(ctx))
		case bytecode.ITERATOR_NEXT:
			it, err := top()
			if err != nil {
				return nil, err
			}
			elem, hasNext := it.IteratorNext(ctx)
			push(elem)
			push(hasNext)
		case bytecode.NOP:
			// deliberately does nothing

		default:
			return nil, fmt.Errorf("vm: unhandled opcode %d at cell %d", op, pc)
		}

		pc = next
	}

	result, err := top()
	if err != nil {
		// An empty program (no instructions at all) has no result; Null
		// matches an empty Block's CompileToBytecode convention.
		return value.Null, nil
	}
	return result, nil
}

var typeTags = map[bytecode.TypeTag]value.Type{
	bytecode.TagInt:    value.IntegerType,
	bytecode.TagFloat:  value.FloatType,
	bytecode.TagBool:   value.BooleanType,
	bytecode.TagString: value.StringType,
}
