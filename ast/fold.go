package ast

import "math"

// floatBits reinterprets v as the bit pattern a FLOAT bytecode
// instruction's immediate carries (§4.3: "a cell holds any of: integer,
// unsigned integer, float, boolean, pointer" — Go's Cell is declared as
// int64, so a float64 crosses through its bit pattern).
func floatBits(v float64) uint64 { return math.Float64bits(v) }

func floatFromBits(bits uint64) float64 { return math.Float64frombits(bits) }

// numeric extracts a literal node's value as a float64 plus whether it
// was originally an Integer, for promotion purposes (§4.2: "respecting
// numeric promotion").
func numeric(n Node) (v float64, isInt bool, ok bool) {
	switch t := n.(type) {
	case *Integer:
		return float64(t.Value), true, true
	case *Float:
		return t.Value, false, true
	default:
		return 0, false, false
	}
}

// foldBinary attempts compile-time constant folding of op over two
// literal operands, returning the replacement node and true on success.
// Division/modulo by a literal zero are deliberately left unfolded (no
// AST error-value variant exists to carry the divide_by_zero singleton
// at compile time); they simply pass through to runtime.
func foldBinary(op string, lhs, rhs Node, pos Position) (Node, bool) {
	if s1, ok1 := lhs.(*String); ok1 {
		if s2, ok2 := rhs.(*String); ok2 && op == "+" {
			return &String{Base: Base{Pos: pos}, Value: s1.Value + s2.Value}, true
		}
		return nil, false
	}
	if b1, ok1 := lhs.(*Boolean); ok1 {
		b2, ok2 := rhs.(*Boolean)
		if !ok2 {
			return nil, false
		}
		switch op {
		case "&&":
			return &Boolean{Base: Base{Pos: pos}, Value: b1.Value && b2.Value}, true
		case "||":
			return &Boolean{Base: Base{Pos: pos}, Value: b1.Value || b2.Value}, true
		case "==":
			return &Boolean{Base: Base{Pos: pos}, Value: b1.Value == b2.Value}, true
		case "!=":
			return &Boolean{Base: Base{Pos: pos}, Value: b1.Value != b2.Value}, true
		}
		return nil, false
	}

	lv, lInt, lok := numeric(lhs)
	rv, rInt, rok := numeric(rhs)
	if !lok || !rok {
		return nil, false
	}
	bothInt := lInt && rInt

	switch op {
	case "+", "-", "*":
		var r float64
		switch op {
		case "+":
			r = lv + rv
		case "-":
			r = lv - rv
		case "*":
			r = lv * rv
		}
		if bothInt {
			return &Integer{Base: Base{Pos: pos}, Value: int64(r)}, true
		}
		return &Float{Base: Base{Pos: pos}, Value: r}, true
	case "/":
		if rv == 0 {
			return nil, false
		}
		if bothInt {
			return &Integer{Base: Base{Pos: pos}, Value: int64(lv) / int64(rv)}, true
		}
		return &Float{Base: Base{Pos: pos}, Value: lv / rv}, true
	case "%":
		if !bothInt || int64(rv) == 0 {
			return nil, false
		}
		return &Integer{Base: Base{Pos: pos}, Value: int64(lv) % int64(rv)}, true
	case "<":
		return &Boolean{Base: Base{Pos: pos}, Value: lv < rv}, true
	case "<=":
		return &Boolean{Base: Base{Pos: pos}, Value: lv <= rv}, true
	case ">":
		return &Boolean{Base: Base{Pos: pos}, Value: lv > rv}, true
	case ">=":
		return &Boolean{Base: Base{Pos: pos}, Value: lv >= rv}, true
	case "==":
		return &Boolean{Base: Base{Pos: pos}, Value: lv == rv}, true
	case "!=":
		return &Boolean{Base: Base{Pos: pos}, Value: lv != rv}, true
	}
	return nil, false
}

// foldUnary attempts compile-time constant folding of a unary operator
// over a literal operand.
func foldUnary(op string, operand Node, pos Position) (Node, bool) {
	switch op {
	case "-":
		switch t := operand.(type) {
		case *Integer:
			return &Integer{Base: Base{Pos: pos}, Value: -t.Value}, true
		case *Float:
			return &Float{Base: Base{Pos: pos}, Value: -t.Value}, true
		}
	case "!":
		if t, ok := operand.(*Boolean); ok {
			return &Boolean{Base: Base{Pos: pos}, Value: !t.Value}, true
		}
	}
	return nil, false
}
