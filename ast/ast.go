// Package ast defines Tang's abstract syntax tree (§3.3). Every variant
// supports the operations §4.2 and §4.5 describe: destroy, print (here,
// the idiomatic Go Stringer), simplify, analyze, walk, and
// compile-to-bytecode. compile-to-native (§4.7) is declared as a
// separate NativeCompiler interface implemented only on amd64 builds
// (native_amd64.go), since the bytecode path must stay host-portable.
//
// The shape follows the teacher's ast.Node/Statement/Expression split
// (dr8co/kong's ast/ast.go), generalized from Monke's handful of
// statement/expression kinds to Tang's fuller grammar, and from a single
// String-only contract to the simplify/analyze/walk/compile passes
// §4.2/§4.5 add on top.
package ast

import (
	"fmt"

	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
)

// PossibleType is the type hint every node carries (§3.3): Unknown until
// analysis narrows it, Null/Boolean/Integer/Float/String once it can be
// inferred from a literal or a resolved declaration.
type PossibleType int

//nolint:revive
const (
	TypeUnknown PossibleType = iota
	TypeNull
	TypeBoolean
	TypeInteger
	TypeFloat
	TypeString
)

// Position is a source location span (line/column), filled in by the
// parser.
type Position struct {
	Line   int
	Column int
}

// Base is embedded by every concrete node and supplies the fields common
// to all of them (§3.3: "operation table pointer, source location,
// possible_type hint, is_singleton"). The operation table pointer itself
// has no Go equivalent — method dispatch on the concrete type plays that
// role, the same substitution value's Default makes for the Value
// Kernel's vtable.
type Base struct {
	Pos          Position
	PossibleType PossibleType
	IsSingleton  bool
}

func (b *Base) Position() Position { return b.Pos }

// VarMap is simplify's constant-propagation table: identifier hash to
// the literal node currently known to be its value (§4.2).
type VarMap map[uint64]Node

// Clone returns a shallow copy of vm, used when if/else forks the map
// along two branches that must be reconciled afterwards.
func (vm VarMap) Clone() VarMap {
	out := make(VarMap, len(vm))
	for k, v := range vm {
		out[k] = v
	}
	return out
}

// Intersect keeps only entries present and identical (by pointer) in
// both vm and other — the reconciliation §4.2 requires after if/else
// descends with two forked maps.
func (vm VarMap) Intersect(other VarMap) VarMap {
	out := make(VarMap, len(vm))
	for k, v := range vm {
		if ov, ok := other[k]; ok && ov == v {
			out[k] = v
		}
	}
	return out
}

// Node is the interface every AST variant implements.
type Node interface {
	// Destroy releases resources the node does not own via the tree's
	// ownership chain. Built-in nodes hold nothing beyond what Go's
	// collector reclaims; their implementations only recurse into
	// children or do nothing.
	Destroy()

	// String renders the node for debugging and disassembly dumps —
	// Tang's analogue of §3.3's "print" operation, following the
	// teacher's Stringer-based ast.Node contract rather than inventing a
	// separate Print method.
	String() string

	// Simplify performs constant folding and literal propagation driven
	// by vars, returning the (possibly replaced) node. The original
	// subtree must not be mutated until the replacement is confirmed;
	// on an internal failure a node should return itself unchanged
	// rather than a partially folded tree.
	Simplify(vars VarMap) (Node, error)

	// Analyze walks the tree carrying the current scope, populating
	// scope maps and resolving identifiers per §4.2.
	Analyze(sc *scope.Scope) error

	// Walk invokes fn for this node (pre-order) and then for every
	// child, in source order, stopping at the first error.
	Walk(fn func(Node) error) error

	// CompileToBytecode emits this node's instruction sequence into cc.
	CompileToBytecode(cc *compilectx.Context) error
}

// NativeCompiler is implemented on amd64 builds by the subset of node
// kinds in native_amd64.go; compiler.CompileNative type-asserts against
// it, and a Program whose tree cannot be compiled natively runs
// bytecode-only.
type NativeCompiler interface {
	CompileToNative(cc *compilectx.Context) error
}

// IsLiteral reports whether n is one of the constant-literal node kinds
// simplify folds toward and propagates through the variable map.
func IsLiteral(n Node) bool {
	switch n.(type) {
	case *Integer, *Float, *Boolean, *String, *Null:
		return true
	default:
		return false
	}
}

// emitAll compiles each of nodes in order, stopping at the first error —
// the shared helper Array/Map/FunctionCall/Block lean on.
func emitAll(cc *compilectx.Context, nodes []Node) error {
	for _, n := range nodes {
		if err := n.CompileToBytecode(cc); err != nil {
			return err
		}
	}
	return nil
}

// walkAll runs fn over each of children in order, stopping at the first
// error.
func walkAll(fn func(Node) error, children ...Node) error {
	for _, c := range children {
		if c == nil {
			continue
		}
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// redeclarationError is returned by Analyze when a `use`, `global`, or
// function declaration collides with an existing binding — a plain Go
// error rather than a ParseError node, since semantic-analysis failures
// are internal-compiler errors, not something the parser produced.
func redeclarationError(kind, name string) error {
	return fmt.Errorf("ast: %s %q already declared", kind, name)
}
