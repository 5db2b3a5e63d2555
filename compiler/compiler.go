// Package compiler drives the AST through semantic analysis and code
// generation (§4.2, §4.4-§4.7). Unlike the teacher's compiler package,
// which walks an ast.Node tree itself and emits bytecode.Instructions
// from a central switch, Tang's ast package carries CompileToBytecode/
// CompileToNative methods directly on each node (§4.5/§4.7); this
// package is the thin driver that runs Simplify and Analyze ahead of
// emission and owns the decision of which Compiler Context each code
// generation pass writes into.
package compiler

import (
	"fmt"

	"github.com/tang-lang/tang/ast"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
)

// Prepare runs constant folding/propagation (Simplify) and scope
// resolution (Analyze) over root in place, returning the (possibly
// folded) root block and the root scope both later compile passes
// share.
func Prepare(root *ast.Block) (*ast.Block, *scope.Scope, error) {
	simplified, err := root.Simplify(make(ast.VarMap))
	if err != nil {
		return nil, nil, fmt.Errorf("compiler: simplify: %w", err)
	}
	block, ok := simplified.(*ast.Block)
	if !ok {
		// Block.Simplify always returns itself; this only fires if a
		// future node variant breaks that contract.
		return nil, nil, fmt.Errorf("compiler: simplify: top level did not stay a block (%T)", simplified)
	}

	rootScope := scope.NewRoot()
	if err := block.Analyze(rootScope); err != nil {
		return nil, nil, fmt.Errorf("compiler: analyze: %w", err)
	}
	return block, rootScope, nil
}

// CompileBytecode emits root's portable bytecode form into a fresh
// Compiler Context, patches every recorded jump site, and returns the
// Context (callers read Bytecode/StringConstants/FunctionConstants off
// it). This is the fallback every Program relies on (§4.8); it still
// returns an error for a tree that passed Prepare but cannot be
// compiled, such as an assignment to a function or library name, a
// break or continue outside a loop, or an unsupported cast target.
func CompileBytecode(root *ast.Block, rootScope *scope.Scope) (*compilectx.Context, error) {
	cc := compilectx.New()
	cc.PushScope(rootScope)
	if err := root.CompileToBytecode(cc); err != nil {
		return nil, fmt.Errorf("compiler: compile: %w", err)
	}
	cc.PopScope()
	if err := cc.PatchAll(); err != nil {
		return nil, fmt.Errorf("compiler: compile: %w", err)
	}
	return cc, nil
}
