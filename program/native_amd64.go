//go:build amd64

package program

import (
	"github.com/tang-lang/tang/ast"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/compiler"
	"github.com/tang-lang/tang/jit"
	"github.com/tang-lang/tang/scope"
	"github.com/tang-lang/tang/value"
)

// callNative is implemented in invoke_amd64.s: it sets R15 to ctx and
// calls entry, the address of a page produced by jit.MakeExecutable.
func callNative(entry uintptr, ctx *value.Context)

// nativeProgram holds a compiled-and-assembled executable page plus the
// string table it was baked against (StringConstAddr's addresses point
// into cc.StringConstants' backing arrays, so that slice must outlive
// every call into page.Entry).
type nativeProgram struct {
	page *jit.Page
	cc   *compilectx.Context
}

// tryCompileNative asks the compiler package to attempt §4.7 native
// compilation and, on success, assembles the result into an executable
// page. A nil return leaves the Program bytecode-only (§4.8); the
// Compiler Context compiler.CompileNative used is scoped to this
// attempt alone and never touches the bytecode path's Context.
func tryCompileNative(root *ast.Block, rootScope *scope.Scope) *nativeProgram {
	nativeCC, ok := compiler.CompileNative(root, rootScope)
	if !ok {
		return nil
	}

	page, err := jit.MakeExecutable(nativeCC.Native)
	if err != nil {
		return nil
	}

	return &nativeProgram{page: page, cc: nativeCC}
}

// run invokes the compiled entry point and reads the result back off
// ctx.Result (§3.5) — the entry point has nothing meaningful in its own
// return register, since callNative's asm stub discards RAX.
func (n *nativeProgram) run(ctx *value.Context) (value.Value, error) {
	ctx.Result = value.Null
	callNative(n.page.Entry, ctx)
	return ctx.Result, nil
}

func (n *nativeProgram) release() {
	if n.page != nil {
		_ = n.page.Free()
	}
}
