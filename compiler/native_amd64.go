//go:build amd64

package compiler

import (
	"github.com/tang-lang/tang/ast"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/jit"
	"github.com/tang-lang/tang/scope"
)

// CompileNative attempts §4.7 native compilation of root into a fresh
// Compiler Context, entirely separate from the one CompileBytecode
// writes into: native compilation can fail partway through any node
// that doesn't implement ast.NativeCompiler, or whose CompileToNative
// itself reports a construct the JIT can't lower (loops, `&&`/`||`,
// Global/Use/Cast/Ternary/Array/Map/Slice/Period/RangedFor), and a
// partial write into the bytecode Context's shared label table would
// leave stray, unresolved native jump sites behind even though the
// bytecode path never uses them. On any failure CompileNative returns
// nil, ok=false and the caller's Program stays bytecode-only.
func CompileNative(root *ast.Block, rootScope *scope.Scope) (cc *compilectx.Context, ok bool) {
	n, isNative := ast.Node(root).(ast.NativeCompiler)
	if !isNative {
		return nil, false
	}

	nativeCC := compilectx.New()
	nativeCC.PushScope(rootScope)

	if err := n.CompileToNative(nativeCC); err != nil {
		return nil, false
	}

	// Every path through root's body that would hand back a result
	// (an explicit `return`, or simply falling off the end) converges
	// here with its value in RAX.
	nativeCC.SetLabelNative(nativeCC.ReturnLabel)
	jit.EmitStoreResult(nativeCC)
	jit.New(nativeCC).Ret()

	if err := nativeCC.PatchAll(); err != nil {
		return nil, false
	}
	return nativeCC, true
}
