//go:build !amd64

package compiler

import (
	"github.com/tang-lang/tang/ast"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
)

// CompileNative always reports ok=false on non-amd64 builds: there is
// no JIT emitter to target (§4.7 is amd64-only), so every Program on
// these architectures is bytecode-only by construction rather than by
// a per-node fallback decision.
func CompileNative(_ *ast.Block, _ *scope.Scope) (*compilectx.Context, bool) {
	return nil, false
}
