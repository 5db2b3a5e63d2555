//go:build !amd64

package program

import (
	"github.com/tang-lang/tang/ast"
	"github.com/tang-lang/tang/scope"
	"github.com/tang-lang/tang/value"
)

// nativeProgram is never populated on non-amd64 builds: there is no JIT
// emitter to target (§4.7 is amd64-only), so every Program on these
// architectures runs through the bytecode VM only.
type nativeProgram struct{}

func tryCompileNative(_ *ast.Block, _ *scope.Scope) *nativeProgram { return nil }

func (n *nativeProgram) run(_ *value.Context) (value.Value, error) { return nil, nil }

func (n *nativeProgram) release() {}
