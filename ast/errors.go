package ast

import (
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/scope"
)

// ParseError is the AST node the parser produces at the root in place of
// a real tree when source cannot be parsed (§3.3, §6.2). A handful of
// well-known instances are process-wide singletons that are never
// destroyed, mirroring the Value Kernel's singleton error treatment.
type ParseError struct {
	Base
	Message string
}

var _ Node = (*ParseError)(nil)

func (n *ParseError) Destroy() {
	if n.IsSingleton {
		return
	}
}

func (n *ParseError) String() string { return "parse error: " + n.Message }

func (n *ParseError) Simplify(VarMap) (Node, error) { return n, nil }

func (n *ParseError) Analyze(*scope.Scope) error { return nil }

func (n *ParseError) Walk(fn func(Node) error) error { return fn(n) }

func (n *ParseError) CompileToBytecode(*compilectx.Context) error {
	return &ParseCompileError{Message: n.Message}
}

// ParseCompileError is returned when compilation reaches a ParseError
// node still attached to the tree — compilation must never be attempted
// on a program whose parse failed, but this makes the failure mode
// explicit rather than silently emitting nonsense bytecode.
type ParseCompileError struct{ Message string }

func (e *ParseCompileError) Error() string { return "ast: " + e.Message }

func newSingletonParseError(message string) *ParseError {
	return &ParseError{Base: Base{IsSingleton: true}, Message: message}
}

// Shared ParseError singletons (§3.3: "out-of-memory, function-redeclared,
// identifier-redeclared, global-identifier-redeclared"). Tang's Go
// rendition has no host allocator to fail, so OutOfMemory exists for
// parity with the parser contract (§6.2) rather than ever being raised by
// this package itself.
var (
	OutOfMemory                = newSingletonParseError("out of memory")
	FunctionRedeclared         = newSingletonParseError("function already declared")
	IdentifierRedeclared       = newSingletonParseError("identifier already declared in this scope")
	GlobalIdentifierRedeclared = newSingletonParseError("identifier already declared as a global")
)
