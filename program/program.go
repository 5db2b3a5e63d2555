// Package program implements the Program and Execution Context (§3.5,
// §4.8): the top-level compile pipeline (parse, simplify, analyze,
// compile-to-bytecode, compile-to-native) and the per-run driver that
// prefers native execution when available and falls back to the
// portable bytecode VM otherwise.
package program

import (
	"fmt"

	"github.com/tang-lang/tang/ast"
	"github.com/tang-lang/tang/bytecode"
	"github.com/tang-lang/tang/compilectx"
	"github.com/tang-lang/tang/compiler"
	"github.com/tang-lang/tang/lexer"
	"github.com/tang-lang/tang/library"
	"github.com/tang-lang/tang/parser"
	"github.com/tang-lang/tang/scope"
	"github.com/tang-lang/tang/value"
	"github.com/tang-lang/tang/vm"
)

// Flags selects which compile stages Create runs. It has two fields,
// Debug and DisableNative; there is no duplicate-code or
// disable-bytecode switch.
type Flags struct {
	// Debug keeps the parsed/simplified AST's String() form available
	// via Program.Disassemble for inspection; it does not otherwise
	// change what gets compiled.
	Debug bool
	// DisableNative skips native compilation even on amd64, forcing
	// bytecode-only execution.
	DisableNative bool
}

// Program owns everything produced by compiling one source text: the
// AST, the bytecode sequence, and — on amd64, when native compilation
// succeeds and isn't disabled — a page of executable machine code.
type Program struct {
	Source string
	Flags  Flags

	root  *ast.Block
	scope *scope.Scope

	bytecodeCC *compilectx.Context
	native     *nativeProgram
}

// Create runs the full compile pipeline over source: lex, parse,
// simplify (constant folding and propagation), analyze (scope
// resolution), compile to bytecode, and — unless disabled — attempt
// native compilation (§4.8). A native-compile failure is not an error:
// it just leaves the Program bytecode-only, per §4.7's all-or-nothing
// native coverage.
func Create(source string, flags Flags) (*Program, error) {
	l := lexer.New(source)
	p := parser.New(l)
	root, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}

	root, rootScope, err := compiler.Prepare(root)
	if err != nil {
		return nil, err
	}

	bytecodeCC, err := compiler.CompileBytecode(root, rootScope)
	if err != nil {
		return nil, err
	}

	prog := &Program{
		Source:     source,
		Flags:      flags,
		root:       root,
		scope:      rootScope,
		bytecodeCC: bytecodeCC,
	}

	if !flags.DisableNative {
		prog.native = tryCompileNative(root, rootScope)
	}

	return prog, nil
}

// HasNative reports whether native compilation succeeded for this
// Program (always false on a non-amd64 build).
func (p *Program) HasNative() bool { return p.native != nil }

// Destroy releases the Program's executable page, if it has one.
// Bytecode and the AST need no explicit release; Go's collector
// reclaims them once the Program is unreferenced.
func (p *Program) Destroy() {
	if p.native != nil {
		p.native.release()
		p.native = nil
	}
}

// Execute runs the Program once against ctx, preferring the native
// entry point when one is available and not disabled, falling back to
// the portable bytecode VM otherwise (§4.8). The Execution Context must
// not be reused across a concurrent Execute call on the same or a
// different Program; see §4.8's single-threaded scheduling note.
func (p *Program) Execute(ctx *value.Context) (value.Value, error) {
	library.Register(ctx)

	if p.native != nil && !p.Flags.DisableNative {
		return p.native.run(ctx)
	}
	return vm.Run(ctx, p.bytecodeCC.Bytecode, p.bytecodeCC.StringConstants, p.bytecodeCC.FunctionConstants)
}

// Disassemble renders the compiled bytecode for debugging, in the same
// cell-by-cell form bytecode.Instructions.String provides. With
// Flags.Debug set, the simplified/analyzed AST's String() form is
// prepended, giving a before-and-after view of what Prepare did to the
// parse tree.
func (p *Program) Disassemble() string {
	code := bytecode.Instructions(p.bytecodeCC.Bytecode).String()
	if !p.Flags.Debug {
		return code
	}
	return fmt.Sprintf("AST:\n%s\n\nBytecode:\n%s", p.root.String(), code)
}
