package parser

import (
	"testing"

	"github.com/tang-lang/tang/ast"
	"github.com/tang-lang/tang/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Block {
	t.Helper()
	p := New(lexer.New(input))
	root, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	return root
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5", "5"},
		{"3.5", "3.5"},
		{"true", "true"},
		{"false", "false"},
		{"null", "null"},
		{`"hello"`, `"hello"`},
	}

	for _, tt := range tests {
		root := parseProgram(t, tt.input)
		if len(root.Statements) != 1 {
			t.Fatalf("input %q: expected 1 statement, got %d", tt.input, len(root.Statements))
		}
	}
}

func TestParseInfixPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 < 2 == true", "((1 < 2) == true)"},
		{"a.b[0]", "((a.b)[0])"},
		{"1 + 2 == 3 && 4 < 5", "(((1 + 2) == 3) && (4 < 5))"},
	}

	for _, tt := range tests {
		root := parseProgram(t, tt.input)
		if len(root.Statements) != 1 {
			t.Fatalf("input %q: expected 1 statement, got %d", tt.input, len(root.Statements))
		}
		if got := root.Statements[0].String(); got != tt.want {
			t.Errorf("input %q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseGlobalAndUse(t *testing.T) {
	root := parseProgram(t, `global x = 1; use Math;`)
	if len(root.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(root.Statements))
	}
	if _, ok := root.Statements[0].(*ast.Global); !ok {
		t.Fatalf("statement 0 = %T, want *ast.Global", root.Statements[0])
	}
	if _, ok := root.Statements[1].(*ast.Use); !ok {
		t.Fatalf("statement 1 = %T, want *ast.Use", root.Statements[1])
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	root := parseProgram(t, `fn add(a, b) { return a + b; }`)
	if len(root.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(root.Statements))
	}
	fn, ok := root.Statements[0].(*ast.Function)
	if !ok {
		t.Fatalf("statement = %T, want *ast.Function", root.Statements[0])
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
}

// TestParseForDisambiguation exercises the backtracking for's-variable
// vs C-style-for lookahead (parserState.snapshot/restore).
func TestParseForDisambiguation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // concrete node type of the resulting statement
	}{
		{"ranged", `for (x in arr) { print x; }`, "*ast.RangedFor"},
		{"c-style", `for (i = 0; i < 10; i = i + 1) { print i; }`, "*ast.For"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseProgram(t, tt.input)
			if len(root.Statements) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(root.Statements))
			}
			switch tt.want {
			case "*ast.RangedFor":
				if _, ok := root.Statements[0].(*ast.RangedFor); !ok {
					t.Fatalf("got %T, want *ast.RangedFor", root.Statements[0])
				}
			case "*ast.For":
				if _, ok := root.Statements[0].(*ast.For); !ok {
					t.Fatalf("got %T, want *ast.For", root.Statements[0])
				}
			}
		})
	}
}

func TestParseIndexVsSlice(t *testing.T) {
	root := parseProgram(t, `a[0]; a[0:2]; a[0:2:1];`)
	if len(root.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(root.Statements))
	}
	if _, ok := root.Statements[0].(*ast.Index); !ok {
		t.Fatalf("statement 0 = %T, want *ast.Index", root.Statements[0])
	}
	if _, ok := root.Statements[1].(*ast.Slice); !ok {
		t.Fatalf("statement 1 = %T, want *ast.Slice", root.Statements[1])
	}
	if _, ok := root.Statements[2].(*ast.Slice); !ok {
		t.Fatalf("statement 2 = %T, want *ast.Slice", root.Statements[2])
	}
}

func TestParseCastVsGrouped(t *testing.T) {
	root := parseProgram(t, `(1 + 2); (1 + 2) as_float;`)
	if len(root.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(root.Statements))
	}
	if _, ok := root.Statements[0].(*ast.Cast); ok {
		t.Fatalf("statement 0 should not be a cast, got %T", root.Statements[0])
	}
	if _, ok := root.Statements[1].(*ast.Cast); !ok {
		t.Fatalf("statement 1 = %T, want *ast.Cast", root.Statements[1])
	}
}

func TestParseErrors(t *testing.T) {
	p := New(lexer.New(`1 + ;`))
	_, err := p.ParseProgram()
	if err == nil && len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error for a missing right-hand operand")
	}
}

func TestParseTernaryAndMap(t *testing.T) {
	root := parseProgram(t, `x ? 1 : 2; {"a": 1, b: 2};`)
	if len(root.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(root.Statements))
	}
	if _, ok := root.Statements[0].(*ast.Ternary); !ok {
		t.Fatalf("statement 0 = %T, want *ast.Ternary", root.Statements[0])
	}
	m, ok := root.Statements[1].(*ast.Map)
	if !ok {
		t.Fatalf("statement 1 = %T, want *ast.Map", root.Statements[1])
	}
	if len(m.Entries) != 2 {
		t.Fatalf("expected 2 map entries, got %d", len(m.Entries))
	}
}
