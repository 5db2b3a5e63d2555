package vm_test

import (
	"testing"

	"github.com/tang-lang/tang/program"
	"github.com/tang-lang/tang/value"
)

// run compiles source with native compilation disabled, forcing every
// test in this file through vm.Run regardless of host architecture.
func run(t *testing.T, source string) (value.Value, *value.Context) {
	t.Helper()
	prog, err := program.Create(source, program.Flags{DisableNative: true})
	if err != nil {
		t.Fatalf("program.Create(%q) error = %v", source, err)
	}
	ctx := value.NewContext()
	result, err := prog.Execute(ctx)
	if err != nil {
		t.Fatalf("Execute(%q) error = %v", source, err)
	}
	return result, ctx
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "3"},
		{"10 - 4", "6"},
		{"3 * 4", "12"},
		{"10 / 4", "2"},
		{"10 % 3", "1"},
		{"2.5 + 2.5", "5"},
		{"-5 + 10", "5"},
		{"1 < 2", "true"},
		{"2 < 1", "false"},
		{"1 == 1", "true"},
		{"1 != 1", "false"},
		{"!true", "false"},
		{"true && false", "false"},
		{"true || false", "true"},
	}

	for _, tt := range tests {
		result, ctx := run(t, tt.input)
		if got := result.ToString(ctx); got != tt.want {
			t.Errorf("input %q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVariablesAndAssignment(t *testing.T) {
	result, ctx := run(t, `global x = 1; x = x + 41; x`)
	if got := result.ToString(ctx); got != "42" {
		t.Errorf("got %q, want %q", got, "42")
	}
}

func TestIfElse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"if (true) { 1 } else { 2 }", "1"},
		{"if (false) { 1 } else { 2 }", "2"},
		{"if (1 < 2) { \"yes\" }", "yes"},
	}
	for _, tt := range tests {
		result, ctx := run(t, tt.input)
		if got := result.ToString(ctx); got != tt.want {
			t.Errorf("input %q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWhileLoop(t *testing.T) {
	result, ctx := run(t, `
global i = 0;
global sum = 0;
while (i < 5) {
	sum = sum + i;
	i = i + 1;
}
sum
`)
	if got := result.ToString(ctx); got != "10" {
		t.Errorf("got %q, want %q", got, "10")
	}
}

func TestForLoop(t *testing.T) {
	result, ctx := run(t, `
global sum = 0;
for (i = 0; i < 5; i = i + 1) {
	sum = sum + i;
}
sum
`)
	if got := result.ToString(ctx); got != "10" {
		t.Errorf("got %q, want %q", got, "10")
	}
}

func TestRangedFor(t *testing.T) {
	result, ctx := run(t, `
global sum = 0;
for (x in [1, 2, 3, 4]) {
	sum = sum + x;
}
sum
`)
	if got := result.ToString(ctx); got != "10" {
		t.Errorf("got %q, want %q", got, "10")
	}
}

func TestBreakContinue(t *testing.T) {
	result, ctx := run(t, `
global sum = 0;
global i = 0;
while (true) {
	i = i + 1;
	if (i > 10) { break; }
	if (i % 2 == 0) { continue; }
	sum = sum + i;
}
sum
`)
	if got := result.ToString(ctx); got != "25" {
		t.Errorf("got %q, want %q", got, "25")
	}
}

func TestFunctionCall(t *testing.T) {
	result, ctx := run(t, `
fn add(a, b) { return a + b; }
add(3, 4)
`)
	if got := result.ToString(ctx); got != "7" {
		t.Errorf("got %q, want %q", got, "7")
	}
}

func TestRecursiveFunction(t *testing.T) {
	result, ctx := run(t, `
fn fib(n) {
	if (n < 2) { return n; }
	return fib(n - 1) + fib(n - 2);
}
fib(10)
`)
	if got := result.ToString(ctx); got != "55" {
		t.Errorf("got %q, want %q", got, "55")
	}
}

func TestArrayAndIndex(t *testing.T) {
	result, ctx := run(t, `
global arr = [1, 2, 3];
arr[1]
`)
	if got := result.ToString(ctx); got != "2" {
		t.Errorf("got %q, want %q", got, "2")
	}
}

func TestSlice(t *testing.T) {
	result, ctx := run(t, `
global arr = [1, 2, 3, 4, 5];
arr[1:4]
`)
	if got := result.ToString(ctx); got != "[2, 3, 4]" {
		t.Errorf("got %q, want %q", got, "[2, 3, 4]")
	}
}

func TestMapAndPeriod(t *testing.T) {
	result, ctx := run(t, `
global m = {"a": 1, "b": 2};
m.a + m["b"]
`)
	if got := result.ToString(ctx); got != "3" {
		t.Errorf("got %q, want %q", got, "3")
	}
}

func TestCast(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"5" as_int`, "5"},
		{"5 as_float", "5"},
		{"5 as_string", "5"},
		{"0 as_bool", "false"},
	}
	for _, tt := range tests {
		result, ctx := run(t, tt.input)
		if got := result.ToString(ctx); got != tt.want {
			t.Errorf("input %q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTernary(t *testing.T) {
	result, ctx := run(t, `1 < 2 ? "a" : "b"`)
	if got := result.ToString(ctx); got != "a" {
		t.Errorf("got %q, want %q", got, "a")
	}
}

func TestDivideByZero(t *testing.T) {
	result, ctx := run(t, `1 / 0`)
	if !result.Flags().IsError {
		t.Fatalf("expected an error value, got %s", result.ToString(ctx))
	}
}

func TestPrintAppendsOutput(t *testing.T) {
	_, ctx := run(t, `print "hello"; print " world";`)
	if got := ctx.Output(); got != "hello world" {
		t.Errorf("Output() = %q, want %q", got, "hello world")
	}
}
