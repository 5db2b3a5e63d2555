package library_test

import (
	"testing"

	"github.com/tang-lang/tang/program"
	"github.com/tang-lang/tang/value"
)

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

func TestMathPi(t *testing.T) {
	result, ctx := run(t, `use math; math.pi`)
	if result.Type() != value.FloatType {
		t.Fatalf("math.pi type = %s, want Float", result.Type())
	}
	if got := result.ToString(ctx); got != "3.141592653589793" {
		t.Errorf("math.pi = %q, want %q", got, "3.141592653589793")
	}
}

func TestRandomGlobalIsSharedAcrossAccesses(t *testing.T) {
	// random.global is a process-wide singleton RNG (distinct from
	// random.default, which mints a fresh generator every access), so two
	// consecutive draws from it must come from the same sequence, not
	// independent generators seeded identically.
	result, ctx := run(t, `
use random;
global a = random.global.next_int;
global b = random.global.next_int;
a == b
`)
	if got := result.ToString(ctx); got != "false" {
		t.Errorf("two draws from random.global collided unexpectedly: got %q", got)
	}
}

func TestRandomSeededIsDeterministic(t *testing.T) {
	result, ctx := run(t, `
use random;
global a = random.seeded(42).next_int;
global b = random.seeded(42).next_int;
a == b
`)
	if got := result.ToString(ctx); got != "true" {
		t.Errorf("random.seeded(42) was not deterministic: got %q", got)
	}
}

func TestRandomNextFloatRange(t *testing.T) {
	result, ctx := run(t, `
use random;
global f = random.seeded(1).next_float;
f >= 0.0 && f <= 1.0
`)
	if got := result.ToString(ctx); got != "true" {
		t.Errorf("next_float out of [0,1] range: %s", result.ToString(ctx))
	}
}

func TestRandomNextBoolType(t *testing.T) {
	result, ctx := run(t, `use random; random.seeded(7).next_bool`)
	if result.Type() != value.BooleanType {
		t.Fatalf("next_bool type = %s, want Boolean", result.Type())
	}
}

func TestUnknownLibraryResolvesToNotImplemented(t *testing.T) {
	result, _ := run(t, `use nonexistent; nonexistent`)
	if !result.Flags().IsError {
		t.Fatalf("expected an error value for an unregistered library, got %s", result.Type())
	}
}
